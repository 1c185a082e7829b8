package dto

type CreatePostRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// UpdatePostRequest only touches the fields that are present.
type UpdatePostRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
}

type CommentPostRequest struct {
	Content string `json:"content"`
}
