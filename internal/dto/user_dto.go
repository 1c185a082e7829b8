package dto

type UpdateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Name     *string `json:"name"`
	Lastname *string `json:"lastname"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role"`
}
