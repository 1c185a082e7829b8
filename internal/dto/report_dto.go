package dto

type CreateReportRequest struct {
	Tags              []string `json:"tags"`
	Type              string   `json:"type"`
	ReportedElementID string   `json:"reportedElementId"`
}

type DecideReportRequest struct {
	Status string `json:"status"`
}
