package dto

// SupportRequest payload.
type SupportRequest struct {
	Category string `json:"category"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
}
