package types

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type MessageResponse struct {
	Success bool   `json:"success,omitempty"`
	Message string `json:"message"`
}
