package dto

import "time"

// APIResponse is the success envelope for every JSON endpoint
type APIResponse struct {
	Success   bool        `json:"success" example:"true"`
	Data      interface{} `json:"data,omitempty"`
	Message   string      `json:"message,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewAPIResponse wraps data in the success envelope
func NewAPIResponse(data interface{}) APIResponse {
	return APIResponse{Success: true, Data: data, Timestamp: time.Now()}
}

// NewMessageResponse is a success envelope with a message and optional data
func NewMessageResponse(message string, data interface{}) APIResponse {
	return APIResponse{Success: true, Data: data, Message: message, Timestamp: time.Now()}
}
