package dto

import "time"

// APIResponse is the envelope every endpoint answers with
type APIResponse struct {
	Success   bool        `json:"success" example:"true"`
	Message   string      `json:"message,omitempty" example:"Operation completed successfully"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty" example:"courseName is required"`
	Code      ErrorCode   `json:"code,omitempty" example:"VAL_001"`
	Timestamp time.Time   `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewSuccessResponse wraps data in a successful envelope
func NewSuccessResponse(data interface{}, message string) APIResponse {
	return APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// NewErrorResponse creates a failed envelope
func NewErrorResponse(code ErrorCode, message string) APIResponse {
	return APIResponse{
		Success:   false,
		Error:     message,
		Code:      code,
		Timestamp: time.Now(),
	}
}

// WithData attaches a payload to a failed envelope
func (r APIResponse) WithData(data interface{}) APIResponse {
	r.Data = data
	return r
}

// WithMessage sets the envelope message
func (r APIResponse) WithMessage(message string) APIResponse {
	r.Message = message
	return r
}
