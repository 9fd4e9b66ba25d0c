package dto

import "github.com/omnia/backend/internal/domain/shared"

// Response represents a standard API response
type Response struct {
	Success bool                `json:"success"`
	Data    interface{}         `json:"data,omitempty"`
	Error   *shared.DomainError `json:"error,omitempty"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewErrorResponse creates an error response carrying a domain error
func NewErrorResponse(code, message string) Response {
	return Response{
		Success: false,
		Error:   shared.NewDomainError(code, message),
	}
}
