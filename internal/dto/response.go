package dto

import "github.com/userhub/user-directory-api/internal/validation"

// Response is the canonical envelope for every endpoint, success or failure.
// `errors` is populated on 400 responses with one entry per failed field.
type Response struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message,omitempty"`
	Data    interface{}             `json:"data,omitempty"`
	Errors  []validation.FieldError `json:"errors,omitempty"`
	Stack   string                  `json:"stack,omitempty"`
}

// OK wraps data in a success envelope.
func OK(data interface{}) Response {
	return Response{Success: true, Data: data}
}

// OKWithMessage wraps data in a success envelope with a message.
func OKWithMessage(message string, data interface{}) Response {
	return Response{Success: true, Message: message, Data: data}
}
