package common

import "net/http"

// SuccessResponse is the envelope every service operation resolves to.
// Failures travel inside the envelope rather than as a returned error, so
// callers always get something renderable.
type SuccessResponse struct {
	Status  int         `json:"status"`
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

type ErrorResponse struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}, message string) SuccessResponse {
	return SuccessResponse{
		Status:  http.StatusOK,
		Success: true,
		Message: message,
		Data:    data,
	}
}

func NewErrorResponse(message string, data interface{}, status int) ErrorResponse {
	return ErrorResponse{
		Status:  status,
		Message: message,
		Success: false,
		Data:    data,
	}
}

// HTTPStatus extracts the status code from either envelope so handlers can
// relay service results without type-switching at every call site.
func HTTPStatus(result interface{}) int {
	switch r := result.(type) {
	case SuccessResponse:
		if r.Status != 0 {
			return r.Status
		}
		return http.StatusOK
	case ErrorResponse:
		if r.Status != 0 {
			return r.Status
		}
		return http.StatusBadRequest
	}
	return http.StatusOK
}
