package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/stratosoft/ragline/internal/domain"
)

// Envelope is the uniform response body for every endpoint. Success carries
// content and title; failure carries the error message with success=false.
type Envelope struct {
	Content string `json:"content"`
	Title   string `json:"title"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// JSON writes a JSON response with the given status code
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Success writes a success envelope
func Success(w http.ResponseWriter, content, title string) {
	JSON(w, http.StatusOK, Envelope{
		Content: content,
		Title:   title,
		Success: true,
	})
}

// Error writes an error envelope with the given status code
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{
		Success: false,
		Error:   message,
	})
}

// DomainErrorToHTTP maps domain errors to HTTP status codes
func DomainErrorToHTTP(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *domain.DomainError
	if !errors.As(err, &domainErr) {
		return http.StatusInternalServerError
	}

	switch domainErr.Code {
	case domain.ErrCodeValidation:
		return http.StatusBadRequest
	case domain.ErrCodeNotFound:
		return http.StatusNotFound
	case domain.ErrCodeInvalidState:
		return http.StatusConflict
	case domain.ErrCodeProvider:
		return http.StatusBadGateway
	case domain.ErrCodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// HandleError writes an error envelope based on the error type
func HandleError(w http.ResponseWriter, err error) {
	status := DomainErrorToHTTP(err)
	message := err.Error()
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		message = domainErr.Message
	}
	Error(w, status, message)
}
