// Package response writes JSON bodies and maps domain errors to HTTP status codes.
package response

import (
	"net/http"

	"github.com/adoptly/service-adoption/internal/domain"
	"github.com/gin-gonic/gin"
)

const internalMessage = "internal server error"

// ErrorBody is the envelope of every error response.
type ErrorBody struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Code      string `json:"code"`
	Error     string `json:"error,omitempty"`
	Requested *int   `json:"requested,omitempty"`
	Available *int   `json:"available,omitempty"`
}

// Success writes a 200 with data as the body.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created writes a 201 with data as the body.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// BadRequest writes a 400 validation envelope.
func BadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorBody{
		Message: message,
		Code:    string(domain.CodeValidation),
	})
}

// Error maps err to a status code and envelope. Errors that are not domain
// errors become 500 and are attached to the gin context for the logger.
func Error(c *gin.Context, err error) {
	de, ok := domain.AsDomainError(err)
	if !ok {
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorBody{
			Message: internalMessage,
			Code:    "INTERNAL_ERROR",
			Error:   err.Error(),
		})
		return
	}

	body := ErrorBody{Message: de.Message, Code: string(de.Code)}
	if de.Stock != nil {
		requested, available := de.Stock.Requested, de.Stock.Available
		body.Requested = &requested
		body.Available = &available
	}
	c.AbortWithStatusJSON(StatusFor(de.Code), body)
}

// StatusFor returns the HTTP status for a domain error code.
func StatusFor(code domain.ErrorCode) int {
	switch code {
	case domain.CodeValidation, domain.CodeInvalidIdentifier, domain.CodeInsufficientStock:
		return http.StatusBadRequest
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
