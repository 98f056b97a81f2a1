package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	billingdomain "github.com/andeslabs/facturador/internal/billing/domain"
	companydomain "github.com/andeslabs/facturador/internal/company/domain"
	"github.com/andeslabs/facturador/internal/staging"
)

var ErrInvalidRequest = errors.New("invalid request")

type validationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *validationError) Error() string { return e.Message }

func newValidationError(field, code, message string) error {
	return &validationError{Field: field, Code: code, Message: message}
}

// AbortWithError maps domain errors onto HTTP responses. Input defects in
// the uploaded spreadsheets come back as 422 so callers can distinguish a
// bad file from a bad request.
func AbortWithError(c *gin.Context, err error) {
	var vErr *validationError
	switch {
	case errors.As(err, &vErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"field": vErr.Field, "code": vErr.Code, "message": vErr.Message},
		})
	case errors.Is(err, ErrInvalidRequest):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": err.Error()}})
	case errors.Is(err, billingdomain.ErrUnsupportedFormat),
		errors.Is(err, billingdomain.ErrMissingSheet),
		errors.Is(err, billingdomain.ErrMissingColumn),
		errors.Is(err, billingdomain.ErrNoData):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": gin.H{"message": err.Error()}})
	case errors.Is(err, companydomain.ErrUnknownCompany),
		errors.Is(err, staging.ErrRunNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": gin.H{"message": err.Error()}})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": err.Error()}})
	}
}
