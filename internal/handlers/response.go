package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openlumen/catalog/internal/search"
	"github.com/openlumen/catalog/internal/services"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// RespondSearchError maps structured search errors to 400 with their full
// shape; anything else is a 500.
func RespondSearchError(c *gin.Context, err error) {
	var searchErr *search.Error
	if errors.As(err, &searchErr) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []*search.Error{searchErr}})
		return
	}
	RespondError(c, http.StatusInternalServerError, "search_failed", err)
}

// RespondServiceError maps service-layer sentinels to their HTTP status.
func RespondServiceError(c *gin.Context, code string, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, services.ErrValidation):
		RespondError(c, http.StatusUnprocessableEntity, "validation_failed", err)
	case errors.Is(err, services.ErrTaxonomyInUse):
		RespondError(c, http.StatusConflict, "taxonomy_in_use", err)
	default:
		RespondError(c, http.StatusInternalServerError, code, err)
	}
}
