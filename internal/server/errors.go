package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/matthieukhl/nexsales/internal/assistant"
	"github.com/matthieukhl/nexsales/internal/response"
	"github.com/matthieukhl/nexsales/internal/store"
)

// ErrorResponse is the body of every failed API call.
// Code is machine oriented (snake_case), Message is short and human readable.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

const (
	codeValidation = "validation_error"
	codeNotFound   = "not_found"
	codeConflict   = "conflict"
	codeUpstream   = "upstream_unavailable"
	codeInternal   = "internal_error"
)

func abortWith(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Code: code, Message: msg})
}

func (s *Server) badRequest(c *gin.Context, err error) {
	s.log.Warn("invalid request body", zap.String("path", c.FullPath()), zap.Error(err))
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Code:    codeValidation,
		Message: "invalid request body",
		Details: err.Error(),
	})
}

// writeError maps domain errors onto HTTP statuses
func (s *Server) writeError(c *gin.Context, err error) {
	var nf *store.NotFoundError
	switch {
	case errors.As(err, &nf):
		abortWith(c, http.StatusNotFound, codeNotFound, nf.Error())
	case errors.Is(err, store.ErrDuplicateID):
		abortWith(c, http.StatusConflict, codeConflict, err.Error())
	case errors.Is(err, store.ErrInvalidProduct),
		errors.Is(err, store.ErrInvalidOrder),
		errors.Is(err, store.ErrInvalidStatus),
		errors.Is(err, store.ErrQuantityOverflow):
		abortWith(c, http.StatusBadRequest, codeValidation, err.Error())
	case errors.Is(err, response.ErrUpstream), errors.Is(err, assistant.ErrMockData):
		s.log.Warn("assistant unavailable", zap.String("path", c.FullPath()), zap.Error(err))
		abortWith(c, http.StatusBadGateway, codeUpstream, "assistant service unavailable")
	default:
		s.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		abortWith(c, http.StatusInternalServerError, codeInternal, "internal server error")
	}
}
