package handlers

import (
	"errors"
	"net/http"

	"github.com/geocoder89/standupbot/internal/domain/standup"
	"github.com/geocoder89/standupbot/internal/domain/team"
	"github.com/geocoder89/standupbot/internal/domain/user"
	"github.com/gin-gonic/gin"
)

type APIError struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"requestId,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}

func requestIDFrom(ctx *gin.Context) string {
	v, ok := ctx.Get("request_id")

	if ok {
		s, ok := v.(string)
		if ok && s != "" {
			return s
		}
	}

	// fallback header
	return ctx.GetHeader("X-Request-Id")
}

func RespondError(ctx *gin.Context, status int, code, message string, details interface{}) {
	ctx.JSON(status, gin.H{
		"error": APIError{
			Code:      code,
			Message:   message,
			RequestID: requestIDFrom(ctx),
			Details:   details,
		},
	})
}

func RespondBadRequest(ctx *gin.Context, message string, details interface{}) {
	RespondError(ctx, http.StatusBadRequest, "invalid_request", message, details)
}

func RespondValidation(ctx *gin.Context, field, message string) {
	RespondError(ctx, http.StatusBadRequest, "validation_failed", message, gin.H{"field": field})
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, "not_found", message, nil)
}

func RespondInternal(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusInternalServerError, "internal_error", message, nil)
}

func RespondConflict(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusConflict, code, message, nil)
}

// RespondServiceError maps domain errors onto the error envelope. fallback is
// the message used for unexpected failures.
func RespondServiceError(ctx *gin.Context, err error, fallback string) {
	var ve *standup.ValidationError

	switch {
	case errors.As(err, &ve):
		RespondValidation(ctx, ve.Field, ve.Error())
	case errors.Is(err, standup.ErrConflict):
		RespondConflict(ctx, "standup_exists", "A standup was already submitted today; update it instead")
	case errors.Is(err, standup.ErrNotFound):
		RespondNotFound(ctx, "Standup not found")
	case errors.Is(err, user.ErrNotFound):
		RespondNotFound(ctx, "User not found")
	case errors.Is(err, team.ErrNotFound):
		RespondNotFound(ctx, "Team not found")
	default:
		_ = ctx.Error(err)
		RespondInternal(ctx, fallback)
	}
}
