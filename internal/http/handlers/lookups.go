package handlers

import (
	"net/http"

	"github.com/geocoder89/standupbot/internal/domain/standup"
	"github.com/geocoder89/standupbot/internal/domain/user"
	"github.com/gin-gonic/gin"
)

func BlockerStatusLookup(ctx *gin.Context) {
	RespondJSONWithETag(ctx, http.StatusOK, standup.BlockerStatusLabels())
}

// BlockerStatusLabelLookup answers the display entry of one status; the
// name matches case-insensitively.
func BlockerStatusLabelLookup(ctx *gin.Context) {
	raw := ctx.Param("status")

	status, ok := standup.ParseBlockerStatus(raw)
	if !ok {
		RespondNotFound(ctx, "Unknown blocker status")
		return
	}

	label, ok := standup.BlockerStatusLabel(status)
	if !ok {
		RespondNotFound(ctx, "Unknown blocker status")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, label)
}

func RoleLookup(ctx *gin.Context) {
	RespondJSONWithETag(ctx, http.StatusOK, user.RoleLabels())
}
