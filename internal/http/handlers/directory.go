package handlers

import (
	"context"
	"net/http"

	"github.com/geocoder89/standupbot/internal/config"
	"github.com/geocoder89/standupbot/internal/domain/team"
	"github.com/geocoder89/standupbot/internal/domain/user"
	"github.com/gin-gonic/gin"
)

type DirectoryReader interface {
	ListUsers(ctx context.Context) ([]user.User, error)
	GetUser(ctx context.Context, id int64) (user.User, error)
	GetTeam(ctx context.Context, id int64) (team.Team, error)
	ListTeamMembers(ctx context.Context, teamID int64) ([]user.User, error)
}

type DirectoryHandler struct {
	dir DirectoryReader
}

func NewDirectoryHandler(dir DirectoryReader) *DirectoryHandler {
	return &DirectoryHandler{dir: dir}
}

func (h *DirectoryHandler) ListUsers(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()

	users, err := h.dir.ListUsers(cctx)
	if err != nil {
		RespondServiceError(ctx, err, "Could not list users")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, users)
}

func (h *DirectoryHandler) GetUser(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()

	u, err := h.dir.GetUser(cctx, id)
	if err != nil {
		RespondServiceError(ctx, err, "Could not fetch user")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, u)
}

func (h *DirectoryHandler) GetTeam(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()

	t, err := h.dir.GetTeam(cctx, id)
	if err != nil {
		RespondServiceError(ctx, err, "Could not fetch team")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, t)
}

func (h *DirectoryHandler) ListTeamMembers(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()

	members, err := h.dir.ListTeamMembers(cctx, id)
	if err != nil {
		RespondServiceError(ctx, err, "Could not list team members")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, members)
}
