package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/geocoder89/standupbot/internal/config"
	"github.com/geocoder89/standupbot/internal/domain/standup"
	"github.com/geocoder89/standupbot/internal/domain/team"
	"github.com/gin-gonic/gin"
)

const requestTimeout = 2 * time.Second

type StandupService interface {
	GetTodayStandup(ctx context.Context, userID int64) (standup.Standup, error)
	GetUserHistory(ctx context.Context, userID int64, count int) ([]standup.Summary, error)
	GetTeamStandups(ctx context.Context, teamID int64, day standup.Day) ([]standup.Standup, error)
	Create(ctx context.Context, userID int64, req standup.CreateRequest) (standup.Standup, error)
	Update(ctx context.Context, userID int64, req standup.UpdateRequest) (standup.Standup, error)
	UpdateBlockerStatus(ctx context.Context, id int64, status string) (standup.Standup, error)
	HasSubmittedToday(ctx context.Context, userID int64) (bool, error)
	GetTeamSubmissionStatus(ctx context.Context, teamID int64) (team.SubmissionStatus, error)
}

type StandupsHandler struct {
	svc StandupService
}

func NewStandupsHandler(svc StandupService) *StandupsHandler {
	return &StandupsHandler{svc: svc}
}

func (h *StandupsHandler) GetToday(ctx *gin.Context) {
	userID, ok := pathID(ctx, "userId")
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()

	s, err := h.svc.GetTodayStandup(cctx, userID)
	if err != nil {
		RespondServiceError(ctx, err, "Could not fetch standup")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, s)
}

func (h *StandupsHandler) GetHistory(ctx *gin.Context) {
	userID, ok := pathID(ctx, "userId")
	if !ok {
		return
	}

	count := 0
	if raw := ctx.Query("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			RespondBadRequest(ctx, "count must be an integer", gin.H{"field": "count", "value": raw})
			return
		}
		count = n
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()

	items, err := h.svc.GetUserHistory(cctx, userID, count)
	if err != nil {
		RespondServiceError(ctx, err, "Could not fetch history")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, items)
}

func (h *StandupsHandler) GetTeam(ctx *gin.Context) {
	teamID, ok := pathID(ctx, "teamId")
	if !ok {
		return
	}

	// zero day lets the service pick today
	var day standup.Day
	if raw := ctx.Query("date"); raw != "" {
		d, err := standup.ParseDay(raw)
		if err != nil {
			RespondBadRequest(ctx, err.Error(), gin.H{"field": "date", "value": raw})
			return
		}
		day = d
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()

	items, err := h.svc.GetTeamStandups(cctx, teamID, day)
	if err != nil {
		RespondServiceError(ctx, err, "Could not fetch team standups")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, items)
}

func (h *StandupsHandler) Create(ctx *gin.Context) {
	userID, ok := pathID(ctx, "userId")
	if !ok {
		return
	}

	var req standup.CreateRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()

	s, err := h.svc.Create(cctx, userID, req)
	if err != nil {
		RespondServiceError(ctx, err, "Could not create standup")
		return
	}

	ctx.JSON(http.StatusCreated, s)
}

func (h *StandupsHandler) Update(ctx *gin.Context) {
	userID, ok := pathID(ctx, "userId")
	if !ok {
		return
	}

	var req standup.UpdateRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()

	s, err := h.svc.Update(cctx, userID, req)
	if err != nil {
		RespondServiceError(ctx, err, "Could not update standup")
		return
	}

	ctx.JSON(http.StatusOK, s)
}

func (h *StandupsHandler) UpdateBlockerStatus(ctx *gin.Context) {
	id, ok := pathID(ctx, "standupId")
	if !ok {
		return
	}

	var req standup.BlockerStatusRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()

	s, err := h.svc.UpdateBlockerStatus(cctx, id, req.Status)
	if err != nil {
		RespondServiceError(ctx, err, "Could not update blocker status")
		return
	}

	ctx.JSON(http.StatusOK, s)
}

func (h *StandupsHandler) GetSubmissionStatus(ctx *gin.Context) {
	userID, ok := pathID(ctx, "userId")
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()

	submitted, err := h.svc.HasSubmittedToday(cctx, userID)
	if err != nil {
		RespondServiceError(ctx, err, "Could not check submission")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"hasSubmittedToday": submitted})
}

func (h *StandupsHandler) GetTeamStatus(ctx *gin.Context) {
	teamID, ok := pathID(ctx, "teamId")
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()

	st, err := h.svc.GetTeamSubmissionStatus(cctx, teamID)
	if err != nil {
		RespondServiceError(ctx, err, "Could not fetch team status")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, st)
}
