package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/standupbot/internal/auth"
	"github.com/geocoder89/standupbot/internal/config"
	"github.com/geocoder89/standupbot/internal/domain/user"
	"github.com/gin-gonic/gin"
)

type UserByEmail interface {
	FindUserByEmail(ctx context.Context, email string) (user.User, error)
}

type TokenIssuer interface {
	GenerateAccessToken(id auth.Identity) (string, time.Time, error)
}

type AuthHandler struct {
	users UserByEmail
	jwt   TokenIssuer
}

func NewAuthHandler(users UserByEmail, jwt TokenIssuer) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt}
}

type SessionRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type SessionResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
	User        user.User `json:"user"`
}

// CreateSession picks one of the seeded users by email. There are no
// passwords; the token only carries who the client is acting as.
func (h *AuthHandler) CreateSession(ctx *gin.Context) {
	var req SessionRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()

	u, err := h.users.FindUserByEmail(cctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondError(ctx, http.StatusUnauthorized, "unknown_user", "No user with that email", nil)
			return
		}
		RespondInternal(ctx, "Could not look up user")
		return
	}

	token, exp, err := h.jwt.GenerateAccessToken(auth.Identity{
		UserID: u.ID,
		Email:  u.Email,
		Role:   string(u.Role),
		TeamID: u.TeamID,
	})
	if err != nil {
		RespondInternal(ctx, "Could not generate access token")
		return
	}

	ctx.JSON(http.StatusOK, SessionResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   exp,
		User:        u,
	})
}
