package service

import (
	"context"

	"github.com/geocoder89/standupbot/internal/domain/standup"
	"github.com/geocoder89/standupbot/internal/domain/team"
	"github.com/geocoder89/standupbot/internal/domain/user"
)

type StandupStore interface {
	Create(ctx context.Context, s standup.Standup) (standup.Standup, error)
	GetByUserAndDate(ctx context.Context, userID int64, day standup.Day) (standup.Standup, error)
	Exists(ctx context.Context, userID int64, day standup.Day) (bool, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]standup.Standup, error)
	ListByTeamAndDate(ctx context.Context, teamID int64, day standup.Day) ([]standup.Standup, error)
	Mutate(ctx context.Context, userID int64, day standup.Day, fn func(*standup.Standup) error) (standup.Standup, error)
	MutateByID(ctx context.Context, id int64, fn func(*standup.Standup) error) (standup.Standup, error)
}

type UserStore interface {
	GetByID(ctx context.Context, id int64) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	List(ctx context.Context) ([]user.User, error)
	ListByTeam(ctx context.Context, teamID int64) ([]user.User, error)
}

type TeamStore interface {
	GetByID(ctx context.Context, id int64) (team.Team, error)
}
