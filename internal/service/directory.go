package service

import (
	"context"

	"github.com/geocoder89/standupbot/internal/domain/team"
	"github.com/geocoder89/standupbot/internal/domain/user"
)

// DirectoryService serves the read-only team and user lookups.
type DirectoryService struct {
	users UserStore
	teams TeamStore
}

func NewDirectoryService(users UserStore, teams TeamStore) *DirectoryService {
	return &DirectoryService{users: users, teams: teams}
}

func (d *DirectoryService) ListUsers(ctx context.Context) ([]user.User, error) {
	return d.users.List(ctx)
}

func (d *DirectoryService) GetUser(ctx context.Context, id int64) (user.User, error) {
	return d.users.GetByID(ctx, id)
}

func (d *DirectoryService) FindUserByEmail(ctx context.Context, email string) (user.User, error) {
	return d.users.GetByEmail(ctx, email)
}

func (d *DirectoryService) GetTeam(ctx context.Context, id int64) (team.Team, error) {
	return d.teams.GetByID(ctx, id)
}

func (d *DirectoryService) ListTeamMembers(ctx context.Context, teamID int64) ([]user.User, error) {
	if _, err := d.teams.GetByID(ctx, teamID); err != nil {
		return nil, err
	}
	return d.users.ListByTeam(ctx, teamID)
}
