package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/standupbot/internal/domain/team"
	"github.com/geocoder89/standupbot/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TeamsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewTeamsRepo(pool *pgxpool.Pool, prom *observability.Prom) *TeamsRepo {
	return &TeamsRepo{pool: pool, prom: prom}
}

func (r *TeamsRepo) GetByID(ctx context.Context, id int64) (team.Team, error) {
	var t team.Team

	err := r.prom.ObserveDB("teams.get_by_id", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, name, created_at FROM teams WHERE id = $1`, id,
		).Scan(&t.ID, &t.Name, &t.CreatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return team.Team{}, team.ErrNotFound
		}
		return team.Team{}, err
	}

	t.CreatedAt = t.CreatedAt.UTC()
	return t, nil
}
