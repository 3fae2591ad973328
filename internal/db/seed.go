package db

import (
	"context"
	"fmt"
	"time"

	"github.com/geocoder89/standupbot/internal/domain/team"
	"github.com/geocoder89/standupbot/internal/domain/user"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var seedTime = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// SeedTeam and SeedUsers are the fixed directory every store starts with.
func SeedTeam() team.Team {
	return team.Team{ID: 1, Name: "Product Engineering", CreatedAt: seedTime}
}

func SeedUsers() []user.User {
	return []user.User{
		{ID: 1, Name: "Alice Johnson", Email: "alice.johnson@standupbot.dev", Role: user.RoleLead, TeamID: 1, CreatedAt: seedTime},
		{ID: 2, Name: "Bob Smith", Email: "bob.smith@standupbot.dev", Role: user.RoleMember, TeamID: 1, CreatedAt: seedTime},
		{ID: 3, Name: "Carol Williams", Email: "carol.williams@standupbot.dev", Role: user.RoleMember, TeamID: 1, CreatedAt: seedTime},
		{ID: 4, Name: "David Brown", Email: "david.brown@standupbot.dev", Role: user.RoleMember, TeamID: 1, CreatedAt: seedTime},
		{ID: 5, Name: "Emma Davis", Email: "emma.davis@standupbot.dev", Role: user.RoleMember, TeamID: 1, CreatedAt: seedTime},
	}
}

// EnsureSeedData inserts the seed team and users when missing. It is safe to
// run on every start.
func EnsureSeedData(ctx context.Context, pool *pgxpool.Pool) error {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	t := SeedTeam()

	_, err = tx.Exec(ctx,
		`INSERT INTO teams (id, name, created_at) VALUES ($1,$2,$3) ON CONFLICT (id) DO NOTHING`,
		t.ID, t.Name, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("seed team: %w", err)
	}

	for _, u := range SeedUsers() {
		_, err = tx.Exec(ctx,
			`INSERT INTO users (id, name, email, role, team_id, created_at)
			VALUES ($1,$2,$3,$4,$5,$6)
			ON CONFLICT DO NOTHING`,
			u.ID, u.Name, u.Email, string(u.Role), u.TeamID, u.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("seed user %d: %w", u.ID, err)
		}
	}

	// explicit ids leave the sequences behind
	_, err = tx.Exec(ctx, `SELECT setval(pg_get_serial_sequence('teams','id'), (SELECT MAX(id) FROM teams))`)
	if err != nil {
		return fmt.Errorf("seed teams sequence: %w", err)
	}
	_, err = tx.Exec(ctx, `SELECT setval(pg_get_serial_sequence('users','id'), (SELECT MAX(id) FROM users))`)
	if err != nil {
		return fmt.Errorf("seed users sequence: %w", err)
	}

	return tx.Commit(ctx)
}
