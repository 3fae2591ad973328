package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/standupbot/internal/domain/user"
	"github.com/geocoder89/standupbot/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, name, email, role, team_id, created_at`

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{pool: pool, prom: prom}
}

func scanUser(row rowScanner) (user.User, error) {
	var (
		u    user.User
		role string
	)

	err := row.Scan(&u.ID, &u.Name, &u.Email, &role, &u.TeamID, &u.CreatedAt)
	if err != nil {
		return user.User{}, err
	}

	u.Role = user.Role(role)
	u.CreatedAt = u.CreatedAt.UTC()
	return u, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	return r.getOne(ctx, "users.get_by_id", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, "users.get_by_email", `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
}

func (r *UsersRepo) getOne(ctx context.Context, op, query string, arg any) (user.User, error) {
	var u user.User

	err := r.prom.ObserveDB(op, func() error {
		var e error
		u, e = scanUser(r.pool.QueryRow(ctx, query, arg))
		return e
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}
	return u, nil
}

func (r *UsersRepo) List(ctx context.Context) ([]user.User, error) {
	return r.list(ctx, "users.list", `SELECT `+userColumns+` FROM users ORDER BY name ASC, id ASC`)
}

func (r *UsersRepo) ListByTeam(ctx context.Context, teamID int64) ([]user.User, error) {
	return r.list(ctx, "users.list_by_team", `SELECT `+userColumns+` FROM users WHERE team_id = $1 ORDER BY name ASC, id ASC`, teamID)
}

func (r *UsersRepo) list(ctx context.Context, op, query string, args ...any) ([]user.User, error) {
	var rows pgx.Rows

	err := r.prom.ObserveDB(op, func() error {
		var qerr error
		rows, qerr = r.pool.Query(ctx, query, args...)
		return qerr
	})
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	out := make([]user.User, 0)
	for rows.Next() {
		u, scanErr := scanUser(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, u)
	}

	return out, rows.Err()
}
