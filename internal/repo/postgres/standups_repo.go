package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/geocoder89/standupbot/internal/domain/standup"
	"github.com/geocoder89/standupbot/internal/domain/user"
	"github.com/geocoder89/standupbot/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// standupColumns must stay in sync with scanStandup.
const standupColumns = `s.id, s.user_id, u.name, u.team_id, s.date, s.jira_id, s.task_description,
	s.percentage_complete, s.has_blocker, s.blocker_description, s.blocker_status,
	s.next_task, s.created_at, s.updated_at`

type StandupsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewStandupsRepo(pool *pgxpool.Pool, prom *observability.Prom) *StandupsRepo {
	return &StandupsRepo{
		pool: pool,
		prom: prom,
	}
}

func (repo *StandupsRepo) observe(op string, fn func() error) error {
	return repo.prom.ObserveDB(op, fn)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStandup(row rowScanner) (standup.Standup, error) {
	var (
		s      standup.Standup
		date   time.Time
		status *string
	)

	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.UserName,
		&s.TeamID,
		&date,
		&s.JiraID,
		&s.TaskDescription,
		&s.PercentageComplete,
		&s.HasBlocker,
		&s.BlockerDescription,
		&status,
		&s.NextTask,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return standup.Standup{}, err
	}

	s.Date = standup.DayOf(date)
	s.CreatedAt = s.CreatedAt.UTC()
	if s.UpdatedAt != nil {
		t := s.UpdatedAt.UTC()
		s.UpdatedAt = &t
	}
	if status != nil {
		st := standup.BlockerStatus(*status)
		s.BlockerStatus = &st
	}

	return s, nil
}

func statusArg(s *standup.BlockerStatus) *string {
	if s == nil {
		return nil
	}
	v := string(*s)
	return &v
}

// Create inserts s after checking (user, date) is free inside the same
// transaction. The unique constraint backs the check up when two requests
// race past it.
func (repo *StandupsRepo) Create(ctx context.Context, s standup.Standup) (created standup.Standup, err error) {
	tx, err := repo.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var exists bool

	err = repo.observe("standups.create.duplicate_check", func() error {
		return tx.QueryRow(ctx, `SELECT EXISTS(
			SELECT 1 FROM standups WHERE user_id = $1 AND date = $2
		)`, s.UserID, s.Date.Time).Scan(&exists)
	})
	if err != nil {
		return
	}

	if exists {
		err = standup.ErrConflict
		return
	}

	err = repo.observe("standups.create.insert", func() error {
		var e error
		created, e = scanStandup(tx.QueryRow(ctx, `
		WITH ins AS (
			INSERT INTO standups (user_id, date, jira_id, task_description, percentage_complete,
				has_blocker, blocker_description, blocker_status, next_task, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,NULL)
			RETURNING *
		)
		SELECT `+standupColumns+`
		FROM ins s
		JOIN users u ON u.id = s.user_id`,
			s.UserID, s.Date.Time, s.JiraID, s.TaskDescription, s.PercentageComplete,
			s.HasBlocker, s.BlockerDescription, statusArg(s.BlockerStatus), s.NextTask, s.CreatedAt,
		))
		return e
	})

	if err != nil {
		switch {
		case isUniqueViolationOn(err, standupsUserDateUniq):
			err = standup.ErrConflict
		case isForeignKeyViolation(err):
			err = user.ErrNotFound
		}
		return
	}

	err = tx.Commit(ctx)
	return
}

func (repo *StandupsRepo) GetByUserAndDate(ctx context.Context, userID int64, day standup.Day) (standup.Standup, error) {
	var s standup.Standup

	err := repo.observe("standups.get_by_user_date", func() error {
		var e error
		s, e = scanStandup(repo.pool.QueryRow(ctx, `
		SELECT `+standupColumns+`
		FROM standups s
		JOIN users u ON u.id = s.user_id
		WHERE s.user_id = $1 AND s.date = $2`, userID, day.Time))
		return e
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return standup.Standup{}, standup.ErrNotFound
		}
		return standup.Standup{}, err
	}

	return s, nil
}

func (repo *StandupsRepo) Exists(ctx context.Context, userID int64, day standup.Day) (bool, error) {
	var exists bool

	err := repo.observe("standups.exists", func() error {
		return repo.pool.QueryRow(ctx, `SELECT EXISTS(
			SELECT 1 FROM standups WHERE user_id = $1 AND date = $2
		)`, userID, day.Time).Scan(&exists)
	})

	return exists, err
}

func (repo *StandupsRepo) ListByUser(ctx context.Context, userID int64, limit int) ([]standup.Standup, error) {
	return repo.list(ctx, "standups.list_by_user", `
		SELECT `+standupColumns+`
		FROM standups s
		JOIN users u ON u.id = s.user_id
		WHERE s.user_id = $1
		ORDER BY s.date DESC, s.id DESC
		LIMIT $2`, userID, limit)
}

func (repo *StandupsRepo) ListByTeamAndDate(ctx context.Context, teamID int64, day standup.Day) ([]standup.Standup, error) {
	return repo.list(ctx, "standups.list_by_team_date", `
		SELECT `+standupColumns+`
		FROM standups s
		JOIN users u ON u.id = s.user_id
		WHERE u.team_id = $1 AND s.date = $2
		ORDER BY u.name ASC, s.id ASC`, teamID, day.Time)
}

func (repo *StandupsRepo) list(ctx context.Context, op, query string, args ...any) (out []standup.Standup, err error) {
	var rows pgx.Rows

	err = repo.observe(op, func() error {
		var qerr error
		rows, qerr = repo.pool.Query(ctx, query, args...)
		return qerr
	})
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	out = make([]standup.Standup, 0)

	for rows.Next() {
		s, scanErr := scanStandup(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, s)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return out, nil
}

// Mutate locks the (user, day) row, applies fn and writes the result
// back in one transaction.
func (repo *StandupsRepo) Mutate(ctx context.Context, userID int64, day standup.Day, fn func(*standup.Standup) error) (standup.Standup, error) {
	return repo.mutate(ctx, "standups.mutate_by_user_date", `
		SELECT `+standupColumns+`
		FROM standups s
		JOIN users u ON u.id = s.user_id
		WHERE s.user_id = $1 AND s.date = $2
		FOR UPDATE OF s`, fn, userID, day.Time)
}

func (repo *StandupsRepo) MutateByID(ctx context.Context, id int64, fn func(*standup.Standup) error) (standup.Standup, error) {
	return repo.mutate(ctx, "standups.mutate_by_id", `
		SELECT `+standupColumns+`
		FROM standups s
		JOIN users u ON u.id = s.user_id
		WHERE s.id = $1
		FOR UPDATE OF s`, fn, id)
}

func (repo *StandupsRepo) mutate(ctx context.Context, op, selectQuery string, fn func(*standup.Standup) error, args ...any) (s standup.Standup, err error) {
	tx, err := repo.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	err = repo.observe(op+".lock", func() error {
		var e error
		s, e = scanStandup(tx.QueryRow(ctx, selectQuery, args...))
		return e
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = standup.ErrNotFound
		}
		return
	}

	err = fn(&s)
	if err != nil {
		return
	}

	err = repo.observe(op+".update", func() error {
		_, e := tx.Exec(ctx, `
		UPDATE standups
			SET jira_id = $2,
				task_description = $3,
				percentage_complete = $4,
				has_blocker = $5,
				blocker_description = $6,
				blocker_status = $7,
				next_task = $8,
				updated_at = $9
		WHERE id = $1`,
			s.ID, s.JiraID, s.TaskDescription, s.PercentageComplete, s.HasBlocker,
			s.BlockerDescription, statusArg(s.BlockerStatus), s.NextTask, s.UpdatedAt,
		)
		return e
	})
	if err != nil {
		return
	}

	err = tx.Commit(ctx)
	return
}
