package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/geocoder89/standupbot/internal/cache"
	"github.com/geocoder89/standupbot/internal/domain/standup"
	"github.com/geocoder89/standupbot/internal/domain/team"
	"github.com/geocoder89/standupbot/internal/domain/user"
	"github.com/geocoder89/standupbot/internal/notifications"
	"github.com/geocoder89/standupbot/internal/observability"
	"github.com/geocoder89/standupbot/internal/utils"
)

const (
	DefaultHistoryCount = 10
	MaxHistoryCount     = 100
)

type Deps struct {
	Standups StandupStore
	Users    UserStore
	Teams    TeamStore
	Cache    cache.Store
	Notifier notifications.Notifier
	Prom     *observability.Prom
	Log      *slog.Logger
	Now      func() time.Time
}

type StandupService struct {
	standups StandupStore
	users    UserStore
	teams    TeamStore
	cache    *readCache
	notifier notifications.Notifier
	prom     *observability.Prom
	log      *slog.Logger
	now      func() time.Time
}

func NewStandupService(d Deps) *StandupService {
	if d.Cache == nil {
		d.Cache = cache.Noop{}
	}
	if d.Log == nil {
		d.Log = slog.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}

	return &StandupService{
		standups: d.Standups,
		users:    d.Users,
		teams:    d.Teams,
		cache:    &readCache{store: d.Cache, gens: newGenerations(), prom: d.Prom},
		notifier: d.Notifier,
		prom:     d.Prom,
		log:      d.Log,
		now:      d.Now,
	}
}

func (s *StandupService) today() standup.Day {
	return standup.DayOf(s.now())
}

func (s *StandupService) GetTodayStandup(ctx context.Context, userID int64) (standup.Standup, error) {
	return s.standups.GetByUserAndDate(ctx, userID, s.today())
}

// GetUserHistory returns the latest count standups of userID, newest first.
// count is clamped to 1..MaxHistoryCount; zero means DefaultHistoryCount.
func (s *StandupService) GetUserHistory(ctx context.Context, userID int64, count int) ([]standup.Summary, error) {
	switch {
	case count == 0:
		count = DefaultHistoryCount
	case count < 1:
		count = 1
	case count > MaxHistoryCount:
		count = MaxHistoryCount
	}

	rows, err := s.standups.ListByUser(ctx, userID, count)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	out := make([]standup.Summary, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Summary())
	}
	return out, nil
}

// GetTeamStandups lists the standups of teamID's members on day. A zero day
// means today.
func (s *StandupService) GetTeamStandups(ctx context.Context, teamID int64, day standup.Day) ([]standup.Standup, error) {
	if _, err := s.teams.GetByID(ctx, teamID); err != nil {
		return nil, err
	}
	if day.IsZero() {
		day = s.today()
	}

	return cached(ctx, s.cache, "team_standups", utils.TeamStandupsCacheKey(teamID, day.String()),
		func() ([]standup.Standup, error) {
			return s.standups.ListByTeamAndDate(ctx, teamID, day)
		})
}

func (s *StandupService) Create(ctx context.Context, userID int64, req standup.CreateRequest) (created standup.Standup, err error) {
	defer func() { s.prom.ObserveWrite("create", writeResult(err)) }()

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return standup.Standup{}, err
	}

	now := s.now()
	day := standup.DayOf(now)

	exists, err := s.standups.Exists(ctx, userID, day)
	if err != nil {
		return standup.Standup{}, fmt.Errorf("check existing standup: %w", err)
	}
	if exists {
		return standup.Standup{}, standup.ErrConflict
	}

	row, err := standup.New(userID, day, req, now)
	if err != nil {
		return standup.Standup{}, err
	}

	created, err = s.standups.Create(ctx, row)
	if err != nil {
		return standup.Standup{}, err
	}

	s.invalidate(ctx, u.TeamID, day)
	s.log.InfoContext(ctx, "standup.created",
		"standup_id", created.ID,
		"user_id", userID,
		"has_blocker", created.HasBlocker,
	)
	return created, nil
}

func (s *StandupService) Update(ctx context.Context, userID int64, req standup.UpdateRequest) (updated standup.Standup, err error) {
	defer func() { s.prom.ObserveWrite("update", writeResult(err)) }()

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return standup.Standup{}, standup.ErrNotFound
		}
		return standup.Standup{}, err
	}

	now := s.now()
	day := standup.DayOf(now)

	updated, err = s.standups.Mutate(ctx, userID, day, func(row *standup.Standup) error {
		return row.Apply(req, now)
	})
	if err != nil {
		return standup.Standup{}, err
	}

	s.invalidate(ctx, u.TeamID, day)
	return updated, nil
}

// UpdateBlockerStatus moves the blocker of standup id to the named status.
// Escalating to Critical notifies the team leads; notification failures are
// logged and never fail the update.
func (s *StandupService) UpdateBlockerStatus(ctx context.Context, id int64, rawStatus string) (updated standup.Standup, err error) {
	defer func() { s.prom.ObserveWrite("blocker_status", writeResult(err)) }()

	status, ok := standup.ParseBlockerStatus(rawStatus)
	if !ok {
		return standup.Standup{}, &standup.ValidationError{Field: "status", Message: "must be one of New, Critical, Resolved"}
	}

	var previous standup.BlockerStatus

	updated, err = s.standups.MutateByID(ctx, id, func(row *standup.Standup) error {
		if row.BlockerStatus != nil {
			previous = *row.BlockerStatus
		}
		return row.SetBlockerStatus(status, s.now())
	})
	if err != nil {
		return standup.Standup{}, err
	}

	s.prom.ObserveBlockerTransition(string(status))
	s.invalidate(ctx, updated.TeamID, updated.Date)

	if status == standup.BlockerCritical && previous != standup.BlockerCritical {
		u, uerr := s.users.GetByID(ctx, updated.UserID)
		if uerr != nil {
			s.log.WarnContext(ctx, "standup.blocker_status.owner_lookup_failed", "standup_id", id, "err", uerr)
			s.prom.ObserveNotification("failed")
			return updated, nil
		}
		s.notifyCritical(ctx, updated, u)
	}
	return updated, nil
}

func (s *StandupService) notifyCritical(ctx context.Context, row standup.Standup, owner user.User) {
	if s.notifier == nil {
		return
	}

	members, err := s.users.ListByTeam(ctx, owner.TeamID)
	if err != nil {
		s.log.WarnContext(ctx, "notification.leads_lookup_failed", "team_id", owner.TeamID, "err", err)
		s.prom.ObserveNotification("failed")
		return
	}

	leads := make([]string, 0, 1)
	for _, m := range members {
		if m.Role == user.RoleLead {
			leads = append(leads, m.Email)
		}
	}
	if len(leads) == 0 {
		return
	}

	in := notifications.CriticalBlockerInput{
		StandupID:  row.ID,
		UserID:     owner.ID,
		UserName:   owner.Name,
		TeamID:     owner.TeamID,
		JiraID:     row.JiraID,
		LeadEmails: leads,
	}
	if row.BlockerDescription != nil {
		in.Description = *row.BlockerDescription
	}

	err = s.notifier.NotifyCriticalBlocker(ctx, in)
	switch {
	case err == nil:
		s.prom.ObserveNotification("sent")
	case errors.Is(err, notifications.ErrCircuitOpen):
		s.prom.ObserveNotification("circuit_open")
		s.log.WarnContext(ctx, "notification.skipped", "standup_id", row.ID, "reason", "circuit_open")
	default:
		s.prom.ObserveNotification("failed")
		s.log.ErrorContext(ctx, "notification.failed", "standup_id", row.ID, "err", err)
	}
}

func (s *StandupService) HasSubmittedToday(ctx context.Context, userID int64) (bool, error) {
	return s.standups.Exists(ctx, userID, s.today())
}

func (s *StandupService) GetTeamSubmissionStatus(ctx context.Context, teamID int64) (team.SubmissionStatus, error) {
	if _, err := s.teams.GetByID(ctx, teamID); err != nil {
		return team.SubmissionStatus{}, err
	}

	day := s.today()

	return cached(ctx, s.cache, "team_status", utils.TeamStatusCacheKey(teamID, day.String()),
		func() (team.SubmissionStatus, error) {
			members, err := s.users.ListByTeam(ctx, teamID)
			if err != nil {
				return team.SubmissionStatus{}, fmt.Errorf("list members: %w", err)
			}

			st := team.SubmissionStatus{
				TeamID:       teamID,
				Date:         day.String(),
				TotalMembers: len(members),
				Submitted:    make([]user.User, 0),
				Pending:      make([]user.User, 0),
			}

			for _, m := range members {
				ok, err := s.standups.Exists(ctx, m.ID, day)
				if err != nil {
					return team.SubmissionStatus{}, fmt.Errorf("check member %d: %w", m.ID, err)
				}
				if ok {
					st.Submitted = append(st.Submitted, m)
				} else {
					st.Pending = append(st.Pending, m)
				}
			}
			st.SubmittedCount = len(st.Submitted)
			return st, nil
		})
}

func (s *StandupService) invalidate(ctx context.Context, teamID int64, day standup.Day) {
	s.cache.invalidate(ctx, utils.TeamCacheKeys(teamID, day.String())...)
}

func writeResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, standup.ErrConflict):
		return "conflict"
	case errors.Is(err, standup.ErrValidation):
		return "validation"
	case errors.Is(err, standup.ErrNotFound), errors.Is(err, user.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
