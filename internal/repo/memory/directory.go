package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/geocoder89/standupbot/internal/db"
	"github.com/geocoder89/standupbot/internal/domain/team"
	"github.com/geocoder89/standupbot/internal/domain/user"
)

// Directory holds the seeded teams and users. It is read-only after
// construction except through Add, which tests use.
type Directory struct {
	mu    sync.RWMutex
	teams map[int64]team.Team
	users map[int64]user.User
}

func NewDirectory() *Directory {
	d := &Directory{
		teams: make(map[int64]team.Team),
		users: make(map[int64]user.User),
	}

	t := db.SeedTeam()
	d.teams[t.ID] = t
	for _, u := range db.SeedUsers() {
		d.users[u.ID] = u
	}
	return d
}

func (d *Directory) AddTeam(t team.Team) {
	d.mu.Lock()
	d.teams[t.ID] = t
	d.mu.Unlock()
}

func (d *Directory) AddUser(u user.User) {
	d.mu.Lock()
	d.users[u.ID] = u
	d.mu.Unlock()
}

func (d *Directory) user(id int64) (user.User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.users[id]
	return u, ok
}

// UsersRepo and TeamsRepo are views over a Directory.
type UsersRepo struct{ dir *Directory }

type TeamsRepo struct{ dir *Directory }

func NewUsersRepo(dir *Directory) *UsersRepo { return &UsersRepo{dir: dir} }

func NewTeamsRepo(dir *Directory) *TeamsRepo { return &TeamsRepo{dir: dir} }

func (r *UsersRepo) GetByID(_ context.Context, id int64) (user.User, error) {
	u, ok := r.dir.user(id)
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (r *UsersRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	r.dir.mu.RLock()
	defer r.dir.mu.RUnlock()

	for _, u := range r.dir.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (r *UsersRepo) List(_ context.Context) ([]user.User, error) {
	return r.filter(func(user.User) bool { return true }), nil
}

func (r *UsersRepo) ListByTeam(_ context.Context, teamID int64) ([]user.User, error) {
	return r.filter(func(u user.User) bool { return u.TeamID == teamID }), nil
}

func (r *UsersRepo) filter(keep func(user.User) bool) []user.User {
	r.dir.mu.RLock()
	out := make([]user.User, 0, len(r.dir.users))
	for _, u := range r.dir.users {
		if keep(u) {
			out = append(out, u)
		}
	}
	r.dir.mu.RUnlock()

	sortUsersByName(out)
	return out
}

func sortUsersByName(us []user.User) {
	sort.Slice(us, func(i, j int) bool {
		if us[i].Name != us[j].Name {
			return us[i].Name < us[j].Name
		}
		return us[i].ID < us[j].ID
	})
}

func (r *TeamsRepo) GetByID(_ context.Context, id int64) (team.Team, error) {
	r.dir.mu.RLock()
	defer r.dir.mu.RUnlock()

	t, ok := r.dir.teams[id]
	if !ok {
		return team.Team{}, team.ErrNotFound
	}
	return t, nil
}
