package client_test

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/geocoder89/standupbot/client"
	"github.com/geocoder89/standupbot/internal/app"
	"github.com/geocoder89/standupbot/internal/config"
	"github.com/geocoder89/standupbot/internal/domain/standup"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Env:                 "test",
		Storage:             "memory",
		CacheBackend:        "none",
		JWTSecret:           "test-secret",
		JWTAccessTTLMinutes: 5,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	a, err := app.New(context.Background(), cfg, log, prometheus.NewRegistry())
	require.NoError(t, err)

	srv := httptest.NewServer(a.Router)
	t.Cleanup(func() {
		srv.Close()
		a.Close()
	})
	return srv
}

func create(pct int) standup.CreateRequest {
	return standup.CreateRequest{
		JiraID:             "JIRA-1",
		TaskDescription:    "Build API",
		PercentageComplete: pct,
		NextTask:           "Write tests",
	}
}

func TestClient_RoundTrip(t *testing.T) {
	srv := newServer(t)
	c := client.New(srv.URL)
	ctx := context.Background()

	_, err := c.GetTodayStandup(ctx, 2)
	require.True(t, client.IsNotFound(err), "got %v", err)

	created, err := c.CreateStandup(ctx, 2, create(40))
	require.NoError(t, err)
	assert.Equal(t, "Bob Smith", created.UserName)

	_, err = c.CreateStandup(ctx, 2, create(40))
	require.True(t, client.IsConflict(err))

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "standup_exists", apiErr.Code)

	updated, err := c.UpdateStandup(ctx, 2, standup.UpdateRequest{PercentageComplete: standup.Value(60)})
	require.NoError(t, err)
	assert.Equal(t, 60, updated.PercentageComplete)
	assert.Equal(t, created.JiraID, updated.JiraID)

	ok, err := c.HasSubmittedToday(ctx, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	st, err := c.GetTeamSubmissionStatus(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, st.TotalMembers)
	assert.Equal(t, 1, st.SubmittedCount)

	rows, err := c.GetTeamStandups(ctx, 1, standup.Day{})
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, err = c.UpdateBlockerStatus(ctx, created.ID, standup.BlockerCritical)
	require.True(t, client.IsNotFound(err))

	_, err = c.CreateStandup(ctx, 3, create(101))
	require.True(t, client.IsValidation(err))
}

func TestClient_Directory(t *testing.T) {
	srv := newServer(t)
	c := client.New(srv.URL)
	ctx := context.Background()

	users, err := c.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 5)

	members, err := c.ListTeamMembers(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, members, 5)

	labels, err := c.BlockerStatuses(ctx)
	require.NoError(t, err)
	require.Len(t, labels, 3)
	assert.Equal(t, standup.BlockerNew, labels[0].Value)

	tok, err := c.StartSession(ctx, "alice.johnson@standupbot.dev")
	require.NoError(t, err)
	assert.NotEmpty(t, tok.AccessToken)
	assert.Equal(t, int64(1), tok.User.ID)
}

func TestSession_StateFlow(t *testing.T) {
	srv := newServer(t)
	s := client.NewSession(client.New(srv.URL), 2)
	ctx := context.Background()

	var (
		mu     sync.Mutex
		states []client.State
	)
	unsubscribe := s.Subscribe(func(st client.State) {
		mu.Lock()
		states = append(states, st)
		mu.Unlock()
	})

	require.NoError(t, s.Refresh(ctx))
	st := s.State()
	assert.Nil(t, st.Today)
	assert.Empty(t, st.History)
	assert.False(t, st.Loading)

	_, err := s.Submit(ctx, create(40))
	require.NoError(t, err)
	require.NotNil(t, s.State().Today)

	_, err = s.Submit(ctx, create(40))
	require.Error(t, err)
	assert.True(t, client.IsConflict(s.State().LastError))

	require.NoError(t, s.Refresh(ctx))
	assert.NoError(t, s.State().LastError)
	assert.Len(t, s.State().History, 1)

	unsubscribe()
	s.SelectUser(3)
	assert.Nil(t, s.State().Today)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, states)
	assert.True(t, states[0].Loading)
	assert.False(t, states[len(states)-1].Loading)
	for _, st := range states {
		assert.Equal(t, int64(2), st.UserID)
	}
}
