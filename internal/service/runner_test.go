package service_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"checkinbot/internal/domain"
	"checkinbot/internal/portal"
	"checkinbot/internal/repository"
	"checkinbot/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureRepo struct {
	events []domain.SignInOutcome
}

func (r *captureRepo) SendOutcome(_ context.Context, outcome domain.SignInOutcome) error {
	r.events = append(r.events, outcome)
	return nil
}

type stubClient struct {
	outcomes map[string]domain.SignInOutcome
}

func (s *stubClient) SignIn(_ context.Context, account domain.Account) domain.SignInOutcome {
	return s.outcomes[account.Email]
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunnerPreservesOrderAndPublishes(t *testing.T) {
	stub := &stubClient{outcomes: map[string]domain.SignInOutcome{
		"a@x.com": {DisplayID: "a", LoginSucceeded: true, CheckinAttempted: true, CheckinSucceeded: true},
		"b@x.com": {DisplayID: "b", Detail: "connection refused"},
		"c@x.com": {DisplayID: "c", LoginSucceeded: true, CheckinAttempted: true, CheckinSucceeded: true, WasRedundant: true},
	}}
	repo := &captureRepo{}
	runner := service.NewRunner(stub, repo, discardLogger())

	accountList := []domain.Account{
		{Email: "a@x.com", Password: "p"},
		{Email: "b@x.com", Password: "p"},
		{Email: "c@x.com", Password: "p"},
	}

	outcomes := runner.Run(context.Background(), accountList)

	require.Len(t, outcomes, 3)
	assert.Equal(t, "a", outcomes[0].DisplayID)
	assert.Equal(t, "b", outcomes[1].DisplayID)
	assert.Equal(t, "c", outcomes[2].DisplayID)

	assert.True(t, outcomes[1].HardFailure())
	assert.False(t, outcomes[2].HardFailure(), "redundant success is not a hard failure")

	for _, o := range outcomes {
		assert.False(t, o.Timestamp.IsZero())
	}

	require.Len(t, repo.events, 3)
	assert.Equal(t, "b", repo.events[1].DisplayID)
}

// One account's dropped connection must not stop the rest of the batch.
func TestRunnerFaultIsolation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("email") == "drop@x.com" {
			hj, ok := w.(http.Hijacker)
			require.True(t, ok)
			conn, _, err := hj.Hijack()
			require.NoError(t, err)
			_ = conn.Close()
			return
		}
		_, _ = w.Write([]byte(`{"ret":1}`))
	})
	mux.HandleFunc("/user/checkin", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ret":1,"msg":"签到成功"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client, err := portal.NewClient(srv.URL, 0)
	require.NoError(t, err)

	runner := service.NewRunner(client, repository.NoopOutcomeRepository{}, discardLogger())

	outcomes := runner.Run(context.Background(), []domain.Account{
		{Email: "first@x.com", Password: "p"},
		{Email: "drop@x.com", Password: "p"},
		{Email: "third@x.com", Password: "p"},
	})

	require.Len(t, outcomes, 3)

	assert.True(t, outcomes[0].CheckinSucceeded)
	assert.True(t, outcomes[2].CheckinSucceeded)

	assert.False(t, outcomes[1].LoginSucceeded)
	assert.False(t, outcomes[1].CheckinAttempted)
	assert.True(t, outcomes[1].HardFailure())
	assert.NotEmpty(t, outcomes[1].Detail)
}
