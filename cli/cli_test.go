package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"habit-pact/config"
	"habit-pact/database"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setMemoryEnv(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "sqlite")
	t.Setenv("SQLITE_PATH", database.MemoryPath)
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("EMAIL_HOST", "")
	t.Setenv("CLOUDFLARE_ACCOUNT_ID", "")
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMigrateCommand(t *testing.T) {
	setMemoryEnv(t)

	out, err := runCommand(t, "migrate")
	require.NoError(t, err)
	assert.Equal(t, "migrated sqlite database\n", out)
}

func TestTopCommandEmpty(t *testing.T) {
	setMemoryEnv(t)

	out, err := runCommand(t, "top")
	require.NoError(t, err)
	assert.Equal(t, "no active streaks\n", out)

	out, err = runCommand(t, "top", "--format", "json", "-n", "3")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestTriggerCommand(t *testing.T) {
	setMemoryEnv(t)

	out, err := runCommand(t, "trigger-checkins", "--format", "json")
	require.NoError(t, err)

	var summary map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.EqualValues(t, 0, summary["challenges"])
}

func TestInvalidFormat(t *testing.T) {
	setMemoryEnv(t)

	_, err := runCommand(t, "top", "--format", "xml")
	assert.ErrorContains(t, err, "invalid format")
}

func TestHTTPAppEndToEnd(t *testing.T) {
	setMemoryEnv(t)
	cfg, err := config.Parse()
	require.NoError(t, err)
	cfg.AdminToken = "ops"

	clock := clockwork.NewFakeClockAt(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	a, err := NewApp(context.Background(), cfg, zap.NewNop().Sugar(), clock)
	require.NoError(t, err)
	defer a.Close()
	app := NewHTTPApp(a)

	req := httptest.NewRequest(http.MethodPost, "/challenge/create",
		strings.NewReader(`{"habit_description":"meditate","initiator_email":"a@x.com","friend_email":"b@x.com"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var created struct {
		Challenge struct {
			ID string `json:"id"`
		} `json:"challenge"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	c, err := a.Challenges.GetByID(context.Background(), created.Challenge.ID)
	require.NoError(t, err)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/challenge/accept/"+c.InviteToken, nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet,
		"/challenge/checkin/"+c.ID+"/"+c.InitiatorID+"/yes", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/admin/trigger-checkins", nil)
	req.Header.Set("Authorization", "Bearer ops")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"challenges":1`)

	top, err := a.Streaks.TopStreaks(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, 1, top[0].StreakCount)
}
