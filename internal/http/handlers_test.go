package http

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mauv0809/clubhouse/internal/auth"
	"github.com/mauv0809/clubhouse/internal/club"
	"github.com/mauv0809/clubhouse/internal/config"
	"github.com/mauv0809/clubhouse/internal/database"
	"github.com/mauv0809/clubhouse/internal/metrics"
	"github.com/mauv0809/clubhouse/internal/notifier"
	"github.com/mauv0809/clubhouse/internal/processor"
	"github.com/mauv0809/clubhouse/internal/pubsub"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "correct-horse"

type testEnv struct {
	server  *Server
	store   club.ClubStore
	auth    *auth.Service
	notif   *notifier.Mock
	pubsub  *pubsub.MockPubSubClient
	metrics *metrics.Service
	cricket club.Sport
}

// setupTestServer initializes a server over an in-memory database with mock side effects.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	t.Cleanup(teardown)

	clock := clockwork.NewFakeClockAt(time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC))
	store := club.NewWithClock(db, clock)
	reg := prometheus.NewRegistry()
	env := &testEnv{
		store:   store,
		auth:    auth.New(store, bcrypt.MinCost),
		notif:   notifier.NewMock(),
		pubsub:  pubsub.NewMock(),
		metrics: metrics.NewService(reg),
	}
	proc := processor.NewWithClock(store, env.notif, env.metrics, env.pubsub, clock)
	env.server = NewServer(store, env.auth, env.metrics, metrics.NewMetricsHandler(reg), config.Config{}, proc, env.pubsub)

	env.cricket, err = store.CreateSport(context.Background(), "Cricket", club.SportTypeTeam)
	require.NoError(t, err)
	return env
}

// signup creates a verified account through the auth service.
func (e *testEnv) signup(t *testing.T, username string, role club.Role) club.User {
	t.Helper()
	ctx := context.Background()
	var u club.User
	var err error
	if role == club.RoleAdmin {
		hash, herr := e.auth.HashPassword(testPassword)
		require.NoError(t, herr)
		u, err = e.store.CreateUser(ctx, club.User{Username: username, Email: username + "@club.test", Role: role, Verified: true, PasswordHash: hash})
	} else {
		u, err = e.auth.Signup(ctx, club.SignupRequest{Username: username, Email: username + "@club.test", Password: testPassword, Role: role, SportID: e.cricket.ID})
	}
	require.NoError(t, err)
	if !u.Verified {
		u, err = e.store.VerifyUser(ctx, u.ID)
		require.NoError(t, err)
	}
	return u
}

func (e *testEnv) login(t *testing.T, username string) string {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/api/auth/login/", "", club.LoginRequest{Username: username, Password: testPassword})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var resp club.LoginResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// link makes player an active student of coach in cricket.
func (e *testEnv) link(t *testing.T, player, coach club.User) {
	t.Helper()
	ctx := context.Background()
	l, err := e.store.CreateLinkRequest(ctx, club.CoachToPlayer, player.ID, coach.ID, e.cricket.ID)
	require.NoError(t, err)
	_, err = e.store.DecideLinkRequest(ctx, l.ID, club.StatusAccepted)
	require.NoError(t, err)
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.server.ServeHTTP(rr, req)
	return rr
}

func detailOf(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body), rr.Body.String())
	return body.Detail
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestHealthCheckHandler(t *testing.T) {
	env := setupTestServer(t)

	rr := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK!", rr.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	env := setupTestServer(t)
	env.do(t, http.MethodGet, "/health", "", nil)

	rr := env.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "clubhouse_http_request_duration_seconds")
}

func TestAuthentication(t *testing.T) {
	env := setupTestServer(t)
	env.signup(t, "pete", club.RolePlayer)

	t.Run("missing token is 401", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/api/sports/", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Authentication credentials were not provided.", detailOf(t, rr))
	})

	t.Run("wrong password", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/api/auth/login/", "", club.LoginRequest{Username: "pete", Password: "nope-nope"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Unable to log in with provided credentials.", detailOf(t, rr))
	})

	t.Run("bearer and token schemes", func(t *testing.T) {
		token := env.login(t, "pete")
		for _, scheme := range []string{"Bearer", "Token"} {
			req := httptest.NewRequest(http.MethodGet, "/api/sports/", nil)
			req.Header.Set("Authorization", scheme+" "+token)
			rr := httptest.NewRecorder()
			env.server.ServeHTTP(rr, req)
			require.Equal(t, http.StatusOK, rr.Code, scheme)
			sports := decodeBody[[]club.Sport](t, rr)
			require.Len(t, sports, 1)
			assert.Equal(t, "Cricket", sports[0].Name)
		}
	})

	t.Run("logout revokes the token", func(t *testing.T) {
		token := env.login(t, "pete")
		rr := env.do(t, http.MethodPost, "/api/auth/logout/", token, nil)
		require.Equal(t, http.StatusOK, rr.Code)

		rr = env.do(t, http.MethodGet, "/api/sports/", token, nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Invalid token.", detailOf(t, rr))
	})
}

func TestSignupHandler(t *testing.T) {
	env := setupTestServer(t)

	rr := env.do(t, http.MethodPost, "/api/auth/signup/", "", club.SignupRequest{Username: "carol", Email: "carol@club.test", Password: testPassword, Role: club.RoleCoach, SportID: env.cricket.ID})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decodeBody[club.Created](t, rr)
	assert.NotZero(t, created.ID)
	assert.Contains(t, created.Detail, "must verify")

	rr = env.do(t, http.MethodPost, "/api/auth/signup/", "", club.SignupRequest{Username: "x", Email: "not-an-email", Password: testPassword, Role: club.RolePlayer})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Enter a valid email address.", detailOf(t, rr))

	rr = env.do(t, http.MethodPost, "/api/auth/signup/", "", club.SignupRequest{Username: "root", Email: "root@club.test", Password: testPassword, Role: club.RoleAdmin})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestVerifyUserHandler(t *testing.T) {
	env := setupTestServer(t)
	env.signup(t, "root", club.RoleAdmin)
	maria := env.signup(t, "maria", club.RoleManager)
	carol, err := env.auth.Signup(context.Background(), club.SignupRequest{Username: "carol", Email: "carol@club.test", Password: testPassword, Role: club.RoleCoach, SportID: env.cricket.ID})
	require.NoError(t, err)
	require.False(t, carol.Verified)

	rr := env.do(t, http.MethodPost, fmt.Sprintf("/api/users/%d/verify/", carol.ID), env.login(t, "maria"), nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rootToken := env.login(t, "root")
	rr = env.do(t, http.MethodGet, "/api/users/", rootToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	coaches := decodeBody[[]club.User](t, rr)
	require.Len(t, coaches, 1)
	assert.Equal(t, "carol", coaches[0].Username)

	rr = env.do(t, http.MethodPost, fmt.Sprintf("/api/users/%d/verify/", carol.ID), rootToken, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.True(t, decodeBody[club.User](t, rr).Verified)

	rr = env.do(t, http.MethodGet, "/api/users/?role=manager", rootToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	managers := decodeBody[[]club.User](t, rr)
	require.Len(t, managers, 1)
	assert.Equal(t, maria.ID, managers[0].ID)
}

func TestRoleGuards(t *testing.T) {
	env := setupTestServer(t)
	env.signup(t, "pete", club.RolePlayer)
	token := env.login(t, "pete")

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/sessions/"},
		{http.MethodGet, "/api/dashboard/coach/"},
		{http.MethodPost, "/api/teams/"},
		{http.MethodGet, "/api/promotion/"},
		{http.MethodPost, "/api/tournament-matches/"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := env.do(t, tt.method, tt.path, token, map[string]any{})
			assert.Equal(t, http.StatusForbidden, rr.Code)
			assert.Equal(t, "You do not have permission to perform this action.", detailOf(t, rr))
		})
	}
}

func TestProposalDecisions(t *testing.T) {
	env := setupTestServer(t)
	carol := env.signup(t, "carol", club.RoleCoach)
	maria := env.signup(t, "maria", club.RoleManager)
	pete := env.signup(t, "pete", club.RolePlayer)
	env.link(t, pete, carol)
	coachToken := env.login(t, "carol")
	managerToken := env.login(t, "maria")

	propose := func(name string) int64 {
		rr := env.do(t, http.MethodPost, "/api/team-proposals/", coachToken, club.NewProposal{
			ManagerID: maria.ID, SportID: env.cricket.ID, TeamName: name, PlayerIDs: []int64{pete.ID},
		})
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		return decodeBody[club.TeamProposal](t, rr).ID
	}

	t.Run("approve once", func(t *testing.T) {
		id := propose("Falcons")
		path := fmt.Sprintf("/api/team-proposals/%d/approve/", id)

		rr := env.do(t, http.MethodPost, path, coachToken, nil)
		assert.Equal(t, http.StatusForbidden, rr.Code)

		rr = env.do(t, http.MethodPost, path, managerToken, nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		resp := decodeBody[club.DecisionResponse](t, rr)
		assert.Equal(t, "Team proposal approved", resp.Detail)
		assert.Equal(t, club.StatusApproved, resp.Status)
		require.NotNil(t, resp.TeamID)

		rr = env.do(t, http.MethodPost, path, managerToken, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Team proposal is not pending", detailOf(t, rr))

		rr = env.do(t, http.MethodGet, fmt.Sprintf("/api/teams/%d/", *resp.TeamID), managerToken, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		team := decodeBody[club.Team](t, rr)
		assert.Equal(t, "Falcons", team.Name)
		require.Len(t, team.Players, 1)
		assert.Equal(t, pete.ID, team.Players[0].ID)
	})

	t.Run("reject with remarks", func(t *testing.T) {
		id := propose("Hawks")
		rr := env.do(t, http.MethodPost, fmt.Sprintf("/api/team-proposals/%d/reject/", id), managerToken, club.DecisionRequest{Remarks: "X"})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Equal(t, "Team proposal rejected", detailOf(t, rr))

		rr = env.do(t, http.MethodGet, "/api/team-proposals/", coachToken, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var found bool
		for _, p := range decodeBody[[]club.TeamProposal](t, rr) {
			if p.ID == id {
				found = true
				assert.Equal(t, club.StatusRejected, p.Status)
				assert.Equal(t, "X", p.Remarks)
			}
		}
		assert.True(t, found)
	})

	t.Run("coach is notified", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/api/notifications/", coachToken, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		notes := decodeBody[[]club.Notification](t, rr)
		require.NotEmpty(t, notes)

		rr = env.do(t, http.MethodPost, fmt.Sprintf("/api/notifications/%d/mark-read/", notes[0].ID), coachToken, nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		rr = env.do(t, http.MethodPost, fmt.Sprintf("/api/notifications/%d/mark-read/", notes[0].ID), managerToken, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func uploadCSV(t *testing.T, env *testEnv, token string, sessionID int64, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "attendance.csv")
	require.NoError(t, err)
	_, err = io.WriteString(fw, content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/sessions/%d/upload-csv/", sessionID), &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	env.server.ServeHTTP(rr, req)
	return rr
}

func TestSessionAttendance(t *testing.T) {
	env := setupTestServer(t)
	carol := env.signup(t, "carol", club.RoleCoach)
	pete := env.signup(t, "pete", club.RolePlayer)
	paula := env.signup(t, "paula", club.RolePlayer)
	env.link(t, pete, carol)
	env.link(t, paula, carol)
	token := env.login(t, "carol")

	rr := env.do(t, http.MethodPost, "/api/sessions/", token, club.NewSession{SportID: env.cricket.ID, Title: "Nets"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	sessionID := decodeBody[club.Created](t, rr).ID
	require.NotZero(t, sessionID)

	rr = env.do(t, http.MethodGet, fmt.Sprintf("/api/sessions/%d/csv-template/", sessionID), token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "attachment")
	lines := strings.Split(strings.TrimSpace(rr.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "player_id,attended,score", lines[0])

	t.Run("bad row is reported with 207", func(t *testing.T) {
		csv := fmt.Sprintf("player_id,attended,score\n%s,1,8\nP9999999,1,5\n", pete.PublicID)
		rr := uploadCSV(t, env, token, sessionID, csv)
		require.Equal(t, http.StatusMultiStatus, rr.Code, rr.Body.String())
		res := decodeBody[club.UploadResult](t, rr)
		assert.Equal(t, 1, res.Updated)
		require.Len(t, res.Errors, 1)
		assert.Equal(t, 2, res.Errors[0].Row)
		assert.Equal(t, "P9999999", res.Errors[0].PlayerID)
	})

	t.Run("clean upload is 200", func(t *testing.T) {
		csv := fmt.Sprintf("player_id,attended,score\n%s,0,0\n", paula.PublicID)
		rr := uploadCSV(t, env, token, sessionID, csv)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Empty(t, decodeBody[club.UploadResult](t, rr).Errors)
	})

	t.Run("bad header rejects the upload", func(t *testing.T) {
		rr := uploadCSV(t, env, token, sessionID, "id,present\n")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("end session", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, fmt.Sprintf("/api/sessions/%d/end/", sessionID), token, nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		summary := decodeBody[club.SessionSummary](t, rr)
		assert.Equal(t, summary.TotalPlayers, summary.Attended+summary.Absent)
		assert.Equal(t, 1, summary.Attended)
		require.Len(t, env.notif.SendSessionSummaryCalls, 1)
		assert.Equal(t, []pubsub.EventType{pubsub.EventAttendanceUploaded, pubsub.EventAttendanceUploaded, pubsub.EventSessionEnded}, env.pubsub.Topics())

		rr = uploadCSV(t, env, token, sessionID, fmt.Sprintf("player_id,attended,score\n%s,1,1\n", pete.PublicID))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Session is not active", detailOf(t, rr))
	})
}

func TestTournamentTables(t *testing.T) {
	env := setupTestServer(t)
	env.signup(t, "maria", club.RoleManager)
	pete := env.signup(t, "pete", club.RolePlayer)
	token := env.login(t, "maria")

	rr := env.do(t, http.MethodPost, "/api/tournaments/", token, club.NewTournament{Name: "Spring Cup", SportID: env.cricket.ID, Location: "Oval", StartDate: "2025-04-10"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	tournament := decodeBody[club.Tournament](t, rr)

	teams := map[string]int64{}
	for _, name := range []string{"A", "B", "C"} {
		rr := env.do(t, http.MethodPost, "/api/teams/", token, club.NewTeam{Name: name, SportID: env.cricket.ID})
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		teams[name] = decodeBody[club.Team](t, rr).ID

		rr = env.do(t, http.MethodPost, fmt.Sprintf("/api/tournaments/%d/add-team/", tournament.ID), token, club.AddTeam{TeamID: teams[name]})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	}

	rr = env.do(t, http.MethodPost, fmt.Sprintf("/api/tournaments/%d/add-team/", tournament.ID), token, club.AddTeam{TeamID: teams["A"]})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Team already added to this tournament", detailOf(t, rr))

	rr = env.do(t, http.MethodPost, "/api/tournament-matches/", token, club.NewMatch{TournamentID: tournament.ID, Team1ID: teams["A"], Team2ID: teams["A"], Date: "2025-04-10"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "A team cannot play against itself", detailOf(t, rr))

	results := []struct {
		home, away string
		scoreHome  int
		scoreAway  int
	}{
		{"C", "A", 10, 5},
		{"C", "B", 8, 2},
		{"A", "B", 6, 4},
	}
	for i, res := range results {
		rr := env.do(t, http.MethodPost, "/api/tournament-matches/", token, club.NewMatch{
			TournamentID: tournament.ID, Team1ID: teams[res.home], Team2ID: teams[res.away],
			MatchNumber: i + 1, Date: "2025-04-10", ScoreTeam1: res.scoreHome, ScoreTeam2: res.scoreAway,
			IsCompleted: true, ManOfTheMatchID: &pete.ID,
		})
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	}

	rr = env.do(t, http.MethodGet, fmt.Sprintf("/api/tournaments/%d/matches/", tournament.ID), token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decodeBody[[]club.TournamentMatch](t, rr), 3)

	rr = env.do(t, http.MethodGet, fmt.Sprintf("/api/tournaments/%d/points-table/", tournament.ID), token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	table := decodeBody[[]club.PointsTableEntry](t, rr)
	require.Len(t, table, 3)
	assert.Equal(t, []string{"C", "A", "B"}, []string{table[0].Team.Name, table[1].Team.Name, table[2].Team.Name})
	assert.Equal(t, 4, table[0].Points)
	assert.Equal(t, 2, table[0].Played)

	rr = env.do(t, http.MethodGet, fmt.Sprintf("/api/tournaments/%d/leaderboard/", tournament.ID), token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	board := decodeBody[[]club.LeaderboardEntry](t, rr)
	require.Len(t, board, 1)
	assert.Equal(t, 3, board[0].Awards)

	rr = env.do(t, http.MethodGet, "/api/tournaments/999/points-table/", token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestTeamLifecycle(t *testing.T) {
	env := setupTestServer(t)
	env.signup(t, "maria", club.RoleManager)
	carol := env.signup(t, "carol", club.RoleCoach)
	token := env.login(t, "maria")

	rr := env.do(t, http.MethodPost, "/api/teams/", token, club.NewTeam{SportID: env.cricket.ID})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "name is required", detailOf(t, rr))

	rr = env.do(t, http.MethodPost, "/api/teams/", token, club.NewTeam{Name: "Owls", SportID: env.cricket.ID})
	require.Equal(t, http.StatusCreated, rr.Code)
	team := decodeBody[club.Team](t, rr)

	name := "Night Owls"
	rr = env.do(t, http.MethodPatch, fmt.Sprintf("/api/teams/%d/", team.ID), token, club.TeamUpdate{Name: &name, CoachID: &carol.ID})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	updated := decodeBody[club.Team](t, rr)
	assert.Equal(t, "Night Owls", updated.Name)
	require.NotNil(t, updated.Coach)
	assert.Equal(t, carol.ID, updated.Coach.ID)

	rr = env.do(t, http.MethodDelete, fmt.Sprintf("/api/teams/%d/", team.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = env.do(t, http.MethodGet, fmt.Sprintf("/api/teams/%d/", team.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestUpdateProfileHandler(t *testing.T) {
	env := setupTestServer(t)
	carol := env.signup(t, "carol", club.RoleCoach)
	env.signup(t, "chris", club.RoleCoach)
	pete := env.signup(t, "pete", club.RolePlayer)
	env.link(t, pete, carol)

	rr := env.do(t, http.MethodGet, "/api/player-sport-profiles/", env.login(t, "carol"), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	profiles := decodeBody[[]club.PlayerSportProfile](t, rr)
	require.Len(t, profiles, 1)
	path := fmt.Sprintf("/api/player-sport-profiles/%d/", profiles[0].ID)
	inactive := false

	rr = env.do(t, http.MethodPatch, path, env.login(t, "chris"), club.ProfileUpdate{IsActive: &inactive})
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "You can only manage your own students", detailOf(t, rr))

	rr = env.do(t, http.MethodPatch, path, env.login(t, "carol"), club.ProfileUpdate{IsActive: &inactive})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.False(t, decodeBody[club.PlayerSportProfile](t, rr).IsActive)
}

func TestDryRunStillWritesStore(t *testing.T) {
	env := setupTestServer(t)
	carol := env.signup(t, "carol", club.RoleCoach)
	pete := env.signup(t, "pete", club.RolePlayer)
	token := env.login(t, "carol")

	rr := env.do(t, http.MethodPost, "/api/coach-player-links/invite/?dry_run=true", token, club.Invite{PlayerID: pete.PublicID, SportID: env.cricket.ID})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Empty(t, env.pubsub.SendMessageCalls)

	links, err := env.store.ListLinkRequests(context.Background(), carol)
	require.NoError(t, err)
	assert.Len(t, links, 1)
}

func TestEventPushHandler(t *testing.T) {
	env := setupTestServer(t)
	env.pubsub.ProcessMessageFunc = func(data []byte, v any) error {
		return msgpack.Unmarshal(data, v)
	}

	push := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/pubsub/events", strings.NewReader(body))
		rr := httptest.NewRecorder()
		env.server.ServeHTTP(rr, req)
		return rr
	}

	t.Run("valid event", func(t *testing.T) {
		data, err := msgpack.Marshal(club.Event{Type: string(pubsub.EventLinkDecided), EntityID: 7, Status: club.StatusAccepted, ActorID: 2})
		require.NoError(t, err)
		body := fmt.Sprintf(`{"subscription":"sub","message":{"data":%q,"attributes":{"event":"link-decided"}}}`, base64.StdEncoding.EncodeToString(data))

		rr := push(body)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "OK", rr.Body.String())

		require.Len(t, env.pubsub.ProcessMessageCalls, 1)
		event, ok := env.pubsub.ProcessMessageCalls[0].ReturnValue.(*club.Event)
		require.True(t, ok)
		assert.Equal(t, int64(7), event.EntityID)
		assert.Equal(t, club.StatusAccepted, event.Status)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, push("{").Code)
	})

	t.Run("invalid base64", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, push(`{"message":{"data":"***"}}`).Code)
	})
}
