package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mauv0809/clubhouse/internal/apiclient"
	"github.com/mauv0809/clubhouse/internal/club"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method string
	path   string
	body   string
}

// newTestService returns a Service backed by a server that answers every
// request with status and body and records what it received.
func newTestService(t *testing.T, status int, body string) (*Service, *[]recorded) {
	t.Helper()
	var got []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		got = append(got, recorded{r.Method, r.URL.Path, string(data)})
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return New(apiclient.New(srv.URL)), &got
}

func TestService_Routes(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name   string
		call   func(s *Service) error
		method string
		path   string
		body   string
		resp   string
	}{
		{"login", func(s *Service) error {
			_, err := s.Login(ctx, club.LoginRequest{Username: "ann", Password: "secret123"})
			return err
		}, "POST", "/api/auth/login/", `{"username":"ann","password":"secret123"}`, ""},
		{"coach dashboard", func(s *Service) error { _, err := s.CoachDashboard(ctx); return err }, "GET", "/api/dashboard/coach/", "", ""},
		{"player dashboard", func(s *Service) error { _, err := s.PlayerDashboard(ctx); return err }, "GET", "/api/dashboard/player/", "", ""},
		{"end session", func(s *Service) error { _, err := s.EndSession(ctx, 4); return err }, "POST", "/api/sessions/4/end/", "", ""},
		{"approve proposal", func(s *Service) error { _, err := s.ApproveProposal(ctx, 9, ""); return err }, "POST", "/api/team-proposals/9/approve/", "", ""},
		{"reject proposal", func(s *Service) error { _, err := s.RejectProposal(ctx, 9, "X"); return err }, "POST", "/api/team-proposals/9/reject/", `{"remarks":"X"}`, ""},
		{"update team", func(s *Service) error {
			name := "Falcons"
			_, err := s.UpdateTeam(ctx, 3, club.TeamUpdate{Name: &name})
			return err
		}, "PATCH", "/api/teams/3/", `{"name":"Falcons"}`, ""},
		{"delete team", func(s *Service) error { return s.DeleteTeam(ctx, 3) }, "DELETE", "/api/teams/3/", "", ""},
		{"add team", func(s *Service) error { _, err := s.AddTeamToTournament(ctx, 2, 5); return err }, "POST", "/api/tournaments/2/add-team/", `{"team_id":5}`, ""},
		{"points table", func(s *Service) error { _, err := s.TournamentPointsTable(ctx, 2); return err }, "GET", "/api/tournaments/2/points-table/", "", `[]`},
		{"accept assignment", func(s *Service) error { _, err := s.AcceptAssignment(ctx, 1); return err }, "POST", "/api/team-assignments/1/accept/", "", ""},
		{"invite", func(s *Service) error {
			_, err := s.InvitePlayer(ctx, club.Invite{PlayerID: "P2500001", SportID: 1})
			return err
		}, "POST", "/api/coach-player-links/invite/", `{"player_id":"P2500001","sport_id":1}`, ""},
		{"reject link", func(s *Service) error { _, err := s.RejectLinkRequest(ctx, 6); return err }, "POST", "/api/link-requests/6/reject/", "", ""},
		{"mark read", func(s *Service) error { return s.MarkNotificationRead(ctx, 8) }, "POST", "/api/notifications/8/mark-read/", "", ""},
		{"approve promotion", func(s *Service) error { _, err := s.ApprovePromotion(ctx, 2, "ok"); return err }, "POST", "/api/promotion/2/approve/", `{"remarks":"ok"}`, ""},
		{"create match", func(s *Service) error {
			_, err := s.CreateTournamentMatch(ctx, club.NewMatch{TournamentID: 2, Team1ID: 1, Team2ID: 2})
			return err
		}, "POST", "/api/tournament-matches/", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := tt.resp
			if resp == "" {
				resp = `{}`
			}
			s, got := newTestService(t, http.StatusOK, resp)
			require.NoError(t, tt.call(s))
			require.Len(t, *got, 1)
			assert.Equal(t, tt.method, (*got)[0].method)
			assert.Equal(t, tt.path, (*got)[0].path)
			if tt.body != "" {
				assert.JSONEq(t, tt.body, (*got)[0].body)
			}
		})
	}
}

func TestService_DecodesResults(t *testing.T) {
	summary := club.SessionSummary{SessionID: 4, TotalPlayers: 3, Attended: 2, Absent: 1, AverageRating: 7.5}
	data, _ := json.Marshal(summary)
	s, _ := newTestService(t, http.StatusOK, string(data))

	got, err := s.EndSession(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, summary, got)
}

func TestService_UploadReportsRowErrors(t *testing.T) {
	s, got := newTestService(t, http.StatusMultiStatus, `{"updated":1,"errors":[{"row":2,"player_id":"P2","error":"invalid attended value"}]}`)

	res, err := s.UploadSessionCSV(context.Background(), 4, "attendance.csv", []byte("player_id,attended,score\nP1,true,8\nP2,bad,x\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 2, res.Errors[0].Row)
	assert.Equal(t, "P2", res.Errors[0].PlayerID)
	assert.Contains(t, (*got)[0].body, "player_id,attended,score")
}

func TestService_TemplateIsRawBytes(t *testing.T) {
	s, got := newTestService(t, http.StatusOK, "player_id,attended,score\nP2500001,0,0\n")

	data, err := s.SessionCSVTemplate(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "player_id,attended,score\nP2500001,0,0\n", string(data))
	assert.Equal(t, "/api/sessions/4/csv-template/", (*got)[0].path)
}

func TestService_PropagatesErrorsUntouched(t *testing.T) {
	s, _ := newTestService(t, http.StatusBadRequest, `{"detail":"Team proposal is not pending"}`)

	_, err := s.ApproveProposal(context.Background(), 9, "")
	var verr *apiclient.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Team proposal is not pending", verr.Message)
}

func TestMock_RecordsCalls(t *testing.T) {
	m := NewMock()
	m.ListSportsFunc = func() ([]club.Sport, error) {
		return []club.Sport{{ID: 1, Name: "Cricket"}}, nil
	}

	sports, err := m.ListSports(context.Background())
	require.NoError(t, err)
	assert.Len(t, sports, 1)
	_, _ = m.RejectProposal(context.Background(), 3, "X")

	assert.Equal(t, 1, m.CallCount("ListSports"))
	assert.Equal(t, []any{int64(3), "X"}, m.Calls[1].Args)

	m.Reset()
	assert.Empty(t, m.Calls)
}
