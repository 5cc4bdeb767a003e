package service

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mauv0809/clubhouse/internal/apiclient"
	"github.com/mauv0809/clubhouse/internal/club"
)

var _ API = (*Service)(nil)

// Service maps each backend operation onto its verb, path and payload.
type Service struct {
	client Sender
}

func New(client Sender) *Service {
	return &Service{client: client}
}

// call sends a request and decodes the JSON answer into T.
func call[T any](ctx context.Context, s Sender, method, path string, body any, opts ...apiclient.RequestOption) (T, error) {
	var out T
	resp, err := s.Send(ctx, method, path, body, opts...)
	if err != nil {
		return out, err
	}
	if err := resp.Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}

func decision(remarks string) any {
	if remarks == "" {
		return nil
	}
	return club.DecisionRequest{Remarks: remarks}
}

func (s *Service) Login(ctx context.Context, in club.LoginRequest) (club.LoginResponse, error) {
	return call[club.LoginResponse](ctx, s.client, http.MethodPost, "/api/auth/login/", in)
}

func (s *Service) Signup(ctx context.Context, in club.SignupRequest) (club.Created, error) {
	return call[club.Created](ctx, s.client, http.MethodPost, "/api/auth/signup/", in)
}

func (s *Service) Logout(ctx context.Context) error {
	_, err := s.client.Send(ctx, http.MethodPost, "/api/auth/logout/", nil)
	return err
}

// RevokeToken logs out token, which need not be the active session's.
func (s *Service) RevokeToken(ctx context.Context, token string) error {
	_, err := s.client.Send(ctx, http.MethodPost, "/api/auth/logout/", nil, apiclient.WithToken(token))
	return err
}

func (s *Service) ListUsers(ctx context.Context, role club.Role) ([]club.User, error) {
	path := "/api/users/"
	if role != "" {
		path += "?role=" + url.QueryEscape(string(role))
	}
	return call[[]club.User](ctx, s.client, http.MethodGet, path, nil)
}

func (s *Service) VerifyUser(ctx context.Context, id int64) (club.User, error) {
	return call[club.User](ctx, s.client, http.MethodPost, fmt.Sprintf("/api/users/%d/verify/", id), nil)
}

func (s *Service) CoachDashboard(ctx context.Context) (club.CoachDashboard, error) {
	return call[club.CoachDashboard](ctx, s.client, http.MethodGet, "/api/dashboard/coach/", nil)
}

func (s *Service) PlayerDashboard(ctx context.Context) (club.PlayerDashboard, error) {
	return call[club.PlayerDashboard](ctx, s.client, http.MethodGet, "/api/dashboard/player/", nil)
}

func (s *Service) ListSports(ctx context.Context) ([]club.Sport, error) {
	return call[[]club.Sport](ctx, s.client, http.MethodGet, "/api/sports/", nil)
}

func (s *Service) ListSessions(ctx context.Context) ([]club.Session, error) {
	return call[[]club.Session](ctx, s.client, http.MethodGet, "/api/sessions/", nil)
}

func (s *Service) CreateSession(ctx context.Context, in club.NewSession) (club.Created, error) {
	return call[club.Created](ctx, s.client, http.MethodPost, "/api/sessions/", in)
}

func (s *Service) SessionCSVTemplate(ctx context.Context, sessionID int64) ([]byte, error) {
	resp, err := s.client.Send(ctx, http.MethodGet, fmt.Sprintf("/api/sessions/%d/csv-template/", sessionID), nil, apiclient.AsBlob())
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func (s *Service) UploadSessionCSV(ctx context.Context, sessionID int64, filename string, csv []byte) (club.UploadResult, error) {
	return call[club.UploadResult](ctx, s.client, http.MethodPost, fmt.Sprintf("/api/sessions/%d/upload-csv/", sessionID), nil,
		apiclient.WithMultipart("file", filename, bytes.NewReader(csv)))
}

func (s *Service) EndSession(ctx context.Context, sessionID int64) (club.SessionSummary, error) {
	return call[club.SessionSummary](ctx, s.client, http.MethodPost, fmt.Sprintf("/api/sessions/%d/end/", sessionID), nil)
}

func (s *Service) ListProposals(ctx context.Context) ([]club.TeamProposal, error) {
	return call[[]club.TeamProposal](ctx, s.client, http.MethodGet, "/api/team-proposals/", nil)
}

func (s *Service) CreateProposal(ctx context.Context, in club.NewProposal) (club.TeamProposal, error) {
	return call[club.TeamProposal](ctx, s.client, http.MethodPost, "/api/team-proposals/", in)
}

func (s *Service) ApproveProposal(ctx context.Context, id int64, remarks string) (club.DecisionResponse, error) {
	return call[club.DecisionResponse](ctx, s.client, http.MethodPost, fmt.Sprintf("/api/team-proposals/%d/approve/", id), decision(remarks))
}

func (s *Service) RejectProposal(ctx context.Context, id int64, remarks string) (club.DecisionResponse, error) {
	return call[club.DecisionResponse](ctx, s.client, http.MethodPost, fmt.Sprintf("/api/team-proposals/%d/reject/", id), decision(remarks))
}

func (s *Service) ListTeams(ctx context.Context) ([]club.Team, error) {
	return call[[]club.Team](ctx, s.client, http.MethodGet, "/api/teams/", nil)
}

func (s *Service) GetTeam(ctx context.Context, id int64) (club.Team, error) {
	return call[club.Team](ctx, s.client, http.MethodGet, fmt.Sprintf("/api/teams/%d/", id), nil)
}

func (s *Service) CreateTeam(ctx context.Context, in club.NewTeam) (club.Team, error) {
	return call[club.Team](ctx, s.client, http.MethodPost, "/api/teams/", in)
}

func (s *Service) UpdateTeam(ctx context.Context, id int64, in club.TeamUpdate) (club.Team, error) {
	return call[club.Team](ctx, s.client, http.MethodPatch, fmt.Sprintf("/api/teams/%d/", id), in)
}

func (s *Service) DeleteTeam(ctx context.Context, id int64) error {
	_, err := s.client.Send(ctx, http.MethodDelete, fmt.Sprintf("/api/teams/%d/", id), nil)
	return err
}

func (s *Service) ListTournaments(ctx context.Context) ([]club.Tournament, error) {
	return call[[]club.Tournament](ctx, s.client, http.MethodGet, "/api/tournaments/", nil)
}

func (s *Service) CreateTournament(ctx context.Context, in club.NewTournament) (club.Tournament, error) {
	return call[club.Tournament](ctx, s.client, http.MethodPost, "/api/tournaments/", in)
}

func (s *Service) AddTeamToTournament(ctx context.Context, tournamentID, teamID int64) (club.Tournament, error) {
	return call[club.Tournament](ctx, s.client, http.MethodPost, fmt.Sprintf("/api/tournaments/%d/add-team/", tournamentID), club.AddTeam{TeamID: teamID})
}

func (s *Service) TournamentMatches(ctx context.Context, tournamentID int64) ([]club.TournamentMatch, error) {
	return call[[]club.TournamentMatch](ctx, s.client, http.MethodGet, fmt.Sprintf("/api/tournaments/%d/matches/", tournamentID), nil)
}

func (s *Service) TournamentPointsTable(ctx context.Context, tournamentID int64) ([]club.PointsTableEntry, error) {
	return call[[]club.PointsTableEntry](ctx, s.client, http.MethodGet, fmt.Sprintf("/api/tournaments/%d/points-table/", tournamentID), nil)
}

func (s *Service) TournamentLeaderboard(ctx context.Context, tournamentID int64) ([]club.LeaderboardEntry, error) {
	return call[[]club.LeaderboardEntry](ctx, s.client, http.MethodGet, fmt.Sprintf("/api/tournaments/%d/leaderboard/", tournamentID), nil)
}

func (s *Service) CreateTournamentMatch(ctx context.Context, in club.NewMatch) (club.TournamentMatch, error) {
	return call[club.TournamentMatch](ctx, s.client, http.MethodPost, "/api/tournament-matches/", in)
}

func (s *Service) ListAssignments(ctx context.Context) ([]club.TeamAssignment, error) {
	return call[[]club.TeamAssignment](ctx, s.client, http.MethodGet, "/api/team-assignments/", nil)
}

func (s *Service) CreateAssignment(ctx context.Context, in club.NewAssignment) (club.TeamAssignment, error) {
	return call[club.TeamAssignment](ctx, s.client, http.MethodPost, "/api/team-assignments/", in)
}

func (s *Service) AcceptAssignment(ctx context.Context, id int64) (club.DecisionResponse, error) {
	return call[club.DecisionResponse](ctx, s.client, http.MethodPost, fmt.Sprintf("/api/team-assignments/%d/accept/", id), nil)
}

func (s *Service) RejectAssignment(ctx context.Context, id int64, remarks string) (club.DecisionResponse, error) {
	return call[club.DecisionResponse](ctx, s.client, http.MethodPost, fmt.Sprintf("/api/team-assignments/%d/reject/", id), decision(remarks))
}

func (s *Service) InvitePlayer(ctx context.Context, in club.Invite) (club.LinkRequest, error) {
	return call[club.LinkRequest](ctx, s.client, http.MethodPost, "/api/coach-player-links/invite/", in)
}

func (s *Service) RequestCoach(ctx context.Context, in club.CoachRequest) (club.LinkRequest, error) {
	return call[club.LinkRequest](ctx, s.client, http.MethodPost, "/api/coach-player-links/request/", in)
}

func (s *Service) ListLinkRequests(ctx context.Context) ([]club.LinkRequest, error) {
	return call[[]club.LinkRequest](ctx, s.client, http.MethodGet, "/api/link-requests/", nil)
}

func (s *Service) AcceptLinkRequest(ctx context.Context, id int64) (club.DecisionResponse, error) {
	return call[club.DecisionResponse](ctx, s.client, http.MethodPost, fmt.Sprintf("/api/link-requests/%d/accept/", id), nil)
}

func (s *Service) RejectLinkRequest(ctx context.Context, id int64) (club.DecisionResponse, error) {
	return call[club.DecisionResponse](ctx, s.client, http.MethodPost, fmt.Sprintf("/api/link-requests/%d/reject/", id), nil)
}

func (s *Service) ListNotifications(ctx context.Context) ([]club.Notification, error) {
	return call[[]club.Notification](ctx, s.client, http.MethodGet, "/api/notifications/", nil)
}

func (s *Service) MarkNotificationRead(ctx context.Context, id int64) error {
	_, err := s.client.Send(ctx, http.MethodPost, fmt.Sprintf("/api/notifications/%d/mark-read/", id), nil)
	return err
}

func (s *Service) ListPromotions(ctx context.Context) ([]club.PromotionRequest, error) {
	return call[[]club.PromotionRequest](ctx, s.client, http.MethodGet, "/api/promotion/", nil)
}

func (s *Service) RequestPromotion(ctx context.Context, in club.NewPromotion) (club.PromotionRequest, error) {
	return call[club.PromotionRequest](ctx, s.client, http.MethodPost, "/api/promotion/", in)
}

func (s *Service) ApprovePromotion(ctx context.Context, id int64, remarks string) (club.DecisionResponse, error) {
	return call[club.DecisionResponse](ctx, s.client, http.MethodPost, fmt.Sprintf("/api/promotion/%d/approve/", id), decision(remarks))
}

func (s *Service) RejectPromotion(ctx context.Context, id int64, remarks string) (club.DecisionResponse, error) {
	return call[club.DecisionResponse](ctx, s.client, http.MethodPost, fmt.Sprintf("/api/promotion/%d/reject/", id), decision(remarks))
}

func (s *Service) ListPlayerProfiles(ctx context.Context) ([]club.PlayerSportProfile, error) {
	return call[[]club.PlayerSportProfile](ctx, s.client, http.MethodGet, "/api/player-sport-profiles/", nil)
}

func (s *Service) UpdatePlayerProfile(ctx context.Context, id int64, in club.ProfileUpdate) (club.PlayerSportProfile, error) {
	return call[club.PlayerSportProfile](ctx, s.client, http.MethodPatch, fmt.Sprintf("/api/player-sport-profiles/%d/", id), in)
}
