package service

import (
	"context"
	"sync"

	"github.com/mauv0809/clubhouse/internal/club"
)

var _ API = (*Mock)(nil)

// Call records one invocation on the Mock.
type Call struct {
	Method string
	Args   []any
}

// Mock is a mock implementation of the API interface for testing.
// Unset Func fields return zero values and no error. It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	Calls []Call

	LoginFunc                 func(in club.LoginRequest) (club.LoginResponse, error)
	SignupFunc                func(in club.SignupRequest) (club.Created, error)
	LogoutFunc                func() error
	RevokeTokenFunc           func(token string) error
	ListUsersFunc             func(role club.Role) ([]club.User, error)
	VerifyUserFunc            func(id int64) (club.User, error)
	CoachDashboardFunc        func() (club.CoachDashboard, error)
	PlayerDashboardFunc       func() (club.PlayerDashboard, error)
	ListSportsFunc            func() ([]club.Sport, error)
	ListSessionsFunc          func() ([]club.Session, error)
	CreateSessionFunc         func(in club.NewSession) (club.Created, error)
	SessionCSVTemplateFunc    func(sessionID int64) ([]byte, error)
	UploadSessionCSVFunc      func(sessionID int64, filename string, csv []byte) (club.UploadResult, error)
	EndSessionFunc            func(sessionID int64) (club.SessionSummary, error)
	ListProposalsFunc         func() ([]club.TeamProposal, error)
	CreateProposalFunc        func(in club.NewProposal) (club.TeamProposal, error)
	ApproveProposalFunc       func(id int64, remarks string) (club.DecisionResponse, error)
	RejectProposalFunc        func(id int64, remarks string) (club.DecisionResponse, error)
	ListTeamsFunc             func() ([]club.Team, error)
	GetTeamFunc               func(id int64) (club.Team, error)
	CreateTeamFunc            func(in club.NewTeam) (club.Team, error)
	UpdateTeamFunc            func(id int64, in club.TeamUpdate) (club.Team, error)
	DeleteTeamFunc            func(id int64) error
	ListTournamentsFunc       func() ([]club.Tournament, error)
	CreateTournamentFunc      func(in club.NewTournament) (club.Tournament, error)
	AddTeamToTournamentFunc   func(tournamentID, teamID int64) (club.Tournament, error)
	TournamentMatchesFunc     func(tournamentID int64) ([]club.TournamentMatch, error)
	TournamentPointsTableFunc func(tournamentID int64) ([]club.PointsTableEntry, error)
	TournamentLeaderboardFunc func(tournamentID int64) ([]club.LeaderboardEntry, error)
	CreateTournamentMatchFunc func(in club.NewMatch) (club.TournamentMatch, error)
	ListAssignmentsFunc       func() ([]club.TeamAssignment, error)
	CreateAssignmentFunc      func(in club.NewAssignment) (club.TeamAssignment, error)
	AcceptAssignmentFunc      func(id int64) (club.DecisionResponse, error)
	RejectAssignmentFunc      func(id int64, remarks string) (club.DecisionResponse, error)
	InvitePlayerFunc          func(in club.Invite) (club.LinkRequest, error)
	RequestCoachFunc          func(in club.CoachRequest) (club.LinkRequest, error)
	ListLinkRequestsFunc      func() ([]club.LinkRequest, error)
	AcceptLinkRequestFunc     func(id int64) (club.DecisionResponse, error)
	RejectLinkRequestFunc     func(id int64) (club.DecisionResponse, error)
	ListNotificationsFunc     func() ([]club.Notification, error)
	MarkNotificationReadFunc  func(id int64) error
	ListPromotionsFunc        func() ([]club.PromotionRequest, error)
	RequestPromotionFunc      func(in club.NewPromotion) (club.PromotionRequest, error)
	ApprovePromotionFunc      func(id int64, remarks string) (club.DecisionResponse, error)
	RejectPromotionFunc       func(id int64, remarks string) (club.DecisionResponse, error)
	ListPlayerProfilesFunc    func() ([]club.PlayerSportProfile, error)
	UpdatePlayerProfileFunc   func(id int64, in club.ProfileUpdate) (club.PlayerSportProfile, error)
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = nil
}

// CallCount returns how many times method was invoked.
func (m *Mock) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

func (m *Mock) record(method string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, Call{Method: method, Args: args})
}

func (m *Mock) Login(ctx context.Context, in club.LoginRequest) (club.LoginResponse, error) {
	m.record("Login", in)
	if m.LoginFunc != nil {
		return m.LoginFunc(in)
	}
	var out club.LoginResponse
	return out, nil
}

func (m *Mock) Signup(ctx context.Context, in club.SignupRequest) (club.Created, error) {
	m.record("Signup", in)
	if m.SignupFunc != nil {
		return m.SignupFunc(in)
	}
	var out club.Created
	return out, nil
}

func (m *Mock) Logout(ctx context.Context) error {
	m.record("Logout")
	if m.LogoutFunc != nil {
		return m.LogoutFunc()
	}
	return nil
}

func (m *Mock) RevokeToken(ctx context.Context, token string) error {
	m.record("RevokeToken", token)
	if m.RevokeTokenFunc != nil {
		return m.RevokeTokenFunc(token)
	}
	return nil
}

func (m *Mock) ListUsers(ctx context.Context, role club.Role) ([]club.User, error) {
	m.record("ListUsers", role)
	if m.ListUsersFunc != nil {
		return m.ListUsersFunc(role)
	}
	return nil, nil
}

func (m *Mock) VerifyUser(ctx context.Context, id int64) (club.User, error) {
	m.record("VerifyUser", id)
	if m.VerifyUserFunc != nil {
		return m.VerifyUserFunc(id)
	}
	var out club.User
	return out, nil
}

func (m *Mock) CoachDashboard(ctx context.Context) (club.CoachDashboard, error) {
	m.record("CoachDashboard")
	if m.CoachDashboardFunc != nil {
		return m.CoachDashboardFunc()
	}
	var out club.CoachDashboard
	return out, nil
}

func (m *Mock) PlayerDashboard(ctx context.Context) (club.PlayerDashboard, error) {
	m.record("PlayerDashboard")
	if m.PlayerDashboardFunc != nil {
		return m.PlayerDashboardFunc()
	}
	var out club.PlayerDashboard
	return out, nil
}

func (m *Mock) ListSports(ctx context.Context) ([]club.Sport, error) {
	m.record("ListSports")
	if m.ListSportsFunc != nil {
		return m.ListSportsFunc()
	}
	return nil, nil
}

func (m *Mock) ListSessions(ctx context.Context) ([]club.Session, error) {
	m.record("ListSessions")
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc()
	}
	return nil, nil
}

func (m *Mock) CreateSession(ctx context.Context, in club.NewSession) (club.Created, error) {
	m.record("CreateSession", in)
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(in)
	}
	var out club.Created
	return out, nil
}

func (m *Mock) SessionCSVTemplate(ctx context.Context, sessionID int64) ([]byte, error) {
	m.record("SessionCSVTemplate", sessionID)
	if m.SessionCSVTemplateFunc != nil {
		return m.SessionCSVTemplateFunc(sessionID)
	}
	return nil, nil
}

func (m *Mock) UploadSessionCSV(ctx context.Context, sessionID int64, filename string, csv []byte) (club.UploadResult, error) {
	m.record("UploadSessionCSV", sessionID, filename, csv)
	if m.UploadSessionCSVFunc != nil {
		return m.UploadSessionCSVFunc(sessionID, filename, csv)
	}
	var out club.UploadResult
	return out, nil
}

func (m *Mock) EndSession(ctx context.Context, sessionID int64) (club.SessionSummary, error) {
	m.record("EndSession", sessionID)
	if m.EndSessionFunc != nil {
		return m.EndSessionFunc(sessionID)
	}
	var out club.SessionSummary
	return out, nil
}

func (m *Mock) ListProposals(ctx context.Context) ([]club.TeamProposal, error) {
	m.record("ListProposals")
	if m.ListProposalsFunc != nil {
		return m.ListProposalsFunc()
	}
	return nil, nil
}

func (m *Mock) CreateProposal(ctx context.Context, in club.NewProposal) (club.TeamProposal, error) {
	m.record("CreateProposal", in)
	if m.CreateProposalFunc != nil {
		return m.CreateProposalFunc(in)
	}
	var out club.TeamProposal
	return out, nil
}

func (m *Mock) ApproveProposal(ctx context.Context, id int64, remarks string) (club.DecisionResponse, error) {
	m.record("ApproveProposal", id, remarks)
	if m.ApproveProposalFunc != nil {
		return m.ApproveProposalFunc(id, remarks)
	}
	var out club.DecisionResponse
	return out, nil
}

func (m *Mock) RejectProposal(ctx context.Context, id int64, remarks string) (club.DecisionResponse, error) {
	m.record("RejectProposal", id, remarks)
	if m.RejectProposalFunc != nil {
		return m.RejectProposalFunc(id, remarks)
	}
	var out club.DecisionResponse
	return out, nil
}

func (m *Mock) ListTeams(ctx context.Context) ([]club.Team, error) {
	m.record("ListTeams")
	if m.ListTeamsFunc != nil {
		return m.ListTeamsFunc()
	}
	return nil, nil
}

func (m *Mock) GetTeam(ctx context.Context, id int64) (club.Team, error) {
	m.record("GetTeam", id)
	if m.GetTeamFunc != nil {
		return m.GetTeamFunc(id)
	}
	var out club.Team
	return out, nil
}

func (m *Mock) CreateTeam(ctx context.Context, in club.NewTeam) (club.Team, error) {
	m.record("CreateTeam", in)
	if m.CreateTeamFunc != nil {
		return m.CreateTeamFunc(in)
	}
	var out club.Team
	return out, nil
}

func (m *Mock) UpdateTeam(ctx context.Context, id int64, in club.TeamUpdate) (club.Team, error) {
	m.record("UpdateTeam", id, in)
	if m.UpdateTeamFunc != nil {
		return m.UpdateTeamFunc(id, in)
	}
	var out club.Team
	return out, nil
}

func (m *Mock) DeleteTeam(ctx context.Context, id int64) error {
	m.record("DeleteTeam", id)
	if m.DeleteTeamFunc != nil {
		return m.DeleteTeamFunc(id)
	}
	return nil
}

func (m *Mock) ListTournaments(ctx context.Context) ([]club.Tournament, error) {
	m.record("ListTournaments")
	if m.ListTournamentsFunc != nil {
		return m.ListTournamentsFunc()
	}
	return nil, nil
}

func (m *Mock) CreateTournament(ctx context.Context, in club.NewTournament) (club.Tournament, error) {
	m.record("CreateTournament", in)
	if m.CreateTournamentFunc != nil {
		return m.CreateTournamentFunc(in)
	}
	var out club.Tournament
	return out, nil
}

func (m *Mock) AddTeamToTournament(ctx context.Context, tournamentID, teamID int64) (club.Tournament, error) {
	m.record("AddTeamToTournament", tournamentID, teamID)
	if m.AddTeamToTournamentFunc != nil {
		return m.AddTeamToTournamentFunc(tournamentID, teamID)
	}
	var out club.Tournament
	return out, nil
}

func (m *Mock) TournamentMatches(ctx context.Context, tournamentID int64) ([]club.TournamentMatch, error) {
	m.record("TournamentMatches", tournamentID)
	if m.TournamentMatchesFunc != nil {
		return m.TournamentMatchesFunc(tournamentID)
	}
	return nil, nil
}

func (m *Mock) TournamentPointsTable(ctx context.Context, tournamentID int64) ([]club.PointsTableEntry, error) {
	m.record("TournamentPointsTable", tournamentID)
	if m.TournamentPointsTableFunc != nil {
		return m.TournamentPointsTableFunc(tournamentID)
	}
	return nil, nil
}

func (m *Mock) TournamentLeaderboard(ctx context.Context, tournamentID int64) ([]club.LeaderboardEntry, error) {
	m.record("TournamentLeaderboard", tournamentID)
	if m.TournamentLeaderboardFunc != nil {
		return m.TournamentLeaderboardFunc(tournamentID)
	}
	return nil, nil
}

func (m *Mock) CreateTournamentMatch(ctx context.Context, in club.NewMatch) (club.TournamentMatch, error) {
	m.record("CreateTournamentMatch", in)
	if m.CreateTournamentMatchFunc != nil {
		return m.CreateTournamentMatchFunc(in)
	}
	var out club.TournamentMatch
	return out, nil
}

func (m *Mock) ListAssignments(ctx context.Context) ([]club.TeamAssignment, error) {
	m.record("ListAssignments")
	if m.ListAssignmentsFunc != nil {
		return m.ListAssignmentsFunc()
	}
	return nil, nil
}

func (m *Mock) CreateAssignment(ctx context.Context, in club.NewAssignment) (club.TeamAssignment, error) {
	m.record("CreateAssignment", in)
	if m.CreateAssignmentFunc != nil {
		return m.CreateAssignmentFunc(in)
	}
	var out club.TeamAssignment
	return out, nil
}

func (m *Mock) AcceptAssignment(ctx context.Context, id int64) (club.DecisionResponse, error) {
	m.record("AcceptAssignment", id)
	if m.AcceptAssignmentFunc != nil {
		return m.AcceptAssignmentFunc(id)
	}
	var out club.DecisionResponse
	return out, nil
}

func (m *Mock) RejectAssignment(ctx context.Context, id int64, remarks string) (club.DecisionResponse, error) {
	m.record("RejectAssignment", id, remarks)
	if m.RejectAssignmentFunc != nil {
		return m.RejectAssignmentFunc(id, remarks)
	}
	var out club.DecisionResponse
	return out, nil
}

func (m *Mock) InvitePlayer(ctx context.Context, in club.Invite) (club.LinkRequest, error) {
	m.record("InvitePlayer", in)
	if m.InvitePlayerFunc != nil {
		return m.InvitePlayerFunc(in)
	}
	var out club.LinkRequest
	return out, nil
}

func (m *Mock) RequestCoach(ctx context.Context, in club.CoachRequest) (club.LinkRequest, error) {
	m.record("RequestCoach", in)
	if m.RequestCoachFunc != nil {
		return m.RequestCoachFunc(in)
	}
	var out club.LinkRequest
	return out, nil
}

func (m *Mock) ListLinkRequests(ctx context.Context) ([]club.LinkRequest, error) {
	m.record("ListLinkRequests")
	if m.ListLinkRequestsFunc != nil {
		return m.ListLinkRequestsFunc()
	}
	return nil, nil
}

func (m *Mock) AcceptLinkRequest(ctx context.Context, id int64) (club.DecisionResponse, error) {
	m.record("AcceptLinkRequest", id)
	if m.AcceptLinkRequestFunc != nil {
		return m.AcceptLinkRequestFunc(id)
	}
	var out club.DecisionResponse
	return out, nil
}

func (m *Mock) RejectLinkRequest(ctx context.Context, id int64) (club.DecisionResponse, error) {
	m.record("RejectLinkRequest", id)
	if m.RejectLinkRequestFunc != nil {
		return m.RejectLinkRequestFunc(id)
	}
	var out club.DecisionResponse
	return out, nil
}

func (m *Mock) ListNotifications(ctx context.Context) ([]club.Notification, error) {
	m.record("ListNotifications")
	if m.ListNotificationsFunc != nil {
		return m.ListNotificationsFunc()
	}
	return nil, nil
}

func (m *Mock) MarkNotificationRead(ctx context.Context, id int64) error {
	m.record("MarkNotificationRead", id)
	if m.MarkNotificationReadFunc != nil {
		return m.MarkNotificationReadFunc(id)
	}
	return nil
}

func (m *Mock) ListPromotions(ctx context.Context) ([]club.PromotionRequest, error) {
	m.record("ListPromotions")
	if m.ListPromotionsFunc != nil {
		return m.ListPromotionsFunc()
	}
	return nil, nil
}

func (m *Mock) RequestPromotion(ctx context.Context, in club.NewPromotion) (club.PromotionRequest, error) {
	m.record("RequestPromotion", in)
	if m.RequestPromotionFunc != nil {
		return m.RequestPromotionFunc(in)
	}
	var out club.PromotionRequest
	return out, nil
}

func (m *Mock) ApprovePromotion(ctx context.Context, id int64, remarks string) (club.DecisionResponse, error) {
	m.record("ApprovePromotion", id, remarks)
	if m.ApprovePromotionFunc != nil {
		return m.ApprovePromotionFunc(id, remarks)
	}
	var out club.DecisionResponse
	return out, nil
}

func (m *Mock) RejectPromotion(ctx context.Context, id int64, remarks string) (club.DecisionResponse, error) {
	m.record("RejectPromotion", id, remarks)
	if m.RejectPromotionFunc != nil {
		return m.RejectPromotionFunc(id, remarks)
	}
	var out club.DecisionResponse
	return out, nil
}

func (m *Mock) ListPlayerProfiles(ctx context.Context) ([]club.PlayerSportProfile, error) {
	m.record("ListPlayerProfiles")
	if m.ListPlayerProfilesFunc != nil {
		return m.ListPlayerProfilesFunc()
	}
	return nil, nil
}

func (m *Mock) UpdatePlayerProfile(ctx context.Context, id int64, in club.ProfileUpdate) (club.PlayerSportProfile, error) {
	m.record("UpdatePlayerProfile", id, in)
	if m.UpdatePlayerProfileFunc != nil {
		return m.UpdatePlayerProfileFunc(id, in)
	}
	var out club.PlayerSportProfile
	return out, nil
}
