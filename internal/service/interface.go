package service

import (
	"context"

	"github.com/mauv0809/clubhouse/internal/apiclient"
	"github.com/mauv0809/clubhouse/internal/club"
)

// Sender is the part of the API client the service layer needs.
type Sender interface {
	Send(ctx context.Context, method, path string, body any, opts ...apiclient.RequestOption) (*apiclient.Response, error)
}

// API has one method per backend operation. Implementations hold no business
// logic and return the API client's errors untouched.
type API interface {
	// Auth
	Login(ctx context.Context, in club.LoginRequest) (club.LoginResponse, error)
	Signup(ctx context.Context, in club.SignupRequest) (club.Created, error)
	Logout(ctx context.Context) error
	RevokeToken(ctx context.Context, token string) error

	// Accounts
	ListUsers(ctx context.Context, role club.Role) ([]club.User, error)
	VerifyUser(ctx context.Context, id int64) (club.User, error)

	// Dashboards and reference data
	CoachDashboard(ctx context.Context) (club.CoachDashboard, error)
	PlayerDashboard(ctx context.Context) (club.PlayerDashboard, error)
	ListSports(ctx context.Context) ([]club.Sport, error)

	// Sessions
	ListSessions(ctx context.Context) ([]club.Session, error)
	CreateSession(ctx context.Context, in club.NewSession) (club.Created, error)
	SessionCSVTemplate(ctx context.Context, sessionID int64) ([]byte, error)
	UploadSessionCSV(ctx context.Context, sessionID int64, filename string, csv []byte) (club.UploadResult, error)
	EndSession(ctx context.Context, sessionID int64) (club.SessionSummary, error)

	// Team proposals
	ListProposals(ctx context.Context) ([]club.TeamProposal, error)
	CreateProposal(ctx context.Context, in club.NewProposal) (club.TeamProposal, error)
	ApproveProposal(ctx context.Context, id int64, remarks string) (club.DecisionResponse, error)
	RejectProposal(ctx context.Context, id int64, remarks string) (club.DecisionResponse, error)

	// Teams
	ListTeams(ctx context.Context) ([]club.Team, error)
	GetTeam(ctx context.Context, id int64) (club.Team, error)
	CreateTeam(ctx context.Context, in club.NewTeam) (club.Team, error)
	UpdateTeam(ctx context.Context, id int64, in club.TeamUpdate) (club.Team, error)
	DeleteTeam(ctx context.Context, id int64) error

	// Tournaments
	ListTournaments(ctx context.Context) ([]club.Tournament, error)
	CreateTournament(ctx context.Context, in club.NewTournament) (club.Tournament, error)
	AddTeamToTournament(ctx context.Context, tournamentID, teamID int64) (club.Tournament, error)
	TournamentMatches(ctx context.Context, tournamentID int64) ([]club.TournamentMatch, error)
	TournamentPointsTable(ctx context.Context, tournamentID int64) ([]club.PointsTableEntry, error)
	TournamentLeaderboard(ctx context.Context, tournamentID int64) ([]club.LeaderboardEntry, error)
	CreateTournamentMatch(ctx context.Context, in club.NewMatch) (club.TournamentMatch, error)

	// Team assignments
	ListAssignments(ctx context.Context) ([]club.TeamAssignment, error)
	CreateAssignment(ctx context.Context, in club.NewAssignment) (club.TeamAssignment, error)
	AcceptAssignment(ctx context.Context, id int64) (club.DecisionResponse, error)
	RejectAssignment(ctx context.Context, id int64, remarks string) (club.DecisionResponse, error)

	// Coach-player links
	InvitePlayer(ctx context.Context, in club.Invite) (club.LinkRequest, error)
	RequestCoach(ctx context.Context, in club.CoachRequest) (club.LinkRequest, error)
	ListLinkRequests(ctx context.Context) ([]club.LinkRequest, error)
	AcceptLinkRequest(ctx context.Context, id int64) (club.DecisionResponse, error)
	RejectLinkRequest(ctx context.Context, id int64) (club.DecisionResponse, error)

	// Notifications
	ListNotifications(ctx context.Context) ([]club.Notification, error)
	MarkNotificationRead(ctx context.Context, id int64) error

	// Promotions
	ListPromotions(ctx context.Context) ([]club.PromotionRequest, error)
	RequestPromotion(ctx context.Context, in club.NewPromotion) (club.PromotionRequest, error)
	ApprovePromotion(ctx context.Context, id int64, remarks string) (club.DecisionResponse, error)
	RejectPromotion(ctx context.Context, id int64, remarks string) (club.DecisionResponse, error)

	// Player profiles
	ListPlayerProfiles(ctx context.Context) ([]club.PlayerSportProfile, error)
	UpdatePlayerProfile(ctx context.Context, id int64, in club.ProfileUpdate) (club.PlayerSportProfile, error)
}
