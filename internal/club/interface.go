package club

import "context"

// ClubStore defines the interface for interacting with the club's data.
type ClubStore interface {
	// Accounts
	CreateUser(ctx context.Context, u User) (User, error)
	GetUser(ctx context.Context, id int64) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
	GetUserByPublicID(ctx context.Context, publicID string) (User, error)
	ListUsersByRole(ctx context.Context, role Role) ([]User, error)
	VerifyUser(ctx context.Context, id int64) (User, error)
	SaveToken(ctx context.Context, token string, userID int64) error
	UserForToken(ctx context.Context, token string) (User, error)
	DeleteToken(ctx context.Context, token string) error

	// Sports
	CreateSport(ctx context.Context, name string, sportType SportType) (Sport, error)
	ListSports(ctx context.Context) ([]Sport, error)
	GetSport(ctx context.Context, id int64) (Sport, error)

	// Sessions and attendance
	CreateSession(ctx context.Context, coachID int64, in NewSession) (Session, error)
	ListSessions(ctx context.Context, coachID int64) ([]Session, error)
	GetSession(ctx context.Context, id int64) (Session, error)
	StudentIDs(ctx context.Context, coachID, sportID int64) ([]string, error)
	RecordAttendance(ctx context.Context, sessionID int64, rows []AttendanceRow) (int, error)
	EndSession(ctx context.Context, sessionID int64) (SessionSummary, error)

	// Workflow entities
	CreateProposal(ctx context.Context, coachID int64, in NewProposal) (TeamProposal, error)
	ListProposals(ctx context.Context, viewer User) ([]TeamProposal, error)
	GetProposal(ctx context.Context, id int64) (TeamProposal, error)
	DecideProposal(ctx context.Context, id int64, deciderID int64, status Status, remarks string) (TeamProposal, error)

	CreateAssignment(ctx context.Context, managerID int64, in NewAssignment) (TeamAssignment, error)
	ListAssignments(ctx context.Context, viewer User) ([]TeamAssignment, error)
	GetAssignment(ctx context.Context, id int64) (TeamAssignment, error)
	DecideAssignment(ctx context.Context, id int64, status Status, remarks string) (TeamAssignment, error)

	CreateLinkRequest(ctx context.Context, dir LinkDirection, playerID, coachID, sportID int64) (LinkRequest, error)
	ListLinkRequests(ctx context.Context, viewer User) ([]LinkRequest, error)
	GetLinkRequest(ctx context.Context, id int64) (LinkRequest, error)
	DecideLinkRequest(ctx context.Context, id int64, status Status) (LinkRequest, error)

	CreatePromotion(ctx context.Context, userID int64, in NewPromotion) (PromotionRequest, error)
	ListPromotions(ctx context.Context) ([]PromotionRequest, error)
	GetPromotion(ctx context.Context, id int64) (PromotionRequest, error)
	DecidePromotion(ctx context.Context, id int64, deciderID int64, status Status, remarks string) (PromotionRequest, error)

	// Teams
	CreateTeam(ctx context.Context, managerID int64, in NewTeam) (Team, error)
	ListTeams(ctx context.Context, viewer User) ([]Team, error)
	GetTeam(ctx context.Context, id int64) (Team, error)
	UpdateTeam(ctx context.Context, id int64, in TeamUpdate) (Team, error)
	DeleteTeam(ctx context.Context, id int64) error

	// Tournaments
	CreateTournament(ctx context.Context, managerID int64, in NewTournament) (Tournament, error)
	ListTournaments(ctx context.Context) ([]Tournament, error)
	GetTournament(ctx context.Context, id int64) (Tournament, error)
	AddTeamToTournament(ctx context.Context, tournamentID, teamID int64) error
	ListTournamentMatches(ctx context.Context, tournamentID int64) ([]TournamentMatch, error)
	CreateTournamentMatch(ctx context.Context, in NewMatch) (TournamentMatch, error)

	// Notifications
	CreateNotification(ctx context.Context, userID int64, n Notification) (Notification, error)
	ListNotifications(ctx context.Context, userID int64) ([]Notification, error)
	MarkNotificationRead(ctx context.Context, userID, id int64) error

	// Profiles and dashboards
	ListProfiles(ctx context.Context, viewer User) ([]PlayerSportProfile, error)
	UpdateProfile(ctx context.Context, id int64, in ProfileUpdate) (PlayerSportProfile, error)
	CoachDashboard(ctx context.Context, coachID int64) (CoachDashboard, error)
	PlayerDashboard(ctx context.Context, playerID int64) (PlayerDashboard, error)
}
