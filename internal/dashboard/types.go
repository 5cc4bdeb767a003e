package dashboard

import (
	"sync"

	"github.com/mauv0809/clubhouse/internal/club"
	"github.com/mauv0809/clubhouse/internal/service"
)

// Resource names one independently fetched section of a dashboard.
type Resource string

const (
	ResCoachDashboard  Resource = "dashboard/coach"
	ResPlayerDashboard Resource = "dashboard/player"
	ResSports          Resource = "sports"
	ResSessions        Resource = "sessions"
	ResTeams           Resource = "teams"
	ResProposals       Resource = "team-proposals"
	ResAssignments     Resource = "team-assignments"
	ResLinkRequests    Resource = "link-requests"
	ResNotifications   Resource = "notifications"
	ResTournaments     Resource = "tournaments"
	ResPromotions      Resource = "promotions"
	ResProfiles        Resource = "player-sport-profiles"

	// Tournament detail parts, fetched on expand.
	ResMatches     Resource = "matches"
	ResPointsTable Resource = "points-table"
	ResLeaderboard Resource = "leaderboard"
)

// ResourceSet is what a role's dashboard loads. The load fails only when
// Primary cannot be fetched.
type ResourceSet struct {
	Primary Resource
	Others  []Resource
}

// ViewState is the merged, render-ready state of one dashboard.
type ViewState struct {
	Role club.Role

	CoachDashboard  *club.CoachDashboard
	PlayerDashboard *club.PlayerDashboard

	Sports        []club.Sport
	Sessions      []club.Session
	Teams         []club.Team
	Proposals     []club.TeamProposal
	Assignments   []club.TeamAssignment
	LinkRequests  []club.LinkRequest
	Notifications []club.Notification
	Tournaments   []club.Tournament
	Promotions    []club.PromotionRequest
	Profiles      []club.PlayerSportProfile

	// RelevantTournaments is Tournaments narrowed to the viewer's teams.
	RelevantTournaments []club.Tournament

	// Failed holds the error of every non-primary resource that fell back to its empty default.
	Failed map[Resource]error

	// Expanded and Details back the lazy tournament detail panels.
	Expanded map[int64]bool
	Details  map[int64]TournamentDetail

	LastUpload *UploadReport
}

// TournamentDetail is the cached detail panel of one tournament.
type TournamentDetail struct {
	Matches     []club.TournamentMatch
	PointsTable []club.PointsTableEntry
	Leaderboard []club.LeaderboardEntry
}

// UploadReport is the outcome of the most recent attendance upload.
type UploadReport struct {
	SessionID int64
	Result    club.UploadResult
}

// Rule says how a successful mutation is reconciled with the view state.
type Rule int

const (
	// ApplyResponse splices the server's answer into the state without a round trip.
	ApplyResponse Rule = iota
	// Refetch re-runs the full aggregation.
	Refetch
	// RefetchDetail re-fetches the affected tournament detail panel only.
	RefetchDetail
)

func (r Rule) String() string {
	switch r {
	case ApplyResponse:
		return "apply-response"
	case Refetch:
		return "refetch"
	case RefetchDetail:
		return "refetch-detail"
	}
	return "unknown"
}

// Mutation identifies a user action that changes backend state.
type Mutation string

const (
	MutCreateSession     Mutation = "create-session"
	MutUploadAttendance  Mutation = "upload-attendance"
	MutEndSession        Mutation = "end-session"
	MutCreateProposal    Mutation = "create-proposal"
	MutDecideProposal    Mutation = "decide-proposal"
	MutCreateAssignment  Mutation = "create-assignment"
	MutDecideAssignment  Mutation = "decide-assignment"
	MutCreateLink        Mutation = "create-link"
	MutDecideLink        Mutation = "decide-link"
	MutRequestPromotion  Mutation = "request-promotion"
	MutDecidePromotion   Mutation = "decide-promotion"
	MutCreateTeam        Mutation = "create-team"
	MutDeleteTeam        Mutation = "delete-team"
	MutUpdateProfile     Mutation = "update-profile"
	MutCreateTournament  Mutation = "create-tournament"
	MutAddTournamentTeam Mutation = "add-tournament-team"
	MutCreateMatch       Mutation = "create-match"
	MutMarkRead          Mutation = "mark-read"
	MutVerifyUser        Mutation = "verify-user"
)

// Aggregator fans out the fetches of a role's resource set.
type Aggregator struct {
	api service.API
}

// Store is the single writer of a ViewState.
type Store struct {
	mu sync.Mutex

	state ViewState

	// seq orders loads and splices. applied is the seq of the load in state.
	seq     uint64
	applied uint64
	splices []splice

	// epoch changes with every committed load so late detail fetches can be dropped.
	epoch uint64
}

type splice struct {
	seq   uint64
	apply func(*ViewState)
}

// Dashboard ties the aggregator and the store together for one role.
type Dashboard struct {
	role  club.Role
	api   service.API
	agg   *Aggregator
	store *Store
}
