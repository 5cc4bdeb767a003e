package club

import (
	"database/sql"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type store struct {
	db    *sql.DB
	mu    sync.RWMutex
	clock clockwork.Clock
}

// Role is the account role a user logs in with.
type Role string

const (
	RolePlayer  Role = "player"
	RoleCoach   Role = "coach"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// SportType tells whether a sport is played in teams or individually.
type SportType string

const (
	SportTypeTeam       SportType = "team"
	SportTypeIndividual SportType = "individual"
)

type Sport struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	SportType SportType `json:"sport_type"`
}

// SportRef is the compact form of a sport embedded in other entities.
type SportRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// UserRef is the compact form of a user embedded in other entities.
// PublicID is the human facing code (P25xxxxx for players, C25xxxxx for coaches).
type UserRef struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	PublicID string `json:"public_id,omitempty"`
}

type TeamRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// User is an account as stored by the backend.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	PublicID     string    `json:"public_id,omitempty"`
	Verified     bool      `json:"verified"`
	PrimarySport *SportRef `json:"primary_sport,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	PasswordHash string    `json:"-"`
}

func (u User) Ref() UserRef {
	return UserRef{ID: u.ID, Username: u.Username, PublicID: u.PublicID}
}

// Session is a coach-led practice session.
type Session struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Sport       SportRef  `json:"sport"`
	Notes       string    `json:"notes"`
	IsActive    bool      `json:"is_active"`
	SessionDate time.Time `json:"session_date"`
	Coach       *UserRef  `json:"coach,omitempty"`
}

// SessionSummary is returned when a session is ended.
// Attended + Absent always equals TotalPlayers.
type SessionSummary struct {
	SessionID     int64   `json:"session_id"`
	TotalPlayers  int     `json:"total_players"`
	Attended      int     `json:"attended"`
	Absent        int     `json:"absent"`
	AverageRating float64 `json:"average_rating"`
}

// AttendanceRow is one parsed line of an attendance upload.
type AttendanceRow struct {
	PlayerID string `json:"player_id"`
	Attended bool   `json:"attended"`
	Score    int    `json:"score"`
}

// RowError describes why a single CSV row was rejected. Row is 1-based over data rows.
type RowError struct {
	Row      int    `json:"row"`
	PlayerID string `json:"player_id"`
	Error    string `json:"error"`
}

// UploadResult is the per-row report of an attendance upload.
type UploadResult struct {
	Updated int        `json:"updated"`
	Errors  []RowError `json:"errors"`
}

type TeamProposal struct {
	ID              int64      `json:"id"`
	TeamName        string     `json:"team_name"`
	Sport           SportRef   `json:"sport"`
	Coach           UserRef    `json:"coach"`
	Manager         UserRef    `json:"manager"`
	ProposedPlayers []UserRef  `json:"proposed_players"`
	Status          Status     `json:"status"`
	DecidedBy       *UserRef   `json:"decided_by,omitempty"`
	DecidedAt       *time.Time `json:"decided_at,omitempty"`
	Remarks         string     `json:"remarks"`
	CreatedTeamID   *int64     `json:"created_team_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type TeamAssignment struct {
	ID        int64      `json:"id"`
	Team      TeamRef    `json:"team"`
	Coach     UserRef    `json:"coach"`
	Manager   UserRef    `json:"manager"`
	Status    Status     `json:"status"`
	Remarks   string     `json:"remarks"`
	DecidedAt *time.Time `json:"decided_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// LinkDirection tells who initiated a coach-player link request.
type LinkDirection string

const (
	PlayerToCoach LinkDirection = "player_to_coach"
	CoachToPlayer LinkDirection = "coach_to_player"
)

type LinkRequest struct {
	ID        int64         `json:"id"`
	Direction LinkDirection `json:"direction"`
	Player    UserRef       `json:"player"`
	Coach     UserRef       `json:"coach"`
	Sport     SportRef      `json:"sport"`
	Status    Status        `json:"status"`
	DecidedAt *time.Time    `json:"decided_at,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// PromotionRequest asks a manager to promote a player into the coach role for a sport.
type PromotionRequest struct {
	ID        int64      `json:"id"`
	User      UserRef    `json:"user"`
	Sport     SportRef   `json:"sport"`
	Status    Status     `json:"status"`
	Remarks   string     `json:"remarks"`
	DecidedBy *UserRef   `json:"decided_by,omitempty"`
	DecidedAt *time.Time `json:"decided_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type Notification struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Type      string     `json:"type"`
	CreatedAt time.Time  `json:"created_at"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
}

// Unread reports whether the notification has never been marked as read.
func (n Notification) Unread() bool {
	return n.ReadAt == nil
}

type Team struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Sport     SportRef  `json:"sport"`
	Coach     *UserRef  `json:"coach,omitempty"`
	Manager   *UserRef  `json:"manager,omitempty"`
	Players   []UserRef `json:"players,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Tournament dates are calendar dates in 2006-01-02 form.
type Tournament struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Sport       SportRef  `json:"sport"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	StartDate   string    `json:"start_date,omitempty"`
	EndDate     string    `json:"end_date,omitempty"`
	Teams       []TeamRef `json:"teams"`
	CreatedAt   time.Time `json:"created_at"`
}

type TournamentMatch struct {
	ID            int64    `json:"id"`
	TournamentID  int64    `json:"tournament_id"`
	Team1         TeamRef  `json:"team1"`
	Team2         TeamRef  `json:"team2"`
	MatchNumber   int      `json:"match_number"`
	Date          string   `json:"date"`
	ScoreTeam1    int      `json:"score_team1"`
	ScoreTeam2    int      `json:"score_team2"`
	Location      string   `json:"location"`
	IsCompleted   bool     `json:"is_completed"`
	ManOfTheMatch *UserRef `json:"man_of_the_match,omitempty"`
	Notes         string   `json:"notes"`
}

type PointsTableEntry struct {
	Team       TeamRef `json:"team"`
	Played     int     `json:"played"`
	Won        int     `json:"won"`
	Lost       int     `json:"lost"`
	Tied       int     `json:"tied"`
	Points     int     `json:"points"`
	NetRunRate float64 `json:"net_run_rate"`
}

type LeaderboardEntry struct {
	Player UserRef `json:"player"`
	Awards int     `json:"awards"`
}

type AttendanceStats struct {
	TotalSessions int `json:"total_sessions"`
	Attended      int `json:"attended"`
}

// PlayerSportProfile holds a player's standing in one sport.
type PlayerSportProfile struct {
	ID           int64              `json:"id"`
	Player       UserRef            `json:"player"`
	Sport        SportRef           `json:"sport"`
	Team         *TeamRef           `json:"team,omitempty"`
	Coach        *UserRef           `json:"coach,omitempty"`
	IsActive     bool               `json:"is_active"`
	Stats        map[string]float64 `json:"stats"`
	Rank         map[string]int     `json:"rank"`
	Achievements []string           `json:"achievements"`
	Attendance   AttendanceStats    `json:"attendance"`
	CareerScore  float64            `json:"career_score"`
	JoinedAt     time.Time          `json:"joined_at"`
}

type CoachDashboard struct {
	Teams         []Team               `json:"teams"`
	Players       []PlayerSportProfile `json:"players"`
	TotalStudents int                  `json:"total_students"`
	TotalTeams    int                  `json:"total_teams"`
}

type PlayerDashboard struct {
	Player          UserRef              `json:"player"`
	Profiles        []PlayerSportProfile `json:"profiles"`
	AvailableSports []Sport              `json:"available_sports"`
	PrimarySport    *SportRef            `json:"primary_sport,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Verified bool   `json:"verified"`
	PublicID string `json:"public_id,omitempty"`
}

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
	SportID  int64  `json:"sport_id,omitempty"`
}

type NewSession struct {
	SportID int64  `json:"sport"`
	Title   string `json:"title"`
	Notes   string `json:"notes"`
}

// Created is the echo returned by endpoints that only report the new id.
type Created struct {
	ID     int64  `json:"id"`
	Detail string `json:"detail,omitempty"`
}

type NewProposal struct {
	ManagerID int64   `json:"manager_id"`
	SportID   int64   `json:"sport_id"`
	TeamName  string  `json:"team_name"`
	PlayerIDs []int64 `json:"player_ids"`
}

// DecisionRequest carries optional remarks with an approve/accept/reject call.
type DecisionRequest struct {
	Remarks string `json:"remarks,omitempty"`
}

// DecisionResponse is returned by every transition endpoint.
type DecisionResponse struct {
	Detail string `json:"detail"`
	Status Status `json:"status"`
	TeamID *int64 `json:"team_id,omitempty"`
}

type NewAssignment struct {
	CoachID int64 `json:"coach_id"`
	TeamID  int64 `json:"team_id"`
}

// Invite is sent by a coach; PlayerID is the player's public id.
type Invite struct {
	PlayerID string `json:"player_id"`
	SportID  int64  `json:"sport_id"`
}

// CoachRequest is sent by a player; CoachID is the coach's public id.
type CoachRequest struct {
	CoachID string `json:"coach_id"`
	SportID int64  `json:"sport_id"`
}

type NewTeam struct {
	Name    string `json:"name"`
	SportID int64  `json:"sport_id"`
	CoachID *int64 `json:"coach_id,omitempty"`
}

type TeamUpdate struct {
	Name    *string `json:"name,omitempty"`
	CoachID *int64  `json:"coach_id,omitempty"`
}

type NewTournament struct {
	Name        string `json:"name"`
	SportID     int64  `json:"sport"`
	Location    string `json:"location"`
	Description string `json:"description"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
}

type AddTeam struct {
	TeamID int64 `json:"team_id"`
}

type NewMatch struct {
	TournamentID    int64  `json:"tournament_id"`
	Team1ID         int64  `json:"team1_id"`
	Team2ID         int64  `json:"team2_id"`
	MatchNumber     int    `json:"match_number"`
	Date            string `json:"date"`
	ScoreTeam1      int    `json:"score_team1"`
	ScoreTeam2      int    `json:"score_team2"`
	Location        string `json:"location"`
	IsCompleted     bool   `json:"is_completed"`
	ManOfTheMatchID *int64 `json:"man_of_the_match_player_id,omitempty"`
	Notes           string `json:"notes"`
}

type NewPromotion struct {
	SportID int64  `json:"sport_id"`
	Remarks string `json:"remarks,omitempty"`
}

// ProfileUpdate moves a player between teams or toggles the profile.
type ProfileUpdate struct {
	TeamID         *int64 `json:"team_id,omitempty"`
	RemoveFromTeam bool   `json:"remove_from_team,omitempty"`
	IsActive       *bool  `json:"is_active,omitempty"`
}

// Event is published whenever a workflow entity changes state.
type Event struct {
	Type      string    `msgpack:"type"`
	EntityID  int64     `msgpack:"entity_id"`
	Status    Status    `msgpack:"status"`
	ActorID   int64     `msgpack:"actor_id"`
	Remarks   string    `msgpack:"remarks,omitempty"`
	Timestamp time.Time `msgpack:"timestamp"`
}
