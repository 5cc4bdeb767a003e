package workflow

import (
	"errors"
	"sync"

	"github.com/mauv0809/clubhouse/internal/credentials"
	"github.com/mauv0809/clubhouse/internal/dashboard"
	"github.com/mauv0809/clubhouse/internal/service"
)

var (
	// ErrActionPending is returned when a mutation on the same item is still in flight.
	ErrActionPending = errors.New("another action on this item is still in progress")
	// ErrNotLoggedIn is returned by actions that need a session when there is none.
	ErrNotLoggedIn = errors.New("you are not logged in")
	// ErrConfirmationRequired is returned when ending a session was not confirmed.
	ErrConfirmationRequired = errors.New("ending a session must be confirmed")
)

// GenericMessage is shown when the server gave no message of its own.
const GenericMessage = "Something went wrong. Please try again."

// ActionError is what a failed action reports to the user. Message is the
// server's message verbatim when it sent one.
type ActionError struct {
	Action  string
	Message string
	Err     error
}

func (e *ActionError) Error() string { return e.Message }

func (e *ActionError) Unwrap() error { return e.Err }

// Handlers runs user actions against the backend and keeps the dashboard in sync.
type Handlers struct {
	api   service.API
	creds *credentials.Context

	mu       sync.Mutex
	dash     *dashboard.Dashboard
	inflight map[string]struct{}
}

type LoginForm struct {
	Username string
	Password string
	Role     string
}

type SignupForm struct {
	Username string
	Email    string
	Password string
	Role     string
	SportID  string
}

type SessionForm struct {
	SportID string
	Title   string
	Notes   string
}

type ProposalForm struct {
	ManagerID string
	SportID   string
	TeamName  string
	PlayerIDs []string
}

type TeamForm struct {
	Name    string
	SportID string
	CoachID string
}

type TournamentForm struct {
	Name        string
	SportID     string
	Location    string
	Description string
	StartDate   string
	EndDate     string
}

type MatchForm struct {
	TournamentID    string
	Team1ID         string
	Team2ID         string
	MatchNumber     string
	Date            string
	ScoreTeam1      string
	ScoreTeam2      string
	Location        string
	Completed       bool
	ManOfTheMatchID string
	Notes           string
}
