package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/clubhouse/internal/club"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// ErrBadCredentials is returned by Login for an unknown user or a wrong password.
var ErrBadCredentials = club.Invalid("Unable to log in with provided credentials.")

// Store is the subset of club.ClubStore used for accounts and tokens.
type Store interface {
	CreateUser(ctx context.Context, u club.User) (club.User, error)
	GetUserByUsername(ctx context.Context, username string) (club.User, error)
	GetSport(ctx context.Context, id int64) (club.Sport, error)
	SaveToken(ctx context.Context, token string, userID int64) error
	UserForToken(ctx context.Context, token string) (club.User, error)
	DeleteToken(ctx context.Context, token string) error
}

// Service issues and checks opaque bearer tokens for club accounts.
type Service struct {
	store Store
	cost  int
}

// New creates a Service hashing passwords with the given bcrypt cost.
// A cost of 0 uses bcrypt.DefaultCost.
func New(store Store, cost int) *Service {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Service{store: store, cost: cost}
}

func (s *Service) HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), s.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Signup creates an account. Players are verified immediately; coaches and
// managers wait for an admin.
func (s *Service) Signup(ctx context.Context, req club.SignupRequest) (club.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		return club.User{}, club.Invalid("username is required")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return club.User{}, club.Invalid("Enter a valid email address.")
	}
	if len(req.Password) < minPasswordLength {
		return club.User{}, club.Invalid("password must be at least %d characters", minPasswordLength)
	}

	u := club.User{Username: req.Username, Email: req.Email, Role: req.Role}
	switch req.Role {
	case club.RolePlayer:
		u.Verified = true
	case club.RoleCoach, club.RoleManager:
	default:
		return club.User{}, club.Invalid("role must be one of player, coach, manager")
	}
	if req.SportID != 0 {
		sp, err := s.store.GetSport(ctx, req.SportID)
		if err != nil {
			return club.User{}, err
		}
		u.PrimarySport = &club.SportRef{ID: sp.ID, Name: sp.Name}
	} else if req.Role == club.RoleCoach {
		return club.User{}, club.Invalid("sport_id is required for coaches")
	}

	hash, err := s.HashPassword(req.Password)
	if err != nil {
		return club.User{}, err
	}
	u.PasswordHash = hash
	created, err := s.store.CreateUser(ctx, u)
	if err != nil {
		return club.User{}, err
	}
	log.Info("User signed up", "userID", created.ID, "username", created.Username, "role", created.Role)
	return created, nil
}

// Login checks the password and issues a new token.
func (s *Service) Login(ctx context.Context, req club.LoginRequest) (club.LoginResponse, error) {
	u, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(req.Username))
	if errors.Is(err, club.ErrNotFound) {
		return club.LoginResponse{}, ErrBadCredentials
	}
	if err != nil {
		return club.LoginResponse{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		log.Warn("Failed login", "username", u.Username)
		return club.LoginResponse{}, ErrBadCredentials
	}

	token := uuid.NewString()
	if err := s.store.SaveToken(ctx, token, u.ID); err != nil {
		return club.LoginResponse{}, err
	}
	return club.LoginResponse{
		Token:    token,
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
		Verified: u.Verified,
		PublicID: u.PublicID,
	}, nil
}

// Authenticate resolves a token to its user.
func (s *Service) Authenticate(ctx context.Context, token string) (club.User, error) {
	if token == "" {
		return club.User{}, club.NotFound("Authentication credentials were not provided.")
	}
	return s.store.UserForToken(ctx, token)
}

func (s *Service) Logout(ctx context.Context, token string) error {
	return s.store.DeleteToken(ctx, token)
}
