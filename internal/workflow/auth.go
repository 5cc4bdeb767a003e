package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/clubhouse/internal/club"
	"github.com/mauv0809/clubhouse/internal/credentials"
	"github.com/mauv0809/clubhouse/internal/dashboard"
)

func parseRole(action, v string) (club.Role, error) {
	switch r := club.Role(strings.ToLower(strings.TrimSpace(v))); r {
	case club.RolePlayer, club.RoleCoach, club.RoleManager, club.RoleAdmin:
		return r, nil
	}
	return "", invalid(action, "unknown role %q", v)
}

// Login authenticates and starts a session. The account's role must match the
// role the user picked, and coaches and managers must have been verified.
func (h *Handlers) Login(ctx context.Context, in LoginForm) (credentials.Session, error) {
	const action = "login"
	role, err := parseRole(action, in.Role)
	if err != nil {
		return credentials.Session{}, err
	}
	if err := required(action, "username", in.Username); err != nil {
		return credentials.Session{}, err
	}
	if err := required(action, "password", in.Password); err != nil {
		return credentials.Session{}, err
	}

	resp, err := run(ctx, h, action, "auth", func(ctx context.Context) (club.LoginResponse, error) {
		return h.api.Login(ctx, club.LoginRequest{Username: strings.TrimSpace(in.Username), Password: in.Password})
	})
	if err != nil {
		return credentials.Session{}, err
	}
	if resp.Role != role {
		h.revoke(ctx, resp.Token)
		return credentials.Session{}, invalid(action, "This account is registered as %s, not %s.", resp.Role, role)
	}
	if (role == club.RoleCoach || role == club.RoleManager) && !resp.Verified {
		h.revoke(ctx, resp.Token)
		return credentials.Session{}, invalid(action, "Your %s account is awaiting verification.", role)
	}

	s := credentials.Session{
		Token:    resp.Token,
		Role:     resp.Role,
		Username: resp.Username,
		UserID:   resp.UserID,
		PublicID: resp.PublicID,
	}
	if err := h.creds.Begin(s); err != nil {
		return credentials.Session{}, h.fail(action, err)
	}
	h.mu.Lock()
	h.dash = dashboard.New(h.api, role)
	h.mu.Unlock()
	log.Info("Logged in", "username", s.Username, "role", s.Role)
	return s, nil
}

// revoke logs out a token issued to a login that was then refused.
func (h *Handlers) revoke(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := h.api.RevokeToken(ctx, token); err != nil {
		log.Warn("Failed to revoke refused login token", "error", err)
	}
}

// Signup creates an account and returns the server's confirmation.
func (h *Handlers) Signup(ctx context.Context, in SignupForm) (string, error) {
	const action = "signup"
	role, err := parseRole(action, in.Role)
	if err != nil {
		return "", err
	}
	for _, f := range [][2]string{{"username", in.Username}, {"email", in.Email}, {"password", in.Password}} {
		if err := required(action, f[0], f[1]); err != nil {
			return "", err
		}
	}
	req := club.SignupRequest{
		Username: strings.TrimSpace(in.Username),
		Email:    strings.TrimSpace(in.Email),
		Password: in.Password,
		Role:     role,
	}
	if role == club.RoleCoach {
		sportID, err := parseID(action, "sport", in.SportID)
		if err != nil {
			return "", err
		}
		req.SportID = sportID
	}

	created, err := run(ctx, h, action, "auth", func(ctx context.Context) (club.Created, error) {
		return h.api.Signup(ctx, req)
	})
	if err != nil {
		return "", err
	}
	if created.Detail != "" {
		return created.Detail, nil
	}
	return fmt.Sprintf("Account %s created.", req.Username), nil
}

// Logout revokes the token on the server when possible and always ends the local session.
func (h *Handlers) Logout(ctx context.Context) error {
	if _, ok := h.creds.Current(); !ok {
		return nil
	}
	if err := h.api.Logout(ctx); err != nil {
		log.Warn("Server logout failed, clearing local session anyway", "error", err)
	}
	h.endSession()
	return nil
}
