package workflow

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/clubhouse/internal/apiclient"
	"github.com/mauv0809/clubhouse/internal/club"
	"github.com/mauv0809/clubhouse/internal/credentials"
	"github.com/mauv0809/clubhouse/internal/dashboard"
	"github.com/mauv0809/clubhouse/internal/service"
)

// New creates Handlers. When creds already holds a session its dashboard is ready to use.
func New(api service.API, creds *credentials.Context) *Handlers {
	h := &Handlers{
		api:      api,
		creds:    creds,
		inflight: make(map[string]struct{}),
	}
	if s, ok := creds.Current(); ok {
		h.dash = dashboard.New(api, s.Role)
	}
	return h
}

// Dashboard returns the dashboard of the logged in user, or nil.
func (h *Handlers) Dashboard() *dashboard.Dashboard {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dash
}

// LoadDashboard runs the full aggregation for the logged in role.
func (h *Handlers) LoadDashboard(ctx context.Context) (dashboard.ViewState, error) {
	dash := h.Dashboard()
	if dash == nil {
		return dashboard.ViewState{}, h.fail("load dashboard", ErrNotLoggedIn)
	}
	if err := dash.Refresh(ctx); err != nil {
		return dashboard.ViewState{}, h.fail("load dashboard", err)
	}
	return dash.State(), nil
}

// acquire marks key as in flight until the returned release is called.
func (h *Handlers) acquire(key string) (func(), bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, busy := h.inflight[key]; busy {
		return nil, false
	}
	h.inflight[key] = struct{}{}
	return func() {
		h.mu.Lock()
		delete(h.inflight, key)
		h.mu.Unlock()
	}, true
}

// fail turns err into an ActionError. An authentication failure also ends the
// stored session so the user has to log in again.
func (h *Handlers) fail(action string, err error) error {
	var ae *ActionError
	if errors.As(err, &ae) {
		return err
	}
	var authErr *apiclient.AuthError
	if errors.As(err, &authErr) {
		h.endSession()
	}
	msg := apiclient.Message(err, GenericMessage)
	switch {
	case errors.Is(err, ErrActionPending), errors.Is(err, ErrNotLoggedIn), errors.Is(err, ErrConfirmationRequired):
		msg = err.Error()
	}
	log.Debug("Action failed", "action", action, "error", err)
	return &ActionError{Action: action, Message: msg, Err: err}
}

func (h *Handlers) endSession() {
	if err := h.creds.End(); err != nil {
		log.Warn("Failed to clear session", "error", err)
	}
	h.mu.Lock()
	h.dash = nil
	h.mu.Unlock()
}

func invalid(action, format string, args ...any) error {
	return &ActionError{Action: action, Message: fmt.Sprintf(format, args...), Err: club.ErrInvalid}
}

// run applies the shared micro-protocol: guard key against overlapping
// mutations, call the backend and report failures as an ActionError.
func run[T any](ctx context.Context, h *Handlers, action, key string, call func(context.Context) (T, error)) (T, error) {
	var zero T
	release, ok := h.acquire(key)
	if !ok {
		return zero, h.fail(action, ErrActionPending)
	}
	defer release()

	v, err := call(ctx)
	if err != nil {
		return zero, h.fail(action, err)
	}
	return v, nil
}

// reconcile applies the rule of m after a successful mutation. A failed
// refresh is logged; the mutation itself already succeeded.
func (h *Handlers) reconcile(ctx context.Context, m dashboard.Mutation, apply func(*dashboard.ViewState), tournamentID int64) {
	dash := h.Dashboard()
	if dash == nil {
		return
	}
	if err := dash.Reconcile(ctx, m, apply, tournamentID); err != nil {
		log.Warn("Failed to refresh dashboard after action", "mutation", m, "error", err)
		var authErr *apiclient.AuthError
		if errors.As(err, &authErr) {
			h.endSession()
		}
	}
}

// parseID converts a user supplied id. field names the input in the error.
func parseID(action, field, v string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || id <= 0 {
		return 0, invalid(action, "%s must be a positive number, got %q", field, v)
	}
	return id, nil
}

func parseOptionalID(action, field, v string) (*int64, error) {
	if strings.TrimSpace(v) == "" {
		return nil, nil
	}
	id, err := parseID(action, field, v)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseInt(action, field, v string) (int, error) {
	if strings.TrimSpace(v) == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return 0, invalid(action, "%s must be a whole number, got %q", field, v)
	}
	return n, nil
}

func required(action, field, v string) error {
	if strings.TrimSpace(v) == "" {
		return invalid(action, "%s is required", field)
	}
	return nil
}
