package workflow

import (
	"context"
	"fmt"

	"github.com/mauv0809/clubhouse/internal/club"
	"github.com/mauv0809/clubhouse/internal/dashboard"
)

// ListUsers returns the accounts with role. The server lists coaches when role is empty.
func (h *Handlers) ListUsers(ctx context.Context, role string) ([]club.User, error) {
	const action = "list users"
	var r club.Role
	if role != "" {
		var err error
		if r, err = parseRole(action, role); err != nil {
			return nil, err
		}
	}
	users, err := h.api.ListUsers(ctx, r)
	if err != nil {
		return nil, h.fail(action, err)
	}
	return users, nil
}

// VerifyUser lets a coach or manager account log in.
func (h *Handlers) VerifyUser(ctx context.Context, id string) (club.User, error) {
	const action = "verify user"
	uid, err := parseID(action, "user", id)
	if err != nil {
		return club.User{}, err
	}
	u, err := run(ctx, h, action, fmt.Sprintf("user:%d", uid), func(ctx context.Context) (club.User, error) {
		return h.api.VerifyUser(ctx, uid)
	})
	if err != nil {
		return club.User{}, err
	}
	h.reconcile(ctx, dashboard.MutVerifyUser, nil, 0)
	return u, nil
}
