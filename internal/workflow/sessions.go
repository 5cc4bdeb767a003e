package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/mauv0809/clubhouse/internal/club"
	"github.com/mauv0809/clubhouse/internal/dashboard"
)

// CreateSession creates a session and adds the echoed id with the submitted
// fields to the dashboard without refetching.
func (h *Handlers) CreateSession(ctx context.Context, in SessionForm) (club.Session, error) {
	const action = "create session"
	sportID, err := parseID(action, "sport", in.SportID)
	if err != nil {
		return club.Session{}, err
	}
	if err := required(action, "title", in.Title); err != nil {
		return club.Session{}, err
	}
	req := club.NewSession{SportID: sportID, Title: strings.TrimSpace(in.Title), Notes: in.Notes}

	created, err := run(ctx, h, action, "session:new", func(ctx context.Context) (club.Created, error) {
		return h.api.CreateSession(ctx, req)
	})
	if err != nil {
		return club.Session{}, err
	}
	h.reconcile(ctx, dashboard.MutCreateSession, dashboard.SessionCreated(created.ID, req), 0)
	return club.Session{
		ID:       created.ID,
		Title:    req.Title,
		Notes:    req.Notes,
		Sport:    club.SportRef{ID: sportID},
		IsActive: true,
	}, nil
}

// DownloadTemplate returns the attendance CSV template of a session.
func (h *Handlers) DownloadTemplate(ctx context.Context, sessionID string) ([]byte, error) {
	const action = "download template"
	id, err := parseID(action, "session", sessionID)
	if err != nil {
		return nil, err
	}
	return run(ctx, h, action, fmt.Sprintf("session:%d:template", id), func(ctx context.Context) ([]byte, error) {
		return h.api.SessionCSVTemplate(ctx, id)
	})
}

// UploadAttendance sends an attendance CSV. The per-row report is returned
// and recorded on the dashboard; no other state changes locally.
func (h *Handlers) UploadAttendance(ctx context.Context, sessionID, filename string, data []byte) (club.UploadResult, error) {
	const action = "upload attendance"
	id, err := parseID(action, "session", sessionID)
	if err != nil {
		return club.UploadResult{}, err
	}
	if len(data) == 0 {
		return club.UploadResult{}, invalid(action, "the attendance file is empty")
	}
	if filename == "" {
		filename = "attendance.csv"
	}

	res, err := run(ctx, h, action, fmt.Sprintf("session:%d", id), func(ctx context.Context) (club.UploadResult, error) {
		return h.api.UploadSessionCSV(ctx, id, filename, data)
	})
	if err != nil {
		return club.UploadResult{}, err
	}
	h.reconcile(ctx, dashboard.MutUploadAttendance, dashboard.UploadReported(id, res), 0)
	return res, nil
}

// EndSession ends an active session once the user confirmed it and returns
// the summary computed by the server.
func (h *Handlers) EndSession(ctx context.Context, sessionID string, confirmed bool) (club.SessionSummary, error) {
	const action = "end session"
	id, err := parseID(action, "session", sessionID)
	if err != nil {
		return club.SessionSummary{}, err
	}
	if !confirmed {
		return club.SessionSummary{}, h.fail(action, ErrConfirmationRequired)
	}

	summary, err := run(ctx, h, action, fmt.Sprintf("session:%d", id), func(ctx context.Context) (club.SessionSummary, error) {
		return h.api.EndSession(ctx, id)
	})
	if err != nil {
		return club.SessionSummary{}, err
	}
	h.reconcile(ctx, dashboard.MutEndSession, nil, 0)
	return summary, nil
}
