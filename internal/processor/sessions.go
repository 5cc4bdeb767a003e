package processor

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/clubhouse/internal/club"
	"github.com/mauv0809/clubhouse/internal/pubsub"
)

// ownSession loads a session and checks that actor runs it.
func (p *Processor) ownSession(ctx context.Context, actor club.User, sessionID int64) (club.Session, error) {
	session, err := p.store.GetSession(ctx, sessionID)
	if err != nil {
		return club.Session{}, err
	}
	if session.Coach == nil || session.Coach.ID != actor.ID {
		return club.Session{}, club.Forbidden("You can only manage your own sessions")
	}
	return session, nil
}

// AttendanceTemplate writes the CSV template for a session: one row per active
// student of the coach in the session's sport.
func (p *Processor) AttendanceTemplate(ctx context.Context, actor club.User, sessionID int64, w io.Writer) error {
	session, err := p.ownSession(ctx, actor, sessionID)
	if err != nil {
		return err
	}
	ids, err := p.store.StudentIDs(ctx, actor.ID, session.Sport.ID)
	if err != nil {
		return err
	}
	return club.WriteAttendanceTemplate(w, club.SortedPlayerIDs(ids))
}

// UploadAttendance records a CSV attendance upload. Bad rows are reported and
// skipped; a malformed header rejects the whole upload.
func (p *Processor) UploadAttendance(ctx context.Context, actor club.User, sessionID int64, r io.Reader) (club.UploadResult, error) {
	session, err := p.ownSession(ctx, actor, sessionID)
	if err != nil {
		return club.UploadResult{}, err
	}
	if !session.IsActive {
		return club.UploadResult{}, club.Invalid("Session is not active")
	}
	ids, err := p.store.StudentIDs(ctx, actor.ID, session.Sport.ID)
	if err != nil {
		return club.UploadResult{}, err
	}
	students := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		students[id] = struct{}{}
	}

	rows, rowErrs, err := club.ParseAttendance(r, func(playerID string) bool {
		_, ok := students[playerID]
		return ok
	})
	if err != nil {
		return club.UploadResult{}, err
	}

	result := club.UploadResult{Errors: rowErrs}
	if result.Errors == nil {
		result.Errors = []club.RowError{}
	}
	if len(rows) > 0 {
		if result.Updated, err = p.store.RecordAttendance(ctx, sessionID, rows); err != nil {
			return club.UploadResult{}, err
		}
	}
	p.metrics.ObserveAttendanceRows(result.Updated, len(result.Errors))
	log.Info("Attendance uploaded", "sessionID", sessionID, "updated", result.Updated, "errors", len(result.Errors))
	p.publish(ctx, pubsub.EventAttendanceUploaded, sessionID, "", actor.ID, "")
	return result, nil
}

// EndSession closes an active session and reports its attendance summary.
func (p *Processor) EndSession(ctx context.Context, actor club.User, sessionID int64) (club.SessionSummary, error) {
	session, err := p.ownSession(ctx, actor, sessionID)
	if err != nil {
		return club.SessionSummary{}, err
	}
	summary, err := p.store.EndSession(ctx, sessionID)
	if err != nil {
		return club.SessionSummary{}, err
	}
	p.metrics.IncSessionsEnded()
	log.Info("Session ended", "sessionID", sessionID, "attended", summary.Attended, "absent", summary.Absent)

	if err := p.notifier.SendSessionSummary(ctx, session, summary, IsDryRun(ctx)); err != nil {
		log.Warn("Failed to post session summary", "error", err, "sessionID", sessionID)
	}
	p.publish(ctx, pubsub.EventSessionEnded, sessionID, "", actor.ID, "")
	return summary, nil
}
