package processor

import (
	"context"

	"github.com/mauv0809/clubhouse/internal/club"
	"github.com/mauv0809/clubhouse/internal/notifier"
)

// Store defines the database operations required by the processor.
type Store interface {
	GetUser(ctx context.Context, id int64) (club.User, error)
	GetUserByPublicID(ctx context.Context, publicID string) (club.User, error)
	ListUsersByRole(ctx context.Context, role club.Role) ([]club.User, error)
	CreateNotification(ctx context.Context, userID int64, n club.Notification) (club.Notification, error)

	CreateProposal(ctx context.Context, coachID int64, in club.NewProposal) (club.TeamProposal, error)
	GetProposal(ctx context.Context, id int64) (club.TeamProposal, error)
	DecideProposal(ctx context.Context, id int64, deciderID int64, status club.Status, remarks string) (club.TeamProposal, error)

	CreateAssignment(ctx context.Context, managerID int64, in club.NewAssignment) (club.TeamAssignment, error)
	GetAssignment(ctx context.Context, id int64) (club.TeamAssignment, error)
	DecideAssignment(ctx context.Context, id int64, status club.Status, remarks string) (club.TeamAssignment, error)

	CreateLinkRequest(ctx context.Context, dir club.LinkDirection, playerID, coachID, sportID int64) (club.LinkRequest, error)
	GetLinkRequest(ctx context.Context, id int64) (club.LinkRequest, error)
	DecideLinkRequest(ctx context.Context, id int64, status club.Status) (club.LinkRequest, error)

	CreatePromotion(ctx context.Context, userID int64, in club.NewPromotion) (club.PromotionRequest, error)
	GetPromotion(ctx context.Context, id int64) (club.PromotionRequest, error)
	DecidePromotion(ctx context.Context, id int64, deciderID int64, status club.Status, remarks string) (club.PromotionRequest, error)

	GetSession(ctx context.Context, id int64) (club.Session, error)
	StudentIDs(ctx context.Context, coachID, sportID int64) ([]string, error)
	RecordAttendance(ctx context.Context, sessionID int64, rows []club.AttendanceRow) (int, error)
	EndSession(ctx context.Context, sessionID int64) (club.SessionSummary, error)
}

// Notifier defines the notification operations required by the processor.
type Notifier interface {
	notifier.Notifier
}

var (
	_ Store = (*club.MockStore)(nil)
	_ Store = club.ClubStore(nil)
)
