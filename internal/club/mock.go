package club

import (
	"context"
	"sync"
)

// MockStore is a mock of the workflow and session subset of ClubStore used by
// the processor. It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	GetUserFunc            func(id int64) (User, error)
	GetUserByPublicIDFunc  func(publicID string) (User, error)
	ListUsersByRoleFunc    func(role Role) ([]User, error)
	CreateNotificationFunc func(userID int64, n Notification) (Notification, error)

	CreateProposalFunc func(coachID int64, in NewProposal) (TeamProposal, error)
	GetProposalFunc    func(id int64) (TeamProposal, error)
	DecideProposalFunc func(id, deciderID int64, status Status, remarks string) (TeamProposal, error)

	CreateAssignmentFunc func(managerID int64, in NewAssignment) (TeamAssignment, error)
	GetAssignmentFunc    func(id int64) (TeamAssignment, error)
	DecideAssignmentFunc func(id int64, status Status, remarks string) (TeamAssignment, error)

	CreateLinkRequestFunc func(dir LinkDirection, playerID, coachID, sportID int64) (LinkRequest, error)
	GetLinkRequestFunc    func(id int64) (LinkRequest, error)
	DecideLinkRequestFunc func(id int64, status Status) (LinkRequest, error)

	CreatePromotionFunc func(userID int64, in NewPromotion) (PromotionRequest, error)
	GetPromotionFunc    func(id int64) (PromotionRequest, error)
	DecidePromotionFunc func(id, deciderID int64, status Status, remarks string) (PromotionRequest, error)

	GetSessionFunc       func(id int64) (Session, error)
	StudentIDsFunc       func(coachID, sportID int64) ([]string, error)
	RecordAttendanceFunc func(sessionID int64, rows []AttendanceRow) (int, error)
	EndSessionFunc       func(sessionID int64) (SessionSummary, error)

	// Call records
	CreateNotificationCalls []struct {
		UserID       int64
		Notification Notification
	}
	DecideCalls []struct {
		Kind    Kind
		ID      int64
		Status  Status
		Remarks string
	}
	RecordAttendanceCalls [][]AttendanceRow
	EndSessionCalls       []int64
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateNotificationCalls = nil
	m.DecideCalls = nil
	m.RecordAttendanceCalls = nil
	m.EndSessionCalls = nil
}

// NotifiedUsers returns the recipients of created notifications, in call order.
func (m *MockStore) NotifiedUsers() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int64, 0, len(m.CreateNotificationCalls))
	for _, c := range m.CreateNotificationCalls {
		ids = append(ids, c.UserID)
	}
	return ids
}

func (m *MockStore) recordDecision(kind Kind, id int64, status Status, remarks string) {
	m.DecideCalls = append(m.DecideCalls, struct {
		Kind    Kind
		ID      int64
		Status  Status
		Remarks string
	}{kind, id, status, remarks})
}

func (m *MockStore) GetUser(ctx context.Context, id int64) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetUserFunc != nil {
		return m.GetUserFunc(id)
	}
	return User{}, NotFound("User %d not found", id)
}

func (m *MockStore) GetUserByPublicID(ctx context.Context, publicID string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetUserByPublicIDFunc != nil {
		return m.GetUserByPublicIDFunc(publicID)
	}
	return User{}, NotFound("User %s not found", publicID)
}

func (m *MockStore) ListUsersByRole(ctx context.Context, role Role) ([]User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListUsersByRoleFunc != nil {
		return m.ListUsersByRoleFunc(role)
	}
	return nil, nil
}

func (m *MockStore) CreateNotification(ctx context.Context, userID int64, n Notification) (Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateNotificationCalls = append(m.CreateNotificationCalls, struct {
		UserID       int64
		Notification Notification
	}{userID, n})
	if m.CreateNotificationFunc != nil {
		return m.CreateNotificationFunc(userID, n)
	}
	n.ID = int64(len(m.CreateNotificationCalls))
	return n, nil
}

func (m *MockStore) CreateProposal(ctx context.Context, coachID int64, in NewProposal) (TeamProposal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateProposalFunc != nil {
		return m.CreateProposalFunc(coachID, in)
	}
	return TeamProposal{}, nil
}

func (m *MockStore) GetProposal(ctx context.Context, id int64) (TeamProposal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetProposalFunc != nil {
		return m.GetProposalFunc(id)
	}
	return TeamProposal{}, NotFound("Team proposal %d not found", id)
}

func (m *MockStore) DecideProposal(ctx context.Context, id int64, deciderID int64, status Status, remarks string) (TeamProposal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordDecision(KindProposal, id, status, remarks)
	if m.DecideProposalFunc != nil {
		return m.DecideProposalFunc(id, deciderID, status, remarks)
	}
	return TeamProposal{ID: id, Status: status, Remarks: remarks}, nil
}

func (m *MockStore) CreateAssignment(ctx context.Context, managerID int64, in NewAssignment) (TeamAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateAssignmentFunc != nil {
		return m.CreateAssignmentFunc(managerID, in)
	}
	return TeamAssignment{}, nil
}

func (m *MockStore) GetAssignment(ctx context.Context, id int64) (TeamAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAssignmentFunc != nil {
		return m.GetAssignmentFunc(id)
	}
	return TeamAssignment{}, NotFound("Team assignment %d not found", id)
}

func (m *MockStore) DecideAssignment(ctx context.Context, id int64, status Status, remarks string) (TeamAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordDecision(KindAssignment, id, status, remarks)
	if m.DecideAssignmentFunc != nil {
		return m.DecideAssignmentFunc(id, status, remarks)
	}
	return TeamAssignment{ID: id, Status: status, Remarks: remarks}, nil
}

func (m *MockStore) CreateLinkRequest(ctx context.Context, dir LinkDirection, playerID, coachID, sportID int64) (LinkRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateLinkRequestFunc != nil {
		return m.CreateLinkRequestFunc(dir, playerID, coachID, sportID)
	}
	return LinkRequest{}, nil
}

func (m *MockStore) GetLinkRequest(ctx context.Context, id int64) (LinkRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetLinkRequestFunc != nil {
		return m.GetLinkRequestFunc(id)
	}
	return LinkRequest{}, NotFound("Link request %d not found", id)
}

func (m *MockStore) DecideLinkRequest(ctx context.Context, id int64, status Status) (LinkRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordDecision(KindLink, id, status, "")
	if m.DecideLinkRequestFunc != nil {
		return m.DecideLinkRequestFunc(id, status)
	}
	return LinkRequest{ID: id, Status: status}, nil
}

func (m *MockStore) CreatePromotion(ctx context.Context, userID int64, in NewPromotion) (PromotionRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreatePromotionFunc != nil {
		return m.CreatePromotionFunc(userID, in)
	}
	return PromotionRequest{}, nil
}

func (m *MockStore) GetPromotion(ctx context.Context, id int64) (PromotionRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPromotionFunc != nil {
		return m.GetPromotionFunc(id)
	}
	return PromotionRequest{}, NotFound("Promotion request %d not found", id)
}

func (m *MockStore) DecidePromotion(ctx context.Context, id int64, deciderID int64, status Status, remarks string) (PromotionRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordDecision(KindPromotion, id, status, remarks)
	if m.DecidePromotionFunc != nil {
		return m.DecidePromotionFunc(id, deciderID, status, remarks)
	}
	return PromotionRequest{ID: id, Status: status, Remarks: remarks}, nil
}

func (m *MockStore) GetSession(ctx context.Context, id int64) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(id)
	}
	return Session{}, NotFound("Session %d not found", id)
}

func (m *MockStore) StudentIDs(ctx context.Context, coachID, sportID int64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StudentIDsFunc != nil {
		return m.StudentIDsFunc(coachID, sportID)
	}
	return nil, nil
}

func (m *MockStore) RecordAttendance(ctx context.Context, sessionID int64, rows []AttendanceRow) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordAttendanceCalls = append(m.RecordAttendanceCalls, rows)
	if m.RecordAttendanceFunc != nil {
		return m.RecordAttendanceFunc(sessionID, rows)
	}
	return len(rows), nil
}

func (m *MockStore) EndSession(ctx context.Context, sessionID int64) (SessionSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EndSessionCalls = append(m.EndSessionCalls, sessionID)
	if m.EndSessionFunc != nil {
		return m.EndSessionFunc(sessionID)
	}
	return SessionSummary{SessionID: sessionID}, nil
}
