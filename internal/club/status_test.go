package club

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		current Status
		verdict Verdict
		want    Status
		wantErr error
	}{
		{"approve proposal", KindProposal, StatusPending, VerdictApprove, StatusApproved, nil},
		{"reject proposal", KindProposal, StatusPending, VerdictReject, StatusRejected, nil},
		{"accept proposal", KindProposal, StatusPending, VerdictAccept, StatusPending, ErrInvalidDecision},
		{"accept assignment", KindAssignment, StatusPending, VerdictAccept, StatusAccepted, nil},
		{"approve assignment", KindAssignment, StatusPending, VerdictApprove, StatusPending, ErrInvalidDecision},
		{"accept link", KindLink, StatusPending, VerdictAccept, StatusAccepted, nil},
		{"approve promotion", KindPromotion, StatusPending, VerdictApprove, StatusApproved, nil},
		{"decided proposal", KindProposal, StatusApproved, VerdictReject, StatusApproved, ErrNotPending},
		{"decided link", KindLink, StatusRejected, VerdictAccept, StatusRejected, ErrNotPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Transition(tt.kind, tt.current, tt.verdict)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNotPendingMessage(t *testing.T) {
	err := NotPending(KindAssignment)
	assert.Equal(t, "Team assignment is not pending", err.Error())

	var clubErr *Error
	require.True(t, errors.As(err, &clubErr))
	assert.Equal(t, ErrNotPending, clubErr.Code)
}

func TestTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.True(t, StatusApproved.Terminal())
	assert.True(t, StatusRejected.Terminal())
	assert.True(t, StatusAccepted.Terminal())
}
