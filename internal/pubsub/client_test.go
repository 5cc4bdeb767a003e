package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/mauv0809/clubhouse/internal/club"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestNew_WithoutProjectLogsOnly(t *testing.T) {
	c, err := New(context.Background(), "")
	require.NoError(t, err)
	defer c.Close()

	_, ok := c.(logClient)
	assert.True(t, ok)

	err = c.SendMessage(context.Background(), EventProposalDecided, club.Event{Type: string(EventProposalDecided), EntityID: 1})
	assert.NoError(t, err)
}

func TestProcessMessage_RoundTripsEvent(t *testing.T) {
	ts := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	in := club.Event{
		Type:      string(EventLinkDecided),
		EntityID:  42,
		Status:    club.StatusAccepted,
		ActorID:   7,
		Timestamp: ts,
	}
	data, err := msgpack.Marshal(in)
	require.NoError(t, err)

	var out club.Event
	require.NoError(t, logClient{}.ProcessMessage(data, &out))
	assert.Equal(t, in.EntityID, out.EntityID)
	assert.Equal(t, in.Status, out.Status)
	assert.True(t, ts.Equal(out.Timestamp))
}

func TestProcessMessage_RejectsGarbage(t *testing.T) {
	var out club.Event
	err := logClient{}.ProcessMessage([]byte{0xc1}, &out)
	assert.Error(t, err)
}
