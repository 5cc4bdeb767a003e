package club

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAttendance(t *testing.T) {
	t.Run("good and bad rows", func(t *testing.T) {
		csv := "player_id,attended,score\nP1,true,8\nP2,bad,x\n"
		rows, errs, err := ParseAttendance(strings.NewReader(csv), nil)
		require.NoError(t, err)
		assert.Equal(t, []AttendanceRow{{PlayerID: "P1", Attended: true, Score: 8}}, rows)
		require.Len(t, errs, 1)
		assert.Equal(t, 2, errs[0].Row)
		assert.Equal(t, "P2", errs[0].PlayerID)
	})

	t.Run("columns in any order with BOM", func(t *testing.T) {
		csv := "\ufeffscore,Player_ID,attended\n5,P1,YES\n,P2,no\n"
		rows, errs, err := ParseAttendance(strings.NewReader(csv), nil)
		require.NoError(t, err)
		assert.Empty(t, errs)
		assert.Equal(t, []AttendanceRow{
			{PlayerID: "P1", Attended: true, Score: 5},
			{PlayerID: "P2", Attended: false, Score: 0},
		}, rows)
	})

	t.Run("absent players score zero", func(t *testing.T) {
		rows, _, err := ParseAttendance(strings.NewReader("player_id,attended,score\nP1,0,9\n"), nil)
		require.NoError(t, err)
		assert.Equal(t, 0, rows[0].Score)
	})

	t.Run("score out of range", func(t *testing.T) {
		_, errs, err := ParseAttendance(strings.NewReader("player_id,attended,score\nP1,1,11\n"), nil)
		require.NoError(t, err)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0].Error, "between 0 and 10")
	})

	t.Run("unknown player", func(t *testing.T) {
		allowed := func(id string) bool { return id == "P1" }
		rows, errs, err := ParseAttendance(strings.NewReader("player_id,attended,score\nP1,1,4\nP7,1,4\n"), allowed)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
		require.Len(t, errs, 1)
		assert.Equal(t, RowError{Row: 2, PlayerID: "P7", Error: "player not linked to this coach and sport"}, errs[0])
	})

	t.Run("missing player id", func(t *testing.T) {
		_, errs, err := ParseAttendance(strings.NewReader("player_id,attended,score\n,1,4\n"), nil)
		require.NoError(t, err)
		require.Len(t, errs, 1)
		assert.Equal(t, 1, errs[0].Row)
	})

	t.Run("bad header", func(t *testing.T) {
		for _, header := range []string{"player_id,attended", "player_id,attended,score,extra", "id,attended,score"} {
			_, _, err := ParseAttendance(strings.NewReader(header+"\n"), nil)
			require.ErrorIs(t, err, ErrInvalid, header)
		}
	})

	t.Run("empty upload", func(t *testing.T) {
		_, _, err := ParseAttendance(strings.NewReader(""), nil)
		assert.ErrorIs(t, err, ErrInvalid)
	})
}

func TestWriteAttendanceTemplate(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAttendanceTemplate(&buf, SortedPlayerIDs([]string{"P3", "P1"})))
	assert.Equal(t, "player_id,attended,score\nP1,0,0\nP3,0,0\n", buf.String())

	rows, errs, err := ParseAttendance(&buf, nil)
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Len(t, rows, 2)
}

func TestSummarize(t *testing.T) {
	s := Summarize(4, []AttendanceRow{
		{PlayerID: "P1", Attended: true, Score: 7},
		{PlayerID: "P2", Attended: true, Score: 8},
		{PlayerID: "P3", Attended: true, Score: 8},
		{PlayerID: "P4", Attended: false},
	})
	assert.Equal(t, int64(4), s.SessionID)
	assert.Equal(t, 4, s.TotalPlayers)
	assert.Equal(t, 3, s.Attended)
	assert.Equal(t, 1, s.Absent)
	assert.Equal(t, 7.67, s.AverageRating)

	empty := Summarize(5, nil)
	assert.Equal(t, 0, empty.TotalPlayers)
	assert.Equal(t, 0.0, empty.AverageRating)
}
