package club

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

const maxScore = 10

// AttendanceColumns is the header of an attendance upload and of the downloadable template.
var AttendanceColumns = []string{"player_id", "attended", "score"}

// WriteAttendanceTemplate writes a template listing every player with nothing recorded.
func WriteAttendanceTemplate(w io.Writer, playerIDs []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(AttendanceColumns); err != nil {
		return err
	}
	for _, id := range playerIDs {
		if err := cw.Write([]string{id, "0", "0"}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ParseAttendance reads an attendance upload. A malformed header fails the whole
// upload. Row level problems are reported and the row is skipped; allowed decides
// whether a player may be recorded for the session.
func ParseAttendance(r io.Reader, allowed func(playerID string) bool) ([]AttendanceRow, []RowError, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, Invalid("CSV is empty")
	}
	if err != nil {
		return nil, nil, Invalid("CSV could not be read: %v", err)
	}

	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		colIdx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	if len(colIdx) != len(AttendanceColumns) {
		return nil, nil, Invalid("CSV must have columns: %s", strings.Join(AttendanceColumns, ","))
	}
	for _, c := range AttendanceColumns {
		if _, ok := colIdx[c]; !ok {
			return nil, nil, Invalid("CSV must have columns: %s", strings.Join(AttendanceColumns, ","))
		}
	}

	get := func(rec []string, col string) string {
		i := colIdx[col]
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var (
		rows   []AttendanceRow
		errs   []RowError
		rowNum int
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++
		if err != nil {
			errs = append(errs, RowError{Row: rowNum, Error: fmt.Sprintf("unreadable row: %v", err)})
			continue
		}

		pid := get(rec, "player_id")
		if pid == "" {
			errs = append(errs, RowError{Row: rowNum, Error: "player_id is required"})
			continue
		}
		attended, err := parseAttended(get(rec, "attended"))
		if err != nil {
			errs = append(errs, RowError{Row: rowNum, PlayerID: pid, Error: err.Error()})
			continue
		}
		score, err := parseScore(get(rec, "score"))
		if err != nil {
			errs = append(errs, RowError{Row: rowNum, PlayerID: pid, Error: err.Error()})
			continue
		}
		if allowed != nil && !allowed(pid) {
			errs = append(errs, RowError{Row: rowNum, PlayerID: pid, Error: "player not linked to this coach and sport"})
			continue
		}
		if !attended {
			score = 0
		}
		rows = append(rows, AttendanceRow{PlayerID: pid, Attended: attended, Score: score})
	}
	return rows, errs, nil
}

func parseAttended(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "1", "true", "yes":
		return true, nil
	case "0", "false", "no":
		return false, nil
	}
	return false, fmt.Errorf("attended must be one of 1, 0, true, false, yes, no; got %q", v)
}

func parseScore(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("score must be an integer; got %q", v)
	}
	if n < 0 || n > maxScore {
		return 0, fmt.Errorf("score must be between 0 and %d; got %d", maxScore, n)
	}
	return n, nil
}

// Summarize computes the end-of-session report from the recorded attendance.
func Summarize(sessionID int64, records []AttendanceRow) SessionSummary {
	s := SessionSummary{SessionID: sessionID, TotalPlayers: len(records)}
	total := 0
	for _, r := range records {
		if r.Attended {
			s.Attended++
			total += r.Score
		}
	}
	s.Absent = s.TotalPlayers - s.Attended
	if s.Attended > 0 {
		s.AverageRating = math.Round(float64(total)/float64(s.Attended)*100) / 100
	}
	return s
}

// SortedPlayerIDs returns ids in a stable order for template output.
func SortedPlayerIDs(ids []string) []string {
	out := append([]string(nil), ids...)
	sort.Strings(out)
	return out
}
