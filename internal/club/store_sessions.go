package club

import (
	"context"
	"database/sql"
	"strings"
)

const sessionSelect = `
	SELECT se.id, se.title, se.notes, se.is_active, se.session_date, sp.id, sp.name, u.id, u.username, u.public_id
	FROM sessions se
	JOIN sports sp ON sp.id = se.sport_id
	JOIN users u ON u.id = se.coach_id`

func scanSession(row interface{ Scan(dest ...any) error }) (Session, error) {
	var (
		se       Session
		date     int64
		coach    UserRef
		publicID sql.NullString
	)
	if err := row.Scan(&se.ID, &se.Title, &se.Notes, &se.IsActive, &date, &se.Sport.ID, &se.Sport.Name, &coach.ID, &coach.Username, &publicID); err != nil {
		return Session{}, err
	}
	coach.PublicID = publicID.String
	se.SessionDate = fromUnix(date)
	se.Coach = &coach
	return se, nil
}

// CreateSession opens a new active session for the coach.
func (s *store) CreateSession(ctx context.Context, coachID int64, in NewSession) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(in.Title) == "" {
		return Session{}, Invalid("title is required")
	}
	if _, err := getSport(ctx, s.db, in.SportID); err != nil {
		return Session{}, err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (coach_id, sport_id, title, notes, is_active, session_date) VALUES (?, ?, ?, ?, 1, ?)`,
		coachID, in.SportID, in.Title, in.Notes, s.now())
	if err != nil {
		return Session{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Session{}, err
	}
	return getSession(ctx, s.db, id)
}

func (s *store) ListSessions(ctx context.Context, coachID int64) ([]Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx, sessionSelect+` WHERE se.coach_id = ? ORDER BY se.session_date DESC, se.id DESC`, coachID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		se, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, se)
	}
	return sessions, rows.Err()
}

func (s *store) GetSession(ctx context.Context, id int64) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getSession(ctx, s.db, id)
}

func getSession(ctx context.Context, q querier, id int64) (Session, error) {
	se, err := scanSession(q.QueryRowContext(ctx, sessionSelect+` WHERE se.id = ?`, id))
	if err != nil {
		return Session{}, notFound(err, "session", id)
	}
	return se, nil
}

// StudentIDs lists the public ids of the coach's active students in a sport.
func (s *store) StudentIDs(ctx context.Context, coachID, sportID int64) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.public_id FROM player_sport_profiles p
		JOIN users u ON u.id = p.player_id
		WHERE p.coach_id = ? AND p.sport_id = ? AND p.is_active = 1 AND u.public_id IS NOT NULL
		ORDER BY u.public_id`, coachID, sportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// RecordAttendance upserts attendance for already validated rows.
func (s *store) RecordAttendance(ctx context.Context, sessionID int64, rows []AttendanceRow) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := 0
	err := inTx(ctx, s.db, func(tx *sql.Tx) error {
		var active bool
		if err := tx.QueryRowContext(ctx, `SELECT is_active FROM sessions WHERE id = ?`, sessionID).Scan(&active); err != nil {
			return notFound(err, "session", sessionID)
		}
		if !active {
			return Invalid("Session has already ended")
		}
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO session_attendance (session_id, player_id, attended, rating)
			SELECT ?, id, ?, ? FROM users WHERE public_id = ?
			ON CONFLICT(session_id, player_id) DO UPDATE SET
				attended = excluded.attended,
				rating = excluded.rating`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, r := range rows {
			res, err := stmt.ExecContext(ctx, sessionID, r.Attended, r.Score, r.PlayerID)
			if err != nil {
				return err
			}
			if n, _ := res.RowsAffected(); n > 0 {
				updated++
			}
		}
		return nil
	})
	return updated, err
}

// EndSession deactivates an active session and reports its attendance.
func (s *store) EndSession(ctx context.Context, sessionID int64) (SessionSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []AttendanceRow
	err := inTx(ctx, s.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE sessions SET is_active = 0 WHERE id = ? AND is_active = 1`, sessionID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			if _, err := getSession(ctx, tx, sessionID); err != nil {
				return err
			}
			return Invalid("Session is not active")
		}
		rows, err := tx.QueryContext(ctx, `
			SELECT u.public_id, a.attended, a.rating FROM session_attendance a
			JOIN users u ON u.id = a.player_id
			WHERE a.session_id = ?`, sessionID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var (
				r   AttendanceRow
				pid sql.NullString
			)
			if err := rows.Scan(&pid, &r.Attended, &r.Score); err != nil {
				return err
			}
			r.PlayerID = pid.String
			records = append(records, r)
		}
		return rows.Err()
	})
	if err != nil {
		return SessionSummary{}, err
	}
	return Summarize(sessionID, records), nil
}
