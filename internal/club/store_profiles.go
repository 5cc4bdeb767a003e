package club

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// --- Notifications ---

func (s *store) CreateNotification(ctx context.Context, userID int64, n Notification) (Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := s.now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO notifications (user_id, title, message, type, created_at) VALUES (?, ?, ?, ?, ?)`,
		userID, n.Title, n.Message, n.Type, created)
	if err != nil {
		return Notification{}, fmt.Errorf("failed to create notification: %w", err)
	}
	if n.ID, err = res.LastInsertId(); err != nil {
		return Notification{}, err
	}
	n.CreatedAt = fromUnix(created)
	n.ReadAt = nil
	return n, nil
}

func (s *store) ListNotifications(ctx context.Context, userID int64) ([]Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, message, type, created_at, read_at FROM notifications WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := []Notification{}
	for rows.Next() {
		var (
			n         Notification
			createdAt int64
			readAt    sql.NullInt64
		)
		if err := rows.Scan(&n.ID, &n.Title, &n.Message, &n.Type, &createdAt, &readAt); err != nil {
			return nil, err
		}
		n.CreatedAt = fromUnix(createdAt)
		n.ReadAt = fromNullUnix(readAt)
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkNotificationRead stamps the first read time; later calls keep the original stamp.
func (s *store) MarkNotificationRead(ctx context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var owner int64
	if err := s.db.QueryRowContext(ctx, `SELECT user_id FROM notifications WHERE id = ?`, id).Scan(&owner); err != nil {
		return notFound(err, "notification", id)
	}
	if owner != userID {
		return NotFound("notification %d not found", id)
	}
	_, err := s.db.ExecContext(ctx, `UPDATE notifications SET read_at = ? WHERE id = ? AND read_at IS NULL`, s.now(), id)
	return err
}

// --- Player sport profiles ---

const profileSelect = `
	SELECT p.id, p.is_active, p.stats_json, p.rank_json, p.achievements_json, p.career_score, p.joined_at,
		u.id, u.username, u.public_id,
		sp.id, sp.name,
		t.id, t.name,
		c.id, c.username, c.public_id,
		(SELECT COUNT(*) FROM session_attendance a JOIN sessions se ON se.id = a.session_id
			WHERE a.player_id = p.player_id AND se.sport_id = p.sport_id),
		(SELECT COUNT(*) FROM session_attendance a JOIN sessions se ON se.id = a.session_id
			WHERE a.player_id = p.player_id AND se.sport_id = p.sport_id AND a.attended = 1)
	FROM player_sport_profiles p
	JOIN users u ON u.id = p.player_id
	JOIN sports sp ON sp.id = p.sport_id
	LEFT JOIN teams t ON t.id = p.team_id
	LEFT JOIN users c ON c.id = p.coach_id`

func scanProfile(row interface{ Scan(dest ...any) error }) (PlayerSportProfile, error) {
	var (
		p                             PlayerSportProfile
		statsJSON, rankJSON, achJSON  string
		joinedAt                      int64
		playerPID                     sql.NullString
		teamID, coachID               sql.NullInt64
		teamName, coachName, coachPID sql.NullString
	)
	err := row.Scan(&p.ID, &p.IsActive, &statsJSON, &rankJSON, &achJSON, &p.CareerScore, &joinedAt,
		&p.Player.ID, &p.Player.Username, &playerPID,
		&p.Sport.ID, &p.Sport.Name,
		&teamID, &teamName,
		&coachID, &coachName, &coachPID,
		&p.Attendance.TotalSessions, &p.Attendance.Attended)
	if err != nil {
		return PlayerSportProfile{}, err
	}
	p.Player.PublicID = playerPID.String
	p.JoinedAt = fromUnix(joinedAt)
	if teamID.Valid {
		p.Team = &TeamRef{ID: teamID.Int64, Name: teamName.String}
	}
	p.Coach = userRef(coachID, coachName, coachPID)
	if err := json.Unmarshal([]byte(statsJSON), &p.Stats); err != nil {
		return PlayerSportProfile{}, fmt.Errorf("failed to decode stats for profile %d: %w", p.ID, err)
	}
	if err := json.Unmarshal([]byte(rankJSON), &p.Rank); err != nil {
		return PlayerSportProfile{}, fmt.Errorf("failed to decode rank for profile %d: %w", p.ID, err)
	}
	if err := json.Unmarshal([]byte(achJSON), &p.Achievements); err != nil {
		return PlayerSportProfile{}, fmt.Errorf("failed to decode achievements for profile %d: %w", p.ID, err)
	}
	return p, nil
}

func listProfiles(ctx context.Context, q querier, where string, args ...any) ([]PlayerSportProfile, error) {
	rows, err := q.QueryContext(ctx, profileSelect+where+` ORDER BY u.username, sp.name`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := []PlayerSportProfile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (s *store) ListProfiles(ctx context.Context, viewer User) ([]PlayerSportProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch viewer.Role {
	case RolePlayer:
		return listProfiles(ctx, s.db, ` WHERE p.player_id = ?`, viewer.ID)
	case RoleCoach:
		return listProfiles(ctx, s.db, ` WHERE p.coach_id = ?`, viewer.ID)
	}
	return listProfiles(ctx, s.db, ``)
}

// UpdateProfile moves a player onto or off a team, or toggles the profile.
func (s *store) UpdateProfile(ctx context.Context, id int64, in ProfileUpdate) (PlayerSportProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := inTx(ctx, s.db, func(tx *sql.Tx) error {
		var sportID int64
		if err := tx.QueryRowContext(ctx, `SELECT sport_id FROM player_sport_profiles WHERE id = ?`, id).Scan(&sportID); err != nil {
			return notFound(err, "profile", id)
		}
		switch {
		case in.RemoveFromTeam:
			if _, err := tx.ExecContext(ctx, `UPDATE player_sport_profiles SET team_id = NULL WHERE id = ?`, id); err != nil {
				return err
			}
		case in.TeamID != nil:
			team, err := getTeam(ctx, tx, *in.TeamID)
			if err != nil {
				return err
			}
			if team.Sport.ID != sportID {
				return Invalid("Team sport does not match the player's sport")
			}
			if _, err := tx.ExecContext(ctx, `UPDATE player_sport_profiles SET team_id = ? WHERE id = ?`, team.ID, id); err != nil {
				return err
			}
		}
		if in.IsActive != nil {
			if _, err := tx.ExecContext(ctx, `UPDATE player_sport_profiles SET is_active = ? WHERE id = ?`, *in.IsActive, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return PlayerSportProfile{}, err
	}
	p, err := scanProfile(s.db.QueryRowContext(ctx, profileSelect+` WHERE p.id = ?`, id))
	if err != nil {
		return PlayerSportProfile{}, notFound(err, "profile", id)
	}
	return p, nil
}

// --- Dashboards ---

func (s *store) CoachDashboard(ctx context.Context, coachID int64) (CoachDashboard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	teams, err := listTeams(ctx, s.db, ` WHERE t.coach_id = ?`, coachID)
	if err != nil {
		return CoachDashboard{}, fmt.Errorf("failed to load coach teams: %w", err)
	}
	players, err := listProfiles(ctx, s.db, ` WHERE p.coach_id = ? AND p.is_active = 1`, coachID)
	if err != nil {
		return CoachDashboard{}, fmt.Errorf("failed to load coach students: %w", err)
	}
	return CoachDashboard{
		Teams:         teams,
		Players:       players,
		TotalStudents: len(players),
		TotalTeams:    len(teams),
	}, nil
}

func (s *store) PlayerDashboard(ctx context.Context, playerID int64) (PlayerDashboard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, err := getUser(ctx, s.db, playerID)
	if err != nil {
		return PlayerDashboard{}, err
	}
	profiles, err := listProfiles(ctx, s.db, ` WHERE p.player_id = ?`, playerID)
	if err != nil {
		return PlayerDashboard{}, fmt.Errorf("failed to load player profiles: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, sport_type FROM sports
		WHERE id NOT IN (SELECT sport_id FROM player_sport_profiles WHERE player_id = ?)
		ORDER BY name`, playerID)
	if err != nil {
		return PlayerDashboard{}, err
	}
	defer rows.Close()

	available := []Sport{}
	for rows.Next() {
		var sp Sport
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.SportType); err != nil {
			return PlayerDashboard{}, err
		}
		available = append(available, sp)
	}
	if err := rows.Err(); err != nil {
		return PlayerDashboard{}, err
	}
	return PlayerDashboard{
		Player:          u.Ref(),
		Profiles:        profiles,
		AvailableSports: available,
		PrimarySport:    u.PrimarySport,
	}, nil
}
