package club

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

const teamSelect = `
	SELECT t.id, t.name, t.created_at, sp.id, sp.name,
		c.id, c.username, c.public_id,
		m.id, m.username, m.public_id
	FROM teams t
	JOIN sports sp ON sp.id = t.sport_id
	LEFT JOIN users c ON c.id = t.coach_id
	LEFT JOIN users m ON m.id = t.manager_id`

func scanTeam(row interface{ Scan(dest ...any) error }) (Team, error) {
	var (
		t           Team
		createdAt   int64
		cID, mID    sql.NullInt64
		cName, cPID sql.NullString
		mName, mPID sql.NullString
	)
	err := row.Scan(&t.ID, &t.Name, &createdAt, &t.Sport.ID, &t.Sport.Name,
		&cID, &cName, &cPID,
		&mID, &mName, &mPID)
	if err != nil {
		return Team{}, err
	}
	t.CreatedAt = fromUnix(createdAt)
	t.Coach = userRef(cID, cName, cPID)
	t.Manager = userRef(mID, mName, mPID)
	return t, nil
}

func teamPlayers(ctx context.Context, q querier, teamID int64) ([]UserRef, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT u.id, u.username, u.public_id FROM player_sport_profiles p
		JOIN users u ON u.id = p.player_id
		WHERE p.team_id = ? ORDER BY u.username`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := []UserRef{}
	for rows.Next() {
		var (
			ref UserRef
			pid sql.NullString
		)
		if err := rows.Scan(&ref.ID, &ref.Username, &pid); err != nil {
			return nil, err
		}
		ref.PublicID = pid.String
		players = append(players, ref)
	}
	return players, rows.Err()
}

func getTeam(ctx context.Context, q querier, id int64) (Team, error) {
	t, err := scanTeam(q.QueryRowContext(ctx, teamSelect+` WHERE t.id = ?`, id))
	if err != nil {
		return Team{}, notFound(err, "team", id)
	}
	t.Players, err = teamPlayers(ctx, q, id)
	return t, err
}

func listTeams(ctx context.Context, q querier, where string, args ...any) ([]Team, error) {
	rows, err := q.QueryContext(ctx, teamSelect+where+` ORDER BY t.name`, args...)
	if err != nil {
		return nil, err
	}
	teams := []Team{}
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		teams = append(teams, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range teams {
		if teams[i].Players, err = teamPlayers(ctx, q, teams[i].ID); err != nil {
			return nil, err
		}
	}
	return teams, nil
}

func (s *store) CreateTeam(ctx context.Context, managerID int64, in NewTeam) (Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(in.Name) == "" {
		return Team{}, Invalid("name is required")
	}
	var id int64
	err := inTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := getSport(ctx, tx, in.SportID); err != nil {
			return err
		}
		if in.CoachID != nil {
			if _, err := requireRole(ctx, tx, *in.CoachID, RoleCoach); err != nil {
				return err
			}
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO teams (name, sport_id, coach_id, manager_id, created_at) VALUES (?, ?, ?, ?, ?)`,
			in.Name, in.SportID, nullID(in.CoachID), managerID, s.now())
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return Team{}, err
	}
	return getTeam(ctx, s.db, id)
}

func (s *store) ListTeams(ctx context.Context, viewer User) ([]Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch viewer.Role {
	case RoleCoach:
		return listTeams(ctx, s.db, ` WHERE t.coach_id = ?`, viewer.ID)
	case RolePlayer:
		return listTeams(ctx, s.db, ` WHERE t.id IN (SELECT team_id FROM player_sport_profiles WHERE player_id = ? AND team_id IS NOT NULL)`, viewer.ID)
	}
	return listTeams(ctx, s.db, ``)
}

func (s *store) GetTeam(ctx context.Context, id int64) (Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getTeam(ctx, s.db, id)
}

func (s *store) UpdateTeam(ctx context.Context, id int64, in TeamUpdate) (Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := inTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := getTeam(ctx, tx, id); err != nil {
			return err
		}
		if in.Name != nil {
			if strings.TrimSpace(*in.Name) == "" {
				return Invalid("name cannot be empty")
			}
			if _, err := tx.ExecContext(ctx, `UPDATE teams SET name = ? WHERE id = ?`, *in.Name, id); err != nil {
				return err
			}
		}
		if in.CoachID != nil {
			if _, err := requireRole(ctx, tx, *in.CoachID, RoleCoach); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `UPDATE teams SET coach_id = ? WHERE id = ?`, *in.CoachID, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Team{}, err
	}
	return getTeam(ctx, s.db, id)
}

func (s *store) DeleteTeam(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.ExecContext(ctx, `DELETE FROM teams WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return NotFound("team %d not found", id)
	}
	return nil
}

// --- Tournaments ---

const tournamentSelect = `
	SELECT tr.id, tr.name, tr.location, tr.description, tr.start_date, tr.end_date, tr.created_at, sp.id, sp.name
	FROM tournaments tr
	JOIN sports sp ON sp.id = tr.sport_id`

func scanTournament(row interface{ Scan(dest ...any) error }) (Tournament, error) {
	var (
		t         Tournament
		createdAt int64
	)
	if err := row.Scan(&t.ID, &t.Name, &t.Location, &t.Description, &t.StartDate, &t.EndDate, &createdAt, &t.Sport.ID, &t.Sport.Name); err != nil {
		return Tournament{}, err
	}
	t.CreatedAt = fromUnix(createdAt)
	t.Teams = []TeamRef{}
	return t, nil
}

func tournamentTeams(ctx context.Context, q querier, tournamentID int64) ([]TeamRef, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT t.id, t.name FROM tournament_teams tt
		JOIN teams t ON t.id = tt.team_id
		WHERE tt.tournament_id = ? ORDER BY t.name`, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := []TeamRef{}
	for rows.Next() {
		var ref TeamRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, err
		}
		teams = append(teams, ref)
	}
	return teams, rows.Err()
}

func getTournament(ctx context.Context, q querier, id int64) (Tournament, error) {
	t, err := scanTournament(q.QueryRowContext(ctx, tournamentSelect+` WHERE tr.id = ?`, id))
	if err != nil {
		return Tournament{}, notFound(err, "tournament", id)
	}
	t.Teams, err = tournamentTeams(ctx, q, id)
	return t, err
}

func validDate(v string) bool {
	if v == "" {
		return true
	}
	_, err := time.Parse("2006-01-02", v)
	return err == nil
}

func (s *store) CreateTournament(ctx context.Context, managerID int64, in NewTournament) (Tournament, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(in.Name) == "" {
		return Tournament{}, Invalid("name is required")
	}
	if !validDate(in.StartDate) || !validDate(in.EndDate) {
		return Tournament{}, Invalid("dates must be formatted as YYYY-MM-DD")
	}
	if in.StartDate != "" && in.EndDate != "" && in.EndDate < in.StartDate {
		return Tournament{}, Invalid("end_date must not be before start_date")
	}
	if _, err := getSport(ctx, s.db, in.SportID); err != nil {
		return Tournament{}, err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tournaments (name, sport_id, manager_id, location, description, start_date, end_date, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Name, in.SportID, managerID, in.Location, in.Description, in.StartDate, in.EndDate, s.now())
	if err != nil {
		return Tournament{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Tournament{}, err
	}
	return getTournament(ctx, s.db, id)
}

func (s *store) ListTournaments(ctx context.Context) ([]Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, tournamentSelect+` ORDER BY tr.start_date DESC, tr.id DESC`)
	if err != nil {
		return nil, err
	}
	tournaments := []Tournament{}
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		tournaments = append(tournaments, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range tournaments {
		if tournaments[i].Teams, err = tournamentTeams(ctx, s.db, tournaments[i].ID); err != nil {
			return nil, err
		}
	}
	return tournaments, nil
}

func (s *store) GetTournament(ctx context.Context, id int64) (Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getTournament(ctx, s.db, id)
}

// AddTeamToTournament enters a team into a tournament of the same sport.
func (s *store) AddTeamToTournament(ctx context.Context, tournamentID, teamID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return inTx(ctx, s.db, func(tx *sql.Tx) error {
		tr, err := getTournament(ctx, tx, tournamentID)
		if err != nil {
			return err
		}
		team, err := getTeam(ctx, tx, teamID)
		if err != nil {
			return err
		}
		if team.Sport.ID != tr.Sport.ID {
			return Invalid("Team sport does not match tournament sport")
		}
		for _, t := range tr.Teams {
			if t.ID == teamID {
				return Conflict("Team already added to this tournament")
			}
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO tournament_teams (tournament_id, team_id) VALUES (?, ?)`, tournamentID, teamID)
		return err
	})
}

const matchSelect = `
	SELECT m.id, m.tournament_id, m.match_number, m.date, m.score_team1, m.score_team2, m.location, m.is_completed, m.notes,
		t1.id, t1.name, t2.id, t2.name,
		u.id, u.username, u.public_id
	FROM tournament_matches m
	JOIN teams t1 ON t1.id = m.team1_id
	JOIN teams t2 ON t2.id = m.team2_id
	LEFT JOIN users u ON u.id = m.man_of_the_match_id`

func scanMatch(row interface{ Scan(dest ...any) error }) (TournamentMatch, error) {
	var (
		m           TournamentMatch
		uID         sql.NullInt64
		uName, uPID sql.NullString
	)
	err := row.Scan(&m.ID, &m.TournamentID, &m.MatchNumber, &m.Date, &m.ScoreTeam1, &m.ScoreTeam2, &m.Location, &m.IsCompleted, &m.Notes,
		&m.Team1.ID, &m.Team1.Name, &m.Team2.ID, &m.Team2.Name,
		&uID, &uName, &uPID)
	if err != nil {
		return TournamentMatch{}, err
	}
	m.ManOfTheMatch = userRef(uID, uName, uPID)
	return m, nil
}

func (s *store) ListTournamentMatches(ctx context.Context, tournamentID int64) ([]TournamentMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := getTournament(ctx, s.db, tournamentID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, matchSelect+` WHERE m.tournament_id = ? ORDER BY m.match_number, m.id`, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := []TournamentMatch{}
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// CreateTournamentMatch records a fixture or result between two entered teams.
func (s *store) CreateTournamentMatch(ctx context.Context, in NewMatch) (TournamentMatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if in.Team1ID == in.Team2ID {
		return TournamentMatch{}, Invalid("A team cannot play against itself")
	}
	if !validDate(in.Date) {
		return TournamentMatch{}, Invalid("date must be formatted as YYYY-MM-DD")
	}
	if in.ScoreTeam1 < 0 || in.ScoreTeam2 < 0 {
		return TournamentMatch{}, Invalid("scores cannot be negative")
	}
	var id int64
	err := inTx(ctx, s.db, func(tx *sql.Tx) error {
		tr, err := getTournament(ctx, tx, in.TournamentID)
		if err != nil {
			return err
		}
		entered := map[int64]bool{}
		for _, t := range tr.Teams {
			entered[t.ID] = true
		}
		if !entered[in.Team1ID] || !entered[in.Team2ID] {
			return Invalid("Both teams must be part of the tournament")
		}
		if in.ManOfTheMatchID != nil {
			if _, err := requireRole(ctx, tx, *in.ManOfTheMatchID, RolePlayer); err != nil {
				return err
			}
		}
		res, err := tx.ExecContext(ctx, `
			INSERT INTO tournament_matches (tournament_id, team1_id, team2_id, match_number, date, score_team1, score_team2, location, is_completed, man_of_the_match_id, notes)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			in.TournamentID, in.Team1ID, in.Team2ID, in.MatchNumber, in.Date, in.ScoreTeam1, in.ScoreTeam2, in.Location, in.IsCompleted, nullID(in.ManOfTheMatchID), in.Notes)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return TournamentMatch{}, err
	}
	m, err := scanMatch(s.db.QueryRowContext(ctx, matchSelect+` WHERE m.id = ?`, id))
	if err != nil {
		return TournamentMatch{}, notFound(err, "match", id)
	}
	return m, nil
}
