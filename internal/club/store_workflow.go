package club

import (
	"context"
	"database/sql"
	"strings"
)

// decide applies a pending -> terminal transition with a conditional update so
// that a second decision never overwrites the first.
func decide(ctx context.Context, tx *sql.Tx, kind Kind, table string, id int64, set string, args ...any) error {
	query := `UPDATE ` + table + ` SET ` + set + ` WHERE id = ? AND status = 'pending'`
	res, err := tx.ExecContext(ctx, query, append(args, id)...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var status string
	if err := tx.QueryRowContext(ctx, `SELECT status FROM `+table+` WHERE id = ?`, id).Scan(&status); err != nil {
		return notFound(err, string(kind), id)
	}
	return NotPending(kind)
}

// --- Team proposals ---

const proposalSelect = `
	SELECT p.id, p.team_name, p.status, p.remarks, p.decided_at, p.created_team_id, p.created_at,
		sp.id, sp.name,
		c.id, c.username, c.public_id,
		m.id, m.username, m.public_id,
		d.id, d.username, d.public_id
	FROM team_proposals p
	JOIN sports sp ON sp.id = p.sport_id
	JOIN users c ON c.id = p.coach_id
	JOIN users m ON m.id = p.manager_id
	LEFT JOIN users d ON d.id = p.decided_by`

func scanProposal(row interface{ Scan(dest ...any) error }) (TeamProposal, error) {
	var (
		p                    TeamProposal
		decidedAt, teamID    sql.NullInt64
		createdAt            int64
		coachPID, managerPID sql.NullString
		dID                  sql.NullInt64
		dName, dPID          sql.NullString
	)
	err := row.Scan(&p.ID, &p.TeamName, &p.Status, &p.Remarks, &decidedAt, &teamID, &createdAt,
		&p.Sport.ID, &p.Sport.Name,
		&p.Coach.ID, &p.Coach.Username, &coachPID,
		&p.Manager.ID, &p.Manager.Username, &managerPID,
		&dID, &dName, &dPID)
	if err != nil {
		return TeamProposal{}, err
	}
	p.Coach.PublicID = coachPID.String
	p.Manager.PublicID = managerPID.String
	p.DecidedAt = fromNullUnix(decidedAt)
	p.DecidedBy = userRef(dID, dName, dPID)
	if teamID.Valid {
		id := teamID.Int64
		p.CreatedTeamID = &id
	}
	p.CreatedAt = fromUnix(createdAt)
	p.ProposedPlayers = []UserRef{}
	return p, nil
}

func proposalPlayers(ctx context.Context, q querier, proposalID int64) ([]UserRef, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT u.id, u.username, u.public_id FROM proposal_players pp
		JOIN users u ON u.id = pp.player_id
		WHERE pp.proposal_id = ? ORDER BY u.username`, proposalID)
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

func getProposal(ctx context.Context, q querier, id int64) (TeamProposal, error) {
	p, err := scanProposal(q.QueryRowContext(ctx, proposalSelect+` WHERE p.id = ?`, id))
	if err != nil {
		return TeamProposal{}, notFound(err, KindProposal, id)
	}
	p.ProposedPlayers, err = proposalPlayers(ctx, q, id)
	return p, err
}

func listProposals(ctx context.Context, q querier, where string, args ...any) ([]TeamProposal, error) {
	rows, err := q.QueryContext(ctx, proposalSelect+where+` ORDER BY p.created_at DESC, p.id DESC`, args...)
	if err != nil {
		return nil, err
	}
	var proposals []TeamProposal
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		proposals = append(proposals, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range proposals {
		if proposals[i].ProposedPlayers, err = proposalPlayers(ctx, q, proposals[i].ID); err != nil {
			return nil, err
		}
	}
	return proposals, nil
}

func requireRole(ctx context.Context, q querier, id int64, roles ...Role) (User, error) {
	u, err := getUser(ctx, q, id)
	if err != nil {
		return User{}, err
	}
	for _, r := range roles {
		if u.Role == r {
			return u, nil
		}
	}
	return User{}, Invalid("user %d is not a %s", id, roles[0])
}

// CreateProposal records a coach's request to form a team.
func (s *store) CreateProposal(ctx context.Context, coachID int64, in NewProposal) (TeamProposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(in.TeamName) == "" {
		return TeamProposal{}, Invalid("team_name is required")
	}
	var id int64
	err := inTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := requireRole(ctx, tx, in.ManagerID, RoleManager, RoleAdmin); err != nil {
			return err
		}
		if _, err := getSport(ctx, tx, in.SportID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO team_proposals (team_name, sport_id, coach_id, manager_id, status, created_at) VALUES (?, ?, ?, ?, 'pending', ?)`,
			in.TeamName, in.SportID, coachID, in.ManagerID, s.now())
		if err != nil {
			return err
		}
		if id, err = res.LastInsertId(); err != nil {
			return err
		}
		for _, pid := range in.PlayerIDs {
			if _, err := requireRole(ctx, tx, pid, RolePlayer); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO proposal_players (proposal_id, player_id) VALUES (?, ?)`, id, pid); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return TeamProposal{}, err
	}
	return getProposal(ctx, s.db, id)
}

func (s *store) ListProposals(ctx context.Context, viewer User) ([]TeamProposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch viewer.Role {
	case RoleCoach:
		return listProposals(ctx, s.db, ` WHERE p.coach_id = ?`, viewer.ID)
	case RoleManager:
		return listProposals(ctx, s.db, ` WHERE p.manager_id = ?`, viewer.ID)
	case RoleAdmin:
		return listProposals(ctx, s.db, ``)
	}
	return []TeamProposal{}, nil
}

func (s *store) GetProposal(ctx context.Context, id int64) (TeamProposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getProposal(ctx, s.db, id)
}

// DecideProposal moves a pending proposal to status. Approval creates the team
// and places the proposed players on it in the same transaction.
func (s *store) DecideProposal(ctx context.Context, id int64, deciderID int64, status Status, remarks string) (TeamProposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := inTx(ctx, s.db, func(tx *sql.Tx) error {
		now := s.now()
		if err := decide(ctx, tx, KindProposal, "team_proposals", id,
			`status = ?, decided_by = ?, decided_at = ?, remarks = ?`, status, deciderID, now, remarks); err != nil {
			return err
		}
		if status != StatusApproved {
			return nil
		}
		p, err := getProposal(ctx, tx, id)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO teams (name, sport_id, coach_id, manager_id, created_at) VALUES (?, ?, ?, ?, ?)`,
			p.TeamName, p.Sport.ID, p.Coach.ID, deciderID, now)
		if err != nil {
			return err
		}
		teamID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE team_proposals SET created_team_id = ? WHERE id = ?`, teamID, id); err != nil {
			return err
		}
		for _, player := range p.ProposedPlayers {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO player_sport_profiles (player_id, sport_id, team_id, coach_id, joined_at) VALUES (?, ?, ?, ?, ?)
				ON CONFLICT(player_id, sport_id) DO UPDATE SET team_id = excluded.team_id`,
				player.ID, p.Sport.ID, teamID, p.Coach.ID, now)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return TeamProposal{}, err
	}
	return getProposal(ctx, s.db, id)
}

// --- Team assignments ---

const assignmentSelect = `
	SELECT a.id, a.status, a.remarks, a.decided_at, a.created_at,
		t.id, t.name,
		c.id, c.username, c.public_id,
		m.id, m.username, m.public_id
	FROM team_assignments a
	JOIN teams t ON t.id = a.team_id
	JOIN users c ON c.id = a.coach_id
	JOIN users m ON m.id = a.manager_id`

func scanAssignment(row interface{ Scan(dest ...any) error }) (TeamAssignment, error) {
	var (
		a                    TeamAssignment
		decidedAt            sql.NullInt64
		createdAt            int64
		coachPID, managerPID sql.NullString
	)
	err := row.Scan(&a.ID, &a.Status, &a.Remarks, &decidedAt, &createdAt,
		&a.Team.ID, &a.Team.Name,
		&a.Coach.ID, &a.Coach.Username, &coachPID,
		&a.Manager.ID, &a.Manager.Username, &managerPID)
	if err != nil {
		return TeamAssignment{}, err
	}
	a.Coach.PublicID = coachPID.String
	a.Manager.PublicID = managerPID.String
	a.DecidedAt = fromNullUnix(decidedAt)
	a.CreatedAt = fromUnix(createdAt)
	return a, nil
}

func getAssignment(ctx context.Context, q querier, id int64) (TeamAssignment, error) {
	a, err := scanAssignment(q.QueryRowContext(ctx, assignmentSelect+` WHERE a.id = ?`, id))
	if err != nil {
		return TeamAssignment{}, notFound(err, KindAssignment, id)
	}
	return a, nil
}

// CreateAssignment offers a team to a coach.
func (s *store) CreateAssignment(ctx context.Context, managerID int64, in NewAssignment) (TeamAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var id int64
	err := inTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := requireRole(ctx, tx, in.CoachID, RoleCoach); err != nil {
			return err
		}
		if _, err := getTeam(ctx, tx, in.TeamID); err != nil {
			return err
		}
		var pending int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM team_assignments WHERE team_id = ? AND coach_id = ? AND status = 'pending'`,
			in.TeamID, in.CoachID).Scan(&pending); err != nil {
			return err
		}
		if pending > 0 {
			return Conflict("An assignment for this coach and team is already pending")
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO team_assignments (team_id, coach_id, manager_id, status, created_at) VALUES (?, ?, ?, 'pending', ?)`,
			in.TeamID, in.CoachID, managerID, s.now())
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return TeamAssignment{}, err
	}
	return getAssignment(ctx, s.db, id)
}

func (s *store) ListAssignments(ctx context.Context, viewer User) ([]TeamAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		where string
		args  []any
	)
	switch viewer.Role {
	case RoleCoach:
		where, args = ` WHERE a.coach_id = ?`, []any{viewer.ID}
	case RoleManager:
		where, args = ` WHERE a.manager_id = ?`, []any{viewer.ID}
	case RoleAdmin:
	default:
		return []TeamAssignment{}, nil
	}
	rows, err := s.db.QueryContext(ctx, assignmentSelect+where+` ORDER BY a.created_at DESC, a.id DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []TeamAssignment{}
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *store) GetAssignment(ctx context.Context, id int64) (TeamAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getAssignment(ctx, s.db, id)
}

// DecideAssignment records the coach's answer. Accepting makes the coach the team's coach.
func (s *store) DecideAssignment(ctx context.Context, id int64, status Status, remarks string) (TeamAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := inTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := decide(ctx, tx, KindAssignment, "team_assignments", id,
			`status = ?, decided_at = ?, remarks = ?`, status, s.now(), remarks); err != nil {
			return err
		}
		if status != StatusAccepted {
			return nil
		}
		_, err := tx.ExecContext(ctx,
			`UPDATE teams SET coach_id = (SELECT coach_id FROM team_assignments WHERE id = ?) WHERE id = (SELECT team_id FROM team_assignments WHERE id = ?)`,
			id, id)
		return err
	})
	if err != nil {
		return TeamAssignment{}, err
	}
	return getAssignment(ctx, s.db, id)
}

// --- Coach-player link requests ---

const linkSelect = `
	SELECT l.id, l.direction, l.status, l.decided_at, l.created_at,
		p.id, p.username, p.public_id,
		c.id, c.username, c.public_id,
		sp.id, sp.name
	FROM link_requests l
	JOIN users p ON p.id = l.player_id
	JOIN users c ON c.id = l.coach_id
	JOIN sports sp ON sp.id = l.sport_id`

func scanLink(row interface{ Scan(dest ...any) error }) (LinkRequest, error) {
	var (
		l                   LinkRequest
		decidedAt           sql.NullInt64
		createdAt           int64
		playerPID, coachPID sql.NullString
	)
	err := row.Scan(&l.ID, &l.Direction, &l.Status, &decidedAt, &createdAt,
		&l.Player.ID, &l.Player.Username, &playerPID,
		&l.Coach.ID, &l.Coach.Username, &coachPID,
		&l.Sport.ID, &l.Sport.Name)
	if err != nil {
		return LinkRequest{}, err
	}
	l.Player.PublicID = playerPID.String
	l.Coach.PublicID = coachPID.String
	l.DecidedAt = fromNullUnix(decidedAt)
	l.CreatedAt = fromUnix(createdAt)
	return l, nil
}

func getLink(ctx context.Context, q querier, id int64) (LinkRequest, error) {
	l, err := scanLink(q.QueryRowContext(ctx, linkSelect+` WHERE l.id = ?`, id))
	if err != nil {
		return LinkRequest{}, notFound(err, KindLink, id)
	}
	return l, nil
}

// CreateLinkRequest records an invitation (coach to player) or a request (player to coach).
func (s *store) CreateLinkRequest(ctx context.Context, dir LinkDirection, playerID, coachID, sportID int64) (LinkRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var id int64
	err := inTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := requireRole(ctx, tx, playerID, RolePlayer); err != nil {
			return err
		}
		if _, err := requireRole(ctx, tx, coachID, RoleCoach); err != nil {
			return err
		}
		if _, err := getSport(ctx, tx, sportID); err != nil {
			return err
		}
		var n int
		if err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM player_sport_profiles
			WHERE player_id = ? AND coach_id = ? AND sport_id = ? AND is_active = 1`,
			playerID, coachID, sportID).Scan(&n); err != nil {
			return err
		}
		if n > 0 {
			return Conflict("Player is already linked to this coach for this sport")
		}
		if err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM link_requests
			WHERE player_id = ? AND coach_id = ? AND sport_id = ? AND status = 'pending'`,
			playerID, coachID, sportID).Scan(&n); err != nil {
			return err
		}
		if n > 0 {
			return Conflict("A pending request already exists")
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO link_requests (direction, player_id, coach_id, sport_id, status, created_at) VALUES (?, ?, ?, ?, 'pending', ?)`,
			dir, playerID, coachID, sportID, s.now())
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return LinkRequest{}, err
	}
	return getLink(ctx, s.db, id)
}

func (s *store) ListLinkRequests(ctx context.Context, viewer User) ([]LinkRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		where string
		args  []any
	)
	switch viewer.Role {
	case RolePlayer:
		where, args = ` WHERE l.player_id = ?`, []any{viewer.ID}
	case RoleCoach:
		where, args = ` WHERE l.coach_id = ?`, []any{viewer.ID}
	}
	rows, err := s.db.QueryContext(ctx, linkSelect+where+` ORDER BY l.created_at DESC, l.id DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []LinkRequest{}
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *store) GetLinkRequest(ctx context.Context, id int64) (LinkRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getLink(ctx, s.db, id)
}

// DecideLinkRequest records the counterpart's answer. Accepting makes the player
// an active student of the coach for the sport.
func (s *store) DecideLinkRequest(ctx context.Context, id int64, status Status) (LinkRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := inTx(ctx, s.db, func(tx *sql.Tx) error {
		now := s.now()
		if err := decide(ctx, tx, KindLink, "link_requests", id, `status = ?, decided_at = ?`, status, now); err != nil {
			return err
		}
		if status != StatusAccepted {
			return nil
		}
		l, err := getLink(ctx, tx, id)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO player_sport_profiles (player_id, sport_id, coach_id, is_active, joined_at) VALUES (?, ?, ?, 1, ?)
			ON CONFLICT(player_id, sport_id) DO UPDATE SET coach_id = excluded.coach_id, is_active = 1`,
			l.Player.ID, l.Sport.ID, l.Coach.ID, now)
		return err
	})
	if err != nil {
		return LinkRequest{}, err
	}
	return getLink(ctx, s.db, id)
}

// --- Promotion requests ---

const promotionSelect = `
	SELECT r.id, r.status, r.remarks, r.decided_at, r.created_at,
		u.id, u.username, u.public_id,
		sp.id, sp.name,
		d.id, d.username, d.public_id
	FROM promotion_requests r
	JOIN users u ON u.id = r.user_id
	JOIN sports sp ON sp.id = r.sport_id
	LEFT JOIN users d ON d.id = r.decided_by`

func scanPromotion(row interface{ Scan(dest ...any) error }) (PromotionRequest, error) {
	var (
		r           PromotionRequest
		decidedAt   sql.NullInt64
		createdAt   int64
		userPID     sql.NullString
		dID         sql.NullInt64
		dName, dPID sql.NullString
	)
	err := row.Scan(&r.ID, &r.Status, &r.Remarks, &decidedAt, &createdAt,
		&r.User.ID, &r.User.Username, &userPID,
		&r.Sport.ID, &r.Sport.Name,
		&dID, &dName, &dPID)
	if err != nil {
		return PromotionRequest{}, err
	}
	r.User.PublicID = userPID.String
	r.DecidedAt = fromNullUnix(decidedAt)
	r.DecidedBy = userRef(dID, dName, dPID)
	r.CreatedAt = fromUnix(createdAt)
	return r, nil
}

func getPromotion(ctx context.Context, q querier, id int64) (PromotionRequest, error) {
	r, err := scanPromotion(q.QueryRowContext(ctx, promotionSelect+` WHERE r.id = ?`, id))
	if err != nil {
		return PromotionRequest{}, notFound(err, KindPromotion, id)
	}
	return r, nil
}

// CreatePromotion files a player's request to become a coach.
func (s *store) CreatePromotion(ctx context.Context, userID int64, in NewPromotion) (PromotionRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var id int64
	err := inTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := requireRole(ctx, tx, userID, RolePlayer); err != nil {
			return err
		}
		if _, err := getSport(ctx, tx, in.SportID); err != nil {
			return err
		}
		var n int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM promotion_requests WHERE user_id = ? AND status = 'pending'`, userID).Scan(&n); err != nil {
			return err
		}
		if n > 0 {
			return Conflict("A promotion request is already pending")
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO promotion_requests (user_id, sport_id, status, remarks, created_at) VALUES (?, ?, 'pending', ?, ?)`,
			userID, in.SportID, in.Remarks, s.now())
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return PromotionRequest{}, err
	}
	return getPromotion(ctx, s.db, id)
}

func (s *store) ListPromotions(ctx context.Context) ([]PromotionRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx, promotionSelect+` ORDER BY r.created_at DESC, r.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []PromotionRequest{}
	for rows.Next() {
		r, err := scanPromotion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *store) GetPromotion(ctx context.Context, id int64) (PromotionRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getPromotion(ctx, s.db, id)
}

// DecidePromotion records the manager's answer. Approval promotes the user to coach.
func (s *store) DecidePromotion(ctx context.Context, id int64, deciderID int64, status Status, remarks string) (PromotionRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := inTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := decide(ctx, tx, KindPromotion, "promotion_requests", id,
			`status = ?, decided_by = ?, decided_at = ?, remarks = ?`, status, deciderID, s.now(), remarks); err != nil {
			return err
		}
		if status != StatusApproved {
			return nil
		}
		r, err := getPromotion(ctx, tx, id)
		if err != nil {
			return err
		}
		return s.promoteToCoach(ctx, tx, r.User.ID, r.Sport.ID)
	})
	if err != nil {
		return PromotionRequest{}, err
	}
	return getPromotion(ctx, s.db, id)
}
