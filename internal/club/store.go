package club

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"
)

// New creates a new ClubStore backed by db.
func New(db *sql.DB) ClubStore {
	return NewWithClock(db, clockwork.NewRealClock())
}

// NewWithClock creates a ClubStore that stamps records with clock.
func NewWithClock(db *sql.DB, clock clockwork.Clock) ClubStore {
	return &store{
		db:    db,
		clock: clock,
	}
}

var _ ClubStore = (*store)(nil)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *store) now() int64 {
	return s.clock.Now().Unix()
}

func fromUnix(v int64) time.Time {
	return time.Unix(v, 0).UTC()
}

func fromNullUnix(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := fromUnix(v.Int64)
	return &t
}

func nullID(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func userRef(id sql.NullInt64, name, publicID sql.NullString) *UserRef {
	if !id.Valid {
		return nil
	}
	return &UserRef{ID: id.Int64, Username: name.String, PublicID: publicID.String}
}

func notFound(err error, what any, id any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return NotFound("%v %v not found", what, id)
	}
	return err
}

func inTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func publicIDFor(role Role, id int64, at time.Time) string {
	prefix := ""
	switch role {
	case RolePlayer:
		prefix = "P"
	case RoleCoach:
		prefix = "C"
	default:
		return ""
	}
	return fmt.Sprintf("%s%02d%05d", prefix, at.Year()%100, id)
}

const userColumns = `u.id, u.username, u.email, u.password_hash, u.role, u.public_id, u.verified, u.created_at, sp.id, sp.name`

const userFrom = `FROM users u LEFT JOIN sports sp ON sp.id = u.primary_sport_id`

func scanUser(row interface{ Scan(dest ...any) error }) (User, error) {
	var (
		u         User
		publicID  sql.NullString
		createdAt int64
		sportID   sql.NullInt64
		sportName sql.NullString
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &publicID, &u.Verified, &createdAt, &sportID, &sportName); err != nil {
		return User{}, err
	}
	u.PublicID = publicID.String
	u.CreatedAt = fromUnix(createdAt)
	if sportID.Valid {
		u.PrimarySport = &SportRef{ID: sportID.Int64, Name: sportName.String}
	}
	return u, nil
}

func getUser(ctx context.Context, q querier, id int64) (User, error) {
	u, err := scanUser(q.QueryRowContext(ctx, `SELECT `+userColumns+` `+userFrom+` WHERE u.id = ?`, id))
	if err != nil {
		return User{}, notFound(err, "user", id)
	}
	return u, nil
}

// CreateUser inserts a new account and assigns its public id.
func (s *store) CreateUser(ctx context.Context, u User) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var id int64
	err := inTx(ctx, s.db, func(tx *sql.Tx) error {
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE username = ?`, u.Username).Scan(&exists); err != nil {
			return err
		}
		if exists > 0 {
			return Conflict("username %q is already taken", u.Username)
		}
		var primarySport sql.NullInt64
		if u.PrimarySport != nil {
			primarySport = sql.NullInt64{Int64: u.PrimarySport.ID, Valid: true}
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO users (username, email, password_hash, role, verified, primary_sport_id, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			u.Username, u.Email, u.PasswordHash, u.Role, u.Verified, primarySport, s.now())
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		if err != nil {
			return err
		}
		if pid := publicIDFor(u.Role, id, s.clock.Now()); pid != "" {
			if _, err := tx.ExecContext(ctx, `UPDATE users SET public_id = ? WHERE id = ?`, pid, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return User{}, err
	}
	log.Debug("Created user", "id", id, "username", u.Username, "role", u.Role)
	return getUser(ctx, s.db, id)
}

func (s *store) GetUser(ctx context.Context, id int64) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getUser(ctx, s.db, id)
}

func (s *store) GetUserByUsername(ctx context.Context, username string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` `+userFrom+` WHERE u.username = ?`, username))
	if err != nil {
		return User{}, notFound(err, "user", username)
	}
	return u, nil
}

func (s *store) GetUserByPublicID(ctx context.Context, publicID string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` `+userFrom+` WHERE u.public_id = ?`, strings.ToUpper(strings.TrimSpace(publicID))))
	if err != nil {
		return User{}, notFound(err, "user", publicID)
	}
	return u, nil
}

func (s *store) ListUsersByRole(ctx context.Context, role Role) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` `+userFrom+` WHERE u.role = ? ORDER BY u.username`, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// VerifyUser marks a coach or manager account as verified so it can log in.
func (s *store) VerifyUser(ctx context.Context, id int64) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.ExecContext(ctx, `UPDATE users SET verified = 1 WHERE id = ?`, id)
	if err != nil {
		return User{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return User{}, NotFound("User %d not found", id)
	}
	return getUser(ctx, s.db, id)
}

// promoteToCoach turns a player account into a verified coach for sportID.
func (s *store) promoteToCoach(ctx context.Context, tx *sql.Tx, userID, sportID int64) error {
	u, err := getUser(ctx, tx, userID)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE users SET role = ?, verified = 1, primary_sport_id = ?, public_id = ? WHERE id = ?`,
		RoleCoach, sportID, publicIDFor(RoleCoach, u.ID, s.clock.Now()), userID)
	return err
}

func (s *store) SaveToken(ctx context.Context, token string, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `INSERT INTO tokens (token, user_id, created_at) VALUES (?, ?, ?)`, token, userID, s.now())
	return err
}

func (s *store) UserForToken(ctx context.Context, token string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` `+userFrom+` JOIN tokens t ON t.user_id = u.id WHERE t.token = ?`, token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, NotFound("Invalid token.")
		}
		return User{}, err
	}
	return u, nil
}

func (s *store) DeleteToken(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `DELETE FROM tokens WHERE token = ?`, token)
	return err
}

func (s *store) CreateSport(ctx context.Context, name string, sportType SportType) (Sport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sportType == "" {
		sportType = SportTypeTeam
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO sports (name, sport_type) VALUES (?, ?)`, name, sportType)
	if err != nil {
		return Sport{}, fmt.Errorf("failed to create sport %q: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Sport{}, err
	}
	return Sport{ID: id, Name: name, SportType: sportType}, nil
}

func (s *store) ListSports(ctx context.Context) ([]Sport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, sport_type FROM sports ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sports []Sport
	for rows.Next() {
		var sp Sport
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.SportType); err != nil {
			return nil, err
		}
		sports = append(sports, sp)
	}
	return sports, rows.Err()
}

func (s *store) GetSport(ctx context.Context, id int64) (Sport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getSport(ctx, s.db, id)
}

func getSport(ctx context.Context, q querier, id int64) (Sport, error) {
	var sp Sport
	err := q.QueryRowContext(ctx, `SELECT id, name, sport_type FROM sports WHERE id = ?`, id).Scan(&sp.ID, &sp.Name, &sp.SportType)
	if err != nil {
		return Sport{}, notFound(err, "sport", id)
	}
	return sp, nil
}
