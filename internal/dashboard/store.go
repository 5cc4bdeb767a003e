package dashboard

import (
	"maps"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/clubhouse/internal/club"
)

func NewStore() *Store {
	s := &Store{}
	s.state.fillDefaults()
	return s
}

// Snapshot returns a copy of the current state that is safe to read while
// the store keeps changing.
func (s *Store) Snapshot() ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	vs := s.state
	vs.Failed = maps.Clone(s.state.Failed)
	vs.Expanded = maps.Clone(s.state.Expanded)
	vs.Details = maps.Clone(s.state.Details)
	return vs
}

// BeginLoad reserves the sequence number a load commits with.
func (s *Store) BeginLoad() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

// CommitLoad replaces the state with a completed load. A load that began
// before the one already applied is dropped. Splices made after the load
// began are applied again on top of it. The tournament detail cache is cleared.
func (s *Store) CommitLoad(seq uint64, vs ViewState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.applied {
		log.Debug("Dropping stale dashboard load", "seq", seq, "applied", s.applied)
		return false
	}
	s.applied = seq
	s.epoch++

	vs.Expanded = nil
	vs.Details = nil
	vs.fillDefaults()
	if vs.LastUpload == nil {
		vs.LastUpload = s.state.LastUpload
	}

	kept := s.splices[:0]
	for _, sp := range s.splices {
		if sp.seq > seq {
			sp.apply(&vs)
			kept = append(kept, sp)
		}
	}
	s.splices = kept
	s.state = vs
	return true
}

// Splice applies a local change. fn must be idempotent: it can run again on a
// later load that already contains the change.
func (s *Store) Splice(fn func(*ViewState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.splices = append(s.splices, splice{seq: s.seq, apply: fn})
	fn(&s.state)
}

// Epoch identifies the currently applied load.
func (s *Store) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// SetExpanded marks a tournament panel open or closed. The cached detail is kept either way.
func (s *Store) SetExpanded(tournamentID int64, open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if open {
		s.state.Expanded[tournamentID] = true
	} else {
		delete(s.state.Expanded, tournamentID)
	}
}

// IsExpanded reports whether the panel of tournamentID is open.
func (s *Store) IsExpanded(tournamentID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Expanded[tournamentID]
}

// SetDetail caches a fetched detail panel unless a newer load was committed
// since epoch was read. open marks the panel expanded together with the cache.
func (s *Store) SetDetail(epoch uint64, tournamentID int64, d TournamentDetail, open bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		return false
	}
	s.state.Details[tournamentID] = d
	if open {
		s.state.Expanded[tournamentID] = true
	}
	return true
}

// SessionCreated adds the session echoed by the server, built from the
// submitted fields. The sport name is taken from the loaded sports.
func SessionCreated(id int64, in club.NewSession) func(*ViewState) {
	return func(vs *ViewState) {
		sess := club.Session{
			ID:       id,
			Title:    in.Title,
			Notes:    in.Notes,
			IsActive: true,
			Sport:    club.SportRef{ID: in.SportID},
		}
		for _, sp := range vs.Sports {
			if sp.ID == in.SportID {
				sess.Sport.Name = sp.Name
				break
			}
		}
		i := slices.IndexFunc(vs.Sessions, func(s club.Session) bool { return s.ID == id })
		sessions := slices.Clone(vs.Sessions)
		if i >= 0 {
			sessions[i] = sess
		} else {
			sessions = append(sessions, sess)
		}
		vs.Sessions = sessions
	}
}

// UploadReported records the report of an attendance upload.
func UploadReported(sessionID int64, res club.UploadResult) func(*ViewState) {
	return func(vs *ViewState) {
		vs.LastUpload = &UploadReport{SessionID: sessionID, Result: res}
	}
}
