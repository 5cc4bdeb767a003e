package http

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/clubhouse/internal/club"
)

func (s *Server) ListTeamsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teams, err := s.Store.ListTeams(r.Context(), currentUser(r))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, teams)
	}
}

func (s *Server) GetTeamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		team, err := s.Store.GetTeam(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, team)
	}
}

func (s *Server) CreateTeamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in club.NewTeam
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, r, err)
			return
		}
		team, err := s.Store.CreateTeam(r.Context(), currentUser(r).ID, in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		log.Info("Team created", "teamID", team.ID, "name", team.Name)
		writeJSON(w, http.StatusCreated, team)
	}
}

func (s *Server) UpdateTeamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		var in club.TeamUpdate
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, r, err)
			return
		}
		team, err := s.Store.UpdateTeam(r.Context(), id, in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, team)
	}
}

func (s *Server) DeleteTeamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if err := s.Store.DeleteTeam(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}
		log.Info("Team deleted", "teamID", id, "by", currentUser(r).Username)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) ListTournamentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tournaments, err := s.Store.ListTournaments(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, tournaments)
	}
}

func (s *Server) CreateTournamentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in club.NewTournament
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, r, err)
			return
		}
		t, err := s.Store.CreateTournament(r.Context(), currentUser(r).ID, in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, t)
	}
}

func (s *Server) AddTournamentTeamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		var in club.AddTeam
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, r, err)
			return
		}
		if err := s.Store.AddTeamToTournament(r.Context(), id, in.TeamID); err != nil {
			writeError(w, r, err)
			return
		}
		t, err := s.Store.GetTournament(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

func (s *Server) TournamentMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if _, err := s.Store.GetTournament(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}
		matches, err := s.Store.ListTournamentMatches(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, matches)
	}
}

func (s *Server) PointsTableHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		t, err := s.Store.GetTournament(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		matches, err := s.Store.ListTournamentMatches(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, club.BuildPointsTable(t.Teams, matches))
	}
}

func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if _, err := s.Store.GetTournament(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}
		matches, err := s.Store.ListTournamentMatches(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, club.BuildLeaderboard(matches))
	}
}

func (s *Server) CreateMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in club.NewMatch
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, r, err)
			return
		}
		m, err := s.Store.CreateTournamentMatch(r.Context(), in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		log.Info("Match recorded", "matchID", m.ID, "tournamentID", m.TournamentID)
		writeJSON(w, http.StatusCreated, m)
	}
}

func (s *Server) ListProfilesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profiles, err := s.Store.ListProfiles(r.Context(), currentUser(r))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, profiles)
	}
}

// UpdateProfileHandler lets staff edit any profile and coaches edit their own students.
func (s *Server) UpdateProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		user := currentUser(r)
		if user.Role == club.RoleCoach {
			profiles, err := s.Store.ListProfiles(r.Context(), user)
			if err != nil {
				writeError(w, r, err)
				return
			}
			if !containsProfile(profiles, id) {
				writeError(w, r, club.Forbidden("You can only manage your own students"))
				return
			}
		}
		var in club.ProfileUpdate
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, r, err)
			return
		}
		p, err := s.Store.UpdateProfile(r.Context(), id, in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func containsProfile(profiles []club.PlayerSportProfile, id int64) bool {
	for _, p := range profiles {
		if p.ID == id {
			return true
		}
	}
	return false
}
