package http

import (
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/clubhouse/internal/club"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req club.LoginRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		resp, err := s.Auth.Login(r.Context(), req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		log.Info("User logged in", "userID", resp.UserID, "role", resp.Role)
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) SignupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req club.SignupRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		u, err := s.Auth.Signup(r.Context(), req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		detail := "Account created. You can log in now."
		if !u.Verified {
			detail = "Account created. An administrator must verify it before you can log in."
		}
		writeJSON(w, http.StatusCreated, club.Created{ID: u.ID, Detail: detail})
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Auth.Logout(r.Context(), currentToken(r)); err != nil {
			writeError(w, r, err)
			return
		}
		writeDetail(w, http.StatusOK, "Logged out.")
	}
}

func (s *Server) ListUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role := club.Role(r.URL.Query().Get("role"))
		if role == "" {
			role = club.RoleCoach
		}
		users, err := s.Store.ListUsersByRole(r.Context(), role)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, users)
	}
}

func (s *Server) VerifyUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		u, err := s.Store.VerifyUser(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		log.Info("User verified", "userID", u.ID, "by", currentUser(r).Username)
		writeJSON(w, http.StatusOK, u)
	}
}

func (s *Server) CoachDashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := s.Store.CoachDashboard(r.Context(), currentUser(r).ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}

func (s *Server) PlayerDashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := s.Store.PlayerDashboard(r.Context(), currentUser(r).ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}

func (s *Server) ListSportsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sports, err := s.Store.ListSports(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, sports)
	}
}

func (s *Server) ListNotificationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		notes, err := s.Store.ListNotifications(r.Context(), currentUser(r).ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, notes)
	}
}

func (s *Server) MarkReadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if err := s.Store.MarkNotificationRead(r.Context(), currentUser(r).ID, id); err != nil {
			writeError(w, r, err)
			return
		}
		writeDetail(w, http.StatusOK, "Notification marked as read.")
	}
}
