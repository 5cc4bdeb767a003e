package http

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/clubhouse/internal/club"
)

// maxUploadSize bounds an attendance CSV upload.
const maxUploadSize = 1 << 20

func (s *Server) ListSessionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions, err := s.Store.ListSessions(r.Context(), currentUser(r).ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, sessions)
	}
}

// CreateSessionHandler answers with the new id only.
func (s *Server) CreateSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in club.NewSession
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, r, err)
			return
		}
		sess, err := s.Store.CreateSession(r.Context(), currentUser(r).ID, in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		log.Info("Session created", "sessionID", sess.ID, "coach", currentUser(r).Username)
		writeJSON(w, http.StatusCreated, club.Created{ID: sess.ID, Detail: "Session created"})
	}
}

func (s *Server) CSVTemplateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		var buf bytes.Buffer
		if err := s.Processor.AttendanceTemplate(r.Context(), currentUser(r), id, &buf); err != nil {
			writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="session_%d_attendance.csv"`, id))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(buf.Bytes()); err != nil {
			log.Error("Failed to write template", "error", err)
		}
	}
}

// UploadCSVHandler answers 200 when every row was applied and 207 when some rows were rejected.
func (s *Server) UploadCSVHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		file, _, err := r.FormFile("file")
		if err != nil {
			writeError(w, r, club.Invalid("No file uploaded"))
			return
		}
		defer file.Close()

		res, err := s.Processor.UploadAttendance(r.Context(), currentUser(r), id, file)
		if err != nil {
			writeError(w, r, err)
			return
		}
		status := http.StatusOK
		if len(res.Errors) > 0 {
			status = http.StatusMultiStatus
		}
		writeJSON(w, status, res)
	}
}

func (s *Server) EndSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		summary, err := s.Processor.EndSession(r.Context(), currentUser(r), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}
