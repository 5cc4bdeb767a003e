package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/mauv0809/clubhouse/internal/club"
)

func decisionResponse(kind club.Kind, status club.Status) club.DecisionResponse {
	return club.DecisionResponse{Detail: fmt.Sprintf("%s %s", capitalize(string(kind)), status), Status: status}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// decisionInput reads the path id and the optional remarks of a decision call.
func decisionInput(r *http.Request) (int64, string, error) {
	id, err := pathID(r)
	if err != nil {
		return 0, "", err
	}
	var req club.DecisionRequest
	if err := decodeJSON(r, &req); err != nil {
		return 0, "", err
	}
	return id, req.Remarks, nil
}

func (s *Server) ListProposalsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		proposals, err := s.Store.ListProposals(r.Context(), currentUser(r))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, proposals)
	}
}

func (s *Server) CreateProposalHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in club.NewProposal
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, r, err)
			return
		}
		p, err := s.Processor.SubmitProposal(r.Context(), currentUser(r), in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, p)
	}
}

func (s *Server) DecideProposalHandler(v club.Verdict) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, remarks, err := decisionInput(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		p, err := s.Processor.DecideProposal(r.Context(), currentUser(r), id, v, remarks)
		if err != nil {
			writeError(w, r, err)
			return
		}
		resp := decisionResponse(club.KindProposal, p.Status)
		resp.TeamID = p.CreatedTeamID
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) ListAssignmentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assignments, err := s.Store.ListAssignments(r.Context(), currentUser(r))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, assignments)
	}
}

func (s *Server) CreateAssignmentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in club.NewAssignment
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, r, err)
			return
		}
		a, err := s.Processor.SubmitAssignment(r.Context(), currentUser(r), in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, a)
	}
}

func (s *Server) DecideAssignmentHandler(v club.Verdict) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, remarks, err := decisionInput(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		a, err := s.Processor.DecideAssignment(r.Context(), currentUser(r), id, v, remarks)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, decisionResponse(club.KindAssignment, a.Status))
	}
}

func (s *Server) InvitePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in club.Invite
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, r, err)
			return
		}
		lr, err := s.Processor.InvitePlayer(r.Context(), currentUser(r), in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, lr)
	}
}

func (s *Server) RequestCoachHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in club.CoachRequest
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, r, err)
			return
		}
		lr, err := s.Processor.RequestCoach(r.Context(), currentUser(r), in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, lr)
	}
}

func (s *Server) ListLinkRequestsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		links, err := s.Store.ListLinkRequests(r.Context(), currentUser(r))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, links)
	}
}

func (s *Server) DecideLinkHandler(v club.Verdict) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		lr, err := s.Processor.DecideLink(r.Context(), currentUser(r), id, v)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, decisionResponse(club.KindLink, lr.Status))
	}
}

func (s *Server) ListPromotionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		promotions, err := s.Store.ListPromotions(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, promotions)
	}
}

func (s *Server) RequestPromotionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in club.NewPromotion
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, r, err)
			return
		}
		p, err := s.Processor.RequestPromotion(r.Context(), currentUser(r), in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, p)
	}
}

func (s *Server) DecidePromotionHandler(v club.Verdict) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, remarks, err := decisionInput(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		p, err := s.Processor.DecidePromotion(r.Context(), currentUser(r), id, v, remarks)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, decisionResponse(club.KindPromotion, p.Status))
	}
}
