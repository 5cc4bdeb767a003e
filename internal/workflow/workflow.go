package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/mauv0809/clubhouse/internal/club"
	"github.com/mauv0809/clubhouse/internal/dashboard"
)

// decide runs a transition call on one entity and refetches on success.
func (h *Handlers) decide(ctx context.Context, action, kind, rawID string, m dashboard.Mutation, call func(context.Context, int64) (club.DecisionResponse, error)) (club.DecisionResponse, error) {
	id, err := parseID(action, kind, rawID)
	if err != nil {
		return club.DecisionResponse{}, err
	}
	resp, err := run(ctx, h, action, fmt.Sprintf("%s:%d", kind, id), func(ctx context.Context) (club.DecisionResponse, error) {
		return call(ctx, id)
	})
	if err != nil {
		return club.DecisionResponse{}, err
	}
	h.reconcile(ctx, m, nil, 0)
	return resp, nil
}

// CreateProposal submits a team proposal to a manager.
func (h *Handlers) CreateProposal(ctx context.Context, in ProposalForm) (club.TeamProposal, error) {
	const action = "create proposal"
	managerID, err := parseID(action, "manager", in.ManagerID)
	if err != nil {
		return club.TeamProposal{}, err
	}
	sportID, err := parseID(action, "sport", in.SportID)
	if err != nil {
		return club.TeamProposal{}, err
	}
	if err := required(action, "team name", in.TeamName); err != nil {
		return club.TeamProposal{}, err
	}
	req := club.NewProposal{ManagerID: managerID, SportID: sportID, TeamName: strings.TrimSpace(in.TeamName), PlayerIDs: []int64{}}
	for _, raw := range in.PlayerIDs {
		id, err := parseID(action, "player", raw)
		if err != nil {
			return club.TeamProposal{}, err
		}
		req.PlayerIDs = append(req.PlayerIDs, id)
	}
	if len(req.PlayerIDs) == 0 {
		return club.TeamProposal{}, invalid(action, "select at least one player")
	}

	p, err := run(ctx, h, action, "proposal:new", func(ctx context.Context) (club.TeamProposal, error) {
		return h.api.CreateProposal(ctx, req)
	})
	if err != nil {
		return club.TeamProposal{}, err
	}
	h.reconcile(ctx, dashboard.MutCreateProposal, nil, 0)
	return p, nil
}

func (h *Handlers) ApproveProposal(ctx context.Context, id, remarks string) (club.DecisionResponse, error) {
	return h.decide(ctx, "approve proposal", "proposal", id, dashboard.MutDecideProposal, func(ctx context.Context, id int64) (club.DecisionResponse, error) {
		return h.api.ApproveProposal(ctx, id, strings.TrimSpace(remarks))
	})
}

func (h *Handlers) RejectProposal(ctx context.Context, id, remarks string) (club.DecisionResponse, error) {
	return h.decide(ctx, "reject proposal", "proposal", id, dashboard.MutDecideProposal, func(ctx context.Context, id int64) (club.DecisionResponse, error) {
		return h.api.RejectProposal(ctx, id, strings.TrimSpace(remarks))
	})
}

// CreateAssignment asks a coach to take over a team.
func (h *Handlers) CreateAssignment(ctx context.Context, coachID, teamID string) (club.TeamAssignment, error) {
	const action = "create assignment"
	coach, err := parseID(action, "coach", coachID)
	if err != nil {
		return club.TeamAssignment{}, err
	}
	team, err := parseID(action, "team", teamID)
	if err != nil {
		return club.TeamAssignment{}, err
	}
	a, err := run(ctx, h, action, fmt.Sprintf("team:%d:assignment", team), func(ctx context.Context) (club.TeamAssignment, error) {
		return h.api.CreateAssignment(ctx, club.NewAssignment{CoachID: coach, TeamID: team})
	})
	if err != nil {
		return club.TeamAssignment{}, err
	}
	h.reconcile(ctx, dashboard.MutCreateAssignment, nil, 0)
	return a, nil
}

func (h *Handlers) AcceptAssignment(ctx context.Context, id string) (club.DecisionResponse, error) {
	return h.decide(ctx, "accept assignment", "assignment", id, dashboard.MutDecideAssignment, h.api.AcceptAssignment)
}

func (h *Handlers) RejectAssignment(ctx context.Context, id, remarks string) (club.DecisionResponse, error) {
	return h.decide(ctx, "reject assignment", "assignment", id, dashboard.MutDecideAssignment, func(ctx context.Context, id int64) (club.DecisionResponse, error) {
		return h.api.RejectAssignment(ctx, id, strings.TrimSpace(remarks))
	})
}

// InvitePlayer sends a coach-to-player link request. playerID is the player's public id.
func (h *Handlers) InvitePlayer(ctx context.Context, playerID, sportID string) (club.LinkRequest, error) {
	const action = "invite player"
	if err := required(action, "player id", playerID); err != nil {
		return club.LinkRequest{}, err
	}
	sport, err := parseID(action, "sport", sportID)
	if err != nil {
		return club.LinkRequest{}, err
	}
	code := strings.ToUpper(strings.TrimSpace(playerID))
	lr, err := run(ctx, h, action, "link:"+code, func(ctx context.Context) (club.LinkRequest, error) {
		return h.api.InvitePlayer(ctx, club.Invite{PlayerID: code, SportID: sport})
	})
	if err != nil {
		return club.LinkRequest{}, err
	}
	h.reconcile(ctx, dashboard.MutCreateLink, nil, 0)
	return lr, nil
}

// RequestCoach sends a player-to-coach link request. coachID is the coach's public id.
func (h *Handlers) RequestCoach(ctx context.Context, coachID, sportID string) (club.LinkRequest, error) {
	const action = "request coach"
	if err := required(action, "coach id", coachID); err != nil {
		return club.LinkRequest{}, err
	}
	sport, err := parseID(action, "sport", sportID)
	if err != nil {
		return club.LinkRequest{}, err
	}
	code := strings.ToUpper(strings.TrimSpace(coachID))
	lr, err := run(ctx, h, action, "link:"+code, func(ctx context.Context) (club.LinkRequest, error) {
		return h.api.RequestCoach(ctx, club.CoachRequest{CoachID: code, SportID: sport})
	})
	if err != nil {
		return club.LinkRequest{}, err
	}
	h.reconcile(ctx, dashboard.MutCreateLink, nil, 0)
	return lr, nil
}

// AcceptLink accepts a link request. Every view that depends on the link,
// such as a player's coach and profiles, is re-aggregated.
func (h *Handlers) AcceptLink(ctx context.Context, id string) (club.DecisionResponse, error) {
	return h.decide(ctx, "accept link request", "link", id, dashboard.MutDecideLink, h.api.AcceptLinkRequest)
}

func (h *Handlers) RejectLink(ctx context.Context, id string) (club.DecisionResponse, error) {
	return h.decide(ctx, "reject link request", "link", id, dashboard.MutDecideLink, h.api.RejectLinkRequest)
}

// RequestPromotion asks the managers to make the current player a coach for a sport.
func (h *Handlers) RequestPromotion(ctx context.Context, sportID, remarks string) (club.PromotionRequest, error) {
	const action = "request promotion"
	sport, err := parseID(action, "sport", sportID)
	if err != nil {
		return club.PromotionRequest{}, err
	}
	p, err := run(ctx, h, action, "promotion:new", func(ctx context.Context) (club.PromotionRequest, error) {
		return h.api.RequestPromotion(ctx, club.NewPromotion{SportID: sport, Remarks: strings.TrimSpace(remarks)})
	})
	if err != nil {
		return club.PromotionRequest{}, err
	}
	h.reconcile(ctx, dashboard.MutRequestPromotion, nil, 0)
	return p, nil
}

func (h *Handlers) ApprovePromotion(ctx context.Context, id, remarks string) (club.DecisionResponse, error) {
	return h.decide(ctx, "approve promotion", "promotion", id, dashboard.MutDecidePromotion, func(ctx context.Context, id int64) (club.DecisionResponse, error) {
		return h.api.ApprovePromotion(ctx, id, strings.TrimSpace(remarks))
	})
}

func (h *Handlers) RejectPromotion(ctx context.Context, id, remarks string) (club.DecisionResponse, error) {
	return h.decide(ctx, "reject promotion", "promotion", id, dashboard.MutDecidePromotion, func(ctx context.Context, id int64) (club.DecisionResponse, error) {
		return h.api.RejectPromotion(ctx, id, strings.TrimSpace(remarks))
	})
}
