package processor

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/clubhouse/internal/club"
	"github.com/mauv0809/clubhouse/internal/notifier"
	"github.com/mauv0809/clubhouse/internal/pubsub"
)

func withRemarks(msg, remarks string) string {
	if remarks == "" {
		return msg
	}
	return fmt.Sprintf("%s Remarks: %s", msg, remarks)
}

// storeDecisionErr counts a decision lost to a concurrent one as refused.
func (p *Processor) storeDecisionErr(kind club.Kind, err error) error {
	if errors.Is(err, club.ErrNotPending) {
		return p.refused(kind, err)
	}
	return err
}

// SubmitProposal records a coach's team proposal and notifies the chosen manager.
func (p *Processor) SubmitProposal(ctx context.Context, actor club.User, in club.NewProposal) (club.TeamProposal, error) {
	if actor.Role != club.RoleCoach {
		return club.TeamProposal{}, club.Forbidden("Only coaches can propose teams")
	}
	proposal, err := p.store.CreateProposal(ctx, actor.ID, in)
	if err != nil {
		return club.TeamProposal{}, err
	}
	p.metrics.IncWorkflowSubmitted(string(club.KindProposal))
	log.Info("Team proposal submitted", "proposalID", proposal.ID, "coach", actor.Username, "team", proposal.TeamName)

	p.notify(ctx, proposal.Manager, "team_proposal", "New team proposal",
		fmt.Sprintf("%s proposed the team %s for %s.", actor.Username, proposal.TeamName, proposal.Sport.Name))
	p.publish(ctx, pubsub.EventProposalSubmitted, proposal.ID, proposal.Status, actor.ID, "")
	return proposal, nil
}

// DecideProposal approves or rejects a pending proposal. Only the manager it was
// sent to, or an admin, may decide it.
func (p *Processor) DecideProposal(ctx context.Context, actor club.User, id int64, v club.Verdict, remarks string) (club.TeamProposal, error) {
	proposal, err := p.store.GetProposal(ctx, id)
	if err != nil {
		return club.TeamProposal{}, err
	}
	if proposal.Manager.ID != actor.ID && !isAdmin(actor) {
		return club.TeamProposal{}, club.Forbidden("Only the assigned manager can approve or reject this proposal")
	}
	status, err := p.transition(club.KindProposal, proposal.Status, v)
	if err != nil {
		return club.TeamProposal{}, err
	}
	proposal, err = p.store.DecideProposal(ctx, id, actor.ID, status, remarks)
	if err != nil {
		return club.TeamProposal{}, p.storeDecisionErr(club.KindProposal, err)
	}
	p.decided(club.KindProposal, status)

	p.notify(ctx, proposal.Coach, "team_proposal", fmt.Sprintf("Team proposal %s", status),
		withRemarks(fmt.Sprintf("Your proposal for %s was %s by %s.", proposal.TeamName, status, actor.Username), remarks))
	if status == club.StatusApproved {
		for _, player := range proposal.ProposedPlayers {
			p.notify(ctx, player, "team", "Added to team",
				fmt.Sprintf("You were added to %s (%s).", proposal.TeamName, proposal.Sport.Name))
		}
	}
	p.announce(ctx, notifier.Decision{Kind: club.KindProposal, Status: status, Subject: proposal.TeamName, Actor: actor.Ref(), Remarks: remarks})
	p.publish(ctx, pubsub.EventProposalDecided, id, status, actor.ID, remarks)
	return proposal, nil
}

// SubmitAssignment asks a coach to take over a team.
func (p *Processor) SubmitAssignment(ctx context.Context, actor club.User, in club.NewAssignment) (club.TeamAssignment, error) {
	if actor.Role != club.RoleManager && !isAdmin(actor) {
		return club.TeamAssignment{}, club.Forbidden("Only managers can assign coaches to teams")
	}
	assignment, err := p.store.CreateAssignment(ctx, actor.ID, in)
	if err != nil {
		return club.TeamAssignment{}, err
	}
	p.metrics.IncWorkflowSubmitted(string(club.KindAssignment))
	log.Info("Team assignment submitted", "assignmentID", assignment.ID, "team", assignment.Team.Name, "coach", assignment.Coach.Username)

	p.notify(ctx, assignment.Coach, "team_assignment", "New team assignment",
		fmt.Sprintf("%s asked you to coach %s.", actor.Username, assignment.Team.Name))
	p.publish(ctx, pubsub.EventAssignmentSubmitted, assignment.ID, assignment.Status, actor.ID, "")
	return assignment, nil
}

// DecideAssignment accepts or rejects a pending assignment on behalf of its coach.
func (p *Processor) DecideAssignment(ctx context.Context, actor club.User, id int64, v club.Verdict, remarks string) (club.TeamAssignment, error) {
	assignment, err := p.store.GetAssignment(ctx, id)
	if err != nil {
		return club.TeamAssignment{}, err
	}
	if assignment.Coach.ID != actor.ID {
		return club.TeamAssignment{}, club.Forbidden("Only the assigned coach can accept or reject this assignment")
	}
	status, err := p.transition(club.KindAssignment, assignment.Status, v)
	if err != nil {
		return club.TeamAssignment{}, err
	}
	assignment, err = p.store.DecideAssignment(ctx, id, status, remarks)
	if err != nil {
		return club.TeamAssignment{}, p.storeDecisionErr(club.KindAssignment, err)
	}
	p.decided(club.KindAssignment, status)

	p.notify(ctx, assignment.Manager, "team_assignment", fmt.Sprintf("Team assignment %s", status),
		withRemarks(fmt.Sprintf("%s %s the assignment to %s.", actor.Username, status, assignment.Team.Name), remarks))
	p.announce(ctx, notifier.Decision{Kind: club.KindAssignment, Status: status, Subject: assignment.Team.Name, Actor: actor.Ref(), Remarks: remarks})
	p.publish(ctx, pubsub.EventAssignmentDecided, id, status, actor.ID, remarks)
	return assignment, nil
}

// InvitePlayer sends a coach's link request to the player with the given public id.
func (p *Processor) InvitePlayer(ctx context.Context, actor club.User, in club.Invite) (club.LinkRequest, error) {
	if actor.Role != club.RoleCoach {
		return club.LinkRequest{}, club.Forbidden("Only coaches can invite players")
	}
	player, err := p.store.GetUserByPublicID(ctx, in.PlayerID)
	if err != nil || player.Role != club.RolePlayer {
		return club.LinkRequest{}, club.NotFound("Player %s not found", in.PlayerID)
	}
	link, err := p.store.CreateLinkRequest(ctx, club.CoachToPlayer, player.ID, actor.ID, in.SportID)
	if err != nil {
		return club.LinkRequest{}, err
	}
	p.submittedLink(ctx, actor, link, link.Player,
		fmt.Sprintf("Coach %s invited you to train %s.", actor.Username, link.Sport.Name))
	return link, nil
}

// RequestCoach sends a player's link request to the coach with the given public id.
func (p *Processor) RequestCoach(ctx context.Context, actor club.User, in club.CoachRequest) (club.LinkRequest, error) {
	if actor.Role != club.RolePlayer {
		return club.LinkRequest{}, club.Forbidden("Only players can request a coach")
	}
	coach, err := p.store.GetUserByPublicID(ctx, in.CoachID)
	if err != nil || coach.Role != club.RoleCoach {
		return club.LinkRequest{}, club.NotFound("Coach %s not found", in.CoachID)
	}
	link, err := p.store.CreateLinkRequest(ctx, club.PlayerToCoach, actor.ID, coach.ID, in.SportID)
	if err != nil {
		return club.LinkRequest{}, err
	}
	p.submittedLink(ctx, actor, link, link.Coach,
		fmt.Sprintf("%s asked you to coach them in %s.", actor.Username, link.Sport.Name))
	return link, nil
}

func (p *Processor) submittedLink(ctx context.Context, actor club.User, link club.LinkRequest, recipient club.UserRef, message string) {
	p.metrics.IncWorkflowSubmitted(string(club.KindLink))
	log.Info("Link request submitted", "linkID", link.ID, "direction", link.Direction, "from", actor.Username)
	p.notify(ctx, recipient, "link_request", "New link request", message)
	p.publish(ctx, pubsub.EventLinkSubmitted, link.ID, link.Status, actor.ID, "")
}

// linkRecipient is the party a link request waits on.
func linkRecipient(link club.LinkRequest) (recipient, sender club.UserRef) {
	if link.Direction == club.CoachToPlayer {
		return link.Player, link.Coach
	}
	return link.Coach, link.Player
}

// DecideLink accepts or rejects a pending link request. Only the party that
// received the request may decide it.
func (p *Processor) DecideLink(ctx context.Context, actor club.User, id int64, v club.Verdict) (club.LinkRequest, error) {
	link, err := p.store.GetLinkRequest(ctx, id)
	if err != nil {
		return club.LinkRequest{}, err
	}
	recipient, sender := linkRecipient(link)
	if recipient.ID != actor.ID {
		return club.LinkRequest{}, club.Forbidden("Only the recipient can accept or reject this request")
	}
	status, err := p.transition(club.KindLink, link.Status, v)
	if err != nil {
		return club.LinkRequest{}, err
	}
	link, err = p.store.DecideLinkRequest(ctx, id, status)
	if err != nil {
		return club.LinkRequest{}, p.storeDecisionErr(club.KindLink, err)
	}
	p.decided(club.KindLink, status)

	p.notify(ctx, sender, "link_request", fmt.Sprintf("Link request %s", status),
		fmt.Sprintf("%s %s your link request for %s.", actor.Username, status, link.Sport.Name))
	p.publish(ctx, pubsub.EventLinkDecided, id, status, actor.ID, "")
	return link, nil
}

// RequestPromotion asks the managers to promote a player to coach for a sport.
func (p *Processor) RequestPromotion(ctx context.Context, actor club.User, in club.NewPromotion) (club.PromotionRequest, error) {
	if actor.Role != club.RolePlayer {
		return club.PromotionRequest{}, club.Forbidden("Only players can request a promotion")
	}
	promotion, err := p.store.CreatePromotion(ctx, actor.ID, in)
	if err != nil {
		return club.PromotionRequest{}, err
	}
	p.metrics.IncWorkflowSubmitted(string(club.KindPromotion))
	log.Info("Promotion requested", "promotionID", promotion.ID, "user", actor.Username)

	managers, err := p.store.ListUsersByRole(ctx, club.RoleManager)
	if err != nil {
		log.Error("Failed to list managers for promotion notice", "error", err)
	}
	for _, m := range managers {
		p.notify(ctx, m.Ref(), "promotion", "New promotion request",
			fmt.Sprintf("%s asked to become a %s coach.", actor.Username, promotion.Sport.Name))
	}
	p.publish(ctx, pubsub.EventPromotionSubmitted, promotion.ID, promotion.Status, actor.ID, "")
	return promotion, nil
}

// DecidePromotion approves or rejects a pending promotion. Approval makes the
// requester a coach.
func (p *Processor) DecidePromotion(ctx context.Context, actor club.User, id int64, v club.Verdict, remarks string) (club.PromotionRequest, error) {
	if actor.Role != club.RoleManager && !isAdmin(actor) {
		return club.PromotionRequest{}, club.Forbidden("Only managers can approve or reject promotions")
	}
	promotion, err := p.store.GetPromotion(ctx, id)
	if err != nil {
		return club.PromotionRequest{}, err
	}
	status, err := p.transition(club.KindPromotion, promotion.Status, v)
	if err != nil {
		return club.PromotionRequest{}, err
	}
	promotion, err = p.store.DecidePromotion(ctx, id, actor.ID, status, remarks)
	if err != nil {
		return club.PromotionRequest{}, p.storeDecisionErr(club.KindPromotion, err)
	}
	p.decided(club.KindPromotion, status)

	p.notify(ctx, promotion.User, "promotion", fmt.Sprintf("Promotion %s", status),
		withRemarks(fmt.Sprintf("Your request to coach %s was %s.", promotion.Sport.Name, status), remarks))
	p.announce(ctx, notifier.Decision{
		Kind:    club.KindPromotion,
		Status:  status,
		Subject: fmt.Sprintf("%s (%s coach)", promotion.User.Username, promotion.Sport.Name),
		Actor:   actor.Ref(),
		Remarks: remarks,
	})
	p.publish(ctx, pubsub.EventPromotionDecided, id, status, actor.ID, remarks)
	return promotion, nil
}
