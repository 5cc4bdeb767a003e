package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mauv0809/clubhouse/internal/club"
	"github.com/mauv0809/clubhouse/internal/workflow"
	"github.com/spf13/cobra"
)

// decideFunc is a decision action of workflow.Handlers taking an id and optional remarks.
type decideFunc func(h *workflow.Handlers, ctx context.Context, id, remarks string) (club.DecisionResponse, error)

// withoutRemarks adapts a decision that takes no remarks.
func withoutRemarks(fn func(h *workflow.Handlers, ctx context.Context, id string) (club.DecisionResponse, error)) decideFunc {
	return func(h *workflow.Handlers, ctx context.Context, id, _ string) (club.DecisionResponse, error) {
		return fn(h, ctx, id)
	}
}

// decisionCmd builds an approve/accept/reject subcommand.
func decisionCmd(use, short string, remarksFlag bool, decide decideFunc) *cobra.Command {
	var remarks string
	cmd := &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := decide(app, cmd.Context(), args[0], remarks)
			if err != nil {
				return err
			}
			fmt.Println(resp.Detail)
			if resp.TeamID != nil {
				fmt.Printf("Team %d created.\n", *resp.TeamID)
			}
			return nil
		},
	}
	if remarksFlag {
		cmd.Flags().StringVar(&remarks, "remarks", "", "Optional remarks for the decision")
	}
	return cmd
}

var (
	sessionForm   workflow.SessionForm
	proposalForm  workflow.ProposalForm
	templateOut   string
	confirmEnd    bool
	assignCoachID string
	assignTeamID  string
	linkSportID   string
	promoSportID  string
	promoRemarks  string
)

func init() {
	rootCmd.AddCommand(sessionsCmd, proposalsCmd, assignmentsCmd, linksCmd, promotionsCmd)

	sessionsCreateCmd.Flags().StringVar(&sessionForm.SportID, "sport", "", "Sport id")
	sessionsCreateCmd.Flags().StringVar(&sessionForm.Title, "title", "", "Session title")
	sessionsCreateCmd.Flags().StringVar(&sessionForm.Notes, "notes", "", "Session notes")
	sessionsTemplateCmd.Flags().StringVar(&templateOut, "out", "", "Write the template to this file instead of stdout")
	sessionsEndCmd.Flags().BoolVar(&confirmEnd, "yes", false, "Confirm ending the session")
	sessionsCmd.AddCommand(sessionsCreateCmd, sessionsTemplateCmd, sessionsUploadCmd, sessionsEndCmd)

	proposalsCreateCmd.Flags().StringVar(&proposalForm.ManagerID, "manager", "", "Manager user id")
	proposalsCreateCmd.Flags().StringVar(&proposalForm.SportID, "sport", "", "Sport id")
	proposalsCreateCmd.Flags().StringVar(&proposalForm.TeamName, "name", "", "Proposed team name")
	proposalsCreateCmd.Flags().StringSliceVar(&proposalForm.PlayerIDs, "player", nil, "Player user id, repeatable")
	proposalsCmd.AddCommand(proposalsCreateCmd,
		decisionCmd("approve", "Approve a team proposal", true, (*workflow.Handlers).ApproveProposal),
		decisionCmd("reject", "Reject a team proposal", true, (*workflow.Handlers).RejectProposal),
	)

	assignmentsCreateCmd.Flags().StringVar(&assignCoachID, "coach", "", "Coach user id")
	assignmentsCreateCmd.Flags().StringVar(&assignTeamID, "team", "", "Team id")
	assignmentsCmd.AddCommand(assignmentsCreateCmd,
		decisionCmd("accept", "Accept a team assignment", false, withoutRemarks((*workflow.Handlers).AcceptAssignment)),
		decisionCmd("reject", "Reject a team assignment", true, (*workflow.Handlers).RejectAssignment),
	)

	linksInviteCmd.Flags().StringVar(&linkSportID, "sport", "", "Sport id")
	linksRequestCmd.Flags().StringVar(&linkSportID, "sport", "", "Sport id")
	linksCmd.AddCommand(linksInviteCmd, linksRequestCmd,
		decisionCmd("accept", "Accept a link request", false, withoutRemarks((*workflow.Handlers).AcceptLink)),
		decisionCmd("reject", "Reject a link request", false, withoutRemarks((*workflow.Handlers).RejectLink)),
	)

	promotionsRequestCmd.Flags().StringVar(&promoSportID, "sport", "", "Sport to coach")
	promotionsRequestCmd.Flags().StringVar(&promoRemarks, "remarks", "", "Why you should be promoted")
	promotionsCmd.AddCommand(promotionsRequestCmd,
		decisionCmd("approve", "Approve a promotion request", true, (*workflow.Handlers).ApprovePromotion),
		decisionCmd("reject", "Reject a promotion request", true, (*workflow.Handlers).RejectPromotion),
	)
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Run practice sessions (coach)",
}

var sessionsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Start a practice session",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := app.CreateSession(cmd.Context(), sessionForm)
		if err != nil {
			return err
		}
		fmt.Printf("Session %d created.\n", s.ID)
		return nil
	},
}

var sessionsTemplateCmd = &cobra.Command{
	Use:   "template <session-id>",
	Short: "Download the attendance CSV template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := app.DownloadTemplate(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if templateOut == "" {
			_, err = os.Stdout.Write(data)
			return err
		}
		if err := os.WriteFile(templateOut, data, 0o644); err != nil {
			return err
		}
		fmt.Printf("Template written to %s\n", templateOut)
		return nil
	},
}

var sessionsUploadCmd = &cobra.Command{
	Use:   "upload <session-id> <file.csv>",
	Short: "Upload an attendance CSV",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}
		res, err := app.UploadAttendance(cmd.Context(), args[0], filepath.Base(args[1]), data)
		if err != nil {
			return err
		}
		fmt.Printf("%d rows updated.\n", res.Updated)
		for _, e := range res.Errors {
			fmt.Printf("  row %d (%s): %s\n", e.Row, e.PlayerID, e.Error)
		}
		return nil
	},
}

var sessionsEndCmd = &cobra.Command{
	Use:   "end <session-id>",
	Short: "End a session and print its summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		summary, err := app.EndSession(cmd.Context(), args[0], confirmEnd)
		if err != nil {
			return err
		}
		return render(summary)
	},
}

var proposalsCmd = &cobra.Command{
	Use:   "proposals",
	Short: "Team proposals",
}

var proposalsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Propose a team to a manager (coach)",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := app.CreateProposal(cmd.Context(), proposalForm)
		if err != nil {
			return err
		}
		fmt.Printf("Proposal %d for %s sent to %s.\n", p.ID, p.TeamName, p.Manager.Username)
		return nil
	},
}

var assignmentsCmd = &cobra.Command{
	Use:   "assignments",
	Short: "Team assignments",
}

var assignmentsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Ask a coach to take over a team (manager)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.CreateAssignment(cmd.Context(), assignCoachID, assignTeamID)
		if err != nil {
			return err
		}
		fmt.Printf("Assignment %d of %s sent to %s.\n", a.ID, a.Team.Name, a.Coach.Username)
		return nil
	},
}

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "Coach-player link requests",
}

var linksInviteCmd = &cobra.Command{
	Use:   "invite <player-public-id>",
	Short: "Invite a player to train with you (coach)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := app.InvitePlayer(cmd.Context(), args[0], linkSportID)
		if err != nil {
			return err
		}
		fmt.Printf("Invitation %d sent to %s.\n", l.ID, l.Player.Username)
		return nil
	},
}

var linksRequestCmd = &cobra.Command{
	Use:   "request <coach-public-id>",
	Short: "Ask a coach to train you (player)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := app.RequestCoach(cmd.Context(), args[0], linkSportID)
		if err != nil {
			return err
		}
		fmt.Printf("Request %d sent to %s.\n", l.ID, l.Coach.Username)
		return nil
	},
}

var promotionsCmd = &cobra.Command{
	Use:   "promotions",
	Short: "Player to coach promotion requests",
}

var promotionsRequestCmd = &cobra.Command{
	Use:   "request",
	Short: "Ask to be promoted to coach (player)",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := app.RequestPromotion(cmd.Context(), promoSportID, promoRemarks)
		if err != nil {
			return err
		}
		fmt.Printf("Promotion request %d submitted.\n", p.ID)
		return nil
	},
}
