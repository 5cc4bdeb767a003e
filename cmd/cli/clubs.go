package main

import (
	"fmt"
	"strconv"

	"github.com/mauv0809/clubhouse/internal/workflow"
	"github.com/spf13/cobra"
)

var (
	teamForm       workflow.TeamForm
	tournamentForm workflow.TournamentForm
	matchForm      workflow.MatchForm
)

func init() {
	rootCmd.AddCommand(teamsCmd, tournamentsCmd)

	teamsCreateCmd.Flags().StringVar(&teamForm.Name, "name", "", "Team name")
	teamsCreateCmd.Flags().StringVar(&teamForm.SportID, "sport", "", "Sport id")
	teamsCreateCmd.Flags().StringVar(&teamForm.CoachID, "coach", "", "Optional coach user id")
	teamsCmd.AddCommand(teamsCreateCmd, teamsDeleteCmd, teamsAssignCmd, teamsUnassignCmd)

	tournamentsCreateCmd.Flags().StringVar(&tournamentForm.Name, "name", "", "Tournament name")
	tournamentsCreateCmd.Flags().StringVar(&tournamentForm.SportID, "sport", "", "Sport id")
	tournamentsCreateCmd.Flags().StringVar(&tournamentForm.Location, "location", "", "Venue")
	tournamentsCreateCmd.Flags().StringVar(&tournamentForm.Description, "description", "", "Description")
	tournamentsCreateCmd.Flags().StringVar(&tournamentForm.StartDate, "start", "", "Start date, YYYY-MM-DD")
	tournamentsCreateCmd.Flags().StringVar(&tournamentForm.EndDate, "end", "", "End date, YYYY-MM-DD")

	f := tournamentsMatchCmd.Flags()
	f.StringVar(&matchForm.Team1ID, "team1", "", "First team id")
	f.StringVar(&matchForm.Team2ID, "team2", "", "Second team id")
	f.StringVar(&matchForm.MatchNumber, "number", "", "Match number")
	f.StringVar(&matchForm.Date, "date", "", "Match date, YYYY-MM-DD")
	f.StringVar(&matchForm.ScoreTeam1, "score1", "0", "First team score")
	f.StringVar(&matchForm.ScoreTeam2, "score2", "0", "Second team score")
	f.StringVar(&matchForm.Location, "location", "", "Venue")
	f.BoolVar(&matchForm.Completed, "completed", false, "The match has been played")
	f.StringVar(&matchForm.ManOfTheMatchID, "motm", "", "Man of the match player id")
	f.StringVar(&matchForm.Notes, "notes", "", "Notes")

	tournamentsCmd.AddCommand(tournamentsCreateCmd, tournamentsAddTeamCmd, tournamentsShowCmd, tournamentsMatchCmd)
}

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "Manage teams (manager)",
}

var teamsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a team",
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := app.CreateTeam(cmd.Context(), teamForm)
		if err != nil {
			return err
		}
		fmt.Printf("Team %d (%s) created.\n", t.ID, t.Name)
		return nil
	},
}

var teamsDeleteCmd = &cobra.Command{
	Use:   "delete <team-id>",
	Short: "Delete a team",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.DeleteTeam(cmd.Context(), args[0])
	},
}

var teamsAssignCmd = &cobra.Command{
	Use:   "assign <profile-id> <team-id>",
	Short: "Put a player's sport profile on a team",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := app.AssignPlayerToTeam(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		return render(p)
	},
}

var teamsUnassignCmd = &cobra.Command{
	Use:   "unassign <profile-id>",
	Short: "Take a player off their team",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := app.RemovePlayerFromTeam(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return render(p)
	},
}

var tournamentsCmd = &cobra.Command{
	Use:   "tournaments",
	Short: "Tournaments, fixtures and tables",
}

var tournamentsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a tournament (manager)",
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := app.CreateTournament(cmd.Context(), tournamentForm)
		if err != nil {
			return err
		}
		fmt.Printf("Tournament %d (%s) created.\n", t.ID, t.Name)
		return nil
	},
}

var tournamentsAddTeamCmd = &cobra.Command{
	Use:   "add-team <tournament-id> <team-id>",
	Short: "Enter a team into a tournament (manager)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := app.AddTeamToTournament(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("%s now has %d teams.\n", t.Name, len(t.Teams))
		return nil
	},
}

var tournamentsShowCmd = &cobra.Command{
	Use:   "show <tournament-id>",
	Short: "Show matches, points table and leaderboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := app.ToggleTournament(cmd.Context(), args[0]); err != nil {
			return err
		}
		id, _ := strconv.ParseInt(args[0], 10, 64)
		return render(app.Dashboard().State().Details[id])
	},
}

var tournamentsMatchCmd = &cobra.Command{
	Use:   "match <tournament-id>",
	Short: "Record a tournament match (manager)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		matchForm.TournamentID = args[0]
		m, err := app.CreateMatch(cmd.Context(), matchForm)
		if err != nil {
			return err
		}
		fmt.Printf("Match %d recorded: %s %d - %d %s\n", m.ID, m.Team1.Name, m.ScoreTeam1, m.ScoreTeam2, m.Team2.Name)
		return nil
	},
}
