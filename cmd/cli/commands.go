package main

import (
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/mauv0809/clubhouse/internal/workflow"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd, metricsCmd, loginCmd, signupCmd, logoutCmd, dashboardCmd, usersCmd, notificationsCmd)

	loginCmd.Flags().StringVar(&loginForm.Username, "username", "", "Account username")
	loginCmd.Flags().StringVar(&loginForm.Password, "password", "", "Account password")
	loginCmd.Flags().StringVar(&loginForm.Role, "role", "player", "Role to log in as: player, coach, manager or admin")

	signupCmd.Flags().StringVar(&signupForm.Username, "username", "", "Account username")
	signupCmd.Flags().StringVar(&signupForm.Email, "email", "", "Email address")
	signupCmd.Flags().StringVar(&signupForm.Password, "password", "", "Password, at least 8 characters")
	signupCmd.Flags().StringVar(&signupForm.Role, "role", "player", "Role: player, coach or manager")
	signupCmd.Flags().StringVar(&signupForm.SportID, "sport", "", "Sport id, required for coaches")

	usersListCmd.Flags().StringVar(&usersRole, "role", "", "Role to list (the server lists coaches by default)")
	usersCmd.AddCommand(usersListCmd, usersVerifyCmd)

	notificationsCmd.AddCommand(notificationsReadCmd)
}

var (
	loginForm  workflow.LoginForm
	signupForm workflow.SignupForm
	usersRole  string
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and remember the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := app.Login(cmd.Context(), loginForm)
		if err != nil {
			return err
		}
		fmt.Printf("Logged in as %s (%s)\n", s.Username, s.Role)
		if s.PublicID != "" {
			fmt.Printf("Your public id is %s\n", s.PublicID)
		}
		return nil
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		msg, err := app.Signup(cmd.Context(), signupForm)
		if err != nil {
			return err
		}
		fmt.Println(msg)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and forget the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	},
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the dashboard of the logged in role",
	RunE: func(cmd *cobra.Command, args []string) error {
		vs, err := app.LoadDashboard(cmd.Context())
		if err != nil {
			return err
		}
		unavailable := make([]string, 0, len(vs.Failed))
		for res := range vs.Failed {
			unavailable = append(unavailable, string(res))
		}
		sort.Strings(unavailable)

		summary := map[string]any{
			"role":                 vs.Role,
			"unread_notifications": vs.UnreadCount(),
			"unavailable":          unavailable,
			"sessions":             vs.Sessions,
			"teams":                vs.Teams,
			"proposals":            vs.Proposals,
			"assignments":          vs.Assignments,
			"link_requests":        vs.LinkRequests,
			"promotions":           vs.Promotions,
			"tournaments":          vs.RelevantTournaments,
		}
		if vs.CoachDashboard != nil {
			summary["coach"] = vs.CoachDashboard
		}
		if vs.PlayerDashboard != nil {
			summary["player"] = vs.PlayerDashboard
		}
		return render(summary)
	},
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage accounts (staff only)",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts by role",
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := app.ListUsers(cmd.Context(), usersRole)
		if err != nil {
			return err
		}
		return render(users)
	},
}

var usersVerifyCmd = &cobra.Command{
	Use:   "verify <user-id>",
	Short: "Verify a coach or manager account (admin only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := app.VerifyUser(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s can now log in as %s.\n", u.Username, u.Role)
		return nil
	},
}

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Work with notifications",
}

var notificationsReadCmd = &cobra.Command{
	Use:   "read <notification-id>",
	Short: "Mark a notification as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.MarkRead(cmd.Context(), args[0])
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
