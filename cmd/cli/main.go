package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/clubhouse/internal/apiclient"
	"github.com/mauv0809/clubhouse/internal/config"
	"github.com/mauv0809/clubhouse/internal/credentials"
	"github.com/mauv0809/clubhouse/internal/service"
	"github.com/mauv0809/clubhouse/internal/workflow"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	host    string
	output  string
	verbose bool

	// app is built before any subcommand runs.
	app *workflow.Handlers
)

var rootCmd = &cobra.Command{
	Use:   "clubhouse",
	Short: "A CLI for the clubhouse sports club backend",
	Long: `A command-line client for players, coaches, managers and admins of
the clubhouse backend. Log in once; the session is kept between runs.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&host, "host", "", "The backend address (defaults to CLUBHOUSE_API_URL)")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "yaml", "Output format: yaml or json")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every request")
}

func setup(cmd *cobra.Command, args []string) error {
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
	cfg := config.LoadClient()
	if host == "" {
		host = cfg.APIURL
	}
	creds, err := credentials.New(credentials.FileStore{Path: cfg.SessionFile})
	if err != nil {
		return err
	}
	client := apiclient.New(host,
		apiclient.WithCredentials(creds),
		apiclient.WithScheme(cfg.AuthScheme),
		apiclient.WithRateLimit(cfg.RateLimit),
		apiclient.WithTimeout(cfg.Timeout),
	)
	app = workflow.New(service.New(client), creds)
	return nil
}

// render prints v in the selected output format.
func render(v any) error {
	switch output {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	}
	return fmt.Errorf("unknown output format %q", output)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
