package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"iglens/backend"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics <post-url>",
	Short: "Fetch engagement metrics for a post",
	Long: `Fetch computed engagement metrics for a single post without the TUI.

Credentials come from the environment:
  IG_ACCESS_TOKEN  Access token from a prior login
  IG_BUSINESS_ID   Instagram business account id`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runMetrics(ctx, os.Stdout, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(metricsCmd)
}

// envSession builds a session from environment credentials.
func envSession() (backend.Session, error) {
	s := backend.Session{
		AccessToken: os.Getenv("IG_ACCESS_TOKEN"),
		BusinessID:  os.Getenv("IG_BUSINESS_ID"),
	}
	if !s.Valid() {
		return s, fmt.Errorf("IG_ACCESS_TOKEN and IG_BUSINESS_ID must be set")
	}
	return s, nil
}

// runMetrics executes the fetch and returns exit code
func runMetrics(ctx context.Context, w io.Writer, postURL string) int {
	session, err := envSession()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	c := backend.New(GetAPIURL())
	result, err := c.PostMetrics(ctx, postURL, session)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if jsonOutput {
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintln(w, formatMetricsHuman(postURL, result))
	}

	return 0
}

// formatMetricsHuman formats the metric list for human readability
func formatMetricsHuman(postURL string, result *backend.PostMetrics) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Post: %s\n", postURL)
	for _, rec := range result.Data {
		value := float64(0)
		if len(rec.Values) > 0 {
			value = rec.Values[0].Value
		}
		fmt.Fprintf(&b, "%-40s %.0f\n", rec.Name, value)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
