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

var searchCmd = &cobra.Command{
	Use:   "search <username>",
	Short: "Search a public account's recent posts",
	Long: `Fetch a public account's profile and recent media list without the TUI.

Credentials come from the environment:
  IG_ACCESS_TOKEN  Access token from a prior login
  IG_BUSINESS_ID   Instagram business account id`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runSearch(ctx, os.Stdout, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

// runSearch executes the search and returns exit code
func runSearch(ctx context.Context, w io.Writer, username string) int {
	session, err := envSession()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	c := backend.New(GetAPIURL())
	result, err := c.SearchAccount(ctx, username, session)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if jsonOutput {
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintln(w, formatSearchHuman(result))
	}

	return 0
}

// formatSearchHuman formats the search result for human readability
func formatSearchHuman(result *backend.AccountSearchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "@%s", result.User.Username)
	if result.User.Name != "" {
		fmt.Fprintf(&b, " (%s)", result.User.Name)
	}
	fmt.Fprintf(&b, "  %d followers, %d posts\n", result.User.FollowersCount, result.User.MediaCount)

	for _, media := range result.Media {
		date := media.Timestamp
		if len(date) > 10 {
			date = date[:10]
		}
		caption := strings.ReplaceAll(media.Caption, "\n", " ")
		if len(caption) > 60 {
			caption = caption[:57] + "..."
		}
		fmt.Fprintf(&b, "%s  %-60s %s\n", date, caption, media.Permalink)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
