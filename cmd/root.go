package cmd

import (
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"iglens/backend"
	"iglens/tui"
)

var (
	apiURL     string
	authCode   string
	jsonOutput bool
)

const defaultRedirectURL = "http://localhost:3000/"

// rootCmd launches the interactive TUI.
var rootCmd = &cobra.Command{
	Use:   "iglens",
	Short: "Terminal client for Instagram post insights",
	Long: `iglens is a terminal client for an Instagram insights backend.

Log in with your Instagram business account, search a public account's
recent posts, and fetch engagement metrics for a single post.

Environment Variables:
  IGLENS_API_URL       Backend API URL (default: http://localhost:8080)
  IGLENS_REDIRECT_URL  Registered OAuth callback URL (default: http://localhost:3000/)
  IG_AUTH_CODE         Authorization code, when the redirect was handled by hand`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := backend.New(GetAPIURL())

		code := authCode
		if code == "" {
			code = os.Getenv("IG_AUTH_CODE")
		}

		model := tui.NewModel(client, tui.Config{
			AuthCode:    code,
			UserDataDir: userDataDir(),
			RedirectURL: GetRedirectURL(),
		})

		p := tea.NewProgram(model, tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(loadDotenv)
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides IGLENS_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.Flags().StringVar(&authCode, "code", "", "Authorization code (overrides IG_AUTH_CODE)")
}

// loadDotenv loads a .env file when one exists alongside the binary.
func loadDotenv() {
	if _, err := os.Stat(".env"); err == nil {
		godotenv.Load()
	}
}

// GetAPIURL returns the API URL from flag, env, or default (in priority order)
func GetAPIURL() string {
	if apiURL != "" {
		return apiURL
	}
	if envURL := os.Getenv("IGLENS_API_URL"); envURL != "" {
		return envURL
	}
	return backend.DefaultBaseURL
}

// GetRedirectURL returns the OAuth callback URL the login browser is
// watched for.
func GetRedirectURL() string {
	if envURL := os.Getenv("IGLENS_REDIRECT_URL"); envURL != "" {
		return envURL
	}
	return defaultRedirectURL
}

// userDataDir is where the login browser keeps provider cookies.
func userDataDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".iglens", "chrome-data")
}
