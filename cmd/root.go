// ABOUTME: Root command for the delcarajo CLI
// ABOUTME: Handles global flags and the shared exit code and output conventions

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/delcarajo/storefront/internal/client"
	"github.com/delcarajo/storefront/internal/config"
	"github.com/delcarajo/storefront/internal/validation"
	"github.com/spf13/cobra"
)

var (
	apiURL     string
	jsonOutput bool
)

// Exit codes shared by every command
const (
	exitOK      = 0
	exitInvalid = 1 // rejected locally, nothing was sent
	exitFailed  = 2 // backend, network or session failure
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "delcarajo",
	Short: "Terminal client for the Del Carajo storefront",
	Long: `delcarajo talks to the Del Carajo storefront API from the terminal.

Browse the catalog with prices in bolívares, manage your session, cart,
favorites, addresses and orders, and run back-office tasks.

Environment Variables:
  DELCARAJO_API_URL     Backend API URL (default: http://localhost:3001/api)
  DELCARAJO_APP_URL     Web storefront URL (default: http://localhost:3000)
  DELCARAJO_ENV         development or production (default: production)
  DELCARAJO_CONFIG_DIR  Session and log directory (default: ~/.config/delcarajo)`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides DELCARAJO_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// GetAPIURL returns the API URL from flag or configuration (in priority order)
func GetAPIURL(cfg *config.Config) string {
	if apiURL != "" {
		return apiURL
	}
	return cfg.APIURL
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// runWithSignals runs fn with a context cancelled on SIGINT/SIGTERM and exits
// with its code
func runWithSignals(fn func(ctx context.Context, w io.Writer) int) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := fn(ctx, os.Stdout)
	cancel()
	if exitCode != exitOK {
		os.Exit(exitCode)
	}
}

// fail prints err and returns the matching exit code
func fail(w io.Writer, err error) int {
	fmt.Fprintf(w, "Error: %s\n", client.ErrorMessage(err))
	if errors.Is(err, validation.ErrInvalid) {
		return exitInvalid
	}
	return exitFailed
}

// emit prints v as JSON or the human rendering
func emit(w io.Writer, v any, human func() string) {
	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(v))
		return
	}
	fmt.Fprintln(w, human())
}

func formatJSON(v any) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data)
}
