// ABOUTME: Browse command launching the interactive storefront
// ABOUTME: Logs go to the rotated file in the config directory while the TUI owns the screen

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/delcarajo/storefront/internal/tui"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the catalog interactively",
	Long:  `Open the interactive storefront. Prices are converted to bolívares with the BCV rate, refreshed every hour.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(runBrowse)
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

// runBrowse runs the TUI and returns exit code
func runBrowse(ctx context.Context, w io.Writer) int {
	rt, err := newRuntime(true)
	if err != nil {
		return fail(w, err)
	}
	defer rt.Close()

	err = tui.Run(ctx, tui.Deps{
		Session: rt.session,
		Catalog: rt.api.Products,
		Rates:   rt.rates,
		Logger:  rt.logger,
	})
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitFailed
	}
	return exitOK
}
