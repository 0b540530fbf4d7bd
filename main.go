// ABOUTME: Entry point for the delcarajo storefront CLI
// ABOUTME: Terminal client for browsing the catalog, managing the session and orders

package main

import (
	"fmt"
	"os"

	"github.com/delcarajo/storefront/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
