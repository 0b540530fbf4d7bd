// ABOUTME: Catalog commands: rate, price, home, catalog and product
// ABOUTME: Prices are shown in EUR and converted to bolívares with the BCV rate

package cmd

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/delcarajo/storefront/internal/api"
	"github.com/delcarajo/storefront/internal/currency"
	"github.com/delcarajo/storefront/internal/models"
	"github.com/delcarajo/storefront/internal/validation"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	catalogSearch   string
	catalogCategory string
	catalogPage     int
	catalogLimit    int
	catalogFeatured bool
)

var rateCmd = &cobra.Command{
	Use:   "rate",
	Short: "Show the official BCV exchange rate",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(runRate)
	},
}

var priceCmd = &cobra.Command{
	Use:   "price <eur>",
	Short: "Convert a EUR amount to bolívares",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context, w io.Writer) int {
			return runPrice(ctx, w, args[0])
		})
	},
}

var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "Show landing sections, featured products and categories",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(runHome)
	},
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List products with prices in EUR and bolívares",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(runCatalog)
	},
}

var productCmd = &cobra.Command{
	Use:   "product <slug>",
	Short: "Show a product and its variants",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context, w io.Writer) int {
			return runProduct(ctx, w, args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(rateCmd, priceCmd, homeCmd, catalogCmd, productCmd)
	catalogCmd.Flags().StringVar(&catalogSearch, "search", "", "Search text")
	catalogCmd.Flags().StringVar(&catalogCategory, "category", "", "Category slug")
	catalogCmd.Flags().IntVar(&catalogPage, "page", 1, "Page number")
	catalogCmd.Flags().IntVar(&catalogLimit, "limit", 20, "Products per page")
	catalogCmd.Flags().BoolVar(&catalogFeatured, "featured", false, "Only featured products")
}

// runRate fetches the rate and returns exit code
func runRate(ctx context.Context, w io.Writer) int {
	rt, err := newRuntime(false)
	if err != nil {
		return fail(w, err)
	}
	defer rt.Close()

	snap, err := rt.rates.Refresh(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %s\n", currency.FetchErrorText)
		return exitFailed
	}
	emit(w, snap, func() string { return formatRateHuman(snap) })
	return exitOK
}

// runPrice converts amount and returns exit code
func runPrice(ctx context.Context, w io.Writer, amount string) int {
	eur, err := parseAmount(amount)
	if err != nil {
		return fail(w, err)
	}

	rt, err := newRuntime(false)
	if err != nil {
		return fail(w, err)
	}
	defer rt.Close()

	if _, err := rt.rates.Refresh(ctx); err != nil {
		rt.logger.Warn("rate refresh failed", "error", err)
	}
	conv := rt.rates.Convert(eur)
	if conv == nil {
		fmt.Fprintf(w, "Error: %s\n", currency.FetchErrorText)
		return exitFailed
	}
	emit(w, conv, func() string {
		return fmt.Sprintf("€ %s = Bs. %s (tasa %s)",
			currency.Format(eur), conv.Formatted, currency.Format(conv.Rate))
	})
	return exitOK
}

// runHome loads the landing page and returns exit code
func runHome(ctx context.Context, w io.Writer) int {
	rt, err := newRuntime(false)
	if err != nil {
		return fail(w, err)
	}
	defer rt.Close()

	home, err := rt.api.LoadHome(ctx)
	if err != nil {
		return fail(w, err)
	}
	rt.refreshRateQuietly(ctx)
	emit(w, home, func() string { return formatHomeHuman(home, rt.rates) })
	return exitOK
}

// runCatalog lists products and returns exit code
func runCatalog(ctx context.Context, w io.Writer) int {
	rt, err := newRuntime(false)
	if err != nil {
		return fail(w, err)
	}
	defer rt.Close()

	filters := api.ProductFilters{
		Search:       catalogSearch,
		CategorySlug: catalogCategory,
		Page:         catalogPage,
		Limit:        catalogLimit,
	}
	if catalogFeatured {
		featured := true
		filters.IsFeatured = &featured
	}

	page, err := rt.api.Products.List(ctx, filters)
	if err != nil {
		return fail(w, err)
	}
	rt.refreshRateQuietly(ctx)
	emit(w, page, func() string { return formatCatalogHuman(page, rt.rates) })
	return exitOK
}

// runProduct shows one product and returns exit code
func runProduct(ctx context.Context, w io.Writer, slug string) int {
	rt, err := newRuntime(false)
	if err != nil {
		return fail(w, err)
	}
	defer rt.Close()

	p, err := rt.api.Products.BySlug(ctx, slug)
	if err != nil {
		return fail(w, err)
	}
	rt.refreshRateQuietly(ctx)
	emit(w, p, func() string { return formatProductHuman(p, rt.rates) })
	return exitOK
}

// refreshRateQuietly fetches the rate once; prices fall back to the loading text
func (r *runtime) refreshRateQuietly(ctx context.Context) {
	if _, err := r.rates.Refresh(ctx); err != nil {
		r.logger.Warn("rate refresh failed", "error", err)
	}
}

// parseAmount accepts a non-negative EUR amount with a dot or comma decimal separator
func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, validation.NewError("amount", fmt.Sprintf("monto inválido: %q", s))
	}
	return v, nil
}

func formatRateHuman(snap currency.Snapshot) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Rate:       Bs. %s per EUR\n", currency.Format(snap.Rate))
	fmt.Fprintf(&sb, "Source:     %s\n", snap.Source)
	fmt.Fprintf(&sb, "Published:  %s\n", snap.LastUpdate)
	fmt.Fprintf(&sb, "Fetched:    %s", humanize.Time(snap.FetchedAt))
	return sb.String()
}

func priceColumns(p *models.Product, rates *currency.Cache) (string, string) {
	price, ok := p.MinPrice()
	if !ok {
		return "-", "-"
	}
	return "€ " + currency.Format(price), rates.Display(price)
}

func formatCatalogHuman(page *models.Paginated[models.Product], rates *currency.Cache) string {
	if len(page.Data) == 0 {
		return "No products found."
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Product", "Slug", "Price €", "Price Bs.", "Stock")
	for i := range page.Data {
		p := &page.Data[i]
		eur, local := priceColumns(p, rates)
		t.Row(p.Name, p.Slug, eur, local, strconv.Itoa(p.TotalStock()))
	}

	return fmt.Sprintf("%s\nPage %d of %d (%d products)",
		t.String(), page.Meta.Page, page.Meta.TotalPages, page.Meta.Total)
}

func formatProductHuman(p *models.Product, rates *currency.Cache) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", p.Name)
	if p.Category != nil {
		fmt.Fprintf(&sb, "Category:   %s\n", p.Category.Name)
	}
	if p.Description != "" {
		fmt.Fprintf(&sb, "%s\n", p.Description)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("SKU", "Size", "Color", "Price €", "Price Bs.", "Stock")
	for _, v := range p.Variants {
		if !v.IsActive {
			continue
		}
		t.Row(v.SKU, v.Size, v.Color, "€ "+currency.Format(v.Price), rates.Display(v.Price), strconv.Itoa(v.Stock))
	}
	sb.WriteString(t.String())
	return sb.String()
}

func formatHomeHuman(home *models.Home, rates *currency.Cache) string {
	var sb strings.Builder
	if len(home.Sections) > 0 {
		sb.WriteString("Sections:\n")
		for _, s := range home.Sections {
			if s.IsActive {
				fmt.Fprintf(&sb, "  - %s\n", s.Title)
			}
		}
	}
	if len(home.Featured) > 0 {
		sb.WriteString("Featured:\n")
		for i := range home.Featured {
			p := &home.Featured[i]
			eur, local := priceColumns(p, rates)
			fmt.Fprintf(&sb, "  - %s  %s  %s\n", p.Name, eur, local)
		}
	}
	if len(home.Categories) > 0 {
		names := make([]string, 0, len(home.Categories))
		for _, c := range home.Categories {
			names = append(names, c.Name)
		}
		fmt.Fprintf(&sb, "Categories: %s", strings.Join(names, ", "))
	}
	return strings.TrimRight(sb.String(), "\n")
}
