// ABOUTME: Root bubbletea model for the storefront browser
// ABOUTME: Gates on the nickname, lists the catalog and prices it through the rate cache

package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/delcarajo/storefront/internal/api"
	"github.com/delcarajo/storefront/internal/client"
	"github.com/delcarajo/storefront/internal/currency"
	"github.com/delcarajo/storefront/internal/models"
	"github.com/delcarajo/storefront/internal/session"
	"github.com/delcarajo/storefront/internal/tui/nickname"
	"github.com/delcarajo/storefront/internal/tui/styles"
	"github.com/dustin/go-humanize"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLoading Screen = iota
	ScreenNickname
	ScreenCatalog
	ScreenProduct
)

// Layout constants
const (
	minTerminalWidth = 80
	catalogPageSize  = 50
	frameRows        = 4 // header, footer and their spacing
)

// RatePlaceholder is shown in the header until a rate is known
const RatePlaceholder = "..."

// Session is the part of the session manager the browser drives
type Session interface {
	CheckAuth(ctx context.Context) session.State
	SetNickname(ctx context.Context, nickname string) (*models.User, error)
}

// Catalog lists products
type Catalog interface {
	List(ctx context.Context, filters api.ProductFilters) (*models.Paginated[models.Product], error)
}

// Deps are the collaborators of the browser
type Deps struct {
	Session Session
	Catalog Catalog
	Rates   *currency.Cache
	Logger  *slog.Logger
}

type authCheckedMsg struct {
	state session.State
}

type nicknameSavedMsg struct {
	user *models.User
	err  error
}

type catalogLoadedMsg struct {
	page *models.Paginated[models.Product]
	err  error
}

// RateMsg delivers a new rate snapshot to the browser
type RateMsg struct {
	Snapshot currency.Snapshot
}

// App is the root model for the TUI
type App struct {
	deps   Deps
	logger *slog.Logger
	screen Screen
	width  int
	height int
	err    error

	user     *models.User
	products []models.Product
	total    int
	selected *models.Product
	rate     currency.Snapshot

	spinner  spinner.Model
	table    table.Model
	nickForm *nickname.Form
}

// New creates the browser in its loading state
func New(deps Deps) *App {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := spinner.New(spinner.WithSpinner(spinner.Dot))
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	t := table.New(
		table.WithColumns(catalogColumns()),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Muted).
		BorderBottom(true).
		Bold(true)
	ts.Selected = ts.Selected.
		Foreground(lipgloss.Color("#000000")).
		Background(styles.Primary)
	t.SetStyles(ts)

	return &App{
		deps:    deps,
		logger:  logger.With("component", "tui"),
		screen:  ScreenLoading,
		spinner: s,
		table:   t,
		rate:    deps.Rates.Snapshot(),
	}
}

func catalogColumns() []table.Column {
	return []table.Column{
		{Title: "Producto", Width: 32},
		{Title: "Categoría", Width: 16},
		{Title: "Precio €", Width: 12},
		{Title: "Precio Bs.", Width: 18},
		{Title: "Stock", Width: 6},
	}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.checkAuth())
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.table.SetHeight(a.tableHeight())
		if a.nickForm != nil {
			a.nickForm.SetWidth(msg.Width)
			return a.updateNickname(msg)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		switch a.screen {
		case ScreenNickname:
			return a.updateNickname(msg)
		case ScreenCatalog:
			return a.updateCatalog(msg)
		case ScreenProduct:
			return a.updateProduct(msg)
		default:
			if msg.String() == "q" {
				return a, tea.Quit
			}
		}
		return a, nil

	case spinner.TickMsg:
		if a.screen != ScreenLoading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case authCheckedMsg:
		a.user = msg.state.User
		if msg.state.NeedsNickname {
			a.screen = ScreenNickname
			a.nickForm = nickname.New()
			a.nickForm.SetWidth(a.width)
			return a, a.nickForm.Init()
		}
		return a, a.loadCatalog()

	case nickname.SubmittedMsg:
		return a, a.saveNickname(msg.Nickname)

	case nickname.CancelledMsg:
		return a, tea.Quit

	case nicknameSavedMsg:
		if msg.err != nil {
			a.logger.Warn("nickname rejected", "error", msg.err)
			return a, a.nickForm.SetError(client.ErrorMessage(msg.err))
		}
		a.user = msg.user
		a.nickForm = nil
		a.screen = ScreenLoading
		return a, tea.Batch(a.spinner.Tick, a.loadCatalog())

	case catalogLoadedMsg:
		a.screen = ScreenCatalog
		if msg.err != nil {
			a.err = msg.err
			a.logger.Error("catalog load failed", "error", msg.err)
			return a, nil
		}
		a.err = nil
		a.products = msg.page.Data
		a.total = msg.page.Meta.Total
		a.table.SetRows(a.catalogRows())
		return a, nil

	case RateMsg:
		a.rate = msg.Snapshot
		a.table.SetRows(a.catalogRows())
		return a, nil
	}

	if a.screen == ScreenNickname {
		return a.updateNickname(msg)
	}
	return a, nil
}

func (a *App) updateNickname(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.nickForm == nil {
		return a, nil
	}
	_, cmd := a.nickForm.Update(msg)
	return a, cmd
}

func (a *App) updateCatalog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "r":
		return a, a.refreshRate()
	case "enter":
		if idx := a.table.Cursor(); idx >= 0 && idx < len(a.products) {
			a.selected = &a.products[idx]
			a.screen = ScreenProduct
		}
		return a, nil
	}
	var cmd tea.Cmd
	a.table, cmd = a.table.Update(msg)
	return a, cmd
}

func (a *App) updateProduct(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "b", "esc":
		a.selected = nil
		a.screen = ScreenCatalog
	case "r":
		return a, a.refreshRate()
	}
	return a, nil
}

func (a *App) catalogRows() []table.Row {
	rows := make([]table.Row, 0, len(a.products))
	for i := range a.products {
		p := &a.products[i]
		category := ""
		if p.Category != nil {
			category = p.Category.Name
		}
		eur, local := "-", "-"
		if price, ok := p.MinPrice(); ok {
			eur = "€ " + currency.Format(price)
			local = a.deps.Rates.Display(price)
		}
		rows = append(rows, table.Row{p.Name, category, eur, local, fmt.Sprint(p.TotalStock())})
	}
	return rows
}

// View implements tea.Model
func (a *App) View() string {
	var content string
	switch a.screen {
	case ScreenLoading:
		content = fmt.Sprintf("\n  %s Cargando catálogo...\n", a.spinner.View())
	case ScreenNickname:
		content = a.nickForm.View()
	case ScreenCatalog:
		content = a.catalogView()
	case ScreenProduct:
		content = a.productView()
	}
	return a.wrapWithFrame(content)
}

func (a *App) catalogView() string {
	if a.err != nil {
		return styles.Error.Render("Error: "+client.ErrorMessage(a.err)) + "\n"
	}
	if len(a.products) == 0 {
		return styles.Subtitle.Render("No hay productos disponibles")
	}
	title := styles.Title.Render(fmt.Sprintf("Catálogo (%d productos)", a.total))
	return title + "\n" + a.table.View()
}

func (a *App) productView() string {
	p := a.selected
	if p == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(p.Name))
	sb.WriteString("\n")
	if p.Description != "" {
		sb.WriteString(styles.Subtitle.Render(p.Description))
		sb.WriteString("\n")
	}
	for _, v := range p.Variants {
		if !v.IsActive {
			continue
		}
		fmt.Fprintf(&sb, "  %-6s %-12s € %-10s %s  (stock %d)\n",
			v.Size, v.Color, currency.Format(v.Price),
			styles.LocalPrice.Render(a.deps.Rates.Display(v.Price)), v.Stock)
	}
	return styles.Panel.Render(sb.String())
}

// RateLabel is the header text for the current rate
func (a *App) RateLabel() string {
	if !a.rate.HasRate {
		return "BCV " + RatePlaceholder
	}
	return "BCV Bs. " + currency.Format(a.rate.Rate) + " / €"
}

// renderHeader creates the header bar with branding, user and rate
func (a *App) renderHeader() string {
	width := max(a.width, minTerminalWidth)

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := " " + titleStyle.Render("Del Carajo")
	if name := a.user.DisplayName(); name != "" {
		leftText += " " + contextStyle.Render(name)
	}
	rightText := contextStyle.Render(a.RateLabel()) + " "

	fill := width - 4 - lipgloss.Width(leftText) - lipgloss.Width(rightText)
	if fill < 0 {
		fill = 0
	}
	return borderStyle.Render("╭─" + leftText + strings.Repeat("─", fill) + rightText + "─╮")
}

// renderFooter creates the footer with keyboard shortcuts and rate age
func (a *App) renderFooter() string {
	width := max(a.width, minTerminalWidth)

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	var shortcuts []string
	switch a.screen {
	case ScreenLoading:
		shortcuts = []string{"q Quit"}
	case ScreenNickname:
		shortcuts = []string{"Enter Save", "Esc Quit"}
	case ScreenCatalog:
		shortcuts = []string{"↑↓ Navigate", "Enter Detail", "r Rate", "q Quit"}
	case ScreenProduct:
		shortcuts = []string{"b Back", "r Rate", "q Quit"}
	}

	var styled []string
	for _, s := range shortcuts {
		key, label, _ := strings.Cut(s, " ")
		styled = append(styled, styles.KeyStyle.Render(key)+" "+labelStyle.Render(label))
	}
	leftText := " " + strings.Join(styled, "  ")

	rightText := ""
	switch {
	case a.rate.Error != "":
		rightText = styles.Error.Render(currency.FetchErrorText) + " "
	case !a.rate.FetchedAt.IsZero():
		rightText = statusStyle.Render("Rate updated "+humanize.Time(a.rate.FetchedAt)) + " "
	}

	fill := width - 4 - lipgloss.Width(leftText) - lipgloss.Width(rightText)
	if fill < 0 {
		fill = 0
	}
	return borderStyle.Render("╰─" + leftText + strings.Repeat("─", fill) + rightText + "─╯")
}

func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder
	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())
	return sb.String()
}

func (a *App) tableHeight() int {
	h := a.height - frameRows - 4
	if h < 3 {
		return 3
	}
	return h
}

func (a *App) checkAuth() tea.Cmd {
	return func() tea.Msg {
		return authCheckedMsg{state: a.deps.Session.CheckAuth(context.Background())}
	}
}

func (a *App) saveNickname(nick string) tea.Cmd {
	return func() tea.Msg {
		user, err := a.deps.Session.SetNickname(context.Background(), nick)
		return nicknameSavedMsg{user: user, err: err}
	}
}

func (a *App) loadCatalog() tea.Cmd {
	return func() tea.Msg {
		page, err := a.deps.Catalog.List(context.Background(), api.ProductFilters{Limit: catalogPageSize})
		return catalogLoadedMsg{page: page, err: err}
	}
}

func (a *App) refreshRate() tea.Cmd {
	return func() tea.Msg {
		snap, _ := a.deps.Rates.Refresh(context.Background())
		return RateMsg{Snapshot: snap}
	}
}

// Run starts the browser. The rate cache must not be started yet; Run starts
// it and stops it on exit.
func Run(ctx context.Context, deps Deps) error {
	app := New(deps)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	deps.Rates.OnChange(func(s currency.Snapshot) {
		p.Send(RateMsg{Snapshot: s})
	})
	if err := deps.Rates.Start(ctx); err != nil {
		return err
	}
	defer deps.Rates.Stop()

	_, err := p.Run()
	return err
}
