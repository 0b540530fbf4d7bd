// ABOUTME: Nickname gate shown before the storefront when the user has no alias
// ABOUTME: A huh input wrapped as a bubbletea model that emits submit and cancel messages

package nickname

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/delcarajo/storefront/internal/tui/styles"
	"github.com/delcarajo/storefront/internal/validation"
)

// SubmittedMsg carries the trimmed alias the user entered
type SubmittedMsg struct {
	Nickname string
}

// CancelledMsg is sent when the user leaves the gate without an alias
type CancelledMsg struct{}

// Form asks for the alias
type Form struct {
	form    *huh.Form
	value   string
	err     string
	width   int
	pending bool
}

// New creates an empty nickname form
func New() *Form {
	f := &Form{}
	f.form = f.build()
	return f
}

func (f *Form) build() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Elige tu alias").
				Description("Así te verán en la tienda").
				Placeholder("ej. Pana").
				CharLimit(validation.NicknameMaxLength).
				Value(&f.value).
				Validate(validateNickname),
		).Title("Completa tu perfil"),
	).WithTheme(theme())
}

func theme() *huh.Theme {
	t := huh.ThemeBase()
	t.Focused.Title = t.Focused.Title.Foreground(styles.Primary).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(styles.Muted)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(styles.Danger)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(styles.Danger)
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(styles.Primary)
	t.Focused.TextInput.Prompt = t.Focused.TextInput.Prompt.Foreground(styles.Primary)
	t.Blurred = t.Focused
	return t
}

func validateNickname(s string) error {
	_, err := validation.Nickname(s)
	return err
}

// SetError shows a server-side rejection and lets the user try again
func (f *Form) SetError(message string) tea.Cmd {
	f.err = message
	f.pending = false
	f.form = f.build()
	return f.form.Init()
}

// SetWidth sets the rendering width
func (f *Form) SetWidth(width int) {
	f.width = width
}

// Init implements tea.Model
func (f *Form) Init() tea.Cmd {
	return f.form.Init()
}

// Update implements tea.Model
func (f *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return f, func() tea.Msg { return CancelledMsg{} }
	}
	if f.pending {
		return f, nil
	}

	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}

	if f.form.State == huh.StateCompleted {
		nick, err := validation.Nickname(f.value)
		if err != nil {
			return f, f.SetError(err.Error())
		}
		f.pending = true
		f.err = ""
		return f, func() tea.Msg { return SubmittedMsg{Nickname: nick} }
	}
	return f, cmd
}

// View implements tea.Model
func (f *Form) View() string {
	var sb strings.Builder
	sb.WriteString(f.form.View())
	if f.pending {
		sb.WriteString("\n")
		sb.WriteString(lipgloss.NewStyle().Foreground(styles.Muted).Render("Guardando..."))
	}
	if f.err != "" {
		sb.WriteString("\n")
		sb.WriteString(styles.Error.Render(f.err))
	}
	return sb.String()
}
