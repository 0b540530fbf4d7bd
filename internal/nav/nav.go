// ABOUTME: Route navigation seam used when a session ends or must begin
// ABOUTME: Terminal navigators print a hint and optionally open the browser

package nav

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/pkg/browser"
)

// Well-known routes
const (
	Home  = "/"
	Login = "/login"
)

// Navigator changes the current route of the application
type Navigator interface {
	Navigate(route string) error
	Current() string
}

// Terminal tracks the route in memory and tells the user where to go.
// Absolute http(s) routes are opened in the system browser when OpenBrowser is set.
type Terminal struct {
	out         io.Writer
	appURL      string
	openBrowser bool
	open        func(url string) error

	mu      sync.Mutex
	current string
}

// NewTerminal creates a navigator writing hints to out
func NewTerminal(out io.Writer, appURL string, openBrowser bool) *Terminal {
	return &Terminal{
		out:         out,
		appURL:      strings.TrimSuffix(appURL, "/"),
		openBrowser: openBrowser,
		open:        browser.OpenURL,
		current:     Home,
	}
}

// Navigate records route as current and reports it
func (t *Terminal) Navigate(route string) error {
	t.mu.Lock()
	t.current = route
	t.mu.Unlock()

	switch {
	case isAbsolute(route):
		if t.openBrowser {
			if err := t.open(route); err != nil {
				fmt.Fprintf(t.out, "Open this URL in your browser: %s\n", route)
				return nil
			}
		}
		fmt.Fprintf(t.out, "Opening %s\n", route)
	case route == Login:
		fmt.Fprintln(t.out, "Session expired. Run 'delcarajo login' to sign in again.")
	default:
		fmt.Fprintf(t.out, "Continue at %s%s\n", t.appURL, route)
	}
	return nil
}

// Current returns the last route navigated to
func (t *Terminal) Current() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Recorder remembers every navigation without side effects
type Recorder struct {
	mu      sync.Mutex
	current string
	history []string
}

// NewRecorder returns a recorder positioned at start
func NewRecorder(start string) *Recorder {
	return &Recorder{current: start}
}

// Navigate records route as the current location
func (r *Recorder) Navigate(route string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = route
	r.history = append(r.history, route)
	return nil
}

// Current returns the last route navigated to
func (r *Recorder) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// History returns a copy of every route navigated to, in order
func (r *Recorder) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.history...)
}

func isAbsolute(route string) bool {
	return strings.HasPrefix(route, "http://") || strings.HasPrefix(route, "https://")
}
