// ABOUTME: Tests for terminal and recording navigators
// ABOUTME: Replaces the browser opener so no external process is started

package nav

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestTerminal_LoginHint(t *testing.T) {
	var buf bytes.Buffer
	n := NewTerminal(&buf, "http://localhost:3000/", false)

	if err := n.Navigate(Login); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Current() != Login {
		t.Errorf("expected current %s, got %s", Login, n.Current())
	}
	if !strings.Contains(buf.String(), "delcarajo login") {
		t.Errorf("expected login hint, got %q", buf.String())
	}
}

func TestTerminal_RelativeRouteUsesAppURL(t *testing.T) {
	var buf bytes.Buffer
	n := NewTerminal(&buf, "http://localhost:3000/", false)

	n.Navigate("/orders")

	if !strings.Contains(buf.String(), "http://localhost:3000/orders") {
		t.Errorf("expected app URL in output, got %q", buf.String())
	}
}

func TestTerminal_OpensAbsoluteURL(t *testing.T) {
	var buf bytes.Buffer
	n := NewTerminal(&buf, "", true)
	var opened string
	n.open = func(u string) error {
		opened = u
		return nil
	}

	n.Navigate("https://api.example.com/auth/google")

	if opened != "https://api.example.com/auth/google" {
		t.Errorf("expected browser to open URL, got %q", opened)
	}
}

func TestTerminal_BrowserFailurePrintsURL(t *testing.T) {
	var buf bytes.Buffer
	n := NewTerminal(&buf, "", true)
	n.open = func(string) error { return errors.New("no display") }

	if err := n.Navigate("https://api.example.com/auth/google"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(buf.String(), "Open this URL") {
		t.Errorf("expected manual URL hint, got %q", buf.String())
	}
}

func TestRecorder_History(t *testing.T) {
	r := NewRecorder(Home)
	r.Navigate("/cart")
	r.Navigate(Login)

	if r.Current() != Login {
		t.Errorf("expected current %s, got %s", Login, r.Current())
	}
	h := r.History()
	if len(h) != 2 || h[0] != "/cart" || h[1] != Login {
		t.Errorf("expected [/cart /login], got %v", h)
	}
}
