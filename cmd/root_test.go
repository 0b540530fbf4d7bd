// ABOUTME: Tests for the root command, global flags and shared helpers
// ABOUTME: Provides the test backend wiring used by every command test

package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/delcarajo/storefront/internal/config"
	"github.com/delcarajo/storefront/internal/tokenstore"
	"github.com/delcarajo/storefront/internal/validation"
)

// testBackend points the CLI at handler and isolates its config directory
type testBackend struct {
	server *httptest.Server
	dir    string
	hits   atomic.Int32
}

func newTestBackend(t *testing.T, handler http.Handler) *testBackend {
	t.Helper()
	b := &testBackend{dir: t.TempDir()}
	b.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.hits.Add(1)
		handler.ServeHTTP(w, r)
	}))

	t.Setenv("DELCARAJO_CONFIG_DIR", b.dir)
	t.Setenv("DELCARAJO_ENV", "production")
	t.Setenv("DELCARAJO_ENV_FILE", filepath.Join(b.dir, "missing.env"))
	t.Setenv("MONITORING_URL", "")

	prevLogger := slog.Default()
	prevOut, prevOpen := diagOut, openBrowser
	apiURL = b.server.URL
	diagOut = io.Discard
	openBrowser = false

	t.Cleanup(func() {
		b.server.Close()
		apiURL = ""
		jsonOutput = false
		diagOut, openBrowser = prevOut, prevOpen
		slog.SetDefault(prevLogger)
	})
	return b
}

func (b *testBackend) store() *tokenstore.Store {
	return tokenstore.NewOS(b.dir)
}

func (b *testBackend) setToken(t *testing.T, token string) {
	t.Helper()
	if err := b.store().SetAccessToken(token); err != nil {
		t.Fatalf("storing token: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestGetAPIURL_FromConfig(t *testing.T) {
	apiURL = ""
	cfg := &config.Config{APIURL: "http://api.example.com/api"}

	if got := GetAPIURL(cfg); got != "http://api.example.com/api" {
		t.Errorf("expected config URL, got %s", got)
	}
}

func TestGetAPIURL_FlagOverridesConfig(t *testing.T) {
	apiURL = "http://flag-override.example.com"
	defer func() { apiURL = "" }()
	cfg := &config.Config{APIURL: "http://api.example.com/api"}

	if got := GetAPIURL(cfg); got != "http://flag-override.example.com" {
		t.Errorf("expected flag to override config, got %s", got)
	}
}

func TestJSONOutput(t *testing.T) {
	jsonOutput = true
	defer func() { jsonOutput = false }()

	if !IsJSONOutput() {
		t.Error("expected IsJSONOutput to return true")
	}
}

func TestFail_ExitCodes(t *testing.T) {
	var buf bytes.Buffer

	if code := fail(&buf, validation.NewError("alias", "Alias es obligatorio")); code != exitInvalid {
		t.Errorf("expected exit code %d for validation errors, got %d", exitInvalid, code)
	}
	if code := fail(&buf, errors.New("boom")); code != exitFailed {
		t.Errorf("expected exit code %d for other errors, got %d", exitFailed, code)
	}
	if !bytes.Contains(buf.Bytes(), []byte("Error: Alias es obligatorio")) {
		t.Errorf("expected validation message in output, got %q", buf.String())
	}
}

func TestRuntime_InvalidEnvironment(t *testing.T) {
	newTestBackend(t, http.NotFoundHandler())
	t.Setenv("DELCARAJO_ENV", "staging")

	var buf bytes.Buffer
	code := runRate(t.Context(), &buf)

	if code != exitFailed {
		t.Errorf("expected exit code %d, got %d", exitFailed, code)
	}
	if !bytes.Contains(buf.Bytes(), []byte("DELCARAJO_ENV")) {
		t.Errorf("expected config error in output, got %q", buf.String())
	}
}
