// ABOUTME: Wires configuration, logging, storage, the HTTP pipeline and the session
// ABOUTME: Every command builds one runtime and closes it on exit

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/delcarajo/storefront/internal/api"
	"github.com/delcarajo/storefront/internal/client"
	"github.com/delcarajo/storefront/internal/config"
	"github.com/delcarajo/storefront/internal/currency"
	"github.com/delcarajo/storefront/internal/logger"
	"github.com/delcarajo/storefront/internal/nav"
	"github.com/delcarajo/storefront/internal/session"
	"github.com/delcarajo/storefront/internal/tokenstore"
)

const serviceName = "delcarajo-cli"

// Overridden in tests
var (
	diagOut     io.Writer = os.Stderr
	openBrowser           = true
)

// runtime holds the wired services a command needs
type runtime struct {
	cfg      *config.Config
	logger   *slog.Logger
	tokens   *tokenstore.Store
	client   *client.Client
	api      *api.API
	session  *session.Manager
	rates    *currency.Cache
	nav      nav.Navigator
	closeLog func()
}

// newRuntime loads configuration and builds the shared pipeline. In browser
// mode console logging is replaced by the rotated file sink.
func newRuntime(browserMode bool) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	cfg.APIURL = GetAPIURL(cfg)

	logOpts := logger.Options{
		Level:         cfg.LogLevel,
		Format:        cfg.LogFormat,
		Development:   cfg.IsDevelopment() && !browserMode,
		Console:       diagOut,
		MonitoringURL: cfg.MonitoringURL,
		Service:       serviceName,
	}
	if browserMode {
		logOpts.LogDir = cfg.ConfigDir
	}
	log, closeLog := logger.Init(logOpts)

	tokens := tokenstore.NewOS(cfg.ConfigDir)
	navigator := nav.NewTerminal(diagOut, cfg.AppURL, openBrowser)

	c, err := client.New(client.Config{
		BaseURL:   cfg.APIURL,
		Timeout:   cfg.RequestTimeout,
		Tokens:    tokens,
		Cookies:   tokens,
		Navigator: navigator,
		Logger:    log,
	})
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("creating API client: %w", err)
	}
	a := api.New(c)

	mgr := session.NewManager(session.Options{
		Auth:             a.Auth,
		Users:            a.Users,
		Tokens:           tokens,
		Navigator:        navigator,
		LogoutTimeout:    cfg.LogoutTimeout,
		Logger:           log,
		ClearCredentials: c.ClearCredentials,
	})
	c.OnSessionExpired(mgr.Expire)

	rates := currency.New(a.BCV, currency.Options{
		Interval: cfg.RatePollInterval,
		Logger:   log,
	})

	return &runtime{
		cfg:      cfg,
		logger:   log,
		tokens:   tokens,
		client:   c,
		api:      a,
		session:  mgr,
		rates:    rates,
		nav:      navigator,
		closeLog: closeLog,
	}, nil
}

// Close flushes the log sinks
func (r *runtime) Close() {
	r.closeLog()
}
