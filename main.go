// Terminal client for the blog API: browse, search and write posts,
// manage the account and the profile.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Qoldo3/Django/api"
	"github.com/Qoldo3/Django/config"
	"github.com/Qoldo3/Django/message"
	"github.com/Qoldo3/Django/mvc"
	"github.com/Qoldo3/Django/session"
	"github.com/Qoldo3/Django/store"
)

func main() {
	cfg, err := config.Load(os.Getenv("BLOG_CONFIG"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeLog()

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	client := api.New(cfg.API.BaseURL, cfg.API.Timeout, st, logger)
	sess := session.New(client, st, logger)

	p := tea.NewProgram(mvc.InitialHomeModel(sess, client))

	// The 401 interceptor already wiped the store by the time this hook
	// runs; finish the teardown and reset every page to the root.
	client.OnUnauthorized(func() {
		sess.ForcedLogout()
		p.Send(message.SessionExpired{})
	})

	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger writes to the configured file; stdout belongs to the UI, so
// without a file the logs are discarded.
func newLogger(cfg config.LogConfig) (*slog.Logger, func(), error) {
	if cfg.File == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}

	f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { f.Close() }, nil
}
