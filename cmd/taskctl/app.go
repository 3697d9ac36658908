package main

import (
	"clementus360/task-manager/client"
	"clementus360/task-manager/config"
	"clementus360/task-manager/engine"
	"clementus360/task-manager/types"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

const defaultAPIURL = "http://localhost:5000/api"

// settings are the root flags, defaulted from the environment.
type settings struct {
	apiURL    string
	tokenFile string
	logFile   string
	logLevel  string
	envFile   string
	envErr    error // from reading envFile, logged once logging is up
}

// app is what every subcommand works with once the root command has run.
type app struct {
	settings settings
	log      *logrus.Logger
	session  *client.Session
	client   *client.Client
	engine   *engine.Engine
	out      io.Writer
}

func defaultSettings() settings {
	envFile := envOr("TASKCTL_ENV_FILE", ".env")
	envErr := godotenv.Load(envFile)

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	dir := filepath.Join(home, ".taskctl")

	return settings{
		apiURL:    envOr("TASKCTL_API_URL", defaultAPIURL),
		tokenFile: envOr("TASKCTL_TOKEN_FILE", filepath.Join(dir, "session.yaml")),
		logFile:   envOr("TASKCTL_LOG_FILE", filepath.Join(dir, "taskctl.log")),
		logLevel:  envOr("LOG_LEVEL", "info"),
		envFile:   envFile,
		envErr:    envErr,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// setup wires logging, the session, the API client and the engine.
func (a *app) setup(cmd *cobra.Command) error {
	a.out = cmd.OutOrStdout()

	a.log = logrus.New()
	a.log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	a.log.SetLevel(config.ParseLevel(a.settings.logLevel))
	a.log.SetOutput(&lumberjack.Logger{
		Filename:   a.settings.logFile,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     28,
	})
	a.logEnvError()

	a.session = client.NewSession(client.NewFileTokenStore(a.settings.tokenFile))
	if _, err := a.session.Acquire(); err != nil {
		return fmt.Errorf("loading session: %w", err)
	}

	a.client = client.New(a.settings.apiURL, a.session, client.WithLogger(a.log))
	a.engine = engine.New(a.client.Tasks(), a.client.Categories(),
		engine.WithLogger(a.log),
		engine.WithAuthErrorHandler(func(err error) {
			a.log.WithError(err).Info("session rejected, token cleared")
		}),
	)
	return nil
}

// logEnvError reports a .env that could not be read. A missing file is
// normal and only shows at debug level.
func (a *app) logEnvError() {
	err := a.settings.envErr
	if err == nil {
		return
	}
	entry := a.log.WithError(err).WithField("file", a.settings.envFile)
	if errors.Is(err, fs.ErrNotExist) {
		entry.Debug("no env file, using process environment")
		return
	}
	entry.Warn("env file not loaded, using process environment")
}

// requireSession fails fast when no one is logged in.
func (a *app) requireSession() error {
	if !a.session.Authenticated() {
		return errors.New("not logged in: run `taskctl login` first")
	}
	return nil
}

// load refreshes the engine and turns a surfaced error into a command error.
func (a *app) load(ctx context.Context, filter types.TaskFilter) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	a.engine.LoadAll(ctx, filter)
	return a.failure()
}

// failure returns the engine's surfaced error, if any, and clears it.
func (a *app) failure() error {
	msg := a.engine.ErrorMessage()
	if msg == "" {
		return nil
	}
	a.engine.ClearError()
	return errors.New(msg)
}

// failed is failure for an operation that reported false, falling back to
// fallback when the engine refused it before reaching the store.
func (a *app) failed(fallback string) error {
	if err := a.failure(); err != nil {
		return err
	}
	return errors.New(fallback)
}

// findTask resolves a full id or a unique id prefix.
func (a *app) findTask(ref string) (types.Task, int, error) {
	ref = strings.TrimSpace(ref)
	match, index := types.Task{}, -1
	for i, t := range a.engine.Tasks() {
		if t.ID == ref {
			return t, i, nil
		}
		if ref != "" && strings.HasPrefix(t.ID, ref) {
			if index >= 0 {
				return types.Task{}, -1, fmt.Errorf("task id %q is ambiguous", ref)
			}
			match, index = t, i
		}
	}
	if index < 0 {
		return types.Task{}, -1, fmt.Errorf("no task matches %q", ref)
	}
	return match, index, nil
}

// findCategory resolves a category name (case-insensitive), id or id
// prefix. The "All" pseudo-category never matches.
func (a *app) findCategory(ref string) (types.Category, error) {
	ref = strings.TrimSpace(ref)
	var byPrefix []types.Category
	for _, c := range a.engine.Categories() {
		if c.ID == types.ShowAllID {
			continue
		}
		if c.ID == ref || strings.EqualFold(c.Name, ref) {
			return c, nil
		}
		if ref != "" && strings.HasPrefix(c.ID, ref) {
			byPrefix = append(byPrefix, c)
		}
	}
	if len(byPrefix) == 1 {
		return byPrefix[0], nil
	}
	return types.Category{}, fmt.Errorf("no single category matches %q", ref)
}
