package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/h0rv/ghs/internal/auth"
	"github.com/h0rv/ghs/internal/config"
	"github.com/h0rv/ghs/internal/gh"
	"github.com/h0rv/ghs/internal/logging"
	"github.com/h0rv/ghs/internal/search"
	"github.com/h0rv/ghs/internal/store"
	"github.com/h0rv/ghs/internal/tui"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// CLI flags
	configFlag  string
	queryFlag   string
	timeoutFlag time.Duration
	freshFlag   bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "ghs",
		Short: "Terminal UI for searching GitHub repositories",
		Long: `ghs is a terminal user interface for searching GitHub repositories.

Type a query, press enter, and open any result in the browser. The last
search is saved on exit and restored on the next start.

Authentication:
  1. Config file or GHS_API_TOKEN
  2. GitHub CLI: Run 'gh auth login' (preferred)
  3. Environment variable: Set GITHUB_TOKEN`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), v)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFlag, "config", "", "Config file (default "+config.DefaultConfigFile()+")")
	pf.String("state-file", "", "File the search State is saved to")
	pf.String("log-file", "", "Log file; empty disables logging")
	pf.String("log-level", "", "Log level (trace, debug, info, warn, error)")
	pf.String("endpoint", "", "GitHub GraphQL endpoint")
	_ = v.BindPFlag("state.file", pf.Lookup("state-file"))
	_ = v.BindPFlag("log.file", pf.Lookup("log-file"))
	_ = v.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = v.BindPFlag("api.endpoint", pf.Lookup("endpoint"))

	rootCmd.Flags().StringVar(&queryFlag, "query", "", "Search for this query on start")
	rootCmd.Flags().BoolVar(&freshFlag, "fresh", false, "Start with an empty search instead of the saved one")

	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search repositories and print name and URL per line",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), v, strings.Join(args, " "), cmd.OutOrStdout())
		},
	}
	searchCmd.Flags().DurationVar(&timeoutFlag, "timeout", 30*time.Second, "Give up waiting for results after this long")

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the saved search",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReset(v, cmd.OutOrStdout())
		},
	}

	rootCmd.AddCommand(searchCmd, resetCmd)
	return rootCmd
}

// app bundles what every command needs.
type app struct {
	cfg    *config.Config
	log    *logrus.Logger
	closer io.Closer
}

func setup(v *viper.Viper) (*app, error) {
	cfg, err := config.Load(v, configFlag)
	if err != nil {
		return nil, err
	}

	log, closer, err := logging.New(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	log.WithField("config", v.ConfigFileUsed()).Debug("configuration loaded")

	return &app{cfg: cfg, log: log, closer: closer}, nil
}

func (a *app) client() (*gh.Client, error) {
	token, err := auth.Resolve(
		auth.StaticProvider{Token: a.cfg.API.Token},
		&auth.GhCliProvider{Hostname: a.cfg.API.Hostname},
		&auth.EnvProvider{},
	)
	if err != nil {
		return nil, err
	}

	client, err := gh.New(gh.Options{
		Endpoint:    a.cfg.API.Endpoint,
		Token:       token,
		PageSize:    a.cfg.API.PageSize,
		Timeout:     a.cfg.API.Timeout,
		MaxFailures: a.cfg.Breaker.MaxFailures,
		Cooldown:    a.cfg.Breaker.Cooldown,
		Log:         a.log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}
	return client, nil
}

func runTUI(ctx context.Context, v *viper.Viper) error {
	a, err := setup(v)
	if err != nil {
		return err
	}
	defer a.closer.Close()

	client, err := a.client()
	if err != nil {
		return err
	}

	// Restore the previous search
	snapshots := store.New(a.cfg.State.File)
	initial := search.State{}
	if a.cfg.State.Restore && !freshFlag {
		restored, err := snapshots.Load()
		switch {
		case err == nil:
			initial = restored
			a.log.WithField("query", initial.Query).Info("restored saved search")
		case errors.Is(err, store.ErrNoSnapshot):
		default:
			// A broken snapshot should not keep the app from starting.
			a.log.WithError(err).Warn("ignoring saved search")
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	screen := search.NewScreen(client, initial, a.log)
	states, unsubscribe := screen.Subscribe(1)
	defer unsubscribe()

	done := make(chan error, 1)
	go func() { done <- screen.Run(ctx) }()

	model := tui.NewAppModel(screen, states, queryFlag, a.log)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, runErr := p.Run()

	// Stop the loop. A search still in flight stays loading in the saved State and is
	// run again on the next start.
	screen.Close()
	unsubscribe()
	cancel()
	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		a.log.WithError(err).Warn("screen loop stopped")
	}

	if err := snapshots.Save(screen.State()); err != nil {
		a.log.WithError(err).Error("failed to save search")
	}

	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return fmt.Errorf("program error: %w", runErr)
	}
	return nil
}

func runSearch(ctx context.Context, v *viper.Viper, query string, out io.Writer) error {
	a, err := setup(v)
	if err != nil {
		return err
	}
	defer a.closer.Close()

	client, err := a.client()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, timeoutFlag)
	defer cancel()

	screen := search.NewScreen(client, search.State{}, a.log)
	states, unsubscribe := screen.Subscribe(2)
	defer unsubscribe()

	go func() { _ = screen.Run(ctx) }()
	defer screen.Close()

	screen.SubmitWithProgress(search.Search{Query: query})

	state, err := search.Await(ctx, states)
	if err != nil {
		return fmt.Errorf("search %q did not finish: %w", query, err)
	}
	if state.Err != nil {
		return state.Err
	}

	for _, item := range state.Items {
		fmt.Fprintf(out, "%s\t%s\n", item.Name, item.URL.String())
	}
	return nil
}

func runReset(v *viper.Viper, out io.Writer) error {
	a, err := setup(v)
	if err != nil {
		return err
	}
	defer a.closer.Close()

	snapshots := store.New(a.cfg.State.File)
	if err := snapshots.Clear(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Removed %s\n", snapshots.Path())
	return nil
}
