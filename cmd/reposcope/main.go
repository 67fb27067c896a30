package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dsablic/reposcope/internal/analyzer"
	"github.com/dsablic/reposcope/internal/auth"
	"github.com/dsablic/reposcope/internal/config"
	"github.com/dsablic/reposcope/internal/discover"
	"github.com/dsablic/reposcope/internal/logging"
	"github.com/dsablic/reposcope/internal/model"
	"github.com/dsablic/reposcope/internal/output"
	"github.com/dsablic/reposcope/internal/server"
	"github.com/dsablic/reposcope/internal/ui"
	"github.com/dsablic/reposcope/internal/workspace"
)

var version = "dev"

// app carries state shared by all subcommands.
type app struct {
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
	closeLog   func() error
}

func main() {
	if err := newRootCmd(&app{}).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "reposcope: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "reposcope",
		Short:         "Analyze the structure of Java repositories",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.closeLog != nil {
				return a.closeLog()
			}
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to configuration file")

	root.AddCommand(a.analyzeCmd())
	root.AddCommand(a.serveCmd())
	root.AddCommand(a.authCmd())
	root.AddCommand(versionCmd())
	return root
}

func (a *app) load() error {
	cfg, err := config.NewLoader().Load(a.configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	logger, closeLog, err := logging.Open(cfg.Logging)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	a.closeLog = closeLog
	return nil
}

// newAnalyzer wires the workspace, clone auth and options from the loaded config.
func (a *app) newAnalyzer(logger *slog.Logger, progress analyzer.Progress) *analyzer.Analyzer {
	store := auth.NewFileStore(auth.DefaultStorePath())
	cloner := workspace.NewGitCloner(a.cfg.Workspace.CloneDepth, store.CredentialsFor)
	ws := workspace.NewManager(a.cfg.Workspace.Dir, cloner, logger)
	return analyzer.New(ws, analyzer.Options{
		Suffix:          a.cfg.Source.Suffix,
		ExcludeVendored: a.cfg.Source.ExcludeVendored,
		MaxFileBytes:    a.cfg.Source.MaxFileBytes,
		CodeStats:       a.cfg.Report.CodeStats,
		License:         a.cfg.Report.License,
		Logger:          logger,
		Progress:        progress,
	})
}

func (a *app) analyzeCmd() *cobra.Command {
	var (
		dir     string
		plain   bool
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "analyze [repo-url]",
		Short: "Clone a repository and print its structure report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && dir == "" {
				return errors.New("a repository URL or --dir is required")
			}
			if len(args) == 1 && dir != "" {
				return errors.New("use either a repository URL or --dir, not both")
			}
			if err := a.applyAnalyzeFlags(cmd); err != nil {
				return err
			}
			if suffix := a.cfg.Source.Suffix; suffix != "" && suffix != discover.DefaultSuffix {
				a.logger.Warn("files are parsed as Java; sources in other languages will fail to parse", "suffix", suffix)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			run := func(ctx context.Context, az *analyzer.Analyzer) (*model.AnalysisData, error) {
				if dir != "" {
					abs, err := filepath.Abs(dir)
					if err != nil {
						return nil, err
					}
					return az.AnalyzeDir(ctx, filepath.Base(abs), abs)
				}
				return az.Run(ctx, args[0])
			}

			data, err := a.runWithProgress(ctx, plain || !ui.IsTTY(), cmd.ErrOrStderr(), run)
			report := model.Success(data)
			if err != nil {
				a.logger.Error("error analyzing repository", "error", err)
				report = model.Failure(err.Error())
			}
			if werr := output.Write(cmd.OutOrStdout(), report, a.cfg.Report.Format); werr != nil {
				return werr
			}
			return err
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Analyze an existing local directory instead of cloning")
	cmd.Flags().String("workspace", "", "Directory the repository is cloned into (cleared first)")
	cmd.Flags().String("suffix", "", "File name suffix of source files (default .java); files are always parsed as Java")
	cmd.Flags().Int("depth", 1, "Clone depth (0 for full history)")
	cmd.Flags().Bool("stats", false, "Include line statistics in the report")
	cmd.Flags().Bool("license", false, "Include the detected license in the report")
	cmd.Flags().Bool("exclude-vendored", false, "Skip vendored and third-party directories")
	cmd.Flags().String("format", "", "Output format: json or markdown")
	cmd.Flags().BoolVar(&plain, "plain", false, "Print progress lines instead of the progress bar")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Abort the analysis after this duration")
	return cmd
}

// applyAnalyzeFlags overrides config values with flags set on the command line.
func (a *app) applyAnalyzeFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()
	var err error
	if flags.Changed("workspace") {
		a.cfg.Workspace.Dir, err = flags.GetString("workspace")
	}
	if err == nil && flags.Changed("suffix") {
		a.cfg.Source.Suffix, err = flags.GetString("suffix")
	}
	if err == nil && flags.Changed("depth") {
		a.cfg.Workspace.CloneDepth, err = flags.GetInt("depth")
	}
	if err == nil && flags.Changed("stats") {
		a.cfg.Report.CodeStats, err = flags.GetBool("stats")
	}
	if err == nil && flags.Changed("license") {
		a.cfg.Report.License, err = flags.GetBool("license")
	}
	if err == nil && flags.Changed("exclude-vendored") {
		a.cfg.Source.ExcludeVendored, err = flags.GetBool("exclude-vendored")
	}
	if err == nil && flags.Changed("format") {
		a.cfg.Report.Format, err = flags.GetString("format")
	}
	return err
}

// runWithProgress runs the analysis behind a TUI progress bar, or with
// plain progress lines written to w.
func (a *app) runWithProgress(ctx context.Context, plain bool, w io.Writer, run func(context.Context, *analyzer.Analyzer) (*model.AnalysisData, error)) (*model.AnalysisData, error) {
	if plain {
		progress := ui.NewPlainProgress(func(msg string) {
			fmt.Fprintln(w, msg)
		})
		return run(ctx, a.newAnalyzer(a.logger, progress))
	}

	// Log lines would corrupt the progress bar unless they go to a file.
	logger := a.logger
	if a.cfg.Logging.File == "" {
		logger = logging.New(io.Discard, a.cfg.Logging)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := ui.RunTUI()
	progress := ui.NewTUIProgress(p)
	var (
		data   *model.AnalysisData
		runErr error
	)
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		data, runErr = run(ctx, a.newAnalyzer(logger, progress))
		p.Quit()
	}()

	_, tuiErr := p.Run()
	if tuiErr != nil || !progress.Completed() {
		// ctrl+c or a broken display stops the analysis.
		cancel()
	}
	<-finished
	if tuiErr != nil {
		return nil, fmt.Errorf("progress display: %w", tuiErr)
	}
	return data, runErr
}

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve repository analysis over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Server.Addr, _ = cmd.Flags().GetString("addr")
			}
			az := a.newAnalyzer(a.logger, nil)
			srv := server.New(a.cfg.Server.Addr, server.NewHandler(az, a.logger), a.logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			a.logger.Info("shutting down API server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().String("addr", "", "Listen address (default from config, :8080)")
	return cmd
}

func (a *app) authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage clone credentials",
	}

	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Store an access token for a git hosting provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, _ := cmd.Flags().GetString("provider")
			token, _ := cmd.Flags().GetString("token")
			username, _ := cmd.Flags().GetString("username")

			store := auth.NewFileStore(auth.DefaultStorePath())
			if err := store.Save(provider, auth.Credentials{AccessToken: token, Username: username}); err != nil {
				return fmt.Errorf("save credentials: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Stored token for %s.\n", provider)
			return nil
		},
	}
	tokenCmd.Flags().String("provider", "", "Provider or host the token is for (github, gitlab, bitbucket, git.example.com)")
	tokenCmd.Flags().String("token", "", "Access token")
	tokenCmd.Flags().String("username", "", "Username, if the provider needs one")
	tokenCmd.MarkFlagRequired("provider")
	tokenCmd.MarkFlagRequired("token")

	cmd.AddCommand(tokenCmd)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
