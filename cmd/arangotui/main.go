package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/studiowebux/arangotui/internal/cli"
	"github.com/studiowebux/arangotui/internal/client"
	"github.com/studiowebux/arangotui/internal/config"
	"github.com/studiowebux/arangotui/internal/credential"
	"github.com/studiowebux/arangotui/internal/logging"
	"github.com/studiowebux/arangotui/internal/mock"
	"github.com/studiowebux/arangotui/internal/tui"
)

var (
	version = "0.1.0"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arangotui",
	Short: "Terminal client for ArangoDB",
	Long: `arangotui browses an ArangoDB deployment from the terminal.

Databases, collections, documents and graphs are navigated with the
keyboard, and AQL queries can be edited and executed in place.

Examples:
  arangotui                                   # Connect to http://localhost:8529
  arangotui --endpoint https://db:8529 -u ro  # Another server and user
  arangotui ls                                # List databases
  arangotui ls shop customers -o yaml         # Dump documents
  arangotui mock --addr :8529                 # Serve a demo cluster`,
	Version:       version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd)
	},
}

var lsCmd = &cobra.Command{
	Use:   "ls [database [collection]]",
	Short: "List databases, collections or documents without the TUI",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd, args)
	},
}

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Serve an in-memory demo cluster",
	Long: `Serve a fake ArangoDB deployment for demos and manual testing.

Without --file the built-in demo cluster is used. The server accepts any
credentials unless the cluster file sets a username.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMock(cmd)
	},
}

// Connection flags, shared by the root and ls commands
var (
	flagEndpoint     string
	flagGAE          string
	flagUsername     string
	flagPassword     string
	flagConfig       string
	flagPageSize     int
	flagTimeout      time.Duration
	flagInsecure     bool
	flagCAFile       string
	flagLogLevel     string
	flagSavePassword bool
	flagAskPassword  bool
	flagNoHistory    bool
)

// Flags for ls
var (
	lsOutput string
	lsFilter string
	lsOffset int
	lsLimit  int
)

// Flags for mock
var (
	mockAddr string
	mockFile string
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagEndpoint, "endpoint", config.DefaultEndpoint, "ArangoDB endpoint URL")
	flags.StringVar(&flagGAE, "gae", "", "Graph Analytics Engine URL")
	flags.StringVarP(&flagUsername, "username", "u", config.DefaultUsername, "Username")
	flags.StringVar(&flagPassword, "password", "", "Password (read from the keyring when omitted)")
	flags.StringVarP(&flagConfig, "config", "c", "", "Config file (.yaml or .jsonc)")
	flags.IntVar(&flagPageSize, "page-size", config.DefaultPageSize, "Documents fetched per page")
	flags.DurationVar(&flagTimeout, "timeout", client.DefaultTimeout, "Request timeout")
	flags.BoolVar(&flagInsecure, "insecure", true, "Skip TLS certificate verification")
	flags.StringVar(&flagCAFile, "ca-file", "", "CA bundle for TLS verification")
	flags.StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flags.BoolVar(&flagSavePassword, "save-password", false, "Store the password in the system keyring")
	flags.BoolVar(&flagAskPassword, "ask-password", false, "Prompt for the password")
	flags.BoolVar(&flagNoHistory, "no-history", false, "Do not record executed queries")

	lsCmd.Flags().StringVarP(&lsOutput, "output", "o", "", "Output format (json/yaml/text)")
	lsCmd.Flags().StringVarP(&lsFilter, "filter", "f", "", "JMESPath expression applied to the result")
	lsCmd.Flags().IntVar(&lsOffset, "offset", 0, "First document listed")
	lsCmd.Flags().IntVar(&lsLimit, "limit", 0, "Documents listed (defaults to the page size)")

	mockCmd.Flags().StringVar(&mockAddr, "addr", "127.0.0.1:8529", "Listen address")
	mockCmd.Flags().StringVar(&mockFile, "file", "", "Cluster definition (.yaml or .json)")

	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(mockCmd)
}

// flagConfigOverlay returns only the flags the user set explicitly, so
// that defaults never shadow the config file or environment
func flagConfigOverlay(cmd *cobra.Command) config.Config {
	changed := cmd.Flags().Changed
	var cfg config.Config
	if changed("endpoint") {
		cfg.Endpoint = flagEndpoint
	}
	if changed("gae") {
		cfg.GAE = flagGAE
	}
	if changed("username") {
		cfg.Username = flagUsername
	}
	if changed("password") {
		cfg.Password = flagPassword
	}
	if changed("page-size") {
		cfg.PageSize = flagPageSize
	}
	if changed("timeout") {
		cfg.Timeout = config.Duration(flagTimeout)
	}
	if changed("insecure") {
		insecure := flagInsecure
		cfg.Insecure = &insecure
	}
	if changed("ca-file") {
		cfg.CAFile = flagCAFile
	}
	if changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	if flagNoHistory {
		history := false
		cfg.History = &history
	}
	return cfg
}

// loadConfig resolves defaults, file, environment and flags in that order
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	if err := config.Initialize(); err != nil {
		return config.Config{}, fmt.Errorf("failed to initialize config: %w", err)
	}

	file, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}
	env, err := config.FromEnv(os.LookupEnv)
	if err != nil {
		return config.Config{}, fmt.Errorf("invalid environment: %w", err)
	}

	cfg := config.Default().Merge(file).Merge(env).Merge(flagConfigOverlay(cmd))
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// resolvePassword fills an empty password from the keyring, then from an
// interactive prompt, and stores it when --save-password is set
func resolvePassword(cfg *config.Config, logger *zap.Logger) error {
	keys := credential.NewService()
	account, err := credential.Account(cfg.Endpoint, cfg.Username)
	if err != nil {
		return err
	}

	if cfg.Password == "" {
		stored, err := keys.GetPassword(account)
		if err != nil {
			logger.Warn("keyring unavailable", zap.Error(err))
		}
		cfg.Password = stored
	}

	ask := flagAskPassword || (cfg.Password == "" && flagSavePassword)
	if ask && cli.IsInteractive() {
		password, err := cli.PromptPassword(account)
		if err != nil {
			if errors.Is(err, cli.ErrPromptCancelled) {
				return err
			}
			return fmt.Errorf("failed to read password: %w", err)
		}
		cfg.Password = password
	}

	if flagSavePassword {
		if err := keys.SetPassword(account, cfg.Password); err != nil {
			return fmt.Errorf("failed to save password: %w", err)
		}
		logger.Info("password saved to keyring", zap.String("account", account))
	}
	return nil
}

// setup loads config, opens the log file and resolves credentials
func setup(cmd *cobra.Command) (config.Config, *zap.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return config.Config{}, nil, err
	}

	logger, err := logging.New(config.LogPath, cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("failed to open log: %w", err)
	}

	if err := resolvePassword(&cfg, logger); err != nil {
		_ = logger.Sync()
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

// runTUI starts the interactive TUI
func runTUI(cmd *cobra.Command) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting", zap.String("version", version), zap.Any("config", cfg.Redacted()))
	return tui.Run(cmd.Context(), cfg, logger)
}

// runList prints a listing in CLI mode
func runList(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	c, err := client.New(cfg.ClientEndpoint(), logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	output := lsOutput
	if output == "" {
		output = cli.FormatJSON
		if cli.IsTerminalOutput() {
			output = cli.FormatText
		}
	}
	limit := lsLimit
	if limit <= 0 {
		limit = cfg.PageSize
	}

	opts := cli.ListOptions{
		OutputFormat: output,
		Filter:       lsFilter,
		Offset:       lsOffset,
		Limit:        limit,
		Color:        cli.IsTerminalOutput(),
	}
	if len(args) > 0 {
		opts.Database = args[0]
	}
	if len(args) > 1 {
		opts.Collection = args[1]
	}

	return cli.List(cmd.Context(), c, opts, os.Stdout)
}

// runMock serves a fake cluster until interrupted
func runMock(cmd *cobra.Command) error {
	cluster := mock.DemoCluster()
	if mockFile != "" {
		loaded, err := mock.LoadCluster(mockFile)
		if err != nil {
			return err
		}
		cluster = loaded
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	server := mock.NewServer(cluster, logger)
	if err := server.Start(mockAddr); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Mock ArangoDB listening on %s (ctrl+c to stop)\n", server.GetAddress())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	return server.Stop()
}
