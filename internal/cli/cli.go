// Package cli implements the jobfill command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/manav-1/jobfill"
	"github.com/manav-1/jobfill/internal/ai"
	"github.com/manav-1/jobfill/internal/banner"
	"github.com/manav-1/jobfill/internal/logger"
	"github.com/manav-1/jobfill/internal/secrets"
	"github.com/manav-1/jobfill/internal/storage"
)

// Config is the file-backed configuration (jobfill.yaml).
type Config struct {
	DataDir string        `mapstructure:"data-dir"`
	Server  ServerConfig  `mapstructure:"server"`
	Browser BrowserConfig `mapstructure:"browser"`
	AI      AIConfig      `mapstructure:"ai"`
}

type ServerConfig struct {
	Addr  string `mapstructure:"addr"`
	Token string `mapstructure:"token"`
}

type BrowserConfig struct {
	Headless bool          `mapstructure:"headless"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type AIConfig struct {
	Provider string       `mapstructure:"provider"`
	OpenAI   OpenAIConfig `mapstructure:"openai"`
	Gemini   GeminiConfig `mapstructure:"gemini"`
}

type OpenAIConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	BaseURL    string `mapstructure:"base-url"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

// CLI encapsulates the command-line interface with its dependencies.
type CLI struct {
	version     string
	cfgFile     string
	verbose     bool
	jsonLog     bool
	silent      bool
	initialized bool

	cfg     Config
	log     *zap.Logger
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given version string.
func New(version string) *CLI {
	c := &CLI{version: version, log: zap.NewNop()}
	c.setupCommands()
	return c
}

// setupCommands initializes all CLI commands and their configurations.
func (c *CLI) setupCommands() {
	c.rootCmd = &cobra.Command{
		Use:     "jobfill",
		Short:   "Detect and fill job application forms",
		Version: c.version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.initApp()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := c.rootCmd.PersistentFlags()
	pf.StringVar(&c.cfgFile, "config", "", "Config file (default: jobfill.yaml in the current directory)")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "Enable verbose/debug output")
	pf.BoolVarP(&c.jsonLog, "json-log", "j", false, "JSON format for logging")
	pf.BoolVarP(&c.silent, "silent", "s", false, "Suppress the banner")

	c.rootCmd.AddCommand(c.newDetectCommand())
	c.rootCmd.AddCommand(c.newFillCommand())
	c.rootCmd.AddCommand(c.newSuggestCommand())
	c.rootCmd.AddCommand(c.newProfileCommand())
	c.rootCmd.AddCommand(c.newAppsCommand())
	c.rootCmd.AddCommand(c.newDraftCommand())
	c.rootCmd.AddCommand(c.newServeCommand())
	c.rootCmd.AddCommand(c.newUpCommand())
}

// Run executes the CLI and returns any error.
func (c *CLI) Run() error {
	return c.rootCmd.Execute()
}

// initApp loads configuration, initializes logging and prints the banner.
func (c *CLI) initApp() error {
	if c.initialized {
		return nil
	}
	c.initialized = true

	v := viper.New()
	v.SetDefault("data-dir", defaultDataDir())
	v.SetDefault("server.addr", "127.0.0.1:8730")
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.timeout", 60*time.Second)
	v.SetDefault("ai.provider", "openai")

	v.SetEnvPrefix("JOBFILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if c.cfgFile != "" {
		v.SetConfigFile(c.cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("jobfill")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// The config file is optional unless named explicitly.
		if c.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	if err := v.Unmarshal(&c.cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	log, err := logger.New(c.jsonLog, c.verbose)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	c.log = log

	if !c.silent {
		fmt.Fprint(os.Stderr, banner.Banner(c.version))
	}
	return nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".jobfill"
	}
	return filepath.Join(home, ".jobfill")
}

// openStore opens the configured database.
func (c *CLI) openStore() (*storage.Store, error) {
	store, err := storage.Open(c.cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening store at %s: %w", c.cfg.DataDir, err)
	}
	return store, nil
}

// loadEngine builds a detection engine with the stored mapping, falling
// back to the built-in taxonomy.
func (c *CLI) loadEngine(store *storage.Store) (*jobfill.Engine, error) {
	mapping, err := store.LoadMapping()
	if errors.Is(err, storage.ErrNotFound) {
		return jobfill.New(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading mapping: %w", err)
	}
	return jobfill.New(mapping), nil
}

// provider builds the configured draft provider.
func (c *CLI) provider(ctx context.Context) (ai.Provider, error) {
	cfg := ai.Config{Provider: c.cfg.AI.Provider}
	switch c.cfg.AI.Provider {
	case "gemini":
		cfg.Key = secrets.Source{
			Name:  "gemini api key",
			Value: c.cfg.AI.Gemini.APIKey,
			File:  c.cfg.AI.Gemini.APIKeyFile,
			Env:   "GEMINI_API_KEY",
		}
		cfg.Model = c.cfg.AI.Gemini.Model
	default:
		cfg.Key = secrets.Source{
			Name:  "openai api key",
			Value: c.cfg.AI.OpenAI.APIKey,
			File:  c.cfg.AI.OpenAI.APIKeyFile,
			Env:   "OPENAI_API_KEY",
		}
		cfg.Model = c.cfg.AI.OpenAI.Model
		cfg.BaseURL = c.cfg.AI.OpenAI.BaseURL
	}
	return ai.New(ctx, cfg)
}
