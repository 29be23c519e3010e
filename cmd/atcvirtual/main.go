package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/atcvirtual/atcvirtual/internal/llm"
	"github.com/atcvirtual/atcvirtual/internal/mockserver"
	"github.com/atcvirtual/atcvirtual/internal/server"
	"github.com/atcvirtual/atcvirtual/internal/session"
	"github.com/atcvirtual/atcvirtual/internal/settings"
	"github.com/atcvirtual/atcvirtual/internal/wx"
	"github.com/atcvirtual/atcvirtual/pkg/util"
)

// Version information (set by build flags)
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// Config is the YAML server configuration. API keys live in the settings
// store, not here.
type Config struct {
	Addr         string `yaml:"addr"`
	SettingsPath string `yaml:"settings_path"`
	LLMTimeoutS  int    `yaml:"llm_timeout_seconds"`
	Verbose      bool   `yaml:"verbose"`
}

func defaultConfig() Config {
	return Config{
		Addr:         "127.0.0.1:8090",
		SettingsPath: "atcvirtual-settings.json",
		LLMTimeoutS:  60,
	}
}

func main() {
	var (
		configPath  string
		addr        string
		verbose     bool
		mock        bool
		showVersion bool
	)

	rootCmd := &cobra.Command{
		Use:   "atcvirtual",
		Short: "Virtual ATC communications trainer",
		Long:  "Serves the virtual ATC trainer: flight phases, frequency discipline, AI controller and evaluator, ATIS and live weather.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Printf("atcvirtual %s (%s)\n", Version, GitCommit)
				return nil
			}

			cfg := defaultConfig()
			if configPath != "" {
				loaded, err := util.LoadConfig[Config](configPath)
				if err != nil {
					return fmt.Errorf("loading config: %w", err)
				}
				cfg = *loaded
			}
			if addr != "" {
				cfg.Addr = addr
			}
			if verbose {
				cfg.Verbose = true
			}
			return run(cfg, mock)
		},
	}

	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file")
	rootCmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (overrides config)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
	rootCmd.Flags().BoolVar(&mock, "mock", false, "Run local mock AI gateway and weather API")
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show version information")

	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func run(cfg Config, mock bool) error {
	if cfg.Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	store, err := settings.NewStore(cfg.SettingsPath)
	if err != nil {
		return err
	}

	weather := wx.New(store.Get().AVWXAPIKey)

	var providerFor func(settings.Settings) llm.Provider
	if mock {
		m := mockserver.Start("8091")
		defer m.Close()
		weather.BaseURL = "http://127.0.0.1:8091"
		weather.APIKey = "mock"
		providerFor = func(settings.Settings) llm.Provider {
			p := llm.NewGatewayProvider("mock")
			p.BaseURL = "http://127.0.0.1:8091"
			return p
		}
	}

	timeout := time.Duration(cfg.LLMTimeoutS) * time.Second
	manager := session.NewManager(store, weather, providerFor, timeout)
	srv := server.New(cfg.Addr, manager, store, weather)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logrus.WithFields(logrus.Fields{"addr": cfg.Addr, "mock": mock}).Info("atcvirtual starting")
	return srv.Run(ctx)
}
