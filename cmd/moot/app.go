package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c360studio/moot/agent"
	"github.com/c360studio/moot/config"
	"github.com/c360studio/moot/debate"
	"github.com/c360studio/moot/feed"
	"github.com/c360studio/moot/llm"
	"github.com/c360studio/moot/mockup"
	"github.com/c360studio/moot/server"
)

// app holds the wired component graph for one invocation.
type app struct {
	cfg    *config.Config
	engine *debate.Engine
	mirror *feed.Mirror
	logger *slog.Logger
}

// setupLogging installs the process-wide slog handler.
func setupLogging(logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// loadConfig resolves configuration: explicit path, or loader search
// (project moot.yaml, then user config), plus env credential fallback.
func loadConfig(configPath string, logger *slog.Logger) (*config.Config, error) {
	if configPath != "" {
		cfg, err := config.LoadFromFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		return cfg, nil
	}
	loader := config.NewLoader(logger)
	if err := loader.EnsureUserConfig(); err != nil {
		logger.Warn("Could not create user config", "error", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// newApp wires the full component graph from configuration.
func newApp(configPath, logLevel string, withFeed bool) (*app, error) {
	logger := setupLogging(logLevel)

	cfg, err := loadConfig(configPath, logger)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := agent.Validate(); err != nil {
		return nil, fmt.Errorf("invalid agent registry: %w", err)
	}

	client, err := llm.NewClient(llm.Endpoint{
		Provider: cfg.LLM.Provider,
		URL:      cfg.LLM.Endpoint,
		APIKey:   cfg.LLM.APIKey,
	}, llm.WithTimeout(cfg.LLM.Timeout), llm.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("create LLM client: %w", err)
	}

	invoker := debate.NewInvoker(client,
		cfg.LLM.AgentModel,
		cfg.LLM.ResolveModeratorModel(),
		debate.WithContextWindow(cfg.Debate.ContextWindow),
		debate.WithInvokerLogger(logger))

	chain := mockup.NewChain(cfg.Mockup, mockup.WithChainLogger(logger))

	engine := debate.NewEngine(invoker,
		debate.WithArtifactProducer(chain),
		debate.WithLogger(logger))

	a := &app{cfg: cfg, engine: engine, logger: logger}

	if withFeed && cfg.NATS.URL != "" {
		mirror, err := feed.Connect(cfg.NATS.URL, cfg.NATS.SubjectPrefix, logger)
		if err != nil {
			// The mirror is an optional side channel; a dead broker must not
			// keep the server from starting.
			logger.Warn("Event feed unavailable", "url", cfg.NATS.URL, "error", err)
		} else {
			a.mirror = mirror
		}
	}

	return a, nil
}

func (a *app) close() {
	a.mirror.Close()
}

func serveCmd(configPath, logLevel *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath, *logLevel, true)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := server.New(a.cfg, a.engine,
				server.WithMirror(a.mirror),
				server.WithServerLogger(a.logger))
			return srv.ListenAndServe(ctx)
		},
	}
}

func runCmd(configPath, logLevel *string) *cobra.Command {
	var (
		rounds int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "run \"idea\"",
		Short: "Run a one-shot debate and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath, *logLevel, false)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			req := debate.Request{Idea: args[0], Rounds: rounds}
			req.ApplyDefaults(a.cfg.Debate.DefaultRounds)

			result, err := a.engine.Run(ctx, req)
			if err != nil {
				return err
			}

			if asJSON {
				return json.NewEncoder(os.Stdout).Encode(result)
			}
			printTranscript(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&rounds, "rounds", 0, "Debate rounds (1-5, default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}

func printTranscript(result *debate.Result) {
	for _, u := range result.Transcript {
		name := u.Speaker
		if spec, ok := agent.ByID(u.Speaker); ok {
			name = spec.DisplayName
		}
		fmt.Printf("── %s ──\n%s\n", name, u.Text)
		if u.ArtifactURL != "" {
			fmt.Printf("   mockup: %s\n", u.ArtifactURL)
		}
		fmt.Println()
	}
	fmt.Printf("Run %s finished (%d utterances)\n", result.RunID, len(result.Transcript))
}

func diagnoseCmd(configPath, logLevel *string) *cobra.Command {
	return &cobra.Command{
		Use:   "diagnose",
		Short: "Report provider configuration without leaking secrets",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogging(*logLevel)
			cfg, err := loadConfig(*configPath, logger)
			if err != nil {
				return err
			}

			report := server.BuildDiagnostics(cfg)
			out, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}
