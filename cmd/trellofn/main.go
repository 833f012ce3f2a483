package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	trelloClient "github.com/egobogo/trellofn/internal/board/trello"
	"github.com/egobogo/trellofn/internal/config"
	"github.com/egobogo/trellofn/internal/config/envfile"
	"github.com/egobogo/trellofn/internal/config/filesys"
	"github.com/egobogo/trellofn/internal/function"
	"github.com/egobogo/trellofn/internal/mcpserver"
)

var version = "dev"

const usage = `Usage: trellofn [flags] <command> [args]

Commands:
  definitions              print the function definitions as JSON
  call <name> [json-args]  invoke one function and print the result
  serve                    serve the functions as MCP tools over stdio

Flags:
`

func main() {
	flags := pflag.NewFlagSet("trellofn", pflag.ContinueOnError)
	configPath := flags.StringP("config", "c", "", "YAML configuration file")
	envPath := flags.String("env", "", "dotenv file with TRELLO_* variables (default .env if present)")
	logLevel := flags.String("log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
	flags.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flags.PrintDefaults()
	}

	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	args := flags.Args()
	if len(args) == 0 {
		flags.Usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath, *envPath)
	if err != nil {
		configureLogging("info")
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	configureLogging(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, args); err != nil {
		log.Fatal().Err(err).Str("command", args[0]).Msg("Command failed")
	}
}

func run(ctx context.Context, cfg *config.Config, args []string) error {
	switch args[0] {
	case "definitions":
		var tools []map[string]any
		for _, d := range function.Definitions() {
			tools = append(tools, d.ToolDefinition())
		}
		out := json.NewEncoder(os.Stdout)
		out.SetIndent("", "  ")
		return out.Encode(tools)

	case "call":
		if len(args) < 2 {
			return fmt.Errorf("call requires a function name")
		}
		rawArgs := "{}"
		if len(args) > 2 {
			rawArgs = args[2]
		}
		catalog, err := newCatalog(cfg)
		if err != nil {
			return err
		}
		env, err := catalog.Call(ctx, args[1], json.RawMessage(rawArgs))
		if err != nil {
			return err
		}
		fmt.Println(env.Text)
		return nil

	case "serve":
		catalog, err := newCatalog(cfg)
		if err != nil {
			return err
		}
		log.Info().Str("board", cfg.BoardID).Msg("Serving Trello functions over stdio")
		return mcpserver.ServeStdio(catalog, version)

	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func newCatalog(cfg *config.Config) (*function.Catalog, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts := []trelloClient.Option{trelloClient.WithLogger(log.Logger)}
	if cfg.BaseURL != "" {
		opts = append(opts, trelloClient.WithBaseURL(cfg.BaseURL))
	}
	return function.NewTrelloCatalog(settings(cfg), opts...).WithLogger(log.Logger), nil
}

// settings maps the loaded configuration onto catalog settings.
func settings(cfg *config.Config) function.Settings {
	return function.Settings{
		Token:       cfg.Token,
		TokenSecret: cfg.TokenSecret,
		BoardID:     cfg.BoardID,
	}
}

// loadConfig reads the YAML file when given, otherwise the environment. Any
// TRELLO_* variables override file values.
func loadConfig(configPath, envPath string) (*config.Config, error) {
	if envPath == "" {
		if _, err := os.Stat(".env"); err == nil {
			envPath = ".env"
		}
	}

	if configPath == "" {
		config.SetProvider(envfile.NewEnvConfigProvider())
		if err := config.Load(envPath); err != nil {
			return nil, err
		}
		return config.GetLoadedConfig()
	}

	config.SetProvider(&filesys.FilesysConfigProvider{})
	if err := config.Load(configPath); err != nil {
		return nil, err
	}
	cfg, err := config.GetLoadedConfig()
	if err != nil {
		return nil, err
	}
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envPath, err)
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

// configureLogging writes console logs to stderr; stdout carries results and
// the MCP stream.
func configureLogging(level string) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(output)

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
