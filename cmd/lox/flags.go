package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

type cliOptions struct {
	logLevel slog.Level
}

func (o cliOptions) logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: o.logLevel}))
}

// parseGlobalFlags strips the flags accepted before any subcommand. The log
// level defaults to $LOX_LOG_LEVEL, then warn.
func parseGlobalFlags(args []string) (cliOptions, []string, error) {
	opts := cliOptions{logLevel: slog.LevelWarn}
	if env := strings.TrimSpace(os.Getenv("LOX_LOG_LEVEL")); env != "" {
		level, err := parseLogLevel(env)
		if err != nil {
			return opts, nil, fmt.Errorf("LOX_LOG_LEVEL: %w", err)
		}
		opts.logLevel = level
	}

	remaining := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			remaining = append(remaining, args[i+1:]...)
			break
		}
		switch {
		case arg == "--verbose" || arg == "-v":
			opts.logLevel = slog.LevelDebug
		case arg == "--log-level":
			if i+1 >= len(args) {
				return opts, nil, fmt.Errorf("--log-level expects a value")
			}
			level, err := parseLogLevel(args[i+1])
			if err != nil {
				return opts, nil, err
			}
			opts.logLevel = level
			i++
		case strings.HasPrefix(arg, "--log-level="):
			level, err := parseLogLevel(strings.TrimPrefix(arg, "--log-level="))
			if err != nil {
				return opts, nil, err
			}
			opts.logLevel = level
		default:
			remaining = append(remaining, arg)
		}
	}
	return opts, remaining, nil
}

func parseLogLevel(value string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return slog.LevelWarn, fmt.Errorf("--log-level expects a value")
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("unknown log level '%s' (expected debug, info, warn, or error)", value)
	}
}
