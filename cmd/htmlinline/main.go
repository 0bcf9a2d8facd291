package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-htmlinline/pkg/config"
	"github.com/goliatone/go-htmlinline/pkg/inliner"
	"github.com/goliatone/go-htmlinline/pkg/prompt"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, prompt.NewSurvey())
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, driver prompt.Driver) int {
	flags := flag.NewFlagSet("htmlinline", flag.ContinueOnError)
	flags.SetOutput(stderr)
	dir := flags.String("dir", ".", "directory holding the template and assets")
	configPath := flags.String("config", "", "plan file (defaults to "+config.DefaultFileName+" when present)")
	variantName := flags.String("variant", "", "script-and-style or script-only")
	output := flags.String("output", "", "output file relative to -dir, overrides the plan")
	toStdout := flags.Bool("stdout", false, "print the page instead of writing it")
	confirm := flags.Bool("confirm", false, "ask before overwriting an existing output")
	logLevel := flags.String("log-level", "info", "log level: debug, info, warn, error")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if flags.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(flags.Args(), " "))
		return 2
	}

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(stderr, "invalid -log-level %q\n", *logLevel)
		return 2
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr, NoColor: true}).
		Level(level).
		With().Timestamp().
		Logger()

	variant, err := inliner.ParseVariant(*variantName)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	plan, source, err := resolvePlan(*dir, *configPath, variant, *variantName != "")
	if err != nil {
		logger.Error().Err(err).Msg("load plan")
		return 1
	}
	if *output != "" {
		plan.Output = *output
	}
	logger.Debug().
		Str("plan", source).
		Str("template", plan.Template).
		Str("output", plan.Output).
		Int("assets", len(plan.Assets)).
		Msg("plan resolved")

	in := inliner.New(plan, inliner.WithDir(*dir))

	if *toStdout {
		result, err := in.Render(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("inline failed")
			return 1
		}
		logAssets(logger, result)
		if _, err := io.WriteString(stdout, result.Output); err != nil {
			logger.Error().Err(err).Msg("write stdout")
			return 1
		}
		return 0
	}

	if *confirm {
		proceed, err := confirmOverwrite(ctx, driver, in.OutputPath())
		if err != nil {
			logger.Error().Err(err).Msg("confirm overwrite")
			return 1
		}
		if !proceed {
			logger.Warn().Str("path", in.OutputPath()).Msg("output left unchanged")
			return 0
		}
	}

	result, err := in.Run(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("inline failed")
		return 1
	}
	logAssets(logger, result)
	logger.Info().
		Str("path", result.Path).
		Int("bytes", len(result.Output)).
		Msg("page written")
	return 0
}

// resolvePlan picks the explicit plan file, then dir/inline.yaml, then the
// built-in plan for variant.
func resolvePlan(dir, configPath string, variant inliner.Variant, forceVariant bool) (inliner.Plan, string, error) {
	var opts []config.Option
	if forceVariant {
		opts = append(opts, config.WithVariant(variant))
	}

	if configPath != "" {
		if !filepath.IsAbs(configPath) {
			configPath = filepath.Join(dir, configPath)
		}
		plan, err := config.Load(configPath, opts...)
		return plan, configPath, err
	}

	candidate := filepath.Join(dir, config.DefaultFileName)
	if _, err := os.Stat(candidate); err == nil {
		plan, err := config.Load(candidate, opts...)
		return plan, candidate, err
	} else if !errors.Is(err, fs.ErrNotExist) {
		return inliner.Plan{}, candidate, err
	}

	return config.Default(variant), "built-in:" + string(variant), nil
}

func confirmOverwrite(ctx context.Context, driver prompt.Driver, path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return true, nil
		}
		return false, err
	}
	if driver == nil {
		return false, errors.New("no prompt driver configured")
	}
	return driver.Confirm(ctx, prompt.ConfirmConfig{
		Message: fmt.Sprintf("Overwrite %s?", path),
		Help:    "The existing file is replaced with the inlined page.",
	})
}

func logAssets(logger zerolog.Logger, result inliner.Result) {
	for _, asset := range result.Assets {
		event := logger.Debug().
			Str("asset", asset.Name).
			Str("path", asset.Path).
			Int("replacements", asset.Replacements)
		switch {
		case asset.Skipped:
			event.Msg("asset missing, skipped")
		case asset.Replacements == 0:
			event.Msg("marker not found")
		default:
			event.Msg("asset inlined")
		}
	}
}
