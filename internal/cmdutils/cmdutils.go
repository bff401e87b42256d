package cmdutils

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openkcm/common-sdk/pkg/commoncfg"
	"github.com/openkcm/common-sdk/pkg/logger"
	"github.com/openkcm/common-sdk/pkg/otlp"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	slogctx "github.com/veqryn/slog-context"

	"github.com/medicoin/imaging-client/internal/config"
)

// BusinessFunc is one CLI operation: invoked with the loaded configuration
// and the command's positional arguments.
type BusinessFunc func(context.Context, *config.Config, []string) error

// CobraCommand wires configuration loading and the given wrapper around a
// business function. Commands that need flags add them on the returned
// command and close over the values in businessFunc.
func CobraCommand(
	use, short, long, buildInfo string,
	wrapperFunc func(context.Context, BusinessFunc, *config.Config, []string) error,
	businessFunc BusinessFunc,
) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(buildInfo)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			err = wrapperFunc(cmd.Context(), businessFunc, cfg, args)
			if err != nil {
				return fmt.Errorf("running the command: %w", err)
			}

			return nil
		},
	}
}

// Run executes a business function with logging initialised.
func Run(ctx context.Context, fn BusinessFunc, cfg *config.Config, args []string) error {
	return run(ctx, false, fn, cfg, args)
}

// RunInstrumented additionally initialises the OpenTelemetry exporters, for
// commands that emit submission metrics and traces.
func RunInstrumented(ctx context.Context, fn BusinessFunc, cfg *config.Config, args []string) error {
	return run(ctx, true, fn, cfg, args)
}

func run(ctx context.Context, withTelemetry bool, fn BusinessFunc, cfg *config.Config, args []string) error {
	// LoggerConfig
	err := logger.InitAsDefault(cfg.Logger, cfg.Application)
	if err != nil {
		return oops.In("main").
			Wrapf(err, "Failed to initialise the logger")
	}
	slogctx.Debug(ctx, "Starting the application", slog.Any("config", cfg))

	// OpenTelemetry
	if withTelemetry {
		err = otlp.Init(ctx, &cfg.Application, &cfg.Telemetry, &cfg.Logger)
		if err != nil {
			return oops.In("main").Wrapf(err, "Failed to load the telemetry")
		}
	}

	// Business Logic
	err = fn(ctx, cfg, args)
	if err != nil {
		return oops.In("main").Wrapf(err, "Failed to run the command")
	}

	return nil
}

func LoadConfig(buildInfo string) (*config.Config, error) {
	defaultValues := map[string]any{}
	cfg := &config.Config{}

	err := commoncfg.LoadConfig(
		cfg,
		defaultValues,
		"/etc/imaging-client",
		"$HOME/.imaging-client",
		".",
	)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	// Update Version
	err = commoncfg.UpdateConfigVersion(
		&cfg.BaseConfig,
		buildInfo,
	)
	if err != nil {
		return nil, fmt.Errorf("updating the version configuration: %w", err)
	}

	return cfg, nil
}
