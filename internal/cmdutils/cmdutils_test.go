package cmdutils

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medicoin/imaging-client/internal/config"
)

func TestCobraCommand(t *testing.T) {
	businessFunc := func(ctx context.Context, cfg *config.Config, args []string) error {
		return nil
	}

	passthrough := func(ctx context.Context, fn BusinessFunc, cfg *config.Config, args []string) error {
		return fn(ctx, cfg, args)
	}

	t.Run("creates command with correct properties", func(t *testing.T) {
		cmd := CobraCommand("test-cmd", "short desc", "long description", "v1.0.0", passthrough, businessFunc)

		assert.Equal(t, "test-cmd", cmd.Use)
		assert.Equal(t, "short desc", cmd.Short)
		assert.Equal(t, "long description", cmd.Long)
		assert.NotNil(t, cmd.RunE)
	})

	t.Run("RunE returns error when config loading fails", func(t *testing.T) {
		cmd := CobraCommand("test", "short", "long", "v1.0.0", passthrough, businessFunc)

		// Execute will fail because no config file exists
		err := cmd.Execute()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "loading config")
	})

	t.Run("RunE returns error when wrapper function fails", func(t *testing.T) {
		wrapperErr := errors.New("wrapper error")
		failing := func(ctx context.Context, fn BusinessFunc, cfg *config.Config, args []string) error {
			return wrapperErr
		}

		cmd := CobraCommand("test", "short", "long", "v1.0.0", failing, businessFunc)

		// Execute will fail because no config file exists (before reaching wrapper)
		err := cmd.Execute()
		assert.Error(t, err)
	})
}
