package history

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/medicoin/imaging-client/internal/business"
	"github.com/medicoin/imaging-client/internal/cmdutils"
	"github.com/medicoin/imaging-client/internal/config"
)

func Cmd(buildInfo string) *cobra.Command {
	var limit int

	cmd := cmdutils.CobraCommand(
		"history",
		"Show past classification results",
		"Show past classification results recorded on this device, oldest first.",
		buildInfo,
		cmdutils.Run,
		func(ctx context.Context, cfg *config.Config, _ []string) error {
			app, closeFn, err := business.NewApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			return app.History(ctx, limit)
		},
	)

	cmd.Flags().IntVar(&limit, "limit", 0, "show only the most recent entries, 0 shows all")

	return cmd
}
