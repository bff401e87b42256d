package analyze

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/medicoin/imaging-client/internal/business"
	"github.com/medicoin/imaging-client/internal/cmdutils"
	"github.com/medicoin/imaging-client/internal/config"
)

func Cmd(buildInfo string) *cobra.Command {
	var task, output, artifactDir string

	cmd := cmdutils.CobraCommand(
		"analyze <image>",
		"Submit an image for analysis",
		"Submit a medical image for analysis. Classification results are recorded in the local history; segmentation results are written to a file.",
		buildInfo,
		cmdutils.RunInstrumented,
		func(ctx context.Context, cfg *config.Config, args []string) error {
			app, closeFn, err := business.NewApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			return app.Analyze(ctx, business.AnalyzeRequest{
				Path:        args[0],
				Task:        task,
				Output:      output,
				ArtifactDir: artifactDir,
			})
		},
	)

	cmd.Args = cobra.ExactArgs(1)
	cmd.Flags().StringVar(&task, "task", "classification", "analysis task: classification or segmentation")
	cmd.Flags().StringVar(&output, "output", "", "segmentation image output path")
	cmd.Flags().StringVar(&artifactDir, "artifact-dir", "", "download result artifacts into this directory")

	return cmd
}
