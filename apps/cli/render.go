package main

import (
	"time"

	"github.com/spf13/cobra"
)

func (c *cli) renderCommand() *cobra.Command {
	var flags layoutFlags
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write the poster PDF, one page per tile",
		Example: `  tileprint render --in photo.jpg --out poster.pdf --wide 3
  tileprint render --config poster.yaml --dpi 150`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			file, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			job, err := file.Job()
			if err != nil {
				return err
			}

			res, err := c.newRunner().Execute(cmd.Context(), job)
			if err != nil {
				return err
			}
			c.logger.Info("poster ready",
				"output", res.Output,
				"pages", res.Plan.Pages(),
				"tiles", len(res.Tiles),
				"uploaded", len(res.Uploaded),
				"elapsed", res.Elapsed.Round(time.Millisecond))
			return nil
		},
	}
	flags.bind(cmd)
	flags.bindOutput(cmd)
	return cmd
}
