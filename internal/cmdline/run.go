package cmdline

import (
	"github.com/spf13/cobra"

	"github.com/Joxit/runtasktic/internal/config"
	"github.com/Joxit/runtasktic/internal/controller"
)

func newRunCommand() *cobra.Command {
	var starts []string
	var background bool
	var cronExpr string

	cmd := &cobra.Command{
		Use:   "run CONFIG...",
		Short: "Execute one or more task graphs",
		Long: `run executes the task graph described by one or more configuration
files. When several configuration files are given, override starts
(--start) apply only to the first one.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgs := make([]*config.Configuration, 0, len(args))
			for _, path := range args {
				cfg, err := loadConfigFile(path)
				if err != nil {
					return err
				}
				cfgs = append(cfgs, cfg)
			}

			schedule, err := parseCronFlag(cronExpr)
			if err != nil {
				return err
			}

			if background {
				isChild, err := daemonize()
				if err != nil {
					return err
				}
				if !isChild {
					return nil
				}
			}

			c := controller.New(nil)
			return c.Run(cmd.Context(), cfgs, controller.Options{
				OverrideStarts: starts,
				Background:     background,
				Cron:           schedule,
			})
		},
	}

	cmd.Flags().StringArrayVar(&starts, "start", nil, "override entry point task id (repeatable); applies only to the first CONFIG")
	cmd.Flags().BoolVarP(&background, "background", "b", false, "daemonize and run in the background")
	cmd.Flags().StringVar(&cronExpr, "cron", "", "standard five-field cron expression; repeats the run at each matching instant")

	return cmd
}
