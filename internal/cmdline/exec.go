package cmdline

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Joxit/runtasktic/internal/config"
	"github.com/Joxit/runtasktic/internal/controller"
)

func newExecCommand() *cobra.Command {
	var configPath string
	var taskID string
	var background bool
	var cronExpr string

	cmd := &cobra.Command{
		Use:   "exec [-- COMMAND...]",
		Short: "Run a single configured task, or an ad-hoc command",
		Long: `exec runs either one task named by --task from a configuration file, or
an ad-hoc command given after "--", under the same standard-stream and
notification machinery as run. The literal "--config -" means "no
configuration file".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dashIdx := cmd.ArgsLenAtDash()
			var adHoc []string
			if dashIdx >= 0 {
				adHoc = args[dashIdx:]
			}
			if taskID == "" && len(adHoc) == 0 {
				return fmt.Errorf("exec requires either --task ID or a command after --")
			}
			if taskID != "" && len(adHoc) > 0 {
				return fmt.Errorf("exec accepts either --task ID or a command after --, not both")
			}

			var base *config.Configuration
			if configPath != "-" {
				path := configPath
				if path == "" {
					p, err := defaultConfigPath()
					if err != nil {
						if taskID != "" {
							return err
						}
					} else {
						path = p
					}
				}
				if path != "" {
					cfg, err := loadConfigFile(path)
					if err != nil {
						return err
					}
					base = cfg
				}
			}

			var task *config.Task
			if taskID != "" {
				if base == nil {
					return fmt.Errorf("--task %q requires a configuration file", taskID)
				}
				t, ok := base.Tasks[taskID]
				if !ok {
					return fmt.Errorf("task %q not found in configuration", taskID)
				}
				// exec runs the task's commands directly and ignores its
				// prerequisites (original src/commands/exec.rs calls
				// full_command() straight through sh -c); keeping
				// DependsOn here would wire an arc to a dependency state
				// that was never allocated in this single-task graph, so
				// copy the task without it and let it become the graph's
				// sole, natural start state.
				withoutDeps := *t
				withoutDeps.DependsOn = nil
				task = &withoutDeps
			} else {
				task = &config.Task{ID: "exec", Commands: []string{strings.Join(adHoc, " ")}}
			}

			cfg := &config.Configuration{
				Tasks:       map[string]*config.Task{task.ID: task},
				Concurrency: config.UnboundedConcurrency,
				OnFailure:   config.OnFailureContinue,
			}
			if base != nil {
				cfg.WorkingDir = base.WorkingDir
				cfg.Stdout = base.Stdout
				cfg.Stderr = base.Stderr
				cfg.OnFailure = base.OnFailure
				cfg.Notification = base.Notification
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
			return c.Run(cmd.Context(), []*config.Configuration{cfg}, controller.Options{
				Background: background,
				Cron:       schedule,
			})
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", `configuration file path, or "-" for none`)
	cmd.Flags().StringVar(&taskID, "task", "", "id of the task to run from the configuration")
	cmd.Flags().BoolVarP(&background, "background", "b", false, "daemonize and run in the background")
	cmd.Flags().StringVar(&cronExpr, "cron", "", "standard five-field cron expression; repeats the run at each matching instant")

	return cmd
}
