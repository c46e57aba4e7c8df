package commands

import (
	"fmt"
	"io"
	"log"

	"github.com/decker502/actionlist/pkg/config"
	"github.com/decker502/actionlist/pkg/game"
	"github.com/quasilyte/gdata/v2"
	"github.com/spf13/cobra"
)

var (
	appName string
	verbose bool
)

// NewRootCmd 创建根命令
func NewRootCmd() *cobra.Command {
	defaultApp := game.DefaultAppName
	if env, err := config.LoadAppEnv(); err == nil {
		defaultApp = env.AppName
	}

	cmd := &cobra.Command{
		Use:   "savetool",
		Short: "Inspect action list saves and validate scene files",
		Long: `savetool works on the save slots written by the action list demo.

Slots are read from the same gdata storage the game uses, selected
by --app (ACTIONLIST_APP_NAME in the environment or .env).

Examples:
  savetool list
  savetool show autosave
  savetool delete quick --app actionlist_demo
  savetool validate data/scenes/prologue.yaml`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if !verbose {
				log.SetOutput(io.Discard)
			}
		},
	}

	cmd.PersistentFlags().StringVar(&appName, "app", defaultApp, "gdata application name of the save storage")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show internal log output")

	cmd.AddCommand(NewListCmd())
	cmd.AddCommand(NewShowCmd())
	cmd.AddCommand(NewDeleteCmd())
	cmd.AddCommand(NewValidateCmd())

	return cmd
}

// Execute 运行根命令
func Execute() error {
	return NewRootCmd().Execute()
}

// openSaves 打开 --app 指定的存档存储
// 命令行工具不接受降级模式：存储打不开时直接报错
func openSaves() (*game.SaveManager, error) {
	if appName == "" {
		return nil, fmt.Errorf("--app must not be empty")
	}
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("opening save storage %s: %w", appName, err)
	}
	saves, err := game.NewSaveManager(manager)
	if err != nil {
		return nil, fmt.Errorf("opening save index: %w", err)
	}
	return saves, nil
}
