package commands

import (
	"fmt"

	"github.com/decker502/actionlist/pkg/game"
	"github.com/spf13/cobra"
)

// NewDeleteCmd 创建 delete 命令
func NewDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <slot>",
		Short: "Delete a save slot",
		Long: `Delete a save slot and remove it from the slot index.

Examples:
  savetool delete quick`,
		Args: cobra.ExactArgs(1),
		RunE: runDelete,
	}
	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	slot := args[0]
	if err := game.ValidateSlot(slot); err != nil {
		return err
	}
	saves, err := openSaves()
	if err != nil {
		return err
	}
	if err := saves.DeleteSlot(slot); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted slot %s\n", slot)
	return nil
}
