package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewListCmd 创建 list 命令
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List save slots",
		Long: `List every save slot with the scene it was saved in and when.

Examples:
  savetool list
  savetool list --app my_game`,
		Args: cobra.NoArgs,
		RunE: runList,
	}
	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	saves, err := openSaves()
	if err != nil {
		return err
	}
	slots, err := saves.ListSlots()
	if err != nil {
		return fmt.Errorf("listing slots: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(slots) == 0 {
		fmt.Fprintln(out, "No save slots.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SLOT\tSCENE\tSAVED")
	for _, info := range slots {
		fmt.Fprintf(w, "%s\t%s\t%s\n", info.Slot, info.Scene, formatTime(info.SavedAt))
	}
	return w.Flush()
}
