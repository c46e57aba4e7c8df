package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/decker502/actionlist/pkg/game"
	"github.com/spf13/cobra"
)

var showRaw bool

// NewShowCmd 创建 show 命令
func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <slot>",
		Short: "Show the contents of a save slot",
		Long: `Show the scene, player, variables and list records stored in a slot.

With --raw the stored YAML document is printed unchanged.

Examples:
  savetool show autosave
  savetool show quick --raw`,
		Args: cobra.ExactArgs(1),
		RunE: runShow,
	}

	cmd.Flags().BoolVar(&showRaw, "raw", false, "Print the stored YAML document")

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	slot := args[0]
	if err := game.ValidateSlot(slot); err != nil {
		return err
	}
	saves, err := openSaves()
	if err != nil {
		return err
	}
	raw, err := saves.Export(slot)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if showRaw {
		_, err := out.Write(raw)
		return err
	}

	data, err := game.ParseSaveData(raw)
	if err != nil {
		return fmt.Errorf("slot %s: %w", slot, err)
	}

	fmt.Fprintf(out, "Slot:    %s\n", slot)
	fmt.Fprintf(out, "Version: %d\n", data.Version)
	fmt.Fprintf(out, "Saved:   %s\n", data.SavedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Scene:   %s\n", data.Scene)
	fmt.Fprintf(out, "Player:  %d\n", data.Player)

	names := make([]string, 0, len(data.Variables))
	for name := range data.Variables {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintf(out, "Variables (%d):\n", len(names))
	for _, name := range names {
		fmt.Fprintf(out, "  %s = %d\n", name, data.Variables[name])
	}

	scenes := make([]string, 0, len(data.Lists.SceneLists))
	for scene := range data.Lists.SceneLists {
		scenes = append(scenes, scene)
	}
	sort.Strings(scenes)
	fmt.Fprintln(out, "Scene lists:")
	for _, scene := range scenes {
		fmt.Fprintf(out, "  [%s]\n", scene)
		fmt.Fprint(out, indent(data.Lists.SceneLists[scene], "    "))
	}
	if strings.TrimSpace(data.Lists.AssetLists) != "" {
		fmt.Fprintln(out, "Asset lists:")
		fmt.Fprint(out, indent(data.Lists.AssetLists, "    "))
	}
	return nil
}
