package commands

import (
	"fmt"
	"os"

	"github.com/decker502/actionlist/pkg/config"
	"github.com/decker502/actionlist/pkg/script"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewValidateCmd 创建 validate 命令
func NewValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Validate scene and asset list files",
		Long: `Parse scene files and asset list files and build every action list
they define, reporting unknown instructions, bad parameters and
invalid jump targets without starting the game.

A file with top-level "steps" is treated as an asset list,
anything else as a scene.

Examples:
  savetool validate data/scenes/prologue.yaml
  savetool validate data/assets/*.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: runValidate,
	}
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	reg := script.NewRegistry()
	out := cmd.OutOrStdout()

	failed := 0
	for _, path := range args {
		summary, err := validateFile(path, reg)
		if err != nil {
			failed++
			fmt.Fprintf(out, "FAIL  %s: %v\n", path, err)
			continue
		}
		fmt.Fprintf(out, "ok    %s: %s\n", path, summary)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed validation", failed, len(args))
	}
	return nil
}

// validateFile 校验单个文件，返回摘要
func validateFile(path string, reg *script.Registry) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	var probe map[string]yaml.Node
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return "", fmt.Errorf("parsing YAML: %w", err)
	}

	if _, isList := probe["steps"]; isList {
		cfg, err := config.ParseSequenceConfig(data)
		if err != nil {
			return "", err
		}
		def, err := script.BuildDefinition(cfg, reg, nil)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("asset list %s, %d steps", def.Name(), len(def.Steps())), nil
	}

	scene, err := config.ParseSceneConfig(data)
	if err != nil {
		return "", err
	}
	steps := 0
	for i := range scene.Sequences {
		def, err := script.BuildDefinition(&scene.Sequences[i], reg, nil)
		if err != nil {
			return "", err
		}
		steps += len(def.Steps())
	}
	return fmt.Sprintf("scene %s, %d lists, %d steps", scene.Name, len(scene.Sequences), steps), nil
}
