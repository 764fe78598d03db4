package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MeKo-Tech/texforge/internal/project"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List built-in texture presets",
	Long:  "List the built-in texture presets, optionally writing them out as editable project files.",
	RunE:  runPresets,
}

func init() {
	rootCmd.AddCommand(presetsCmd)

	presetsCmd.Flags().String("write", "", "Write each preset as a project JSON file into this directory")

	if err := viper.BindPFlag("presets.write", presetsCmd.Flags().Lookup("write")); err != nil {
		panic(fmt.Sprintf("failed to bind flag: %v", err))
	}
}

func runPresets(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	writeDir := viper.GetString("presets.write")
	if writeDir != "" {
		if err := os.MkdirAll(writeDir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", writeDir, err)
		}
	}

	for _, name := range project.PresetNames() {
		proj, err := project.NewPreset(name)
		if err != nil {
			return err
		}

		kinds := make([]string, 0, len(proj.Layers))
		for _, l := range proj.Layers {
			kinds = append(kinds, string(l.Kind))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-8s %2d layers  %s\n", name, len(proj.Layers), strings.Join(kinds, ", "))

		if writeDir != "" {
			path := filepath.Join(writeDir, name+".json")
			if err := proj.Save(path); err != nil {
				return fmt.Errorf("failed to write preset %q: %w", name, err)
			}
			logger.Info("Preset written", "name", name, "path", path)
		}
	}

	return nil
}
