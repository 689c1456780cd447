package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// zedTask is one entry of Zed's tasks.json.
type zedTask struct {
	Label          string   `json:"label"`
	Command        string   `json:"command"`
	Args           []string `json:"args,omitempty"`
	Cwd            string   `json:"cwd,omitempty"`
	UseNewTerminal bool     `json:"use_new_terminal,omitempty"`
	Reveal         string   `json:"reveal,omitempty"`
	Hide           string   `json:"hide,omitempty"`
	Shell          string   `json:"shell,omitempty"`
}

const zedLabelPrefix = "zfb:"

func buildZedCmd() *cobra.Command {
	zedCmd := &cobra.Command{
		Use:   "zed",
		Short: "Manage Zed IDE integration",
		Long: `Install tasks that open zfb in Zed's terminal.

Examples:
  zfb zed install
  zfb zed status
  zfb zed uninstall`,
	}

	zedCmd.AddCommand(&cobra.Command{
		Use:   "install",
		Short: "Install global Zed tasks for zfb",
		RunE: func(_ *cobra.Command, _ []string) error {
			return updateZedTasks(func(tasks []zedTask) []zedTask {
				return append(removeManagedZedTasks(tasks), defaultZedTasks()...)
			}, "Installed zfb Zed tasks at %s\n")
		},
	})
	zedCmd.AddCommand(&cobra.Command{
		Use:   "uninstall",
		Short: "Remove global Zed tasks managed by zfb",
		RunE: func(_ *cobra.Command, _ []string) error {
			return updateZedTasks(removeManagedZedTasks, "Removed zfb Zed tasks from %s\n")
		},
	})
	zedCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show global Zed integration status",
		RunE: func(_ *cobra.Command, _ []string) error {
			path, err := zedTasksPath()
			if err != nil {
				return err
			}
			tasks, err := readZedTasks(path)
			if err != nil {
				return err
			}
			fmt.Printf("Zed tasks file: %s\n", path)
			labels := managedLabels(tasks)
			if len(labels) == 0 {
				fmt.Println("zfb integration: not installed")
				return nil
			}
			fmt.Printf("zfb integration: installed (%d task(s))\n", len(labels))
			for _, l := range labels {
				fmt.Printf("  - %s\n", l)
			}
			return nil
		},
	})

	return zedCmd
}

func updateZedTasks(change func([]zedTask) []zedTask, done string) error {
	path, err := zedTasksPath()
	if err != nil {
		return err
	}
	tasks, err := readZedTasks(path)
	if err != nil {
		return err
	}
	if err := writeZedTasks(path, change(tasks)); err != nil {
		return err
	}
	fmt.Printf(done, path)
	return nil
}

func zedTasksPath() (string, error) {
	if override := strings.TrimSpace(os.Getenv("ZFB_ZED_CONFIG_DIR")); override != "" {
		return filepath.Join(override, "tasks.json"), nil
	}
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, "zed", "tasks.json"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home dir: %w", err)
	}
	return filepath.Join(home, ".config", "zed", "tasks.json"), nil
}

func readZedTasks(path string) ([]zedTask, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read zed tasks file %s: %w", path, err)
	}

	var tasks []zedTask
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("parse zed tasks file %s: %w", path, err)
	}
	return tasks, nil
}

func writeZedTasks(path string, tasks []zedTask) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create zed config dir: %w", err)
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize zed tasks: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil { //nolint:gosec
		return fmt.Errorf("write zed tasks file %s: %w", path, err)
	}
	return nil
}

func removeManagedZedTasks(tasks []zedTask) []zedTask {
	out := make([]zedTask, 0, len(tasks))
	for _, t := range tasks {
		if !strings.HasPrefix(t.Label, zedLabelPrefix) {
			out = append(out, t)
		}
	}
	return out
}

func managedLabels(tasks []zedTask) []string {
	var labels []string
	for _, t := range tasks {
		if strings.HasPrefix(t.Label, zedLabelPrefix) {
			labels = append(labels, t.Label)
		}
	}
	return labels
}

func defaultZedTasks() []zedTask {
	task := func(label string, args ...string) zedTask {
		return zedTask{
			Label:          label,
			Command:        "zfb",
			Args:           args,
			Cwd:            "$ZED_WORKTREE_ROOT",
			UseNewTerminal: true,
			Reveal:         "always",
			Hide:           "on_success",
			Shell:          "system",
		}
	}
	pick := task("zfb: pick file and open in zed")
	pick.Command = "sh"
	pick.Args = []string{"-c", `f=$(zfb --selection-to-stdout "$ZED_DIRNAME") && [ -n "$f" ] && zed "$f"`}
	return []zedTask{
		task("zfb: browse worktree", "$ZED_WORKTREE_ROOT"),
		task("zfb: browse current file", "$ZED_FILE"),
		pick,
	}
}
