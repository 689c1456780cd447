package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/Akashdeep-Patra/zed-file-browser/internal/app"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/buffer"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/config"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/keymap"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/log"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/model"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/register"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/task"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/ui"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/watcher"
)

// Build-time variables injected via ldflags by GoReleaser / Taskfile.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func init() {
	// A file browser waits on the terminal, the watcher and disk I/O. Two
	// threads cover render and dispatch; the user's GOMAXPROCS wins.
	if os.Getenv("GOMAXPROCS") == "" {
		maxProcs := 2
		if n := runtime.NumCPU(); n < maxProcs {
			maxProcs = n
		}
		runtime.GOMAXPROCS(maxProcs)
	}

	// Large directories are the main heap consumer; keep RSS bounded.
	debug.SetMemoryLimit(64 * 1024 * 1024)
}

func main() {
	rootCmd := buildRootCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "zfb:", err)
		os.Exit(1)
	}
}

type flags struct {
	selectionToFile   string
	selectionToStdout bool
	debugLog          string
}

func buildRootCmd() *cobra.Command {
	var f flags

	rootCmd := &cobra.Command{
		Use:   "zfb [path]",
		Short: "A modal terminal file browser",
		Long: `zfb is a keyboard-driven, three-pane file browser for the terminal.

The listing of a directory is an editable buffer: rename entries by
editing their line, create them by adding lines and delete them by
removing lines. Deleted entries are kept in a register and can be
pasted back.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, args, f)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"zfb %s\n  commit:  %s\n  built:   %s\n  go:      %s\n  os/arch: %s/%s\n",
		version, commit, date, runtime.Version(), runtime.GOOS, runtime.GOARCH,
	))

	rootCmd.AddCommand(buildVersionCmd())
	rootCmd.AddCommand(buildCompletionCmd())
	rootCmd.AddCommand(buildZedCmd())

	rootCmd.Flags().StringVar(&f.selectionToFile, "selection-to-file", "", "Write the opened file path to this file and quit")
	rootCmd.Flags().BoolVar(&f.selectionToStdout, "selection-to-stdout", false, "Print the opened file path and quit")
	rootCmd.Flags().StringVar(&f.debugLog, "debug-log", "", "Write the debug log to this file")

	return rootCmd
}

// buildVersionCmd creates the `zfb version` subcommand supporting --json.
func buildVersionCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(_ *cobra.Command, _ []string) error {
			info := map[string]string{
				"version": version,
				"commit":  commit,
				"date":    date,
				"go":      runtime.Version(),
				"os":      runtime.GOOS,
				"arch":    runtime.GOARCH,
			}
			if jsonOutput {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
			fmt.Printf("zfb %s (%s, %s)\n", version, commit, date)
			fmt.Printf("  go:      %s\n", runtime.Version())
			fmt.Printf("  os/arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")

	return cmd
}

func buildCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for zfb.

Examples:
  zfb completion bash > /etc/bash_completion.d/zfb
  zfb completion zsh > "${fpath[1]}/_zfb"
  zfb completion fish > ~/.config/fish/completions/zfb.fish`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
		},
	}
}

func runApp(cmd *cobra.Command, args []string, f flags) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyFlags(cmd, cfg, f)

	if err := log.SetFile(cfg.DebugLog); err != nil {
		return fmt.Errorf("opening debug log: %w", err)
	}
	defer func() { _ = log.Close() }()
	log.Infof("zfb %s starting", version)

	start, err := startPath(args)
	if err != nil {
		return err
	}

	dirs, err := register.Prepare(cfg.CacheDir)
	if err != nil {
		return fmt.Errorf("preparing register: %w", err)
	}
	defer func() {
		if err := dirs.Cleanup(); err != nil {
			log.Warnf("cleanup: %v", err)
		}
	}()

	resolver, err := keymap.New(cfg.Keys)
	if err != nil {
		return fmt.Errorf("key bindings: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	w, err := watcher.New()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer func() { _ = w.Close() }()
	w.Ignore(dirs.Staging)
	go w.Run(ctx)

	persist := app.NewPersistence(cfg.CacheDir)
	tasks := task.NewManager(ctx, task.Options{Register: dirs, History: persist.History})

	reg := register.New(dirs.Register)
	m := model.New(settings(cfg), reg)
	persist.Load(ctx, m)
	app.LoadRegister(reg, tasks)

	term := app.StartTerminal(ctx)
	a := app.New(app.Options{
		Model:       m,
		Styles:      ui.NewStyles(ui.ThemeByName(cfg.Theme)),
		Terminal:    term,
		Resolver:    resolver,
		Tasks:       tasks,
		Watcher:     w,
		Persistence: persist,
		StartPath:   start,
	})

	result, runErr := a.Run(ctx)
	if err := term.Close(); err != nil {
		log.Errorf("terminal: %v", err)
	}
	if runErr != nil {
		log.Errorf("run: %v", runErr)
	}

	if err := writeSelection(cfg, result.Payload); err != nil {
		return err
	}
	return runErr
}

// applyFlags lets explicitly set flags override the config file.
func applyFlags(cmd *cobra.Command, cfg *config.Config, f flags) {
	if cmd.Flags().Changed("selection-to-file") {
		cfg.SelectionToFile = f.selectionToFile
	}
	if cmd.Flags().Changed("selection-to-stdout") {
		cfg.SelectionToStdout = f.selectionToStdout
	}
	if cmd.Flags().Changed("debug-log") {
		cfg.DebugLog = f.debugLog
	}
}

func settings(cfg *config.Config) model.Settings {
	return model.Settings{
		OpenCommand:       cfg.OpenCommand,
		SelectionToFile:   cfg.SelectionToFile,
		SelectionToStdout: cfg.SelectionToStdout,
		ShowMarkSigns:     cfg.ShowMarkSigns,
		ShowQuickFixSigns: cfg.ShowQuickFixSigns,
		SignColumnWidth:   cfg.SignColumnWidth,
		LineNumber:        buffer.ParseLineNumber(cfg.LineNumbers),
		LineNumberWidth:   cfg.LineNumberWidth,
	}
}

func startPath(args []string) (string, error) {
	if len(args) == 1 {
		p, err := filepath.Abs(args[0])
		if err != nil {
			return "", fmt.Errorf("resolving %s: %w", args[0], err)
		}
		return p, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolving working directory: %w", err)
	}
	return wd, nil
}

// writeSelection hands the selection to the caller once the terminal is
// restored.
func writeSelection(cfg *config.Config, payload string) error {
	if payload == "" {
		return nil
	}
	if cfg.SelectionToStdout {
		fmt.Println(payload)
	}
	if cfg.SelectionToFile != "" {
		if err := os.WriteFile(cfg.SelectionToFile, []byte(payload+"\n"), 0o600); err != nil {
			return fmt.Errorf("writing selection: %w", err)
		}
	}
	return nil
}
