package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"fo-go/internal/app"
	"fo-go/internal/config"
	"fo-go/internal/organizer"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer
// a.Close(). operation identifies the CLI command being run (e.g.
// "Scan", "Organize").
func newApp(operation string) (*app.App, error) {
	cfg, err := readConfig()
	if err != nil {
		return nil, err
	}

	a, err := app.NewApp(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

func readConfig() (*config.Config, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return cfg, nil
}

func parseMode(s string) (organizer.DuplicateMode, error) {
	switch organizer.DuplicateMode(s) {
	case organizer.CompareContent, organizer.CompareName, organizer.CompareSize, organizer.CompareAll:
		return organizer.DuplicateMode(s), nil
	}
	return "", fmt.Errorf("unknown mode %q (want content, name, size, or all)", s)
}

func parseStrategy(s string) (organizer.KeepStrategy, error) {
	switch organizer.KeepStrategy(s) {
	case organizer.KeepOldest, organizer.KeepNewest, organizer.KeepSmallest,
		organizer.KeepLargest, organizer.KeepShortestName:
		return organizer.KeepStrategy(s), nil
	}
	return "", fmt.Errorf("unknown strategy %q (want oldest, newest, smallest, largest, or shortest_name)", s)
}

// confirm prompts on the terminal and accepts "y" or "yes". A
// non-terminal stdin counts as a refusal.
func confirm(prompt string) bool {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "stdin is not a terminal; use --yes to confirm non-interactively")
		return false
	}
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

var rootCmd = &cobra.Command{
	Use:   "fo",
	Short: "Personal file organizer",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init [SOURCE]",
	Short: "Initialize configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		source := "."
		if len(args) > 0 {
			source = args[0]
		}
		absSource, err := filepath.Abs(source)
		if err != nil {
			return fmt.Errorf("resolving source root: %w", err)
		}

		cfg := config.NewConfig(absSource, defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Source root:    %s\n", cfg.SourceRoot)
		fmt.Printf("Organized root: %s\n", cfg.OrganizedRoot)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Source root:    %s\n", cfg.SourceRoot)
		fmt.Printf("Organized root: %s\n", cfg.OrganizedRoot)
		fmt.Printf("Log dir:        %s\n", cfg.LogDir)
		fmt.Printf("Dry run:        %v\n", cfg.DryRun)
		fmt.Printf("Max batch size: %d\n", cfg.MaxBatchSize)
		fmt.Printf("Backup:         enabled=%v required=%v type=%s\n",
			cfg.Backup.Enabled, cfg.Backup.Required, cfg.Backup.Type)
		fmt.Printf("Categories:     %d\n", len(cfg.Categories))
		fmt.Printf("Custom rules:   %d\n", len(cfg.Rules))
		return nil
	},
}

// scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan and classify without moving anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Scan")
		if err != nil {
			return err
		}
		defer a.Close()

		scan, err := a.Scan()
		if err != nil {
			return err
		}

		intents := a.Plan(scan)
		fmt.Print(app.RenderPreview(intents))
		fmt.Print(app.RenderFlagged(scan.Flagged))
		fmt.Print(app.RenderStats(&scan.Stats, true))
		return nil
	},
}

// organize command
var organizeCmd = &cobra.Command{
	Use:   "organize",
	Short: "Classify and move files into the organized tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		cfg, err := readConfig()
		if err != nil {
			return err
		}
		// An explicit --dry-run[=false] overrides the config default
		// either way.
		if cmd.Flags().Changed("dry-run") {
			cfg.DryRun, _ = cmd.Flags().GetBool("dry-run")
		}

		a, err := app.NewApp(cfg, "Organize")
		if err != nil {
			return fmt.Errorf("initializing app: %w", err)
		}
		defer a.Close()

		scan, err := a.Scan()
		if err != nil {
			return err
		}

		intents := a.Plan(scan)
		fmt.Print(app.RenderPreview(intents))
		fmt.Print(app.RenderFlagged(scan.Flagged))
		if len(intents) == 0 {
			return nil
		}

		if len(intents) > a.MaxBatchSize() {
			return fmt.Errorf("refusing to move %d files at once (max_batch_size is %d); organize a subtree or raise the limit",
				len(intents), a.MaxBatchSize())
		}

		if !a.DryRun() && !yes {
			if !confirm(fmt.Sprintf("Move %d files?", len(intents))) {
				fmt.Println("Aborted.")
				return nil
			}
		}

		// Ctrl-C finishes the current file and flushes the journal.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		go func() {
			<-sigCh
			fmt.Fprintln(os.Stderr, "stopping after current file...")
			a.Stop()
		}()

		sessionID, stats, err := a.Organize(scan)
		if err != nil {
			return err
		}

		fmt.Print(app.RenderStats(stats, a.DryRun()))
		if !a.DryRun() && stats.Moved > 0 {
			fmt.Printf("Session %s (undo with: fo undo --session %s)\n", sessionID, sessionID)
		}
		return nil
	},
}

// find command
var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Search the source tree by name, size, or age",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		glob, _ := cmd.Flags().GetString("glob")
		exts, _ := cmd.Flags().GetStringSlice("ext")
		minSize, _ := cmd.Flags().GetInt64("min-size")
		maxSize, _ := cmd.Flags().GetInt64("max-size")
		olderThan, _ := cmd.Flags().GetInt("older-than")
		newerThan, _ := cmd.Flags().GetInt("newer-than")

		a, err := newApp("Find")
		if err != nil {
			return err
		}
		defer a.Close()

		found, err := a.Find(organizer.FindQuery{
			NameContains: name,
			NameGlob:     glob,
			Extensions:   exts,
			MinBytes:     minSize,
			MaxBytes:     maxSize,
			MinAgeDays:   olderThan,
			MaxAgeDays:   newerThan,
		})
		if err != nil {
			return err
		}

		fmt.Print(app.RenderFound(found))
		return nil
	},
}

// dup command
var dupCmd = &cobra.Command{
	Use:   "dup",
	Short: "Find and resolve duplicate files",
	RunE: func(cmd *cobra.Command, args []string) error {
		modeFlag, _ := cmd.Flags().GetString("mode")
		strategyFlag, _ := cmd.Flags().GetString("strategy")
		resolve, _ := cmd.Flags().GetBool("resolve")
		apply, _ := cmd.Flags().GetBool("apply")
		reviewDir, _ := cmd.Flags().GetString("review")

		mode, err := parseMode(modeFlag)
		if err != nil {
			return err
		}
		strategy, err := parseStrategy(strategyFlag)
		if err != nil {
			return err
		}

		a, err := newApp("Duplicates")
		if err != nil {
			return err
		}
		defer a.Close()

		scan, err := a.Scan()
		if err != nil {
			return err
		}

		groups, err := a.CheckDuplicates(scan, mode)
		if err != nil {
			return err
		}

		summary := organizer.Summarize(groups)
		fmt.Print(app.RenderDuplicates(groups, summary, func(g *organizer.DuplicateGroup) *organizer.FileRecord {
			return organizer.RecommendKeep(g, strategy)
		}))
		if len(groups) == 0 {
			return nil
		}

		switch {
		case reviewDir != "":
			if !apply {
				// One file per group stays put; only the rest move.
				fmt.Printf("Would move %d files to %s (use --apply)\n",
					summary.DuplicateFiles-summary.Groups, reviewDir)
				return nil
			}
			moved, failed := a.ReviewDuplicates(groups, strategy, reviewDir)
			fmt.Printf("Moved %d files to %s", moved, reviewDir)
			if failed > 0 {
				fmt.Printf(" (%d failed)", failed)
			}
			fmt.Println()

		case resolve:
			dryRun := !apply
			if apply && !confirm(fmt.Sprintf("Delete %d duplicate files?", summary.DuplicateFiles)) {
				fmt.Println("Aborted.")
				return nil
			}
			res := a.ResolveDuplicates(groups, strategy, dryRun)
			fmt.Print(app.RenderResolution(res, dryRun))
		}

		return nil
	},
}

// undo command
var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Reverse an organize session",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")
		list, _ := cmd.Flags().GetBool("list")

		a, err := newApp("Undo")
		if err != nil {
			return err
		}
		defer a.Close()

		if list {
			fmt.Print(app.RenderSessions(a.UndoableSessions()))
			return nil
		}

		res, err := a.Undo(sessionID)
		if err != nil {
			return err
		}

		fmt.Print(app.RenderUndo(res))
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View past organize sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		totals, _ := cmd.Flags().GetBool("totals")

		a, err := newApp("History")
		if err != nil {
			return err
		}
		defer a.Close()

		if totals {
			t, err := a.HistoryTotals()
			if err != nil {
				return err
			}
			fmt.Print(app.RenderTotals(t))
			return nil
		}

		sessions, err := a.RecentSessions(limit)
		if err != nil {
			return err
		}
		fmt.Print(app.RenderHistory(sessions))
		return nil
	},
}

// watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the source tree and re-scan on changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		debounce, _ := cmd.Flags().GetDuration("debounce")

		a, err := newApp("Watch")
		if err != nil {
			return err
		}
		defer a.Close()

		onSettle := func() error {
			scan, err := a.Scan()
			if err != nil {
				return err
			}
			intents := a.Plan(scan)
			fmt.Print(app.RenderPreview(intents))

			groups, err := a.CheckDuplicates(scan, organizer.CompareContent)
			if err != nil {
				return err
			}
			if len(groups) > 0 {
				summary := organizer.Summarize(groups)
				fmt.Print(app.RenderDuplicates(groups, summary, func(g *organizer.DuplicateGroup) *organizer.FileRecord {
					return organizer.RecommendKeep(g, organizer.KeepOldest)
				}))
			}
			return nil
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		fmt.Printf("Watching %s (Ctrl-C to stop)\n", a.SourceRoot())
		watcher := app.NewWatcher(a.SourceRoot(), debounce, a.Logger(), onSettle)
		if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	organizeCmd.Flags().Bool("dry-run", false, "Preview without moving (overrides config)")
	organizeCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")

	findCmd.Flags().String("name", "", "Match names containing this text")
	findCmd.Flags().String("glob", "", "Match names against a glob pattern")
	findCmd.Flags().StringSlice("ext", nil, "Match these extensions (e.g. pdf,docx)")
	findCmd.Flags().Int64("min-size", 0, "Minimum size in bytes")
	findCmd.Flags().Int64("max-size", 0, "Maximum size in bytes")
	findCmd.Flags().Int("older-than", 0, "Only files not modified for this many days")
	findCmd.Flags().Int("newer-than", 0, "Only files modified within this many days")

	dupCmd.Flags().String("mode", "content", "Comparison mode: content, name, size, all")
	dupCmd.Flags().String("strategy", "oldest", "Keep strategy: oldest, newest, smallest, largest, shortest_name")
	dupCmd.Flags().Bool("resolve", false, "Resolve groups with the keep strategy")
	dupCmd.Flags().Bool("apply", false, "Actually delete or move (default is a dry run)")
	dupCmd.Flags().String("review", "", "Move duplicates to this directory instead of deleting")

	undoCmd.Flags().String("session", "", "Session ID to undo (default: most recent)")
	undoCmd.Flags().Bool("list", false, "List undoable sessions")

	historyCmd.Flags().IntP("limit", "n", 20, "Maximum number of sessions to show")
	historyCmd.Flags().Bool("totals", false, "Show all-time totals")

	watchCmd.Flags().Duration("debounce", 2*time.Second, "Settle interval before re-scanning")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(organizeCmd)
	rootCmd.AddCommand(dupCmd)
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(watchCmd)
}
