package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/reclaim-sh/reclaim/internal/cleaner"
	"github.com/reclaim-sh/reclaim/internal/config"
	"github.com/reclaim-sh/reclaim/internal/log"
	"github.com/reclaim-sh/reclaim/internal/protect"
	"github.com/reclaim-sh/reclaim/internal/reporter"
	"github.com/reclaim-sh/reclaim/internal/scanner"
)

var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var (
	configPath string
	verbose    bool
	dryRun     bool
	force      bool
	includeDev bool
	outputFmt  string
	outputFile string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "reclaim",
	Short: "Find and reclaim wasted disk space on your Mac",
	Long: `Reclaim scans the caches, build artifacts, and forgotten data that
quietly eat your disk, groups them by how safe they are to remove, and
cleans only what you approve.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetDebugMode(verbose)
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for reclaimable space",
	Long:  `Scans every known category and reports what could be cleaned, without touching anything.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cmd.Flags().Changed("include-dev") {
			cfg.IncludeDev = includeDev
		}

		orch := scanner.New()
		opts := scanner.Options{
			IncludeDev: cfg.IncludeDev,
			MaxWorkers: cfg.MaxWorkers,
			Progress: func(name string, done, total int) {
				log.Debug("scanned %s (%d/%d)", name, done, total)
			},
		}

		fmt.Println("Scanning...")
		results, err := orch.ScanAll(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}

		if outputFile != "" {
			return reporter.SaveToFile(results, outputFile, parseFormat(outputFmt))
		}
		return reporter.New(os.Stdout, parseFormat(outputFmt)).Report(results)
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean [category...]",
	Short: "Clean categories by id, or everything safe",
	Long: `Cleans the named categories, or every safe category when none are
given. Use --dry-run to preview what would be removed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cmd.Flags().Changed("dry-run") {
			cfg.DryRun = dryRun
		}

		orch := scanner.New()
		store := protect.NewStore(cfg.ProtectionFile)
		runner := cleaner.New(orch.Registry(), orch.Sizer(), store)

		if len(args) > 0 {
			var estimated int64
			for _, id := range args {
				if r, err := orch.ScanCategory(cmd.Context(), id); err == nil {
					estimated += r.SizeBytes
				}
			}
			if err := runner.ValidateRequest(args, estimated); err != nil {
				return err
			}
			if !confirm(cfg.DryRun, fmt.Sprintf("Clean %d categories (~%s)?", len(args), humanize.Bytes(uint64(estimated)))) {
				fmt.Println("Cleanup cancelled")
				return nil
			}
			return reporter.New(os.Stdout, parseFormat(outputFmt)).
				ReportCleanup(runner.CleanCategories(cmd.Context(), args, cfg.DryRun))
		}

		if !confirm(cfg.DryRun, "Clean all safe categories?") {
			fmt.Println("Cleanup cancelled")
			return nil
		}
		return reporter.New(os.Stdout, parseFormat(outputFmt)).
			ReportCleanup(runner.CleanSafeItems(cmd.Context(), cfg.DryRun))
	},
}

var diskCmd = &cobra.Command{
	Use:   "disk [mount]",
	Short: "Show disk capacity and free space",
	RunE: func(cmd *cobra.Command, args []string) error {
		mount := "/"
		if len(args) > 0 {
			mount = args[0]
		}
		du, err := scanner.ReadDiskUsage(cmd.Context(), mount)
		if err != nil {
			return fmt.Errorf("failed to read disk usage: %w", err)
		}
		return reporter.New(os.Stdout, parseFormat(outputFmt)).ReportDisk(du)
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List known cleanup categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		orch := scanner.New()
		for _, cat := range orch.Registry().All() {
			kind := "fixed"
			if cat.IsRecursive() {
				kind = "recursive"
			}
			fmt.Printf("%-22s %-8s %-10s %s\n", cat.ID, string(cat.RiskLevel), kind, cat.Description)
		}
		return nil
	},
}

var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "Break down application caches by app",
	RunE: func(cmd *cobra.Command, args []string) error {
		orch := scanner.New()
		caches, err := orch.AppCachesBreakdown(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to scan application caches: %w", err)
		}
		for _, c := range caches {
			fmt.Printf("%-12s %-30s %s\n", humanize.Bytes(uint64(c.SizeBytes)), c.Name, c.Path)
		}
		return nil
	},
}

var largeFilesCmd = &cobra.Command{
	Use:   "largefiles [root]",
	Short: "Find the largest files under a directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "~"
		if len(args) > 0 {
			root = args[0]
		}
		files, err := scanner.FindLargeFiles(cmd.Context(), root, 100*1000*1000, 50)
		if err != nil {
			return fmt.Errorf("failed to find large files: %w", err)
		}
		for _, f := range files {
			fmt.Printf("%-12s %s\n", humanize.Bytes(uint64(f.SizeBytes)), f.Path)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&outputFmt, "output", "summary", "output format (summary, table, json, yaml)")

	scanCmd.Flags().BoolVar(&includeDev, "include-dev", false, "also scan for project artifacts (node_modules, venvs, ...)")
	scanCmd.Flags().StringVar(&outputFile, "file", "", "save report to file")

	cleanCmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be deleted without deleting")
	cleanCmd.Flags().BoolVar(&force, "force", false, "skip confirmation prompts")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(diskCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(appsCmd)
	rootCmd.AddCommand(largeFilesCmd)
	rootCmd.AddCommand(protectCmd)
	rootCmd.AddCommand(dockerCmd)
	rootCmd.AddCommand(configCmd)
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	cfgPath, err := config.GetConfigPath()
	if err != nil {
		return nil, err
	}
	return config.Load(cfgPath)
}

func parseFormat(s string) reporter.OutputFormat {
	switch s {
	case "json":
		return reporter.FormatJSON
	case "yaml":
		return reporter.FormatYAML
	case "table":
		return reporter.FormatTable
	default:
		return reporter.FormatSummary
	}
}

// confirm prompts before destructive work unless forced or previewing.
func confirm(dryRun bool, prompt string) bool {
	if force || dryRun {
		return true
	}
	fmt.Printf("%s (y/N): ", prompt)
	var response string
	fmt.Scanln(&response)
	return response == "y" || response == "Y"
}
