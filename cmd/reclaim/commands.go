package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/reclaim-sh/reclaim/internal/config"
	"github.com/reclaim-sh/reclaim/internal/docker"
	"github.com/reclaim-sh/reclaim/internal/fsize"
	"github.com/reclaim-sh/reclaim/internal/protect"
)

var protectCmd = &cobra.Command{
	Use:   "protect",
	Short: "Manage paths and categories the cleaner must never touch",
}

var protectAddCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Protect a path from cleanup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		if err := store.AddPath(args[0]); err != nil {
			return err
		}
		fmt.Printf("Protected: %s\n", args[0])
		return nil
	},
}

var protectRemoveCmd = &cobra.Command{
	Use:   "remove <path>",
	Short: "Remove a path from the protection list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		if err := store.RemovePath(args[0]); err != nil {
			return err
		}
		fmt.Printf("Unprotected: %s\n", args[0])
		return nil
	},
}

var protectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List protected paths and categories with their sizes",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}

		paths := store.Paths()
		cats := store.Categories()
		if len(paths) == 0 && len(cats) == 0 {
			fmt.Println("Nothing is protected.")
			return nil
		}

		sizer := fsize.NewSizer(fsize.DefaultTTL)
		for _, p := range paths {
			if stats, ok := sizer.FileOrDirSize(p, fsize.DefaultMaxDepth); ok {
				fmt.Printf("%-12s %s\n", humanize.Bytes(uint64(stats.Bytes)), p)
			} else {
				fmt.Printf("%-12s %s\n", "missing", p)
			}
		}
		for _, c := range cats {
			fmt.Printf("%-12s category: %s\n", "", c)
		}
		return nil
	},
}

var protectCategoryCmd = &cobra.Command{
	Use:   "category <add|remove> <id>",
	Short: "Protect or unprotect a whole category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		switch args[0] {
		case "add":
			return store.AddCategory(args[1])
		case "remove":
			return store.RemoveCategory(args[1])
		default:
			return fmt.Errorf("unknown action: %s", args[0])
		}
	},
}

var dockerCmd = &cobra.Command{
	Use:   "docker",
	Short: "Break down Docker disk usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := docker.NewClient()
		b := client.Usage(cmd.Context())
		if !b.Available {
			return fmt.Errorf("docker unavailable: %s", b.Err)
		}

		fmt.Printf("Total: %s (unused: %s)\n\n",
			humanize.Bytes(uint64(b.TotalBytes)), humanize.Bytes(uint64(b.UnusedBytes)))
		for _, img := range b.Images {
			tag := img.Repository + ":" + img.Tag
			if img.Dangling {
				tag = "<dangling>"
			}
			fmt.Printf("image      %-12s %-40s %s\n", img.ID, tag, humanize.Bytes(uint64(img.SizeBytes)))
		}
		for _, ct := range b.Containers {
			fmt.Printf("container  %-12s %-40s %s\n", ct.ID, ct.Name, ct.Status)
		}
		for _, v := range b.Volumes {
			fmt.Printf("volume     %-12s %s\n", v.Driver, v.Name)
		}
		if b.BuildCacheBytes > 0 {
			fmt.Printf("build cache %s\n", humanize.Bytes(uint64(b.BuildCacheBytes)))
		}
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.EnsureConfigExists()
		if err != nil {
			return fmt.Errorf("failed to create config: %w", err)
		}
		fmt.Printf("Config file: %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

func openStore() (*protect.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return protect.NewStore(cfg.ProtectionFile), nil
}

func init() {
	protectCmd.AddCommand(protectAddCmd)
	protectCmd.AddCommand(protectRemoveCmd)
	protectCmd.AddCommand(protectListCmd)
	protectCmd.AddCommand(protectCategoryCmd)

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
