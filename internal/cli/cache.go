package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/archscape/pkg/cache"
	"github.com/matzehuels/archscape/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local render and theme cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove cached renders, publish markers and downloaded themes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Cache.Backend == config.CacheRedis {
				if err := clearRedis(cmd.Context(), cfg); err != nil {
					printWarning("Redis cache not cleared: %v", err)
				}
			}
			dir, err := cfg.CacheDir()
			if err != nil {
				return err
			}
			count, err := clearCacheDir(dir)
			if err != nil {
				return err
			}
			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

func clearRedis(ctx context.Context, cfg *config.Config) error {
	store, err := cfg.OpenCache(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	rc, ok := store.(*cache.RedisCache)
	if !ok {
		return nil
	}
	n, err := rc.Clear(ctx)
	if err != nil {
		return err
	}
	printSuccess("Cleared %d Redis entries", n)
	printDetail("Prefix: %s", cfg.Cache.Prefix)
	return nil
}

// clearCacheDir empties the artifact cache and the HTTP cache under dir.
func clearCacheDir(dir string) (int, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return 0, nil
	}
	count := 0
	artifacts, err := cache.NewFileCache(filepath.Join(dir, "artifacts"))
	if err != nil {
		return 0, err
	}
	n, err := countFiles(artifacts.Dir())
	if err != nil {
		return 0, err
	}
	if err := artifacts.Clear(); err != nil {
		return 0, fmt.Errorf("clear artifacts: %w", err)
	}
	count += n

	httpDir := filepath.Join(dir, "http")
	if n, err = countFiles(httpDir); err != nil {
		return 0, err
	}
	if err := os.RemoveAll(httpDir); err != nil {
		return 0, fmt.Errorf("clear http cache: %w", err)
	}
	return count + n, nil
}

func countFiles(dir string) (int, error) {
	n := 0
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			n++
		}
		return nil
	})
	return n, err
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			dir, err := cfg.CacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			if c.verbose {
				printKeyValue("backend", cfg.Cache.Backend)
				printKeyValue("directory", dir)
				return nil
			}
			fmt.Println(dir)
			return nil
		},
	}
}
