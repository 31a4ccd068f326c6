package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/theirongolddev/powerlytics/internal/pipeline"
	"github.com/theirongolddev/powerlytics/internal/store"

	log "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Show or clear the parse cache",
	RunE: func(_ *cobra.Command, _ []string) error {
		path := pipeline.CachePath()
		fmt.Printf("  Cache file: %s\n", path)
		info, err := os.Stat(path)
		if err != nil {
			fmt.Println("  Status: not created yet")
			return nil
		}
		fmt.Printf("  Size: %d KiB\n", info.Size()/1024)

		c, err := store.Open(path)
		if err != nil {
			return err
		}
		defer c.Close()
		tracked, err := c.GetTrackedFiles()
		if err != nil {
			return fmt.Errorf("reading cache: %w", err)
		}
		fmt.Printf("  Tracked files: %d\n", len(tracked))
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [file...]",
	Short: "Drop cached files so the next run reparses them (all files when none are named)",
	RunE: func(_ *cobra.Command, args []string) error {
		c, err := store.Open(pipeline.CachePath())
		if err != nil {
			return err
		}
		defer c.Close()
		if err := clearCache(c, args); err != nil {
			return err
		}
		if len(args) == 0 {
			log.Info("cache cleared", "path", pipeline.CachePath())
		} else {
			log.Info("cache entries dropped", "files", len(args))
		}
		return nil
	},
}

// clearCache forgets the named export files, or every file when none are
// named. Names are resolved the way the scanner records them.
func clearCache(c *store.Cache, files []string) error {
	if len(files) == 0 {
		if err := c.Clear(); err != nil {
			return fmt.Errorf("clearing cache: %w", err)
		}
		return nil
	}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", f, err)
		}
		if err := c.Forget(abs); err != nil {
			return fmt.Errorf("forgetting %s: %w", abs, err)
		}
	}
	return nil
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
