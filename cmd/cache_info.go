package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"oceanfetch/internal/models"
	"oceanfetch/pkg/utils"
)

var cacheInfoCmd = &cobra.Command{
	Use:   "cache-info",
	Short: "Summarize the local cache directory",
	Long: `Report how many files the cache directory holds, their total size,
the most recent modification time and a count per file extension.

Leftover partial downloads from interrupted transfers are listed
separately and are not counted as cached files.`,
	Example: `  # Summarize the configured cache
  oceanfetch cache-info

  # Summarize another directory
  oceanfetch cache-info --destination /tmp/ocean`,
	Args: cobra.NoArgs,
	RunE: runCacheInfo,
}

func runCacheInfo(cmd *cobra.Command, args []string) error {
	dir := getDestination(cmd)

	if isVerbose(cmd) {
		cmd.PrintErrf("Scanning cache directory: %s\n", dir)
	}

	info, err := scanCache(dir)
	if err != nil {
		return reportError(cmd, err, "cache-info")
	}

	if err := utils.WriteJSON(cmd.OutOrStdout(), info); err != nil {
		return reportError(cmd, err, "cache-info")
	}
	return nil
}

func scanCache(dir string) (*models.CacheInfo, error) {
	stat, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("cache directory: %w", err)
	}
	if !stat.IsDir() {
		return nil, fmt.Errorf("cache directory: %s is not a directory", dir)
	}

	info := &models.CacheInfo{
		Directory:  dir,
		Extensions: make(map[string]int),
	}

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, _ := filepath.Rel(dir, path)
		if isPartial(d.Name()) {
			info.PartialFiles = append(info.PartialFiles, rel)
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return err
		}
		info.FileCount++
		info.TotalSizeBytes += fi.Size()
		if fi.ModTime().After(info.LastModified) {
			info.LastModified = fi.ModTime()
		}

		ext := strings.ToLower(filepath.Ext(d.Name()))
		if ext == "" {
			ext = "none"
		}
		info.Extensions[ext]++
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}

	info.TotalSizeHuman = utils.FormatBytes(info.TotalSizeBytes)
	return info, nil
}

// isPartial matches the temporary names downloads write to before the
// final rename.
func isPartial(name string) bool {
	return strings.HasPrefix(name, ".") && strings.Contains(name, ".part-")
}
