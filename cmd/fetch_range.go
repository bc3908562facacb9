package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"oceanfetch/pkg/utils"
)

var fetchRangeCmd = &cobra.Command{
	Use:   "fetch-range [product] [start] [end]",
	Short: "Fetch every file of a product between two dates",
	Long: `Fetch every file of a product from start to end inclusive, one per day,
month or year depending on the product.

Files missing from the archive are recorded as unavailable and the batch
moves on to the next date. A local disk error stops the batch.

With --archive the files the batch left in the cache are bundled into a
zip file in the cache directory.`,
	Example: `  # A month of daily SST
  oceanfetch fetch-range SST 20220101 20220131

  # Monthly means for a year, bundled
  oceanfetch fetch-range SST-Monthly-Mean 202101 202112 --archive`,
	Args: cobra.ExactArgs(3),
	RunE: runFetchRange,
}

func runFetchRange(cmd *cobra.Command, args []string) error {
	code, start, end := args[0], args[1], args[2]
	destination := getDestination(cmd)
	archive, _ := cmd.Flags().GetBool("archive")

	ctx, cancel := commandContext(cmd)
	defer cancel()

	batch, err := newOceanClient(cfg).DownloadRange(ctx, code, start, end, destination)
	if err != nil {
		// Report what the batch fetched before it stopped.
		if batch != nil && len(batch.Items) > 0 {
			utils.WriteJSON(cmd.OutOrStdout(), batch)
		}
		return reportError(cmd, err, "fetch-range")
	}

	if archive {
		if paths := batch.LocalPaths(); len(paths) > 0 {
			archivePath := filepath.Join(destination, utils.ArchiveName(code, batch.Start, batch.End))
			info, err := utils.CreateArchive(paths, archivePath)
			if err != nil {
				return reportError(cmd, err, "fetch-range")
			}
			batch.ArchivePath = info.ArchivePath
		}
	}

	if err := utils.WriteJSON(cmd.OutOrStdout(), batch); err != nil {
		return reportError(cmd, err, "fetch-range")
	}

	if isVerbose(cmd) {
		cmd.PrintErrf("Downloaded %d, cached %d, unavailable %d\n", batch.Downloaded, batch.Cached, batch.Unavailable)
	}
	if batch.Downloaded+batch.Cached == 0 {
		return ErrUnavailable
	}
	return nil
}

func init() {
	fetchRangeCmd.Flags().Bool("archive", false, "Bundle the fetched files into a zip archive")
	fetchRangeCmd.Flags().Int("timeout", 0, "Timeout in seconds for the operation (0: no limit)")
}
