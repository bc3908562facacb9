package cmd

import (
	"github.com/spf13/cobra"
)

var cmiCmd = &cobra.Command{
	Use:   "cmi [yyyymmddhhmn]",
	Short: "Fetch GOES-16 Cloud and Moisture Imagery for one ABI band",
	Long: `Fetch the full-disk ABI-L2-CMIPF file for one ABI band whose scan
starts at the given UTC time from the NOAA GOES open data bucket.

The file is saved as <name>.nc in the cache directory and is not
downloaded again if it is already there.`,
	Example: `  # Band 13 (clean longwave infrared) at 12:00 UTC
  oceanfetch cmi 202203011200 --band 13`,
	Args: cobra.ExactArgs(1),
	RunE: runCMI,
}

var goesProdCmd = &cobra.Command{
	Use:   "goes-prod [product] [yyyymmddhhmn]",
	Short: "Fetch a GOES-16 ABI product file",
	Long: `Fetch the first file of a full-disk ABI product (for example
ABI-L2-LSTF or ABI-L2-ACMF) whose scan starts at the given UTC time.`,
	Example: `  oceanfetch goes-prod ABI-L2-LSTF 202203011200`,
	Args:    cobra.ExactArgs(2),
	RunE:    runGOESProduct,
}

func runCMI(cmd *cobra.Command, args []string) error {
	band, _ := cmd.Flags().GetInt("band")

	client, err := newGOESClient(cfg)
	if err != nil {
		return reportError(cmd, err, "cmi")
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	if isVerbose(cmd) {
		cmd.PrintErrf("Fetching CMI band %d for %s\n", band, args[0])
	}

	result, err := client.DownloadCMI(ctx, args[0], band, getDestination(cmd))
	if err != nil {
		return reportError(cmd, err, "cmi")
	}
	return reportResult(cmd, result, "cmi")
}

func runGOESProduct(cmd *cobra.Command, args []string) error {
	client, err := newGOESClient(cfg)
	if err != nil {
		return reportError(cmd, err, "goes-prod")
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	if isVerbose(cmd) {
		cmd.PrintErrf("Fetching %s for %s\n", args[0], args[1])
	}

	result, err := client.DownloadProduct(ctx, args[0], args[1], getDestination(cmd))
	if err != nil {
		return reportError(cmd, err, "goes-prod")
	}
	return reportResult(cmd, result, "goes-prod")
}

func init() {
	cmiCmd.Flags().Int("band", 13, "ABI band number (1-16)")
	cmiCmd.Flags().Int("timeout", 0, "Timeout in seconds for the operation (0: no limit)")
	goesProdCmd.Flags().Int("timeout", 0, "Timeout in seconds for the operation (0: no limit)")
}
