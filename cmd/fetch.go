package cmd

import (
	"github.com/spf13/cobra"

	"oceanfetch/internal/models"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [product] [date]",
	Short: "Fetch one product file into the cache",
	Long: `Fetch one product file into the cache directory.

The date is YYYYMMDD for daily products, YYYYMM for monthly products and
YYYY for annual products. A finer date than the product needs is accepted
and truncated. Run "oceanfetch products" for the list of product codes.

If the file is already in the cache it is reported as cached and the
archive is not contacted. A file the archive does not have is reported
with status "unavailable" and a non-zero exit code.`,
	Example: `  # Daily sea surface temperature
  oceanfetch fetch SST 20220101

  # Monthly mean into a specific directory
  oceanfetch fetch SST-Monthly-Mean 202103 --destination /tmp/ocean

  # Sea level anomaly, verbose
  oceanfetch fetch SLA 20220131 --verbose`,
	Args: cobra.ExactArgs(2),
	RunE: runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	req := models.FetchRequest{
		Product:     args[0],
		Date:        args[1],
		Destination: getDestination(cmd),
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	if isVerbose(cmd) {
		cmd.PrintErrf("Fetching %s for %s into %s\n", req.Product, req.Date, req.Destination)
	}

	result, err := newOceanClient(cfg).Download(ctx, req)
	if err != nil {
		return reportError(cmd, err, "fetch")
	}
	return reportResult(cmd, result, "fetch")
}

func init() {
	fetchCmd.Flags().Int("timeout", 0, "Timeout in seconds for the operation (0: no limit)")
}
