package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"oceanfetch/config"
	"oceanfetch/internal/ftpclient"
	"oceanfetch/internal/models"
	"oceanfetch/internal/ocean"
	"oceanfetch/internal/product"
	"oceanfetch/internal/s3client"
	"oceanfetch/pkg/utils"
)

// ErrUnavailable is returned by commands whose requested file could not be
// retrieved, so the process exits non-zero after printing the result.
var ErrUnavailable = errors.New("file not available")

var (
	cfg *config.Config

	newOceanClient = func(cfg *config.Config) *ocean.Client {
		return ocean.New(product.NewResolver(cfg), ftpclient.New(cfg))
	}
	newGOESClient = func(cfg *config.Config) (*s3client.Client, error) {
		return s3client.New(cfg)
	}
)

var rootCmd = &cobra.Command{
	Use:   "oceanfetch",
	Short: "Fetch oceanographic and satellite products into a local cache",
	Long: `oceanfetch downloads satellite ocean products (sea surface temperature,
coral bleaching indicators, chlorophyll, sea level anomaly, ASCAT winds,
Jason-3) from the NOAA FTP archives, and GOES-16 ABI imagery from the NOAA
open data bucket, into a local cache directory.

Files already present in the cache are never downloaded again.
Configuration is loaded from .env file or environment variables`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		utils.SetupLogging(cmd.ErrOrStderr(), isVerbose(cmd))
	},
}

func Execute(config *config.Config) error {
	cfg = config
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(fetchRangeCmd)
	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(cacheInfoCmd)
	rootCmd.AddCommand(cmiCmd)
	rootCmd.AddCommand(goesProdCmd)

	rootCmd.PersistentFlags().StringP("destination", "d", "", "Cache directory (default: DATA_DIR from config)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
}

func getDestination(cmd *cobra.Command) string {
	destination, _ := cmd.Flags().GetString("destination")
	if destination != "" {
		return destination
	}
	return cfg.DataDir
}

func isVerbose(cmd *cobra.Command) bool {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return verbose
}

// commandContext bounds the command by its --timeout flag; zero means no
// limit.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	timeout, _ := cmd.Flags().GetInt("timeout")
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, product.ErrUnsupportedProduct):
		return "unsupported_product"
	case errors.Is(err, product.ErrInvalidDate), errors.Is(err, s3client.ErrInvalidScan):
		return "invalid_request"
	case errors.Is(err, ftpclient.ErrLocalIO), errors.Is(err, s3client.ErrLocalIO):
		return "local_io"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	}
	return "error"
}

func reportError(cmd *cobra.Command, err error, command string) error {
	utils.WriteError(cmd.OutOrStdout(), err, command, errorKind(err))
	return err
}

func reportResult(cmd *cobra.Command, result *models.FetchResult, command string) error {
	if err := utils.WriteJSON(cmd.OutOrStdout(), result); err != nil {
		return reportError(cmd, err, command)
	}
	if !result.Available() {
		return ErrUnavailable
	}
	if isVerbose(cmd) {
		cmd.PrintErrf("File ready: %s\n", result.LocalPath)
	}
	return nil
}
