package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"oceanfetch/internal/models"
	"oceanfetch/internal/product"
	"oceanfetch/pkg/utils"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List the supported product codes",
	Long: `List every supported product code with its granularity, archive host
and the filename it resolves to for an example date.`,
	Example: `  oceanfetch products
  oceanfetch products --date 20210628`,
	Args: cobra.NoArgs,
	RunE: runProducts,
}

func runProducts(cmd *cobra.Command, args []string) error {
	example := time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)
	if raw, _ := cmd.Flags().GetString("date"); raw != "" {
		t, _, err := product.ParseDate(raw)
		if err != nil {
			return reportError(cmd, err, "products")
		}
		example = t
	}

	resolver := product.NewResolver(cfg)
	var infos []models.ProductInfo
	for _, code := range product.Codes() {
		spec, err := product.Lookup(code)
		if err != nil {
			return reportError(cmd, err, "products")
		}
		target, err := resolver.Resolve(code, product.Truncate(example, spec.Granularity))
		if err != nil {
			return reportError(cmd, err, "products")
		}
		infos = append(infos, models.ProductInfo{
			Code:        code,
			Description: spec.Description,
			Granularity: spec.Granularity.String(),
			Host:        target.Host,
			Example:     target.Dir + target.File,
		})
	}

	if err := utils.WriteJSON(cmd.OutOrStdout(), infos); err != nil {
		return reportError(cmd, err, "products")
	}
	return nil
}

func init() {
	productsCmd.Flags().String("date", "", "Example date used to resolve filenames (YYYY, YYYYMM or YYYYMMDD)")
}
