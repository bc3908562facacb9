package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"oceanfetch/config"
	"oceanfetch/internal/ftpclient"
	"oceanfetch/internal/models"
	"oceanfetch/internal/ocean"
	"oceanfetch/internal/product"
	"oceanfetch/internal/s3client"
)

func testConfig(dir string) *config.Config {
	return &config.Config{
		DataDir:        dir,
		PrimaryHost:    config.DefaultPrimaryHost,
		CoastwatchHost: config.DefaultCoastwatchHost,
		FTPUser:        "anonymous",
		FTPPassword:    "anonymous@",
		GOESBucket:     config.DefaultGOESBucket,
		Region:         "us-east-1",
	}
}

func resetFlags(flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	})
}

// runCommand executes the root command with args against a fresh cache
// directory and returns what it wrote to stdout.
func runCommand(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cfg = testConfig(dir)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd.PersistentFlags())
		for _, c := range rootCmd.Commands() {
			resetFlags(c.Flags())
		}
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func touch(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

type missingFetcher struct {
	calls int
}

func (m *missingFetcher) Fetch(ctx context.Context, target product.Target, destDir string) (*models.FetchResult, error) {
	m.calls++
	return &models.FetchResult{
		Product:   target.Product,
		Date:      target.DateLabel(),
		Host:      target.Host,
		FileName:  target.File,
		LocalPath: filepath.Join(destDir, target.File),
		Status:    models.StatusUnavailable,
		Message:   "550 not found",
	}, nil
}

// failingFetcher reports the first file as cached and fails on the next.
type failingFetcher struct {
	calls int
	err   error
}

func (f *failingFetcher) Fetch(ctx context.Context, target product.Target, destDir string) (*models.FetchResult, error) {
	f.calls++
	if f.calls > 1 {
		return nil, f.err
	}
	return &models.FetchResult{
		Product:   target.Product,
		Date:      target.DateLabel(),
		FileName:  target.File,
		LocalPath: filepath.Join(destDir, target.File),
		Status:    models.StatusCached,
		SizeBytes: 10,
	}, nil
}

func withOceanFetcher(t *testing.T, f ocean.Fetcher) {
	t.Helper()
	original := newOceanClient
	newOceanClient = func(cfg *config.Config) *ocean.Client {
		return ocean.New(product.NewResolver(cfg), f)
	}
	t.Cleanup(func() { newOceanClient = original })
}

func TestProductsCommand(t *testing.T) {
	output, err := runCommand(t, t.TempDir(), "products")
	if err != nil {
		t.Fatalf("products command failed: %v", err)
	}

	var infos []models.ProductInfo
	if err := json.Unmarshal([]byte(output), &infos); err != nil {
		t.Fatalf("output is not a product list: %v\n%s", err, output)
	}
	if len(infos) != len(product.Codes()) {
		t.Errorf("listed %d products, want %d", len(infos), len(product.Codes()))
	}

	byCode := make(map[string]models.ProductInfo)
	for _, info := range infos {
		byCode[info.Code] = info
	}

	sst := byCode["SST"]
	if sst.Host != config.DefaultPrimaryHost || sst.Granularity != "daily" {
		t.Errorf("SST = %+v", sst)
	}
	if want := "pub/socd/mecb/crw/data/5km/v3.1_op/nc/v1.0/daily/sst/2022/coraltemp_v3.1_20220101.nc"; sst.Example != want {
		t.Errorf("SST example = %s, want %s", sst.Example, want)
	}
	if annual := byCode["DHW-Annual-Max"]; !strings.HasSuffix(annual.Example, "ct5km_dhw-max_v3.1_2022.nc") {
		t.Errorf("DHW-Annual-Max example = %s", annual.Example)
	}
}

func TestProductsCommandWithDate(t *testing.T) {
	output, err := runCommand(t, t.TempDir(), "products", "--date", "20210628")
	if err != nil {
		t.Fatalf("products command failed: %v", err)
	}
	if !strings.Contains(output, "rads_global_nrt_sla_20210628_20210629_001.nc") {
		t.Errorf("SLA example for 20210628 missing from output:\n%s", output)
	}
	if !strings.Contains(output, "ftpcoastwatch.noaa.gov") {
		t.Errorf("coastwatch host missing from output")
	}

	output, err = runCommand(t, t.TempDir(), "products", "--date", "June")
	if !errors.Is(err, product.ErrInvalidDate) {
		t.Errorf("products --date June error = %v, want ErrInvalidDate", err)
	}
	if !strings.Contains(output, `"kind": "invalid_request"`) {
		t.Errorf("error output = %s", output)
	}
}

func TestFetchCommandCached(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "coraltemp_v3.1_20220101.nc"), "netcdf")

	output, err := runCommand(t, dir, "fetch", "SST", "20220101")
	if err != nil {
		t.Fatalf("fetch command failed: %v\n%s", err, output)
	}

	var result models.FetchResult
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("output is not a fetch result: %v\n%s", err, output)
	}
	if result.Status != models.StatusCached {
		t.Errorf("status = %s, want cached", result.Status)
	}
	if result.SizeBytes != 6 {
		t.Errorf("size = %d, want 6", result.SizeBytes)
	}
	if result.LocalPath != filepath.Join(dir, "coraltemp_v3.1_20220101.nc") {
		t.Errorf("local path = %s", result.LocalPath)
	}
}

func TestFetchCommandDestinationFlag(t *testing.T) {
	other := t.TempDir()
	touch(t, filepath.Join(other, "ct5km_sst-mean_v3.1_202103.nc"), "x")

	output, err := runCommand(t, t.TempDir(), "fetch", "SST-Monthly-Mean", "20210315", "--destination", other)
	if err != nil {
		t.Fatalf("fetch command failed: %v\n%s", err, output)
	}
	if !strings.Contains(output, `"date": "202103"`) || !strings.Contains(output, `"status": "cached"`) {
		t.Errorf("unexpected output:\n%s", output)
	}
}

func TestFetchCommandRejectsBadRequests(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
		kind    string
	}{
		{
			name:    "unknown product",
			args:    []string{"fetch", "SST-Weekly", "20220101"},
			wantErr: product.ErrUnsupportedProduct,
			kind:    "unsupported_product",
		},
		{
			name:    "date too coarse",
			args:    []string{"fetch", "SST-Monthly-Mean", "2021"},
			wantErr: product.ErrInvalidDate,
			kind:    "invalid_request",
		},
		{
			name:    "impossible date",
			args:    []string{"fetch", "SST", "20220230"},
			wantErr: product.ErrInvalidDate,
			kind:    "invalid_request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			output, err := runCommand(t, dir, tt.args...)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}

			var resp models.ErrorResponse
			if err := json.Unmarshal([]byte(output), &resp); err != nil {
				t.Fatalf("output is not an error response: %v\n%s", err, output)
			}
			if resp.Kind != tt.kind || resp.Command != "fetch" {
				t.Errorf("error response = %+v", resp)
			}

			entries, _ := os.ReadDir(dir)
			if len(entries) != 0 {
				t.Errorf("cache directory should be untouched, found %d entries", len(entries))
			}
		})
	}
}

func TestFetchCommandUnavailable(t *testing.T) {
	fetcher := &missingFetcher{}
	withOceanFetcher(t, fetcher)

	output, err := runCommand(t, t.TempDir(), "fetch", "SLA", "20220131")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("error = %v, want ErrUnavailable", err)
	}
	if fetcher.calls != 1 {
		t.Errorf("fetcher called %d times, want 1", fetcher.calls)
	}
	if !strings.Contains(output, `"status": "unavailable"`) {
		t.Errorf("unexpected output:\n%s", output)
	}
	if !strings.Contains(output, "rads_global_nrt_sla_20220131_20220201_001.nc") {
		t.Errorf("output should name the missing file:\n%s", output)
	}
}

func TestFetchRangeCommandArchive(t *testing.T) {
	dir := t.TempDir()
	for _, day := range []string{"20220101", "20220102", "20220103"} {
		touch(t, filepath.Join(dir, "ct5km_dhw_v3.1_"+day+".nc"), "dhw "+day)
	}

	output, err := runCommand(t, dir, "fetch-range", "DHW", "20220101", "20220103", "--archive")
	if err != nil {
		t.Fatalf("fetch-range command failed: %v\n%s", err, output)
	}

	var batch models.BatchResult
	if err := json.Unmarshal([]byte(output), &batch); err != nil {
		t.Fatalf("output is not a batch result: %v\n%s", err, output)
	}
	if batch.Cached != 3 || batch.Downloaded != 0 || batch.Unavailable != 0 {
		t.Errorf("batch counts = %d cached, %d downloaded, %d unavailable", batch.Cached, batch.Downloaded, batch.Unavailable)
	}

	wantArchive := filepath.Join(dir, "DHW_20220101-20220103.zip")
	if batch.ArchivePath != wantArchive {
		t.Errorf("archive path = %s, want %s", batch.ArchivePath, wantArchive)
	}
	if _, err := os.Stat(wantArchive); err != nil {
		t.Errorf("archive not created: %v", err)
	}
}

func TestFetchRangeCommandNothingAvailable(t *testing.T) {
	fetcher := &missingFetcher{}
	withOceanFetcher(t, fetcher)
	dir := t.TempDir()

	output, err := runCommand(t, dir, "fetch-range", "SST-Annual-Max", "2019", "2021", "--archive")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("error = %v, want ErrUnavailable", err)
	}
	if fetcher.calls != 3 {
		t.Errorf("fetcher called %d times, want 3", fetcher.calls)
	}
	if strings.Contains(output, "archive_path") {
		t.Errorf("no archive should be built for an empty batch:\n%s", output)
	}
}

func TestFetchRangeCommandReportsPartialBatch(t *testing.T) {
	fetcher := &failingFetcher{err: fmt.Errorf("%w: disk full", ftpclient.ErrLocalIO)}
	withOceanFetcher(t, fetcher)

	output, err := runCommand(t, t.TempDir(), "fetch-range", "SST", "20220101", "20220105")
	if !errors.Is(err, ftpclient.ErrLocalIO) {
		t.Fatalf("error = %v, want ErrLocalIO", err)
	}
	if fetcher.calls != 2 {
		t.Errorf("fetcher called %d times, want 2", fetcher.calls)
	}

	dec := json.NewDecoder(strings.NewReader(output))
	var batch models.BatchResult
	if err := dec.Decode(&batch); err != nil {
		t.Fatalf("first document is not a batch result: %v\n%s", err, output)
	}
	if len(batch.Items) != 1 || batch.Cached != 1 {
		t.Fatalf("batch = %d items, %d cached, want 1 and 1", len(batch.Items), batch.Cached)
	}
	if batch.Items[0].FileName != "coraltemp_v3.1_20220101.nc" {
		t.Errorf("first item = %s", batch.Items[0].FileName)
	}

	var resp models.ErrorResponse
	if err := dec.Decode(&resp); err != nil {
		t.Fatalf("second document is not an error response: %v\n%s", err, output)
	}
	if resp.Kind != "local_io" || resp.Command != "fetch-range" {
		t.Errorf("error response = %+v", resp)
	}
}

func TestCacheInfoCommand(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "coraltemp_v3.1_20220101.nc"), "12345")
	touch(t, filepath.Join(dir, "ct5km_baa_v3.1_20220101.nc"), "123")
	touch(t, filepath.Join(dir, "goes", "OR_ABI-L2-LSTF-M6_G16_s20220601200.nc"), "1")
	touch(t, filepath.Join(dir, "AS2022099Bas_WW.hdf"), "12")
	touch(t, filepath.Join(dir, ".coraltemp_v3.1_20220102.nc.part-123456"), "partial")

	output, err := runCommand(t, dir, "cache-info")
	if err != nil {
		t.Fatalf("cache-info command failed: %v", err)
	}

	var info models.CacheInfo
	if err := json.Unmarshal([]byte(output), &info); err != nil {
		t.Fatalf("output is not cache info: %v\n%s", err, output)
	}
	if info.FileCount != 4 {
		t.Errorf("file count = %d, want 4", info.FileCount)
	}
	if info.TotalSizeBytes != 11 {
		t.Errorf("total size = %d, want 11", info.TotalSizeBytes)
	}
	if info.Extensions[".nc"] != 3 || info.Extensions[".hdf"] != 1 {
		t.Errorf("extensions = %v", info.Extensions)
	}
	if len(info.PartialFiles) != 1 {
		t.Errorf("partial files = %v, want one", info.PartialFiles)
	}
	if info.LastModified.IsZero() {
		t.Error("last modified should be set")
	}
}

func TestCacheInfoCommandMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")

	output, err := runCommand(t, dir, "cache-info")
	if err == nil {
		t.Fatal("cache-info on a missing directory should fail")
	}
	if !strings.Contains(output, `"command": "cache-info"`) {
		t.Errorf("unexpected output:\n%s", output)
	}
}

func TestCMICommandInvalidRequest(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"band out of range", []string{"cmi", "202203011200", "--band", "17"}},
		{"bad scan time", []string{"cmi", "2022-03-01", "--band", "13"}},
		{"bad product", []string{"goes-prod", "ABI/L2", "202203011200"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			output, err := runCommand(t, dir, tt.args...)
			if !errors.Is(err, s3client.ErrInvalidScan) {
				t.Fatalf("error = %v, want ErrInvalidScan", err)
			}
			if !strings.Contains(output, `"kind": "invalid_request"`) {
				t.Errorf("unexpected output:\n%s", output)
			}
		})
	}
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{product.ErrUnsupportedProduct, "unsupported_product"},
		{product.ErrInvalidDate, "invalid_request"},
		{s3client.ErrInvalidScan, "invalid_request"},
		{ftpclient.ErrLocalIO, "local_io"},
		{s3client.ErrLocalIO, "local_io"},
		{context.DeadlineExceeded, "timeout"},
		{errors.New("boom"), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := errorKind(tt.err); got != tt.want {
				t.Errorf("errorKind(%v) = %s, want %s", tt.err, got, tt.want)
			}
		})
	}
}

func TestCommandContextTimeout(t *testing.T) {
	c := &cobra.Command{}
	c.Flags().Int("timeout", 0, "")

	ctx, cancel := commandContext(c)
	if _, ok := ctx.Deadline(); ok {
		t.Error("zero timeout should not set a deadline")
	}
	cancel()

	c.Flags().Set("timeout", "30")
	ctx, cancel = commandContext(c)
	defer cancel()
	if _, ok := ctx.Deadline(); !ok {
		t.Error("timeout flag should set a deadline")
	}
}

// Integration test against the live archive, skipped by default.
// To run it, set OCEAN_INTEGRATION_TEST=true.
func TestFetchCommandLive(t *testing.T) {
	if os.Getenv("OCEAN_INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test; set OCEAN_INTEGRATION_TEST=true to run")
	}

	dir := t.TempDir()
	output, err := runCommand(t, dir, "fetch", "SST", "20220101", "--timeout", "300")
	if err != nil {
		t.Fatalf("fetch command failed: %v\n%s", err, output)
	}
	if !strings.Contains(output, `"status": "downloaded"`) {
		t.Errorf("unexpected output:\n%s", output)
	}
}
