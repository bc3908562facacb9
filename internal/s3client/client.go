// Package s3client downloads GOES ABI files from the NOAA open data
// buckets on S3.
package s3client

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appConfig "oceanfetch/config"
	"oceanfetch/internal/models"
	"oceanfetch/pkg/utils"
)

const (
	cmiProduct = "ABI-L2-CMIPF"
	scanLayout = "200601021504"
	scanMode   = "M6"
)

var (
	ErrInvalidScan = errors.New("invalid scan request")
	ErrLocalIO     = errors.New("local i/o error")
)

type objectAPI interface {
	s3.ListObjectsV2APIClient
	manager.DownloadAPIClient
}

type Client struct {
	s3Client   objectAPI
	downloader *manager.Downloader
	config     *appConfig.Config
}

func New(cfg *appConfig.Config) (*Client, error) {
	var provider aws.CredentialsProvider = aws.AnonymousCredentials{}
	if cfg.AccessKey != "" {
		provider = credentials.StaticCredentialsProvider{
			Value: aws.Credentials{
				AccessKeyID:     cfg.AccessKey,
				SecretAccessKey: cfg.SecretKey,
			},
		}
	}

	awsConfig, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(provider),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Client *s3.Client
	if cfg.ApiURL != "" {
		s3Client = s3.NewFromConfig(awsConfig, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.ApiURL)
			o.UsePathStyle = true
		})
	} else {
		s3Client = s3.NewFromConfig(awsConfig)
	}

	return newClient(s3Client, cfg), nil
}

func newClient(api objectAPI, cfg *appConfig.Config) *Client {
	return &Client{
		s3Client:   api,
		downloader: manager.NewDownloader(api),
		config:     cfg,
	}
}

// DownloadCMI fetches the full-disk Cloud and Moisture Imagery file for an
// ABI band whose scan starts at yyyymmddhhmn.
func (c *Client) DownloadCMI(ctx context.Context, yyyymmddhhmn string, band int, destDir string) (*models.FetchResult, error) {
	if band < 1 || band > 16 {
		return nil, fmt.Errorf("%w: ABI band %d out of range 1-16", ErrInvalidScan, band)
	}
	scan, err := ParseScanTime(yyyymmddhhmn)
	if err != nil {
		return nil, err
	}
	prefix := c.scanPrefix(cmiProduct, fmt.Sprintf("%sC%02d", scanMode, band), scan)
	return c.fetchFirst(ctx, fmt.Sprintf("%s C%02d", cmiProduct, band), yyyymmddhhmn, prefix, destDir)
}

// DownloadProduct fetches the first file of an ABI product (for example
// ABI-L2-LSTF) whose scan starts at yyyymmddhhmn.
func (c *Client) DownloadProduct(ctx context.Context, productName, yyyymmddhhmn, destDir string) (*models.FetchResult, error) {
	if productName == "" || strings.Contains(productName, "/") {
		return nil, fmt.Errorf("%w: product name %q", ErrInvalidScan, productName)
	}
	scan, err := ParseScanTime(yyyymmddhhmn)
	if err != nil {
		return nil, err
	}
	prefix := c.scanPrefix(productName, scanMode, scan)
	return c.fetchFirst(ctx, productName, yyyymmddhhmn, prefix, destDir)
}

func ParseScanTime(yyyymmddhhmn string) (time.Time, error) {
	t, err := time.Parse(scanLayout, yyyymmddhhmn)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not YYYYMMDDhhmm", ErrInvalidScan, yyyymmddhhmn)
	}
	return t, nil
}

// scanPrefix builds <product>/<yyyy>/<jjj>/<hh>/OR_<product>-<mode>_<sat>_s<yyyyjjjhhmm>.
func (c *Client) scanPrefix(productName, mode string, scan time.Time) string {
	year := scan.Format("2006")
	doy := fmt.Sprintf("%03d", scan.YearDay())
	hour := scan.Format("15")
	return fmt.Sprintf("%s/%s/%s/%s/OR_%s-%s_%s_s%s%s%s%s",
		productName, year, doy, hour,
		productName, mode, satelliteID(c.config.GOESBucket),
		year, doy, hour, scan.Format("04"))
}

// satelliteID maps noaa-goes16 to G16, noaa-goes18 to G18 and so on.
func satelliteID(bucket string) string {
	if n := strings.TrimPrefix(bucket, "noaa-goes"); n != bucket && n != "" {
		return "G" + n
	}
	return "G16"
}

func (c *Client) fetchFirst(ctx context.Context, label, scan, prefix, destDir string) (*models.FetchResult, error) {
	startTime := time.Now()
	bucketName := c.config.GOESBucket
	result := &models.FetchResult{
		Product:       label,
		Date:          scan,
		Host:          bucketName,
		RemoteDir:     path.Dir(prefix) + "/",
		OperationTime: utils.FormatTime(startTime),
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: creating %s: %v", ErrLocalIO, destDir, err)
	}

	key, err := c.firstKey(ctx, prefix)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return c.unavailable(result, fmt.Errorf("failed to list objects: %w", err)), nil
	}
	if key == "" {
		return c.unavailable(result, fmt.Errorf("no files found for prefix %s", prefix)), nil
	}

	base := path.Base(key)
	result.FileName = strings.TrimSuffix(base, path.Ext(base)) + ".nc"
	result.LocalPath = filepath.Join(destDir, result.FileName)

	info, err := os.Stat(result.LocalPath)
	switch {
	case err == nil:
		result.Status = models.StatusCached
		result.SizeBytes = info.Size()
		result.SizeHuman = utils.FormatBytes(info.Size())
		slog.Debug("file already cached", "product", label, "path", result.LocalPath)
		return result, nil
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: checking %s: %v", ErrLocalIO, result.LocalPath, err)
	}

	slog.Info("downloading", "product", label, "bucket", bucketName, "key", key)

	size, err := c.downloadObject(ctx, key, result.LocalPath)
	if err != nil {
		if errors.Is(err, ErrLocalIO) {
			return nil, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return c.unavailable(result, err), nil
	}

	duration := time.Since(startTime)
	result.Status = models.StatusDownloaded
	result.SizeBytes = size
	result.SizeHuman = utils.FormatBytes(size)
	result.DownloadDuration = duration.String()
	slog.Info("download finished", "path", result.LocalPath, "size", result.SizeHuman, "duration", duration)

	return result, nil
}

func (c *Client) firstKey(ctx context.Context, prefix string) (string, error) {
	paginator := s3.NewListObjectsV2Paginator(c.s3Client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(c.config.GOESBucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return "", err
		}
		for _, obj := range page.Contents {
			if obj.Key != nil && *obj.Key != "" {
				return *obj.Key, nil
			}
		}
	}
	return "", nil
}

func (c *Client) downloadObject(ctx context.Context, key, localPath string) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(localPath), "."+filepath.Base(localPath)+".part-*")
	if err != nil {
		return 0, fmt.Errorf("%w: creating temporary file: %v", ErrLocalIO, err)
	}
	tmpPath := tmp.Name()
	defer utils.CleanupTempFile(tmpPath)
	defer tmp.Close()

	n, err := c.downloader.Download(ctx, tmp, &s3.GetObjectInput{
		Bucket: aws.String(c.config.GOESBucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to download %s: %w", key, err)
	}

	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("%w: closing %s: %v", ErrLocalIO, tmpPath, err)
	}
	if err := os.Rename(tmpPath, localPath); err != nil {
		return 0, fmt.Errorf("%w: renaming %s: %v", ErrLocalIO, tmpPath, err)
	}
	return n, nil
}

func (c *Client) unavailable(result *models.FetchResult, err error) *models.FetchResult {
	result.Status = models.StatusUnavailable
	result.Message = fmt.Sprintf("%s %s: no file available in %s: %v", result.Product, result.Date, result.Host, err)
	slog.Warn("file not available", "product", result.Product, "date", result.Date, "bucket", result.Host, "error", err)
	return result
}
