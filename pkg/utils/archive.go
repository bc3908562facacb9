package utils

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"oceanfetch/internal/models"
)

// CreateArchive zips the given files flat into outputPath. The archive is
// written beside outputPath first, so a failed run leaves nothing behind.
func CreateArchive(paths []string, outputPath string) (*models.ArchiveInfo, error) {
	if err := ValidatePaths(paths); err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(outputPath), "."+filepath.Base(outputPath)+".part-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create archive file: %w", err)
	}
	tmpPath := tmp.Name()
	defer CleanupTempFile(tmpPath)
	defer tmp.Close()

	zipWriter := zip.NewWriter(tmp)

	var originalSize int64
	createdAt := time.Now()

	for _, path := range paths {
		size, err := addToArchive(zipWriter, path)
		if err != nil {
			return nil, fmt.Errorf("failed to add %s to archive: %w", path, err)
		}
		originalSize += size
	}

	if err := zipWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}

	fileInfo, err := tmp.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get archive info: %w", err)
	}
	compressedSize := fileInfo.Size()

	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to close archive: %w", err)
	}
	if err := os.Rename(tmpPath, outputPath); err != nil {
		return nil, fmt.Errorf("failed to move archive into place: %w", err)
	}

	compressionRatio := 0.0
	if originalSize > 0 {
		compressionRatio = float64(compressedSize) / float64(originalSize)
	}

	return &models.ArchiveInfo{
		ArchivePath:      outputPath,
		OriginalPaths:    paths,
		CompressedSize:   compressedSize,
		OriginalSize:     originalSize,
		CompressionRatio: compressionRatio,
		CreatedAt:        createdAt,
	}, nil
}

func addToArchive(zipWriter *zip.Writer, path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return 0, fmt.Errorf("%s is a directory", path)
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return 0, err
	}
	header.Name = filepath.Base(path)
	header.Method = zip.Deflate

	writer, err := zipWriter.CreateHeader(header)
	if err != nil {
		return 0, err
	}

	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	return io.Copy(writer, file)
}

// ArchiveName names the bundle for a product over a date range.
func ArchiveName(product, start, end string) string {
	if start == end {
		return fmt.Sprintf("%s_%s.zip", product, start)
	}
	return fmt.Sprintf("%s_%s-%s.zip", product, start, end)
}

func ValidatePaths(paths []string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("path does not exist: %s", path)
			}
			return fmt.Errorf("cannot access path %s: %w", path, err)
		}
	}
	return nil
}

func CleanupTempFile(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to cleanup temporary file %s: %w", path, err)
	}
	return nil
}
