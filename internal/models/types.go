package models

import "time"

type CacheInfo struct {
	Directory      string         `json:"directory"`
	FileCount      int64          `json:"file_count"`
	TotalSizeBytes int64          `json:"total_size_bytes"`
	TotalSizeHuman string         `json:"total_size_human"`
	LastModified   time.Time      `json:"last_modified"`
	Extensions     map[string]int `json:"extensions"`
	PartialFiles   []string       `json:"partial_files,omitempty"`
}

type ProductInfo struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Granularity string `json:"granularity"`
	Host        string `json:"host"`
	Example     string `json:"example"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind"`
	Timestamp string `json:"timestamp"`
	Command   string `json:"command"`
}

type ArchiveInfo struct {
	ArchivePath      string    `json:"archive_path"`
	OriginalPaths    []string  `json:"original_paths"`
	CompressedSize   int64     `json:"compressed_size"`
	OriginalSize     int64     `json:"original_size"`
	CompressionRatio float64   `json:"compression_ratio"`
	CreatedAt        time.Time `json:"created_at"`
}
