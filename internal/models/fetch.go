package models

type FetchStatus string

const (
	StatusCached      FetchStatus = "cached"
	StatusDownloaded  FetchStatus = "downloaded"
	StatusUnavailable FetchStatus = "unavailable"
)

type FetchRequest struct {
	Product     string `json:"product"`
	Date        string `json:"date"`
	Destination string `json:"destination"`
}

type FetchResult struct {
	Product          string      `json:"product"`
	Date             string      `json:"date"`
	Host             string      `json:"host"`
	RemoteDir        string      `json:"remote_dir"`
	FileName         string      `json:"file_name"`
	LocalPath        string      `json:"local_path"`
	Status           FetchStatus `json:"status"`
	SizeBytes        int64       `json:"size_bytes"`
	SizeHuman        string      `json:"size_human"`
	Message          string      `json:"message,omitempty"`
	OperationTime    string      `json:"operation_time"`
	DownloadDuration string      `json:"download_duration,omitempty"`
}

// Available reports whether LocalPath names a complete file.
func (r *FetchResult) Available() bool {
	return r.Status == StatusCached || r.Status == StatusDownloaded
}

type BatchResult struct {
	Product          string        `json:"product"`
	Start            string        `json:"start"`
	End              string        `json:"end"`
	Destination      string        `json:"destination"`
	Items            []FetchResult `json:"items"`
	Downloaded       int           `json:"downloaded"`
	Cached           int           `json:"cached"`
	Unavailable      int           `json:"unavailable"`
	TotalSizeBytes   int64         `json:"total_size_bytes"`
	TotalSizeHuman   string        `json:"total_size_human"`
	ArchivePath      string        `json:"archive_path,omitempty"`
	OperationTime    string        `json:"operation_time"`
	DownloadDuration string        `json:"download_duration"`
}

func (b *BatchResult) Add(item FetchResult) {
	b.Items = append(b.Items, item)
	switch item.Status {
	case StatusDownloaded:
		b.Downloaded++
	case StatusCached:
		b.Cached++
	case StatusUnavailable:
		b.Unavailable++
	}
	b.TotalSizeBytes += item.SizeBytes
}

// LocalPaths lists the files the batch left on disk.
func (b *BatchResult) LocalPaths() []string {
	var paths []string
	for _, item := range b.Items {
		if item.Available() {
			paths = append(paths, item.LocalPath)
		}
	}
	return paths
}
