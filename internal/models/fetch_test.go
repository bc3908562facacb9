package models

import "testing"

func TestBatchResultAdd(t *testing.T) {
	var batch BatchResult

	batch.Add(FetchResult{LocalPath: "a.nc", Status: StatusDownloaded, SizeBytes: 10})
	batch.Add(FetchResult{LocalPath: "b.nc", Status: StatusCached, SizeBytes: 5})
	batch.Add(FetchResult{LocalPath: "c.nc", Status: StatusUnavailable})

	if batch.Downloaded != 1 || batch.Cached != 1 || batch.Unavailable != 1 {
		t.Errorf("counts = %d/%d/%d, want 1/1/1", batch.Downloaded, batch.Cached, batch.Unavailable)
	}
	if batch.TotalSizeBytes != 15 {
		t.Errorf("TotalSizeBytes = %d, want 15", batch.TotalSizeBytes)
	}

	paths := batch.LocalPaths()
	if len(paths) != 2 || paths[0] != "a.nc" || paths[1] != "b.nc" {
		t.Errorf("LocalPaths() = %v, want [a.nc b.nc]", paths)
	}
}
