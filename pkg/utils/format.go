package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"oceanfetch/internal/models"
)

func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func WriteJSON(w io.Writer, data interface{}) error {
	jsonOutput, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if _, err := fmt.Fprintln(w, string(jsonOutput)); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

func WriteError(w io.Writer, err error, command, kind string) {
	errorResp := models.ErrorResponse{
		Error:     err.Error(),
		Kind:      kind,
		Timestamp: FormatTime(time.Now()),
		Command:   command,
	}
	if err := WriteJSON(w, errorResp); err != nil {
		slog.Error("Failed to print error in JSON format", "error", err)
		fmt.Fprintln(w, "Error: ", errorResp)
	}
}

func FormatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

// SetupLogging installs a text handler on stderr as the default slog
// logger so stdout stays reserved for JSON results.
func SetupLogging(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
