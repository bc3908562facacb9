package ftpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	appConfig "oceanfetch/config"
	"oceanfetch/internal/models"
	"oceanfetch/internal/product"
	"oceanfetch/pkg/utils"
)

// ErrLocalIO marks failures of the local cache directory. They are
// returned to the caller instead of being reported as unavailable.
var ErrLocalIO = errors.New("local i/o error")

// remoteError is a failure on the archive side of a fetch.
type remoteError struct {
	Stage string
	Err   error
}

func (e *remoteError) Error() string {
	return e.Stage + ": " + e.Err.Error()
}

func (e *remoteError) Unwrap() error {
	return e.Err
}

type Fetcher struct {
	user     string
	password string
	dial     DialFunc
}

type Option func(*Fetcher)

func WithDialer(dial DialFunc) Option {
	return func(f *Fetcher) {
		f.dial = dial
	}
}

func New(cfg *appConfig.Config, opts ...Option) *Fetcher {
	f := &Fetcher{
		user:     cfg.FTPUser,
		password: cfg.FTPPassword,
		dial:     Dialer(cfg.FTPTimeout),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch materializes target in destDir. A file already present there is
// reported as cached without contacting the archive. Archive failures are
// reported through the result status; only local I/O failures and context
// cancellation come back as errors.
func (f *Fetcher) Fetch(ctx context.Context, target product.Target, destDir string) (*models.FetchResult, error) {
	startTime := time.Now()
	result := &models.FetchResult{
		Product:       target.Product,
		Date:          target.DateLabel(),
		Host:          target.Host,
		RemoteDir:     target.Dir,
		FileName:      target.File,
		LocalPath:     filepath.Join(destDir, target.File),
		OperationTime: utils.FormatTime(startTime),
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: creating %s: %v", ErrLocalIO, destDir, err)
	}

	info, err := os.Stat(result.LocalPath)
	switch {
	case err == nil:
		result.Status = models.StatusCached
		result.SizeBytes = info.Size()
		result.SizeHuman = utils.FormatBytes(info.Size())
		slog.Debug("file already cached", "product", target.Product, "path", result.LocalPath)
		return result, nil
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: checking %s: %v", ErrLocalIO, result.LocalPath, err)
	}

	slog.Info("downloading", "product", target.Product, "date", result.Date,
		"host", target.Host, "file", target.Dir+target.File)

	size, err := f.download(ctx, target, result.LocalPath)
	if err != nil {
		var remote *remoteError
		if !errors.As(err, &remote) {
			return nil, err
		}
		result.Status = models.StatusUnavailable
		result.Message = fmt.Sprintf("%s %s: file %s not available from %s: %v",
			target.Product, result.Date, target.File, target.Host, remote)
		slog.Warn("file not available", "product", target.Product, "date", result.Date,
			"file", target.File, "error", remote)
		return result, nil
	}

	duration := time.Since(startTime)
	result.Status = models.StatusDownloaded
	result.SizeBytes = size
	result.SizeHuman = utils.FormatBytes(size)
	result.DownloadDuration = duration.String()
	slog.Info("download finished", "path", result.LocalPath, "size", result.SizeHuman, "duration", duration)

	return result, nil
}

func (f *Fetcher) download(ctx context.Context, target product.Target, localPath string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	sess, err := f.dial(ctx, hostAddr(target.Host))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
		return 0, &remoteError{Stage: "connect", Err: err}
	}
	defer func() {
		if err := sess.Quit(); err != nil {
			slog.Debug("ftp quit failed", "host", target.Host, "error", err)
		}
	}()

	if err := sess.Login(f.user, f.password); err != nil {
		return 0, &remoteError{Stage: "login", Err: err}
	}
	if err := sess.ChangeDir(target.Dir); err != nil {
		return 0, &remoteError{Stage: "change dir " + target.Dir, Err: err}
	}

	body, err := sess.Retr(target.File)
	if err != nil {
		return 0, &remoteError{Stage: "retrieve " + target.File, Err: err}
	}

	return writeFile(ctx, body, localPath)
}

// writeFile streams body into a temporary file beside localPath and renames
// it into place once the server has confirmed the transfer. Nothing is left
// at localPath on failure.
func writeFile(ctx context.Context, body io.ReadCloser, localPath string) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(localPath), "."+filepath.Base(localPath)+".part-*")
	if err != nil {
		body.Close()
		return 0, fmt.Errorf("%w: creating temporary file: %v", ErrLocalIO, err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			if err := utils.CleanupTempFile(tmpPath); err != nil {
				slog.Warn("failed to remove partial download", "path", tmpPath, "error", err)
			}
		}
	}()

	src := &sourceReader{ctx: ctx, r: body}
	n, copyErr := io.Copy(tmp, src)
	closeErr := body.Close()

	if copyErr != nil {
		if src.err == nil {
			return 0, fmt.Errorf("%w: writing %s: %v", ErrLocalIO, tmpPath, copyErr)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
		return 0, &remoteError{Stage: "transfer", Err: src.err}
	}
	if closeErr != nil {
		return 0, &remoteError{Stage: "transfer", Err: closeErr}
	}

	if err := tmp.Sync(); err != nil {
		return 0, fmt.Errorf("%w: syncing %s: %v", ErrLocalIO, tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("%w: closing %s: %v", ErrLocalIO, tmpPath, err)
	}
	if err := os.Rename(tmpPath, localPath); err != nil {
		return 0, fmt.Errorf("%w: renaming %s: %v", ErrLocalIO, tmpPath, err)
	}
	committed = true

	return n, nil
}

// sourceReader records read-side errors so a failed copy can be blamed on
// the right end, and stops reading once ctx is done.
type sourceReader struct {
	ctx context.Context
	r   io.Reader
	err error
}

func (s *sourceReader) Read(p []byte) (int, error) {
	if err := s.ctx.Err(); err != nil {
		s.err = err
		return 0, err
	}
	n, err := s.r.Read(p)
	if err != nil && err != io.EOF {
		s.err = err
	}
	return n, err
}
