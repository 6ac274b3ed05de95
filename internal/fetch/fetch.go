// internal/fetch/fetch.go

// Package fetch downloads named remote resources (datasets, label files,
// model files) into a local directory. Files that already exist are left
// alone. A download is written to a temporary file and renamed only once
// it has been fully received and checked, so a failed fetch never leaves a
// file that looks complete.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

const (
	defaultTimeout     = 60 * time.Second
	defaultConcurrency = 4
)

var (
	// ErrStatus is returned when the server answers with a non-200 status.
	ErrStatus = errors.New("unexpected HTTP status")
	// ErrEncoding is returned when a text resource is not UTF-8.
	ErrEncoding = errors.New("unexpected encoding")
	// ErrEmpty is returned when the server sends no content.
	ErrEmpty = errors.New("empty response body")
	// ErrInvalidResource is returned for resources without a usable name or URL.
	ErrInvalidResource = errors.New("invalid resource")
)

// Resource is a remote file saved under Name in the target directory.
type Resource struct {
	Name string
	URL  string
	// Binary disables the UTF-8 checks, for model weights and archives.
	Binary bool
}

// Status describes what happened to one resource.
type Status string

const (
	StatusDownloaded Status = "downloaded"
	StatusSkipped    Status = "skipped"
	StatusFailed     Status = "failed"
)

// Result reports the outcome for one resource.
type Result struct {
	Resource Resource
	Path     string
	Status   Status
	Bytes    int64
	Err      error
}

// Fetcher downloads resources over HTTP.
type Fetcher struct {
	Client      *http.Client
	Concurrency int
	Logger      zerolog.Logger
}

// New returns a Fetcher with the given per-request timeout.
func New(timeout time.Duration, log zerolog.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Fetcher{
		Client:      &http.Client{Timeout: timeout},
		Concurrency: defaultConcurrency,
		Logger:      log,
	}
}

// Fetch ensures every resource exists in dir, creating dir if needed.
// It returns one Result per resource, in input order, and the first error
// encountered. Downloads already in flight when an error occurs are
// cancelled and their temporary files removed.
func (f *Fetcher) Fetch(ctx context.Context, dir string, resources []Resource) ([]Result, error) {
	for _, r := range resources {
		if err := validate(r); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create directory %q: %w", dir, err)
	}

	limit := f.Concurrency
	if limit <= 0 {
		limit = defaultConcurrency
	}
	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	results := make([]Result, len(resources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, res := range resources {
		i, res := i, res
		path := filepath.Join(dir, filepath.FromSlash(res.Name))
		results[i] = Result{Resource: res, Path: path}

		if info, err := os.Stat(path); err == nil && info.Size() > 0 {
			results[i].Status = StatusSkipped
			results[i].Bytes = info.Size()
			f.Logger.Info().Str("file", path).Msg("already present, skipping")
			continue
		}

		g.Go(func() error {
			n, err := download(gctx, client, res, path)
			results[i].Bytes = n
			if err != nil {
				results[i].Status = StatusFailed
				results[i].Err = err
				f.Logger.Error().Err(err).Str("url", res.URL).Msg("download failed")
				return err
			}
			results[i].Status = StatusDownloaded
			f.Logger.Info().Str("file", path).Int64("bytes", n).Msg("downloaded")
			return nil
		})
	}

	err := g.Wait()
	return results, err
}

// validate accepts names that are clean, slash-separated paths relative to
// the download directory, such as "1_Pooling/config.json".
func validate(r Resource) error {
	name := strings.TrimSpace(r.Name)
	if name == "" || name == "." || path.Clean(name) != name || strings.HasSuffix(name, "/") ||
		!filepath.IsLocal(filepath.FromSlash(name)) {
		return fmt.Errorf("%w: name %q must be a relative path inside the download directory", ErrInvalidResource, r.Name)
	}
	if !strings.HasPrefix(r.URL, "http://") && !strings.HasPrefix(r.URL, "https://") {
		return fmt.Errorf("%w: %s has non-http URL %q", ErrInvalidResource, r.Name, r.URL)
	}
	return nil
}

// download streams the resource to a temp file next to path and renames it
// into place once all checks pass.
func download(ctx context.Context, client *http.Client, res Resource, path string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, res.URL, nil)
	if err != nil {
		return 0, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("get %s: %w", res.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: %s returned %s", ErrStatus, res.URL, resp.Status)
	}
	if !res.Binary {
		if err := checkCharset(resp.Header.Get("Content-Type")); err != nil {
			return 0, fmt.Errorf("%s: %w", res.URL, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("create directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.part")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	var n int64
	if res.Binary {
		n, err = io.Copy(tmp, resp.Body)
	} else {
		n, err = copyUTF8(tmp, resp.Body)
	}
	if err != nil {
		return n, fmt.Errorf("%s: %w", res.URL, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: %s", ErrEmpty, res.URL)
	}

	if err := tmp.Close(); err != nil {
		return n, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return n, fmt.Errorf("rename into place: %w", err)
	}
	committed = true
	return n, nil
}

// checkCharset rejects a declared charset other than UTF-8. A missing
// charset is accepted; the body is then checked byte by byte.
func checkCharset(contentType string) error {
	if contentType == "" {
		return nil
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil
	}
	charset := params["charset"]
	if charset == "" {
		return nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return fmt.Errorf("%w: unknown charset %q", ErrEncoding, charset)
	}
	if name, _ := htmlindex.Name(enc); name != "utf-8" {
		return fmt.Errorf("%w: charset %q is not utf-8", ErrEncoding, charset)
	}
	return nil
}

// copyUTF8 copies src to dst and fails at the first byte that is not part
// of a valid UTF-8 sequence, including a sequence truncated by end of body.
func copyUTF8(dst io.Writer, src io.Reader) (int64, error) {
	n, err := io.Copy(dst, transform.NewReader(src, encoding.UTF8Validator))
	if errors.Is(err, encoding.ErrInvalidUTF8) {
		return n, fmt.Errorf("%w: invalid UTF-8 at byte %d", ErrEncoding, n)
	}
	return n, err
}
