package driver

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/microsoft/playwright-go-sub009/pkg/errors"
	"github.com/microsoft/playwright-go-sub009/pkg/httputil"
	"github.com/microsoft/playwright-go-sub009/pkg/observability"
)

// DefaultCDN is the release host for driver bundles.
const DefaultCDN = "https://playwright.azureedge.net/builds/driver"

// downloadTimeout bounds a single bundle download. Bundles are tens of
// megabytes; anything past this is a stuck connection.
const downloadTimeout = 5 * time.Minute

// metaTTL bounds how long CDN availability lookups are trusted. New
// releases appear on the CDN, so negative answers must eventually expire.
const metaTTL = 24 * time.Hour

// Downloader fetches driver bundles from the CDN and unpacks them into the
// local driver directory. Release-metadata lookups go through an HTTP
// response cache so repeated probes don't hit the CDN.
type Downloader struct {
	http    *http.Client
	baseURL string
	logger  *log.Logger
	meta    *httputil.Cache
}

// NewDownloader creates a Downloader against the default CDN.
// PLAYWRIGHT_DOWNLOAD_HOST overrides the release host, mirroring the
// upstream bindings.
func NewDownloader(logger *log.Logger) *Downloader {
	baseURL := DefaultCDN
	if host := os.Getenv("PLAYWRIGHT_DOWNLOAD_HOST"); host != "" {
		baseURL = strings.TrimRight(host, "/") + "/builds/driver"
	}
	// A missing metadata cache only costs extra probes.
	meta, err := httputil.NewCache("", metaTTL)
	if err != nil {
		logger.Debug("metadata cache unavailable", "err", err)
		meta = nil
	}
	d := &Downloader{
		http:    &http.Client{Timeout: downloadTimeout},
		baseURL: baseURL,
		logger:  logger,
	}
	if meta != nil {
		d.meta = meta.Namespace("cdn:")
	}
	return d
}

// Available reports whether the CDN serves a bundle for version on the
// current platform. Answers are cached for [metaTTL] so install and picker
// flows don't re-probe the CDN on every invocation.
func (d *Downloader) Available(ctx context.Context, version string) (bool, error) {
	if err := errors.ValidateDriverVersion(version); err != nil {
		return false, err
	}
	url, err := d.URL(version)
	if err != nil {
		return false, err
	}

	var available bool
	if d.meta != nil {
		if ok, _ := d.meta.Get(url, &available); ok {
			return available, nil
		}
	}

	err = httputil.RetryWithBackoff(ctx, func() error {
		ok, err := d.probe(ctx, url)
		available = ok
		return err
	})
	if err != nil {
		return false, err
	}
	if d.meta != nil {
		_ = d.meta.Set(url, available)
	}
	return available, nil
}

func (d *Downloader) probe(ctx context.Context, url string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeInternal, err, "build request")
	}
	resp, err := d.http.Do(req)
	if err != nil {
		return false, &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "probe %s", url)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return true, nil
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode >= 500:
		return false, &httputil.RetryableError{Err: errors.New(errors.ErrCodeNetwork, "probe %s: status %d", url, resp.StatusCode)}
	default:
		return false, errors.New(errors.ErrCodeNetwork, "probe %s: status %d", url, resp.StatusCode)
	}
}

// Platform returns the CDN platform identifier for the current OS and
// architecture.
func Platform() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		if runtime.GOARCH == "arm64" {
			return "mac-arm64", nil
		}
		return "mac", nil
	case "linux":
		if runtime.GOARCH == "arm64" {
			return "linux-arm64", nil
		}
		return "linux", nil
	case "windows":
		return "win32_x64", nil
	}
	return "", errors.New(errors.ErrCodeUnsupported, "no driver build for %s/%s", runtime.GOOS, runtime.GOARCH)
}

// URL returns the bundle URL for a driver version on the current platform.
func (d *Downloader) URL(version string) (string, error) {
	platform, err := Platform()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/playwright-%s-%s.zip", d.baseURL, version, platform), nil
}

// Download fetches the bundle for version and unpacks it into destDir.
// Transient network failures and 5xx responses are retried with backoff; a
// 404 means the version does not exist and fails immediately.
func (d *Downloader) Download(ctx context.Context, version, destDir string) error {
	if err := errors.ValidateDriverVersion(version); err != nil {
		return err
	}
	platform, err := Platform()
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/playwright-%s-%s.zip", d.baseURL, version, platform)

	observability.Driver().OnDownloadStart(ctx, version, platform)
	start := time.Now()
	err = d.download(ctx, url, destDir, version)
	observability.Driver().OnDownloadComplete(ctx, version, platform, time.Since(start), err)
	return err
}

func (d *Downloader) download(ctx context.Context, url, destDir, version string) error {
	tmp, err := os.CreateTemp("", "playwright-driver-*.zip")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create temp file")
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	d.logger.Info("downloading driver", "version", version, "url", url)
	err = httputil.RetryWithBackoff(ctx, func() error {
		if err := tmp.Truncate(0); err != nil {
			return err
		}
		if _, err := tmp.Seek(0, io.SeekStart); err != nil {
			return err
		}
		return d.fetch(ctx, url, tmp)
	})
	if err != nil {
		return err
	}

	if err := unzip(tmp.Name(), destDir); err != nil {
		return err
	}
	d.logger.Info("driver installed", "version", version, "dir", destDir)
	return nil
}

func (d *Downloader) fetch(ctx context.Context, url string, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "build request")
	}
	resp, err := d.http.Do(req)
	if err != nil {
		return &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", url)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return errors.New(errors.ErrCodeDriverNotFound, "no driver bundle at %s", url)
	case resp.StatusCode >= 500:
		return &httputil.RetryableError{Err: errors.New(errors.ErrCodeNetwork, "fetch %s: status %d", url, resp.StatusCode)}
	default:
		return errors.New(errors.ErrCodeNetwork, "fetch %s: status %d", url, resp.StatusCode)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "read body of %s", url)}
	}
	return nil
}

// unzip unpacks a bundle, preserving executable bits and rejecting entries
// that would escape destDir.
func unzip(zipPath, destDir string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "open driver bundle")
	}
	defer r.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create driver dir")
	}

	for _, f := range r.File {
		target := filepath.Join(destDir, filepath.Clean(f.Name))
		if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return errors.New(errors.ErrCodeInvalidFormat, "bundle entry %q escapes destination", f.Name)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "create dir %s", f.Name)
			}
			continue
		}
		if err := extractFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create dir for %s", f.Name)
	}
	src, err := f.Open()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "open bundle entry %s", f.Name)
	}
	defer src.Close()

	mode := f.Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}
	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", target)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "extract %s", f.Name)
	}
	return nil
}
