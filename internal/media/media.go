// Package media materializes event images: download the best candidate,
// store it under a stable hash-suffixed name, and re-encode PNGs to JPEG so
// the published set stays small and uniform.
package media

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const (
	maxImageBytes = 8 << 20
	jpegQuality   = 85
)

// Downloader fetches and stores images. Safe for concurrent use.
type Downloader struct {
	outDir     string
	userAgent  string
	httpClient *http.Client
}

// NewDownloader creates a Downloader writing into outDir.
func NewDownloader(outDir, userAgent string) *Downloader {
	if userAgent == "" {
		userAgent = "mapper8m/1.0 (public observatory)"
	}
	return &Downloader{
		outDir:     outDir,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: 25 * time.Second},
	}
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)
var knownExt = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|webp|gif)$`)

// Fetch downloads an image and returns its stored filename. The name is
// derived from the URL's basename plus a sha1 fragment, so re-running the
// pipeline reuses existing files instead of re-downloading. Failure returns
// ("", err); callers treat it as a soft miss.
func (d *Downloader) Fetch(ctx context.Context, rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return "", eris.Errorf("media: not an http url: %q", rawURL)
	}
	if err := os.MkdirAll(d.outDir, 0o755); err != nil {
		return "", eris.Wrap(err, "media: create output dir")
	}

	name := filename(rawURL)
	dst := filepath.Join(d.outDir, name)
	if st, err := os.Stat(dst); err == nil && st.Size() > 0 {
		zap.L().Debug("media: image already materialized", zap.String("file", name))
		return name, nil
	}

	data, err := d.download(ctx, rawURL)
	if err != nil {
		return "", err
	}

	// PNG sources are re-encoded; anything else is stored as-is.
	if converted, ok := pngToJPEG(data); ok {
		data = converted
	}

	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", eris.Wrap(err, "media: write image")
	}
	zap.L().Debug("media: image stored", zap.String("url", rawURL), zap.String("file", name))
	return name, nil
}

func (d *Downloader) download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "media: build request")
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "media: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("media: status %d from %s", resp.StatusCode, rawURL)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, eris.Wrap(err, "media: read body")
	}
	if len(data) == 0 {
		return nil, eris.Errorf("media: empty body from %s", rawURL)
	}
	return data, nil
}

// filename derives a stable name: URL basename, sanitized, with a sha1
// fragment of the full URL appended before the extension.
func filename(rawURL string) string {
	base := "image"
	if u, err := url.Parse(rawURL); err == nil {
		if b := path.Base(u.Path); b != "" && b != "/" && b != "." {
			base = b
		}
	}
	base = unsafeChars.ReplaceAllString(base, "_")
	if !knownExt.MatchString(base) {
		base += ".jpg"
	}

	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	// PNG sources get re-encoded, so their stored name is .jpg up front.
	if strings.EqualFold(ext, ".png") {
		ext = ".jpg"
	}
	sum := sha1.Sum([]byte(rawURL))
	return stem + "_" + hex.EncodeToString(sum[:])[:16] + ext
}

// pngToJPEG re-encodes PNG bytes as JPEG. Returns (nil, false) for anything
// that is not a decodable PNG.
func pngToJPEG(data []byte) ([]byte, bool) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil || format != "png" {
		return nil, false
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, false
	}
	return buf.Bytes(), true
}
