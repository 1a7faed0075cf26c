package fetch

import (
	"crypto/sha1"
	"encoding/hex"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// diskCache stores fetched HTML keyed by the sha1 of the URL. Filenames
// derived from hashes stay valid for arbitrary URLs and keep cache keys
// stable across runs.
type diskCache struct {
	dir string
}

func newDiskCache(dir string) *diskCache {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		zap.L().Warn("fetch: cache dir unavailable, caching disabled",
			zap.String("dir", dir), zap.Error(err))
		return nil
	}
	return &diskCache{dir: dir}
}

func (d *diskCache) path(rawURL string) string {
	sum := sha1.Sum([]byte(rawURL))
	return filepath.Join(d.dir, hex.EncodeToString(sum[:])+".html")
}

func (d *diskCache) get(rawURL string) (string, bool) {
	data, err := os.ReadFile(d.path(rawURL))
	if err != nil || len(data) == 0 {
		return "", false
	}
	return string(data), true
}

func (d *diskCache) put(rawURL, body string) {
	if err := os.WriteFile(d.path(rawURL), []byte(body), 0o644); err != nil {
		zap.L().Debug("fetch: cache write failed", zap.String("url", rawURL), zap.Error(err))
	}
}
