package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 128, G: 0, B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func imageServer(t *testing.T, hits *atomic.Int32, payload []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write(payload)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch_StoresJPEGAsIs(t *testing.T) {
	var hits atomic.Int32
	payload := encodeJPEG(t)
	srv := imageServer(t, &hits, payload)
	dir := t.TempDir()

	name, err := NewDownloader(dir, "").Fetch(context.Background(), srv.URL+"/cartel-8m.jpg")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "cartel-8m_"))
	assert.True(t, strings.HasSuffix(name, ".jpg"))

	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestFetch_ReencodesPNG(t *testing.T) {
	var hits atomic.Int32
	srv := imageServer(t, &hits, encodePNG(t))
	dir := t.TempDir()

	name, err := NewDownloader(dir, "").Fetch(context.Background(), srv.URL+"/cartel.png")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".jpg"))

	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	_, format, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestFetch_ReusesExistingFile(t *testing.T) {
	var hits atomic.Int32
	srv := imageServer(t, &hits, encodeJPEG(t))
	dir := t.TempDir()
	d := NewDownloader(dir, "")

	first, err := d.Fetch(context.Background(), srv.URL+"/a.jpg")
	require.NoError(t, err)
	second, err := d.Fetch(context.Background(), srv.URL+"/a.jpg")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), hits.Load())
}

func TestFetch_RejectsNonHTTP(t *testing.T) {
	_, err := NewDownloader(t.TempDir(), "").Fetch(context.Background(), "data:image/png;base64,xxxx")
	assert.Error(t, err)
}

func TestFetch_ServerErrorIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewDownloader(t.TempDir(), "").Fetch(context.Background(), srv.URL+"/missing.jpg")
	assert.Error(t, err)
}

func TestFilename_StableAndSanitized(t *testing.T) {
	a := filename("https://example.org/img/cartel 8m.jpg?v=2")
	b := filename("https://example.org/img/cartel 8m.jpg?v=2")
	assert.Equal(t, a, b)
	assert.NotContains(t, a, " ")
	assert.NotContains(t, a, "?")

	c := filename("https://example.org/img/cartel 8m.jpg?v=3")
	assert.NotEqual(t, a, c, "query string participates in the hash")
}

func TestFilename_ExtensionDefaults(t *testing.T) {
	assert.True(t, strings.HasSuffix(filename("https://example.org/download"), ".jpg"))
	assert.True(t, strings.HasSuffix(filename("https://example.org/foto.png"), ".jpg"))
	assert.True(t, strings.HasSuffix(filename("https://example.org/foto.webp"), ".webp"))
}
