package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geochicas/mapper8m/internal/config"
	"github.com/geochicas/mapper8m/internal/model"
	"github.com/geochicas/mapper8m/pkg/nominatim"
)

const eventHTML = `<html><head><title>Marcha 8M Buenos Aires</title></head><body>
<h1>Marcha 8 de marzo</h1>
<p>La asamblea feminista convoca a la marcha y concentración del 8 de marzo a las 17:00
desde el Congreso. Punto de encuentro: Plaza de Mayo, Buenos Aires. Traé tu pañuelo,
sumate con tu colectiva y difundí la convocatoria de este año para el paro internacional
de mujeres. Habrá actividades durante toda la jornada y lectura del documento.</p>
</body></html>`

const navHTML = `<html><head><title>Inicio</title></head><body>
<li>Inicio</li><li>Quiénes somos</li><li>Contacto</li><li>Aviso legal</li>
<li>Política de privacidad</li><li>Archivo</li><li>Categorías</li><li>Buscar</li>
<p>Bienvenida al portal institucional con noticias y secciones variadas del organismo.</p>
</body></html>`

type fakeFetcher map[string]string

func (f fakeFetcher) Page(_ context.Context, rawURL string, _ bool) string {
	return f[rawURL]
}

type fakeGeocoder struct{ calls int }

func (g *fakeGeocoder) Geocode(_ context.Context, query string) (*nominatim.Result, error) {
	g.calls++
	return &nominatim.Result{Lat: "-34.6", Lon: "-58.38", DisplayName: query}, nil
}

type fakeImages struct{ calls int }

func (f *fakeImages) Fetch(_ context.Context, _ string) (string, error) {
	f.calls++
	return "cartel_ab12cd.jpg", nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	sourcesYML := filepath.Join(dir, "sources.yml")
	require.NoError(t, os.WriteFile(sourcesYML, []byte(`
priority_urls:
  - https://feministas.org.ar/8m
urls:
  - https://portal.example.org
`), 0o644))

	citiesTxt := filepath.Join(dir, "cities.txt")
	require.NoError(t, os.WriteFile(citiesTxt, []byte("Buenos Aires\nMadrid\n"), 0o644))

	return &config.Config{
		Sources: config.SourcesConfig{
			SourcesFile:  sourcesYML,
			KeywordsFile: filepath.Join(dir, "missing-keywords.yml"),
			CitiesFile:   citiesTxt,
		},
		Scorer:  config.ScorerConfig{Threshold: 8, MinTextLength: 120, NavHitLimit: 6, ProximityChars: 140},
		Fetch:   config.FetchConfig{UseCache: false},
		Geocode: config.GeocodeConfig{Enabled: true},
		Media:   config.MediaConfig{Enabled: true},
		Export: config.ExportConfig{
			MasterPath:  filepath.Join(dir, "out", "master.csv"),
			UMapPath:    filepath.Join(dir, "out", "umap.csv"),
			NoCoordPath: filepath.Join(dir, "out", "sin_coord.csv"),
			MinScore:    10,
		},
		Run: config.RunConfig{Concurrency: 2, URLTimeoutSecs: 10, ProgressEvery: 100},
	}
}

func TestRun_EndToEnd(t *testing.T) {
	fetcher := fakeFetcher{
		"https://feministas.org.ar/8m": eventHTML,
		"https://portal.example.org":   navHTML,
	}
	geo := &fakeGeocoder{}
	imgs := &fakeImages{}
	cfg := testConfig(t)

	p := New(cfg, fetcher, geo, imgs)
	stats, err := p.Run(context.Background(), RunOptions{})
	require.NoError(t, err)

	assert.NotEmpty(t, stats.RunID)
	// Priority URL plus the seed page itself mined for links (none here).
	assert.Equal(t, 2, stats.Candidates)
	assert.Equal(t, 2, stats.Fetched)
	assert.Equal(t, 1, stats.Accepted, "nav page must be rejected")
	assert.Equal(t, 1, stats.Geocoded)
	assert.Equal(t, 1, geo.calls)

	for _, path := range []string{cfg.Export.MasterPath, cfg.Export.UMapPath, cfg.Export.NoCoordPath} {
		_, err := os.Stat(path)
		assert.NoError(t, err, path)
	}
}

func TestRun_FastSkipsEnrichment(t *testing.T) {
	fetcher := fakeFetcher{"https://feministas.org.ar/8m": eventHTML}
	geo := &fakeGeocoder{}
	imgs := &fakeImages{}

	p := New(testConfig(t), fetcher, geo, imgs)
	stats, err := p.Run(context.Background(), RunOptions{Fast: true})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Accepted)
	assert.Equal(t, 0, stats.Geocoded)
	assert.Equal(t, 0, geo.calls)
	assert.Equal(t, 0, imgs.calls)
}

func TestRun_MaxCandidatesCap(t *testing.T) {
	fetcher := fakeFetcher{"https://feministas.org.ar/8m": eventHTML}
	p := New(testConfig(t), fetcher, nil, nil)

	stats, err := p.Run(context.Background(), RunOptions{Fast: true, MaxCandidates: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Candidates)
}

func TestDiscover_ListsCandidates(t *testing.T) {
	fetcher := fakeFetcher{
		"https://portal.example.org": `<a href="/convocatoria">x</a>`,
	}
	p := New(testConfig(t), fetcher, nil, nil)

	urls, err := p.Discover(context.Background(), RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://feministas.org.ar/8m",
		"https://portal.example.org/convocatoria",
	}, urls)
}

func TestScorePage_AcceptedURL(t *testing.T) {
	fetcher := fakeFetcher{"https://feministas.org.ar/8m": eventHTML}
	p := New(testConfig(t), fetcher, nil, nil)

	score, rec, err := p.ScorePage(context.Background(), "https://feministas.org.ar/8m")
	require.NoError(t, err)
	assert.True(t, score.Accepted)
	require.NotNil(t, rec)
	assert.True(t, strings.HasSuffix(rec.Date, "-03-08"), "got %q", rec.Date)
	assert.Equal(t, "Buenos Aires", rec.City)
}

func TestScorePage_RejectedPageHasNoRecord(t *testing.T) {
	fetcher := fakeFetcher{"https://portal.example.org": navHTML}
	p := New(testConfig(t), fetcher, nil, nil)

	score, rec, err := p.ScorePage(context.Background(), "https://portal.example.org")
	require.NoError(t, err)
	assert.False(t, score.Accepted)
	assert.Nil(t, rec)
	assert.NotEmpty(t, score.Signals.Reason)
}

func TestScorePage_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(eventHTML), 0o644))

	p := New(testConfig(t), fakeFetcher{}, nil, nil)
	score, rec, err := p.ScorePage(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, score.Accepted)
	require.NotNil(t, rec)
}

func TestLocationPrecision(t *testing.T) {
	assert.Equal(t, "exacta", locationPrecision(&model.EventRecord{ExactLocation: "Plaza"}))
	assert.Equal(t, "ciudad", locationPrecision(&model.EventRecord{City: "Madrid"}))
	assert.Equal(t, "pais", locationPrecision(&model.EventRecord{Country: "Spain"}))
}
