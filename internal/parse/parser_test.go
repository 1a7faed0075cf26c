package parse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eventPage = `<!DOCTYPE html>
<html><head>
<title> Marcha 8M · Colectiva Feminista </title>
<meta property="og:title" content="Marcha 8M">
<meta property="og:description" content="Convocatoria a la marcha del 8 de marzo">
<meta property="og:image" content="/img/cartel-8m.jpg">
<meta property="article:published_time" content="2026-02-20T10:00:00Z">
<meta name="twitter:image" content="https://cdn.example.org/flyer.png">
</head><body>
<nav><a href="/">Inicio</a><a href="/contacto">Contacto</a></nav>
<h1>Marcha del 8 de marzo</h1>
<p>Convocamos a la marcha el 8 de marzo a las 18:00 desde Plaza Mayor.</p>
<p>Ver</p>
<ul><li>Concentración previa en la estación central a las 17:30.</li></ul>
<div>Este texto vive en un div y no entra en el cuerpo extraído.</div>
</body></html>`

func TestParse_HTMLTitleAndText(t *testing.T) {
	doc, err := Parse("https://colectiva.example.org/8m", eventPage)
	require.NoError(t, err)

	assert.Equal(t, "Marcha 8M · Colectiva Feminista", doc.Title)
	assert.Equal(t, "https://colectiva.example.org/8m", doc.URL)

	lines := strings.Split(doc.Text, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Marcha del 8 de marzo", lines[0])
	assert.Contains(t, lines[1], "Plaza Mayor")
	assert.Contains(t, lines[2], "Concentración previa")

	assert.NotContains(t, doc.Text, "Ver", "fragments under the minimum length are dropped")
	assert.NotContains(t, doc.Text, "div")
}

func TestParse_MetaTags(t *testing.T) {
	doc, err := Parse("https://colectiva.example.org/8m", eventPage)
	require.NoError(t, err)

	assert.Equal(t, "Marcha 8M", doc.Meta["og:title"])
	assert.Equal(t, "Convocatoria a la marcha del 8 de marzo", doc.Meta["og:description"])
	assert.Equal(t, "/img/cartel-8m.jpg", doc.Meta["og:image"])
	assert.Equal(t, "2026-02-20T10:00:00Z", doc.Meta["article:published_time"])
	assert.Equal(t, "https://cdn.example.org/flyer.png", doc.Meta["twitter:image"])
	assert.Equal(t, "", doc.Meta["og:site_name"], "absent tags yield empty values, not missing keys")
}

func TestParse_EmptyBody(t *testing.T) {
	_, err := Parse("https://example.org", "   \n\t ")
	assert.Error(t, err)
}

func TestParse_FeedMode(t *testing.T) {
	feed := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
<title>Agenda feminista</title>
<description>Convocatorias y actividades de la coordinadora feminista local.</description>
<item>
  <title>Marcha del 8 de marzo desde Plaza Mayor</title>
  <description>&lt;p&gt;Concentración a las &lt;b&gt;18:00&lt;/b&gt; en Plaza Mayor.&lt;/p&gt;</description>
  <enclosure url="/media/cartel.jpg" type="image/jpeg" length="1000"/>
</item>
</channel></rss>`

	doc, err := Parse("https://agenda.example.org/feed", feed)
	require.NoError(t, err)

	assert.Equal(t, "Agenda feminista", doc.Title)
	assert.Contains(t, doc.Text, "Marcha del 8 de marzo desde Plaza Mayor")
	assert.Contains(t, doc.Text, "Concentración a las 18:00 en Plaza Mayor.")
	assert.NotContains(t, doc.Text, "<b>", "embedded markup is stripped")
	assert.Equal(t, []string{"https://agenda.example.org/media/cartel.jpg"}, doc.Images)
}

func TestParse_FeedSniffFallsBackToHTML(t *testing.T) {
	// An HTML page that merely mentions <?xml in a code sample must not be
	// rejected when feed parsing fails.
	body := `<html><head><title>Taller</title></head><body>
<p>Aprende a escribir &lt;?xml y otras cabeceras durante el taller del 8M.</p>
<p><?xml sin cerrar</p>
<h2>Programa completo de la jornada del 8 de marzo</h2>
</body></html>`
	doc, err := Parse("https://example.org/taller", body)
	require.NoError(t, err)
	assert.Equal(t, "Taller", doc.Title)
	assert.Contains(t, doc.Text, "Programa completo")
}

func TestResolveURL(t *testing.T) {
	base := "https://example.org/eventos/8m"
	cases := []struct {
		candidate string
		want      string
	}{
		{"https://cdn.example.org/a.jpg", "https://cdn.example.org/a.jpg"},
		{"/img/a.jpg", "https://example.org/img/a.jpg"},
		{"cartel.jpg", "https://example.org/eventos/cartel.jpg"},
		{"  /img/a.jpg ", "https://example.org/img/a.jpg"},
		{"data:image/png;base64,AAAA", ""},
		{"ftp://example.org/a.jpg", ""},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, resolveURL(base, tc.candidate), tc.candidate)
	}
}

func TestCollapseWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", collapseWhitespace("  a \n\t b   c "))
}
