package crawl

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeFetcher map[string]string

func (f fakeFetcher) Page(_ context.Context, rawURL string, _ bool) string {
	return f[rawURL]
}

func TestExtractLinks_AbsoluteAndRelative(t *testing.T) {
	html := `<html><body>
		<a href="/convocatoria-8m">local</a>
		<a href="https://otra.org/evento">external</a>
		<a href="mailto:info@example.org">mail</a>
		<a href="javascript:void(0)">js</a>
		<a href="#top">anchor</a>
		<a href="/convocatoria-8m#detalles">dupe after defrag</a>
	</body></html>`

	links := ExtractLinks("https://example.org/inicio", html)
	assert.Equal(t, []string{
		"https://example.org/convocatoria-8m",
		"https://otra.org/evento",
	}, links)
}

func TestSameDomain(t *testing.T) {
	assert.True(t, SameDomain("https://www.example.org/a", "https://example.org/b"))
	assert.True(t, SameDomain("http://example.org", "https://example.org/x"))
	assert.False(t, SameDomain("https://example.org", "https://otra.org"))
	assert.False(t, SameDomain("not a url at all ://", "https://example.org"))
}

func TestCandidates_PriorityFirstThenSeedLinks(t *testing.T) {
	f := fakeFetcher{
		"https://example.org": `<a href="/a">a</a><a href="/b">b</a><a href="https://otra.org/c">c</a>`,
	}
	got := Candidates(context.Background(), f,
		[]string{"https://priority.org/8m"},
		[]string{"https://example.org"},
		Limits{}, false)

	assert.Equal(t, []string{
		"https://priority.org/8m",
		"https://example.org/a",
		"https://example.org/b",
	}, got)
}

func TestCandidates_PerSeedCap(t *testing.T) {
	var html string
	for i := 0; i < 10; i++ {
		html += fmt.Sprintf(`<a href="/p%d">p</a>`, i)
	}
	f := fakeFetcher{"https://example.org": html}

	got := Candidates(context.Background(), f, nil,
		[]string{"https://example.org"},
		Limits{MaxPagesPerSeed: 3}, false)
	assert.Len(t, got, 3)
}

func TestCandidates_TotalCap(t *testing.T) {
	priority := []string{"https://a.org/1", "https://a.org/2", "https://a.org/3"}
	got := Candidates(context.Background(), fakeFetcher{}, priority, nil,
		Limits{MaxTotalCandidates: 2}, false)
	assert.Len(t, got, 2)
}

func TestCandidates_DedupesAcrossPhases(t *testing.T) {
	f := fakeFetcher{
		"https://example.org": `<a href="/a">a</a>`,
	}
	got := Candidates(context.Background(), f,
		[]string{"https://example.org/a"},
		[]string{"https://example.org"},
		Limits{}, false)
	assert.Equal(t, []string{"https://example.org/a"}, got)
}

func TestCandidates_UnfetchableSeedSkipped(t *testing.T) {
	got := Candidates(context.Background(), fakeFetcher{}, nil,
		[]string{"https://down.example.org"}, Limits{}, false)
	assert.Empty(t, got)
}
