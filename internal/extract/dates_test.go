package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// testNow is a frozen clock well before March 8 of its year.
var testNow = time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)

func TestResolveDate_ExplicitMarch8(t *testing.T) {
	cases := []string{
		"Gran marcha del 8 de marzo, nos vemos en la plaza",
		"Manifestação de 8 de março contra a violência",
		"Rassemblement du 8 mars devant la mairie",
		"Join us on March 8th for the strike",
		"Vaga feminista el 8 de març",
	}
	for _, in := range cases {
		assert.Equal(t, "2026-03-08", ResolveDate(in, testNow), "input %q", in)
	}
}

func TestResolveDate_ExplicitYearOverridesClock(t *testing.T) {
	got := ResolveDate("crónica del 8 de marzo de 2023 en Madrid", testNow)
	assert.Equal(t, "2023-03-08", got)

	got = ResolveDate("archive: March 8, 2020 rally photos", testNow)
	assert.Equal(t, "2020-03-08", got)
}

func TestResolveDate_ISOForm(t *testing.T) {
	got := ResolveDate("evento programado para 2026-03-08 a las 17h", testNow)
	assert.Equal(t, "2026-03-08", got)
}

func TestResolveDate_NumericDayFirst(t *testing.T) {
	// 07/03/2026 is day-first in this corpus: March 7, not July 3.
	got := ResolveDate("concentración previa el 07/03/2026 en la puerta", testNow)
	assert.Equal(t, "2026-03-07", got)
}

func TestResolveDate_InferredYearPrefersFuture(t *testing.T) {
	// January 2 with a January 15 clock already passed, so next year wins.
	got := ResolveDate("asamblea el 2 de enero, marcha confirmada", testNow)
	assert.Equal(t, "2027-01-02", got)
}

func TestResolveDate_MarchBeatsPublishDate(t *testing.T) {
	text := "Publicado el 15 de enero de 2026. Marcha el 9 de marzo por el centro."
	assert.Equal(t, "2026-03-09", ResolveDate(text, testNow))
}

func TestResolveDate_AbsurdNumbersStripped(t *testing.T) {
	// Phone fragments and IDs must not surface as years.
	got := ResolveDate("llámanos al 5551 234567, marcha 9 de marzo", testNow)
	assert.Equal(t, "2026-03-09", got)
}

func TestResolveDate_RejectsRolloverDates(t *testing.T) {
	assert.Equal(t, "", ResolveDate("el 30 de febrero no existe", testNow))
}

func TestResolveDate_Empty(t *testing.T) {
	assert.Equal(t, "", ResolveDate("", testNow))
	assert.Equal(t, "", ResolveDate("texto sin fechas de ningún tipo", testNow))
}

func TestResolveDate_WindowLimitsSearch(t *testing.T) {
	// A date beyond the scan window is invisible.
	pad := make([]byte, 5000)
	for i := range pad {
		pad[i] = 'x'
	}
	text := string(pad) + " marcha el 8 de marzo"
	assert.Equal(t, "", ResolveDate(text, testNow))
}

func TestResolveDate_RoundTrips(t *testing.T) {
	got := ResolveDate("huelga el 9 de marzo de 2026", testNow)
	parsed, err := time.Parse("2006-01-02", got)
	assert.NoError(t, err)
	assert.Equal(t, 2026, parsed.Year())
}

func TestBuildDate_RolloverRejected(t *testing.T) {
	_, ok := buildDate(2026, time.February, 30, testNow)
	assert.False(t, ok)
	_, ok = buildDate(2026, time.March, 8, testNow)
	assert.True(t, ok)
}
