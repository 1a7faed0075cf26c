package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTime_Formats(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"concentración a las 17:00 en la plaza", "17:00"},
		{"doors at 5pm sharp", "17:00"},
		{"doors at 5:30 pm", "17:30"},
		{"midnight vigil 12am", "00:00"},
		{"rassemblement à 17h devant la mairie", "17:00"},
		{"empieza 17:05", "17:05"},
		{"12:30 PM lunch rally", "12:30"},
		{"no time mentioned here", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ExtractTime(c.in), "input %q", c.in)
	}
}

func TestExtractTime_PrefersAMPMOverBareHour(t *testing.T) {
	got := ExtractTime("march starts 9h but rally at 5pm")
	assert.Equal(t, "17:00", got)
}
