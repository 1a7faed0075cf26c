package sources

import (
	"bufio"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// LoadCities reads the known-city list: one name per line, "#" starts a
// comment, blank lines ignored.
func LoadCities(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			zap.L().Debug("cities file missing, city detection disabled", zap.String("path", path))
			return nil, nil
		}
		return nil, eris.Wrap(err, "sources: open cities file")
	}
	defer f.Close()

	var cities []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		cities = append(cities, line)
	}
	if err := sc.Err(); err != nil {
		return nil, eris.Wrap(err, "sources: scan cities file")
	}
	return dedupe(cities), nil
}
