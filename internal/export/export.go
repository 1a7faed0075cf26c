// Package export writes the run's CSV outputs: the full master sheet, the
// uMap-ready sheet, and the records left without coordinates. Column sets
// are fixed so downstream map imports never break on reordering.
package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/geochicas/mapper8m/internal/model"
)

// Options configures the exports.
type Options struct {
	MasterPath  string
	UMapPath    string
	NoCoordPath string
	// MinScore filters the map-ready exports. The master sheet keeps
	// everything for auditing.
	MinScore int
	// PublicBaseURL turns relative image paths into absolute URLs in the
	// uMap popup.
	PublicBaseURL string
}

var masterColumns = []string{
	"convocatoria",
	"descripcion",
	"fecha",
	"hora",
	"pais",
	"ciudad",
	"localizacion_exacta",
	"direccion",
	"lat",
	"lon",
	"imagen",
	"imagen_archivo",
	"cta_url",
	"fuente_url",
	"confianza_extraccion",
	"precision_ubicacion",
	"score_relevancia",
}

var umapColumns = []string{"name", "description", "lat", "lon"}

var noCoordColumns = []string{
	"convocatoria",
	"descripcion",
	"fecha",
	"hora",
	"pais",
	"ciudad",
	"localizacion_exacta",
	"direccion",
	"imagen",
	"cta_url",
	"fuente_url",
	"score_relevancia",
}

// WriteAll writes the three CSVs.
func WriteAll(records []*model.EventRecord, opts Options) error {
	if err := WriteMaster(records, opts.MasterPath); err != nil {
		return err
	}
	if err := WriteUMap(records, opts); err != nil {
		return err
	}
	return WriteNoCoord(records, opts)
}

// WriteMaster writes every record with the full column set.
func WriteMaster(records []*model.EventRecord, path string) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, masterRow(r))
	}
	return writeCSV(path, masterColumns, rows)
}

// WriteUMap writes the map-ready sheet: records at or above the score
// threshold that have coordinates, with the popup text uMap renders.
func WriteUMap(records []*model.EventRecord, opts Options) error {
	var rows [][]string
	for _, r := range records {
		if r.RelevanceScore < opts.MinScore || !r.HasCoordinates() {
			continue
		}
		rows = append(rows, []string{
			r.Title,
			popupDescription(r, opts.PublicBaseURL),
			r.Lat,
			r.Lon,
		})
	}
	return writeCSV(opts.UMapPath, umapColumns, rows)
}

// WriteNoCoord writes the records that cleared the threshold but could not
// be geocoded, for manual placement.
func WriteNoCoord(records []*model.EventRecord, opts Options) error {
	var rows [][]string
	for _, r := range records {
		if r.RelevanceScore < opts.MinScore || r.HasCoordinates() {
			continue
		}
		rows = append(rows, []string{
			r.Title,
			r.Description,
			r.Date,
			r.Time,
			r.Country,
			r.City,
			r.ExactLocation,
			r.Address,
			r.Image,
			r.CTAURL,
			r.SourceURL,
			strconv.Itoa(r.RelevanceScore),
		})
	}
	return writeCSV(opts.NoCoordPath, noCoordColumns, rows)
}

func masterRow(r *model.EventRecord) []string {
	return []string{
		r.Title,
		r.Description,
		r.Date,
		r.Time,
		r.Country,
		r.City,
		r.ExactLocation,
		r.Address,
		r.Lat,
		r.Lon,
		r.Image,
		r.ImageFile,
		r.CTAURL,
		r.SourceURL,
		r.ExtractionConfidence,
		r.LocationPrecision,
		strconv.Itoa(r.RelevanceScore),
	}
}

func writeCSV(path string, columns []string, rows [][]string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrap(err, "export: create output dir")
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "export: create file")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(columns); err != nil {
		return eris.Wrap(err, "export: write header")
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return eris.Wrap(err, "export: write row")
		}
	}

	zap.L().Info("export: csv written", zap.String("path", path), zap.Int("rows", len(rows)))
	return w.Error()
}
