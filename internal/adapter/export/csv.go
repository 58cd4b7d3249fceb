package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/couchcryptid/covid-data-etl/internal/domain"
)

// csvHeader is the fixed column order of the export artifact consumed by the
// reporting tool.
var csvHeader = []string{"date", "cases", "deaths", "recovered"}

// Writer exports the canonical dataset to a flat CSV file at a fixed path,
// fully overwriting the previous run's artifact. It implements
// pipeline.Exporter.
type Writer struct {
	path   string
	logger *slog.Logger
}

// NewWriter creates an exporter targeting path.
func NewWriter(path string, logger *slog.Logger) *Writer {
	return &Writer{path: path, logger: logger}
}

// Export writes the dataset to a temp file in the target directory and
// renames it into place, so readers never observe a half-written artifact.
func (w *Writer) Export(ctx context.Context, dataset domain.CanonicalDataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(w.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(w.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp export file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := writeCSV(tmp, dataset); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp export file: %w", err)
	}

	if err := os.Rename(tmp.Name(), w.path); err != nil {
		return fmt.Errorf("replace export file: %w", err)
	}

	w.logger.Info("dataset exported", "path", w.path, "rows", len(dataset))
	return nil
}

func writeCSV(f *os.File, dataset domain.CanonicalDataset) error {
	cw := csv.NewWriter(f)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write export header: %w", err)
	}
	for _, record := range dataset {
		row := []string{
			record.Date.Format(domain.DateLayout),
			strconv.FormatInt(record.Cases, 10),
			strconv.FormatInt(record.Deaths, 10),
			strconv.FormatInt(record.Recovered, 10),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write export row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush export: %w", err)
	}
	return nil
}
