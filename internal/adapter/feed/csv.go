package feed

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/couchcryptid/covid-data-etl/internal/domain"
)

// ParseCSV reads a feed body into a raw dataset. The first record is the
// header; headers are kept verbatim so shape detection sees the raw names.
// Rows shorter than the header leave the missing trailing cells unset, which
// validation treats as null. A body with no data rows is domain.ErrEmptyFeed.
func ParseCSV(source domain.SourceID, r io.Reader) (*domain.RawDataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("source %s: %w", source, domain.ErrEmptyFeed)
	}
	if err != nil {
		return nil, fmt.Errorf("source %s: read csv header: %w", source, err)
	}

	var rows []domain.Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("source %s: read csv row %d: %w", source, len(rows)+1, err)
		}

		row := make(domain.Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("source %s: %w", source, domain.ErrEmptyFeed)
	}

	return &domain.RawDataset{
		Source:  source,
		Columns: header,
		Rows:    rows,
	}, nil
}
