package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/111110100/ph-election-smartmatic/internal/domain"
)

// relationDelimiter is the field separator used by every transparency-server
// export.
const relationDelimiter = '|'

// row gives a decoder access to one record's fields by column name. The
// header has already been validated, so lookups by a required column never
// miss.
type row struct {
	relation string
	line     int
	columns  map[string]int
	fields   []string
}

// text returns the raw field under the named column, trimmed.
func (r row) text(col string) string {
	idx, ok := r.columns[col]
	if !ok || idx >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[idx])
}

// int64 parses the named column as a base-10 integer. An empty field decodes
// to zero, matching the null handling of the upstream exports; anything else
// non-numeric is a malformed row.
func (r row) int64(col string) (int64, error) {
	s := r.text(col)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s line %d: column %s: %q is not an integer",
			domain.ErrMalformedRow, r.relation, r.line, col, s)
	}
	return n, nil
}

// readRelation opens a pipe-delimited relation, validates that every required
// column is present in the header, and decodes each record through decode.
func readRelation[T any](path string, required []string, decode func(r row) (T, error)) ([]T, error) {
	f, err := os.Open(path) //nolint:gosec,G304
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrMissingRelation, path)
		}
		return nil, fmt.Errorf("failed to open relation %s: %w", path, err)
	}
	defer f.Close()

	relation := filepath.Base(path)

	cr := csv.NewReader(f)
	cr.Comma = relationDelimiter
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s: empty file", domain.ErrMalformedRow, relation)
		}
		return nil, fmt.Errorf("failed to read %s header: %w", relation, err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, col := range required {
		if _, ok := columns[col]; !ok {
			return nil, fmt.Errorf("%w: %s: %s", domain.ErrMissingColumn, relation, col)
		}
	}

	var out []T
	line := 1
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", domain.ErrMalformedRow, relation, line, err)
		}

		rec, err := decode(row{relation: relation, line: line, columns: columns, fields: fields})
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}

	return out, nil
}
