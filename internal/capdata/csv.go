package capdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// ErrMissingColumn is returned when the CSV header lacks cap or comune
var ErrMissingColumn = errors.New("capdata: csv header must contain cap and comune columns")

// LoadCSV reads the table from path. A missing file yields an empty table
// and no error.
func LoadCSV(path string) (*Table, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Empty(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	t, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return t, nil
}

// ReadCSV builds a table from CSV data with a header row naming cap and comune
func ReadCSV(r io.Reader) (*Table, error) {
	t := newTable()
	err := readRows(r, func(p Pair) error {
		t.add(p.CAP, p.Comune)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// readRows streams (cap, comune) pairs in file order. Rows too short to hold
// both columns are skipped.
func readRows(r io.Reader, fn func(Pair) error) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	capIdx, comuneIdx := -1, -1
	for i, name := range header {
		switch strings.TrimPrefix(strings.TrimSpace(name), "\ufeff") {
		case "cap":
			capIdx = i
		case "comune":
			comuneIdx = i
		}
	}
	if capIdx < 0 || comuneIdx < 0 {
		return ErrMissingColumn
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read record: %w", err)
		}
		if capIdx >= len(record) || comuneIdx >= len(record) {
			continue
		}
		if err := fn(Pair{CAP: record[capIdx], Comune: record[comuneIdx]}); err != nil {
			return err
		}
	}
}
