// Package catalog loads the prompts participants read aloud from a spreadsheet
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
)

const DefaultColumn = "Texto"

var ErrColumnNotFound = errors.New("prompt column not found")

// Loader reads prompt catalogs and memoizes them by path. Failed loads are
// not cached so a fixed file is picked up on the next attempt
type Loader struct {
	column string

	mu    sync.Mutex
	cache map[string][]string
	reads int
}

// NewLoader creates a loader reading the given column
func NewLoader(column string) *Loader {
	if column == "" {
		column = DefaultColumn
	}

	return &Loader{
		column: column,
		cache:  make(map[string][]string),
	}
}

// Load returns the prompts stored at path. A missing or unreadable file
// returns an empty catalog together with the error
func (l *Loader) Load(path string) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if prompts, ok := l.cache[path]; ok {
		return prompts, nil
	}

	l.reads++
	prompts, err := l.read(path)
	if err != nil {
		return []string{}, err
	}

	l.cache[path] = prompts
	return prompts, nil
}

// Reads returns how many times a file was actually read
func (l *Loader) Reads() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reads
}

func (l *Loader) read(path string) ([]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("prompt catalog '%s' not found: %w", path, err)
	}

	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCSV(path)
	default:
		rows, err = readXLSX(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt catalog '%s': %w", path, err)
	}

	return l.extract(rows)
}

// extract finds the prompt column in the header row and collects the
// non-blank cells below it in order
func (l *Loader) extract(rows [][]string) ([]string, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet is empty", ErrColumnNotFound)
	}

	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = strings.TrimSpace(cell)
	}

	col := slices.Index(header, l.column)
	if col < 0 {
		return nil, fmt.Errorf("%w: '%s'", ErrColumnNotFound, l.column)
	}

	prompts := []string{}
	for _, row := range rows[1:] {
		if col >= len(row) {
			continue
		}
		if text := strings.TrimSpace(row[col]); text != "" {
			prompts = append(prompts, text)
		}
	}

	return prompts, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	return f.GetRows(sheets[0])
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	return reader.ReadAll()
}
