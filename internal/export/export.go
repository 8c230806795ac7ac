// Package export persists report payloads to disk as JSON, CSV, or
// xlsx, with timestamped filenames.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

var timeNow = time.Now

// Exporter writes reports into a single output directory using one
// configured format for the whole run.
type Exporter struct {
	dir    string
	format string
	logger *zap.Logger
}

// New creates the output directory if needed. Creation is idempotent:
// an existing directory is not an error.
func New(dir, format string, logger *zap.Logger) (*Exporter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", dir, err)
	}
	return &Exporter{
		dir:    dir,
		format: strings.ToLower(format),
		logger: logger,
	}, nil
}

// Filename derives the report file name: copilot_{type}_{timestamp}
// with second resolution, extension per format ("excel" maps to xlsx).
func (e *Exporter) Filename(reportType string) string {
	ext := e.format
	if ext == "excel" {
		ext = "xlsx"
	}
	timestamp := timeNow().Format("20060102_150405")
	return fmt.Sprintf("copilot_%s_%s.%s", reportType, timestamp, ext)
}

// Save writes the payload in the configured format and returns the
// path of the written file. Unknown formats fall back to JSON with a
// warning, as does xlsx when the spreadsheet writer is unavailable.
func (e *Exporter) Save(payload any, reportType string) (string, error) {
	path := filepath.Join(e.dir, e.Filename(reportType))

	var err error
	switch e.format {
	case "json":
		err = saveJSON(path, payload)
	case "csv":
		err = e.saveCSV(path, payload)
	case "excel":
		path, err = e.saveExcel(path, payload)
	default:
		e.logger.Warn("unsupported output format, falling back to json", zap.String("format", e.format))
		path = withJSONExt(path)
		err = saveJSON(path, payload)
	}
	if err != nil {
		return "", err
	}
	return path, nil
}

func withJSONExt(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".json"
}

func saveJSON(path string, payload any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(payload)
}

// tableRows shapes a payload into header and rows. The payload's
// "data" field holds the rows when present; otherwise the whole
// payload is one row. Rows that are mappings take the first record's
// keys as header, and every record is written in its own key order.
// Records whose keys differ from the header come out positionally
// misaligned, which matches the historical behavior of this tool.
func tableRows(payload any) (header []string, rows [][]string, err error) {
	generic, err := toGeneric(payload)
	if err != nil {
		return nil, nil, err
	}

	var items []any
	if m, ok := generic.(map[string]any); ok {
		if data, ok := m["data"].([]any); ok {
			items = data
		} else {
			items = []any{m}
		}
	} else if list, ok := generic.([]any); ok {
		items = list
	} else {
		items = []any{generic}
	}

	if len(items) == 0 {
		return nil, nil, nil
	}

	if first, ok := items[0].(map[string]any); ok {
		header = sortedKeys(first)
		for _, item := range items {
			m, ok := item.(map[string]any)
			if !ok {
				rows = append(rows, []string{cellString(item)})
				continue
			}
			row := make([]string, 0, len(m))
			for _, k := range sortedKeys(m) {
				row = append(row, cellString(m[k]))
			}
			rows = append(rows, row)
		}
		return header, rows, nil
	}

	for _, item := range items {
		if list, ok := item.([]any); ok {
			row := make([]string, 0, len(list))
			for _, v := range list {
				row = append(row, cellString(v))
			}
			rows = append(rows, row)
			continue
		}
		rows = append(rows, []string{cellString(item)})
	}
	return nil, rows, nil
}

// toGeneric round-trips the payload through JSON so typed payloads and
// raw maps shape rows the same way.
func toGeneric(payload any) (any, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(b, &generic); err != nil {
		return nil, err
	}
	return generic, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func cellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64, bool:
		return fmt.Sprint(val)
	default:
		// Nested values keep their JSON representation.
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}

func (e *Exporter) saveCSV(path string, payload any) error {
	header, rows, err := tableRows(payload)
	if err != nil {
		return err
	}
	if header == nil && rows == nil {
		e.logger.Warn("no data to write to csv", zap.String("path", path))
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if header != nil {
		if err := w.Write(header); err != nil {
			return err
		}
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// writeXLSX writes a single-sheet spreadsheet. Kept as a variable so
// the exporter can detect an unavailable spreadsheet writer and fall
// back to JSON.
var writeXLSX = writeExcelize

func (e *Exporter) saveExcel(path string, payload any) (string, error) {
	if writeXLSX == nil {
		e.logger.Warn("spreadsheet writer unavailable, falling back to json export")
		path = withJSONExt(path)
		return path, saveJSON(path, payload)
	}

	header, rows, err := tableRows(payload)
	if err != nil {
		return "", err
	}
	if err := writeXLSX(path, header, rows); err != nil {
		e.logger.Warn("xlsx write failed, falling back to json export", zap.Error(err))
		path = withJSONExt(path)
		return path, saveJSON(path, payload)
	}
	return path, nil
}
