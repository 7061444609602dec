package wishlist

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

var csvHeader = []string{"title", "price", "store", "date"}

func ExportJSON(w io.Writer, items []Item) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

func ExportCSV(w io.Writer, items []Item) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, it := range items {
		var date string
		if !it.AddedAt.IsZero() {
			date = it.AddedAt.UTC().Format(time.RFC3339)
		}
		if err := writer.Write([]string{it.Title, it.Price, it.Store, date}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ImportCSV reads rows written by ExportCSV. Columns are matched by header
// name; rows missing title, price or store are skipped like on a slot read.
func ImportCSV(r io.Reader) ([]Item, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := readHeader(cr)
	if err != nil {
		return nil, err
	}
	for _, col := range []string{"title", "price", "store"} {
		if _, ok := header[col]; !ok {
			return nil, fmt.Errorf("csv header missing %q", col)
		}
	}

	var out []Item
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		it := Item{
			Title: valueAt(header, row, "title"),
			Price: valueAt(header, row, "price"),
			Store: valueAt(header, row, "store"),
		}
		if it.Title == "" || it.Price == "" || it.Store == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339Nano, valueAt(header, row, "date")); err == nil {
			it.AddedAt = t.UTC()
		}
		out = append(out, it)
	}
	return out, nil
}

func readHeader(r *csv.Reader) (map[string]int, error) {
	row, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	header := make(map[string]int, len(row))
	for i, name := range row {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return header, nil
}

func valueAt(header map[string]int, row []string, name string) string {
	i, ok := header[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
