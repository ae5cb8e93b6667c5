// Package tabular reads and writes section tables as comma separated values
// with a header row, the layout used by the per-date files.
package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mamadbah2/pillars/internal/domain/models"
)

// ErrNoData is returned for input holding no header row at all.
var ErrNoData = errors.New("no tabular data")

// Decode parses CSV with a header row. Rows must all have the header's width.
func Decode(r io.Reader) (models.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 0

	records, err := reader.ReadAll()
	if err != nil {
		return models.Table{}, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return models.Table{}, ErrNoData
	}

	table := models.NewTable(records[0]...)
	for _, record := range records[1:] {
		table.AppendRow(record...)
	}
	return table, nil
}

// DecodeBytes is Decode over an in-memory buffer.
func DecodeBytes(data []byte) (models.Table, error) {
	return Decode(bytes.NewReader(data))
}

// Encode writes the header and every row. Short rows are padded so the output
// always reads back with Decode. Cells holding a carriage return are refused:
// CSV readers fold "\r\n" inside quotes into "\n", so they would not read
// back unchanged.
func Encode(w io.Writer, t models.Table) error {
	if t.IsEmpty() {
		return ErrNoData
	}
	if err := t.CheckShape(); err != nil {
		return err
	}
	if err := checkCells(t); err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writeRecord(w, writer, t.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range t.Rectangular().Rows {
		if err := writeRecord(w, writer, row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// writeRecord quotes a lone empty field itself; csv.Writer emits it as a
// blank line, which readers skip.
func writeRecord(w io.Writer, writer *csv.Writer, record []string) error {
	if len(record) != 1 || record[0] != "" {
		return writer.Write(record)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\"\"\n")
	return err
}

func checkCells(t models.Table) error {
	for _, col := range t.Columns {
		if strings.ContainsRune(col, '\r') {
			return fmt.Errorf("%w: column %q contains a carriage return", models.ErrInvalidCell, col)
		}
	}
	for i, row := range t.Rows {
		for _, cell := range row {
			if strings.ContainsRune(cell, '\r') {
				return fmt.Errorf("%w: row %d contains a carriage return", models.ErrInvalidCell, i+1)
			}
		}
	}
	return nil
}

// EncodeBytes is Encode into a new buffer.
func EncodeBytes(t models.Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
