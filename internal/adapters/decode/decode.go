package decode

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"weekuren/internal/domain/rawtable"
)

// DecodeError is raised only after every supported delimiter/encoding
// fallback has been exhausted. It rejects the whole upload.
type DecodeError struct {
	Filename string
	Reason   string
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode %q: %s", e.Filename, e.Reason)
}

// Decode reads one uploaded attendance export into a raw table. Spreadsheet
// workbooks (by extension) use the first sheet only; anything else runs the
// delimited-text fallback ladder.
// POST: a table with a header row, or *DecodeError
func Decode(r io.Reader, filename string) (*rawtable.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &DecodeError{Filename: filename, Reason: err.Error()}
	}
	if len(data) == 0 {
		return nil, &DecodeError{Filename: filename, Reason: "file is empty"}
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls":
		return decodeWorkbook(data, filename)
	default:
		return decodeDelimited(data, filename)
	}
}

// decodeDelimited runs the ladder: UTF-8 comma, UTF-8 semicolon, Latin-1
// comma, Latin-1 semicolon.
func decodeDelimited(data []byte, filename string) (*rawtable.Table, error) {
	if utf8.Valid(data) {
		if tbl, err := tryCSV(data, ','); err == nil {
			return tbl, nil
		}
		if tbl, err := tryCSV(data, ';'); err == nil {
			slog.Info("decode_fallback", "file", filename, "delimiter", ";")
			return tbl, nil
		}
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err == nil {
		if tbl, csvErr := tryCSV(decoded, ','); csvErr == nil {
			slog.Info("decode_fallback", "file", filename, "encoding", "latin-1")
			return tbl, nil
		}
		if tbl, csvErr := tryCSV(decoded, ';'); csvErr == nil {
			slog.Info("decode_fallback", "file", filename, "encoding", "latin-1", "delimiter", ";")
			return tbl, nil
		}
	}
	return nil, &DecodeError{Filename: filename, Reason: "no supported delimiter/encoding matched"}
}

func tryCSV(data []byte, delimiter rune) (*rawtable.Table, error) {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no header row")
	}
	header := records[0]
	// A semicolon file read with a comma delimiter "succeeds" as one wide
	// column; treat that as a miss so the ladder advances.
	if len(header) == 1 && strings.ContainsRune(header[0], ';') && delimiter == ',' {
		return nil, fmt.Errorf("single column containing ';'")
	}

	tbl := &rawtable.Table{Header: header}
	for _, rec := range records[1:] {
		row := make([]rawtable.Cell, len(rec))
		for i, field := range rec {
			row[i] = rawtable.TextCell(field)
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	return tbl, nil
}

// decodeWorkbook reads the first sheet of an Excel workbook, preserving the
// cell variants the core dispatches on: numeric cells with a colon in their
// rendering are spreadsheet time values (fractional days) and become
// duration cells, bare numerics become number cells, the rest stay text.
func decodeWorkbook(data []byte, filename string) (*rawtable.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Filename: filename, Reason: err.Error()}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &DecodeError{Filename: filename, Reason: "workbook has no sheets"}
	}
	sheet := sheets[0]

	formatted, err := f.GetRows(sheet)
	if err != nil {
		return nil, &DecodeError{Filename: filename, Reason: err.Error()}
	}
	if len(formatted) == 0 {
		return nil, &DecodeError{Filename: filename, Reason: "first sheet is empty"}
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &DecodeError{Filename: filename, Reason: err.Error()}
	}

	tbl := &rawtable.Table{Header: formatted[0]}
	for r := 1; r < len(formatted); r++ {
		cells := make([]rawtable.Cell, len(formatted[r]))
		for c := range formatted[r] {
			cells[c] = workbookCell(formatted[r][c], rawField(raw, r, c))
		}
		tbl.Rows = append(tbl.Rows, cells)
	}
	return tbl, nil
}

func rawField(rows [][]string, r, c int) string {
	if r >= len(rows) || c >= len(rows[r]) {
		return ""
	}
	return rows[r][c]
}

// workbookCell classifies one spreadsheet cell from its formatted and raw
// renderings.
func workbookCell(formatted, raw string) rawtable.Cell {
	if strings.TrimSpace(formatted) == "" && strings.TrimSpace(raw) == "" {
		return rawtable.EmptyCell()
	}
	if serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
		if strings.Contains(formatted, ":") {
			// Time-formatted numeric cell: the serial is in days.
			return rawtable.DurationCell(time.Duration(serial * 24 * float64(time.Hour)))
		}
		return rawtable.NumberCell(serial)
	}
	return rawtable.TextCell(formatted)
}
