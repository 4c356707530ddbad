package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"sellerpulse/pkg/contracts/domain"
)

// ErrEmptyUpload is returned when an uploaded file has no content.
var ErrEmptyUpload = errors.New("uploaded file is empty")

// maxExactDigits is the longest integer a float64 cell can carry without
// losing digits. Longer numeric cells (TikTok order IDs) stay text.
const maxExactDigits = 15

// DecodeOptions tunes workbook decoding.
type DecodeOptions struct {
	// FallbackCharset decodes CSV uploads that are not valid UTF-8.
	// Supported: "windows-1252" (default), "iso-8859-1".
	FallbackCharset string
}

// DecodeFile reads a spreadsheet from disk.
func DecodeFile(path string, opts DecodeOptions) (*domain.Workbook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return DecodeWorkbook(f, filepath.Base(path), opts)
}

// DecodeWorkbook reads a whole upload into memory and decodes it as an
// Excel workbook or a CSV file, picked by extension and then by content.
func DecodeWorkbook(r io.Reader, name string, opts DecodeOptions) (*domain.Workbook, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyUpload
	}

	wb := &domain.Workbook{Source: name, Digest: Fingerprint(data), Size: int64(len(data))}
	if isExcel(name, data) {
		wb.Format = domain.FormatXLSX
		wb.Sheets, err = decodeExcel(data)
	} else {
		wb.Format = domain.FormatCSV
		wb.Sheets, err = decodeCSV(data, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return wb, nil
}

// Fingerprint returns the hex BLAKE2b-256 digest of an upload.
func Fingerprint(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func isExcel(name string, data []byte) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return true
	case ".csv", ".tsv", ".txt":
		return false
	}
	return bytes.HasPrefix(data, []byte("PK\x03\x04"))
}

func decodeExcel(data []byte) ([]domain.NamedSheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var sheets []domain.NamedSheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", name, err)
		}
		grid := make(domain.RawSheet, len(rows))
		for r, row := range rows {
			cells := make([]any, len(row))
			for c, raw := range row {
				cells[c] = typedCell(f, name, c+1, r+1, raw)
			}
			grid[r] = cells
		}
		sheets = append(sheets, domain.NamedSheet{Name: name, Rows: grid})
	}
	return sheets, nil
}

// typedCell turns numeric cells into float64 and leaves text as string.
func typedCell(f *excelize.File, sheet string, col, row int, raw string) any {
	if raw == "" {
		return nil
	}
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return raw
	}
	cellType, err := f.GetCellType(sheet, axis)
	if err != nil {
		return raw
	}
	switch cellType {
	case excelize.CellTypeUnset, excelize.CellTypeNumber, excelize.CellTypeDate, excelize.CellTypeFormula:
		if countDigits(raw) > maxExactDigits {
			return raw
		}
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return raw
}

func countDigits(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			n++
		}
	}
	return n
}

func decodeCSV(data []byte, opts DecodeOptions) ([]domain.NamedSheet, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if !utf8.Valid(data) {
		decoded, err := fallbackEncoding(opts.FallbackCharset).NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("invalid file encoding: %w", err)
		}
		data = decoded
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	grid := make(domain.RawSheet, len(records))
	for i, record := range records {
		cells := make([]any, len(record))
		for j, v := range record {
			cells[j] = v
		}
		grid[i] = cells
	}
	return []domain.NamedSheet{{Name: "Sheet1", Rows: grid}}, nil
}

func fallbackEncoding(name string) encoding.Encoding {
	switch strings.ToLower(name) {
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1
	default:
		return charmap.Windows1252
	}
}

// sniffDelimiter picks the most frequent of comma, semicolon and tab on
// the first line. Indonesian-locale Excel writes semicolons.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	best, bestCount := ',', bytes.Count(line, []byte{','})
	for _, d := range []rune{';', '\t'} {
		if n := bytes.Count(line, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}
