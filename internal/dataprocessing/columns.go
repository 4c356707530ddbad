package dataprocessing

import (
	"errors"
	"fmt"
	"strings"

	"sellerpulse/pkg/contracts/domain"
)

// ErrFormatNotRecognized is matched by every header resolution failure.
var ErrFormatNotRecognized = errors.New("format not recognized")

// FormatError describes why a sheet could not be bound to a schema.
type FormatError struct {
	Document      domain.DocumentKind
	Sheet         string
	Anchors       []string
	MissingFields []string
}

func (e *FormatError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", ErrFormatNotRecognized, e.Document)
	if e.Sheet != "" {
		fmt.Fprintf(&b, " (sheet %q)", e.Sheet)
	}
	if len(e.MissingFields) > 0 {
		fmt.Fprintf(&b, ": header row is missing required columns %s", strings.Join(e.MissingFields, ", "))
	} else {
		fmt.Fprintf(&b, ": no header row contains any of %s", strings.Join(e.Anchors, ", "))
	}
	b.WriteString("; check that the file is the original marketplace export or template")
	return b.String()
}

func (e *FormatError) Unwrap() error {
	return ErrFormatNotRecognized
}

// ColumnIndex maps a semantic field to its column. Absent fields hold -1.
type ColumnIndex map[string]int

// Has reports whether field was bound to a column.
func (c ColumnIndex) Has(field string) bool {
	idx, ok := c[field]
	return ok && idx >= 0
}

// ColumnBinding is the result of resolving a sheet's header once. Rows are
// read through it and never re-resolved.
type ColumnBinding struct {
	HeaderRow int
	Columns   ColumnIndex
}

// Cell returns the raw cell of field in row, or nil when the field is
// absent or the row is short.
func (b *ColumnBinding) Cell(row []any, field string) any {
	idx, ok := b.Columns[field]
	if !ok || idx < 0 || idx >= len(row) {
		return nil
	}
	return row[idx]
}

// Text returns the trimmed text of field in row.
func (b *ColumnBinding) Text(row []any, field string) string {
	return CellText(b.Cell(row, field))
}

// ResolveColumns locates the header row of rows and binds every schema
// field to the first header cell (left to right) containing one of its
// aliases.
func ResolveColumns(rows domain.RawSheet, schema DocumentSchema) (*ColumnBinding, error) {
	headerRow := -1
	var normalized []string

	for i, row := range rows {
		cells := normalizeRow(row)
		if rowContainsAny(cells, schema.Anchors) {
			headerRow = i
			normalized = cells
			break
		}
	}
	if headerRow < 0 {
		return nil, &FormatError{Document: schema.Kind, Anchors: schema.Anchors}
	}

	binding := &ColumnBinding{
		HeaderRow: headerRow,
		Columns:   make(ColumnIndex, len(schema.Fields)),
	}
	var missing []string
	for _, field := range schema.Fields {
		idx := matchColumn(normalized, field)
		binding.Columns[field.Field] = idx
		if idx < 0 && field.Required {
			missing = append(missing, field.Field)
		}
	}
	if len(missing) > 0 {
		return nil, &FormatError{Document: schema.Kind, Anchors: schema.Anchors, MissingFields: missing}
	}
	return binding, nil
}

// SelectSheet returns the first sheet of wb that binds to schema. When no
// sheet does, the error of the first sheet is returned.
func SelectSheet(wb *domain.Workbook, schema DocumentSchema) (*domain.NamedSheet, *ColumnBinding, error) {
	if wb == nil || len(wb.Sheets) == 0 {
		return nil, nil, &FormatError{Document: schema.Kind, Anchors: schema.Anchors}
	}
	var firstErr error
	for i := range wb.Sheets {
		sheet := &wb.Sheets[i]
		binding, err := ResolveColumns(sheet.Rows, schema)
		if err == nil {
			return sheet, binding, nil
		}
		if firstErr == nil {
			var fe *FormatError
			if errors.As(err, &fe) {
				fe.Sheet = sheet.Name
			}
			firstErr = err
		}
	}
	return nil, nil, firstErr
}

func normalizeRow(row []any) []string {
	cells := make([]string, len(row))
	for i, cell := range row {
		cells[i] = NormalizeHeaderText(cell)
	}
	return cells
}

func rowContainsAny(cells []string, anchors []string) bool {
	for _, cell := range cells {
		if cell != "" && ContainsAny(cell, anchors) {
			return true
		}
	}
	return false
}

func matchColumn(cells []string, field FieldAlias) int {
	for idx, cell := range cells {
		if cell == "" {
			continue
		}
		if ContainsAny(cell, field.Excludes) {
			continue
		}
		if ContainsAny(cell, field.Aliases) {
			return idx
		}
	}
	return -1
}

// ContainsAny reports whether text contains any of the keywords.
func ContainsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
