package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"sellerpulse/internal/config"
	"sellerpulse/internal/dataprocessing"
	"sellerpulse/pkg/contracts/domain"
)

// GoogleSheetScheme prefixes Google Sheets references
const GoogleSheetScheme = "gsheet://"

var (
	// ErrInvalidRef is returned for references that cannot be parsed
	ErrInvalidRef = errors.New("invalid source reference")
	// ErrNoCredentials is returned when a Google Sheet is requested but no
	// credentials file or API key is configured
	ErrNoCredentials = errors.New("google sheets credentials are not configured")
)

// RefKind distinguishes local files from remote sheets
type RefKind int

const (
	RefFile RefKind = iota
	RefGoogleSheet
)

// Ref is a parsed source reference
type Ref struct {
	Kind          RefKind
	Path          string
	SpreadsheetID string
	Range         string
}

// String renders the reference back in its input form
func (r Ref) String() string {
	if r.Kind == RefFile {
		return r.Path
	}
	if r.Range == "" {
		return GoogleSheetScheme + r.SpreadsheetID
	}
	return GoogleSheetScheme + r.SpreadsheetID + "/" + r.Range
}

// ParseRef classifies a reference. The Google Sheets range may be URL-escaped
// (Sheet%201!A:Z).
func ParseRef(ref string) (Ref, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Ref{}, fmt.Errorf("%w: empty", ErrInvalidRef)
	}

	if !strings.HasPrefix(strings.ToLower(ref), GoogleSheetScheme) {
		return Ref{Kind: RefFile, Path: ref}, nil
	}

	rest := ref[len(GoogleSheetScheme):]
	id, rng, _ := strings.Cut(rest, "/")
	if id == "" {
		return Ref{}, fmt.Errorf("%w: missing spreadsheet id in %q", ErrInvalidRef, ref)
	}
	if rng != "" {
		unescaped, err := url.PathUnescape(rng)
		if err != nil {
			return Ref{}, fmt.Errorf("%w: %v", ErrInvalidRef, err)
		}
		rng = unescaped
	}
	return Ref{Kind: RefGoogleSheet, SpreadsheetID: id, Range: rng}, nil
}

// Loader turns references into workbooks
type Loader struct {
	cfg        config.SourcesConfig
	decodeOpts dataprocessing.DecodeOptions
	logger     *slog.Logger
	clientOpts []option.ClientOption

	once    sync.Once
	service *sheets.Service
	initErr error
}

// LoaderOption customizes a Loader
type LoaderOption func(*Loader)

// WithClientOptions appends Google API client options, replacing the
// configured credentials. Tests use it to point the client at a fake server.
func WithClientOptions(opts ...option.ClientOption) LoaderOption {
	return func(l *Loader) {
		l.clientOpts = append(l.clientOpts, opts...)
	}
}

// NewLoader creates a loader
func NewLoader(cfg config.SourcesConfig, decodeOpts dataprocessing.DecodeOptions, logger *slog.Logger, opts ...LoaderOption) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loader{
		cfg:        cfg,
		decodeOpts: decodeOpts,
		logger:     logger.With(slog.String("component", "sources")),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load resolves ref into a workbook
func (l *Loader) Load(ctx context.Context, ref string) (*domain.Workbook, error) {
	parsed, err := ParseRef(ref)
	if err != nil {
		return nil, err
	}

	switch parsed.Kind {
	case RefGoogleSheet:
		return l.loadGoogleSheet(ctx, parsed)
	default:
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		wb, err := dataprocessing.DecodeFile(parsed.Path, l.decodeOpts)
		if err != nil {
			return nil, err
		}
		l.logger.DebugContext(ctx, "file decoded",
			slog.String("path", parsed.Path),
			slog.String("format", wb.Format),
			slog.Int("sheets", len(wb.Sheets)))
		return wb, nil
	}
}

func (l *Loader) sheetsService(ctx context.Context) (*sheets.Service, error) {
	l.once.Do(func() {
		opts := l.clientOpts
		if len(opts) == 0 {
			switch {
			case l.cfg.GoogleCredentialsFile != "":
				opts = append(opts,
					option.WithCredentialsFile(l.cfg.GoogleCredentialsFile),
					option.WithScopes(sheets.SpreadsheetsReadonlyScope))
			case l.cfg.GoogleAPIKey != "":
				opts = append(opts, option.WithAPIKey(l.cfg.GoogleAPIKey))
			default:
				l.initErr = ErrNoCredentials
				return
			}
		}
		l.service, l.initErr = sheets.NewService(ctx, opts...)
	})
	return l.service, l.initErr
}

func (l *Loader) loadGoogleSheet(ctx context.Context, ref Ref) (*domain.Workbook, error) {
	svc, err := l.sheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	ranges := []string{ref.Range}
	if ref.Range == "" {
		ranges, err = sheetTitles(ctx, svc, ref.SpreadsheetID)
		if err != nil {
			return nil, err
		}
	}

	resp, err := svc.Spreadsheets.Values.BatchGet(ref.SpreadsheetID).
		Ranges(ranges...).
		ValueRenderOption("FORMATTED_VALUE").
		MajorDimension("ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch values of %s: %w", ref, err)
	}

	wb := &domain.Workbook{Source: ref.String(), Format: domain.FormatGoogleSheet}
	for i, vr := range resp.ValueRanges {
		name := ""
		if i < len(ranges) {
			name = sheetName(ranges[i])
		}
		if vr.Range != "" {
			name = sheetName(vr.Range)
		}
		wb.Sheets = append(wb.Sheets, domain.NamedSheet{Name: name, Rows: toRawSheet(vr.Values)})
	}

	// Digest the values so repeated fetches of an unchanged sheet compare equal
	payload, err := json.Marshal(resp.ValueRanges)
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint %s: %w", ref, err)
	}
	wb.Digest = dataprocessing.Fingerprint(payload)
	wb.Size = int64(len(payload))

	l.logger.InfoContext(ctx, "google sheet fetched",
		slog.String("spreadsheet_id", ref.SpreadsheetID),
		slog.Int("sheets", len(wb.Sheets)))

	return wb, nil
}

func sheetTitles(ctx context.Context, svc *sheets.Service, id string) ([]string, error) {
	doc, err := svc.Spreadsheets.Get(id).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list sheets of %s: %w", id, err)
	}
	titles := make([]string, 0, len(doc.Sheets))
	for _, s := range doc.Sheets {
		if s.Properties != nil {
			titles = append(titles, quoteSheetTitle(s.Properties.Title))
		}
	}
	if len(titles) == 0 {
		return nil, fmt.Errorf("spreadsheet %s has no sheets", id)
	}
	return titles, nil
}

// quoteSheetTitle turns a title into an A1 range covering the whole sheet
func quoteSheetTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

// sheetName strips the cell range and quoting from "'Sheet 1'!A1:Z100"
func sheetName(a1 string) string {
	name, _, _ := strings.Cut(a1, "!")
	if len(name) >= 2 && strings.HasPrefix(name, "'") && strings.HasSuffix(name, "'") {
		name = strings.ReplaceAll(name[1:len(name)-1], "''", "'")
	}
	return name
}

func toRawSheet(values [][]interface{}) domain.RawSheet {
	rows := make(domain.RawSheet, len(values))
	for i, row := range values {
		cells := make([]any, len(row))
		copy(cells, row)
		rows[i] = cells
	}
	return rows
}
