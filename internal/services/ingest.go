package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"sellerpulse/internal/dataprocessing"
	apperrors "sellerpulse/internal/errors"
	"sellerpulse/internal/infrastructure"
	"sellerpulse/internal/sources"
	"sellerpulse/pkg/contracts/domain"
)

// Input is one spreadsheet handed to a service: either an uploaded stream
// (Reader + Name) or a source reference resolved through a WorkbookLoader.
type Input struct {
	Name   string
	Reader io.Reader
	Ref    string
}

// UploadInput wraps an uploaded file
func UploadInput(name string, r io.Reader) Input {
	return Input{Name: name, Reader: r}
}

// RefInput wraps a file path or gsheet:// reference
func RefInput(ref string) Input {
	return Input{Name: ref, Ref: ref}
}

func (in Input) empty() bool {
	return in.Reader == nil && in.Ref == ""
}

// WorkbookLoader resolves a source reference into a decoded workbook
type WorkbookLoader interface {
	Load(ctx context.Context, ref string) (*domain.Workbook, error)
}

// Options carries the shared collaborators of every ingesting service.
// Zero values are usable: default decode and analysis options, the global
// tracer and no metrics.
type Options struct {
	Loader   WorkbookLoader
	Decode   dataprocessing.DecodeOptions
	Analysis dataprocessing.AnalysisOptions
	Tracer   trace.Tracer
	Metrics  *infrastructure.BusinessMetrics
}

// DocumentReport describes how one input was read
type DocumentReport struct {
	Document domain.DocumentKind `json:"document"`
	Source   string              `json:"source"`
	Format   string              `json:"format"`
	Digest   string              `json:"digest,omitempty"`
	Size     int64               `json:"size,omitempty"`
	dataprocessing.ParseStats
}

// ingestor decodes and parses inputs with tracing, metrics and error mapping
type ingestor struct {
	opts   Options
	tracer trace.Tracer
	logger *slog.Logger
}

func newIngestor(opts Options, logger *slog.Logger) *ingestor {
	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer(infrastructure.ServiceName)
	}
	return &ingestor{opts: opts, tracer: tracer, logger: logger}
}

// workbook decodes in into a workbook
func (g *ingestor) workbook(ctx context.Context, in Input) (*domain.Workbook, error) {
	switch {
	case in.Reader != nil:
		return dataprocessing.DecodeWorkbook(in.Reader, in.Name, g.opts.Decode)
	case in.Ref != "":
		if g.opts.Loader == nil {
			return nil, ErrNoLoader
		}
		return g.opts.Loader.Load(ctx, in.Ref)
	default:
		return nil, ErrNoInput
	}
}

// ingestDocument decodes in, parses it with parse and reports the outcome.
// Failures come back as *apperrors.AppError carrying the document kind.
func ingestDocument[T any](
	ctx context.Context,
	g *ingestor,
	kind domain.DocumentKind,
	in Input,
	parse func(*domain.Workbook) (T, error),
	stats func(T) dataprocessing.ParseStats,
) (T, *DocumentReport, error) {
	var zero T

	ctx, span := g.tracer.Start(ctx, "ingest."+string(kind),
		trace.WithAttributes(
			attribute.String("document", string(kind)),
			attribute.String("source", in.Name),
		))
	defer span.End()

	start := time.Now()
	fail := func(err error) (T, *DocumentReport, error) {
		wrapped := wrapIngestError(kind, in, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		infrastructure.RecordIngestError(ctx, g.opts.Metrics, string(kind), wrapped)
		g.logger.WarnContext(ctx, "document rejected",
			slog.String("document", string(kind)),
			slog.String("source", in.Name),
			slog.String("error", err.Error()))
		return zero, nil, wrapped
	}

	wb, err := g.workbook(ctx, in)
	if err != nil {
		return fail(err)
	}
	infrastructure.RecordUpload(ctx, g.opts.Metrics, string(kind), wb.Format, wb.Size)

	parsed, err := parse(wb)
	if err != nil {
		return fail(err)
	}

	report := &DocumentReport{
		Document:   kind,
		Source:     wb.Source,
		Format:     wb.Format,
		Digest:     wb.Digest,
		Size:       wb.Size,
		ParseStats: stats(parsed),
	}
	infrastructure.RecordParseStats(ctx, g.opts.Metrics, string(kind),
		report.RowsRead, report.RowsSkipped, report.CoercionFallbacks)

	span.SetAttributes(
		attribute.String("format", wb.Format),
		attribute.String("sheet", report.Sheet),
		attribute.Int("rows_read", report.RowsRead),
		attribute.Int("rows_skipped", report.RowsSkipped),
	)

	g.logger.DebugContext(ctx, "document parsed",
		slog.String("document", string(kind)),
		slog.String("source", wb.Source),
		slog.String("format", wb.Format),
		slog.String("sheet", report.Sheet),
		slog.Int("rows_read", report.RowsRead),
		slog.Int("rows_skipped", report.RowsSkipped),
		slog.Int("coercion_fallbacks", report.CoercionFallbacks),
		slog.Duration("duration", time.Since(start)))

	return parsed, report, nil
}

// wrapIngestError classifies a decode or parse failure. Cancellation is
// passed through untouched.
func wrapIngestError(kind domain.DocumentKind, in Input, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	label := fmt.Sprintf("%s %s", kind, in.Name)

	var formatErr *dataprocessing.FormatError
	if errors.As(err, &formatErr) {
		appErr := apperrors.NewFormatError(label, err).
			WithContext("document", string(kind))
		if formatErr.Sheet != "" {
			appErr.WithContext("sheet", formatErr.Sheet)
		}
		if len(formatErr.MissingFields) > 0 {
			appErr.WithContext("missing_fields", formatErr.MissingFields)
		} else {
			appErr.WithContext("expected_headers", formatErr.Anchors)
		}
		return appErr
	}

	if errors.Is(err, ErrNoInput) {
		return apperrors.NewAppValidationError(fmt.Sprintf("%s: %v", kind, err)).
			WithContext("document", string(kind))
	}

	if errors.Is(err, fs.ErrNotExist) {
		appErr := apperrors.NewNotFoundError(label).WithContext("document", string(kind))
		appErr.Cause = err
		return appErr
	}

	if in.Ref != "" {
		if ref, parseErr := sources.ParseRef(in.Ref); parseErr != nil || ref.Kind == sources.RefGoogleSheet || errors.Is(err, ErrNoLoader) {
			return apperrors.NewSourceError(label, err).
				WithContext("document", string(kind))
		}
	}

	return apperrors.NewParsingError(label, err).
		WithContext("document", string(kind))
}
