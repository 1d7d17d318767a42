package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/eric1207cvb/expense-capture/pkg/metrics"
)

// Source names the path that produced a result.
type Source string

const (
	SourceModel Source = "model"
	SourceRules Source = "rules"
)

// Result is the outcome of one Capture call.
type Result struct {
	Source  Source   `json:"source"`
	Records []Record `json:"records"`
}

// ModelRequest is what a model extractor receives: the raw text, the category
// vocabulary it must choose from and today's date as YYYY-MM-DD.
type ModelRequest struct {
	Text       string
	Categories []Category
	Today      string
}

// Candidate is one record proposed by a model extractor.
type Candidate struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Category    string          `json:"category"`
}

// ModelExtractor is an optional machine-learned first pass.
type ModelExtractor interface {
	Extract(ctx context.Context, req ModelRequest) ([]Candidate, error)
}

var (
	ErrModelEmpty       = errors.New("model returned no records")
	ErrInvalidCandidate = errors.New("invalid model candidate")
)

// Service captures expenses, preferring the model extractor when one is
// configured and falling back to the rule parser otherwise. Results from the
// two paths are never merged.
type Service struct {
	parser  *Parser
	model   ModelExtractor
	timeout time.Duration
	metrics *metrics.Capture
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewService creates a rules-only capture service.
func NewService(parser *Parser, logger *slog.Logger) *Service {
	return &Service{
		parser: parser,
		logger: logger,
		tracer: otel.Tracer("github.com/eric1207cvb/expense-capture/internal/domain/capture"),
	}
}

// WithModel sets the model extractor and the time budget for one attempt.
// A zero timeout means the caller's context alone bounds the call.
func (s *Service) WithModel(m ModelExtractor, timeout time.Duration) *Service {
	s.model = m
	s.timeout = timeout
	return s
}

// WithMetrics sets the Prometheus collectors.
func (s *Service) WithMetrics(m *metrics.Capture) *Service {
	s.metrics = m
	return s
}

// Capture parses text into records. It fails only when ctx is done.
func (s *Service) Capture(ctx context.Context, text string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "capture.Capture")
	defer span.End()

	start := time.Now()
	today := s.parser.Today()

	if strings.TrimSpace(text) == "" {
		return &Result{Source: SourceRules, Records: []Record{}}, nil
	}

	if s.model != nil {
		records, err := s.fromModel(ctx, text, today)
		if err == nil {
			return s.finish(span, SourceModel, records, start), nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			span.SetStatus(codes.Error, ctxErr.Error())
			return nil, ctxErr
		}

		reason := fallbackReason(err)
		span.RecordError(err)
		span.SetAttributes(attribute.String("capture.fallback_reason", reason))
		if s.metrics != nil {
			s.metrics.ModelFailures.WithLabelValues(reason).Inc()
		}
		s.logger.Warn("model extraction failed, using rule parser",
			slog.String("reason", reason),
			slog.Any("error", err),
		)
	}

	return s.finish(span, SourceRules, s.parser.ParseAt(text, today), start), nil
}

func (s *Service) finish(span trace.Span, source Source, records []Record, start time.Time) *Result {
	span.SetAttributes(
		attribute.String("capture.source", string(source)),
		attribute.Int("capture.records", len(records)),
	)

	if s.metrics != nil {
		s.metrics.Requests.WithLabelValues(string(source)).Inc()
		s.metrics.Duration.WithLabelValues(string(source)).Observe(time.Since(start).Seconds())
		for _, r := range records {
			s.metrics.Records.WithLabelValues(string(r.Category)).Inc()
		}
	}

	s.logger.Debug("captured expenses",
		slog.String("source", string(source)),
		slog.Int("records", len(records)),
	)

	return &Result{Source: source, Records: records}
}

func (s *Service) fromModel(ctx context.Context, text string, today civil.Date) ([]Record, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	candidates, err := s.model.Extract(ctx, ModelRequest{
		Text:       text,
		Categories: Categories(),
		Today:      today.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("model extract: %w", err)
	}
	if len(candidates) == 0 {
		return nil, ErrModelEmpty
	}

	records := make([]Record, 0, len(candidates))
	for i, c := range candidates {
		rec, err := s.candidateRecord(c)
		if err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// candidateRecord validates a model candidate against the record contract.
func (s *Service) candidateRecord(c Candidate) (Record, error) {
	description := strings.TrimSpace(c.Description)
	if description == "" {
		return Record{}, fmt.Errorf("%w: empty description", ErrInvalidCandidate)
	}
	if c.Amount.IsNegative() {
		return Record{}, fmt.Errorf("%w: negative amount %s", ErrInvalidCandidate, c.Amount)
	}

	date, err := civil.ParseDate(strings.TrimSpace(c.Date))
	if err != nil {
		return Record{}, fmt.Errorf("%w: date %q: %v", ErrInvalidCandidate, c.Date, err)
	}

	category := Category(c.Category)
	if !category.IsValid() {
		return Record{}, fmt.Errorf("%w: category %q", ErrInvalidCandidate, c.Category)
	}

	return Record{
		ID:          s.parser.newID(),
		Description: description,
		Amount:      c.Amount,
		Date:        date,
		Category:    category,
	}, nil
}

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, ErrModelEmpty):
		return "empty"
	case errors.Is(err, ErrInvalidCandidate):
		return "invalid"
	default:
		return "error"
	}
}
