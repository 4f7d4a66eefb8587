package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"rcpro-configurator/internal/formula"
	"rcpro-configurator/internal/observability"
	"rcpro-configurator/internal/quote"
)

// DefaultURL is the staging professional-liability quote endpoint.
const DefaultURL = "https://staging-gtw.seraphin.be/quotes/professional-liability"

var (
	// ErrNetwork covers transport failures and non-2xx responses.
	ErrNetwork = errors.New("pricing request failed")
	// ErrDecode covers bodies that are not JSON or lack expected fields.
	ErrDecode = errors.New("pricing response malformed")
)

var tracer = otel.Tracer("pricing")

// NewRequest builds the request body for sel. Invalid tiers are rejected
// before anything is sent.
func NewRequest(p Profile, sel formula.Selection) (Request, error) {
	deductible, ceiling, err := sel.Formulas()
	if err != nil {
		return Request{}, err
	}

	nace := make([]string, len(p.NacebelCodes))
	copy(nace, p.NacebelCodes)

	return Request{
		AnnualRevenue:          p.AnnualRevenue,
		EnterpriseNumber:       p.EnterpriseNumber,
		LegalName:              p.LegalName,
		NaturalPerson:          p.NaturalPerson,
		NacebelCodes:           nace,
		CoverageCeilingFormula: string(ceiling),
		DeductibleFormula:      string(deductible),
	}, nil
}

// Client posts quote requests to the pricing API.
type Client struct {
	URL    string
	APIKey string
	HTTP   *http.Client
}

// NewClient returns a client with a traced transport. A zero timeout means
// requests never time out on their own.
func NewClient(url, apiKey string, timeout time.Duration) *Client {
	return &Client{
		URL:    url,
		APIKey: apiKey,
		HTTP: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   timeout,
		},
	}
}

// Quote sends req and decodes the premium quote.
func (c *Client) Quote(ctx context.Context, req Request) (Quote, error) {
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "pricing.quote",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("pricing.deductible_formula", req.DeductibleFormula),
			attribute.String("pricing.coverage_ceiling_formula", req.CoverageCeilingFormula),
		),
	)
	defer span.End()

	attrs := metric.WithAttributes(
		attribute.String("deductible_formula", req.DeductibleFormula),
		attribute.String("coverage_ceiling_formula", req.CoverageCeilingFormula),
	)
	requestCounter.Add(ctx, 1, attrs)

	start := time.Now()
	q, err := c.do(ctx, req)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0
	durationHistogram.Record(ctx, elapsed, attrs)

	if err != nil {
		kind := "network"
		if errors.Is(err, ErrDecode) {
			kind = "decode"
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, kind)
		errorCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
		return Quote{}, err
	}

	span.SetAttributes(
		attribute.Float64("pricing.deductible", q.Deductible),
		attribute.Float64("pricing.coverage_ceiling", q.CoverageCeiling),
		attribute.Int("pricing.covers", len(q.GrossPremiums)),
	)
	span.SetStatus(codes.Ok, "")

	logger.Debug("quote received",
		zap.String("deductible_formula", req.DeductibleFormula),
		zap.String("coverage_ceiling_formula", req.CoverageCeilingFormula),
		zap.Float64("deductible", q.Deductible),
		zap.Float64("coverage_ceiling", q.CoverageCeiling),
		zap.Float64("duration_ms", elapsed),
	)

	return q, nil
}

func (c *Client) do(ctx context.Context, req Request) (Quote, error) {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(req); err != nil {
		return Quote{}, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, buf)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.APIKey)

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return Quote{}, fmt.Errorf("%w: %s", ErrNetwork, resp.Status)
	}

	return decode(resp.Body)
}

func decode(r io.Reader) (Quote, error) {
	var body response
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return Quote{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	d := body.Data
	switch {
	case d == nil:
		return Quote{}, fmt.Errorf("%w: missing data", ErrDecode)
	case d.Deductible == nil:
		return Quote{}, fmt.Errorf("%w: missing deductible", ErrDecode)
	case d.CoverageCeiling == nil:
		return Quote{}, fmt.Errorf("%w: missing coverageCeiling", ErrDecode)
	case d.GrossPremiums == nil:
		return Quote{}, fmt.Errorf("%w: missing grossPremiums", ErrDecode)
	}

	return Quote{
		Deductible:      *d.Deductible,
		CoverageCeiling: *d.CoverageCeiling,
		GrossPremiums:   quote.CoverQuotes(d.GrossPremiums),
	}, nil
}
