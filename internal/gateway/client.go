package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/avstrong/holidaze/internal/booking"
	"github.com/avstrong/holidaze/internal/logger"
)

const (
	APIKeyHeader    = "X-Noroff-API-Key"
	RequestIDHeader = "X-Request-ID"
)

var ErrBaseURL = errors.New("base url must be absolute")

type tokenSource interface {
	Token(ctx context.Context) (string, error)
}

type idGenerator interface {
	GetID(ctx context.Context) (string, error)
}

type Conf struct {
	L           *logger.Logger
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	MaxFailures uint32
	OpenTimeout time.Duration
	Tracer      trace.Tracer
	Metrics     *Metrics
}

// Client calls the remote API. It never retries: a failed call is returned
// to the caller as is. After MaxFailures consecutive transport or 5xx
// failures the breaker opens and calls fail with booking.ErrUnavailable
// until OpenTimeout passes.
type Client struct {
	l       *logger.Logger
	base    *url.URL
	apiKey  string
	http    *http.Client
	tokens  tokenSource
	ids     idGenerator
	cb      *gobreaker.CircuitBreaker
	tracer  trace.Tracer
	metrics *Metrics
}

func New(conf Conf, tokens tokenSource, ids idGenerator) (*Client, error) {
	base, err := url.Parse(conf.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%q: %w", conf.BaseURL, ErrBaseURL)
	}

	tracer := conf.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("holidaze/gateway")
	}

	metrics := conf.Metrics
	if metrics == nil {
		metrics = NewMetrics(nil)
	}

	maxFailures := conf.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}

	c := &Client{
		l:       conf.L,
		base:    base,
		apiKey:  conf.APIKey,
		http:    &http.Client{Timeout: conf.Timeout}, //nolint:exhaustruct
		tokens:  tokens,
		ids:     ids,
		tracer:  tracer,
		metrics: metrics,
	}

	c.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{ //nolint:exhaustruct
		Name:        "remote-api",
		MaxRequests: 1,
		Timeout:     conf.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			var abandoned *abandonedError

			return err == nil || errors.As(err, &abandoned)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			c.l.LogInfo("Circuit breaker '%s' changed from '%s' to '%s'", name, from, to)
		},
	})

	return c, nil
}

// abandonedError marks a call whose caller cancelled or timed out. It says
// nothing about the remote, so the breaker does not count it.
type abandonedError struct {
	err error
}

func (e *abandonedError) Error() string {
	return e.err.Error()
}

func (e *abandonedError) Unwrap() error {
	return e.err
}

type call struct {
	method   string
	segments []string
	route    string
	query    url.Values
	body     any
	data     any
	meta     any
}

type response struct {
	status int
	body   []byte
}

type envelope struct {
	Data json.RawMessage `json:"data"`
	Meta json.RawMessage `json:"meta"`
}

type errorEnvelope struct {
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
	Status     string `json:"status"`
	StatusCode int    `json:"statusCode"`
}

func (c *Client) do(ctx context.Context, cl call) (err error) {
	ctx, span := c.tracer.Start(ctx, cl.method+" "+cl.route, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	start := time.Now()

	defer func() {
		status := "ok"

		if err != nil {
			status = "error"
			if remoteErr := booking.IsRemoteError(err); remoteErr != nil {
				status = strconv.Itoa(remoteErr.StatusCode)
			}

			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		span.SetAttributes(attribute.String("http.status", status))
		c.metrics.observe(cl.method, cl.route, status, time.Since(start))
	}()

	req, err := c.newRequest(ctx, cl)
	if err != nil {
		return err
	}

	out, err := c.cb.Execute(func() (interface{}, error) {
		resp, err := c.send(req)
		if err != nil && ctx.Err() != nil {
			return nil, &abandonedError{err: err}
		}

		return resp, err
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%s %s: %w", cl.method, cl.route, booking.ErrUnavailable)
		}

		return fmt.Errorf("%s %s: %w", cl.method, cl.route, err)
	}

	resp, _ := out.(*response)

	if resp.status >= http.StatusBadRequest {
		return decodeError(resp)
	}

	return decodeEnvelope(resp, cl.data, cl.meta)
}

// escapeSegments escapes each path segment. Segments that are empty, dot
// segments or contain a slash are rejected so an id can never address a
// different remote resource.
func escapeSegments(segments []string) ([]string, error) {
	out := make([]string, 0, len(segments))

	for _, seg := range segments {
		if seg == "" || seg == "." || seg == ".." || strings.Contains(seg, "/") {
			return nil, fmt.Errorf("path segment %q: %w", seg, booking.ErrInvalidID)
		}

		out = append(out, url.PathEscape(seg))
	}

	return out, nil
}

func (c *Client) newRequest(ctx context.Context, cl call) (*http.Request, error) {
	segments, err := escapeSegments(cl.segments)
	if err != nil {
		return nil, err
	}

	u := c.base.JoinPath(segments...)
	u.RawQuery = cl.query.Encode()

	var body io.Reader

	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", cl.route, err)
		}

		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", cl.method, cl.route, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(APIKeyHeader, c.apiKey)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if id, err := c.ids.GetID(ctx); err == nil {
		req.Header.Set(RequestIDHeader, id)
	} else {
		c.l.LogErrorf("Could not generate request id: %v", err.Error())
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("read session token: %w", err)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

// send performs one round trip. Transport errors and 5xx answers are
// returned as errors so the breaker counts them; 4xx answers are not
// failures of the remote service.
func (c *Client) send(req *http.Request) (*response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	r := &response{status: resp.StatusCode, body: body}

	c.l.LogDebug("%s %s -> %d (%s)", req.Method, req.URL.Path, resp.StatusCode, req.Header.Get(RequestIDHeader))

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, decodeError(r)
	}

	return r, nil
}

func decodeEnvelope(resp *response, data, meta any) error {
	if len(bytes.TrimSpace(resp.body)) == 0 || (data == nil && meta == nil) {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(resp.body, &env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if data != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, data); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}

	if meta != nil && len(env.Meta) > 0 {
		if err := json.Unmarshal(env.Meta, meta); err != nil {
			return fmt.Errorf("decode response meta: %w", err)
		}
	}

	return nil
}

func decodeError(resp *response) *booking.RemoteError {
	remoteErr := &booking.RemoteError{
		StatusCode: resp.status,
		Status:     http.StatusText(resp.status),
		Messages:   nil,
	}

	var env errorEnvelope
	if err := json.Unmarshal(resp.body, &env); err != nil {
		return remoteErr
	}

	for _, e := range env.Errors {
		if e.Message != "" {
			remoteErr.Messages = append(remoteErr.Messages, e.Message)
		}
	}

	return remoteErr
}
