package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/servicex/internal/config"
	"github.com/GriffinCanCode/servicex/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/servicex/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/servicex/internal/logging"
)

const (
	headerAPIKey    = "X-API-KEY"
	headerRequestID = "X-Request-ID"
	breakerName     = "servicex-api"
)

// Options configures a Client.
type Options struct {
	BaseURL         string
	APIKey          string
	UserAgent       string
	Timeout         time.Duration
	RateLimitRPS    float64
	BreakerFailures uint32
	// RetryMax bounds transport retries on connection errors and 5xx.
	// Negative disables retries.
	RetryMax int
	Logger   *logging.Logger
	Metrics  *monitoring.Metrics
}

// OptionsFromConfig maps module configuration onto client options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		BaseURL:         cfg.APIBaseURL(),
		APIKey:          cfg.SDK.APIKey,
		UserAgent:       cfg.SDK.UserAgent,
		Timeout:         cfg.HTTP.Timeout,
		RateLimitRPS:    cfg.HTTP.RateLimitRPS,
		BreakerFailures: cfg.HTTP.BreakerFailures,
	}
}

// Request describes one authenticated call.
type Request struct {
	// Endpoint labels metrics and logs.
	Endpoint string
	Method   string
	Path     string
	Query    map[string]string
	Body     any
}

// Client calls the platform API with a cached bearer token.
type Client struct {
	resty   *resty.Client
	limiter *rate.Limiter
	breaker *resilience.Breaker
	apiKey  string
	log     *logging.Logger
	metrics *monitoring.Metrics

	mu        sync.Mutex
	token     string
	refreshed bool
	tokens    singleflight.Group
}

// New builds a client. The transport retries idempotent failures, accepts
// compressed responses and is shared by all calls.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "servicex-go/" + config.SDKVersion
	}
	if opts.RetryMax == 0 {
		opts.RetryMax = 2
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = max(opts.RetryMax, 0)
	retryClient.RetryWaitMin = 200 * time.Millisecond
	retryClient.RetryWaitMax = 2 * time.Second
	retryClient.Logger = nil
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.HTTPClient.Transport = gzhttp.Transport(retryClient.HTTPClient.Transport)

	httpClient := retryClient.StandardClient()
	restyClient := resty.NewWithClient(httpClient).
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", opts.UserAgent).
		SetHeader("Accept", "application/json")

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimitRPS), max(int(opts.RateLimitRPS), 1))
	}

	metrics := opts.Metrics
	breaker := resilience.New(breakerName, resilience.Settings{
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		ReadyToTrip:  resilience.ConsecutiveFailures(opts.BreakerFailures),
		IsSuccessful: upstreamHealthy,
		OnStateChange: func(name string, _, to resilience.State) {
			metrics.SetBreakerState(name, int(to))
		},
	})

	return &Client{
		resty:   restyClient,
		limiter: limiter,
		breaker: breaker,
		apiKey:  opts.APIKey,
		log:     logging.OrNop(opts.Logger).Named("api"),
		metrics: metrics,
	}
}

// BreakerState exposes the breaker for health reporting.
func (c *Client) BreakerState() resilience.State {
	return c.breaker.State()
}

// Do runs req and decodes the response's data member into out. A 401
// refreshes the token and replays the request once.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	err := c.breaker.Do(ctx, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		return c.do(ctx, req, out, false)
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, resilience.ErrCircuitOpen), errors.Is(err, resilience.ErrTooManyRequests):
		c.metrics.RecordAPIError(req.Endpoint, "breaker_open")
		return &RequestError{Message: "Service temporarily unavailable.", Err: err}
	default:
		c.metrics.RecordAPIError(req.Endpoint, errorKind(err))
		c.log.Warn("API call failed", zap.String("endpoint", req.Endpoint), zap.Error(err))
		var reqErr *RequestError
		if errors.Is(err, ErrAPIKey) || errors.Is(err, ErrParse) || errors.As(err, &reqErr) {
			return err
		}
		return transportError(err)
	}
}

func (c *Client) do(ctx context.Context, req Request, out any, replayed bool) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	timer := monitoring.NewTimer(c.metrics, req.Endpoint)
	r := c.resty.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader(headerRequestID, uuid.NewString())
	if len(req.Query) > 0 {
		r.SetQueryParams(req.Query)
	}
	if req.Body != nil {
		raw, err := sonic.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", req.Endpoint, err)
		}
		r.SetHeader("Content-Type", "application/json").SetBody(raw)
	}

	resp, err := r.Execute(req.Method, "/"+strings.TrimLeft(req.Path, "/"))
	if err != nil {
		timer.Stop("error")
		return err
	}
	timer.Stop(strconv.Itoa(resp.StatusCode()))

	switch {
	case resp.StatusCode() == http.StatusUnauthorized && !replayed:
		c.log.Debug("Access token rejected, refreshing", zap.String("endpoint", req.Endpoint))
		c.invalidate(token)
		return c.do(ctx, req, out, true)
	case resp.StatusCode() < 200 || resp.StatusCode() >= 300:
		return statusError(resp.StatusCode())
	}

	return decodeData(resp.Body(), out)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// decodeData decodes the data member of a response body into out. Markup
// bodies from proxies and error pages are rejected before decoding.
func decodeData(body []byte, out any) error {
	if kind := mimetype.Detect(body); kind.Is("text/html") || kind.Is("text/xml") {
		return fmt.Errorf("%w: got %s", ErrParse, kind.String())
	}
	var env envelope
	if err := sonic.Unmarshal(body, &env); err != nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return ErrParse
	}
	if out == nil {
		return nil
	}
	if err := sonic.Unmarshal(env.Data, out); err != nil {
		return ErrParse
	}
	return nil
}
