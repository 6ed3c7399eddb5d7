// Package scraper fetches registration details for a plate from the public
// RC search page and extracts the labelled fields.
package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"vahan-rc-bot/internal/models"

	browser "github.com/EDDYCJY/fake-useragent"
	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	DefaultBaseURL = "https://vahanx.in"
	DefaultTimeout = 10 * time.Second

	searchPath = "/rc-search/{plate}"
)

var tracer = otel.Tracer("vahanbot/scraper")

// ErrUpstream is returned when the registry could not be reached or answered
// with a non-success status.
var ErrUpstream = errors.New("registry unavailable")

// fallbackUserAgents is used when the UA provider comes back empty, which
// fake-useragent does when its data file could not be downloaded.
var fallbackUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.5 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64; rv:127.0) Gecko/20100101 Firefox/127.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36 Edg/125.0.0.0",
	"Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Mobile Safari/537.36",
}

// Options configures a Client. Zero values fall back to the defaults.
type Options struct {
	BaseURL string
	Timeout time.Duration
	// OwnerPrefix is prepended to the owner name when non-empty.
	OwnerPrefix      string
	CloudflareBypass bool
	// UserAgent picks the header for each request. Defaults to a random browser UA.
	UserAgent func() string
}

// Client looks up plates on the registry site
type Client struct {
	http        *resty.Client
	ownerPrefix string
	userAgent   func() string
}

// New creates a new registry client
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == nil {
		opts.UserAgent = browser.Random
	}

	client := resty.New()
	client.SetBaseURL(strings.TrimRight(opts.BaseURL, "/"))
	client.SetTimeout(opts.Timeout)
	if opts.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}
	instrument(client)

	return &Client{
		http:        client,
		ownerPrefix: strings.TrimSpace(opts.OwnerPrefix),
		userAgent:   withFallback(opts.UserAgent),
	}
}

// withFallback wraps pick so it never yields an empty User-Agent
func withFallback(pick func() string) func() string {
	return func() string {
		if ua := strings.TrimSpace(pick()); ua != "" {
			return ua
		}
		return fallbackUserAgents[rand.Intn(len(fallbackUserAgents))]
	}
}

// Fetch performs a single lookup. The plate must already be normalized.
// Transport failures and non-2xx responses are reported as ErrUpstream; a page
// without any known label yields an empty record and a nil error.
func (c *Client) Fetch(ctx context.Context, plate string) (models.VehicleRecord, error) {
	ctx, span := tracer.Start(ctx, "scraper:Fetch")
	defer span.End()
	span.SetAttributes(attribute.String("plate", plate))

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("User-Agent", c.userAgent()).
		SetPathParam("plate", plate).
		Get(searchPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return models.VehicleRecord{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	if !res.IsSuccess() {
		span.SetStatus(codes.Error, "unexpected status")
		return models.VehicleRecord{}, fmt.Errorf("%w: %s", ErrUpstream, res.Status())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return models.VehicleRecord{}, fmt.Errorf("%w: parse html: %w", ErrUpstream, err)
	}

	record := Extract(doc, plate)
	if owner, ok := record.Get(models.LabelOwnerName); ok && c.ownerPrefix != "" {
		record.Set(models.LabelOwnerName, c.ownerPrefix+" "+owner)
	}
	span.SetAttributes(attribute.Int("fields", len(record.Fields)))

	return record, nil
}
