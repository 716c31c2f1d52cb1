// Package snapshot refreshes economic reference values in the constants from
// public web pages.
package snapshot

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/movingout-dev/movingout/internal/constants"
)

// Source is a page holding one reference value. ProxyURL is tried when the
// page itself cannot be fetched.
type Source struct {
	Name     string
	URL      string
	ProxyURL string
	Patterns []*regexp.Regexp
	Min      float64
	Max      float64
}

// MinimumWageSource is the provincial minimum wage page.
var MinimumWageSource = Source{
	Name:     "minimum wage",
	URL:      "https://www.alberta.ca/minimum-wage",
	ProxyURL: "https://r.jina.ai/http://www.alberta.ca/minimum-wage",
	Patterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i)minimum wage[^$]{0,120}\$ ?(\d+(?:\.\d{1,2})?)`),
		regexp.MustCompile(`(?i)\$ ?(\d+(?:\.\d{1,2})?)\s*(?:per hour|/hour)`),
	},
	Min: 10,
	Max: 40,
}

// TransitPassSource is the city transit fares page.
var TransitPassSource = Source{
	Name:     "transit pass",
	URL:      "https://www.edmonton.ca/ets/fares-passes",
	ProxyURL: "https://r.jina.ai/http://www.edmonton.ca/ets/fares-passes",
	Patterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i)monthly fare cap[^$]{0,60}\$ ?(\d+(?:\.\d{1,2})?)`),
		regexp.MustCompile(`(?i)adult arc[^$]{0,60}\$ ?(\d+(?:\.\d{1,2})?)`),
		regexp.MustCompile(`(?i)arc[^$]{0,60}monthly[^$]{0,60}\$ ?(\d+(?:\.\d{1,2})?)`),
	},
	Min: 0.01,
}

// Result is a refreshed constants value and where it came from.
type Result struct {
	Constants *constants.Constants
	Value     float64
	SourceURL string
}

// Refresher fetches reference pages.
type Refresher struct {
	Client      *http.Client
	Log         *logrus.Logger
	MinimumWage Source
	TransitPass Source
	now         func() time.Time
}

// NewRefresher returns a Refresher using the default sources.
func NewRefresher(log *logrus.Logger) *Refresher {
	return &Refresher{
		Client:      &http.Client{Timeout: 15 * time.Second},
		Log:         log,
		MinimumWage: MinimumWageSource,
		TransitPass: TransitPassSource,
		now:         time.Now,
	}
}

// RefreshMinimumWage returns a copy of c with the minimum wage snapshot
// replaced by the current published value.
func (r *Refresher) RefreshMinimumWage(ctx context.Context, c *constants.Constants) (Result, error) {
	value, sourceURL, err := r.fetchValue(ctx, r.MinimumWage)
	if err != nil {
		return Result{}, err
	}
	next := c.Clone()
	next.EconomicSnapshot.MinimumWage.Value = value
	next.EconomicSnapshot.MinimumWage.SourceURL = sourceURL
	next.EconomicSnapshot.MinimumWage.LastUpdated = r.today()
	next.ConstantsVersion = r.version(c.ConstantsVersion)
	return Result{Constants: next, Value: value, SourceURL: sourceURL}, nil
}

// RefreshTransitPass returns a copy of c with the default transit pass
// replaced by the current published monthly fare.
func (r *Refresher) RefreshTransitPass(ctx context.Context, c *constants.Constants) (Result, error) {
	value, sourceURL, err := r.fetchValue(ctx, r.TransitPass)
	if err != nil {
		return Result{}, err
	}
	next := c.Clone()
	next.Transportation.TransitPassDefault.Value = value
	next.Transportation.TransitPassSourceURL = sourceURL
	next.Transportation.TransitPassLastUpdated = r.today()
	next.ConstantsVersion = r.version(c.ConstantsVersion)
	return Result{Constants: next, Value: value, SourceURL: sourceURL}, nil
}

func (r *Refresher) today() string {
	return r.now().UTC().Format("2006-01-02")
}

// refreshSuffix marks a constants version that carries fetched values.
const refreshSuffix = "+refresh."

// version tags a base constants version with today's refresh date. A version
// that was already refreshed keeps its base.
func (r *Refresher) version(v string) string {
	base, _, _ := strings.Cut(v, refreshSuffix)
	return base + refreshSuffix + r.today()
}

func (r *Refresher) fetchValue(ctx context.Context, src Source) (float64, string, error) {
	sourceURL := src.URL
	text, err := r.fetchText(ctx, src.URL)
	if err != nil {
		if src.ProxyURL == "" {
			return 0, "", fmt.Errorf("fetching %s page: %w", src.Name, err)
		}
		r.Log.WithError(err).WithField("url", src.URL).Warnf("%s page unavailable, trying proxy", src.Name)
		sourceURL = src.ProxyURL
		text, err = r.fetchText(ctx, src.ProxyURL)
		if err != nil {
			return 0, "", fmt.Errorf("fetching %s page through proxy: %w", src.Name, err)
		}
	}

	value, ok := src.Extract(text)
	if !ok {
		return 0, "", fmt.Errorf("could not find %s value in source page", src.Name)
	}
	r.Log.WithFields(logrus.Fields{"source": src.Name, "value": value, "url": sourceURL}).Info("snapshot refreshed")
	return value, sourceURL, nil
}

// fetchText downloads a page and returns its visible text.
func (r *Refresher) fetchText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := r.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parsing page: %w", err)
	}
	doc.Find("script, style, noscript").Remove()
	return doc.Text(), nil
}

// Extract finds the first pattern match within the source's bounds. A zero
// Max means no upper bound.
func (s Source) Extract(text string) (float64, bool) {
	normalized := strings.Join(strings.Fields(text), " ")
	for _, re := range s.Patterns {
		m := re.FindStringSubmatch(normalized)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if v >= s.Min && (s.Max == 0 || v <= s.Max) {
			return v, true
		}
	}
	return 0, false
}
