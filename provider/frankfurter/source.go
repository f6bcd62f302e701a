package frankfurter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/robotomize/fxwidget/label"
	"github.com/robotomize/fxwidget/provider"
	"github.com/robotomize/fxwidget/provider/httputil"
)

const hostname = "api.frankfurter.app"

const dateLayout = "2006-01-02"

var defaultBaseURL = url.URL{Scheme: "https", Host: hostname}

var _ provider.Source = (*source)(nil)

// NewSource returns a Source backed by the frankfurter JSON REST API
func NewSource(client *http.Client) *source {
	return &source{
		baseURL: defaultBaseURL,
		client:  httputil.NewHTTPClient(client),
	}
}

type source struct {
	baseURL url.URL
	client  httputil.SourceHTTPClient
}

// FetchLatest requests all rates relative to base: GET /latest?from={BASE}
func (s *source) FetchLatest(ctx context.Context, base label.Symbol) (*provider.Snapshot, error) {
	u := s.baseURL
	u.Path += "/latest"

	query := u.Query()
	query.Set("from", base.String())
	u.RawQuery = query.Encode()

	b, err := s.client.Get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch latest: %v", provider.ErrNetwork, err)
	}

	snapshot, err := decodeLatest(b)
	if err != nil {
		return nil, fmt.Errorf("%w: decode latest: %v", provider.ErrNetwork, err)
	}

	return snapshot, nil
}

// FetchTimeSeries requests the daily series for one pair over the
// inclusive range: GET /{start}..{end}?from={FROM}&to={TO}
func (s *source) FetchTimeSeries(
	ctx context.Context, from, to label.Symbol, start, end time.Time,
) (*provider.TimeSeries, error) {
	u := s.baseURL
	u.Path += "/" + start.Format(dateLayout) + ".." + end.Format(dateLayout)

	query := u.Query()
	query.Set("from", from.String())
	query.Set("to", to.String())
	u.RawQuery = query.Encode()

	b, err := s.client.Get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch time series: %v", provider.ErrNetwork, err)
	}

	series, err := decodeTimeSeries(b, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: decode time series: %v", provider.ErrNetwork, err)
	}

	return series, nil
}
