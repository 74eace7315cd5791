package geocoder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultGoogleBaseURL is the public Google Maps API host.
const DefaultGoogleBaseURL = "https://maps.googleapis.com"

const googleGeocodePath = "/maps/api/geocode/json"

type googleResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// GoogleService is a Service backed by the Google Geocoding JSON API.
type GoogleService struct {
	apiKey string
	http   *resty.Client
}

type GoogleOption func(*GoogleService)

// WithBaseURL points the service at another host, e.g. a test server.
func WithBaseURL(base string) GoogleOption {
	return func(s *GoogleService) {
		if base != "" {
			s.http.SetBaseURL(strings.TrimRight(base, "/"))
		}
	}
}

func WithTimeout(d time.Duration) GoogleOption {
	return func(s *GoogleService) {
		if d > 0 {
			s.http.SetTimeout(d)
		}
	}
}

// NewGoogle returns a GoogleService using apiKey.
func NewGoogle(apiKey string, opts ...GoogleOption) *GoogleService {
	s := &GoogleService{
		apiKey: apiKey,
		http:   resty.New().SetBaseURL(DefaultGoogleBaseURL).SetTimeout(10 * time.Second),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Geocode looks address up. Lookup misses are reported in Result; only
// transport and HTTP status failures are returned as errors.
func (s *GoogleService) Geocode(ctx context.Context, address string) (Result, error) {
	var out googleResponse
	params := map[string]string{"address": address}
	if s.apiKey != "" {
		params["key"] = s.apiKey
	}
	resp, err := s.http.R().SetContext(ctx).SetQueryParams(params).SetResult(&out).Get(googleGeocodePath)
	if err != nil {
		return Result{}, err
	}
	if resp.IsError() {
		return Result{}, fmt.Errorf("%s", resp.Status())
	}
	switch out.Status {
	case "OK":
		if len(out.Results) == 0 {
			return Result{Message: "Zero results"}, nil
		}
		loc := out.Results[0].Geometry.Location
		return Result{Success: true, Longitude: loc.Lng, Latitude: loc.Lat}, nil
	case "ZERO_RESULTS":
		return Result{Message: "Zero results"}, nil
	case "":
		return Result{Message: "response carried no status"}, nil
	default:
		msg := out.Status
		if out.ErrorMessage != "" {
			msg += ": " + out.ErrorMessage
		}
		return Result{Message: msg}, nil
	}
}
