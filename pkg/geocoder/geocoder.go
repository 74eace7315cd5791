// Package geocoder turns postal addresses into points through an external
// geocoding service.
package geocoder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/faciam-dev/geofield/pkg/metrics"
	"github.com/faciam-dev/geofield/pkg/wkt"
)

// ErrServiceFailure is matched by every *ServiceFailureError.
var ErrServiceFailure = errors.New("geocoding failed")

// unknownFailure is reported when a service fails without saying why.
const unknownFailure = "service reported failure without a message"

// ServiceFailureError carries the service's message, and the transport
// error when the call itself failed.
type ServiceFailureError struct {
	Message string
	Err     error
}

func (e *ServiceFailureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("could not geocode address: %s: %v", e.Message, e.Err)
	}
	return "could not geocode address: " + e.Message
}

func (e *ServiceFailureError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrServiceFailure, e.Err}
	}
	return []error{ErrServiceFailure}
}

// Result is the outcome reported by a Service.
type Result struct {
	Success   bool
	Longitude float64
	Latitude  float64
	Message   string
}

// Service is a geocoding backend.
type Service interface {
	Geocode(ctx context.Context, address string) (Result, error)
}

// Geocoder resolves addresses to points with a Service.
type Geocoder struct {
	service Service
	logger  *zap.SugaredLogger
}

type Option func(*Geocoder)

func WithLogger(l *zap.SugaredLogger) Option {
	return func(g *Geocoder) {
		if l != nil {
			g.logger = l
		}
	}
}

func New(service Service, opts ...Option) *Geocoder {
	g := &Geocoder{service: service, logger: zap.NewNop().Sugar()}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Locate geocodes address. Failures are reported once; there is no retry
// and no fallback position.
func (g *Geocoder) Locate(ctx context.Context, address string) (wkt.Point, error) {
	start := time.Now()
	res, err := g.service.Geocode(ctx, address)
	metrics.GeocodeLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GeocodeRequests.WithLabelValues("error").Inc()
		g.logger.Warnw("geocode request failed", "address", address, "error", err)
		return wkt.Point{}, &ServiceFailureError{Message: "service error", Err: err}
	}
	if !res.Success {
		msg := res.Message
		if msg == "" {
			msg = unknownFailure
		}
		metrics.GeocodeRequests.WithLabelValues("failure").Inc()
		g.logger.Infow("address not geocoded", "address", address, "message", msg)
		return wkt.Point{}, &ServiceFailureError{Message: msg}
	}
	metrics.GeocodeRequests.WithLabelValues("success").Inc()
	return wkt.PointXY(res.Longitude, res.Latitude), nil
}

// LocateParts joins the address parts with ", " and geocodes the result.
// Empty parts are kept.
func (g *Geocoder) LocateParts(ctx context.Context, streetNumber, street, suburb, city, country string) (wkt.Point, error) {
	return g.Locate(ctx, strings.Join([]string{streetNumber, street, suburb, city, country}, ", "))
}
