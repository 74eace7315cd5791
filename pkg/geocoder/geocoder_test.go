package geocoder

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/faciam-dev/geofield/pkg/wkt"
)

type fakeService struct {
	result  Result
	err     error
	queries []string
}

func (f *fakeService) Geocode(_ context.Context, address string) (Result, error) {
	f.queries = append(f.queries, address)
	return f.result, f.err
}

func TestLocateSuccess(t *testing.T) {
	svc := &fakeService{result: Result{Success: true, Longitude: 174.7762, Latitude: -41.2865}}
	g := New(svc, WithLogger(zaptest.NewLogger(t).Sugar()))
	p, err := g.Locate(context.Background(), "123 Victoria St, Te Aro, Wellington, NZ")
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if p != wkt.PointXY(174.7762, -41.2865) {
		t.Fatalf("point = %+v", p)
	}
}

func TestLocateZeroResults(t *testing.T) {
	svc := &fakeService{result: Result{Success: false, Message: "Zero results"}}
	g := New(svc)
	_, err := g.Locate(context.Background(), "nowhere")
	if !errors.Is(err, ErrServiceFailure) {
		t.Fatalf("expected ErrServiceFailure, got %v", err)
	}
	var sf *ServiceFailureError
	if !errors.As(err, &sf) || sf.Message != "Zero results" {
		t.Fatalf("expected message Zero results, got %v", err)
	}
	if len(svc.queries) != 1 {
		t.Fatalf("service called %d times, want 1", len(svc.queries))
	}
}

func TestLocateFailureWithoutMessage(t *testing.T) {
	g := New(&fakeService{result: Result{}})
	_, err := g.Locate(context.Background(), "somewhere")
	var sf *ServiceFailureError
	if !errors.As(err, &sf) || sf.Message == "" {
		t.Fatalf("expected a failure message, got %v", err)
	}
	if err.Error() != "could not geocode address: "+unknownFailure {
		t.Fatalf("error = %q", err.Error())
	}
}

func TestLocateTransportError(t *testing.T) {
	boom := errors.New("connection refused")
	g := New(&fakeService{err: boom})
	_, err := g.Locate(context.Background(), "x")
	if !errors.Is(err, ErrServiceFailure) || !errors.Is(err, boom) {
		t.Fatalf("expected service failure wrapping transport error, got %v", err)
	}
}

func TestLocatePartsJoinsWithComma(t *testing.T) {
	svc := &fakeService{result: Result{Success: true}}
	g := New(svc)
	if _, err := g.LocateParts(context.Background(), "123", "Adelaide Rd", "", "Wellington", "NZ"); err != nil {
		t.Fatalf("locate parts: %v", err)
	}
	if svc.queries[0] != "123, Adelaide Rd, , Wellington, NZ" {
		t.Fatalf("query = %q", svc.queries[0])
	}
}

func googleServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/maps/api/geocode/json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "secret" {
			t.Errorf("missing api key in %s", r.URL.RawQuery)
		}
		if r.URL.Query().Get("address") == "" {
			t.Errorf("missing address in %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGoogleServiceOK(t *testing.T) {
	srv := googleServer(t, http.StatusOK, `{"status":"OK","results":[{"formatted_address":"Wellington","geometry":{"location":{"lat":-41.2865,"lng":174.7762}}}]}`)
	svc := NewGoogle("secret", WithBaseURL(srv.URL))
	res, err := svc.Geocode(context.Background(), "Wellington, NZ")
	if err != nil {
		t.Fatalf("geocode: %v", err)
	}
	if !res.Success || res.Longitude != 174.7762 || res.Latitude != -41.2865 {
		t.Fatalf("result = %+v", res)
	}
}

func TestGoogleServiceZeroResults(t *testing.T) {
	srv := googleServer(t, http.StatusOK, `{"status":"ZERO_RESULTS","results":[]}`)
	g := New(NewGoogle("secret", WithBaseURL(srv.URL)))
	_, err := g.Locate(context.Background(), "nowhere at all")
	var sf *ServiceFailureError
	if !errors.As(err, &sf) || sf.Message != "Zero results" {
		t.Fatalf("expected Zero results failure, got %v", err)
	}
}

func TestGoogleServiceMissingStatus(t *testing.T) {
	srv := googleServer(t, http.StatusOK, `{"results":[]}`)
	g := New(NewGoogle("secret", WithBaseURL(srv.URL)))
	_, err := g.Locate(context.Background(), "x")
	var sf *ServiceFailureError
	if !errors.As(err, &sf) || sf.Message != "response carried no status" {
		t.Fatalf("expected missing status failure, got %v", err)
	}
}

func TestGoogleServiceDenied(t *testing.T) {
	srv := googleServer(t, http.StatusOK, `{"status":"REQUEST_DENIED","error_message":"The provided API key is invalid.","results":[]}`)
	res, err := NewGoogle("secret", WithBaseURL(srv.URL)).Geocode(context.Background(), "x")
	if err != nil {
		t.Fatalf("geocode: %v", err)
	}
	if res.Success || res.Message != "REQUEST_DENIED: The provided API key is invalid." {
		t.Fatalf("result = %+v", res)
	}
}

func TestGoogleServiceHTTPError(t *testing.T) {
	srv := googleServer(t, http.StatusInternalServerError, `{}`)
	g := New(NewGoogle("secret", WithBaseURL(srv.URL)))
	if _, err := g.Locate(context.Background(), "x"); !errors.Is(err, ErrServiceFailure) {
		t.Fatalf("expected ErrServiceFailure, got %v", err)
	}
}
