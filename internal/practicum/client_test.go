package practicum

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"homeworkbot/internal/homework"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func TestFetchSendsAuthAndFromDate(t *testing.T) {
	var gotAuth, gotFrom string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotFrom = r.URL.Query().Get("from_date")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"homeworks":[{"homework_name":"hw1","status":"approved"}],"current_date":1000}`)
	}))
	defer srv.Close()

	c := NewClient(Config{Endpoint: srv.URL, Token: "tok"})
	resp, err := c.Fetch(context.Background(), 12345)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if gotAuth != "OAuth tok" {
		t.Fatalf("Authorization = %q, want %q", gotAuth, "OAuth tok")
	}
	if gotFrom != "12345" {
		t.Fatalf("from_date = %q, want 12345", gotFrom)
	}
	if resp.CurrentDate != 1000 {
		t.Fatalf("current_date = %d, want 1000", resp.CurrentDate)
	}
	if len(resp.Homeworks) != 1 || resp.Homeworks[0].Name != "hw1" || resp.Homeworks[0].Status != homework.StatusApproved {
		t.Fatalf("unexpected homeworks: %+v", resp.Homeworks)
	}
}

func TestFetchZeroFromDateUsesNow(t *testing.T) {
	var gotFrom string
	c := NewClient(Config{Endpoint: "http://practicum.test/api/", Token: "tok"})
	c.now = func() time.Time { return time.Unix(1700000000, 0) }
	c.httpClient = &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		gotFrom = req.URL.Query().Get("from_date")
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"homeworks":[]}`)),
			Header:     make(http.Header),
		}, nil
	})}

	if _, err := c.Fetch(context.Background(), 0); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if gotFrom != "1700000000" {
		t.Fatalf("from_date = %q, want 1700000000", gotFrom)
	}
}

func TestFetchNonOKIsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"code":"not_authenticated"}`)
	}))
	defer srv.Close()

	c := NewClient(Config{Endpoint: srv.URL, Token: "bad"})
	_, err := c.Fetch(context.Background(), 1)
	ue, ok := AsUpstreamError(err)
	if !ok {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if ue.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d", ue.StatusCode)
	}
	if !strings.Contains(ue.Body, "not_authenticated") {
		t.Fatalf("body excerpt = %q", ue.Body)
	}
	if ue.Error() != "Статус ошибки 401" {
		t.Fatalf("message = %q", ue.Error())
	}
}

func TestFetchInvalidJSONIsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html>maintenance</html>`)
	}))
	defer srv.Close()

	c := NewClient(Config{Endpoint: srv.URL, Token: "tok"})
	_, err := c.Fetch(context.Background(), 1)
	ue, ok := AsUpstreamError(err)
	if !ok {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if ue.Err == nil {
		t.Fatal("expected decode cause")
	}
}

func TestFetchConnectionFailureIsTransportError(t *testing.T) {
	boom := errors.New("connection refused")
	c := NewClient(Config{Endpoint: "http://practicum.test/api/", Token: "tok"})
	c.httpClient = &http.Client{Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
		return nil, boom
	})}

	_, err := c.Fetch(context.Background(), 1)
	if _, ok := AsTransportError(err); !ok {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected cause to be preserved, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "Ошибка при запросе к API") {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestFetchDefaultsEndpoint(t *testing.T) {
	c := NewClient(Config{Token: "tok"})
	if c.endpoint != DefaultEndpoint {
		t.Fatalf("endpoint = %q", c.endpoint)
	}
}
