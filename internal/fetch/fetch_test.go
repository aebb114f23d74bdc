package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestPrimary_AppendsTargetVerbatim(t *testing.T) {
	var gotURI string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURI = r.RequestURI
		_, _ = w.Write([]byte("# Markdown"))
	}))
	defer srv.Close()

	p := NewPrimary(srv.URL+"/", 2*time.Second)
	res, err := p.Fetch(context.Background(), "https://a.com/x?y=1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotURI != "/https://a.com/x?y=1" {
		t.Fatalf("unexpected request uri %q", gotURI)
	}
	if res.Body != "# Markdown" || res.StatusCode != 200 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestPrimary_HTTPErrorCarriesStatusAndExcerpt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(strings.Repeat("x", 500)))
	}))
	defer srv.Close()

	_, err := NewPrimary(srv.URL+"/", 2*time.Second).Fetch(context.Background(), "https://a.com/")
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if httpErr.StatusCode != http.StatusForbidden || len(httpErr.Body) != bodyExcerptChars {
		t.Fatalf("unexpected error fields: %d, %d chars", httpErr.StatusCode, len(httpErr.Body))
	}
	if !strings.Contains(err.Error(), "HTTP 403") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestPrimary_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	_, err := NewPrimary(srv.URL+"/", 50*time.Millisecond).Fetch(context.Background(), "https://a.com/")
	var netErr *NetworkError
	if !errors.As(err, &netErr) || netErr.Kind != NetworkTimeout {
		t.Fatalf("expected timeout NetworkError, got %v", err)
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestFallback_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := srv.URL + "/v1"
	srv.Close()

	_, err := NewFallback(endpoint, time.Second).Fetch(context.Background(), "https://a.com/")
	var netErr *NetworkError
	if !errors.As(err, &netErr) || netErr.Kind != NetworkConnection {
		t.Fatalf("expected connection NetworkError, got %v", err)
	}
	if !strings.Contains(err.Error(), "is the service running?") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestFallback_SendsCommandAndParsesSolution(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok","message":"","solution":{"url":"https://a.com/","status":404,"response":"<html>gone</html>"}}`))
	}))
	defer srv.Close()

	f := NewFallback(srv.URL, 120*time.Second)
	if f.PerRequestTimeout != 150*time.Second {
		t.Fatalf("expected grace period on top of timeout, got %v", f.PerRequestTimeout)
	}
	res, err := f.Fetch(context.Background(), "https://a.com/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["cmd"] != "request.get" || got["url"] != "https://a.com/" {
		t.Fatalf("unexpected payload %#v", got)
	}
	if int(got["maxTimeout"].(float64)) != 120000 {
		t.Fatalf("expected maxTimeout in ms, got %#v", got["maxTimeout"])
	}
	if res.Body != "<html>gone</html>" || res.StatusCode != 404 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestFallback_DefaultsStatusTo200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok","solution":{"response":"<p>hi</p>"}}`))
	}))
	defer srv.Close()

	res, err := NewFallback(srv.URL, time.Second).Fetch(context.Background(), "https://a.com/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.StatusCode != 200 {
		t.Fatalf("expected default 200, got %d", res.StatusCode)
	}
}

func TestFallback_ServiceError(t *testing.T) {
	cases := map[string]string{
		`{"status":"error","message":"Challenge not solved"}`: "Challenge not solved",
		`{"status":"warning"}`:                                "Unknown error",
	}
	for body, wantMsg := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))
		_, err := NewFallback(srv.URL, time.Second).Fetch(context.Background(), "https://a.com/")
		srv.Close()
		var svcErr *ServiceError
		if !errors.As(err, &svcErr) || svcErr.Message != wantMsg {
			t.Fatalf("expected ServiceError %q, got %v", wantMsg, err)
		}
	}
}

func TestFallback_MalformedResponses(t *testing.T) {
	for _, body := range []string{`not json`, `{"status":"ok"}`, `{"status":"ok","solution":{}}`} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))
		_, err := NewFallback(srv.URL, time.Second).Fetch(context.Background(), "https://a.com/")
		srv.Close()
		if err == nil {
			t.Fatalf("expected error for body %q", body)
		}
	}
}

func TestFallback_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewFallback(srv.URL, time.Second).Fetch(context.Background(), "https://a.com/")
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != 500 || !strings.Contains(httpErr.Body, "boom") {
		t.Fatalf("expected HTTPError 500, got %v", err)
	}
}

func TestClient_RejectsNonHTTP(t *testing.T) {
	p := NewPrimary("file:///etc/", time.Second)
	if _, err := p.Fetch(context.Background(), "hosts"); err == nil {
		t.Fatalf("expected error for non-http scheme")
	}
}

func TestClient_RedirectLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/again", http.StatusFound)
	}))
	defer srv.Close()

	p := NewPrimary(srv.URL+"/", 2*time.Second)
	p.RedirectMaxHops = 1
	if _, err := p.Fetch(context.Background(), "start"); err == nil {
		t.Fatalf("expected redirect limit error")
	}
}
