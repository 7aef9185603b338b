package dep

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPWait_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	probe := NewHTTP("api", server.URL, "", 5*time.Second)
	start := time.Now()
	if err := probe.Wait(context.Background()); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed > pollGap {
		t.Fatalf("Wait took %v for an available endpoint", elapsed)
	}
}

func TestHTTPWait_RejectionIsImmediate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	// Long timeout on purpose: a non-2xx answer must fail the wait without
	// burning it.
	probe := NewHTTP("api", server.URL, "", 30*time.Second)

	start := time.Now()
	err := probe.Wait(context.Background())
	elapsed := time.Since(start)

	var waitErr *WaitError
	if !errors.As(err, &waitErr) || waitErr.Kind != Rejection {
		t.Fatalf("expected Rejection, got %v", err)
	}
	if elapsed > time.Second {
		t.Fatalf("Rejection took %v, expected immediate return", elapsed)
	}
}

func TestHTTPWait_TimeoutOnUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close() // connection refused from here on

	timeout := 400 * time.Millisecond
	probe := NewHTTP("api", url, "", timeout)

	start := time.Now()
	err := probe.Wait(context.Background())
	elapsed := time.Since(start)

	var waitErr *WaitError
	if !errors.As(err, &waitErr) || waitErr.Kind != Timeout {
		t.Fatalf("expected Timeout, got %v", err)
	}
	if elapsed < timeout {
		t.Fatalf("Wait returned before the timeout: %v", elapsed)
	}
}

func TestHTTPWait_InvalidTarget(t *testing.T) {
	cases := []string{"ftp://host/file", "http://", "not a url"}
	for _, raw := range cases {
		probe := NewHTTP("api", raw, "", time.Second)
		err := probe.Wait(context.Background())
		var waitErr *WaitError
		if !errors.As(err, &waitErr) || waitErr.Kind != InvalidTarget {
			t.Fatalf("NewHTTP(%q): expected InvalidTarget, got %v", raw, err)
		}
	}
}

func TestHTTPWait_UsesConfiguredMethod(t *testing.T) {
	var gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
	}))
	defer server.Close()

	probe := NewHTTP("api", server.URL, http.MethodHead, 5*time.Second)
	if err := probe.Wait(context.Background()); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if gotMethod != http.MethodHead {
		t.Fatalf("expected HEAD request, got %q", gotMethod)
	}
}

func TestHTTPCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()

	probe := NewHTTP("api", server.URL, "", 0)
	err := probe.Check(context.Background())
	if err == nil {
		t.Fatalf("expected Check to fail on a non-2xx status")
	}
	var rej *rejection
	if !errors.As(err, &rej) {
		t.Fatalf("expected rejection, got %v", err)
	}
}
