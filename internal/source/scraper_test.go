package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestScraper_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "hisdash/1.0" {
			t.Errorf("User-Agent = %q", got)
		}

		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("MA_LK,MA_BN\nV1,P1\n"))
	}))
	defer server.Close()

	body, err := NewScraper().Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch returned unexpected error: %v", err)
	}

	if !strings.HasPrefix(string(body), "MA_LK") {
		t.Errorf("Fetch body = %q", body)
	}
}

func TestScraper_Fetch_StatusClassification(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		wantErr     error
	}{
		{"not found", http.StatusNotFound, "text/plain", ErrSheetNotFound},
		{"forbidden", http.StatusForbidden, "text/plain", ErrSheetPermission},
		{"unauthorized", http.StatusUnauthorized, "text/plain", ErrSheetPermission},
		{"server error", http.StatusInternalServerError, "text/plain", ErrFetchFailed},
		{"sign-in page", http.StatusOK, "text/html; charset=utf-8", ErrSheetPermission},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			_, err := NewScraper().Fetch(context.Background(), server.URL)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Fetch error = %v, want %v", err, tt.wantErr)
			}

			var fetchErr *FetchError
			if !errors.As(err, &fetchErr) {
				t.Fatalf("expected *FetchError, got %T", err)
			}

			if fetchErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", fetchErr.StatusCode, tt.status)
			}
		})
	}
}

func TestScraper_Fetch_NoRetry(t *testing.T) {
	calls := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++

		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	if _, err := NewScraper().Fetch(context.Background(), server.URL); err == nil {
		t.Fatal("Fetch expected error")
	}

	if calls != 1 {
		t.Errorf("server called %d times, want 1", calls)
	}
}

func TestScraper_Fetch_BodyLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(strings.Repeat("x", (1<<20)+1)))
	}))
	defer server.Close()

	_, err := NewScraperWithConfig(5*time.Second, 1).Fetch(context.Background(), server.URL)
	if !errors.Is(err, ErrBodyTooLarge) || !errors.Is(err, ErrFetchFailed) {
		t.Errorf("Fetch error = %v, want ErrBodyTooLarge wrapped in ErrFetchFailed", err)
	}
}

func TestScraper_Fetch_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewScraper().Fetch(context.Background(), url)
	if !errors.Is(err, ErrFetchFailed) {
		t.Errorf("Fetch error = %v, want ErrFetchFailed", err)
	}
}

func TestReadLocalFile_Missing(t *testing.T) {
	_, err := ReadLocalFile(t.TempDir() + "/missing.csv")
	if err == nil || !strings.Contains(err.Error(), "failed to read local file") {
		t.Errorf("ReadLocalFile error = %v", err)
	}
}
