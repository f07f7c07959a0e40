package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchManifest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"version":"2.0.0","download_url":"https://x/pkg.zip","notes":"fixes"}`))
	}))
	defer server.Close()

	manifest, err := NewManifestClient().Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if manifest.Version != "2.0.0" {
		t.Errorf("version = %q, want 2.0.0", manifest.Version)
	}
	if manifest.DownloadURL != "https://x/pkg.zip" {
		t.Errorf("download_url = %q", manifest.DownloadURL)
	}
	if manifest.Notes != "fixes" {
		t.Errorf("notes = %q, want fixes", manifest.Notes)
	}
}

func TestFetchManifestOptionalNotes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"version":"1.1.0","download_url":"https://x/pkg.zip"}`))
	}))
	defer server.Close()

	manifest, err := NewManifestClient().Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if manifest.Notes != "" {
		t.Errorf("notes = %q, want empty", manifest.Notes)
	}
}

func TestFetchManifestErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind FailureKind
	}{
		{"server error", http.StatusInternalServerError, "boom", KindNetwork},
		{"not found", http.StatusNotFound, "", KindNetwork},
		{"malformed body", http.StatusOK, "{not json", KindParse},
		{"missing version", http.StatusOK, `{"download_url":"https://x/pkg.zip"}`, KindParse},
		{"missing download_url", http.StatusOK, `{"version":"2.0.0"}`, KindParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewManifestClient().Fetch(context.Background(), server.URL)
			if err == nil {
				t.Fatal("Fetch succeeded, want error")
			}
			if KindOf(err) != tt.wantKind {
				t.Errorf("kind = %q, want %q (err: %v)", KindOf(err), tt.wantKind, err)
			}
		})
	}
}

func TestFetchManifestUnreachable(t *testing.T) {
	_, err := NewManifestClient().Fetch(context.Background(), "http://127.0.0.1:1/latest.json")
	if err == nil {
		t.Fatal("Fetch succeeded against unreachable host")
	}
	if KindOf(err) != KindNetwork {
		t.Errorf("kind = %q, want %q", KindOf(err), KindNetwork)
	}
}
