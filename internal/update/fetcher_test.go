package update

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func TestDownloadReportsProgress(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 3*downloadChunkSize+100)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
		w.Write(payload)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "update.zip")
	var events []int64
	var lastTotal int64
	err := NewFetcher().Download(context.Background(), server.URL, dest, func(bytes, total int64) {
		events = append(events, bytes)
		lastTotal = total
	})
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}

	if len(events) == 0 {
		t.Fatal("no progress events emitted")
	}
	if lastTotal != int64(len(payload)) {
		t.Errorf("total = %d, want %d", lastTotal, len(payload))
	}
	// byte counts must be strictly non-decreasing and end at the full size
	for i := 1; i < len(events); i++ {
		if events[i] < events[i-1] {
			t.Fatalf("progress went backwards: %d after %d", events[i], events[i-1])
		}
	}
	if events[len(events)-1] != int64(len(payload)) {
		t.Errorf("final progress = %d, want %d", events[len(events)-1], len(payload))
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Error("downloaded content differs from payload")
	}
}

func TestDownloadNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "update.zip")
	err := NewFetcher().Download(context.Background(), server.URL, dest, nil)
	if err == nil {
		t.Fatal("Download succeeded, want error")
	}
	if KindOf(err) != KindNetwork {
		t.Errorf("kind = %q, want %q", KindOf(err), KindNetwork)
	}
	// failed before any bytes were written
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Error("destination file exists after status failure")
	}
}

func TestDownloadInterruptedMidStream(t *testing.T) {
	total := 10 * downloadChunkSize
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(total))
		w.Write(bytes.Repeat([]byte("x"), downloadChunkSize))
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		// drop the connection well before Content-Length is satisfied
		panic(http.ErrAbortHandler)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "update.zip")
	var reported int64
	err := NewFetcher().Download(context.Background(), server.URL, dest, func(bytes, _ int64) {
		reported = bytes
	})
	if err == nil {
		t.Fatal("Download succeeded on interrupted stream")
	}
	if KindOf(err) != KindNetwork {
		t.Errorf("kind = %q, want %q", KindOf(err), KindNetwork)
	}

	// the partial file is left on disk with fewer bytes than the total
	info, statErr := os.Stat(dest)
	if statErr != nil {
		t.Fatalf("partial file missing: %v", statErr)
	}
	if info.Size() >= int64(total) {
		t.Errorf("partial file size = %d, want < %d", info.Size(), total)
	}
	if reported > int64(total) {
		t.Errorf("reported bytes %d exceed total %d", reported, total)
	}
}
