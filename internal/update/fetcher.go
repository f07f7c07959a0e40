package update

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// Chunk size for streaming reads; the body is never buffered whole.
const downloadChunkSize = 32 * 1024

/**
 * Progress callback invoked after every chunk written to disk.
 * Byte counts are strictly non-decreasing; total is 0 when the server
 * sends no Content-Length.
 */
type ProgressFunc func(bytes, total int64)

/**
 * Streaming package downloader
 */
type Fetcher struct {
	client *http.Client
}

/**
 * Create new package fetcher
 * @returns {*Fetcher} New fetcher instance
 * @description
 * - No client timeout is set; large package downloads are bounded by the
 *   caller's context instead
 */
func NewFetcher() *Fetcher {
	return &Fetcher{client: &http.Client{}}
}

/**
 * Download a package into a local staging file
 * @param {context.Context} ctx - Download context
 * @param {string} url - Package URL
 * @param {string} destPath - Destination file path
 * @param {ProgressFunc} progress - Optional per-chunk progress callback
 * @returns {error} KindNetwork for transport failures and non-success
 * status, KindFilesystem for local write failures
 * @description
 * - A non-success HTTP status fails before any bytes are written
 * - On a mid-stream error the partially-written file is left on disk for
 *   the caller to discard
 */
func (f *Fetcher) Download(ctx context.Context, url, destPath string, progress ProgressFunc) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return newError(KindNetwork, fmt.Errorf("download '%s': %w", url, err))
	}
	rsp, err := f.client.Do(req)
	if err != nil {
		return newError(KindNetwork, fmt.Errorf("download '%s': %w", url, err))
	}
	defer rsp.Body.Close()

	if rsp.StatusCode < 200 || rsp.StatusCode >= 300 {
		return newError(KindNetwork,
			fmt.Errorf("download '%s' code:%d", url, rsp.StatusCode))
	}

	total := rsp.ContentLength
	if total < 0 {
		total = 0
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return newError(KindFilesystem, fmt.Errorf("create staging directory: %w", err))
	}
	out, err := os.Create(destPath)
	if err != nil {
		return newError(KindFilesystem, fmt.Errorf("create '%s': %w", destPath, err))
	}
	defer out.Close()

	var downloaded int64
	buf := make([]byte, downloadChunkSize)
	for {
		n, readErr := rsp.Body.Read(buf)
		if n > 0 {
			if _, err := out.Write(buf[:n]); err != nil {
				return newError(KindFilesystem, fmt.Errorf("write '%s': %w", destPath, err))
			}
			downloaded += int64(n)
			if progress != nil {
				progress(downloaded, total)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return newError(KindNetwork, fmt.Errorf("download '%s' interrupted: %w", url, readErr))
		}
	}

	if err := out.Close(); err != nil {
		return newError(KindFilesystem, fmt.Errorf("close '%s': %w", destPath, err))
	}
	return nil
}
