package update

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"update-keeper/internal/models"
)

// Manifest fetch must answer quickly; the package download has no such bound.
const manifestTimeout = 10 * time.Second

/**
 * Client fetching the remote update manifest
 */
type ManifestClient struct {
	client *http.Client
}

/**
 * Create new manifest client with a bounded request timeout
 * @returns {*ManifestClient} New manifest client instance
 */
func NewManifestClient() *ManifestClient {
	return &ManifestClient{
		client: &http.Client{Timeout: manifestTimeout},
	}
}

/**
 * Fetch and parse the remote manifest
 * @param {context.Context} ctx - Request context
 * @param {string} url - Manifest URL
 * @returns {*models.UpdateManifest} Parsed manifest
 * @returns {error} KindNetwork for transport failures and non-success
 * status codes, KindParse for malformed bodies
 * @description
 * - Issues a single GET; no retries, a failed check is surfaced to the
 *   caller immediately
 * - A response missing "version" or "download_url" is a malformed manifest
 * - "notes" is optional and defaults to empty
 */
func (c *ManifestClient) Fetch(ctx context.Context, url string) (*models.UpdateManifest, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, newError(KindNetwork, fmt.Errorf("fetch manifest '%s': %w", url, err))
	}
	rsp, err := c.client.Do(req)
	if err != nil {
		return nil, newError(KindNetwork, fmt.Errorf("fetch manifest '%s': %w", url, err))
	}
	defer rsp.Body.Close()

	if rsp.StatusCode < 200 || rsp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(rsp.Body, 512))
		return nil, newError(KindNetwork,
			fmt.Errorf("fetch manifest '%s' code:%d, error:%s", url, rsp.StatusCode, string(body)))
	}

	manifest := &models.UpdateManifest{}
	if err := json.NewDecoder(rsp.Body).Decode(manifest); err != nil {
		return nil, newError(KindParse, fmt.Errorf("parse manifest '%s': %w", url, err))
	}
	if manifest.Version == "" || manifest.DownloadURL == "" {
		return nil, newError(KindParse,
			fmt.Errorf("malformed manifest '%s': missing version or download_url", url))
	}
	return manifest, nil
}
