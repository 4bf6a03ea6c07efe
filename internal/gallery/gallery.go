// Package gallery is the consumer side of the manifest: it loads data.json
// from disk or over HTTP and renders project cards.
package gallery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"showcase/internal/manifest"
	"showcase/internal/meta"
)

// FailureMessage is shown in place of the gallery when the manifest cannot
// be loaded.
const FailureMessage = "Failed to load projects"

// ErrLoadFailed wraps every manifest loading failure.
var ErrLoadFailed = errors.New("failed to load manifest")

const maxManifestSize = 10 << 20

// IsURL reports whether source should be fetched over HTTP.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Load reads the manifest from a file path or http(s) URL. A nil client
// means http.DefaultClient.
func Load(ctx context.Context, source string, client *http.Client) ([]manifest.Record, error) {
	var (
		data []byte
		err  error
	)
	if IsURL(source) {
		data, err = fetch(ctx, source, client)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}

	records, err := manifest.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrLoadFailed, source, err)
	}
	return records, nil
}

func fetch(ctx context.Context, url string, client *http.Client) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxManifestSize))
}

// FormatDate renders a manifest timestamp like "Mar 1, 2024". Values that do
// not parse are returned unchanged.
func FormatDate(ts string) string {
	t, ok := meta.ParseDate(ts)
	if !ok {
		return ts
	}
	return t.Format("Jan 2, 2006")
}
