package catalog

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/pkg/errors"
)

// maxRemoteSize bounds how much of a remote catalog is read.
const maxRemoteSize = 16 << 20

// Fetch retrieves the raw catalog document from a file path or an http(s) URL.
func Fetch(ctx context.Context, location string) (data []byte, err error) {
	if location == "" {
		err = errors.New("catalog location is empty")
		return data, err
	}

	parsedURL, urlErr := url.Parse(location)
	if urlErr == nil && (parsedURL.Scheme == "http" || parsedURL.Scheme == "https") {
		data, err = fetchFromURL(ctx, location)
		if err != nil {
			err = errors.Wrapf(err, "failed to fetch catalog from URL: %s", location)
		}
		return data, err
	}

	data, err = os.ReadFile(location)
	if err != nil {
		err = errors.Wrapf(err, "failed to read catalog file: %s", location)
		return data, err
	}

	return data, err
}

func fetchFromURL(ctx context.Context, urlStr string) (data []byte, err error) {
	var req *http.Request
	req, err = http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return data, err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "cinescope/1.0")

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	var resp *http.Response
	resp, err = client.Do(req)
	if err != nil {
		err = errors.Wrap(err, "HTTP request failed")
		return data, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = errors.Errorf("HTTP request failed with status: %d", resp.StatusCode)
		return data, err
	}

	data, err = io.ReadAll(io.LimitReader(resp.Body, maxRemoteSize))
	if err != nil {
		err = errors.Wrap(err, "failed to read response body")
		return data, err
	}

	return data, err
}
