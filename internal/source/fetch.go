package source

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// MaxFetchBytes caps how much of a remote image is read.
const MaxFetchBytes = 64 << 20

// ErrTooLarge is returned for response bodies over the fetch limit.
var ErrTooLarge = errors.New("response exceeds size limit")

// fetchLimit is MaxFetchBytes, lowered in tests.
var fetchLimit int64 = MaxFetchBytes

// DefaultClient is used by Load for URL references.
var DefaultClient = &http.Client{Timeout: 30 * time.Second}

// Fetch downloads url with client and decodes the body. Non-2xx responses
// are errors.
func Fetch(ctx context.Context, client *http.Client, url string) (*Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "build request for %s", url)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, fetchLimit+1))
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", url)
	}
	if int64(len(data)) > fetchLimit {
		return nil, errors.Wrapf(ErrTooLarge, "fetch %s: over %d bytes", url, fetchLimit)
	}
	return Decode(url, data)
}
