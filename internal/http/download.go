package http

import (
	"context"
	"fmt"
	"io"
	"math"
	nethttp "net/http"
	"net/url"

	"github.com/fivetwenty-io/sonar/internal/constants"
	"github.com/fivetwenty-io/sonar/pkg/sonar"
)

// DownloadWithProgress issues a GET expecting an octet-stream body and
// returns it fully buffered. When options carries a progress callback the
// body is read chunk by chunk and the callback is invoked after each
// chunk; otherwise the body is consumed in a single read. Cancelling the
// context aborts the stream and surfaces the cancellation, not a network
// error.
func (c *Client) DownloadWithProgress(ctx context.Context, path string, query url.Values, options *sonar.DownloadOptions) ([]byte, error) {
	req := &Request{
		Method: nethttp.MethodGet,
		Path:   path,
		Query:  query,
		Headers: map[string]string{
			"Accept": "application/octet-stream",
		},
		Shape: ShapeBytes,
	}

	httpResp, fullURL, err := c.send(ctx, req, false)
	if err != nil {
		return nil, err
	}

	// The reader is released on every path out of this function,
	// including mid-stream aborts.
	defer func() { _ = httpResp.Body.Close() }()

	if httpResp.StatusCode >= nethttp.StatusBadRequest {
		body, _ := io.ReadAll(httpResp.Body)

		return nil, sonar.ClassifyResponse(httpResp.StatusCode, httpResp.Header, body)
	}

	if options == nil || options.OnProgress == nil {
		body, err := io.ReadAll(httpResp.Body)
		if err != nil {
			return nil, downloadReadError(ctx, fullURL, err)
		}

		return body, nil
	}

	total := httpResp.ContentLength
	if total < 0 {
		total = 0
	}

	var (
		body   []byte
		loaded int64
	)

	chunk := make([]byte, constants.DownloadChunkSize)

	for {
		n, readErr := httpResp.Body.Read(chunk)
		if n > 0 {
			body = append(body, chunk[:n]...)
			loaded += int64(n)
			options.OnProgress(sonar.Progress{
				Loaded:     loaded,
				Total:      total,
				Percentage: progressPercentage(loaded, total),
			})
		}

		if readErr == io.EOF {
			return body, nil
		}

		if readErr != nil {
			return nil, downloadReadError(ctx, fullURL, readErr)
		}
	}
}

func progressPercentage(loaded, total int64) int {
	if total <= 0 {
		return 0
	}

	return int(math.Round(float64(loaded) / float64(total) * 100))
}

func downloadReadError(ctx context.Context, fullURL string, err error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("download cancelled: %w", ctx.Err())
	}

	return &sonar.NetworkError{URL: fullURL, Err: err}
}
