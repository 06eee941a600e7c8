package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// HTTPPutter sends raw bytes to a pre-signed URL. The URL carries its own
// authorization, so no credentials or headers beyond Content-Type are added.
type HTTPPutter struct {
	httpClient *http.Client
}

// NewHTTPPutter returns a putter without a client-side timeout: transfers of
// large files rely on the transport defaults and on ctx cancellation.
func NewHTTPPutter(httpClient *http.Client) *HTTPPutter {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &HTTPPutter{httpClient: httpClient}
}

func (h *HTTPPutter) Put(ctx context.Context, uploadURL, contentType string, body io.Reader, size int64, onProgress ProgressFunc) error {
	pr := newProgressReader(body, size, onProgress)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, pr)
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", contentType)

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to upload to storage: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Drain body to enable connection reuse
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("storage returned status %d: %s", resp.StatusCode, string(msg))
	}

	if size > 0 && pr.Sent() != size {
		return fmt.Errorf("failed to upload the entire file. expected bytes %d sent %d", size, pr.Sent())
	}

	zap.S().Named("storage").Debugw("object uploaded", "bytes", pr.Sent(), "status", resp.StatusCode)
	return nil
}
