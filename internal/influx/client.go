// Package influx wraps the InfluxDB client behind a small Writer interface
// so the upload pipeline can be tested without a live database.
package influx

import (
	"context"
	"errors"
	"fmt"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	ihttp "github.com/influxdata/influxdb-client-go/v2/api/http"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Writer writes a batch of measurement points to the metrics database.
type Writer interface {
	WritePoints(ctx context.Context, pts []*write.Point) error
	Close()
}

// UploadError is a write failure with whatever diagnostic detail the
// transport exposed. It is fatal to the run; the caller must not retry.
type UploadError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *UploadError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("upload failed (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("upload failed: %s", e.Message)
}

func (e *UploadError) Unwrap() error { return e.Err }

// Client is the production Writer backed by the InfluxDB v2 API.
type Client struct {
	client influxdb2.Client
	org    string
	bucket string
}

// NewClient opens a client for the given connection parameters. The
// connection itself is lazy; failures surface on the first write.
func NewClient(cfg Config) *Client {
	return &Client{
		client: influxdb2.NewClient(cfg.Host, cfg.Token),
		org:    cfg.Org,
		bucket: cfg.Database,
	}
}

// WritePoints writes the full batch in one blocking call.
func (c *Client) WritePoints(ctx context.Context, pts []*write.Point) error {
	api := c.client.WriteAPIBlocking(c.org, c.bucket)
	if err := api.WritePoint(ctx, pts...); err != nil {
		var httpErr *ihttp.Error
		if errors.As(err, &httpErr) {
			msg := httpErr.Message
			if msg == "" {
				msg = httpErr.Error()
			}
			return &UploadError{
				StatusCode: httpErr.StatusCode,
				Message:    msg,
				Err:        err,
			}
		}
		return &UploadError{Message: err.Error(), Err: err}
	}
	return nil
}

// Close releases the underlying HTTP client. Safe on all exit paths.
func (c *Client) Close() {
	c.client.Close()
}
