package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ohmg/internal/volume"
)

// Operation names a server-side action recognized by the service.
type Operation string

// Volume-level operations posted to the summary endpoint.
const (
	OpInitialize     Operation = "initialize"
	OpRefresh        Operation = "refresh"
	OpRefreshLookups Operation = "refresh-lookups"
	OpSetIndexLayers Operation = "set-index-layers"
)

// OpSetStatus is the per-document operation posted to a document or layer
// georeference endpoint.
const OpSetStatus Operation = "set-status"

const contentTypeJSON = "application/json;charset=utf-8"

// Client posts operation requests with the session's CSRF token. It is safe
// for concurrent use.
type Client struct {
	csrfToken  string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates an operation client for one dashboard session.
func New(csrfToken string, opts ...Option) (*Client, error) {
	csrfToken = strings.TrimSpace(csrfToken)
	if csrfToken == "" {
		return nil, errors.New("csrf token required")
	}
	client := &Client{
		csrfToken:  csrfToken,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// VolumePayload carries the extra fields of a volume operation body. Both
// fields are sent on every operation even though the server only reads them
// for set-index-layers; the service contract expects their presence.
type VolumePayload struct {
	IndexLayerIDs       []string
	LayerCategoryLookup map[string]string
}

type volumeRequest struct {
	Operation           Operation         `json:"operation"`
	IndexLayerIDs       []string          `json:"indexLayerIds"`
	LayerCategoryLookup map[string]string `json:"layerCategoryLookup"`
}

// SubmitVolumeOperation posts op against the volume summary endpoint and
// decodes the full snapshot the server returns.
func (c *Client) SubmitVolumeOperation(ctx context.Context, endpoint string, op Operation, payload VolumePayload) (*volume.Snapshot, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("summary endpoint required")
	}
	if op == "" {
		return nil, errors.New("operation required")
	}

	body := volumeRequest{
		Operation:           op,
		IndexLayerIDs:       payload.IndexLayerIDs,
		LayerCategoryLookup: payload.LayerCategoryLookup,
	}
	if body.IndexLayerIDs == nil {
		body.IndexLayerIDs = []string{}
	}
	if body.LayerCategoryLookup == nil {
		body.LayerCategoryLookup = map[string]string{}
	}

	resp, err := c.post(ctx, endpoint, op, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var snapshot volume.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", op, err)
	}
	return &snapshot, nil
}

type documentRequest struct {
	Operation Operation `json:"operation"`
	Status    string    `json:"status"`
}

// SetDocumentStatus posts a set-status operation to a per-document
// georeference endpoint. The response body is an ack only and is discarded;
// issue a refresh against the summary endpoint to observe the new state.
func (c *Client) SetDocumentStatus(ctx context.Context, endpoint, status string) error {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return errors.New("document endpoint required")
	}
	if !volume.ValidDocStatus(status) {
		return fmt.Errorf("unknown document status %q", status)
	}

	resp, err := c.post(ctx, endpoint, OpSetStatus, documentRequest{Operation: OpSetStatus, Status: status})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return nil
}

func (c *Client) post(ctx context.Context, endpoint string, op Operation, body any) (*http.Response, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", contentTypeJSON)
	req.Header.Set("X-CSRFToken", c.csrfToken)

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute %s (latency=%v): %w", op, latency, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		resp.Body.Close()
		return nil, &StatusError{Operation: op, StatusCode: resp.StatusCode, Endpoint: endpoint}
	}
	return resp, nil
}
