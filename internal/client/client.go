package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	api "github.com/docflow/docflow/api/v1alpha1"
	"github.com/docflow/docflow/internal/auth"
	"github.com/docflow/docflow/pkg/requestid"
)

// APIError is a non-2xx response from the server. Detail carries the
// server-side message verbatim.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return e.Detail
}

// Client is the typed HTTP client for the docflow API. Every request
// carries the configured API key; it performs no retries and applies no
// timeout beyond the caller's context.
type Client struct {
	server string
	apiKey string
	http   *http.Client
}

// NewFromConfig returns a new docflow API client from the given config.
func NewFromConfig(config *Config) (*Client, error) {
	httpClient, err := NewHTTPClientFromConfig(config)
	if err != nil {
		return nil, fmt.Errorf("NewFromConfig: creating HTTP client %w", err)
	}
	return &Client{
		server: strings.TrimRight(config.Service.Server, "/"),
		apiKey: config.Service.APIKey,
		http:   httpClient,
	}, nil
}

// ListDocumentsParams mirrors the query parameters of GET /documents.
// Nil members are omitted.
type ListDocumentsParams struct {
	Skip        *int
	Limit       *int
	InvoiceType *api.DocumentType
	Status      *api.DocumentStatus
	MinAmount   *float64
	MaxAmount   *float64
	StartDate   *time.Time
	EndDate     *time.Time
}

func (p *ListDocumentsParams) values() url.Values {
	q := url.Values{}
	if p == nil {
		return q
	}
	if p.Skip != nil {
		q.Set("skip", strconv.Itoa(*p.Skip))
	}
	if p.Limit != nil {
		q.Set("limit", strconv.Itoa(*p.Limit))
	}
	if p.InvoiceType != nil {
		q.Set("invoice_type", string(*p.InvoiceType))
	}
	if p.Status != nil {
		q.Set("status", string(*p.Status))
	}
	if p.MinAmount != nil {
		q.Set("min_amount", strconv.FormatFloat(*p.MinAmount, 'f', -1, 64))
	}
	if p.MaxAmount != nil {
		q.Set("max_amount", strconv.FormatFloat(*p.MaxAmount, 'f', -1, 64))
	}
	if p.StartDate != nil {
		q.Set("start_date", p.StartDate.Format(time.RFC3339))
	}
	if p.EndDate != nil {
		q.Set("end_date", p.EndDate.Format(time.RFC3339))
	}
	return q
}

func (c *Client) CreateDocument(ctx context.Context, create api.DocumentCreate) (*api.Document, error) {
	var document api.Document
	if err := c.do(ctx, http.MethodPost, "/documents", nil, create, &document); err != nil {
		return nil, err
	}
	return &document, nil
}

func (c *Client) GetDocument(ctx context.Context, id string) (*api.Document, error) {
	var document api.Document
	if err := c.do(ctx, http.MethodGet, "/documents/"+url.PathEscape(id), nil, nil, &document); err != nil {
		return nil, err
	}
	return &document, nil
}

func (c *Client) ListDocuments(ctx context.Context, params *ListDocumentsParams) (*api.DocumentList, error) {
	var list api.DocumentList
	if err := c.do(ctx, http.MethodGet, "/documents", params.values(), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// SubmitBatch issues the one-shot batch creation request and returns the
// id of the server-side job tracking it.
func (c *Client) SubmitBatch(ctx context.Context, documentIDs []string) (string, error) {
	var reply api.BatchProcessReply
	request := api.BatchProcessRequest{DocumentIds: documentIDs}
	if err := c.do(ctx, http.MethodPost, "/documents/batch/process", nil, request, &reply); err != nil {
		return "", err
	}
	return reply.JobId, nil
}

// GetJob fetches the current status of a batch job.
func (c *Client) GetJob(ctx context.Context, id string) (*api.Job, error) {
	var job api.Job
	if err := c.do(ctx, http.MethodGet, "/jobs/"+url.PathEscape(id), nil, nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		reader = bytes.NewReader(raw)
	}

	endpoint := c.server + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(auth.APIKeyHeader, c.apiKey)
	req.Header.Set("x-request-id", requestid.Generate())

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decoding response body")
	}
	return nil
}

// decodeError surfaces the server's {"detail": ...} message; when the
// body is not the expected shape the status line is used instead.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body api.Error
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Detail != "" {
		apiErr.Detail = body.Detail
		return apiErr
	}

	apiErr.Detail = resp.Status
	return apiErr
}
