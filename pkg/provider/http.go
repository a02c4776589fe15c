package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/simgraph/simgraph/pkg/graph"
)

// HTTPProvider consumes a catalog service speaking JSON over HTTP. It
// implements both DataProvider and CommandChannel.
type HTTPProvider struct {
	baseURL string
	client  *http.Client
}

// NewHTTPProvider creates a provider against the given base URL, e.g.
// "http://localhost:8900".
func NewHTTPProvider(baseURL string, client *http.Client) *HTTPProvider {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPProvider{baseURL: baseURL, client: client}
}

// LoadGraph fetches a dataset from GET /api/graph and validates it. A
// response without edges is legal and yields a node-only scatter.
func (p *HTTPProvider) LoadGraph(ctx context.Context, params Params) (*graph.Dataset, error) {
	q := url.Values{}
	q.Set("include_edges", strconv.FormatBool(params.IncludeEdges))
	if params.TopK > 0 {
		q.Set("top_k", strconv.Itoa(params.TopK))
	}
	if params.ClusterFilter != nil {
		q.Set("cluster", strconv.Itoa(*params.ClusterFilter))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/graph?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build graph request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("load graph: %s", serverMessage(resp))
	}

	var ds graph.Dataset
	if err := json.NewDecoder(resp.Body).Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode graph response: %w", err)
	}
	graph.Ingest(&ds)
	return &ds, nil
}

// Regenerate posts to /api/clusters/regenerate and returns the accepted
// task. Failures carry the server-provided message when one is available.
func (p *HTTPProvider) Regenerate(ctx context.Context, params Params) (Task, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return Task{}, fmt.Errorf("encode regenerate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/clusters/regenerate", bytes.NewReader(body))
	if err != nil {
		return Task{}, fmt.Errorf("build regenerate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return Task{}, fmt.Errorf("regenerate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return Task{}, fmt.Errorf("regenerate: %s", serverMessage(resp))
	}

	var task Task
	if err := json.NewDecoder(resp.Body).Decode(&task); err != nil {
		return Task{}, fmt.Errorf("decode regenerate response: %w", err)
	}
	return task, nil
}

// serverMessage extracts {"error": "..."} from an error response, falling
// back to the HTTP status when the body is not helpful.
func serverMessage(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil && len(raw) > 0 {
		var payload struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &payload) == nil {
			if payload.Error != "" {
				return payload.Error
			}
			if payload.Message != "" {
				return payload.Message
			}
		}
	}
	return resp.Status
}
