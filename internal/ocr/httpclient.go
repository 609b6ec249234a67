package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// HTTPClient is the REST implementation of Client. The service exposes
// POST /v1/text-detection/jobs to submit and
// GET /v1/text-detection/jobs/{id}?pageToken=... to poll and page results.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Connections to the extraction service are reused across poll rounds.
var pooledTransport = &http.Transport{
	MaxIdleConns:        20,
	MaxIdleConnsPerHost: 10,
	IdleConnTimeout:     90 * time.Second,
}

func NewHTTPClient(baseURL, apiKey string) (*HTTPClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("ocr: baseURL must not be empty")
	}
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Transport: pooledTransport,
			Timeout:   30 * time.Second,
		},
	}, nil
}

type startJobRequest struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

type startJobResponse struct {
	JobID string `json:"jobId"`
}

func (c *HTTPClient) StartTextDetection(ctx context.Context, bucket, key string) (string, error) {
	payload, err := json.Marshal(startJobRequest{Bucket: bucket, Key: key})
	if err != nil {
		return "", fmt.Errorf("failed to marshal job request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/text-detection/jobs", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build job request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var resp startJobResponse
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	if resp.JobID == "" {
		return "", fmt.Errorf("extraction service returned an empty job id")
	}
	return resp.JobID, nil
}

func (c *HTTPClient) GetTextDetection(ctx context.Context, jobID, nextToken string) (*ResultPage, error) {
	endpoint := fmt.Sprintf("%s/v1/text-detection/jobs/%s", c.baseURL, url.PathEscape(jobID))
	if nextToken != "" {
		endpoint += "?pageToken=" + url.QueryEscape(nextToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build status request: %w", err)
	}

	var page ResultPage
	if err := c.do(req, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("extraction service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("extraction service returned %d: %w", resp.StatusCode, ErrAccessDenied)
	}
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("extraction service returned %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode extraction service response: %w", err)
	}
	return nil
}
