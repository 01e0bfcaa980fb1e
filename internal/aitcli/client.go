package aitcli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client wraps API calls against the canvas server.
type Client struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

func (c *Client) newRequest(method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequest(method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) do(req *http.Request, target interface{}) error {
	httpClient := &http.Client{Timeout: c.Timeout}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return responseError(req, resp)
	}
	if target == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(target)
}

func responseError(req *http.Request, resp *http.Response) error {
	var body struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	if json.NewDecoder(resp.Body).Decode(&body) == nil && body.Error != "" {
		msg := body.Error
		if body.Details != "" {
			msg = fmt.Sprintf("%s: %s", msg, body.Details)
		}
		return fmt.Errorf("%s %s failed: %s", req.Method, req.URL.Path, msg)
	}
	return fmt.Errorf("%s %s failed: %s", req.Method, req.URL.Path, resp.Status)
}

// GetJSON fetches a JSON document.
func (c *Client) GetJSON(path string, target interface{}) error {
	req, err := c.newRequest(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return c.do(req, target)
}

// PostJSON posts a JSON payload and decodes the JSON reply.
func (c *Client) PostJSON(path string, payload interface{}, target interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := c.newRequest(http.MethodPost, path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	return c.do(req, target)
}

// DeleteJSON issues a DELETE and decodes the JSON reply.
func (c *Client) DeleteJSON(path string, target interface{}) error {
	req, err := c.newRequest(http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	return c.do(req, target)
}

// PostStream posts a JSON payload and hands the raw SSE body to the caller.
// Streams have no overall timeout; cancel via ctx.
func (c *Client) PostStream(ctx context.Context, path string, payload interface{}) (io.ReadCloser, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := c.newRequest(http.MethodPost, path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := (&http.Client{}).Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, responseError(req, resp)
	}
	return resp.Body, nil
}

// EventEnvelope is one lifecycle event from the /events feed.
type EventEnvelope struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Generation uint64          `json:"generation,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
	Data       json.RawMessage `json:"data,omitempty"`
}

// StreamEvents opens the SSE feed and invokes handler for each event.
// Returning false stops the stream.
func (c *Client) StreamEvents(ctx context.Context, handler func(EventEnvelope) bool) error {
	req, err := c.newRequest(http.MethodGet, "/events", nil)
	if err != nil {
		return err
	}
	req = req.WithContext(ctx)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := (&http.Client{}).Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return responseError(req, resp)
	}

	reader := bufio.NewReader(resp.Body)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		line = strings.TrimRight(line, "\r\n")
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(line[len("data:"):])
		var envelope EventEnvelope
		if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
			continue
		}
		if handler != nil && !handler(envelope) {
			return nil
		}
	}
}
