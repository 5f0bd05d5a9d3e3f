package bus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"
)

// UpstreamError carries the message returned by the bus API; handlers map it
// to a 400 so client mistakes (bad line codes) don't read as server faults.
type UpstreamError struct {
	Message string
}

func (e *UpstreamError) Error() string {
	return "bus upstream: " + e.Message
}

// Client talks to the city bus API. The upstream expects mobile-app device
// parameters on every request; they are static except for the timestamp.
type Client struct {
	baseURL    string
	appKey     string
	httpClient *http.Client
}

func NewClient(baseURL, appKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		appKey:  appKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) request(ctx context.Context, endpoint, paramKey, value string) (json.RawMessage, error) {
	payload := map[string]any{
		"appKey":            c.appKey,
		"channelName":       "xiaoma",
		"deviceId":          "a6cafa9caf5510c6",
		"deviceType":        1,
		"phoneManufacturer": "Xiaomi",
		"phoneModel":        "2203121C",
		"phoneVersion":      "9",
		"pushToken":         "160a3797c9317d8c916",
		"versionCode":       "118",
		"versionName":       "1.1.8",
		"xiaomaAppId":       c.appKey,
		"timeRequest":       time.Now().UnixMilli(),
		paramKey:            value,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Android")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Message: err.Error()}
	}
	defer resp.Body.Close()

	var decoded struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Msg     struct {
			Message string `json:"message"`
		} `json:"msg"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &UpstreamError{Message: fmt.Sprintf("bad response: %v", err)}
	}
	if !decoded.Success {
		msg := decoded.Msg.Message
		if msg == "" {
			msg = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		return nil, &UpstreamError{Message: msg}
	}

	return decoded.Data, nil
}

// GetPreTime returns per-stop arrival predictions for a line, flattened from
// the upstream's keyed object into a stable-ordered slice.
func (c *Client) GetPreTime(ctx context.Context, lineCode string) ([]json.RawMessage, error) {
	data, err := c.request(ctx, "/preTime/yantai", "lineCode", lineCode)
	if err != nil {
		return nil, err
	}

	var keyed map[string]json.RawMessage
	if err := json.Unmarshal(data, &keyed); err != nil {
		return nil, &UpstreamError{Message: fmt.Sprintf("bad preTime payload: %v", err)}
	}

	keys := make([]string, 0, len(keyed))
	for k := range keyed {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	arrivals := make([]json.RawMessage, 0, len(keys))
	for _, k := range keys {
		arrivals = append(arrivals, keyed[k])
	}
	return arrivals, nil
}

func (c *Client) GetPlanTime(ctx context.Context, lineID string) (json.RawMessage, error) {
	return c.request(ctx, "/planTime", "lineId", lineID)
}

func (c *Client) GetLineDetail(ctx context.Context, lineCode string) (*LineDetail, error) {
	data, err := c.request(ctx, "/line", "lineCode", lineCode)
	if err != nil {
		return nil, err
	}

	var detail LineDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		return nil, &UpstreamError{Message: fmt.Sprintf("bad line payload: %v", err)}
	}
	return &detail, nil
}
