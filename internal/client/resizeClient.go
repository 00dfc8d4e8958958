package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ahmedsomaa/picloom/internal/entity"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const ResizePath = "/api/resize"

type ResizeClient struct {
	httpClient *http.Client
	endpoint   string
}

// NewResizeClient targets baseURL + ResizePath. A zero timeout means none.
func NewResizeClient(baseURL string, timeout time.Duration) *ResizeClient {
	return &ResizeClient{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   strings.TrimRight(baseURL, "/") + ResizePath,
	}
}

// Resize posts one resize request and returns data.img from the response.
// A 413 becomes entity.ErrPayloadTooLarge whatever the body says.
func (c *ResizeClient) Resize(ctx context.Context, req entity.ResizeRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	logrus.WithFields(logrus.Fields{
		"endpoint": c.endpoint,
		"status":   resp.StatusCode,
		"bytes":    len(body),
	}).Debug("Resize request finished")

	if resp.StatusCode == http.StatusRequestEntityTooLarge {
		return "", entity.ErrPayloadTooLarge
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var payload struct {
		entity.ResizeResponse
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", fmt.Errorf("invalid resize response (status %d): %w", resp.StatusCode, err)
	}

	if payload.Data == nil || payload.Data.Img == "" {
		if payload.Error != "" {
			return "", fmt.Errorf("%s", payload.Error)
		}
		return "", fmt.Errorf("%w (status %d)", entity.ErrMissingResult, resp.StatusCode)
	}

	return payload.Data.Img, nil
}
