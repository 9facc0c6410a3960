package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"bookinghub/internal/domain"
)

const pushTimeout = 3 * time.Second

type client struct {
	httpClient  *http.Client
	baseURL     string
	bearerToken string
}

// NewClient returns a CRMNotifier that posts booking notifications to the CRM
// service's /notify endpoint with a bearer token.
func NewClient(httpClient *http.Client, baseURL, bearerToken string) domain.CRMNotifier {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: pushTimeout}
	}
	return &client{
		httpClient:  httpClient,
		baseURL:     baseURL,
		bearerToken: bearerToken,
	}
}

func (c *client) Notify(ctx context.Context, n *domain.BookingNotification) domain.CRMPushResult {
	body, err := json.Marshal(n)
	if err != nil {
		return domain.CRMPushResult{Err: fmt.Sprintf("encode notification: %v", err)}
	}

	ctx, cancel := context.WithTimeout(ctx, pushTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/notify", bytes.NewReader(body))
	if err != nil {
		return domain.CRMPushResult{Err: fmt.Sprintf("create request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.CRMPushResult{Err: fmt.Sprintf("push to crm: %v", err)}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return domain.CRMPushResult{
			StatusCode: resp.StatusCode,
			Err:        fmt.Sprintf("crm returned status: %d", resp.StatusCode),
		}
	}
	return domain.CRMPushResult{OK: true, StatusCode: resp.StatusCode}
}
