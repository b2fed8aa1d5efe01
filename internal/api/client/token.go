package client

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/servicex/internal/infrastructure/monitoring"
)

const (
	tokenPath     = "/v1/token"
	tokenEndpoint = "token"
)

type tokenData struct {
	AccessToken string `json:"access_token"`
}

// accessToken returns the cached token or acquires one. Concurrent callers
// share a single acquisition.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token != "" {
		return token, nil
	}

	v, err, _ := c.tokens.Do("token", func() (any, error) {
		return c.fetchToken(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Client) fetchToken(ctx context.Context) (string, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return "", &RequestError{Message: "Please set your API key."}
	}

	reason := "initial"
	c.mu.Lock()
	if c.token == "" && c.refreshed {
		reason = "expired"
	}
	c.mu.Unlock()
	c.metrics.RecordTokenRefresh(reason)

	timer := monitoring.NewTimer(c.metrics, tokenEndpoint)
	resp, err := c.resty.R().
		SetContext(ctx).
		SetHeader(headerAPIKey, c.apiKey).
		Post(tokenPath)
	if err != nil {
		timer.Stop("error")
		return "", &RequestError{Message: tokenFailedMessage, Err: err}
	}
	timer.Stop(strconv.Itoa(resp.StatusCode()))

	switch code := resp.StatusCode(); {
	case code == http.StatusBadRequest:
		return "", ErrAPIKey
	case code < 200 || code >= 300:
		return "", &RequestError{Message: tokenFailedMessage, StatusCode: code}
	}

	var data tokenData
	if err := decodeData(resp.Body(), &data); err != nil || data.AccessToken == "" {
		return "", ErrParse
	}

	c.mu.Lock()
	c.token = data.AccessToken
	c.refreshed = true
	c.mu.Unlock()
	c.log.Debug("Access token acquired", zap.String("reason", reason))
	return data.AccessToken, nil
}

// invalidate drops token if it is still the cached one.
func (c *Client) invalidate(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token == token {
		c.token = ""
	}
}
