// Package push delivers notifications through an FCM-style HTTP gateway.
// The gateway's response is logged, never parsed: delivery reporting is
// the gateway's own concern.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"chatkit/contract"
	"chatkit/errors"
)

// maxLoggedResponse bounds how much of the gateway response ends up in
// the logs.
const maxLoggedResponse = 2048

type Gateway struct {
	endpoint string
	apiKey   string
	client   *http.Client
	log      *slog.Logger
}

func NewGateway(endpoint, apiKey string, client *http.Client, log *slog.Logger) *Gateway {
	if client == nil {
		client = http.DefaultClient
	}
	return &Gateway{endpoint: endpoint, apiKey: apiKey, client: client, log: log}
}

type payload struct {
	To           string            `json:"to"`
	Notification notification      `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

type notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Sound string `json:"sound"`
}

// Send posts the notification to the gateway. Title and body may not
// both be blank. Transport failures are system errors; any HTTP response
// at all counts as delivered-to-gateway and is only logged.
func (g *Gateway) Send(ctx context.Context, n contract.Notification) error {
	if strings.TrimSpace(n.Title) == "" && strings.TrimSpace(n.Body) == "" {
		return errors.ErrEmptyNotification
	}

	body, err := json.Marshal(payload{
		To: n.Token,
		Notification: notification{
			Title: n.Title,
			Body:  n.Body,
			Sound: "default",
		},
		Data: n.Data,
	})
	if err != nil {
		return errors.SystemWrap(err, "notification encoding failed")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.SystemWrap(err, "notification request failed")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return errors.SystemWrap(err, "notification delivery failed")
	}
	defer resp.Body.Close()

	reply, _ := io.ReadAll(io.LimitReader(resp.Body, maxLoggedResponse))
	g.log.Debug("push gateway replied",
		"status", resp.StatusCode,
		"body", string(reply),
	)
	return nil
}
