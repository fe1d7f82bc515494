package entities

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// WebhookHandle is a validated reference to an outbound webhook
type WebhookHandle struct {
	ID    string
	Token string
}

var webhookHosts = map[string]bool{
	"discord.com":        true,
	"discordapp.com":     true,
	"canary.discord.com": true,
	"ptb.discord.com":    true,
}

// ParseWebhookURL validates a webhook URL of the form
// https://discord.com/api[/vN]/webhooks/{id}/{token}
func ParseWebhookURL(raw string) (*WebhookHandle, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid webhook url: %w", err)
	}
	if u.Scheme != "https" {
		return nil, fmt.Errorf("webhook url must use https, got %q", u.Scheme)
	}
	if !webhookHosts[strings.ToLower(u.Host)] {
		return nil, fmt.Errorf("webhook url host %q is not a known webhook host", u.Host)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	// api / [vN] / webhooks / id / token
	if len(parts) > 0 && parts[0] == "api" {
		parts = parts[1:]
	}
	if len(parts) > 0 && strings.HasPrefix(parts[0], "v") {
		if _, err := strconv.Atoi(parts[0][1:]); err == nil {
			parts = parts[1:]
		}
	}
	if len(parts) != 3 || parts[0] != "webhooks" {
		return nil, fmt.Errorf("webhook url path %q is not /api/webhooks/{id}/{token}", u.Path)
	}
	if _, err := strconv.ParseUint(parts[1], 10, 64); err != nil {
		return nil, fmt.Errorf("webhook id %q is not numeric", parts[1])
	}
	if parts[2] == "" {
		return nil, fmt.Errorf("webhook token is empty")
	}

	return &WebhookHandle{ID: parts[1], Token: parts[2]}, nil
}
