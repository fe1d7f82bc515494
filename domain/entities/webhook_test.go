package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWebhookURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		url       string
		wantID    string
		wantToken string
		wantErr   bool
	}{
		{name: "standard", url: "https://discord.com/api/webhooks/123456/abcDEF-_", wantID: "123456", wantToken: "abcDEF-_"},
		{name: "versioned", url: "https://discord.com/api/v10/webhooks/42/tok", wantID: "42", wantToken: "tok"},
		{name: "legacy host", url: "https://discordapp.com/api/webhooks/7/t", wantID: "7", wantToken: "t"},
		{name: "plain http", url: "http://discord.com/api/webhooks/7/t", wantErr: true},
		{name: "foreign host", url: "https://evil.example/api/webhooks/7/t", wantErr: true},
		{name: "missing token", url: "https://discord.com/api/webhooks/7", wantErr: true},
		{name: "non numeric id", url: "https://discord.com/api/webhooks/abc/t", wantErr: true},
		{name: "garbage", url: "::not a url", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			handle, err := ParseWebhookURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, handle)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, handle.ID)
			assert.Equal(t, tt.wantToken, handle.Token)
		})
	}
}

func TestNewGlobalChatLink_DeliveryMethod(t *testing.T) {
	t.Parallel()

	t.Run("no webhook posts directly", func(t *testing.T) {
		t.Parallel()
		link := NewGlobalChatLink(1, 100, ChatTypePublic, nil)
		assert.Equal(t, DeliveryDirectPost, link.Delivery().Kind)
		assert.False(t, link.HasWebhook())
	})

	t.Run("valid webhook", func(t *testing.T) {
		t.Parallel()
		url := "https://discord.com/api/webhooks/99/secret"
		link := NewGlobalChatLink(1, 100, ChatTypePublic, &url)
		require.True(t, link.HasWebhook())
		assert.Equal(t, "99", link.Delivery().Webhook.ID)
	})

	t.Run("invalid webhook falls back to direct post", func(t *testing.T) {
		t.Parallel()
		url := "https://example.com/hook"
		link := &GlobalChatLink{ServerID: 1, ChannelID: 100, WebhookURL: &url}
		assert.True(t, link.ResolveDelivery())
		assert.Equal(t, DeliveryDirectPost, link.Delivery().Kind)
	})

	t.Run("clone does not share webhook handle", func(t *testing.T) {
		t.Parallel()
		url := "https://discord.com/api/webhooks/99/secret"
		link := NewGlobalChatLink(1, 100, ChatTypePublic, &url)
		clone := link.Clone()
		clone.Delivery().Webhook.Token = "changed"
		assert.Equal(t, "secret", link.Delivery().Webhook.Token)
	})
}
