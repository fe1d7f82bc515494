package bot

import (
	"sync"

	"github.com/bwmarrin/discordgo"
)

type webhookCall struct {
	id       string
	token    string
	threadID string
	params   *discordgo.WebhookParams
}

type sendCall struct {
	channelID string
	data      *discordgo.MessageSend
}

// fakeAPI records outbound calls and serves channels from a map
type fakeAPI struct {
	mu         sync.Mutex
	channels   map[string]*discordgo.Channel
	channelErr error
	sendErr    error
	webhookErr error
	sends      []sendCall
	webhooks   []webhookCall
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{channels: make(map[string]*discordgo.Channel)}
}

func (f *fakeAPI) Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
	if f.channelErr != nil {
		return nil, f.channelErr
	}
	if ch, ok := f.channels[channelID]; ok {
		return ch, nil
	}
	return nil, &discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownChannel}}
}

func (f *fakeAPI) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sends = append(f.sends, sendCall{channelID: channelID, data: data})
	return &discordgo.Message{}, nil
}

func (f *fakeAPI) WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	return f.WebhookThreadExecute(webhookID, token, wait, "", data, options...)
}

func (f *fakeAPI) WebhookThreadExecute(webhookID, token string, wait bool, threadID string, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.webhookErr != nil {
		return nil, f.webhookErr
	}
	f.webhooks = append(f.webhooks, webhookCall{id: webhookID, token: token, threadID: threadID, params: data})
	return nil, nil
}
