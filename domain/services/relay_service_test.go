package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"sincroni/domain/entities"
	"sincroni/domain/events"
	"sincroni/domain/interfaces"
	"sincroni/domain/registry"
	"sincroni/domain/sanitizer"
	"sincroni/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	guildA int64 = 1001
	guildB int64 = 1002
	guildC int64 = 1003
	guildD int64 = 1004
	guildE int64 = 1005
	userU  int64 = 7001

	testWebhookURL = "https://discord.com/api/webhooks/555/hook-token"
)

type relayFixture struct {
	registry *registry.Registry
	platform *testhelpers.MockChatPlatform
	audit    *testhelpers.MockAuditSink
	events   *testhelpers.EventRecorder
	metrics  *testhelpers.MetricsRecorder
	service  *RelayService
}

func newRegistry(t *testing.T, snapshot *interfaces.RegistrySnapshot) *registry.Registry {
	t.Helper()
	store := testhelpers.NewMockRegistryStore()
	store.On("LoadSnapshot", mock.Anything).Return(snapshot, nil).Once()
	reg := registry.New(store, nil)
	require.NoError(t, reg.Hydrate(context.Background()))
	return reg
}

func newRelayFixture(t *testing.T, snapshot *interfaces.RegistrySnapshot, config RelayConfig) *relayFixture {
	t.Helper()
	f := &relayFixture{
		registry: newRegistry(t, snapshot),
		platform: new(testhelpers.MockChatPlatform),
		audit:    new(testhelpers.MockAuditSink),
		events:   testhelpers.NewEventRecorder(),
		metrics:  testhelpers.NewMetricsRecorder(),
	}
	f.service = NewRelayService(f.registry, sanitizer.NewDefault(), f.platform, f.audit, f.events, f.metrics, config)
	return f
}

func (f *relayFixture) channelExists(channelIDs ...int64) {
	for _, id := range channelIDs {
		f.platform.On("ResolveChannel", mock.Anything, id).Return(&entities.ChannelInfo{ID: id}, nil).Maybe()
	}
}

func (f *relayFixture) directPostsSucceed(channelIDs ...int64) {
	for _, id := range channelIDs {
		f.platform.On("SendChannelMessage", mock.Anything, id, mock.Anything).Return(nil).Once()
	}
}

func link(serverID, channelID int64, chatType entities.ChatType) *entities.GlobalChatLink {
	return &entities.GlobalChatLink{ServerID: serverID, ChannelID: channelID, ChatType: chatType}
}

func webhookLink(serverID, channelID int64, chatType entities.ChatType) *entities.GlobalChatLink {
	url := testWebhookURL
	return &entities.GlobalChatLink{ServerID: serverID, ChannelID: channelID, ChatType: chatType, WebhookURL: &url}
}

func block(serverID, entityID int64, kind entities.EntityKind, scopes ...entities.ChatType) *entities.Blacklist {
	return &entities.Blacklist{ServerID: serverID, EntityID: entityID, EntityKind: kind, Scopes: entities.NewScopeSet(scopes...)}
}

func inbound(guildID, channelID, authorID int64, content string) *entities.InboundMessage {
	return &entities.InboundMessage{
		ID:              9001,
		GuildID:         guildID,
		ChannelID:       channelID,
		AuthorID:        authorID,
		AuthorName:      "someone",
		AuthorAvatarURL: "https://cdn.example/avatar.png",
		GuildName:       "Guild",
		Content:         content,
		Kind:            entities.MessageKindDefault,
		CreatedAt:       time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func noFallback() RelayConfig {
	cfg := DefaultRelayConfig()
	cfg.DirectPostFallback = false
	return cfg
}

func TestRelay_SanitizedCopyAndUnredactedAudit(t *testing.T) {
	t.Parallel()

	f := newRelayFixture(t, &interfaces.RegistrySnapshot{
		GlobalChats: []*entities.GlobalChatLink{
			link(guildA, 100, entities.ChatTypePublic),
			link(guildB, 200, entities.ChatTypePublic),
		},
	}, DefaultRelayConfig())

	const raw = "check http://evil.example and discord.gg/abc123"
	msg := inbound(guildA, 100, userU, raw)

	f.channelExists(200)
	f.platform.On("SendChannelMessage", mock.Anything, int64(200), mock.MatchedBy(func(out *entities.OutboundMessage) bool {
		return out.Embed.Description == "check :lock: [link redacted] :lock: and :lock: [discord invite redacted] :lock:" &&
			out.Embed.Color == DefaultEmbedColor &&
			out.Embed.AuthorName == "someone"
	})).Return(nil).Once()
	f.audit.On("SendAudit", mock.Anything, mock.MatchedBy(func(r *entities.AuditRecord) bool {
		return !r.Blocked && r.GuildID == guildA && r.ChannelID == 100 && r.AuthorID == userU &&
			r.MessageID == msg.ID && r.Content == raw
	})).Return(nil).Once()

	result := f.service.HandleMessage(context.Background(), msg)

	require.NotNil(t, result)
	f.platform.AssertExpectations(t)
	f.audit.AssertExpectations(t)
	assert.False(t, result.Blocked)
	assert.True(t, result.AuditSent)
	assert.Equal(t, []int64{200}, result.Delivered)
	assert.NotEmpty(t, result.RelayID)
	assert.Equal(t, 1, f.metrics.Relayed["public"])
	assert.Equal(t, 1, f.metrics.DeliveryCount("direct", DeliveryResultOK))

	relayed := f.events.OfType(events.EventTypeMessageRelayed)
	require.Len(t, relayed, 1)
	assert.Equal(t, 1, relayed[0].(events.MessageRelayedEvent).Delivered)
}

func TestRelay_DestinationGuildBlocksOriginGuild(t *testing.T) {
	t.Parallel()

	f := newRelayFixture(t, &interfaces.RegistrySnapshot{
		GlobalChats: []*entities.GlobalChatLink{
			link(guildA, 100, entities.ChatTypePublic),
			link(guildB, 200, entities.ChatTypePublic),
		},
		Blacklists: []*entities.Blacklist{
			block(guildB, guildA, entities.EntityKindServer, entities.ChatTypePublic),
		},
	}, DefaultRelayConfig())
	f.audit.On("SendAudit", mock.Anything, mock.MatchedBy(func(r *entities.AuditRecord) bool { return !r.Blocked })).Return(nil).Once()

	result := f.service.HandleMessage(context.Background(), inbound(guildA, 100, userU, "check http://evil.example and discord.gg/abc123"))

	require.NotNil(t, result)
	f.audit.AssertExpectations(t)
	f.platform.AssertNotCalled(t, "SendChannelMessage", mock.Anything, mock.Anything, mock.Anything)
	f.platform.AssertNotCalled(t, "ExecuteWebhook", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.False(t, result.Blocked, "only the guild-to-guild relay is blocked, not the author")
	assert.Empty(t, result.Delivered)
	assert.Equal(t, []int64{200}, result.Skipped)
}

func TestRelay_DestinationMembership(t *testing.T) {
	t.Parallel()

	f := newRelayFixture(t, &interfaces.RegistrySnapshot{
		GlobalChats: []*entities.GlobalChatLink{
			link(guildA, 100, entities.ChatTypePublic),
			link(guildB, 200, entities.ChatTypePublic),
			link(guildC, 300, entities.ChatTypePublic),
			link(guildD, 400, entities.ChatTypePublic),
			link(guildE, 500, entities.ChatTypePublic),
			link(guildA, 101, entities.ChatTypeDeveloper),
			link(guildB, 201, entities.ChatTypeDeveloper),
			link(guildC, 302, entities.ChatTypeRepeat),
		},
		Blacklists: []*entities.Blacklist{
			// D blocks the author, so D's channel is skipped at delivery time
			block(guildD, userU, entities.EntityKindUser, entities.ChatTypePublic),
			// A blocks E, so E is never resolved as a destination
			block(guildA, guildE, entities.EntityKindServer, entities.ChatTypePublic),
			// C blocks A for developer only, public still flows
			block(guildC, guildA, entities.EntityKindServer, entities.ChatTypeDeveloper),
		},
	}, DefaultRelayConfig())

	origin := f.registry.GlobalChat(100)
	resolved := NewDestinationResolver(f.registry).Resolve(origin)
	var resolvedIDs []int64
	for _, l := range resolved {
		resolvedIDs = append(resolvedIDs, l.ChannelID)
	}
	assert.Equal(t, []int64{200, 300, 400}, resolvedIDs)

	f.channelExists(200, 300, 400)
	f.directPostsSucceed(200, 300)
	f.audit.On("SendAudit", mock.Anything, mock.Anything).Return(nil).Once()

	result := f.service.Relay(context.Background(), inbound(guildA, 100, userU, "hello"), origin)

	f.platform.AssertExpectations(t)
	assert.Equal(t, []int64{200, 300}, result.Delivered)
	assert.Equal(t, []int64{400}, result.Skipped)
	assert.Empty(t, result.Failed)
}

func TestRelay_BlacklistScopeIsolation(t *testing.T) {
	t.Parallel()

	snapshot := &interfaces.RegistrySnapshot{
		GlobalChats: []*entities.GlobalChatLink{
			link(guildA, 100, entities.ChatTypePublic),
			link(guildB, 200, entities.ChatTypePublic),
			link(guildA, 101, entities.ChatTypeDeveloper),
			link(guildB, 201, entities.ChatTypeDeveloper),
		},
		Blacklists: []*entities.Blacklist{
			block(guildB, guildA, entities.EntityKindServer, entities.ChatTypeDeveloper),
		},
	}

	t.Run("public relay still reaches the guild", func(t *testing.T) {
		t.Parallel()
		f := newRelayFixture(t, snapshot, DefaultRelayConfig())
		f.channelExists(200)
		f.directPostsSucceed(200)
		f.audit.On("SendAudit", mock.Anything, mock.Anything).Return(nil)

		result := f.service.HandleMessage(context.Background(), inbound(guildA, 100, userU, "hi"))

		assert.Equal(t, []int64{200}, result.Delivered)
	})

	t.Run("developer relay is skipped", func(t *testing.T) {
		t.Parallel()
		f := newRelayFixture(t, snapshot, DefaultRelayConfig())
		f.audit.On("SendAudit", mock.Anything, mock.Anything).Return(nil)

		result := f.service.HandleMessage(context.Background(), inbound(guildA, 101, userU, "hi"))

		assert.Empty(t, result.Delivered)
		assert.Equal(t, []int64{201}, result.Skipped)
	})
}

func TestRelay_OriginGating(t *testing.T) {
	t.Parallel()

	links := []*entities.GlobalChatLink{
		link(guildA, 100, entities.ChatTypePublic),
		link(guildB, 200, entities.ChatTypePublic),
		link(guildC, 300, entities.ChatTypePublic),
	}

	tests := []struct {
		name      string
		blacklist *entities.Blacklist
		guildID   int64
		channelID int64
		wantRule  string
	}{
		{
			name:      "global user block in origin guild",
			blacklist: block(entities.GlobalServerID, userU, entities.EntityKindUser, entities.ChatTypePublic),
			guildID:   guildA,
			channelID: 100,
			wantRule:  BlockRuleGlobalUser,
		},
		{
			name:      "global user block follows the user to another guild",
			blacklist: block(entities.GlobalServerID, userU, entities.EntityKindUser, entities.ChatTypePublic),
			guildID:   guildB,
			channelID: 200,
			wantRule:  BlockRuleGlobalUser,
		},
		{
			name:      "global server block",
			blacklist: block(entities.GlobalServerID, guildA, entities.EntityKindServer, entities.ChatTypePublic),
			guildID:   guildA,
			channelID: 100,
			wantRule:  BlockRuleGlobalServer,
		},
		{
			name:      "local user block in origin guild",
			blacklist: block(guildA, userU, entities.EntityKindUser, entities.ChatTypePublic),
			guildID:   guildA,
			channelID: 100,
			wantRule:  BlockRuleLocalUser,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newRelayFixture(t, &interfaces.RegistrySnapshot{
				GlobalChats: links,
				Blacklists:  []*entities.Blacklist{tt.blacklist},
			}, DefaultRelayConfig())
			f.audit.On("SendAudit", mock.Anything, mock.MatchedBy(func(r *entities.AuditRecord) bool {
				return r.Blocked && r.AuthorID == userU && r.GuildID == tt.guildID
			})).Return(nil).Once()

			result := f.service.HandleMessage(context.Background(), inbound(tt.guildID, tt.channelID, userU, "hello"))

			require.NotNil(t, result)
			f.audit.AssertExpectations(t)
			f.platform.AssertNotCalled(t, "ResolveChannel", mock.Anything, mock.Anything)
			f.platform.AssertNotCalled(t, "SendChannelMessage", mock.Anything, mock.Anything, mock.Anything)
			assert.True(t, result.Blocked)
			assert.Equal(t, tt.wantRule, result.BlockRule)
			assert.Empty(t, result.Delivered)
			assert.Equal(t, 1, f.metrics.Blocked["public"])
			assert.Len(t, f.events.OfType(events.EventTypeMessageBlocked), 1)
		})
	}
}

func TestRelay_GlobalBlockForOtherScopeDoesNotGate(t *testing.T) {
	t.Parallel()

	f := newRelayFixture(t, &interfaces.RegistrySnapshot{
		GlobalChats: []*entities.GlobalChatLink{
			link(guildA, 100, entities.ChatTypePublic),
			link(guildB, 200, entities.ChatTypePublic),
		},
		Blacklists: []*entities.Blacklist{
			block(entities.GlobalServerID, userU, entities.EntityKindUser, entities.ChatTypeRepeat),
		},
	}, DefaultRelayConfig())
	f.channelExists(200)
	f.directPostsSucceed(200)
	f.audit.On("SendAudit", mock.Anything, mock.Anything).Return(nil)

	result := f.service.HandleMessage(context.Background(), inbound(guildA, 100, userU, "hello"))

	assert.False(t, result.Blocked)
	assert.Equal(t, []int64{200}, result.Delivered)
}

func TestRelay_DeliveryIsolation(t *testing.T) {
	t.Parallel()

	f := newRelayFixture(t, &interfaces.RegistrySnapshot{
		GlobalChats: []*entities.GlobalChatLink{
			link(guildA, 100, entities.ChatTypePublic),
			webhookLink(guildB, 200, entities.ChatTypePublic),
			link(guildC, 300, entities.ChatTypePublic),
			link(guildD, 400, entities.ChatTypePublic),
		},
	}, noFallback())

	f.channelExists(200, 300, 400)
	f.platform.On("ExecuteWebhook", mock.Anything, entities.WebhookHandle{ID: "555", Token: "hook-token"}, int64(0), mock.Anything).
		Return(errors.New("unknown webhook")).Once()
	f.directPostsSucceed(300, 400)
	f.audit.On("SendAudit", mock.Anything, mock.Anything).Return(nil).Once()

	result := f.service.HandleMessage(context.Background(), inbound(guildA, 100, userU, "hello"))

	f.platform.AssertExpectations(t)
	f.audit.AssertExpectations(t)
	assert.True(t, result.AuditSent)
	assert.Equal(t, []int64{300, 400}, result.Delivered)
	assert.Equal(t, []int64{200}, result.Failed)
	f.platform.AssertNotCalled(t, "SendChannelMessage", mock.Anything, int64(200), mock.Anything)
	assert.Equal(t, 1, f.metrics.DeliveryCount("webhook", DeliveryResultFailed))
	assert.Equal(t, 2, f.metrics.DeliveryCount("direct", DeliveryResultOK))
}

func TestRelay_WebhookFailureFallsBackToDirectPost(t *testing.T) {
	t.Parallel()

	f := newRelayFixture(t, &interfaces.RegistrySnapshot{
		GlobalChats: []*entities.GlobalChatLink{
			link(guildA, 100, entities.ChatTypePublic),
			webhookLink(guildB, 200, entities.ChatTypePublic),
		},
	}, DefaultRelayConfig())

	f.channelExists(200)
	f.platform.On("ExecuteWebhook", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(fmt.Errorf("%w: HTTP 404 Not Found", entities.ErrWebhookGone)).Once()
	f.directPostsSucceed(200)
	f.audit.On("SendAudit", mock.Anything, mock.Anything).Return(nil)

	result := f.service.HandleMessage(context.Background(), inbound(guildA, 100, userU, "hello"))

	f.platform.AssertExpectations(t)
	assert.Equal(t, []int64{200}, result.Delivered)
	assert.Empty(t, result.Failed)
}

func TestRelay_AmbiguousWebhookFailureIsNotRetried(t *testing.T) {
	t.Parallel()

	f := newRelayFixture(t, &interfaces.RegistrySnapshot{
		GlobalChats: []*entities.GlobalChatLink{
			link(guildA, 100, entities.ChatTypePublic),
			webhookLink(guildB, 200, entities.ChatTypePublic),
		},
	}, DefaultRelayConfig())

	// the post may have been accepted before the timeout, a direct post would duplicate it
	f.channelExists(200)
	f.platform.On("ExecuteWebhook", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(context.DeadlineExceeded).Once()
	f.audit.On("SendAudit", mock.Anything, mock.Anything).Return(nil)

	result := f.service.HandleMessage(context.Background(), inbound(guildA, 100, userU, "hello"))

	f.platform.AssertExpectations(t)
	f.platform.AssertNotCalled(t, "SendChannelMessage", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, result.Delivered)
	assert.Equal(t, []int64{200}, result.Failed)
}

func liveContext(ctx context.Context) bool {
	return ctx.Err() == nil
}

func TestRelay_SlowDestinationDoesNotStarveOthers(t *testing.T) {
	t.Parallel()

	cfg := DefaultRelayConfig()
	cfg.MaxConcurrentDeliveries = 1
	cfg.DeliveryTimeout = 50 * time.Millisecond

	f := newRelayFixture(t, &interfaces.RegistrySnapshot{
		GlobalChats: []*entities.GlobalChatLink{
			link(guildA, 100, entities.ChatTypePublic),
			link(guildB, 200, entities.ChatTypePublic),
			link(guildC, 300, entities.ChatTypePublic),
			link(guildD, 400, entities.ChatTypePublic),
		},
	}, cfg)

	f.channelExists(200, 300, 400)
	f.platform.On("SendChannelMessage", mock.Anything, int64(200), mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(context.DeadlineExceeded).Once()
	for _, id := range []int64{300, 400} {
		f.platform.On("SendChannelMessage", mock.MatchedBy(liveContext), id, mock.Anything).Return(nil).Once()
	}
	f.audit.On("SendAudit", mock.MatchedBy(liveContext), mock.Anything).Return(nil).Once()

	// the caller gave up before the relay started
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := f.service.HandleMessage(ctx, inbound(guildA, 100, userU, "hello"))

	f.platform.AssertExpectations(t)
	f.audit.AssertExpectations(t)
	assert.True(t, result.AuditSent)
	assert.Equal(t, []int64{300, 400}, result.Delivered)
	assert.Equal(t, []int64{200}, result.Failed)
}

func TestRelay_WebhookIdentityAndThreadTarget(t *testing.T) {
	t.Parallel()

	f := newRelayFixture(t, &interfaces.RegistrySnapshot{
		GlobalChats: []*entities.GlobalChatLink{
			link(guildA, 100, entities.ChatTypePublic),
			webhookLink(guildB, 200, entities.ChatTypePublic),
		},
	}, DefaultRelayConfig())

	f.platform.On("ResolveChannel", mock.Anything, int64(200)).
		Return(&entities.ChannelInfo{ID: 200, GuildID: guildB, ParentID: 199, IsThread: true}, nil).Once()
	f.platform.On("ExecuteWebhook", mock.Anything, entities.WebhookHandle{ID: "555", Token: "hook-token"}, int64(200),
		mock.MatchedBy(func(out *entities.OutboundMessage) bool {
			return out.Username == "join :lock: [link redacted] :lock:" &&
				out.AvatarURL == "https://cdn.example/avatar.png" &&
				out.Embed.FooterIconURL == DefaultGuildIconURL &&
				out.Embed.AuthorName == ""
		})).Return(nil).Once()
	f.audit.On("SendAudit", mock.Anything, mock.MatchedBy(func(r *entities.AuditRecord) bool {
		return r.AuthorName == "join https://spam.example"
	})).Return(nil).Once()

	msg := inbound(guildA, 100, userU, "hello")
	msg.AuthorName = "join https://spam.example"
	result := f.service.HandleMessage(context.Background(), msg)

	f.platform.AssertExpectations(t)
	f.audit.AssertExpectations(t)
	assert.Equal(t, []int64{200}, result.Delivered)
}

func TestRelay_MissingOrUnresolvableChannel(t *testing.T) {
	t.Parallel()

	f := newRelayFixture(t, &interfaces.RegistrySnapshot{
		GlobalChats: []*entities.GlobalChatLink{
			link(guildA, 100, entities.ChatTypePublic),
			link(guildB, 200, entities.ChatTypePublic),
			link(guildC, 300, entities.ChatTypePublic),
			link(guildD, 400, entities.ChatTypePublic),
		},
	}, DefaultRelayConfig())

	f.platform.On("ResolveChannel", mock.Anything, int64(200)).Return(nil, nil).Once()
	f.platform.On("ResolveChannel", mock.Anything, int64(300)).Return(nil, errors.New("rate limited")).Once()
	f.channelExists(400)
	f.directPostsSucceed(400)
	f.audit.On("SendAudit", mock.Anything, mock.Anything).Return(nil)

	result := f.service.HandleMessage(context.Background(), inbound(guildA, 100, userU, "hello"))

	f.platform.AssertExpectations(t)
	assert.Equal(t, []int64{400}, result.Delivered)
	assert.Equal(t, []int64{200}, result.Skipped)
	assert.Equal(t, []int64{300}, result.Failed)
}

func TestRelay_ColorOverridePerDestination(t *testing.T) {
	t.Parallel()

	f := newRelayFixture(t, &interfaces.RegistrySnapshot{
		GlobalChats: []*entities.GlobalChatLink{
			link(guildA, 100, entities.ChatTypePublic),
			link(guildB, 200, entities.ChatTypePublic),
			link(guildC, 300, entities.ChatTypePublic),
		},
		EmbedColors: []*entities.EmbedColorOverride{
			{ServerID: guildB, ChatType: entities.ChatTypePublic, ColorValue: 0x123456},
			{ServerID: guildC, ChatType: entities.ChatTypeDeveloper, ColorValue: 0x654321},
		},
	}, DefaultRelayConfig())

	f.channelExists(200, 300)
	f.platform.On("SendChannelMessage", mock.Anything, int64(200), mock.MatchedBy(func(out *entities.OutboundMessage) bool {
		return out.Embed.Color == 0x123456
	})).Return(nil).Once()
	f.platform.On("SendChannelMessage", mock.Anything, int64(300), mock.MatchedBy(func(out *entities.OutboundMessage) bool {
		return out.Embed.Color == DefaultEmbedColor
	})).Return(nil).Once()
	f.audit.On("SendAudit", mock.Anything, mock.Anything).Return(nil)

	result := f.service.HandleMessage(context.Background(), inbound(guildA, 100, userU, "hello"))

	f.platform.AssertExpectations(t)
	assert.Equal(t, []int64{200, 300}, result.Delivered)
}

func TestRelay_AuditFailureDoesNotBlockFanOut(t *testing.T) {
	t.Parallel()

	f := newRelayFixture(t, &interfaces.RegistrySnapshot{
		GlobalChats: []*entities.GlobalChatLink{
			link(guildA, 100, entities.ChatTypePublic),
			link(guildB, 200, entities.ChatTypePublic),
		},
	}, DefaultRelayConfig())
	f.channelExists(200)
	f.directPostsSucceed(200)
	f.audit.On("SendAudit", mock.Anything, mock.Anything).Return(errors.New("webhook deleted")).Once()

	result := f.service.HandleMessage(context.Background(), inbound(guildA, 100, userU, "hello"))

	assert.True(t, result.AuditFailed)
	assert.Equal(t, []int64{200}, result.Delivered)
	assert.Equal(t, 1, f.metrics.AuditFailures)
}

func TestRelay_WithoutAuditSink(t *testing.T) {
	t.Parallel()

	reg := newRegistry(t, &interfaces.RegistrySnapshot{
		GlobalChats: []*entities.GlobalChatLink{
			link(guildA, 100, entities.ChatTypePublic),
			link(guildB, 200, entities.ChatTypePublic),
		},
	})
	platform := new(testhelpers.MockChatPlatform)
	platform.On("ResolveChannel", mock.Anything, int64(200)).Return(&entities.ChannelInfo{ID: 200}, nil)
	platform.On("SendChannelMessage", mock.Anything, int64(200), mock.Anything).Return(nil).Once()
	service := NewRelayService(reg, sanitizer.NewDefault(), platform, nil, nil, nil, DefaultRelayConfig())

	result := service.HandleMessage(context.Background(), inbound(guildA, 100, userU, "hello"))

	assert.False(t, result.AuditSent)
	assert.False(t, result.AuditFailed)
	assert.Equal(t, []int64{200}, result.Delivered)
}

func TestHandleMessage_Eligibility(t *testing.T) {
	t.Parallel()

	snapshot := &interfaces.RegistrySnapshot{
		GlobalChats: []*entities.GlobalChatLink{
			link(guildA, 100, entities.ChatTypePublic),
			link(guildA, 102, entities.ChatTypePrivate),
		},
	}

	tests := []struct {
		name   string
		modify func(m *entities.InboundMessage)
		want   bool
	}{
		{name: "unlinked channel", modify: func(m *entities.InboundMessage) { m.ChannelID = 999 }},
		{name: "bot author", modify: func(m *entities.InboundMessage) { m.AuthorIsBot = true }},
		{name: "empty content", modify: func(m *entities.InboundMessage) { m.Content = "" }},
		{name: "direct message", modify: func(m *entities.InboundMessage) { m.GuildID = 0 }},
		{name: "system message", modify: func(m *entities.InboundMessage) { m.Kind = entities.MessageKindOther }},
		{name: "reply", modify: func(m *entities.InboundMessage) { m.Kind = entities.MessageKindReply }, want: true},
		{name: "private link relays nowhere", modify: func(m *entities.InboundMessage) { m.ChannelID = 102 }, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newRelayFixture(t, snapshot, DefaultRelayConfig())
			f.audit.On("SendAudit", mock.Anything, mock.Anything).Return(nil).Maybe()

			msg := inbound(guildA, 100, userU, "hello")
			tt.modify(msg)
			result := f.service.HandleMessage(context.Background(), msg)

			assert.Equal(t, tt.want, result != nil)
			if result != nil {
				assert.Empty(t, result.Delivered)
			}
			f.platform.AssertNotCalled(t, "SendChannelMessage", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}
