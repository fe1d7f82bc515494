package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChatType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    ChatType
		wantErr bool
	}{
		{input: "public", want: ChatTypePublic},
		{input: "Developer", want: ChatTypeDeveloper},
		{input: " repeat ", want: ChatTypeRepeat},
		{input: "private", want: ChatTypePrivate},
		{input: "dev", want: ChatTypeDeveloper},
		{input: "announcements", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseChatType(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChatType_IsBroadcast(t *testing.T) {
	t.Parallel()

	assert.True(t, ChatTypePublic.IsBroadcast())
	assert.True(t, ChatTypeDeveloper.IsBroadcast())
	assert.True(t, ChatTypeRepeat.IsBroadcast())
	assert.False(t, ChatTypePrivate.IsBroadcast())
	assert.False(t, ChatType(9).IsBroadcast())
}

func TestScopeSet(t *testing.T) {
	t.Parallel()

	s := NewScopeSet(ChatTypeDeveloper, ChatTypeRepeat)
	assert.True(t, s.Has(ChatTypeDeveloper))
	assert.True(t, s.Has(ChatTypeRepeat))
	assert.False(t, s.Has(ChatTypePublic))
	assert.Equal(t, []ChatType{ChatTypeDeveloper, ChatTypeRepeat}, s.Types())
	assert.Equal(t, "developer,repeat", s.String())

	s = s.Without(ChatTypeRepeat).With(ChatTypePublic)
	assert.Equal(t, []ChatType{ChatTypePublic, ChatTypeDeveloper}, s.Types())

	assert.True(t, ScopeSet(0).IsEmpty())
	assert.Equal(t, ScopeSet(0), NewScopeSet(ChatType(42)))
}

func TestBlacklist_Blocks(t *testing.T) {
	t.Parallel()

	devOnly := &Blacklist{ServerID: 1, EntityID: 2, Scopes: NewScopeSet(ChatTypeDeveloper)}
	assert.True(t, devOnly.Blocks(ChatTypeDeveloper))
	assert.False(t, devOnly.Blocks(ChatTypePublic))

	var missing *Blacklist
	assert.False(t, missing.Blocks(ChatTypePublic))

	assert.True(t, (&Blacklist{ServerID: GlobalServerID}).IsGlobal())
}

func TestInboundMessage_IsRelayable(t *testing.T) {
	t.Parallel()

	base := func() *InboundMessage {
		return &InboundMessage{ID: 1, GuildID: 10, ChannelID: 100, AuthorID: 5, Content: "hello", Kind: MessageKindDefault}
	}

	tests := []struct {
		name   string
		mutate func(m *InboundMessage)
		want   bool
	}{
		{name: "default message", mutate: func(m *InboundMessage) {}, want: true},
		{name: "reply", mutate: func(m *InboundMessage) { m.Kind = MessageKindReply }, want: true},
		{name: "system notice", mutate: func(m *InboundMessage) { m.Kind = MessageKindOther }, want: false},
		{name: "empty content", mutate: func(m *InboundMessage) { m.Content = "" }, want: false},
		{name: "bot author", mutate: func(m *InboundMessage) { m.AuthorIsBot = true }, want: false},
		{name: "direct message", mutate: func(m *InboundMessage) { m.GuildID = 0 }, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := base()
			tt.mutate(m)
			assert.Equal(t, tt.want, m.IsRelayable())
		})
	}
}
