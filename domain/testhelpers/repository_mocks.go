package testhelpers

import (
	"context"

	"sincroni/domain/entities"
	"sincroni/domain/interfaces"

	"github.com/stretchr/testify/mock"
)

// MockGlobalChatLinkRepository is a mock implementation of GlobalChatLinkRepository
type MockGlobalChatLinkRepository struct {
	mock.Mock
}

func (m *MockGlobalChatLinkRepository) GetAll(ctx context.Context) ([]*entities.GlobalChatLink, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.GlobalChatLink), args.Error(1)
}

func (m *MockGlobalChatLinkRepository) GetByChannelID(ctx context.Context, channelID int64) (*entities.GlobalChatLink, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GlobalChatLink), args.Error(1)
}

func (m *MockGlobalChatLinkRepository) Create(ctx context.Context, link *entities.GlobalChatLink) (*entities.GlobalChatLink, error) {
	args := m.Called(ctx, link)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GlobalChatLink), args.Error(1)
}

func (m *MockGlobalChatLinkRepository) Delete(ctx context.Context, channelID int64) error {
	args := m.Called(ctx, channelID)
	return args.Error(0)
}

// MockBlacklistRepository is a mock implementation of BlacklistRepository
type MockBlacklistRepository struct {
	mock.Mock
}

func (m *MockBlacklistRepository) GetAll(ctx context.Context) ([]*entities.Blacklist, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Blacklist), args.Error(1)
}

func (m *MockBlacklistRepository) GetByKey(ctx context.Context, serverID, entityID int64) (*entities.Blacklist, error) {
	args := m.Called(ctx, serverID, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Blacklist), args.Error(1)
}

func (m *MockBlacklistRepository) Create(ctx context.Context, blacklist *entities.Blacklist) (*entities.Blacklist, error) {
	args := m.Called(ctx, blacklist)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Blacklist), args.Error(1)
}

func (m *MockBlacklistRepository) Delete(ctx context.Context, serverID, entityID int64) error {
	args := m.Called(ctx, serverID, entityID)
	return args.Error(0)
}

// MockLinkedChannelRepository is a mock implementation of LinkedChannelRepository
type MockLinkedChannelRepository struct {
	mock.Mock
}

func (m *MockLinkedChannelRepository) GetAll(ctx context.Context) ([]*entities.LinkedChannelPair, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.LinkedChannelPair), args.Error(1)
}

func (m *MockLinkedChannelRepository) GetByOriginChannelID(ctx context.Context, originChannelID int64) (*entities.LinkedChannelPair, error) {
	args := m.Called(ctx, originChannelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LinkedChannelPair), args.Error(1)
}

func (m *MockLinkedChannelRepository) Create(ctx context.Context, originChannelID, destinationChannelID int64) (*entities.LinkedChannelPair, error) {
	args := m.Called(ctx, originChannelID, destinationChannelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LinkedChannelPair), args.Error(1)
}

func (m *MockLinkedChannelRepository) Delete(ctx context.Context, originChannelID int64) error {
	args := m.Called(ctx, originChannelID)
	return args.Error(0)
}

// MockEmbedColorRepository is a mock implementation of EmbedColorRepository
type MockEmbedColorRepository struct {
	mock.Mock
}

func (m *MockEmbedColorRepository) GetAll(ctx context.Context) ([]*entities.EmbedColorOverride, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.EmbedColorOverride), args.Error(1)
}

func (m *MockEmbedColorRepository) GetByKey(ctx context.Context, serverID int64, chatType entities.ChatType) (*entities.EmbedColorOverride, error) {
	args := m.Called(ctx, serverID, chatType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.EmbedColorOverride), args.Error(1)
}

func (m *MockEmbedColorRepository) Upsert(ctx context.Context, override *entities.EmbedColorOverride) (*entities.EmbedColorOverride, error) {
	args := m.Called(ctx, override)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.EmbedColorOverride), args.Error(1)
}

func (m *MockEmbedColorRepository) Delete(ctx context.Context, serverID int64, chatType entities.ChatType) error {
	args := m.Called(ctx, serverID, chatType)
	return args.Error(0)
}

// MockRegistryStore is a mock implementation of RegistryStore that hands out
// its repository mocks
type MockRegistryStore struct {
	mock.Mock
	GlobalChatRepo    *MockGlobalChatLinkRepository
	BlacklistRepo     *MockBlacklistRepository
	LinkedChannelRepo *MockLinkedChannelRepository
	EmbedColorRepo    *MockEmbedColorRepository
}

// NewMockRegistryStore creates a store mock with fresh repository mocks
func NewMockRegistryStore() *MockRegistryStore {
	return &MockRegistryStore{
		GlobalChatRepo:    new(MockGlobalChatLinkRepository),
		BlacklistRepo:     new(MockBlacklistRepository),
		LinkedChannelRepo: new(MockLinkedChannelRepository),
		EmbedColorRepo:    new(MockEmbedColorRepository),
	}
}

func (m *MockRegistryStore) GlobalChats() interfaces.GlobalChatLinkRepository {
	return m.GlobalChatRepo
}

func (m *MockRegistryStore) Blacklists() interfaces.BlacklistRepository {
	return m.BlacklistRepo
}

func (m *MockRegistryStore) LinkedChannels() interfaces.LinkedChannelRepository {
	return m.LinkedChannelRepo
}

func (m *MockRegistryStore) EmbedColors() interfaces.EmbedColorRepository {
	return m.EmbedColorRepo
}

func (m *MockRegistryStore) LoadSnapshot(ctx context.Context) (*interfaces.RegistrySnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.RegistrySnapshot), args.Error(1)
}

// AssertAllExpectations asserts the expectations of the store and every repository mock
func (m *MockRegistryStore) AssertAllExpectations(t mock.TestingT) {
	m.AssertExpectations(t)
	m.GlobalChatRepo.AssertExpectations(t)
	m.BlacklistRepo.AssertExpectations(t)
	m.LinkedChannelRepo.AssertExpectations(t)
	m.EmbedColorRepo.AssertExpectations(t)
}
