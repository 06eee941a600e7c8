package chat_test

import (
	"context"
	"sync"

	api "github.com/gigdesk/gigdesk/api/v1alpha1"
)

type watchCall struct {
	ChannelType string
	ChannelID   string
	Members     []string
}

type ProviderMock struct {
	ConnectUserFunc  func(ctx context.Context, user api.ChatUser, token string) error
	DisconnectFunc   func(ctx context.Context) error
	WatchChannelFunc func(ctx context.Context, channelType, channelID string, members []string) error
	CountUnreadFunc  func(ctx context.Context) (int, error)

	lock        sync.Mutex
	connects    []api.ChatUser
	disconnects int
	watches     []watchCall
}

func (m *ProviderMock) ConnectUser(ctx context.Context, user api.ChatUser, token string) error {
	m.lock.Lock()
	m.connects = append(m.connects, user)
	m.lock.Unlock()
	if m.ConnectUserFunc == nil {
		return nil
	}
	return m.ConnectUserFunc(ctx, user, token)
}

func (m *ProviderMock) Disconnect(ctx context.Context) error {
	m.lock.Lock()
	m.disconnects++
	m.lock.Unlock()
	if m.DisconnectFunc == nil {
		return nil
	}
	return m.DisconnectFunc(ctx)
}

func (m *ProviderMock) WatchChannel(ctx context.Context, channelType, channelID string, members []string) error {
	m.lock.Lock()
	m.watches = append(m.watches, watchCall{ChannelType: channelType, ChannelID: channelID, Members: members})
	m.lock.Unlock()
	if m.WatchChannelFunc == nil {
		return nil
	}
	return m.WatchChannelFunc(ctx, channelType, channelID, members)
}

func (m *ProviderMock) CountUnread(ctx context.Context) (int, error) {
	if m.CountUnreadFunc == nil {
		return 0, nil
	}
	return m.CountUnreadFunc(ctx)
}

type AuthenticatorMock struct {
	ChatAuthenticateFunc func(ctx context.Context) (*api.ChatAuth, error)

	calls int
}

func (m *AuthenticatorMock) ChatAuthenticate(ctx context.Context) (*api.ChatAuth, error) {
	m.calls++
	return m.ChatAuthenticateFunc(ctx)
}
