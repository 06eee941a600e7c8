package chat

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	api "github.com/gigdesk/gigdesk/api/v1alpha1"
	"go.uber.org/zap"
)

// ChannelType is the provider channel type used for one-to-one conversations.
const ChannelType = "messaging"

var (
	ErrNotConnected     = errors.New("chat session is not connected")
	ErrAlreadyConnected = errors.New("chat session is connected as another user")
	ErrConnecting       = errors.New("chat session is already connecting")
	ErrNothingToRetry   = errors.New("chat session has no failed operation")
	ErrEmptyTarget      = errors.New("target user id is required")
)

type State string

const (
	Disconnected State = "disconnected"
	Connecting   State = "connecting"
	Connected    State = "connected"
	Error        State = "error"
)

type Status struct {
	State State
	User  api.ChatUser
	// Reason is set when State is Error.
	Reason error
}

type Authenticator interface {
	ChatAuthenticate(ctx context.Context) (*api.ChatAuth, error)
}

// Provider is the chat backend a session drives.
type Provider interface {
	ConnectUser(ctx context.Context, user api.ChatUser, token string) error
	Disconnect(ctx context.Context) error
	WatchChannel(ctx context.Context, channelType, channelID string, members []string) error
	CountUnread(ctx context.Context) (int, error)
}

// Session owns the single provider connection of the process. Callers go
// through Acquire and Release instead of touching the provider.
type Session struct {
	auth     Authenticator
	provider Provider

	l         sync.Mutex
	state     State
	user      api.ChatUser
	connected bool
	reason    error
	channels  map[string]string
	retry     func(ctx context.Context) error
}

func NewSession(auth Authenticator, provider Provider) *Session {
	return &Session{
		auth:     auth,
		provider: provider,
		state:    Disconnected,
		channels: map[string]string{},
	}
}

func (s *Session) Status() Status {
	s.l.Lock()
	defer s.l.Unlock()
	return Status{State: s.state, User: s.user, Reason: s.reason}
}

// Acquire authenticates against the API and connects the returned user. It is
// a no-op when the session is already connected.
func (s *Session) Acquire(ctx context.Context) (api.ChatUser, error) {
	s.l.Lock()
	if s.connected {
		user := s.user
		s.l.Unlock()
		return user, nil
	}
	if s.state == Connecting {
		s.l.Unlock()
		return api.ChatUser{}, ErrConnecting
	}
	s.state = Connecting
	s.reason = nil
	s.l.Unlock()

	auth, err := s.auth.ChatAuthenticate(ctx)
	if err != nil {
		return api.ChatUser{}, s.fail(fmt.Errorf("authenticating chat user: %w", err), func(ctx context.Context) error {
			_, err := s.Acquire(ctx)
			return err
		})
	}

	if err := s.connect(ctx, *auth); err != nil {
		return api.ChatUser{}, err
	}
	return auth.UserData, nil
}

// ConnectAs connects with credentials obtained elsewhere. Switching to a
// different user requires Release first.
func (s *Session) ConnectAs(ctx context.Context, auth api.ChatAuth) error {
	s.l.Lock()
	if s.connected {
		current := s.user.Id
		s.l.Unlock()
		if current == auth.UserData.Id {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrAlreadyConnected, current)
	}
	if s.state == Connecting {
		s.l.Unlock()
		return ErrConnecting
	}
	s.state = Connecting
	s.reason = nil
	s.l.Unlock()

	return s.connect(ctx, auth)
}

func (s *Session) connect(ctx context.Context, auth api.ChatAuth) error {
	if err := s.provider.ConnectUser(ctx, auth.UserData, auth.Token); err != nil {
		return s.fail(fmt.Errorf("connecting chat user %s: %w", auth.UserData.Id, err), func(ctx context.Context) error {
			return s.ConnectAs(ctx, auth)
		})
	}

	s.l.Lock()
	s.state = Connected
	s.user = auth.UserData
	s.connected = true
	s.retry = nil
	s.l.Unlock()

	zap.S().Named("chat").Infow("chat user connected", "user_id", auth.UserData.Id)
	return nil
}

// fail moves the session to Error and remembers how to retry. A session that
// still holds a connection keeps it.
func (s *Session) fail(err error, retry func(ctx context.Context) error) error {
	s.l.Lock()
	defer s.l.Unlock()
	s.state = Error
	s.reason = err
	s.retry = retry
	zap.S().Named("chat").Errorw("chat operation failed", "error", err)
	return err
}

// Release tears down the connection. Releasing a disconnected session is a no-op.
func (s *Session) Release(ctx context.Context) error {
	s.l.Lock()
	if !s.connected {
		s.state = Disconnected
		s.reason = nil
		s.retry = nil
		s.l.Unlock()
		return nil
	}
	user := s.user
	s.l.Unlock()

	err := s.provider.Disconnect(ctx)

	s.l.Lock()
	s.state = Disconnected
	s.user = api.ChatUser{}
	s.connected = false
	s.reason = nil
	s.retry = nil
	s.channels = map[string]string{}
	s.l.Unlock()

	if err != nil {
		zap.S().Named("chat").Warnw("chat disconnect failed", "user_id", user.Id, "error", err)
		return fmt.Errorf("disconnecting chat user %s: %w", user.Id, err)
	}
	zap.S().Named("chat").Infow("chat user disconnected", "user_id", user.Id)
	return nil
}

// Channel makes sure a conversation with targetID exists, both users are
// members, and it is watched. Repeated calls for the same target return the
// memoized id without contacting the provider.
func (s *Session) Channel(ctx context.Context, targetID, explicitID string) (string, error) {
	if targetID == "" {
		return "", ErrEmptyTarget
	}

	s.l.Lock()
	if !s.connected {
		s.l.Unlock()
		return "", ErrNotConnected
	}
	if id, ok := s.channels[targetID]; ok {
		s.l.Unlock()
		return id, nil
	}
	self := s.user.Id
	s.l.Unlock()

	channelID := explicitID
	if channelID == "" {
		channelID = ChannelID(self, targetID)
	}

	if err := s.provider.WatchChannel(ctx, ChannelType, channelID, []string{self, targetID}); err != nil {
		return "", s.fail(fmt.Errorf("watching channel %s: %w", channelID, err), func(ctx context.Context) error {
			_, err := s.Channel(ctx, targetID, explicitID)
			return err
		})
	}

	s.l.Lock()
	if !s.connected || s.user.Id != self {
		s.l.Unlock()
		return "", ErrNotConnected
	}
	s.channels[targetID] = channelID
	if s.state == Error {
		s.state = Connected
		s.reason = nil
		s.retry = nil
	}
	s.l.Unlock()

	zap.S().Named("chat").Debugw("channel watched", "channel_id", channelID, "target_id", targetID)
	return channelID, nil
}

// Retry re-runs the operation that put the session into Error.
func (s *Session) Retry(ctx context.Context) error {
	s.l.Lock()
	retry := s.retry
	if s.state != Error || retry == nil {
		s.l.Unlock()
		return ErrNothingToRetry
	}
	if !s.connected {
		s.state = Disconnected
	}
	s.l.Unlock()

	return retry(ctx)
}

func (s *Session) UnreadCount(ctx context.Context) (int, error) {
	s.l.Lock()
	connected := s.connected
	s.l.Unlock()
	if !connected {
		return 0, ErrNotConnected
	}

	count, err := s.provider.CountUnread(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting unread messages: %w", err)
	}
	return count, nil
}

// ChannelID is the id of the conversation selfID opens with targetID.
func ChannelID(selfID, targetID string) string {
	return fmt.Sprintf("chat-%s-%s", selfID, targetID)
}

// SortedPairID is the same for both participants regardless of who opens it.
func SortedPairID(a, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return ChannelID(pair[0], pair[1])
}
