package chat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	api "github.com/gigdesk/gigdesk/api/v1alpha1"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	frameConnect     = "connect"
	frameConnected   = "connected"
	frameWatch       = "watch"
	frameWatched     = "watched"
	frameCountUnread = "count_unread"
	frameUnread      = "unread"
	frameError       = "error"
)

// frame is the JSON envelope exchanged with the chat endpoint. Replies echo
// the request id; frames without a known id are provider events.
type frame struct {
	Type        string        `json:"type"`
	RequestId   string        `json:"requestId,omitempty"`
	User        *api.ChatUser `json:"user,omitempty"`
	Token       string        `json:"token,omitempty"`
	ChannelType string        `json:"channelType,omitempty"`
	ChannelId   string        `json:"channelId,omitempty"`
	Members     []string      `json:"members,omitempty"`
	Count       int           `json:"count,omitempty"`
	Message     string        `json:"message,omitempty"`
}

// ProviderError is an error frame returned by the chat endpoint.
type ProviderError struct {
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("chat provider: %s", e.Message)
}

var ErrProviderClosed = errors.New("chat provider connection is closed")

// WebsocketProvider talks to the chat endpoint over a single websocket. Calls
// are serialized; each waits for the reply carrying its request id.
type WebsocketProvider struct {
	endpoint string
	apiKey   string
	dialer   *websocket.Dialer

	mu   sync.Mutex
	conn *websocket.Conn
}

func NewWebsocketProvider(endpoint, apiKey string) *WebsocketProvider {
	return &WebsocketProvider{
		endpoint: endpoint,
		apiKey:   apiKey,
		dialer:   websocket.DefaultDialer,
	}
}

func (w *WebsocketProvider) ConnectUser(ctx context.Context, user api.ChatUser, token string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.conn != nil {
		return fmt.Errorf("%w: %s", ErrAlreadyConnected, user.Id)
	}

	u, err := url.Parse(w.endpoint)
	if err != nil {
		return fmt.Errorf("invalid chat endpoint %q: %w", w.endpoint, err)
	}
	if w.apiKey != "" {
		q := u.Query()
		q.Set("api_key", w.apiKey)
		u.RawQuery = q.Encode()
	}

	conn, resp, err := w.dialer.DialContext(ctx, u.String(), http.Header{})
	if err != nil {
		if resp != nil {
			return fmt.Errorf("dialing chat endpoint: %w (status %d)", err, resp.StatusCode)
		}
		return fmt.Errorf("dialing chat endpoint: %w", err)
	}
	w.conn = conn

	if _, err := w.roundTrip(ctx, frame{Type: frameConnect, User: &user, Token: token}, frameConnected); err != nil {
		w.dropLocked()
		return err
	}
	return nil
}

func (w *WebsocketProvider) Disconnect(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.conn == nil {
		return nil
	}
	deadline := time.Now().Add(time.Second)
	if d, ok := ctx.Deadline(); ok {
		deadline = d
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	werr := w.conn.WriteControl(websocket.CloseMessage, msg, deadline)
	cerr := w.conn.Close()
	w.conn = nil
	if werr != nil && !errors.Is(werr, websocket.ErrCloseSent) {
		return werr
	}
	return cerr
}

func (w *WebsocketProvider) WatchChannel(ctx context.Context, channelType, channelID string, members []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	_, err := w.roundTrip(ctx, frame{
		Type:        frameWatch,
		ChannelType: channelType,
		ChannelId:   channelID,
		Members:     members,
	}, frameWatched)
	return err
}

func (w *WebsocketProvider) CountUnread(ctx context.Context) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	reply, err := w.roundTrip(ctx, frame{Type: frameCountUnread}, frameUnread)
	if err != nil {
		return 0, err
	}
	return reply.Count, nil
}

// roundTrip must be called with mu held. A cancelled ctx interrupts a pending
// read; the connection is dropped afterwards since it can no longer be read.
func (w *WebsocketProvider) roundTrip(ctx context.Context, req frame, want string) (*frame, error) {
	if w.conn == nil {
		return nil, ErrProviderClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	conn := w.conn
	req.RequestId = uuid.NewString()

	_ = conn.SetWriteDeadline(time.Time{})
	_ = conn.SetReadDeadline(time.Time{})

	stop := context.AfterFunc(ctx, func() {
		now := time.Now()
		_ = conn.SetWriteDeadline(now)
		_ = conn.SetReadDeadline(now)
	})
	defer stop()

	if err := conn.WriteJSON(req); err != nil {
		w.dropLocked()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("sending %s frame: %w", req.Type, err)
	}

	log := zap.S().Named("chat")
	for {
		var reply frame
		if err := conn.ReadJSON(&reply); err != nil {
			w.dropLocked()
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("reading %s reply: %w", want, err)
		}
		if reply.RequestId != req.RequestId {
			log.Debugw("chat event", "type", reply.Type, "channel_id", reply.ChannelId)
			continue
		}
		if reply.Type == frameError {
			return nil, &ProviderError{Message: reply.Message}
		}
		if reply.Type != want {
			return nil, fmt.Errorf("unexpected %q frame, expected %q", reply.Type, want)
		}
		return &reply, nil
	}
}

func (w *WebsocketProvider) dropLocked() {
	if w.conn == nil {
		return
	}
	_ = w.conn.Close()
	w.conn = nil
}
