package chat_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	api "github.com/gigdesk/gigdesk/api/v1alpha1"
	"github.com/gigdesk/gigdesk/internal/chat"
	"github.com/gorilla/websocket"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type testFrame struct {
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

// chatServer answers every request frame, sending an unrelated event first so
// the client has to match replies by request id.
func chatServer(received chan<- testFrame, apiKeys chan<- string) *httptest.Server {
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKeys <- r.URL.Query().Get("api_key")
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for {
			var req testFrame
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			received <- req

			_ = conn.WriteJSON(testFrame{Type: "message.new", ChannelId: "chat-x-y"})

			reply := testFrame{RequestId: req.RequestId}
			switch req.Type {
			case "connect":
				if req.Token != "good" {
					reply.Type = "error"
					reply.Message = "invalid token"
				} else {
					reply.Type = "connected"
				}
			case "watch":
				reply.Type = "watched"
			case "count_unread":
				reply.Type = "unread"
				reply.Count = 3
			default:
				reply.Type = "error"
				reply.Message = "unknown frame"
			}
			if err := conn.WriteJSON(reply); err != nil {
				return
			}
		}
	}))
}

var _ = Describe("websocket provider", func() {
	var (
		server   *httptest.Server
		received chan testFrame
		apiKeys  chan string
		provider *chat.WebsocketProvider
		ctx      context.Context
		cancel   context.CancelFunc
	)

	BeforeEach(func() {
		received = make(chan testFrame, 10)
		apiKeys = make(chan string, 10)
		server = chatServer(received, apiKeys)
		provider = chat.NewWebsocketProvider("ws"+strings.TrimPrefix(server.URL, "http"), "key-1")
		ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	})

	AfterEach(func() {
		_ = provider.Disconnect(ctx)
		cancel()
		server.Close()
	})

	It("connects, watches and counts unread messages", func() {
		user := api.ChatUser{Id: "alice", Name: "Alice"}
		Expect(provider.ConnectUser(ctx, user, "good")).To(Succeed())
		Expect(<-apiKeys).To(Equal("key-1"))

		connect := <-received
		Expect(connect.Type).To(Equal("connect"))
		Expect(connect.User.Id).To(Equal("alice"))
		Expect(connect.RequestId).NotTo(BeEmpty())

		Expect(provider.WatchChannel(ctx, chat.ChannelType, "chat-alice-bob", []string{"alice", "bob"})).To(Succeed())
		watch := <-received
		Expect(watch.ChannelId).To(Equal("chat-alice-bob"))
		Expect(watch.Members).To(Equal([]string{"alice", "bob"}))

		count, err := provider.CountUnread(ctx)
		Expect(err).To(BeNil())
		Expect(count).To(Equal(3))
	})

	It("returns provider errors", func() {
		err := provider.ConnectUser(ctx, api.ChatUser{Id: "alice"}, "bad")
		var providerErr *chat.ProviderError
		Expect(errors.As(err, &providerErr)).To(BeTrue())
		Expect(providerErr.Message).To(Equal("invalid token"))

		_, err = provider.CountUnread(ctx)
		Expect(errors.Is(err, chat.ErrProviderClosed)).To(BeTrue())
	})

	It("refuses a second connection", func() {
		Expect(provider.ConnectUser(ctx, api.ChatUser{Id: "alice"}, "good")).To(Succeed())
		err := provider.ConnectUser(ctx, api.ChatUser{Id: "bob"}, "good")
		Expect(errors.Is(err, chat.ErrAlreadyConnected)).To(BeTrue())
	})

	It("drives a session end to end", func() {
		session := chat.NewSession(&AuthenticatorMock{
			ChatAuthenticateFunc: func(ctx context.Context) (*api.ChatAuth, error) {
				return &api.ChatAuth{UserData: api.ChatUser{Id: "alice"}, Token: "good"}, nil
			},
		}, provider)

		_, err := session.Acquire(ctx)
		Expect(err).To(BeNil())
		id, err := session.Channel(ctx, "bob", "")
		Expect(err).To(BeNil())
		Expect(id).To(Equal("chat-alice-bob"))

		Expect(session.Release(ctx)).To(Succeed())
		Expect(session.Status().State).To(Equal(chat.Disconnected))
	})

	Context("with a provider that never replies", func() {
		var (
			silent *httptest.Server
			mute   *chat.WebsocketProvider
		)

		BeforeEach(func() {
			upgrader := websocket.Upgrader{}
			silent = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				conn, err := upgrader.Upgrade(w, r, nil)
				if err != nil {
					return
				}
				defer conn.Close()
				for {
					var req testFrame
					if err := conn.ReadJSON(&req); err != nil {
						return
					}
					received <- req
				}
			}))
			mute = chat.NewWebsocketProvider("ws"+strings.TrimPrefix(silent.URL, "http"), "")
		})

		AfterEach(func() {
			silent.Close()
		})

		It("stops waiting for the connect reply when the context is cancelled", func() {
			callCtx, callCancel := context.WithCancel(context.Background())
			done := make(chan error, 1)
			go func() {
				done <- mute.ConnectUser(callCtx, api.ChatUser{Id: "alice"}, "good")
			}()

			Eventually(received).Should(Receive())
			callCancel()

			var err error
			Eventually(done, 2*time.Second).Should(Receive(&err))
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())

			Expect(mute.Disconnect(context.Background())).To(Succeed())
			_, err = mute.CountUnread(context.Background())
			Expect(errors.Is(err, chat.ErrProviderClosed)).To(BeTrue())
		})

		It("moves the session to the error state instead of staying connecting", func() {
			session := chat.NewSession(&AuthenticatorMock{
				ChatAuthenticateFunc: func(ctx context.Context) (*api.ChatAuth, error) {
					return &api.ChatAuth{UserData: api.ChatUser{Id: "alice"}, Token: "good"}, nil
				},
			}, mute)

			callCtx, callCancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
			defer callCancel()

			_, err := session.Acquire(callCtx)
			Expect(errors.Is(err, context.DeadlineExceeded)).To(BeTrue())
			status := session.Status()
			Expect(status.State).To(Equal(chat.Error))
			Expect(status.Reason).NotTo(BeNil())
			Expect(session.Release(context.Background())).To(Succeed())
		})
	})
})
