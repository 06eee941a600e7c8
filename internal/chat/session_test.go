package chat_test

import (
	"context"
	"errors"

	api "github.com/gigdesk/gigdesk/api/v1alpha1"
	"github.com/gigdesk/gigdesk/internal/chat"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("chat session", func() {
	var (
		ctx      context.Context
		auth     *AuthenticatorMock
		provider *ProviderMock
		session  *chat.Session
		alice    = api.ChatUser{Id: "alice", Name: "Alice"}
	)

	BeforeEach(func() {
		ctx = context.Background()
		auth = &AuthenticatorMock{
			ChatAuthenticateFunc: func(ctx context.Context) (*api.ChatAuth, error) {
				return &api.ChatAuth{UserData: alice, Token: "tok"}, nil
			},
		}
		provider = &ProviderMock{}
		session = chat.NewSession(auth, provider)
	})

	Context("acquire", func() {
		It("starts disconnected", func() {
			Expect(session.Status().State).To(Equal(chat.Disconnected))
		})

		It("authenticates then connects once", func() {
			user, err := session.Acquire(ctx)
			Expect(err).To(BeNil())
			Expect(user).To(Equal(alice))
			Expect(session.Status().State).To(Equal(chat.Connected))

			_, err = session.Acquire(ctx)
			Expect(err).To(BeNil())
			Expect(auth.calls).To(Equal(1))
			Expect(provider.connects).To(HaveLen(1))
		})

		It("enters the error state when authentication fails and recovers on retry", func() {
			auth.ChatAuthenticateFunc = func(ctx context.Context) (*api.ChatAuth, error) {
				return nil, errors.New("session expired")
			}

			_, err := session.Acquire(ctx)
			Expect(err).To(MatchError(ContainSubstring("session expired")))
			status := session.Status()
			Expect(status.State).To(Equal(chat.Error))
			Expect(status.Reason).NotTo(BeNil())
			Expect(provider.connects).To(BeEmpty())

			auth.ChatAuthenticateFunc = func(ctx context.Context) (*api.ChatAuth, error) {
				return &api.ChatAuth{UserData: alice, Token: "tok"}, nil
			}
			Expect(session.Retry(ctx)).To(Succeed())
			Expect(session.Status().State).To(Equal(chat.Connected))
		})

		It("enters the error state when the provider refuses the user", func() {
			provider.ConnectUserFunc = func(ctx context.Context, user api.ChatUser, token string) error {
				return errors.New("bad token")
			}
			_, err := session.Acquire(ctx)
			Expect(err).NotTo(BeNil())
			Expect(session.Status().State).To(Equal(chat.Error))

			provider.ConnectUserFunc = nil
			Expect(session.Retry(ctx)).To(Succeed())
			Expect(session.Status().User).To(Equal(alice))
			Expect(auth.calls).To(Equal(1))
		})

		It("has nothing to retry while healthy", func() {
			Expect(errors.Is(session.Retry(ctx), chat.ErrNothingToRetry)).To(BeTrue())
		})

		It("requires a release before connecting another user", func() {
			_, err := session.Acquire(ctx)
			Expect(err).To(BeNil())

			bob := api.ChatAuth{UserData: api.ChatUser{Id: "bob"}, Token: "tok2"}
			err = session.ConnectAs(ctx, bob)
			Expect(errors.Is(err, chat.ErrAlreadyConnected)).To(BeTrue())

			Expect(session.ConnectAs(ctx, api.ChatAuth{UserData: alice})).To(Succeed())

			Expect(session.Release(ctx)).To(Succeed())
			Expect(session.ConnectAs(ctx, bob)).To(Succeed())
			Expect(session.Status().User.Id).To(Equal("bob"))
		})
	})

	Context("release", func() {
		It("is a no-op when disconnected", func() {
			Expect(session.Release(ctx)).To(Succeed())
			Expect(provider.disconnects).To(BeZero())
		})

		It("disconnects and forgets channels", func() {
			_, err := session.Acquire(ctx)
			Expect(err).To(BeNil())
			_, err = session.Channel(ctx, "bob", "")
			Expect(err).To(BeNil())

			Expect(session.Release(ctx)).To(Succeed())
			Expect(provider.disconnects).To(Equal(1))
			Expect(session.Status().State).To(Equal(chat.Disconnected))

			_, err = session.Channel(ctx, "bob", "")
			Expect(errors.Is(err, chat.ErrNotConnected)).To(BeTrue())
		})
	})

	Context("channels", func() {
		BeforeEach(func() {
			_, err := session.Acquire(ctx)
			Expect(err).To(BeNil())
		})

		It("does not memoize a channel watched while the session was released", func() {
			provider.WatchChannelFunc = func(ctx context.Context, channelType, channelID string, members []string) error {
				Expect(session.Release(ctx)).To(Succeed())
				return nil
			}
			_, err := session.Channel(ctx, "bob", "")
			Expect(errors.Is(err, chat.ErrNotConnected)).To(BeTrue())
			Expect(session.Status().State).To(Equal(chat.Disconnected))

			provider.WatchChannelFunc = nil
			_, err = session.Acquire(ctx)
			Expect(err).To(BeNil())
			id, err := session.Channel(ctx, "bob", "")
			Expect(err).To(BeNil())
			Expect(id).To(Equal("chat-alice-bob"))
			Expect(provider.watches).To(HaveLen(2))
		})

		It("derives the channel id and watches it with both members", func() {
			id, err := session.Channel(ctx, "bob", "")
			Expect(err).To(BeNil())
			Expect(id).To(Equal("chat-alice-bob"))
			Expect(provider.watches).To(Equal([]watchCall{{
				ChannelType: chat.ChannelType,
				ChannelID:   "chat-alice-bob",
				Members:     []string{"alice", "bob"},
			}}))
		})

		It("uses an explicit id", func() {
			id, err := session.Channel(ctx, "bob", "support-42")
			Expect(err).To(BeNil())
			Expect(id).To(Equal("support-42"))
		})

		It("memoizes by target", func() {
			first, err := session.Channel(ctx, "bob", "")
			Expect(err).To(BeNil())
			second, err := session.Channel(ctx, "bob", "")
			Expect(err).To(BeNil())
			Expect(second).To(Equal(first))
			Expect(provider.watches).To(HaveLen(1))
		})

		It("surfaces watch failures and retries them", func() {
			provider.WatchChannelFunc = func(ctx context.Context, channelType, channelID string, members []string) error {
				return errors.New("channel limit reached")
			}

			_, err := session.Channel(ctx, "bob", "")
			Expect(err).To(MatchError(ContainSubstring("channel limit reached")))
			Expect(session.Status().State).To(Equal(chat.Error))

			provider.WatchChannelFunc = nil
			Expect(session.Retry(ctx)).To(Succeed())
			Expect(session.Status().State).To(Equal(chat.Connected))
			Expect(provider.watches).To(HaveLen(2))

			id, err := session.Channel(ctx, "bob", "")
			Expect(err).To(BeNil())
			Expect(id).To(Equal("chat-alice-bob"))
			Expect(provider.watches).To(HaveLen(2))
		})

		It("requires a target", func() {
			_, err := session.Channel(ctx, "", "")
			Expect(errors.Is(err, chat.ErrEmptyTarget)).To(BeTrue())
		})
	})

	Context("unread count", func() {
		It("requires a connection", func() {
			_, err := session.UnreadCount(ctx)
			Expect(errors.Is(err, chat.ErrNotConnected)).To(BeTrue())
		})

		It("asks the provider", func() {
			provider.CountUnreadFunc = func(ctx context.Context) (int, error) { return 7, nil }
			_, err := session.Acquire(ctx)
			Expect(err).To(BeNil())

			count, err := session.UnreadCount(ctx)
			Expect(err).To(BeNil())
			Expect(count).To(Equal(7))
		})
	})

	It("builds the same pair id from either side", func() {
		Expect(chat.SortedPairID("bob", "alice")).To(Equal("chat-alice-bob"))
		Expect(chat.SortedPairID("alice", "bob")).To(Equal("chat-alice-bob"))
	})
})
