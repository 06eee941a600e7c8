package cli

import (
	"context"
	"fmt"

	"github.com/gigdesk/gigdesk/internal/chat"
	"github.com/gigdesk/gigdesk/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

type ChatOptions struct {
	GlobalOptions

	ChannelId string
	Retry     bool
}

func DefaultChatOptions() *ChatOptions {
	return &ChatOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdChat() *cobra.Command {
	o := DefaultChatOptions()
	cmd := &cobra.Command{
		Use:     "chat TARGET_USER_ID",
		Short:   "Open the conversation with another user and show unread messages.",
		Example: "chat 64e2aa\nchat 64e2aa --channel support-42",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), args)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *ChatOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVar(&o.ChannelId, "channel", o.ChannelId, "Explicit channel id instead of the derived one")
	fs.BoolVar(&o.Retry, "retry", o.Retry, "Retry once when connecting or opening the channel fails")
}

func (o *ChatOptions) Run(ctx context.Context, args []string) error {
	env, err := config.New()
	if err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}
	c, err := o.Client()
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	session := chat.NewSession(c, chat.NewWebsocketProvider(env.Chat.Url, env.Chat.ApiKey))
	defer func() {
		if err := session.Release(context.WithoutCancel(ctx)); err != nil {
			zap.S().Named("cli").Warnw("failed to release chat session", "error", err)
		}
	}()

	if err := o.retrying(ctx, session, func() error {
		_, err := session.Acquire(ctx)
		return err
	}); err != nil {
		return err
	}

	if err := o.retrying(ctx, session, func() error {
		_, err := session.Channel(ctx, args[0], o.ChannelId)
		return err
	}); err != nil {
		return err
	}
	// memoized by now
	channelID, err := session.Channel(ctx, args[0], o.ChannelId)
	if err != nil {
		return err
	}

	unread, err := session.UnreadCount(ctx)
	if err != nil {
		return err
	}

	status := session.Status()
	fmt.Printf("connected as %s (%s)\n", status.User.Name, status.User.Id)
	fmt.Printf("channel: %s\n", channelID)
	fmt.Printf("unread: %d\n", unread)
	return nil
}

// retrying runs op and, when --retry is set and the session landed in the
// error state, retries the failed operation once.
func (o *ChatOptions) retrying(ctx context.Context, session *chat.Session, op func() error) error {
	err := op()
	if err == nil {
		return nil
	}
	status := session.Status()
	if !o.Retry || status.State != chat.Error {
		return fmt.Errorf("chat %s: %w", status.State, err)
	}
	fmt.Printf("retrying after error: %v\n", status.Reason)
	if err := session.Retry(ctx); err != nil {
		return fmt.Errorf("chat %s: %w", session.Status().State, err)
	}
	return nil
}
