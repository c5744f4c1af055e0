// Package gate decides whether a user may talk to the bot, based on their
// subscription to the required Telegram channel.
package gate

import (
	"context"

	tg "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"telegram-cybersec-bot/internal/logging"
)

// MembershipClient is the slice of the Telegram API the gate needs.
type MembershipClient interface {
	GetChatMember(ctx context.Context, params *tg.GetChatMemberParams) (*models.ChatMember, error)
}

// Gate admits only subscribers of one fixed channel.
type Gate struct {
	client  MembershipClient
	channel string // username without the leading @
}

// New builds a gate over the given membership client and channel username.
func New(client MembershipClient, channel string) *Gate {
	return &Gate{client: client, channel: channel}
}

// Channel returns the gating channel username.
func (g *Gate) Channel() string {
	return g.channel
}

// JoinURL is the invite link shown when a user is turned away.
func (g *Gate) JoinURL() string {
	return "https://t.me/" + g.channel
}

// IsAuthorized reports whether the user is subscribed to the gating channel.
// The membership check is not cached; every message re-asks the platform.
// A lookup failure counts as not subscribed: the gate fails closed.
func (g *Gate) IsAuthorized(ctx context.Context, userID int64) bool {
	member, err := g.client.GetChatMember(ctx, &tg.GetChatMemberParams{
		ChatID: "@" + g.channel,
		UserID: userID,
	})
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("channel", g.channel).Msg("membership lookup failed")
		return false
	}
	// Only an explicit "left" status is a denial; every other status,
	// including restricted, passes.
	return member.Type != models.ChatMemberTypeLeft
}
