// Package router dispatches inbound Telegram messages to the bot's three
// behaviors: greeting, sources catalog and question answering. Every behavior
// sits behind the subscription gate.
package router

import (
	"context"
	"fmt"
	"strings"

	tg "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"telegram-cybersec-bot/internal/knowledge"
	"telegram-cybersec-bot/internal/logging"
)

// TelegramClient is the slice of the bot API the router sends through.
type TelegramClient interface {
	SendMessage(ctx context.Context, params *tg.SendMessageParams) (*models.Message, error)
}

// Catalog renders the full knowledge base.
type Catalog interface {
	ListAll() []knowledge.TopicSources
}

// Answerer produces the chunked reply texts for a free-form question.
type Answerer interface {
	Compose(ctx context.Context, question string) ([]string, error)
}

// Authorizer decides whether a user may use the bot.
type Authorizer interface {
	IsAuthorized(ctx context.Context, userID int64) bool
	Channel() string
	JoinURL() string
}

const (
	welcomeText = "مرحبًا! أنا بوت الأمن السيبراني الذكي.\n" +
		"اسألني أي سؤال في الأمن السيبراني وسأجيبك مع تقديم مصادر تعليمية مفيدة.\n\n" +
		"يمكنك أيضًا استخدام الأمر /sources لعرض جميع المصادر المتاحة."

	catalogHeader  = "📚 *قائمة المصادر التعليمية المتاحة:*\n\n"
	joinButtonText = "اشترك في القناة أولاً"
	upstreamErrMsg = "حدث خطأ في الاتصال بـ OpenAI: "
)

// command is one dispatch-table entry: the handler plus the join prompt shown
// when the gate turns the user away mid-command.
type command struct {
	handle func(ctx context.Context, tc TelegramClient, msg *models.Message)
	denied string
}

// Router routes one update at a time; it keeps no state across messages.
type Router struct {
	gate     Authorizer
	catalog  Catalog
	answerer Answerer

	commands map[string]command
	fallback command
}

// New wires the router's dispatch table. /start and /help greet, /sources
// dumps the catalog, everything else is treated as a question.
func New(g Authorizer, catalog Catalog, answerer Answerer) *Router {
	r := &Router{gate: g, catalog: catalog, answerer: answerer}
	start := command{handle: r.handleStart, denied: r.joinPrompt("مرحبًا!", "أعد إرسال /start")}
	r.commands = map[string]command{
		"start":   start,
		"help":    start,
		"sources": {handle: r.handleSources, denied: r.joinPrompt("عذرًا،", "أعد إرسال /sources")},
	}
	r.fallback = command{handle: r.handleQuestion, denied: r.joinPrompt("عذرًا،", "أعد إرسال رسالتك")}
	return r
}

func (r *Router) joinPrompt(lead, retry string) string {
	return lead + " يجب عليك الاشتراك في قناة @" + r.gate.Channel() + " لاستخدام هذا البوت.\n" +
		"اضغط على الزر أدناه للاشتراك ثم " + retry + "."
}

// HandleUpdate processes one Telegram update. Errors never escape: every
// failure path ends in a user-visible reply or a log line, so one bad message
// cannot affect the others.
func (r *Router) HandleUpdate(ctx context.Context, tc TelegramClient, upd *models.Update) {
	ctx = logging.Context(ctx)
	if upd.Message == nil {
		return
	}
	msg := upd.Message
	if msg.From == nil {
		return
	}
	ctx = logging.WithUser(ctx, msg.From.ID)
	ctx = logging.WithChat(ctx, msg.Chat.ID)
	log := logging.Ctx(ctx)
	log.Info().Str("event", "telegram_request").Str("snippet", logging.Snippet(msg.Text, 30)).Msg("incoming message")

	entry := r.fallback
	if cmd, _, ok := parseCommand(msg); ok {
		if e, found := r.commands[cmd]; found {
			entry = e
		}
	}

	// The gate runs for every message, uncached, and fails closed. On denial
	// the original request is dropped entirely and replaced by a join prompt.
	if !r.gate.IsAuthorized(ctx, msg.From.ID) {
		log.Info().Str("event", "access_denied").Str("channel", r.gate.Channel()).Msg("user not subscribed")
		r.send(ctx, tc, &tg.SendMessageParams{
			ChatID:          msg.Chat.ID,
			Text:            entry.denied,
			ReplyParameters: &models.ReplyParameters{MessageID: msg.ID},
			ReplyMarkup: &models.InlineKeyboardMarkup{
				InlineKeyboard: [][]models.InlineKeyboardButton{
					{{Text: joinButtonText, URL: r.gate.JoinURL()}},
				},
			},
		})
		return
	}

	entry.handle(ctx, tc, msg)
}

func (r *Router) handleStart(ctx context.Context, tc TelegramClient, msg *models.Message) {
	r.send(ctx, tc, &tg.SendMessageParams{
		ChatID:          msg.Chat.ID,
		Text:            welcomeText,
		ReplyParameters: &models.ReplyParameters{MessageID: msg.ID},
	})
}

func (r *Router) handleSources(ctx context.Context, tc TelegramClient, msg *models.Message) {
	var sb strings.Builder
	sb.WriteString(catalogHeader)
	for _, ts := range r.catalog.ListAll() {
		fmt.Fprintf(&sb, "🔹 *%s:*\n", ts.Topic)
		for _, s := range ts.Sources {
			fmt.Fprintf(&sb, " - [%s](%s)\n", s.Title, s.URL)
		}
		sb.WriteString("\n")
	}
	r.send(ctx, tc, &tg.SendMessageParams{
		ChatID:          msg.Chat.ID,
		Text:            sb.String(),
		ParseMode:       models.ParseModeMarkdownV1,
		ReplyParameters: &models.ReplyParameters{MessageID: msg.ID},
	})
}

func (r *Router) handleQuestion(ctx context.Context, tc TelegramClient, msg *models.Message) {
	question := strings.TrimSpace(msg.Text)
	if question == "" {
		return
	}
	replies, err := r.answerer.Compose(ctx, question)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("event", "compose_failed").Msg("question answering failed")
		r.send(ctx, tc, &tg.SendMessageParams{
			ChatID:          msg.Chat.ID,
			Text:            upstreamErrMsg + err.Error(),
			ReplyParameters: &models.ReplyParameters{MessageID: msg.ID},
		})
		return
	}
	for _, part := range replies {
		r.send(ctx, tc, &tg.SendMessageParams{
			ChatID:          msg.Chat.ID,
			Text:            part,
			ParseMode:       models.ParseModeMarkdownV1,
			ReplyParameters: &models.ReplyParameters{MessageID: msg.ID},
		})
	}
}

func (r *Router) send(ctx context.Context, tc TelegramClient, params *tg.SendMessageParams) {
	if _, err := tc.SendMessage(ctx, params); err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("send message failed")
	}
}

// parseCommand extracts a leading bot command from the message entities.
func parseCommand(msg *models.Message) (cmd, args string, ok bool) {
	if msg.Text == "" {
		return "", "", false
	}
	for _, e := range msg.Entities {
		if e.Type == models.MessageEntityTypeBotCommand && e.Offset == 0 {
			cmd = strings.TrimPrefix(msg.Text[:e.Length], "/")
			// strip a @botname suffix used in group chats
			if i := strings.Index(cmd, "@"); i >= 0 {
				cmd = cmd[:i]
			}
			args = strings.TrimSpace(msg.Text[e.Length:])
			return cmd, args, true
		}
	}
	return "", "", false
}
