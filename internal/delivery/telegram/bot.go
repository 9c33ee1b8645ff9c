package telegram

import (
	"context"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/smart-sa/smorti/internal/usecase"
	"github.com/smart-sa/smorti/pkg/logger"
)

// Bot is the Telegram delivery: one chat maps to one conversation session.
type Bot struct {
	api *tgbotapi.BotAPI
	uc  usecase.ChatUseCase
}

func NewBot(token string, uc usecase.ChatUseCase) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Bot{api: api, uc: uc}, nil
}

// Start long-polls until the context is cancelled.
func (b *Bot) Start(ctx context.Context) {
	logger.Info().Str("bot", b.api.Self.UserName).Msg("telegram bot started")

	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.api.GetUpdatesChan(cfg)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			b.handle(ctx, update.Message)
		}
	}
}

func (b *Bot) handle(ctx context.Context, msg *tgbotapi.Message) {
	sessionID := "tg:" + strconv.FormatInt(msg.Chat.ID, 10)
	reply := b.uc.HandleMessage(ctx, sessionID, msg.Text)
	if reply == "" {
		return
	}

	out := tgbotapi.NewMessage(msg.Chat.ID, reply)
	out.ReplyToMessageID = msg.MessageID
	if _, err := b.api.Send(out); err != nil {
		logger.Warn().Err(err).Int64("chat", msg.Chat.ID).Msg("telegram send failed")
	}
}
