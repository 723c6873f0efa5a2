// Package telegram adapts the Telegram Bot API to the channel interface:
// long polling for messages and button presses, inline keyboards on the
// way out.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/myslide/leavebot/internal/bus"
	"github.com/myslide/leavebot/internal/channel"
	"github.com/myslide/leavebot/internal/config"
	"github.com/myslide/leavebot/internal/keyboard"
)

// Channel implements the Telegram transport.
type Channel struct {
	channel.BaseChannel
	cfg *config.TelegramConfig
	bot *tgbotapi.BotAPI
}

// New creates a Telegram channel
func New(cfg *config.TelegramConfig, msgBus *bus.MessageBus) *Channel {
	allowList := make(map[string]bool)
	for _, id := range cfg.AllowFrom {
		allowList[id] = true
	}
	return &Channel{
		BaseChannel: channel.BaseChannel{
			Bus:       msgBus,
			AllowList: allowList,
		},
		cfg: cfg,
	}
}

func (c *Channel) Name() string { return "telegram" }

func (c *Channel) Start(ctx context.Context) error {
	bot, err := tgbotapi.NewBotAPI(c.cfg.Token)
	if err != nil {
		return fmt.Errorf("telegram init failed: %w", err)
	}
	c.bot = bot

	slog.Info("telegram bot connected", "username", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			switch {
			case update.CallbackQuery != nil:
				c.handleCallback(update.CallbackQuery)
			case update.Message != nil:
				c.handleMessage(update.Message)
			}
		}
	}
}

func (c *Channel) handleMessage(msg *tgbotapi.Message) {
	senderID := strconv.FormatInt(msg.From.ID, 10)
	if !c.IsAllowed(senderID) {
		slog.Debug("unauthorized sender", "id", senderID)
		return
	}

	content := msg.Text
	if content == "" {
		return
	}

	c.PublishInbound(&bus.InboundMessage{
		Channel:   "telegram",
		SenderID:  senderID,
		ChatID:    strconv.FormatInt(msg.Chat.ID, 10),
		Kind:      bus.KindText,
		Content:   content,
		Name:      displayName(msg.From),
		Timestamp: time.Now(),
		RequestID: bus.NewRequestID(),
	})
}

func (c *Channel) handleCallback(cb *tgbotapi.CallbackQuery) {
	// Always answer, even for denied senders, so the client stops its
	// spinner.
	if _, err := c.bot.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		slog.Warn("answering callback failed", "error", err)
	}

	senderID := strconv.FormatInt(cb.From.ID, 10)
	if !c.IsAllowed(senderID) {
		slog.Debug("unauthorized sender", "id", senderID)
		return
	}
	if cb.Message == nil {
		return
	}

	c.PublishInbound(&bus.InboundMessage{
		Channel:   "telegram",
		SenderID:  senderID,
		ChatID:    strconv.FormatInt(cb.Message.Chat.ID, 10),
		Kind:      bus.KindButton,
		Payload:   cb.Data,
		MessageID: cb.Message.MessageID,
		Name:      displayName(cb.From),
		Timestamp: time.Now(),
		RequestID: bus.NewRequestID(),
	})
}

func (c *Channel) Send(ctx context.Context, msg *bus.OutboundMessage) error {
	if c.bot == nil {
		return fmt.Errorf("bot not initialized")
	}

	chatID, err := strconv.ParseInt(strings.TrimSpace(msg.ChatID), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat id %q: %w", msg.ChatID, err)
	}

	if msg.EditID != 0 {
		edit := tgbotapi.NewEditMessageText(chatID, msg.EditID, msg.Content)
		if len(msg.Buttons) > 0 {
			markup := toMarkup(msg.Buttons)
			edit.ReplyMarkup = &markup
		}
		if _, err := c.bot.Send(edit); err != nil {
			// The target may be gone or unchanged; deliver as a fresh
			// message instead of dropping the content.
			slog.Debug("edit failed, sending new message", "chat_id", msg.ChatID, "error", err)
			return c.sendNew(chatID, msg)
		}
		return nil
	}
	return c.sendNew(chatID, msg)
}

func (c *Channel) sendNew(chatID int64, msg *bus.OutboundMessage) error {
	tgMsg := tgbotapi.NewMessage(chatID, msg.Content)
	if len(msg.Buttons) > 0 {
		tgMsg.ReplyMarkup = toMarkup(msg.Buttons)
	}
	_, err := c.bot.Send(tgMsg)
	return err
}

func (c *Channel) Stop(ctx context.Context) error {
	if c.bot != nil {
		c.bot.StopReceivingUpdates()
	}
	return nil
}

func toMarkup(rows [][]keyboard.Button) tgbotapi.InlineKeyboardMarkup {
	out := make([][]tgbotapi.InlineKeyboardButton, len(rows))
	for i, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, len(row))
		for j, b := range row {
			buttons[j] = tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Data)
		}
		out[i] = buttons
	}
	return tgbotapi.NewInlineKeyboardMarkup(out...)
}

func displayName(u *tgbotapi.User) string {
	if u == nil {
		return ""
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = u.UserName
	}
	return name
}
