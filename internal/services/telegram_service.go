package services

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BotSender is the part of tgbotapi.BotAPI used here.
type BotSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// NewTelegramBot connects to the Bot API; it calls getMe once.
func NewTelegramBot(token string) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return bot, nil
}

// TelegramService posts to the staff group chat.
type TelegramService struct {
	bot    BotSender
	chatID int64
}

func NewTelegramService(bot BotSender, chatID int64) *TelegramService {
	return &TelegramService{bot: bot, chatID: chatID}
}

func (t *TelegramService) SendMessage(text string) error {
	if t == nil || t.bot == nil || t.chatID == 0 {
		return nil
	}
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram sendMessage failed: %w", err)
	}
	return nil
}

func (t *TelegramService) SendTaskNotice(n TaskNotice) error {
	return t.SendMessage(taskNoticeTelegram(n))
}

func taskNoticeTelegram(n TaskNotice) string {
	esc := func(s string) string { return tgbotapi.EscapeText(tgbotapi.ModeHTML, s) }

	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\n", esc(n.Subject()))
	fmt.Fprintf(&b, "指揮者: %s\n", esc(n.LeaderName))
	fmt.Fprintf(&b, "%s %s〜%s\n", esc(n.EventDay.Label()), esc(n.Start), esc(n.End))
	fmt.Fprintf(&b, "%s × %d\n", esc(n.ItemName), n.Quantity)
	fmt.Fprintf(&b, "%s → %s", esc(n.FromLocation), esc(n.ToLocation))
	if n.Note != "" {
		fmt.Fprintf(&b, "\n備考: %s", esc(n.Note))
	}
	return b.String()
}
