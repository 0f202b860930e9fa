package telegram

import "gopkg.in/telebot.v3"

// Client sends operator alerts to a Telegram chat.
type Client interface {
	SendMessage(recipientChatID int64, text string, options *telebot.SendOptions) error
}
