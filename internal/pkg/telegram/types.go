package telegram

import "strings"

// Update is an incoming webhook payload.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

// Message is a chat message.
type Message struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from,omitempty"`
	Chat      Chat   `json:"chat"`
	Date      int64  `json:"date"`
	Text      string `json:"text,omitempty"`
}

// User is a Telegram user or bot.
type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
	Username  string `json:"username,omitempty"`
}

// Chat is the conversation a message belongs to.
type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// TextMessage returns the message when the update carries a text message from
// a user, nil otherwise.
func (u *Update) TextMessage() *Message {
	if u == nil || u.Message == nil || u.Message.From == nil {
		return nil
	}
	if strings.TrimSpace(u.Message.Text) == "" {
		return nil
	}
	return u.Message
}

// Command splits a "/name@Bot args" text into its lower-cased command name
// without the slash and bot suffix. ok is false when text is not a command.
func Command(text string) (name string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", false
	}

	first, _, _ := strings.Cut(text[1:], " ")
	first, _, _ = strings.Cut(first, "\n")
	first, _, _ = strings.Cut(first, "@")
	if first == "" {
		return "", false
	}

	return strings.ToLower(first), true
}
