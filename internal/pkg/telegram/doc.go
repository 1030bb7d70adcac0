// Package telegram is a minimal Telegram Bot API client covering the calls
// the bot needs: sendMessage and setWebhook, plus the update payload types
// delivered to webhooks.
package telegram
