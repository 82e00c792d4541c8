// Package telegram holds transport-level plumbing for the bot: the
// update poller (webhook or long polling) and a tuned HTTP client for
// the Telegram API.
package telegram

import (
	"fmt"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"geobot/internal/config"
)

// BuildPoller returns a Telebot poller based on the configured run mode.
// In webhook mode Telebot serves the HTTP listener itself: it decodes
// each update envelope and answers the acknowledgement body.
func BuildPoller(cfg *config.Config) tele.Poller {
	runMode := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if runMode == config.RunModeWebhook {
		return &tele.Webhook{
			Listen:   fmt.Sprintf("%s:%d", cfg.Webhook.Listen, cfg.Webhook.Port),
			Endpoint: &tele.WebhookEndpoint{PublicURL: cfg.Webhook.URL},
		}
	}

	timeoutSec := cfg.Telegram.LongPollTimeoutSeconds
	if timeoutSec <= 0 {
		timeoutSec = 10
	}
	return &tele.LongPoller{Timeout: time.Duration(timeoutSec) * time.Second}
}
