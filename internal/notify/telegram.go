// Package notify provides Telegram notifications for the smart-city client.
//
// This package handles:
//   - Mutation outcome notifications (the store's Notifier)
//   - New-complaint alerts from the watch loop
//   - Daily digest photos
//   - Critical failure alerts
//
// All methods are nil-safe: an unconfigured client skips sends so callers
// never need to branch on whether Telegram is set up.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"smartcity/internal/store"

	retry "github.com/avast/retry-go"
	"github.com/sirupsen/logrus"
)

const telegramAPI = "https://api.telegram.org/bot%s/%s"

// sendAttempts bounds delivery retries. Notifications are best-effort; the
// store never blocks on them beyond this.
const sendAttempts = 3

// Telegram is a Telegram bot client for outbound notifications.
type Telegram struct {
	BotToken  string
	ChatID    string
	DebugMode bool

	client *http.Client
	log    *logrus.Entry
}

// message is the sendMessage payload.
type message struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

// NewTelegram creates a Telegram client, or nil if the bot token or chat id
// is missing (notifications disabled, all methods become no-ops).
func NewTelegram(botToken, chatID string, debugMode bool, log *logrus.Entry) *Telegram {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	if botToken == "" || chatID == "" {
		log.Warn("TELEGRAM_BOT_TOKEN or TELEGRAM_CHAT_ID not set, notifications disabled")
		return nil
	}

	log.Info("Telegram configured")
	return &Telegram{
		BotToken:  botToken,
		ChatID:    chatID,
		DebugMode: debugMode,
		client:    &http.Client{Timeout: 30 * time.Second},
		log:       log,
	}
}

// Notify implements the store's Notifier: a best-effort outcome message.
// Errors are logged, never returned, so mutations are not failed by a
// notification hiccup.
func (t *Telegram) Notify(ctx context.Context, title, body string) {
	if t == nil {
		return
	}
	text := fmt.Sprintf("<b>%s</b>\n%s", title, body)
	if err := t.SendMessage(ctx, text); err != nil {
		t.log.WithError(err).Warn("failed to send outcome notification")
	}
}

// SendMessage sends an HTML-formatted message, retrying transient failures.
func (t *Telegram) SendMessage(ctx context.Context, text string) error {
	if t == nil {
		return nil
	}
	if t.DebugMode {
		t.log.WithField("text", text).Info("debug mode: skipping Telegram send")
		return nil
	}

	payload := message{
		ChatID:                t.ChatID,
		Text:                  text,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	}

	return retry.Do(
		func() error { return t.doRequest(ctx, "sendMessage", payload) },
		retry.Attempts(sendAttempts),
		retry.Delay(2*time.Second),
		retry.LastErrorOnly(true),
	)
}

// SendComplaintAlert announces a newly seen complaint.
func (t *Telegram) SendComplaintAlert(ctx context.Context, c store.EnrichedComplaint) error {
	if t == nil {
		return nil
	}

	created := ""
	if c.CreatedOn != nil {
		created = c.CreatedOn.Format("2006-01-02 15:04")
	}
	text := fmt.Sprintf(
		"📋 <b>New Complaint</b>\n"+
			"<b>Title:</b> %s\n"+
			"<b>Status:</b> %s\n"+
			"<b>Submitted by:</b> %s\n"+
			"<b>Created:</b> %s\n\n%s",
		c.Title, c.Status, c.UserName, created, c.Description,
	)
	return t.SendMessage(ctx, text)
}

// SendCriticalAlert reports a failure that needs operator attention.
func (t *Telegram) SendCriticalAlert(ctx context.Context, errorType, errorMsg string, retryCount int) error {
	if t == nil {
		return nil
	}

	text := fmt.Sprintf(
		"🚨 <b>CRITICAL ALERT - SMARTCITY CLIENT</b>\n\n"+
			"<b>Error Type:</b> %s\n"+
			"<b>Error Message:</b> %s\n"+
			"<b>Retry Attempts:</b> %d\n"+
			"<b>Timestamp:</b> %s\n\n"+
			"⚠️ <b>Action Required:</b> Please check the client immediately.",
		errorType, errorMsg, retryCount, time.Now().Format("2006-01-02 15:04:05"),
	)
	return t.SendMessage(ctx, text)
}

// SendPhoto uploads a PNG with a caption (used for the daily digest).
func (t *Telegram) SendPhoto(ctx context.Context, caption string, png []byte) error {
	if t == nil {
		return nil
	}
	if t.DebugMode {
		t.log.WithField("caption", caption).Info("debug mode: skipping Telegram photo")
		return nil
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("chat_id", t.ChatID); err != nil {
		return err
	}
	if err := w.WriteField("caption", caption); err != nil {
		return err
	}
	part, err := w.CreateFormFile("photo", "digest.png")
	if err != nil {
		return err
	}
	if _, err := part.Write(png); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	apiURL := fmt.Sprintf(telegramAPI, t.BotToken, "sendPhoto")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send photo: %w", err)
	}
	defer resp.Body.Close()
	return checkResponse(resp)
}

// doRequest posts a JSON payload to a bot API method and checks the ok flag.
func (t *Telegram) doRequest(ctx context.Context, method string, payload any) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	apiURL := fmt.Sprintf(telegramAPI, t.BotToken, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()
	return checkResponse(resp)
}

// checkResponse parses a bot API response and fails unless ok is true.
func checkResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var result struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("telegram API error: %s", result.Description)
	}
	return nil
}
