package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	defaultAPIBase = "https://api.telegram.org"

	// Telegram caps a message at 4096 characters; staying under 3800
	// leaves headroom for entity expansion.
	defaultMaxChunk = 3800

	maxAttempts = 3
)

// Telegram delivers report text through the bot sendMessage API. Delivery
// is best-effort: every failure is logged and swallowed, because a broken
// notification channel must not mask the sign-in verdict carried by the
// process exit code.
type Telegram struct {
	token  string
	chatID string
	client *http.Client
	log    *slog.Logger

	apiBase    string
	maxChunk   int
	retryDelay time.Duration
}

func NewTelegram(token, chatID string, timeout time.Duration, log *slog.Logger) *Telegram {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	return &Telegram{
		token:      strings.TrimSpace(token),
		chatID:     strings.TrimSpace(chatID),
		client:     &http.Client{Timeout: timeout},
		log:        log,
		apiBase:    defaultAPIBase,
		maxChunk:   defaultMaxChunk,
		retryDelay: time.Second,
	}
}

// Configured reports whether a destination is present. An unconfigured
// notifier is a silent no-op, not an error.
func (t *Telegram) Configured() bool {
	return t.token != "" && t.chatID != ""
}

// Send splits text into size-bounded chunks and delivers them in order.
// One chunk exhausting its retries does not stop the remaining chunks.
func (t *Telegram) Send(ctx context.Context, text string) {
	if !t.Configured() {
		return
	}

	for _, chunk := range splitChunks(text, t.maxChunk) {
		if err := t.sendChunk(ctx, chunk); err != nil {
			t.log.Warn("telegram delivery failed", "error", err)
		}
	}
}

func (t *Telegram) sendChunk(ctx context.Context, chunk string) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			time.Sleep(t.retryDelay)
		}

		err := t.post(ctx, chunk)
		if err == nil {
			return nil
		}
		lastErr = err
		t.log.Debug("telegram send attempt failed", "attempt", attempt, "error", err)
	}
	return fmt.Errorf("after %d attempts: %w", maxAttempts, lastErr)
}

func (t *Telegram) post(ctx context.Context, text string) error {
	form := url.Values{}
	form.Set("chat_id", t.chatID)
	form.Set("text", text)
	form.Set("parse_mode", "HTML")
	form.Set("disable_web_page_preview", "true")

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// splitChunks breaks text into pieces of at most max characters, preferring
// block boundaries (blank lines) and hard-splitting only blocks that are
// themselves oversized. Sizes are measured in runes to match Telegram's
// character limit.
func splitChunks(text string, max int) []string {
	if utf8.RuneCountInString(text) <= max {
		return []string{text}
	}

	var chunks []string
	var buf string

	flush := func() {
		if buf != "" {
			chunks = append(chunks, buf)
			buf = ""
		}
	}

	for _, block := range strings.Split(text, "\n\n") {
		candidate := block
		if buf != "" {
			candidate = buf + "\n\n" + block
		}

		if utf8.RuneCountInString(candidate) <= max {
			buf = candidate
			continue
		}

		flush()

		if utf8.RuneCountInString(block) > max {
			chunks = append(chunks, hardSplit(block, max)...)
			continue
		}
		buf = block
	}

	flush()
	return chunks
}

func hardSplit(s string, max int) []string {
	runes := []rune(s)
	out := make([]string, 0, (len(runes)+max-1)/max)
	for start := 0; start < len(runes); start += max {
		end := min(start+max, len(runes))
		out = append(out, string(runes[start:end]))
	}
	return out
}
