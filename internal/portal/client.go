package portal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"checkinbot/internal/accounts"
	"checkinbot/internal/domain"
)

const (
	loginPath   = "/auth/login"
	checkinPath = "/user/checkin"

	userAgent = "Mozilla/5.0"

	defaultTimeout = 20 * time.Second
)

// Client drives the two-step login → check-in protocol against the portal.
// It holds no session state itself: every SignIn call builds a fresh
// cookie-jar-backed http.Client, so sessions are never shared across
// accounts.
type Client struct {
	baseURL string
	timeout time.Duration
}

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	normalized, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL: normalized,
		timeout: timeout,
	}, nil
}

// SignIn performs the login and check-in exchange for one account and
// converts everything that can go wrong into outcome data. It never returns
// an error: transport failures, unparseable bodies and portal rejections
// all come back as a failed SignInOutcome with Detail explaining why.
func (c *Client) SignIn(ctx context.Context, account domain.Account) domain.SignInOutcome {
	outcome := domain.SignInOutcome{DisplayID: accounts.Mask(account.Email)}

	jar, err := cookiejar.New(nil)
	if err != nil {
		outcome.Detail = fmt.Sprintf("create cookie jar: %v", err)
		return outcome
	}
	session := &http.Client{Timeout: c.timeout, Jar: jar}

	form := url.Values{}
	form.Set("email", account.Email)
	form.Set("passwd", account.Password)

	raw, err := c.post(ctx, session, loginPath, form)
	if err != nil {
		outcome.Detail = err.Error()
		return outcome
	}

	resp, ok := parseResponse(raw)
	if !ok || !bool(resp.Ret) {
		if ok && strings.TrimSpace(resp.Msg) != "" {
			outcome.Detail = strings.TrimSpace(resp.Msg)
		} else {
			outcome.Detail = truncate(string(raw))
		}
		return outcome
	}

	outcome.LoginSucceeded = true
	outcome.CheckinAttempted = true

	raw, err = c.post(ctx, session, checkinPath, nil)
	if err != nil {
		// A transport error cannot be attributed to a protocol step, so it
		// is reported at the login level.
		return domain.SignInOutcome{DisplayID: outcome.DisplayID, Detail: err.Error()}
	}

	resp, ok = parseResponse(raw)
	if !ok {
		// Malformed bodies never get the benefit of redundancy
		// classification.
		outcome.Detail = truncate(string(raw))
		return outcome
	}

	msg := strings.TrimSpace(resp.Msg)
	switch Classify(resp) {
	case domain.ClassificationSuccess:
		outcome.CheckinSucceeded = true
		outcome.Detail = msg
	case domain.ClassificationRedundant:
		outcome.CheckinSucceeded = true
		outcome.WasRedundant = true
		outcome.Detail = msg
	default:
		if msg != "" {
			outcome.Detail = msg
		} else {
			outcome.Detail = truncate(string(raw))
		}
	}
	return outcome
}

func (c *Client) post(ctx context.Context, session *http.Client, path string, form url.Values) ([]byte, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Origin", c.baseURL)
	req.Header.Set("Referer", c.baseURL+loginPath)
	req.Header.Set("User-Agent", userAgent)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := session.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return nil, fmt.Errorf("execute request: %s", urlErr.Err)
		}
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return raw, nil
}

func normalizeBaseURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", errors.New("portal base URL is required")
	}

	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid portal base URL: %w", err)
	}

	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid portal base URL: %s", raw)
	}

	parsed.Path = strings.TrimSuffix(parsed.Path, "/")
	parsed.RawQuery = ""
	parsed.Fragment = ""

	return strings.TrimSuffix(parsed.String(), "/"), nil
}
