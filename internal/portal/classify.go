package portal

import (
	"bytes"
	"encoding/json"
	"strings"

	"checkinbot/internal/domain"
)

// maxDetailLen bounds how much raw response text is carried into an outcome
// when the portal gives no usable message.
const maxDetailLen = 300

// actionKeywords mark that the message is about the check-in action at all.
var actionKeywords = []string{"签到", "check"}

// redundancyKeywords mark that the action was already performed earlier.
// The set is deliberately loose: the portal phrases "already checked in"
// many different ways and a missed match turns a benign condition into a
// reported failure.
var redundancyKeywords = []string{
	"已经", "已", "签到过", "今日", "今天", "似乎已经", "重复", "领取过",
	"already", "previously", "duplicate",
}

// Classify decides whether a parsed check-in response represents a fresh
// success, an "already checked in" success, or a real failure. It is a pure
// function over the response; bodies that failed to parse never reach it.
func Classify(resp *domain.APIResponse) domain.Classification {
	if bool(resp.Ret) {
		return domain.ClassificationSuccess
	}
	if isAlreadyCheckedIn(resp.Msg) {
		return domain.ClassificationRedundant
	}
	return domain.ClassificationFailure
}

func isAlreadyCheckedIn(msg string) bool {
	m := strings.ToLower(strings.TrimSpace(msg))
	if m == "" {
		return false
	}

	action := false
	for _, kw := range actionKeywords {
		if strings.Contains(m, kw) {
			action = true
			break
		}
	}
	if !action {
		return false
	}

	for _, kw := range redundancyKeywords {
		if strings.Contains(m, kw) {
			return true
		}
	}
	return false
}

// parseResponse decodes the portal envelope. ok is false when the body is
// not a JSON object at all, in which case the caller must treat the
// response as a failure regardless of content.
func parseResponse(raw []byte) (*domain.APIResponse, bool) {
	trimmed := bytes.TrimSpace(raw)
	// json.Unmarshal accepts "null" into a struct; only an object counts
	// as a parseable envelope.
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var resp domain.APIResponse
	if err := json.Unmarshal(trimmed, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

// truncate bounds free-text detail to maxDetailLen characters without
// splitting a multi-byte rune.
func truncate(s string) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= maxDetailLen {
		return s
	}
	return string(runes[:maxDetailLen])
}
