// Package report derives the run verdict from the outcome list and renders
// the operator-facing notification text. All remote-controlled text is
// HTML-escaped before interpolation so a hostile portal message cannot break
// the notification markup.
package report

import (
	"fmt"
	"html"
	"strings"
	"time"

	"checkinbot/internal/domain"
)

// displayZone is the fixed reporting timezone. The portal resets its
// check-in day on Beijing time, so timestamps are shown there regardless of
// where the runner executes.
var displayZone = time.FixedZone("UTC+8", 8*60*60)

// HardFailures returns the sub-sequence of outcomes that must fail the run,
// preserving input order. Redundant check-ins are never included.
func HardFailures(outcomes []domain.SignInOutcome) []domain.SignInOutcome {
	var failed []domain.SignInOutcome
	for _, o := range outcomes {
		if o.HardFailure() {
			failed = append(failed, o)
		}
	}
	return failed
}

// Render builds the full notification payload: one summary block followed
// by one card per outcome in cards, joined by blank lines. The block
// separator doubles as the preferred split point for chunked delivery.
func Render(title string, all, cards []domain.SignInOutcome, runLink string) string {
	blocks := make([]string, 0, len(cards)+1)
	blocks = append(blocks, FormatSummary(title, all, runLink))
	for _, o := range cards {
		blocks = append(blocks, FormatCard(o))
	}
	return strings.Join(blocks, "\n\n")
}

// FormatCard renders one per-account report block.
func FormatCard(o domain.SignInOutcome) string {
	ok := o.LoginSucceeded && o.CheckinSucceeded

	icon := "🟥"
	if ok {
		icon = "🟩"
	}

	lines := []string{
		icon,
		"────────────",
		fmt.Sprintf("👤 <b>账号</b>：%s", html.EscapeString(o.DisplayID)),
	}

	if !o.LoginSucceeded {
		lines = append(lines, "🔐 <b>登录</b>：❌ 失败", "📝 <b>签到</b>：⏸ 未执行")
		if o.Detail != "" {
			lines = append(lines, fmt.Sprintf("📌 <b>原因</b>：%s", html.EscapeString(o.Detail)))
		}
		lines = append(lines, timeLine(o.Timestamp))
		return strings.Join(lines, "\n")
	}

	lines = append(lines, "🔐 <b>登录</b>：✅ 成功")

	switch {
	case o.CheckinSucceeded && o.WasRedundant:
		lines = append(lines, "📝 <b>签到</b>：✅ 成功（已签到过）")
		if o.Detail != "" {
			lines = append(lines, fmt.Sprintf("🗒️ <b>备注</b>：%s", html.EscapeString(o.Detail)))
		}
	case o.CheckinSucceeded:
		// A fresh success needs no note even when the portal sent one.
		lines = append(lines, "📝 <b>签到</b>：✅ 成功")
	default:
		lines = append(lines, "📝 <b>签到</b>：❌ 失败")
		if o.Detail != "" {
			lines = append(lines, fmt.Sprintf("📌 <b>原因</b>：%s", html.EscapeString(o.Detail)))
		}
	}

	lines = append(lines, timeLine(o.Timestamp))
	return strings.Join(lines, "\n")
}

// FormatSummary renders the run-level block: success counts, the overall
// verdict and, when the run-link context is known, a link back to the run.
func FormatSummary(title string, outcomes []domain.SignInOutcome, runLink string) string {
	failed := len(HardFailures(outcomes))
	total := len(outcomes)
	ok := total - failed

	icon := "🟥"
	status := fmt.Sprintf("❌ 失败 %d/%d", failed, total)
	if failed == 0 {
		icon = "🟩"
		status = "✅ 全部成功"
	}

	link := ""
	if runLink != "" {
		link = fmt.Sprintf("\n🔗 <a href=\"%s\">查看运行详情</a>", html.EscapeString(runLink))
	}

	return fmt.Sprintf("%s <b>%s</b>\n✅ 成功：%d/%d  ·  %s%s",
		icon, html.EscapeString(title), ok, total, status, link)
}

func timeLine(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	stamp := t.In(displayZone).Format("2006-01-02 15:04:05") + " (UTC+8)"
	return fmt.Sprintf("🕒 <b>签到时间</b>：%s", stamp)
}
