package portal

import (
	"strings"
	"testing"

	"checkinbot/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Run("success sentinel in every encoding", func(t *testing.T) {
		for _, body := range []string{
			`{"ret":1,"msg":"签到成功"}`,
			`{"ret":"1","msg":"签到成功"}`,
			`{"ret":true,"msg":"check-in successful"}`,
		} {
			resp, ok := parseResponse([]byte(body))
			require.True(t, ok, body)
			assert.Equal(t, domain.ClassificationSuccess, Classify(resp), body)
		}
	})

	t.Run("status flag wins over redundant wording", func(t *testing.T) {
		resp, ok := parseResponse([]byte(`{"ret":1,"msg":"您似乎已经签到过了"}`))
		require.True(t, ok)
		assert.Equal(t, domain.ClassificationSuccess, Classify(resp))
	})

	t.Run("redundant chinese messages", func(t *testing.T) {
		for _, msg := range []string{
			"您似乎已经签到过了",
			"今日已签到",
			"今天已经签到啦",
			"重复签到",
			"签到过了，明天再来",
		} {
			resp, ok := parseResponse([]byte(`{"ret":0,"msg":"` + msg + `"}`))
			require.True(t, ok)
			assert.Equal(t, domain.ClassificationRedundant, Classify(resp), msg)
		}
	})

	t.Run("redundant english message", func(t *testing.T) {
		resp, ok := parseResponse([]byte(`{"ret":0,"msg":"You have already checked in today"}`))
		require.True(t, ok)
		assert.Equal(t, domain.ClassificationRedundant, Classify(resp))
	})

	t.Run("genuine failures", func(t *testing.T) {
		for _, msg := range []string{
			"invalid credentials",
			"签到失败，请稍后再试",
			"",
		} {
			resp, ok := parseResponse([]byte(`{"ret":0,"msg":"` + msg + `"}`))
			require.True(t, ok)
			assert.Equal(t, domain.ClassificationFailure, Classify(resp), msg)
		}
	})

	t.Run("redundancy wording without the action keyword fails", func(t *testing.T) {
		resp, ok := parseResponse([]byte(`{"ret":0,"msg":"已经领取过了"}`))
		require.True(t, ok)
		assert.Equal(t, domain.ClassificationFailure, Classify(resp))
	})

	t.Run("pure function", func(t *testing.T) {
		resp, ok := parseResponse([]byte(`{"ret":0,"msg":"今日已签到"}`))
		require.True(t, ok)
		first := Classify(resp)
		second := Classify(resp)
		assert.Equal(t, first, second)
	})
}

func TestParseResponse(t *testing.T) {
	t.Run("rejects non-object bodies", func(t *testing.T) {
		for _, body := range []string{
			"",
			"null",
			"1",
			`"ok"`,
			`[{"ret":1}]`,
			"<html><body>502 Bad Gateway</body></html>",
			`{"ret":1`,
		} {
			_, ok := parseResponse([]byte(body))
			assert.False(t, ok, "body %q", body)
		}
	})

	t.Run("object without ret is a non-success", func(t *testing.T) {
		resp, ok := parseResponse([]byte(`{"msg":"hello"}`))
		require.True(t, ok)
		assert.False(t, bool(resp.Ret))
	})

	t.Run("unknown flag value degrades to non-success", func(t *testing.T) {
		resp, ok := parseResponse([]byte(`{"ret":"yes","msg":"m"}`))
		require.True(t, ok)
		assert.False(t, bool(resp.Ret))
	})
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("签", maxDetailLen+50)
	got := truncate(long)
	assert.Equal(t, maxDetailLen, len([]rune(got)))

	short := "  short  "
	assert.Equal(t, "short", truncate(short))
}
