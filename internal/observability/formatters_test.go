package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/jobhunt-tracker/internal/fetch"
	"github.com/jonathan/jobhunt-tracker/internal/schedule"
	"github.com/jonathan/jobhunt-tracker/internal/types"
	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, 4, 8, 15, 0, 0, 0, time.UTC)

func TestPrintSchedule(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	events := []types.CalendarEvent{
		{CompanyName: "Acme", Title: "一次面接", Type: types.EventInterview, Date: now.AddDate(0, 0, 1)},
		{CompanyName: "Globex", Title: "ES提出 締切", Type: types.EventDeadline, Date: now.AddDate(0, 0, 20)},
	}
	p.PrintSchedule(schedule.GroupUpcoming(events, now), now)
	output := buf.String()

	assert.Contains(t, output, "UPCOMING SCHEDULE")
	assert.Contains(t, output, "明日 (1)")
	assert.Contains(t, output, "! 04/09 15:00 明日 [面接] Acme 一次面接")
	assert.Contains(t, output, "来月以降 (1)")
	assert.Contains(t, output, "[締切] Globex ES提出 締切")
}

func TestPrintSchedule_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintSchedule(nil, now)
	assert.Contains(t, buf.String(), "予定はありません")
}

func TestPrintSchedule_Overflow(t *testing.T) {
	var events []types.CalendarEvent
	for i := 0; i < 8; i++ {
		events = append(events, types.CalendarEvent{CompanyName: "C", Title: "説明会", Date: now.Add(time.Duration(i) * time.Minute)})
	}
	var buf bytes.Buffer
	NewPrinter(&buf).PrintSchedule(schedule.GroupUpcoming(events, now), now)
	assert.Contains(t, buf.String(), "... and 3 more")
}

func TestPrintProbeResults(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintProbeResults([]fetch.ProbeResult{
		{URL: "https://a.example", Alive: true, StatusCode: 200, Method: "HEAD"},
		{URL: "https://b.example", Error: "timeout"},
	})
	output := buf.String()

	assert.Contains(t, output, "✓ https://a.example (200 HEAD)")
	assert.Contains(t, output, "✗ https://b.example (timeout)")
	assert.Contains(t, output, "1/2 reachable")
}

func TestPrintProbeResults_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintProbeResults(nil)
	assert.Empty(t, buf.String())
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintStats(types.CompanyStats{Total: 4, InProgress: 2, Offers: 1, Rejected: 1})
	output := buf.String()
	assert.Contains(t, output, "登録企業: 4")
	assert.Contains(t, output, "内定:     1")
}

func TestPrintBox_AlignsWideText(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).printBox("TITLE", "ascii\n日本語のテキスト")

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	for _, line := range lines {
		assert.Equal(t, boxWidth, displayWidth(line), "line %q", line)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "日本語...", truncate("日本語のテキスト", 10))
	assert.LessOrEqual(t, displayWidth(truncate(strings.Repeat("語", 40), 56)), 56)
}
