package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/jonathan/jobhunt-tracker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var now = time.Date(2026, 4, 8, 15, 0, 0, 0, time.UTC)

func at(t time.Time) *time.Time { return &t }

func sampleCompanies() []types.Company {
	return []types.Company{
		{
			ID:            "acme",
			Name:          "Acme",
			Industry:      "IT",
			CurrentStatus: types.StatusInterview1,
			Priority:      types.PriorityHigh,
			Favorite:      true,
			UpdatedAt:     now,
			SelectionSteps: []types.SelectionStep{
				{ID: "s1", Name: "ES提出", Status: types.StepCompleted, Deadline: at(now.AddDate(0, 0, -3)), Order: 0},
				{ID: "s2", Name: "一次面接", Status: types.StepScheduled, ScheduledDate: at(now.AddDate(0, 0, 1)), Notes: "オンライン", Order: 1},
			},
		},
		{
			ID:            "globex",
			Name:          "Globex",
			CurrentStatus: types.StatusInterested,
			Priority:      types.PriorityLow,
			UpdatedAt:     now.Add(-time.Hour),
			SelectionSteps: []types.SelectionStep{
				{ID: "s1", Name: "ES提出", Deadline: at(now.AddDate(0, 0, 20)), Order: 0},
			},
		},
	}
}

func readBack(t *testing.T, companies []types.Company) *excelize.File {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, companies, now))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestWrite_Sheets(t *testing.T) {
	f := readBack(t, sampleCompanies())
	assert.Equal(t, []string{CompaniesSheet, ScheduleSheet}, f.GetSheetList())
}

func TestWrite_CompaniesSheet(t *testing.T) {
	f := readBack(t, sampleCompanies())

	rows, err := f.GetRows(CompaniesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, CompanyHeaders, rows[0])
	assert.Equal(t, []string{"Acme", "IT", "一次面接", "高", "★", "1/2", "一次面接", "2026/04/09 15:00", "2026/04/08 15:00"}, rows[1])
	assert.Equal(t, "Globex", rows[2][0])
	assert.Equal(t, "興味あり", rows[2][2])
	assert.Equal(t, "0/1", rows[2][5])
}

func TestWrite_ScheduleSheet(t *testing.T) {
	f := readBack(t, sampleCompanies())

	rows, err := f.GetRows(ScheduleSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3, "past deadline is dropped")
	assert.Equal(t, ScheduleHeaders, rows[0])
	assert.Equal(t, []string{"2026/04/09 15:00", "明日", "面接", "Acme", "一次面接", "オンライン"}, rows[1])
	assert.Equal(t, []string{"2026/04/28 15:00", "来月以降", "締切", "Globex", "ES提出 締切"}, rows[2])
}

func TestWrite_Empty(t *testing.T) {
	f := readBack(t, nil)

	rows, err := f.GetRows(CompaniesSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{CompanyHeaders}, rows)

	rows, err = f.GetRows(ScheduleSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{ScheduleHeaders}, rows)
}
