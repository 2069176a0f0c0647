package attendance

import (
	"testing"

	"github.com/6045054-web/CHENGHUI/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeSingleUserTwoClocks(t *testing.T) {
	projects := []model.Project{{ID: "P1"}, {ID: "P2"}}
	users := []model.User{{ID: "U1", ProjectID: "P1"}, {ID: "U2", ProjectID: "P1"}}
	records := []model.AttendanceRecord{
		{UserID: "U1", ProjectID: "P1", Time: "2025-01-01 08:00", Type: model.ClockIn},
		{UserID: "U1", ProjectID: "P1", Time: "2025-01-01 17:00", Type: model.ClockOut},
	}

	s := Summarize(projects, users, records, "2025-01-01")
	p1, ok := s.Project("P1")
	require.True(t, ok)
	assert.Equal(t, 1, p1.PresentCount)
	assert.Equal(t, 2, p1.TotalAssigned)
	assert.InDelta(t, 0.5, p1.Ratio(), 1e-9)
	assert.Equal(t, 1, s.TotalPresent)
	assert.Equal(t, "P1", s.Projects[0].ProjectID)

	detail := Detail(p1)
	require.Len(t, detail, 1)
	assert.Equal(t, "2025-01-01 08:00", detail[0].First.Time)
	assert.Equal(t, "2025-01-01 17:00", detail[0].Latest.Time)
	assert.False(t, detail[0].OnSite)
}

func TestSummarizeFiltersAndDrops(t *testing.T) {
	projects := []model.Project{{ID: "P1"}, {ID: "P2"}}
	users := []model.User{{ID: "U1", ProjectID: "P2"}, {ID: "U9"}}
	records := []model.AttendanceRecord{
		{UserID: "U1", ProjectID: "P2", Time: "2024-12-31 08:00"},
		{UserID: "U1", ProjectID: "P2", Time: "2025-01-01 08:00", Type: model.ClockIn},
		{UserID: "U7", ProjectID: "GONE", Time: "2025-01-01 09:00"},
	}

	s := Summarize(projects, users, records, "2025-01-01")
	require.Len(t, s.Projects, 2)
	assert.Equal(t, "P2", s.Projects[0].ProjectID)
	assert.Len(t, s.Projects[0].Records, 1)
	assert.Equal(t, 2, s.TotalPresent)

	p1, _ := s.Project("P1")
	assert.Zero(t, p1.TotalAssigned)
	assert.Zero(t, p1.Ratio())
	assert.False(t, p1.Full())
	assert.Empty(t, Detail(p1))

	_, ok := s.Project("GONE")
	assert.False(t, ok)
}

func TestSummarizeStableOnTies(t *testing.T) {
	projects := []model.Project{{ID: "A"}, {ID: "B"}, {ID: "C"}}
	records := []model.AttendanceRecord{
		{UserID: "U1", ProjectID: "C", Time: "2025-01-01 08:00"},
	}
	s := Summarize(projects, nil, records, "2025-01-01")
	var ids []string
	for _, p := range s.Projects {
		ids = append(ids, p.ProjectID)
	}
	assert.Equal(t, []string{"C", "A", "B"}, ids)
}

func TestDetailOrdersPerUser(t *testing.T) {
	s := ProjectSummary{Records: []model.AttendanceRecord{
		{UserID: "U2", UserName: "李四", Time: "2025-01-01 09:00", Type: model.ClockIn},
		{UserID: "U1", UserName: "张三", Time: "2025-01-01 12:00", Type: model.ClockIn},
		{UserID: "U2", UserName: "李四", Time: "2025-01-01 07:30", Type: model.ClockIn},
	}}
	d := Detail(s)
	require.Len(t, d, 2)
	assert.Equal(t, "U2", d[0].UserID)
	assert.Equal(t, "2025-01-01 07:30", d[0].First.Time)
	assert.Equal(t, "2025-01-01 09:00", d[0].Latest.Time)
	assert.True(t, d[0].OnSite)
	assert.Equal(t, "张三", d[1].UserName)
}

func TestFull(t *testing.T) {
	assert.True(t, ProjectSummary{TotalAssigned: 2, PresentCount: 2}.Full())
	assert.False(t, ProjectSummary{TotalAssigned: 2, PresentCount: 1}.Full())
}
