package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/6045054-web/CHENGHUI/internal/gateway"
	"github.com/6045054-web/CHENGHUI/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspaceRefreshAndFilters(t *testing.T) {
	snap := fixture()
	snap.Reports = []model.Report{
		{ID: "R1", Type: model.DailyLogType, ProjectID: "P1", AuthorID: "U1", Date: "2025-03-01", Status: model.StatusApproved},
		{ID: "R3", Type: model.NoticeType, ProjectID: "P2", AuthorID: "U2", Date: "2025-03-02", Status: model.StatusPending, IsImportant: true},
		{ID: "R2", Type: model.DailyLogType, ProjectID: "P1", AuthorID: "U1", Date: "2025-03-02", Status: model.StatusPending},
	}
	ws := NewWorkspace(newMemStore(snap))
	assert.True(t, ws.LoadedAt().IsZero())
	ws.Refresh(context.Background())
	assert.False(t, ws.LoadedAt().IsZero())

	ids := func(rs []model.Report) []string {
		out := []string{}
		for _, r := range rs {
			out = append(out, r.ID)
		}
		return out
	}
	assert.Equal(t, []string{"R3", "R2", "R1"}, ids(ws.Reports(ReportFilter{})))
	assert.Equal(t, []string{"R2", "R1"}, ids(ws.Reports(ReportFilter{ProjectID: "P1"})))
	assert.Equal(t, []string{"R3", "R2"}, ids(ws.Reports(ReportFilter{Status: model.StatusPending})))
	assert.Equal(t, []string{"R3"}, ids(ws.Reports(ReportFilter{Important: true})))
	assert.Equal(t, []string{"R2", "R1"}, ids(ws.Reports(ReportFilter{Type: model.DailyLogType, AuthorID: "U1"})))
	assert.Empty(t, ws.Reports(ReportFilter{ProjectID: "P9"}))
}

func TestWorkspaceSnapshotIsACopy(t *testing.T) {
	ws := loaded(newMemStore(fixture()))
	s := ws.Snapshot()
	s.Projects[0].Name = "changed"
	assert.Equal(t, "滨江花园", ws.ProjectName("P1"))
	assert.Equal(t, "P404", ws.ProjectName("P404"))
}

func TestWorkspaceFoldBack(t *testing.T) {
	ws := loaded(newMemStore(fixture()))

	ws.putProject(model.Project{ID: "P1", Name: "滨江花园二期"})
	ws.putProject(model.Project{ID: "P3", Name: "新项目"})
	assert.Equal(t, "滨江花园二期", ws.ProjectName("P1"))
	assert.Equal(t, "P3", ws.Snapshot().Projects[0].ID)

	ws.dropUser("U1")
	_, ok := ws.User("U1")
	assert.False(t, ok)

	for i := 0; i < gateway.AttendanceWindow+5; i++ {
		ws.addAttendance(model.AttendanceRecord{UserID: fmt.Sprint(i)})
	}
	att := ws.Snapshot().Attendance
	require.Len(t, att, gateway.AttendanceWindow)
	assert.Equal(t, fmt.Sprint(gateway.AttendanceWindow+4), att[0].UserID)
}

func TestWorkspaceConcurrentAccess(t *testing.T) {
	ws := loaded(newMemStore(fixture()))
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			ws.putReport(model.Report{ID: fmt.Sprintf("R%d", i)})
		}(i)
		go func() {
			defer wg.Done()
			_ = ws.Reports(ReportFilter{})
		}()
	}
	wg.Wait()
	assert.Len(t, ws.Reports(ReportFilter{}), 20)
}
