package service

import (
	"bytes"
	"testing"

	"github.com/6045054-web/CHENGHUI/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportLedger(t *testing.T) {
	snap := fixture()
	snap.Reports = []model.Report{
		{ID: "R1", Type: model.NoticeType, ProjectID: "P1", AuthorName: "李四", Date: "2025-03-02",
			Status: model.StatusPending, IsImportant: true, Content: "临边防护缺失",
			Details: &model.Notice{Attachments: model.Attachments{Images: []string{"data:image/png;base64,AA=="}}}},
		{ID: "R2", Type: model.DailyLogType, ProjectID: "P2", AuthorName: "张三", Date: "2025-03-01",
			Status: model.StatusApproved, Content: "二层砌体", Details: &model.DailyLog{}},
	}
	svc, _ := newAdmin(newMemStore(snap), &fakeAssistant{})

	var buf bytes.Buffer
	n, err := svc.ExportLedger(&buf, ReportFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ledgerSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, ledgerHeaders, rows[0])
	assert.Equal(t, []string{"R1", "2025-03-02", "监理通知单", "滨江花园", "李四", "待审核", "是", "临边防护缺失", "", "1", "0"}, rows[1])
	assert.Equal(t, "城北中学", rows[2][3])
	assert.Equal(t, "已通过", rows[2][5])

	styleID, err := f.GetCellStyle(ledgerSheet, "K1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)

	width, err := f.GetColWidth(ledgerSheet, "H")
	require.NoError(t, err)
	assert.Equal(t, 48.0, width)
	assert.Equal(t, []string{ledgerSheet}, f.GetSheetList())
}

func TestExportLedgerFiltered(t *testing.T) {
	snap := fixture()
	snap.Reports = []model.Report{
		{ID: "R1", ProjectID: "P1", Status: model.StatusPending, Details: &model.GenericDetails{}},
		{ID: "R2", ProjectID: "P2", Status: model.StatusPending, Details: &model.GenericDetails{}},
	}
	svc, _ := newAdmin(newMemStore(snap), &fakeAssistant{})

	var buf bytes.Buffer
	n, err := svc.ExportLedger(&buf, ReportFilter{ProjectID: "P2"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
