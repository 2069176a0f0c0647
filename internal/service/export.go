package service

import (
	"fmt"
	"io"

	"github.com/6045054-web/CHENGHUI/internal/model"
	"github.com/6045054-web/CHENGHUI/internal/report"

	"github.com/xuri/excelize/v2"
)

const ledgerSheet = "文书台账"

var ledgerHeaders = []string{"编号", "日期", "文书类型", "项目", "填报人", "状态", "重大事项", "摘要", "审核意见", "照片数", "附件数"}

var statusLabels = map[model.ReportStatus]string{
	model.StatusPending:  "待审核",
	model.StatusApproved: "已通过",
	model.StatusRejected: "已驳回",
}

// ExportLedger writes the reports matching f as an .xlsx workbook.
func (s *AdminService) ExportLedger(w io.Writer, f ReportFilter) (int, error) {
	reports := s.ws.Reports(f)
	file, err := buildLedger(reports, s.ws.ProjectName)
	if err != nil {
		return 0, err
	}
	defer file.Close()
	if _, err := file.WriteTo(w); err != nil {
		return 0, fmt.Errorf("write ledger: %w", err)
	}
	return len(reports), nil
}

// ledgerWidths are the column widths, keyed by first and last column.
var ledgerWidths = []struct {
	from, to string
	width    float64
}{
	{"A", "A", 26},
	{"B", "G", 14},
	{"H", "I", 48},
}

func buildLedger(reports []model.Report, projectName func(string) string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := fillLedger(f, reports, projectName); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func fillLedger(f *excelize.File, reports []model.Report, projectName func(string) string) error {
	index, err := f.NewSheet(ledgerSheet)
	if err != nil {
		return fmt.Errorf("ledger sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("ledger sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1E3A8A"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("ledger header style: %w", err)
	}
	if err := f.SetSheetRow(ledgerSheet, "A1", &ledgerHeaders); err != nil {
		return fmt.Errorf("ledger header: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(ledgerHeaders), 1)
	if err != nil {
		return fmt.Errorf("ledger header: %w", err)
	}
	if err := f.SetCellStyle(ledgerSheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("ledger header style: %w", err)
	}
	for _, w := range ledgerWidths {
		if err := f.SetColWidth(ledgerSheet, w.from, w.to, w.width); err != nil {
			return fmt.Errorf("ledger column %s: %w", w.from, err)
		}
	}

	for i, r := range reports {
		media := r.Media()
		important := ""
		if r.IsImportant {
			important = "是"
		}
		row := []any{
			r.ID, r.Date, report.Label(r.Type), projectName(r.ProjectID), r.AuthorName,
			statusLabels[r.Status], important, r.Content, r.AuditComment,
			len(media.Images), len(media.Files),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("ledger row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(ledgerSheet, cell, &row); err != nil {
			return fmt.Errorf("ledger row %d: %w", i+2, err)
		}
	}
	return nil
}
