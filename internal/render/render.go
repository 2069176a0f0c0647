// Package render produces the A4 print/preview documents of supervision reports.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/6045054-web/CHENGHUI/internal/model"
	"github.com/6045054-web/CHENGHUI/internal/report"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	PhotoAppendixTitle = "附：现场影像资料记录"
	Footer             = "本电子文书由成汇数字监理平台加密生成，具有云端存证效力"
	noRecord           = "无详细记录"
)

// layouts maps a report type to its template; everything else uses "generic".
var layouts = map[model.ReportType]string{
	model.DailyLogType:             "daily_log",
	model.SideStationType:          "side_station",
	model.NoticeType:               "notice",
	model.SafetyInspectionType:     "safety_inspection",
	model.SupervisionRulesType:     "supervision_rules",
	model.MonthlyType:              "monthly",
	model.ExpenseReimbursementType: "expense",
	model.MinutesType:              "minutes",
	model.MajorEventType:           "major_event",
	model.DangerousWorkType:        "dangerous_work",
}

var tmpl = template.Must(template.New("render").Funcs(template.FuncMap{
	"dash": dash,
	"none": func(s string) string {
		if strings.TrimSpace(s) == "" {
			return "无"
		}
		return s
	},
	"spaced": func(s string) string { return strings.Join(strings.Split(s, ""), " ") },
}).ParseFS(templateFS, "templates/*.tmpl"))

type photo struct {
	Src     any
	Caption string
}

type page struct {
	Report      model.Report
	D           model.Details
	ProjectName string
	Title       string
	Date        string
	Month       string
	Amount      string
	Content     string
	Photos      []photo
	Files       []model.File
	Footer      string
	Appendix    string
}

// Layout returns the template name used for t.
func Layout(t model.ReportType) string {
	if name, ok := layouts[t]; ok {
		return name
	}
	return "generic"
}

// Render lays out r as a standalone HTML document. Output depends only on its inputs.
func Render(r model.Report, projectName string) ([]byte, error) {
	r.Normalize()
	media := r.Media()
	p := page{
		Report:      r,
		D:           r.Details,
		ProjectName: projectName,
		Title:       report.Label(r.Type),
		Date:        FormatDate(r.Date),
		Content:     r.Content,
		Files:       media.Files,
		Footer:      Footer,
		Appendix:    PhotoAppendixTitle,
	}
	if strings.TrimSpace(p.Content) == "" {
		p.Content = noRecord
	}
	for i, img := range media.Images {
		p.Photos = append(p.Photos, photo{Src: imageSrc(img), Caption: fmt.Sprintf("现场照片 %d", i+1)})
	}
	switch d := r.Details.(type) {
	case *model.Monthly:
		p.Month = FormatMonth(d.ReportMonth)
	case *model.ExpenseReimbursement:
		p.Amount = FormatAmount(d.Amount)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, Layout(r.Type), p); err != nil {
		return nil, fmt.Errorf("render %s: %w", r.Type, err)
	}
	return buf.Bytes(), nil
}

// FormatDate turns "2025-03-07" into "2025年03月07日", filling missing parts with 202X and XX.
func FormatDate(date string) string {
	parts := strings.Split(date, "-")
	return fmt.Sprintf("%s年%s月%s日", part(parts, 0, "202X"), part(parts, 1, "XX"), part(parts, 2, "XX"))
}

// FormatMonth turns "2025-03" into "2025年03月".
func FormatMonth(month string) string {
	parts := strings.Split(month, "-")
	return fmt.Sprintf("%s年%s月", part(parts, 0, "202X"), part(parts, 1, "XX"))
}

var printer = message.NewPrinter(language.SimplifiedChinese)

// FormatAmount groups digits ("12,345.5"); an unset amount prints as "--".
func FormatAmount(a model.Amount) string {
	if !a.Set {
		return "--"
	}
	return printer.Sprint(number.Decimal(a.Value, number.MaxFractionDigits(2)))
}

func part(parts []string, i int, fallback string) string {
	if i < len(parts) && parts[i] != "" {
		return parts[i]
	}
	return fallback
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "--"
	}
	return s
}

// imageSrc whitelists inline image data; html/template would otherwise neutralize data: URLs.
func imageSrc(s string) any {
	if strings.HasPrefix(s, "data:image/") {
		return template.URL(s)
	}
	return s
}
