package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/6045054-web/CHENGHUI/internal/gateway"
	"github.com/6045054-web/CHENGHUI/internal/logger"
	"github.com/6045054-web/CHENGHUI/internal/model"
	"github.com/6045054-web/CHENGHUI/internal/render"
	"github.com/6045054-web/CHENGHUI/internal/report"
)

// DefaultRejectComment is stored when a reviewer rejects without a comment.
const DefaultRejectComment = "需补充现场照片和具体防范方案"

const latestAnnouncements = 3

// FieldService backs the field work console: drafting, submission, review and clocking.
type FieldService struct {
	ws      *Workspace
	store   gateway.Store
	editor  *report.Editor
	ai      Assistant
	uploads report.Mode
}

func NewFieldService(ws *Workspace, store gateway.Store, editor *report.Editor, ai Assistant, ordered bool) *FieldService {
	mode := report.Concurrent
	if ordered {
		mode = report.Ordered
	}
	return &FieldService{ws: ws, store: store, editor: editor, ai: ai, uploads: mode}
}

func (s *FieldService) Schemas(u model.User) []report.Schema {
	return report.Authorable(u.Role)
}

// Preview renders the draft as it would be printed, without saving it.
func (s *FieldService) Preview(u model.User, d report.Draft) ([]byte, error) {
	r, err := s.editor.Preview(u, d)
	if err != nil {
		return nil, err
	}
	return render.Render(r, s.ws.ProjectName(r.ProjectID))
}

// Assist asks the assistant for text and writes it into the draft's assist field.
func (s *FieldService) Assist(ctx context.Context, u model.User, d report.Draft) (report.Draft, error) {
	if d.Type.Known() && !report.CanWrite(u.Role, d.Type) {
		return d, ErrForbidden
	}
	field := report.Lookup(d.Type).AssistField
	text, err := s.ai.GenerateDraft(ctx, d.Type, field, d.Keywords())
	if err != nil {
		return d, err
	}
	d.ApplyAssist(text)
	logger.Info("report.assist", "uid", u.ID, "type", d.Type, "field", field)
	return d, nil
}

func (s *FieldService) Submit(ctx context.Context, u model.User, d report.Draft) (model.Report, error) {
	r, err := s.editor.Submit(u, d)
	if err != nil {
		return model.Report{}, err
	}
	if err := s.store.SaveReport(ctx, r); err != nil {
		logger.Error("report.submit_failed", "uid", u.ID, "type", r.Type, "err", err)
		return model.Report{}, fmt.Errorf("save report: %w", err)
	}
	s.ws.putReport(r)
	logger.Info("report.submit", "id", r.ID, "uid", u.ID, "type", r.Type, "important", r.IsImportant)
	return r, nil
}

func (s *FieldService) Reports(f ReportFilter) []model.Report {
	return s.ws.Reports(f)
}

func (s *FieldService) Report(id string) (model.Report, error) {
	r, ok := s.ws.Report(id)
	if !ok {
		return model.Report{}, ErrNotFound
	}
	return r, nil
}

// Print renders a stored report.
func (s *FieldService) Print(id string) ([]byte, error) {
	r, err := s.Report(id)
	if err != nil {
		return nil, err
	}
	return render.Render(r, s.ws.ProjectName(r.ProjectID))
}

// Upload encodes attachments into inline data URLs.
func (s *FieldService) Upload(ctx context.Context, images, files []report.Source) (model.Attachments, error) {
	var out model.Attachments
	var err error
	if out.Images, err = report.EncodeImages(ctx, images, s.uploads); err != nil {
		return model.Attachments{}, err
	}
	if out.Files, err = report.EncodeFiles(ctx, files, s.uploads); err != nil {
		return model.Attachments{}, err
	}
	return out, nil
}

// ReviewQueue lists reports waiting for the reviewer.
func (s *FieldService) ReviewQueue(u model.User) ([]model.Report, error) {
	if !report.CanReview(u.Role) {
		return nil, ErrForbidden
	}
	return s.ws.Reports(ReportFilter{Status: model.StatusPending}), nil
}

func (s *FieldService) Approve(ctx context.Context, u model.User, id string) (model.Report, error) {
	return s.review(ctx, u, id, model.StatusApproved, "")
}

func (s *FieldService) Reject(ctx context.Context, u model.User, id, comment string) (model.Report, error) {
	if strings.TrimSpace(comment) == "" {
		comment = DefaultRejectComment
	}
	return s.review(ctx, u, id, model.StatusRejected, comment)
}

func (s *FieldService) review(ctx context.Context, u model.User, id string, status model.ReportStatus, comment string) (model.Report, error) {
	if !report.CanReview(u.Role) {
		return model.Report{}, ErrForbidden
	}
	r, err := s.Report(id)
	if err != nil {
		return model.Report{}, err
	}
	r.Status = status
	r.AuditComment = comment
	if err := s.store.SaveReport(ctx, r); err != nil {
		return model.Report{}, fmt.Errorf("save review: %w", err)
	}
	s.ws.putReport(r)
	logger.Info("report.review", "id", id, "reviewer", u.ID, "status", status)
	return r, nil
}

// Dashboard summarizes the reports visible to u: everything for reviewers, the own project
// otherwise.
func (s *FieldService) Dashboard(u model.User) model.Dashboard {
	f := ReportFilter{}
	if !report.CanReview(u.Role) {
		f.ProjectID = s.editor.ProjectOf(u)
	}
	var stats model.DashboardStats
	for _, r := range s.ws.Reports(f) {
		stats.Total++
		if r.Status == model.StatusPending {
			stats.Pending++
			if r.IsImportant {
				stats.Important++
			}
		}
	}
	return model.Dashboard{
		User:          u.Profile(),
		ProjectName:   s.ws.ProjectName(s.editor.ProjectOf(u)),
		Stats:         stats,
		Announcements: LatestAnnouncements(s.ws.Snapshot().Announcements, latestAnnouncements),
	}
}

// LatestAnnouncements orders by publish date then id, both descending, and keeps n.
func LatestAnnouncements(list []model.Announcement, n int) []model.Announcement {
	out := append([]model.Announcement{}, list...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PublishDate != out[j].PublishDate {
			return out[i].PublishDate > out[j].PublishDate
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Clock records a clock-in or clock-out for u.
func (s *FieldService) Clock(ctx context.Context, u model.User, req model.ClockRequest) (model.AttendanceRecord, error) {
	if req.Type != model.ClockIn && req.Type != model.ClockOut {
		return model.AttendanceRecord{}, invalid("无效的打卡类型")
	}
	rec := model.AttendanceRecord{
		UserID:    u.ID,
		UserName:  u.Name,
		ProjectID: s.editor.ProjectOf(u),
		Time:      model.StampOf(s.editor.Now()),
		Type:      req.Type,
		Location:  req.Location,
	}
	if err := s.store.SaveAttendance(ctx, rec); err != nil {
		return model.AttendanceRecord{}, fmt.Errorf("save attendance: %w", err)
	}
	s.ws.addAttendance(rec)
	logger.Info("attendance.clock", "uid", u.ID, "type", req.Type, "project", rec.ProjectID)
	return rec, nil
}
