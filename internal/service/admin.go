package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/6045054-web/CHENGHUI/internal/attendance"
	"github.com/6045054-web/CHENGHUI/internal/gateway"
	"github.com/6045054-web/CHENGHUI/internal/logger"
	"github.com/6045054-web/CHENGHUI/internal/model"
)

const (
	announcementAuthor = "管理总部"
	CalmBriefing       = "当前所有项目运行平稳，暂无重大安全预警。"
)

// AdminService backs the leadership console: master data, attendance and risk briefing.
type AdminService struct {
	ws    *Workspace
	store gateway.Store
	ai    Assistant
	now   func() time.Time

	mu       sync.Mutex
	briefing *model.Briefing
}

func NewAdminService(ws *Workspace, store gateway.Store, ai Assistant, loc *time.Location) *AdminService {
	return &AdminService{
		ws:    ws,
		store: store,
		ai:    ai,
		now:   func() time.Time { return time.Now().In(loc) },
	}
}

func (s *AdminService) Projects() []model.Project {
	return s.ws.Snapshot().Projects
}

func (s *AdminService) SaveProject(ctx context.Context, p model.Project) (model.Project, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Location = strings.TrimSpace(p.Location)
	if p.Name == "" || p.Location == "" {
		return model.Project{}, invalid("请完整填写项目名称和地理位置")
	}
	if p.ID == "" {
		p.ID = model.NewID("P", s.now())
	}
	if p.Status == "" {
		p.Status = model.ProjectInProgress
	}
	if p.Status != model.ProjectInProgress && p.Status != model.ProjectCompleted {
		return model.Project{}, invalid("无效的项目状态")
	}
	if err := s.store.SaveProject(ctx, p); err != nil {
		return model.Project{}, fmt.Errorf("save project: %w", err)
	}
	s.ws.putProject(p)
	logger.Info("project.save", "id", p.ID, "name", p.Name)
	return p, nil
}

func (s *AdminService) DeleteProject(ctx context.Context, id string) error {
	if _, ok := s.ws.Project(id); !ok {
		return ErrNotFound
	}
	if err := s.store.DeleteProject(ctx, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	s.ws.dropProject(id)
	logger.Info("project.delete", "id", id)
	return nil
}

// UserInput is an admin edit of a staff account. Password is plaintext and optional on update.
type UserInput struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Username  string     `json:"username"`
	Password  string     `json:"password"`
	Role      model.Role `json:"role"`
	ProjectID string     `json:"projectId"`
}

func (s *AdminService) Users() []model.Profile {
	users := s.ws.Snapshot().Users
	out := make([]model.Profile, 0, len(users))
	for _, u := range users {
		out = append(out, u.Profile())
	}
	return out
}

func (s *AdminService) SaveUser(ctx context.Context, in UserInput) (model.Profile, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Username = strings.TrimSpace(in.Username)

	var u model.User
	if in.ID == "" {
		if in.Name == "" || in.Username == "" || in.Password == "" {
			return model.Profile{}, invalid("请填写完整的人员姓名、工号和初始密码")
		}
		if _, taken := s.ws.UserByUsername(in.Username); taken {
			return model.Profile{}, invalid("该工号已被占用")
		}
		u = model.User{ID: model.NewID("U", s.now()), Username: in.Username}
	} else {
		existing, ok := s.ws.User(in.ID)
		if !ok {
			return model.Profile{}, ErrNotFound
		}
		if in.Name == "" {
			return model.Profile{}, invalid("请填写完整的人员姓名、工号和初始密码")
		}
		// 工号一经设定不可修改
		u = existing
	}

	if in.Role == "" {
		in.Role = model.RoleAssistant
	}
	if _, ok := model.RoleLabels[in.Role]; !ok {
		return model.Profile{}, invalid("无效的岗位角色")
	}
	u.Name = in.Name
	u.Role = in.Role
	u.ProjectID = in.ProjectID
	if in.Password != "" {
		hash, err := HashPassword(in.Password)
		if err != nil {
			return model.Profile{}, err
		}
		u.Password = hash
	}

	if err := s.store.SaveUser(ctx, u); err != nil {
		return model.Profile{}, fmt.Errorf("save user: %w", err)
	}
	s.ws.putUser(u)
	logger.Info("user.save", "id", u.ID, "username", u.Username, "role", u.Role)
	return u.Profile(), nil
}

func (s *AdminService) DeleteUser(ctx context.Context, id string) error {
	if _, ok := s.ws.User(id); !ok {
		return ErrNotFound
	}
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.ws.dropUser(id)
	logger.Info("user.delete", "id", id)
	return nil
}

func (s *AdminService) Announcements() []model.Announcement {
	list := s.ws.Snapshot().Announcements
	return LatestAnnouncements(list, len(list))
}

func (s *AdminService) PublishAnnouncement(ctx context.Context, a model.Announcement) (model.Announcement, error) {
	a.Title = strings.TrimSpace(a.Title)
	if a.Title == "" || strings.TrimSpace(a.Content) == "" {
		return model.Announcement{}, invalid("请填写公告标题和正文内容")
	}
	now := s.now()
	if a.ID == "" {
		a.ID = model.NewID("A", now)
	}
	a.PublishDate = model.DateOf(now)
	a.Author = announcementAuthor
	if a.Images == nil {
		a.Images = []string{}
	}
	if err := s.store.SaveAnnouncement(ctx, a); err != nil {
		return model.Announcement{}, fmt.Errorf("save announcement: %w", err)
	}
	s.ws.putAnnouncement(a)
	logger.Info("announcement.publish", "id", a.ID, "title", a.Title)
	return a, nil
}

func (s *AdminService) DeleteAnnouncement(ctx context.Context, id string) error {
	if err := s.store.DeleteAnnouncement(ctx, id); err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	s.ws.dropAnnouncement(id)
	logger.Info("announcement.delete", "id", id)
	return nil
}

// Attendance summarizes today's clock events per project.
func (s *AdminService) Attendance() attendance.Summary {
	snap := s.ws.Snapshot()
	return attendance.Summarize(snap.Projects, snap.Users, snap.Attendance, model.DateOf(s.now()))
}

func (s *AdminService) AttendanceDetail(projectID string) ([]attendance.UserPresence, error) {
	p, ok := s.Attendance().Project(projectID)
	if !ok {
		return nil, ErrNotFound
	}
	return attendance.Detail(p), nil
}

// RiskReports are the important reports still waiting for review.
func (s *AdminService) RiskReports() []model.Report {
	return s.ws.Reports(ReportFilter{Status: model.StatusPending, Important: true})
}

// Briefing produces the AI risk digest over RiskReports and caches it.
func (s *AdminService) Briefing(ctx context.Context) (model.Briefing, error) {
	reports := s.RiskReports()
	b := model.Briefing{ReportCount: len(reports), GeneratedAt: model.StampOf(s.now())}
	if len(reports) == 0 {
		b.Summary = CalmBriefing
	} else {
		summary, err := s.ai.SummarizeHazards(ctx, reports)
		if err != nil {
			logger.Warn("briefing.failed", "reports", len(reports), "err", err)
			return model.Briefing{}, err
		}
		b.Summary = summary
	}

	s.mu.Lock()
	s.briefing = &b
	s.mu.Unlock()
	logger.Info("briefing.generated", "reports", b.ReportCount)
	return b, nil
}

// LastBriefing returns the cached digest, if any.
func (s *AdminService) LastBriefing() (model.Briefing, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.briefing == nil {
		return model.Briefing{}, false
	}
	return *s.briefing, true
}

func (s *AdminService) Refresh(ctx context.Context) model.Snapshot {
	return s.ws.Refresh(ctx)
}
