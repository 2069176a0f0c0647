package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/6045054-web/CHENGHUI/internal/logger"
	"github.com/6045054-web/CHENGHUI/internal/model"

	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type reportRow struct {
	ID           string `gorm:"primaryKey;size:64"`
	Type         string `gorm:"size:32;index"`
	ProjectID    string `gorm:"size:64;index"`
	AuthorID     string `gorm:"size:64"`
	AuthorName   string `gorm:"size:64"`
	Content      string `gorm:"type:text"`
	Details      datatypes.JSON
	Date         string `gorm:"size:10;index"`
	Status       string `gorm:"size:16;index"`
	IsImportant  bool
	AuditComment string `gorm:"type:text"`
}

func (reportRow) TableName() string { return TableReports }

type projectRow struct {
	ID       string `gorm:"primaryKey;size:64"`
	Name     string `gorm:"size:128"`
	Location string `gorm:"size:255"`
	Status   string `gorm:"size:16"`
}

func (projectRow) TableName() string { return TableProjects }

type userRow struct {
	ID        string `gorm:"primaryKey;size:64"`
	Name      string `gorm:"size:64"`
	Username  string `gorm:"size:64;uniqueIndex"`
	Password  string `gorm:"size:128"`
	Role      string `gorm:"size:16"`
	ProjectID string `gorm:"size:64;index"`
}

func (userRow) TableName() string { return TableUsers }

type announcementRow struct {
	ID          string `gorm:"primaryKey;size:64"`
	Title       string `gorm:"size:255"`
	Content     string `gorm:"type:text"`
	Images      datatypes.JSON
	PublishDate string `gorm:"size:10;index"`
	Author      string `gorm:"size:64"`
}

func (announcementRow) TableName() string { return TableAnnouncements }

type attendanceRow struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	UserID    string `gorm:"size:64;index"`
	UserName  string `gorm:"size:64"`
	ProjectID string `gorm:"size:64;index"`
	Time      string `gorm:"size:19;index"`
	Type      string `gorm:"size:16"`
	Location  string `gorm:"size:255"`
}

func (attendanceRow) TableName() string { return TableAttendance }

// SQLStore keeps the collections in a relational database. Details and image lists are JSON
// columns; writes are upserts keyed on id.
type SQLStore struct {
	db *gorm.DB
}

func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

// FetchAll reads the five tables concurrently. A failed read degrades to an empty list.
func (s *SQLStore) FetchAll(ctx context.Context) model.Snapshot {
	snap := emptySnapshot()
	db := s.db.WithContext(ctx)
	var g errgroup.Group
	read := func(table string, fn func() error) {
		g.Go(func() error {
			if err := fn(); err != nil {
				logger.Warn("sql.fetch_degraded", "table", table, "err", err)
			}
			return nil
		})
	}

	read(TableReports, func() error {
		var rows []reportRow
		if err := db.Order("date desc").Find(&rows).Error; err != nil {
			return err
		}
		for _, r := range rows {
			snap.Reports = append(snap.Reports, r.toModel())
		}
		return nil
	})
	read(TableAnnouncements, func() error {
		var rows []announcementRow
		if err := db.Order("publish_date desc").Find(&rows).Error; err != nil {
			return err
		}
		for _, a := range rows {
			snap.Announcements = append(snap.Announcements, a.toModel())
		}
		return nil
	})
	read(TableProjects, func() error {
		var rows []projectRow
		if err := db.Find(&rows).Error; err != nil {
			return err
		}
		for _, p := range rows {
			snap.Projects = append(snap.Projects, model.Project{ID: p.ID, Name: p.Name, Location: p.Location, Status: model.ProjectStatus(p.Status)})
		}
		return nil
	})
	read(TableUsers, func() error {
		var rows []userRow
		if err := db.Find(&rows).Error; err != nil {
			return err
		}
		for _, u := range rows {
			snap.Users = append(snap.Users, u.toModel())
		}
		return nil
	})
	read(TableAttendance, func() error {
		var rows []attendanceRow
		if err := db.Order("time desc").Limit(AttendanceWindow).Find(&rows).Error; err != nil {
			return err
		}
		for _, a := range rows {
			snap.Attendance = append(snap.Attendance, model.AttendanceRecord{
				ID: strconv.FormatUint(uint64(a.ID), 10), UserID: a.UserID, UserName: a.UserName,
				ProjectID: a.ProjectID, Time: a.Time, Type: model.ClockType(a.Type), Location: a.Location,
			})
		}
		return nil
	})
	g.Wait()
	return snap
}

func (s *SQLStore) FindUser(ctx context.Context, username string) (*model.User, error) {
	var row userRow
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u := row.toModel()
	return &u, nil
}

// ListUsers reads the full users table.
func (s *SQLStore) ListUsers(ctx context.Context) ([]model.User, error) {
	var rows []userRow
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]model.User, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}

func (s *SQLStore) upsert(ctx context.Context, row any) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(row).Error
}

func (s *SQLStore) SaveReport(ctx context.Context, r model.Report) error {
	r.Normalize()
	details, err := json.Marshal(r.Details)
	if err != nil {
		return err
	}
	return s.upsert(ctx, &reportRow{
		ID: r.ID, Type: string(r.Type), ProjectID: r.ProjectID, AuthorID: r.AuthorID,
		AuthorName: r.AuthorName, Content: r.Content, Details: datatypes.JSON(details),
		Date: r.Date, Status: string(r.Status), IsImportant: r.IsImportant, AuditComment: r.AuditComment,
	})
}

func (s *SQLStore) SaveProject(ctx context.Context, p model.Project) error {
	return s.upsert(ctx, &projectRow{ID: p.ID, Name: p.Name, Location: p.Location, Status: string(p.Status)})
}

func (s *SQLStore) SaveUser(ctx context.Context, u model.User) error {
	return s.upsert(ctx, &userRow{
		ID: u.ID, Name: u.Name, Username: u.Username, Password: u.Password,
		Role: string(u.Role), ProjectID: u.ProjectID,
	})
}

func (s *SQLStore) SaveAnnouncement(ctx context.Context, a model.Announcement) error {
	images := a.Images
	if images == nil {
		images = []string{}
	}
	raw, err := json.Marshal(images)
	if err != nil {
		return err
	}
	return s.upsert(ctx, &announcementRow{
		ID: a.ID, Title: a.Title, Content: a.Content, Images: datatypes.JSON(raw),
		PublishDate: a.PublishDate, Author: a.Author,
	})
}

// SaveAttendance appends a clock event; attendance is never updated.
func (s *SQLStore) SaveAttendance(ctx context.Context, a model.AttendanceRecord) error {
	return s.db.WithContext(ctx).Create(&attendanceRow{
		UserID: a.UserID, UserName: a.UserName, ProjectID: a.ProjectID,
		Time: a.Time, Type: string(a.Type), Location: a.Location,
	}).Error
}

func (s *SQLStore) DeleteProject(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&projectRow{}, "id = ?", id).Error
}

func (s *SQLStore) DeleteUser(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&userRow{}, "id = ?", id).Error
}

func (s *SQLStore) DeleteAnnouncement(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&announcementRow{}, "id = ?", id).Error
}

func (r reportRow) toModel() model.Report {
	t := model.ReportType(r.Type)
	return model.Report{
		ID: r.ID, Type: t, ProjectID: r.ProjectID, AuthorID: r.AuthorID, AuthorName: r.AuthorName,
		Content: r.Content, Details: model.DecodeDetails(t, json.RawMessage(r.Details)),
		Date: r.Date, Status: model.ReportStatus(r.Status), IsImportant: r.IsImportant,
		AuditComment: r.AuditComment,
	}
}

func (u userRow) toModel() model.User {
	return model.User{
		ID: u.ID, Name: u.Name, Username: u.Username, Password: u.Password,
		Role: model.Role(u.Role), ProjectID: u.ProjectID,
	}
}

func (a announcementRow) toModel() model.Announcement {
	images := []string{}
	if len(a.Images) > 0 {
		_ = json.Unmarshal(a.Images, &images)
	}
	return model.Announcement{
		ID: a.ID, Title: a.Title, Content: a.Content, Images: images,
		PublishDate: a.PublishDate, Author: a.Author,
	}
}

var _ Store = (*SQLStore)(nil)
