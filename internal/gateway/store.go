// Package gateway persists the five collections of the platform: reports, projects, users,
// announcements and attendance. Rest talks to a PostgREST (Supabase) endpoint, SQLStore to a
// database through gorm.
package gateway

import (
	"context"

	"github.com/6045054-web/CHENGHUI/internal/model"
)

// Collection tables.
const (
	TableReports       = "reports"
	TableAnnouncements = "announcements"
	TableProjects      = "projects"
	TableUsers         = "users"
	TableAttendance    = "attendance"
)

// AttendanceWindow caps how many attendance rows FetchAll loads.
const AttendanceWindow = 200

type Store interface {
	// FetchAll never fails; a collection that cannot be read comes back empty.
	FetchAll(ctx context.Context) model.Snapshot
	// FindUser returns nil without error when username does not exist.
	FindUser(ctx context.Context, username string) (*model.User, error)
	// ListUsers reads every account including the stored password column.
	ListUsers(ctx context.Context) ([]model.User, error)

	SaveReport(ctx context.Context, r model.Report) error
	SaveProject(ctx context.Context, p model.Project) error
	SaveUser(ctx context.Context, u model.User) error
	SaveAnnouncement(ctx context.Context, a model.Announcement) error
	SaveAttendance(ctx context.Context, a model.AttendanceRecord) error

	DeleteProject(ctx context.Context, id string) error
	DeleteUser(ctx context.Context, id string) error
	DeleteAnnouncement(ctx context.Context, id string) error
}

func emptySnapshot() model.Snapshot {
	return model.Snapshot{
		Reports:       []model.Report{},
		Announcements: []model.Announcement{},
		Projects:      []model.Project{},
		Users:         []model.User{},
		Attendance:    []model.AttendanceRecord{},
	}
}
