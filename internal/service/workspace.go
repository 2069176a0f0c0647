package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/6045054-web/CHENGHUI/internal/gateway"
	"github.com/6045054-web/CHENGHUI/internal/logger"
	"github.com/6045054-web/CHENGHUI/internal/model"
)

// Workspace is the in-memory view of the five collections. It is loaded from the store and
// updated only after a remote write succeeds.
type Workspace struct {
	store gateway.Store

	mu       sync.RWMutex
	snap     model.Snapshot
	loadedAt time.Time
}

func NewWorkspace(store gateway.Store) *Workspace {
	return &Workspace{store: store}
}

// Refresh replaces the view with a fresh FetchAll.
func (w *Workspace) Refresh(ctx context.Context) model.Snapshot {
	snap := w.store.FetchAll(ctx)
	w.mu.Lock()
	w.snap = snap
	w.loadedAt = time.Now()
	w.mu.Unlock()
	logger.Info("workspace.refresh",
		"reports", len(snap.Reports), "projects", len(snap.Projects), "users", len(snap.Users),
		"announcements", len(snap.Announcements), "attendance", len(snap.Attendance))
	return w.Snapshot()
}

func (w *Workspace) LoadedAt() time.Time {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.loadedAt
}

// Snapshot returns a copy that callers may modify.
func (w *Workspace) Snapshot() model.Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return model.Snapshot{
		Reports:       append([]model.Report{}, w.snap.Reports...),
		Announcements: append([]model.Announcement{}, w.snap.Announcements...),
		Projects:      append([]model.Project{}, w.snap.Projects...),
		Users:         append([]model.User{}, w.snap.Users...),
		Attendance:    append([]model.AttendanceRecord{}, w.snap.Attendance...),
	}
}

type ReportFilter struct {
	Status    model.ReportStatus
	ProjectID string
	Type      model.ReportType
	AuthorID  string
	Important bool
}

func (f ReportFilter) match(r model.Report) bool {
	return (f.Status == "" || r.Status == f.Status) &&
		(f.ProjectID == "" || r.ProjectID == f.ProjectID) &&
		(f.Type == "" || r.Type == f.Type) &&
		(f.AuthorID == "" || r.AuthorID == f.AuthorID) &&
		(!f.Important || r.IsImportant)
}

// Reports lists matching reports, newest first.
func (w *Workspace) Reports(f ReportFilter) []model.Report {
	w.mu.RLock()
	out := []model.Report{}
	for _, r := range w.snap.Reports {
		if f.match(r) {
			out = append(out, r)
		}
	}
	w.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (w *Workspace) Report(id string) (model.Report, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, r := range w.snap.Reports {
		if r.ID == id {
			return r, true
		}
	}
	return model.Report{}, false
}

func (w *Workspace) Project(id string) (model.Project, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, p := range w.snap.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return model.Project{}, false
}

// ProjectName falls back to the id for projects the view does not know.
func (w *Workspace) ProjectName(id string) string {
	if p, ok := w.Project(id); ok {
		return p.Name
	}
	return id
}

func (w *Workspace) User(id string) (model.User, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, u := range w.snap.Users {
		if u.ID == id {
			return u, true
		}
	}
	return model.User{}, false
}

func (w *Workspace) UserByUsername(username string) (model.User, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, u := range w.snap.Users {
		if u.Username == username {
			return u, true
		}
	}
	return model.User{}, false
}

// upsert replaces the element with the same id or prepends v.
func upsert[T any](list []T, v T, id func(T) string) []T {
	key := id(v)
	for i := range list {
		if id(list[i]) == key {
			out := append([]T{}, list...)
			out[i] = v
			return out
		}
	}
	return append([]T{v}, list...)
}

func remove[T any](list []T, key string, id func(T) string) []T {
	out := make([]T, 0, len(list))
	for _, v := range list {
		if id(v) != key {
			out = append(out, v)
		}
	}
	return out
}

func reportKey(r model.Report) string             { return r.ID }
func projectKey(p model.Project) string           { return p.ID }
func userKey(u model.User) string                 { return u.ID }
func announcementKey(a model.Announcement) string { return a.ID }

func (w *Workspace) putReport(r model.Report) {
	w.mu.Lock()
	w.snap.Reports = upsert(w.snap.Reports, r, reportKey)
	w.mu.Unlock()
}

func (w *Workspace) putProject(p model.Project) {
	w.mu.Lock()
	w.snap.Projects = upsert(w.snap.Projects, p, projectKey)
	w.mu.Unlock()
}

func (w *Workspace) dropProject(id string) {
	w.mu.Lock()
	w.snap.Projects = remove(w.snap.Projects, id, projectKey)
	w.mu.Unlock()
}

func (w *Workspace) putUser(u model.User) {
	w.mu.Lock()
	w.snap.Users = upsert(w.snap.Users, u, userKey)
	w.mu.Unlock()
}

func (w *Workspace) dropUser(id string) {
	w.mu.Lock()
	w.snap.Users = remove(w.snap.Users, id, userKey)
	w.mu.Unlock()
}

func (w *Workspace) putAnnouncement(a model.Announcement) {
	w.mu.Lock()
	w.snap.Announcements = upsert(w.snap.Announcements, a, announcementKey)
	w.mu.Unlock()
}

func (w *Workspace) dropAnnouncement(id string) {
	w.mu.Lock()
	w.snap.Announcements = remove(w.snap.Announcements, id, announcementKey)
	w.mu.Unlock()
}

func (w *Workspace) addAttendance(a model.AttendanceRecord) {
	w.mu.Lock()
	w.snap.Attendance = append([]model.AttendanceRecord{a}, w.snap.Attendance...)
	if len(w.snap.Attendance) > gateway.AttendanceWindow {
		w.snap.Attendance = w.snap.Attendance[:gateway.AttendanceWindow]
	}
	w.mu.Unlock()
}
