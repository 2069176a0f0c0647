package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/6045054-web/CHENGHUI/internal/model"
	"github.com/6045054-web/CHENGHUI/internal/report"
)

var errRemote = errors.New("remote down")

// memStore is an in-memory gateway.Store that records writes and can be told to fail.
type memStore struct {
	mu     sync.Mutex
	snap   model.Snapshot
	writes []string
	fail   error
}

func newMemStore(snap model.Snapshot) *memStore { return &memStore{snap: snap} }

func (m *memStore) FetchAll(ctx context.Context) model.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return model.Snapshot{
		Reports:       append([]model.Report{}, m.snap.Reports...),
		Announcements: append([]model.Announcement{}, m.snap.Announcements...),
		Projects:      append([]model.Project{}, m.snap.Projects...),
		Users:         append([]model.User{}, m.snap.Users...),
		Attendance:    append([]model.AttendanceRecord{}, m.snap.Attendance...),
	}
}

func (m *memStore) FindUser(ctx context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	for _, u := range m.snap.Users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListUsers(ctx context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.User{}, m.snap.Users...), nil
}

func (m *memStore) record(op string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.writes = append(m.writes, op)
	return nil
}

func (m *memStore) SaveReport(ctx context.Context, r model.Report) error {
	if err := m.record("report:" + r.ID); err != nil {
		return err
	}
	m.mu.Lock()
	m.snap.Reports = upsert(m.snap.Reports, r, reportKey)
	m.mu.Unlock()
	return nil
}

func (m *memStore) SaveProject(ctx context.Context, p model.Project) error {
	return m.record("project:" + p.ID)
}

func (m *memStore) SaveUser(ctx context.Context, u model.User) error {
	if err := m.record("user:" + u.ID); err != nil {
		return err
	}
	m.mu.Lock()
	m.snap.Users = upsert(m.snap.Users, u, userKey)
	m.mu.Unlock()
	return nil
}

func (m *memStore) SaveAnnouncement(ctx context.Context, a model.Announcement) error {
	return m.record("announcement:" + a.ID)
}

func (m *memStore) SaveAttendance(ctx context.Context, a model.AttendanceRecord) error {
	return m.record("attendance:" + a.UserID)
}

func (m *memStore) DeleteProject(ctx context.Context, id string) error {
	return m.record("-project:" + id)
}

func (m *memStore) DeleteUser(ctx context.Context, id string) error {
	return m.record("-user:" + id)
}

func (m *memStore) DeleteAnnouncement(ctx context.Context, id string) error {
	return m.record("-announcement:" + id)
}

func (m *memStore) Writes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.writes...)
}

type fakeAssistant struct {
	draft    string
	summary  string
	err      error
	keywords string
	field    string
	got      []model.Report
}

func (f *fakeAssistant) GenerateDraft(ctx context.Context, t model.ReportType, field, keywords string) (string, error) {
	f.field, f.keywords = field, keywords
	return f.draft, f.err
}

func (f *fakeAssistant) SummarizeHazards(ctx context.Context, reports []model.Report) (string, error) {
	f.got = reports
	return f.summary, f.err
}

var (
	assistant = model.User{ID: "U1", Name: "张三", Username: "zs", Role: model.RoleAssistant, ProjectID: "P1"}
	engineer  = model.User{ID: "U2", Name: "李四", Username: "ls", Role: model.RoleEngineer, ProjectID: "P1"}
	chief     = model.User{ID: "U3", Name: "王总监", Username: "wz", Role: model.RoleChief, ProjectID: "P1"}
	leader    = model.User{ID: "U4", Name: "赵领导", Username: "zl", Role: model.RoleLeader}
)

func fixture() model.Snapshot {
	return model.Snapshot{
		Projects: []model.Project{
			{ID: "P1", Name: "滨江花园", Location: "杭州", Status: model.ProjectInProgress},
			{ID: "P2", Name: "城北中学", Location: "宁波", Status: model.ProjectInProgress},
		},
		Users: []model.User{assistant, engineer, chief, leader},
	}
}

var fixedNow = time.Date(2025, 3, 8, 9, 30, 0, 0, time.UTC)

func newTestEditor() *report.Editor {
	e := report.NewEditor("P001", time.UTC)
	e.Now = func() time.Time { return fixedNow }
	return e
}

// loaded returns a workspace already refreshed from store.
func loaded(store *memStore) *Workspace {
	ws := NewWorkspace(store)
	ws.Refresh(context.Background())
	return ws
}

type memFile struct {
	name, ctype, data string
}

func (f memFile) Name() string        { return f.name }
func (f memFile) ContentType() string { return f.ctype }
func (f memFile) Size() int64         { return int64(len(f.data)) }
func (f memFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(f.data)), nil
}
