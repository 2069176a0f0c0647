package model

type Role string

const (
	RoleAssistant Role = "ASSISTANT"
	RoleEngineer  Role = "ENGINEER"
	RoleChief     Role = "CHIEF"
	RoleLeader    Role = "LEADER"
)

var RoleLabels = map[Role]string{
	RoleAssistant: "监理员",
	RoleEngineer:  "专业监理工程师",
	RoleChief:     "总监理工程师",
	RoleLeader:    "公司领导",
}

type ReportStatus string

const (
	StatusPending  ReportStatus = "PENDING"
	StatusApproved ReportStatus = "APPROVED"
	StatusRejected ReportStatus = "REJECTED"
)

type ProjectStatus string

const (
	ProjectInProgress ProjectStatus = "IN_PROGRESS"
	ProjectCompleted  ProjectStatus = "COMPLETED"
)

type ClockType string

const (
	ClockIn  ClockType = "CLOCK_IN"
	ClockOut ClockType = "CLOCK_OUT"
)

type Project struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Location string        `json:"location"`
	Status   ProjectStatus `json:"status"`
}

// User is the stored record. Password holds a bcrypt hash and must not leave the service;
// handlers return Profile instead.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	Password  string `json:"password,omitempty"`
	Role      Role   `json:"role"`
	ProjectID string `json:"projectId,omitempty"`
}

type Profile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	Role      Role   `json:"role"`
	RoleLabel string `json:"roleLabel"`
	ProjectID string `json:"projectId,omitempty"`
}

func (u User) Profile() Profile {
	return Profile{
		ID: u.ID, Name: u.Name, Username: u.Username,
		Role: u.Role, RoleLabel: RoleLabels[u.Role], ProjectID: u.ProjectID,
	}
}

type Announcement struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Images      []string `json:"images"`
	PublishDate string   `json:"publishDate"`
	Author      string   `json:"author"`
}

type AttendanceRecord struct {
	ID        string    `json:"id,omitempty"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	ProjectID string    `json:"projectId"`
	Time      string    `json:"time"`
	Type      ClockType `json:"type"`
	Location  string    `json:"location"`
}

// Snapshot is the aggregate of the five remote collections.
type Snapshot struct {
	Reports       []Report           `json:"reports"`
	Announcements []Announcement     `json:"announcements"`
	Projects      []Project          `json:"projects"`
	Users         []User             `json:"users"`
	Attendance    []AttendanceRecord `json:"attendance"`
}
