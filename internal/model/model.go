package model

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string  `json:"token"`
	User  Profile `json:"user"`
}

type PasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

type ReviewRequest struct {
	Comment string `json:"comment"`
}

type ClockRequest struct {
	Type     ClockType `json:"type"`
	Location string    `json:"location"`
}

type DashboardStats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Important int `json:"important"`
}

type Dashboard struct {
	User          Profile        `json:"user"`
	ProjectName   string         `json:"projectName"`
	Stats         DashboardStats `json:"stats"`
	Announcements []Announcement `json:"announcements"`
}

type Briefing struct {
	Summary     string `json:"summary"`
	ReportCount int    `json:"reportCount"`
	GeneratedAt string `json:"generatedAt"`
}
