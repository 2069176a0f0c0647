// Package attendance rolls the day's clock events up per project and per person.
package attendance

import (
	"sort"
	"strings"

	"github.com/6045054-web/CHENGHUI/internal/model"
)

type ProjectSummary struct {
	ProjectID     string                   `json:"projectId"`
	ProjectName   string                   `json:"projectName"`
	Location      string                   `json:"location"`
	TotalAssigned int                      `json:"totalAssigned"`
	PresentCount  int                      `json:"presentCount"`
	Present       []string                 `json:"presentUserIds"`
	Records       []model.AttendanceRecord `json:"records"`
}

// Ratio is the share of assigned staff on site; zero when nobody is assigned.
func (s ProjectSummary) Ratio() float64 {
	if s.TotalAssigned <= 0 {
		return 0
	}
	return float64(s.PresentCount) / float64(s.TotalAssigned)
}

// Full reports whether every assigned person has clocked in today.
func (s ProjectSummary) Full() bool {
	return s.TotalAssigned > 0 && s.PresentCount == s.TotalAssigned
}

type Summary struct {
	Date         string           `json:"date"`
	TotalPresent int              `json:"totalPresent"`
	Projects     []ProjectSummary `json:"projects"`
}

// Project returns the summary of one project.
func (s Summary) Project(id string) (ProjectSummary, bool) {
	for _, p := range s.Projects {
		if p.ProjectID == id {
			return p, true
		}
	}
	return ProjectSummary{}, false
}

// Summarize aggregates the records stamped on today (YYYY-MM-DD). Records of projects not in
// projects are dropped; summaries are ordered by presence, ties keep project order.
func Summarize(projects []model.Project, users []model.User, records []model.AttendanceRecord, today string) Summary {
	index := make(map[string]int, len(projects))
	out := make([]ProjectSummary, len(projects))
	seen := make([]map[string]bool, len(projects))
	for i, p := range projects {
		index[p.ID] = i
		seen[i] = map[string]bool{}
		out[i] = ProjectSummary{ProjectID: p.ID, ProjectName: p.Name, Location: p.Location}
	}
	for _, u := range users {
		if i, ok := index[u.ProjectID]; ok && u.ProjectID != "" {
			out[i].TotalAssigned++
		}
	}

	everyone := map[string]bool{}
	for _, r := range records {
		if !strings.HasPrefix(r.Time, today) {
			continue
		}
		everyone[r.UserID] = true
		i, ok := index[r.ProjectID]
		if !ok {
			continue
		}
		if !seen[i][r.UserID] {
			seen[i][r.UserID] = true
			out[i].Present = append(out[i].Present, r.UserID)
		}
		out[i].Records = append(out[i].Records, r)
	}
	for i := range out {
		out[i].PresentCount = len(out[i].Present)
	}

	sort.SliceStable(out, func(a, b int) bool { return out[a].PresentCount > out[b].PresentCount })
	return Summary{Date: today, TotalPresent: len(everyone), Projects: out}
}

type UserPresence struct {
	UserID   string                   `json:"userId"`
	UserName string                   `json:"userName"`
	First    model.AttendanceRecord   `json:"first"`
	Latest   model.AttendanceRecord   `json:"latest"`
	OnSite   bool                     `json:"onSite"`
	Records  []model.AttendanceRecord `json:"records"`
}

// Detail groups a project's records per person, newest first.
func Detail(s ProjectSummary) []UserPresence {
	byUser := map[string][]model.AttendanceRecord{}
	var order []string
	for _, r := range s.Records {
		if _, ok := byUser[r.UserID]; !ok {
			order = append(order, r.UserID)
		}
		byUser[r.UserID] = append(byUser[r.UserID], r)
	}

	out := make([]UserPresence, 0, len(order))
	for _, uid := range order {
		recs := byUser[uid]
		sort.SliceStable(recs, func(a, b int) bool { return recs[a].Time > recs[b].Time })
		latest := recs[0]
		out = append(out, UserPresence{
			UserID:   uid,
			UserName: latest.UserName,
			First:    recs[len(recs)-1],
			Latest:   latest,
			OnSite:   latest.Type == model.ClockIn,
			Records:  recs,
		})
	}
	return out
}
