package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/6045054-web/CHENGHUI/internal/model"
)

var (
	ErrForbidden   = errors.New("当前岗位无权填报该类文书")
	ErrUnknownType = errors.New("未知的文书类型")
	ErrBadDraft    = errors.New("文书内容格式不正确")
)

// AttachmentFallback is the content of a report whose text lives only in its attachments.
const AttachmentFallback = "详见附件"

const previewID = "TEMP"

// Draft is the editor state of a report before submission.
type Draft struct {
	Type    model.ReportType `json:"type"`
	Content string           `json:"content"`
	Values  map[string]any   `json:"values"`
	Images  []string         `json:"images"`
	Files   []model.File     `json:"files"`
}

// Keywords is the context handed to the drafting assistant: the typed-in values without
// attachment payloads.
func (d Draft) Keywords() string {
	ctx := map[string]any{}
	for k, v := range d.Values {
		if k == "images" || k == "files" {
			continue
		}
		if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
			continue
		}
		ctx[k] = v
	}
	if d.Content != "" {
		ctx[ContentKey] = d.Content
	}
	if len(ctx) == 0 {
		return "根据现场实际情况填报"
	}
	b, _ := json.Marshal(ctx)
	return string(b)
}

// ApplyAssist writes assistant output into the field mapped for the draft's type.
func (d *Draft) ApplyAssist(text string) {
	key := Lookup(d.Type).AssistField
	if key == ContentKey {
		d.Content = text
		return
	}
	if d.Values == nil {
		d.Values = map[string]any{}
	}
	d.Values[key] = text
}

type Editor struct {
	DefaultProjectID string
	Now              func() time.Time
}

func NewEditor(defaultProjectID string, loc *time.Location) *Editor {
	return &Editor{
		DefaultProjectID: defaultProjectID,
		Now:              func() time.Time { return time.Now().In(loc) },
	}
}

// ProjectOf is the project u works on, or the default project for unassigned staff.
func (e *Editor) ProjectOf(u model.User) string {
	if u.ProjectID != "" {
		return u.ProjectID
	}
	return e.DefaultProjectID
}

// Submit turns a draft into a new PENDING report authored by author.
func (e *Editor) Submit(author model.User, d Draft) (model.Report, error) {
	if !d.Type.Known() {
		return model.Report{}, ErrUnknownType
	}
	if !CanWrite(author.Role, d.Type) {
		return model.Report{}, ErrForbidden
	}
	now := e.Now()
	return e.build(author, d, model.NewID("R", now), model.DateOf(now))
}

// Preview builds the unsaved report shown in the A4 preview.
func (e *Editor) Preview(author model.User, d Draft) (model.Report, error) {
	if d.Type.Known() && !CanWrite(author.Role, d.Type) {
		return model.Report{}, ErrForbidden
	}
	return e.build(author, d, previewID, model.DateOf(e.Now()))
}

func (e *Editor) build(author model.User, d Draft, id, date string) (model.Report, error) {
	values := Lookup(d.Type).Defaults()
	for k, v := range d.Values {
		values[k] = v
	}
	details, err := model.DetailsFromValues(d.Type, values)
	if err != nil {
		return model.Report{}, fmt.Errorf("%w: %v", ErrBadDraft, err)
	}
	media := details.Media()
	if len(d.Images) > 0 {
		media.Images = append(media.Images, d.Images...)
	}
	if len(d.Files) > 0 {
		media.Files = append(media.Files, d.Files...)
	}

	return model.Report{
		ID:          id,
		Type:        d.Type,
		ProjectID:   e.ProjectOf(author),
		AuthorID:    author.ID,
		AuthorName:  author.Name,
		Content:     deriveContent(d.Content, details),
		Details:     details,
		Date:        date,
		Status:      model.StatusPending,
		IsImportant: IsImportant(d.Type),
	}, nil
}

// deriveContent picks the first non-empty of: free text, description, progress, findings.
func deriveContent(content string, d model.Details) string {
	var description, progress, findings string
	switch v := d.(type) {
	case *model.SupervisionRules:
		description = v.Description
	case *model.DailyLog:
		progress = v.Progress
	case *model.SafetyLog:
		progress = v.Progress
	case *model.Notice:
		findings = v.Findings
	case *model.SafetyInspection:
		findings = v.Findings
	case *model.DangerousWork:
		findings = v.Findings
	}
	for _, s := range []string{content, description, progress, findings} {
		if s != "" {
			return s
		}
	}
	return AttachmentFallback
}
