package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Details is the type-specific payload of a Report. Each report type has its own struct;
// unknown types use GenericDetails.
type Details interface {
	Media() *Attachments
}

type File struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
	Data string `json:"data"`
}

type Attachments struct {
	Images []string `json:"images"`
	Files  []File   `json:"files"`
}

func (a *Attachments) Media() *Attachments { return a }

type GenericDetails struct {
	Attachments
}

type DailyLog struct {
	Attachments
	Weather     string `json:"weather"`
	Temp        string `json:"temp"`
	Progress    string `json:"progress"`
	Supervision string `json:"supervision"`
}

type SideStation struct {
	Attachments
	KeyPart       string `json:"keyPart"`
	Contractor    string `json:"contractor"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	ProcessDetail string `json:"processDetail"`
}

type Witness struct {
	Attachments
	WitnessItem   string `json:"witnessItem"`
	WitnessDate   string `json:"witnessDate"`
	Part          string `json:"part"`
	Spec          string `json:"spec"`
	WitnessResult string `json:"witnessResult"`
}

type Notice struct {
	Attachments
	NoticeTitle  string `json:"noticeTitle"`
	Contractor   string `json:"contractor"`
	Findings     string `json:"findings"`
	Requirements string `json:"requirements"`
}

type Minutes struct {
	Attachments
	MeetingTitle string `json:"meetingTitle"`
	Host         string `json:"host"`
	Recorder     string `json:"recorder"`
	Attendees    string `json:"attendees"`
	MinutesBody  string `json:"minutesBody"`
}

type Monthly struct {
	Attachments
	ReportMonth     string `json:"reportMonth"`
	ProgressSummary string `json:"progressSummary"`
	QualitySummary  string `json:"qualitySummary"`
	SafetySummary   string `json:"safetySummary"`
	NextPlan        string `json:"nextPlan"`
}

type MajorEvent struct {
	Attachments
	EventCategory string `json:"eventCategory"`
	EventDesc     string `json:"eventDesc"`
	ActionsTaken  string `json:"actionsTaken"`
}

type DangerousWork struct {
	Attachments
	PartName    string `json:"partName"`
	HazardLevel string `json:"hazardLevel"`
	Findings    string `json:"findings"`
	Actions     string `json:"actions"`
}

type ChiefInspection struct {
	Attachments
	Focus        string `json:"focus"`
	Evaluation   string `json:"evaluation"`
	Instructions string `json:"instructions"`
}

type ExpenseReimbursement struct {
	Attachments
	Category          string `json:"category"`
	Amount            Amount `json:"amount"`
	ReimbursementDesc string `json:"reimbursementDesc"`
}

type SafetyInspection struct {
	Attachments
	Focus        string `json:"focus"`
	Findings     string `json:"findings"`
	Requirements string `json:"requirements"`
}

type SafetyLog struct {
	Attachments
	Weather      string `json:"weather"`
	SafetyStatus string `json:"safetyStatus"`
	Progress     string `json:"progress"`
	Briefing     string `json:"briefing"`
}

type JointSafetyCheck struct {
	Attachments
	Participants  string `json:"participants"`
	Deadline      string `json:"deadline"`
	ProblemList   string `json:"problemList"`
	Rectification string `json:"rectification"`
}

type SupervisionRules struct {
	Attachments
	RuleTitle    string `json:"ruleTitle"`
	RuleCategory string `json:"ruleCategory"`
	Description  string `json:"description"`
}

// NewDetails returns an empty payload for t.
func NewDetails(t ReportType) Details {
	switch t {
	case DailyLogType:
		return &DailyLog{}
	case SideStationType:
		return &SideStation{}
	case WitnessType:
		return &Witness{}
	case NoticeType:
		return &Notice{}
	case MinutesType:
		return &Minutes{}
	case MonthlyType:
		return &Monthly{}
	case MajorEventType:
		return &MajorEvent{}
	case DangerousWorkType:
		return &DangerousWork{}
	case ChiefInspectionType:
		return &ChiefInspection{}
	case ExpenseReimbursementType:
		return &ExpenseReimbursement{}
	case SafetyInspectionType:
		return &SafetyInspection{}
	case SafetyLogType:
		return &SafetyLog{}
	case JointSafetyCheckType:
		return &JointSafetyCheck{}
	case SupervisionRulesType:
		return &SupervisionRules{}
	default:
		return &GenericDetails{}
	}
}

// DecodeDetails parses raw into the payload for t. Malformed input yields the empty
// payload so a single bad row never hides the rest of a listing.
func DecodeDetails(t ReportType, raw json.RawMessage) Details {
	d := NewDetails(t)
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return d
	}
	if err := json.Unmarshal(raw, d); err != nil {
		return NewDetails(t)
	}
	return d
}

// DetailsFromValues builds the payload for t from loosely typed form values.
func DetailsFromValues(t ReportType, values map[string]any) (Details, error) {
	if len(values) == 0 {
		return NewDetails(t), nil
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	d := NewDetails(t)
	if err := json.Unmarshal(raw, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Amount accepts finite numbers and numeric strings. Anything else leaves it unset.
type Amount struct {
	Value float64
	Set   bool
}

func NewAmount(v float64) Amount { return Amount{Value: v, Set: true} }

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Set || !finite(a.Value) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, a.Value, 'f', -1, 64), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	*a = Amount{}
	s := strings.TrimSpace(string(data))
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return nil
		}
		s = strings.TrimSpace(str)
	}
	if s == "" || s == "null" {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && finite(f) {
		*a = Amount{Value: f, Set: true}
	}
	return nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
