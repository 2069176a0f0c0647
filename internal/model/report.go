package model

import (
	"encoding/json"
	"reflect"
)

type ReportType string

const (
	DailyLogType             ReportType = "DAILY_LOG"
	SideStationType          ReportType = "SIDE_STATION"
	WitnessType              ReportType = "WITNESS"
	NoticeType               ReportType = "NOTICE"
	MinutesType              ReportType = "MINUTES"
	MonthlyType              ReportType = "MONTHLY"
	MajorEventType           ReportType = "MAJOR_EVENT"
	DangerousWorkType        ReportType = "DANGEROUS_WORK"
	ChiefInspectionType      ReportType = "CHIEF_INSPECTION"
	ExpenseReimbursementType ReportType = "EXPENSE_REIMBURSEMENT"
	SafetyInspectionType     ReportType = "SAFETY_INSPECTION"
	SafetyLogType            ReportType = "SAFETY_LOG"
	JointSafetyCheckType     ReportType = "JOINT_SAFETY_CHECK"
	SupervisionRulesType     ReportType = "SUPERVISION_RULES"
)

// ReportTypes lists every known type in display order.
var ReportTypes = []ReportType{
	DailyLogType, SideStationType, WitnessType, NoticeType, MinutesType, MonthlyType,
	MajorEventType, DangerousWorkType, ChiefInspectionType, ExpenseReimbursementType,
	SafetyInspectionType, SafetyLogType, JointSafetyCheckType, SupervisionRulesType,
}

func (t ReportType) Known() bool {
	for _, k := range ReportTypes {
		if k == t {
			return true
		}
	}
	return false
}

type Report struct {
	ID           string       `json:"id"`
	Type         ReportType   `json:"type"`
	ProjectID    string       `json:"projectId"`
	AuthorID     string       `json:"authorId"`
	AuthorName   string       `json:"authorName"`
	Content      string       `json:"content"`
	Details      Details      `json:"details"`
	Date         string       `json:"date"`
	Status       ReportStatus `json:"status"`
	IsImportant  bool         `json:"isImportant"`
	AuditComment string       `json:"auditComment,omitempty"`
}

type reportAlias Report

func (r Report) MarshalJSON() ([]byte, error) {
	if r.Details == nil {
		r.Details = NewDetails(r.Type)
	}
	return json.Marshal(reportAlias(r))
}

// UnmarshalJSON decodes details into the variant selected by type.
func (r *Report) UnmarshalJSON(data []byte) error {
	var aux struct {
		reportAlias
		Details json.RawMessage `json:"details"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = Report(aux.reportAlias)
	r.Details = DecodeDetails(r.Type, aux.Details)
	return nil
}

// Media returns the attachments of the report, never nil.
func (r *Report) Media() *Attachments {
	if r.Details == nil {
		r.Details = NewDetails(r.Type)
	}
	return r.Details.Media()
}

// Normalize re-decodes Details when its variant does not match Type, e.g. after the type
// of a draft was switched.
func (r *Report) Normalize() {
	want := NewDetails(r.Type)
	if r.Details != nil && reflect.TypeOf(r.Details) == reflect.TypeOf(want) {
		return
	}
	if r.Details == nil {
		r.Details = want
		return
	}
	raw, err := json.Marshal(r.Details)
	if err != nil {
		r.Details = want
		return
	}
	r.Details = DecodeDetails(r.Type, raw)
}
