package report

import (
	"testing"

	"github.com/6045054-web/CHENGHUI/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryTypeHasSchema(t *testing.T) {
	for _, rt := range model.ReportTypes {
		s := Lookup(rt)
		assert.Equal(t, rt, s.Type)
		assert.NotEqual(t, generic.Label, s.Label, "%s fell back to generic", rt)
		assert.NotEmpty(t, s.Icon.Name, rt)
		require.NotEmpty(t, s.Fields, rt)
		assert.Equal(t, "images", s.Fields[len(s.Fields)-1].Key, "%s should end with the photo gallery", rt)
	}
}

func TestLookupUnknownType(t *testing.T) {
	s := Lookup("PATROL_NOTE")
	assert.Equal(t, model.ReportType("PATROL_NOTE"), s.Type)
	assert.Equal(t, "通用记录", s.Label)
	assert.Equal(t, ContentKey, s.AssistField)
	assert.Equal(t, "PATROL_NOTE", Label("PATROL_NOTE"))
	assert.False(t, IsImportant("PATROL_NOTE"))
}

func TestLookupDoesNotShareFieldSlices(t *testing.T) {
	a := Lookup(model.DailyLogType)
	a.Fields[0].Label = "changed"
	assert.Equal(t, "当日天气", Lookup(model.DailyLogType).Fields[0].Label)
}

func TestAssistTargets(t *testing.T) {
	cases := map[model.ReportType]string{
		model.DailyLogType:             "supervision",
		model.SafetyLogType:            "briefing",
		model.SafetyInspectionType:     "findings",
		model.NoticeType:               "requirements",
		model.SideStationType:          "processDetail",
		model.DangerousWorkType:        "findings",
		model.WitnessType:              "witnessResult",
		model.ChiefInspectionType:      "evaluation",
		model.MajorEventType:           "eventDesc",
		model.JointSafetyCheckType:     "rectification",
		model.MinutesType:              "minutesBody",
		model.MonthlyType:              "qualitySummary",
		model.SupervisionRulesType:     "description",
		model.ExpenseReimbursementType: "reimbursementDesc",
	}
	for rt, want := range cases {
		assert.Equal(t, want, Lookup(rt).AssistField, rt)
	}
}

func TestImportantTypes(t *testing.T) {
	important := []model.ReportType{model.NoticeType, model.MajorEventType, model.DangerousWorkType, model.SupervisionRulesType}
	for _, rt := range model.ReportTypes {
		assert.Equal(t, contains(important, rt), IsImportant(rt), rt)
	}
}

func TestSelectDefaults(t *testing.T) {
	assert.Equal(t, map[string]any{"hazardLevel": "二级"}, Lookup(model.DangerousWorkType).Defaults())
	assert.Equal(t, map[string]any{"safetyStatus": "受控"}, Lookup(model.SafetyLogType).Defaults())
	assert.Empty(t, Lookup(model.DailyLogType).Defaults())
}

func TestCanWrite(t *testing.T) {
	tests := []struct {
		name string
		role model.Role
		typ  model.ReportType
		want bool
	}{
		{"assistant daily log", model.RoleAssistant, model.DailyLogType, true},
		{"assistant witness", model.RoleAssistant, model.WitnessType, true},
		{"assistant notice", model.RoleAssistant, model.NoticeType, false},
		{"assistant monthly", model.RoleAssistant, model.MonthlyType, false},
		{"engineer notice", model.RoleEngineer, model.NoticeType, true},
		{"engineer rules", model.RoleEngineer, model.SupervisionRulesType, true},
		{"engineer expense", model.RoleEngineer, model.ExpenseReimbursementType, false},
		{"engineer chief inspection", model.RoleEngineer, model.ChiefInspectionType, false},
		{"chief chief inspection", model.RoleChief, model.ChiefInspectionType, true},
		{"chief expense", model.RoleChief, model.ExpenseReimbursementType, true},
		{"chief rules", model.RoleChief, model.SupervisionRulesType, false},
		{"leader rules", model.RoleLeader, model.SupervisionRulesType, true},
		{"leader expense", model.RoleLeader, model.ExpenseReimbursementType, true},
		{"unknown role", model.Role("GUEST"), model.DailyLogType, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanWrite(tt.role, tt.typ))
		})
	}
}

func TestAuthorable(t *testing.T) {
	assert.Len(t, Authorable(model.RoleAssistant), 5)
	assert.Len(t, Authorable(model.RoleEngineer), 12)
	assert.Len(t, Authorable(model.RoleChief), 13)
	assert.Len(t, Authorable(model.RoleLeader), len(model.ReportTypes))
	assert.Empty(t, Authorable("GUEST"))

	first := Authorable(model.RoleLeader)[0]
	assert.Equal(t, model.DailyLogType, first.Type)
}

func TestCanReview(t *testing.T) {
	assert.True(t, CanReview(model.RoleChief))
	assert.True(t, CanReview(model.RoleLeader))
	assert.False(t, CanReview(model.RoleEngineer))
	assert.False(t, CanReview(model.RoleAssistant))
}

func contains(list []model.ReportType, t model.ReportType) bool {
	for _, v := range list {
		if v == t {
			return true
		}
	}
	return false
}
