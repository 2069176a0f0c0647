package report

import "github.com/6045054-web/CHENGHUI/internal/model"

var assistantTypes = map[model.ReportType]bool{
	model.DailyLogType:         true,
	model.SafetyLogType:        true,
	model.SafetyInspectionType: true,
	model.SideStationType:      true,
	model.WitnessType:          true,
}

// CanWrite reports whether role may author reports of type t.
func CanWrite(role model.Role, t model.ReportType) bool {
	switch role {
	case model.RoleAssistant:
		return assistantTypes[t]
	case model.RoleEngineer:
		// 专监不填报费用报销与总监巡视
		return t != model.ExpenseReimbursementType && t != model.ChiefInspectionType
	case model.RoleChief:
		// 细则由专监编制、总监审核
		return t != model.SupervisionRulesType
	case model.RoleLeader:
		return true
	default:
		return false
	}
}

// CanReview reports whether role sees the review queue.
func CanReview(role model.Role) bool {
	return role == model.RoleChief || role == model.RoleLeader
}

// Authorable lists the schemas role may author, in display order.
func Authorable(role model.Role) []Schema {
	var out []Schema
	for _, t := range model.ReportTypes {
		if CanWrite(role, t) {
			out = append(out, Lookup(t))
		}
	}
	return out
}
