// Package report holds the report-type registry and the draft editor built on top of it.
package report

import "github.com/6045054-web/CHENGHUI/internal/model"

type FieldKind string

const (
	KindText     FieldKind = "text"
	KindTextarea FieldKind = "textarea"
	KindDate     FieldKind = "date"
	KindTime     FieldKind = "time"
	KindMonth    FieldKind = "month"
	KindSelect   FieldKind = "select"
	KindNumber   FieldKind = "number"
	KindFile     FieldKind = "file"
	KindImage    FieldKind = "image"
)

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type Field struct {
	Key         string    `json:"key"`
	Label       string    `json:"label"`
	Kind        FieldKind `json:"kind"`
	Placeholder string    `json:"placeholder,omitempty"`
	Options     []Option  `json:"options,omitempty"`
	Default     string    `json:"default,omitempty"`
}

type Icon struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Schema is everything the editor, the renderer and the review screens need to know about
// one report type.
type Schema struct {
	Type        model.ReportType `json:"type"`
	Label       string           `json:"label"`
	Icon        Icon             `json:"icon"`
	Fields      []Field          `json:"fields"`
	AssistField string           `json:"assistField"`
	Important   bool             `json:"important"`
}

// ContentKey is the draft key for free text; the generic schema and unmapped assist output use it.
const ContentKey = "content"

// photos is appended to every schema: the shared on-site image gallery.
var photos = Field{Key: "images", Label: "现场影像资料", Kind: KindImage}

var generic = Schema{
	Label:       "通用记录",
	Icon:        Icon{Name: "FileText", Color: "text-slate-500"},
	Fields:      []Field{{Key: ContentKey, Label: "详细记录内容", Kind: KindTextarea, Placeholder: "在此输入通用记录内容..."}, photos},
	AssistField: ContentKey,
}

func opts(pairs ...string) []Option {
	out := make([]Option, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Option{Value: pairs[i], Label: pairs[i+1]})
	}
	return out
}

var schemas = map[model.ReportType]Schema{
	model.DailyLogType: {
		Label: "监理日志", Icon: Icon{"FileText", "text-blue-500"}, AssistField: "supervision",
		Fields: []Field{
			{Key: "weather", Label: "当日天气", Kind: KindText, Placeholder: "如: 晴"},
			{Key: "temp", Label: "平均气温", Kind: KindText, Placeholder: "如: 25℃"},
			{Key: "progress", Label: "今日施工进度记录 (部位、人员、机具)", Kind: KindTextarea, Placeholder: "描述现场施工情况..."},
			{Key: "supervision", Label: "今日监理工作记录 (巡视、验收、签认)", Kind: KindTextarea, Placeholder: "记录监理履职内容..."},
		},
	},
	model.SideStationType: {
		Label: "旁站监理记录", Icon: Icon{"ShieldCheck", "text-indigo-500"}, AssistField: "processDetail",
		Fields: []Field{
			{Key: "keyPart", Label: "旁站关键部位", Kind: KindText, Placeholder: "如: 基础砼浇筑"},
			{Key: "contractor", Label: "施工单位", Kind: KindText, Placeholder: "施工企业名称"},
			{Key: "startTime", Label: "开始时间", Kind: KindTime},
			{Key: "endTime", Label: "结束时间", Kind: KindTime},
			{Key: "processDetail", Label: "旁站过程及质量控制点详细记录", Kind: KindTextarea, Placeholder: "记录施工工艺是否符合要求，质量控制是否到位..."},
		},
	},
	model.WitnessType: {
		Label: "见证取样记录", Icon: Icon{"Eye", "text-green-500"}, AssistField: "witnessResult",
		Fields: []Field{
			{Key: "witnessItem", Label: "见证项目", Kind: KindText, Placeholder: "如: 钢筋原材取样"},
			{Key: "witnessDate", Label: "见证日期", Kind: KindDate},
			{Key: "part", Label: "部位/位置", Kind: KindText, Placeholder: "具体施工段"},
			{Key: "spec", Label: "规格/数量", Kind: KindText, Placeholder: "样品明细"},
			{Key: "witnessResult", Label: "见证过程及初步结论", Kind: KindTextarea, Placeholder: "记录取样、封识、送检过程..."},
		},
	},
	model.NoticeType: {
		Label: "监理通知单", Icon: Icon{"ClipboardList", "text-orange-500"}, AssistField: "requirements", Important: true,
		Fields: []Field{
			{Key: "noticeTitle", Label: "通知单事由/标题", Kind: KindText, Placeholder: "简述通知内容"},
			{Key: "contractor", Label: "施工单位(主送)", Kind: KindText, Placeholder: "接收单位名称"},
			{Key: "findings", Label: "存在问题事实描述", Kind: KindTextarea, Placeholder: "详细记录现场违规或不规范事实..."},
			{Key: "requirements", Label: "监理指令及整改期限", Kind: KindTextarea, Placeholder: "明确整改要求及复查时间..."},
		},
	},
	model.MinutesType: {
		Label: "会议纪要", Icon: Icon{"Users", "text-purple-500"}, AssistField: "minutesBody",
		Fields: []Field{
			{Key: "meetingTitle", Label: "会议名称/主题", Kind: KindText, Placeholder: "如: 第一次工地会议"},
			{Key: "host", Label: "主持人", Kind: KindText},
			{Key: "recorder", Label: "记录人", Kind: KindText},
			{Key: "attendees", Label: "参加单位及人员", Kind: KindTextarea, Placeholder: "建设、监理、设计、施工等单位人员..."},
			{Key: "minutesBody", Label: "会议内容及主要决议", Kind: KindTextarea, Placeholder: "记录各方发言及最终达成的一致意见..."},
		},
	},
	model.MonthlyType: {
		Label: "监理月报", Icon: Icon{"LayoutDashboard", "text-pink-500"}, AssistField: "qualitySummary",
		Fields: []Field{
			{Key: "reportMonth", Label: "报告月份", Kind: KindMonth},
			{Key: "progressSummary", Label: "工程进度情况总结", Kind: KindTextarea, Placeholder: "对比计划进度与实际进度..."},
			{Key: "qualitySummary", Label: "工程质量情况总结", Kind: KindTextarea, Placeholder: "验收合格率、不合格项整改情况..."},
			{Key: "safetySummary", Label: "安全文明施工总结", Kind: KindTextarea, Placeholder: "现场管理及安全隐患闭环情况..."},
			{Key: "nextPlan", Label: "下月监理工作计划", Kind: KindTextarea, Placeholder: "重点预控事项及验收安排..."},
		},
	},
	model.MajorEventType: {
		Label: "重大事项直报", Icon: Icon{"Zap", "text-red-600"}, AssistField: "eventDesc", Important: true,
		Fields: []Field{
			{Key: "eventCategory", Label: "事件类型", Kind: KindSelect, Default: "安全事故",
				Options: opts("安全事故", "安全生产事故", "质量事故", "质量安全事故", "突发公共卫生", "突发卫生/火灾", "自然灾害", "极端天气/灾害", "维稳事件", "劳资纠纷/维稳")},
			{Key: "eventDesc", Label: "事件详细经过", Kind: KindTextarea, Placeholder: "发生时间、地点、受损情况、已造成的影响..."},
			{Key: "actionsTaken", Label: "已采取的紧急处置措施", Kind: KindTextarea},
		},
	},
	model.DangerousWorkType: {
		Label: "危大工程巡视", Icon: Icon{"AlertTriangle", "text-red-500"}, AssistField: "findings", Important: true,
		Fields: []Field{
			{Key: "partName", Label: "危大工程部位", Kind: KindText, Placeholder: "如: 深基坑支护"},
			{Key: "hazardLevel", Label: "风险等级", Kind: KindSelect, Default: "二级",
				Options: opts("一级", "一级(高风险)", "二级", "二级(中高风险)", "三级", "三级(一般风险)")},
			{Key: "findings", Label: "专项巡视发现的主要问题", Kind: KindTextarea, Placeholder: "对照专项方案，列出不符合项..."},
			{Key: "actions", Label: "监理监控意见及指令", Kind: KindTextarea},
		},
	},
	model.ChiefInspectionType: {
		Label: "总监巡视记录", Icon: Icon{"ZoomIn", "text-teal-600"}, AssistField: "evaluation",
		Fields: []Field{
			{Key: "focus", Label: "巡视重点关注项", Kind: KindText},
			{Key: "evaluation", Label: "对项目现场及监理部的评价", Kind: KindTextarea, Placeholder: "总监对工程实体的评价，以及对监理部工作质量的点评..."},
			{Key: "instructions", Label: "具体管理指令/下一步安排", Kind: KindTextarea},
		},
	},
	model.ExpenseReimbursementType: {
		Label: "费用报销", Icon: Icon{"Receipt", "text-amber-600"}, AssistField: "reimbursementDesc",
		Fields: []Field{
			{Key: "category", Label: "费用类型", Kind: KindSelect, Default: "差旅费",
				Options: opts("差旅费", "差旅费", "办公费", "办公费", "通讯费", "通讯费", "招待费", "招待费", "交通费", "交通费")},
			{Key: "amount", Label: "报销金额 (元)", Kind: KindNumber, Placeholder: "0.00"},
			{Key: "reimbursementDesc", Label: "事由描述", Kind: KindTextarea, Placeholder: "详细说明支出原因、参与人员等..."},
		},
	},
	model.SafetyInspectionType: {
		Label: "安全巡视记录", Icon: Icon{"Search", "text-orange-500"}, AssistField: "findings",
		Fields: []Field{
			{Key: "focus", Label: "检查重点/部位", Kind: KindText, Placeholder: "如: 脚手架搭设检查"},
			{Key: "findings", Label: "发现安全隐患", Kind: KindTextarea, Placeholder: "如: 扫地杆漏设、连墙件不足等..."},
			{Key: "requirements", Label: "现场处置指令", Kind: KindTextarea, Placeholder: "如: 立即停工整改、加固等..."},
		},
	},
	model.SafetyLogType: {
		Label: "安全监理日志", Icon: Icon{"HardHat", "text-orange-600"}, AssistField: "briefing",
		Fields: []Field{
			{Key: "weather", Label: "当日天气", Kind: KindText},
			{Key: "safetyStatus", Label: "安全状态评价", Kind: KindSelect, Default: "受控",
				Options: opts("良好", "安全：良好", "受控", "安全：基本受控", "有隐患", "安全：存在隐患", "危急", "安全：危急")},
			{Key: "progress", Label: "当日施工安全概况", Kind: KindTextarea},
			{Key: "briefing", Label: "安全工作及教育记录", Kind: KindTextarea, Placeholder: "记录安全技术交底、人员教育、隐患排查等..."},
		},
	},
	model.JointSafetyCheckType: {
		Label: "联合安全检查", Icon: Icon{"ShieldAlert", "text-red-600"}, AssistField: "rectification",
		Fields: []Field{
			{Key: "participants", Label: "参加单位及人员", Kind: KindTextarea, Placeholder: "列出各方参建单位及负责人..."},
			{Key: "deadline", Label: "整改截止期限", Kind: KindDate},
			{Key: "problemList", Label: "检查发现的问题清单", Kind: KindTextarea, Placeholder: "分条目列出安全违规事实..."},
			{Key: "rectification", Label: "整改要求及复查安排", Kind: KindTextarea},
		},
	},
	model.SupervisionRulesType: {
		Label: "监理实施细则", Icon: Icon{"BookOpen", "text-violet-600"}, AssistField: "description", Important: true,
		Fields: []Field{
			{Key: "ruleTitle", Label: "细则名称", Kind: KindText, Placeholder: "如: 幕墙工程监理实施细则"},
			{Key: "ruleCategory", Label: "专业分类", Kind: KindSelect, Default: "土建",
				Options: opts("土建", "土建工程", "安装", "机电安装", "安全", "安全管理", "交通", "交通工程", "市政", "市政园林")},
			{Key: "description", Label: "编制摘要", Kind: KindTextarea, Placeholder: "简述细则编制背景、针对性控制措施..."},
			{Key: "files", Label: "上传附件 (PDF/Word/图纸)", Kind: KindFile},
		},
	},
}

// Lookup returns the schema for t, or the generic free-text schema when t is unknown.
func Lookup(t model.ReportType) Schema {
	s, ok := schemas[t]
	if !ok {
		s = generic
		s.Type = t
		return s
	}
	s.Type = t
	s.Fields = append(append([]Field(nil), s.Fields...), photos)
	return s
}

// Label is the display name of t; unknown types display as their raw value.
func Label(t model.ReportType) string {
	if s, ok := schemas[t]; ok {
		return s.Label
	}
	return string(t)
}

// IsImportant reports whether reports of type t are flagged for the risk desk.
func IsImportant(t model.ReportType) bool {
	return schemas[t].Important
}

// Defaults returns the initial draft values: every select field's default.
func (s Schema) Defaults() map[string]any {
	out := map[string]any{}
	for _, f := range s.Fields {
		if f.Default != "" {
			out[f.Key] = f.Default
		}
	}
	return out
}
