package model

import (
	"errors"
	"strconv"
)

// ── 枚举值域错误 ──

var (
	ErrInvalidSource     = errors.New("无效的客户来源")
	ErrInvalidIntention  = errors.New("无效的跟进意向")
	ErrInvalidClassType  = errors.New("无效的班级类型")
	ErrInvalidAttendance = errors.New("无效的出勤状态")
	ErrInvalidScore      = errors.New("无效的成绩")
)

// Choice 枚举项（值 + 展示标签），供前端渲染下拉框
type Choice struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

func labelOf(choices []Choice, v int) string {
	for _, c := range choices {
		if c.Value == v {
			return c.Label
		}
	}
	return strconv.Itoa(v)
}

func validChoice(choices []Choice, v int) bool {
	for _, c := range choices {
		if c.Value == v {
			return true
		}
	}
	return false
}

// ParseChoice 按标签或数字解析枚举值（Excel 导入使用）
func ParseChoice(choices []Choice, s string) (int, bool) {
	for _, c := range choices {
		if c.Label == s {
			return c.Value, true
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || !validChoice(choices, n) {
		return 0, false
	}
	return n, true
}

// ── 客户来源 ──

// CustomerSource 客户来源
type CustomerSource int

const (
	SourceReferral  CustomerSource = 0
	SourceQQGroup   CustomerSource = 1
	SourceWebsite   CustomerSource = 2
	SourceBaiduAds  CustomerSource = 3
	Source51CTO     CustomerSource = 4
	SourceZhihu     CustomerSource = 5
	SourceMarketing CustomerSource = 6
)

// SourceChoices 客户来源选项
var SourceChoices = []Choice{
	{0, "转介绍"},
	{1, "QQ群"},
	{2, "官网"},
	{3, "百度推广"},
	{4, "51CTO"},
	{5, "知乎"},
	{6, "市场推广"},
}

func (s CustomerSource) Valid() bool   { return validChoice(SourceChoices, int(s)) }
func (s CustomerSource) Label() string { return labelOf(SourceChoices, int(s)) }

// ── 跟进意向 ──

// Intention 客户报名意向
type Intention int

const (
	IntentionTwoWeeks    Intention = 0
	IntentionOneMonth    Intention = 1
	IntentionNoPlan      Intention = 2
	IntentionElsewhere   Intention = 3
	IntentionEnrolled    Intention = 4
	IntentionBlacklisted Intention = 5
)

// IntentionChoices 跟进意向选项
var IntentionChoices = []Choice{
	{0, "2周内报名"},
	{1, "1个月内报名"},
	{2, "近期无报名计划"},
	{3, "已在其他机构报名"},
	{4, "已报名"},
	{5, "已拉黑"},
}

func (i Intention) Valid() bool   { return validChoice(IntentionChoices, int(i)) }
func (i Intention) Label() string { return labelOf(IntentionChoices, int(i)) }

// ── 班级类型 ──

// ClassType 班级授课方式
type ClassType int

const (
	ClassTypeFullTime ClassType = 0
	ClassTypeWeekend  ClassType = 1
	ClassTypeOnline   ClassType = 2
)

// ClassTypeChoices 班级类型选项
var ClassTypeChoices = []Choice{
	{0, "面授(脱产)"},
	{1, "面授(周末)"},
	{2, "网络班"},
}

func (t ClassType) Valid() bool   { return validChoice(ClassTypeChoices, int(t)) }
func (t ClassType) Label() string { return labelOf(ClassTypeChoices, int(t)) }

// ── 出勤 ──

// Attendance 出勤状态
type Attendance int

const (
	AttendanceCheckedIn Attendance = 0
	AttendanceLate      Attendance = 1
	AttendanceAbsent    Attendance = 2
	AttendanceLeftEarly Attendance = 3
)

// AttendanceChoices 出勤选项
var AttendanceChoices = []Choice{
	{0, "签到"},
	{1, "迟到"},
	{2, "缺勤"},
	{3, "早退"},
}

func (a Attendance) Valid() bool   { return validChoice(AttendanceChoices, int(a)) }
func (a Attendance) Label() string { return labelOf(AttendanceChoices, int(a)) }

// ── 成绩 ──

// Score 成绩等级，负分为扣分项，0 表示不可用（N/A）
type Score int

const (
	ScoreAPlus  Score = 100
	ScoreA      Score = 90
	ScoreBPlus  Score = 85
	ScoreB      Score = 80
	ScoreBMinus Score = 75
	ScoreCPlus  Score = 70
	ScoreC      Score = 60
	ScoreCMinus Score = 40
	ScoreD      Score = -50
	ScoreCopy   Score = -100
	ScoreNA     Score = 0
)

// ScoreChoices 成绩选项
var ScoreChoices = []Choice{
	{100, "A+"},
	{90, "A"},
	{85, "B+"},
	{80, "B"},
	{75, "B-"},
	{70, "C+"},
	{60, "C"},
	{40, "C-"},
	{-50, "D"},
	{-100, "COPY"},
	{0, "N/A"},
}

func (s Score) Valid() bool   { return validChoice(ScoreChoices, int(s)) }
func (s Score) Label() string { return labelOf(ScoreChoices, int(s)) }

// ── 实体展示名 ──

// VerboseNames 各实体在管理界面中的中文名称
var VerboseNames = map[string]string{
	"customer":           "客户表",
	"tag":                "标签",
	"customer_follow_up": "客户跟进记录",
	"course":             "课程表",
	"branch":             "校区",
	"class_list":         "班级",
	"course_record":      "上课记录",
	"study_record":       "学习记录",
	"enrollment":         "报名表",
	"payment":            "缴费记录",
	"user_profile":       "账号表",
	"role":               "角色",
	"menu":               "菜单",
}
