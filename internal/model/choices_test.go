package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreDomain(t *testing.T) {
	valid := []Score{100, 90, 85, 80, 75, 70, 60, 40, -50, -100, 0}
	for _, s := range valid {
		assert.True(t, s.Valid(), "score %d", s)
	}
	for _, s := range []Score{1, 50, -1, 95, 101} {
		assert.False(t, s.Valid(), "score %d", s)
	}
	assert.Equal(t, "COPY", ScoreCopy.Label())
	assert.Equal(t, "N/A", ScoreNA.Label())
}

func TestChoiceLabels(t *testing.T) {
	assert.Equal(t, "51CTO", Source51CTO.Label())
	assert.Equal(t, "已拉黑", IntentionBlacklisted.Label())
	assert.Equal(t, "网络班", ClassTypeOnline.Label())
	assert.Equal(t, "早退", AttendanceLeftEarly.Label())
	assert.Equal(t, "9", CustomerSource(9).Label(), "未知值回退为数字")
	assert.False(t, CustomerSource(7).Valid())
	assert.False(t, Attendance(4).Valid())
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"知乎", 5, true},
		{"5", 5, true},
		{"0", 0, true},
		{"7", 0, false},
		{"抖音", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseChoice(SourceChoices, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestDisplayStrings(t *testing.T) {
	branch := &Branch{Name: "上海校区"}
	course := &Course{Name: "Linux运维"}
	class := ClassList{Semester: 12, Branch: branch, Course: course}
	assert.Equal(t, "上海校区 Linux运维 12", class.String())

	customer := &Customer{ContactID: "424242"}
	followUp := CustomerFollowUp{Customer: customer, Intention: IntentionOneMonth}
	assert.Equal(t, "<424242 : 1个月内报名>", followUp.String())

	record := CourseRecord{Class: &class, DayNum: 3}
	enrollment := Enrollment{Customer: customer, Class: &class}
	study := StudyRecord{Enrollment: &enrollment, CourseRecord: &record, Score: ScoreBPlus}
	assert.Equal(t, "424242 上海校区 Linux运维 12 上海校区 Linux运维 12 3 85", study.String())
}
