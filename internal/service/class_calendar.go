package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
)

// ── 班级课表导出（iCalendar, RFC 5545）──
//
// 每条上课记录生成一个全天事件：
//   - UID: <record_id>@prefect-crm
//   - SUMMARY: 班级名 第N天
//   - DESCRIPTION: 本节大纲，有作业时追加作业标题
//   - LOCATION: 校区地址

const calendarProductID = "-//prefect-crm//class calendar//CN"

func (s *classService) ExportCalendar(ctx context.Context, id string) ([]byte, string, error) {
	class, err := s.getClass(ctx, id)
	if err != nil {
		return nil, "", err
	}

	records, err := s.repo.CourseRecord.ListByClass(ctx, id)
	if err != nil {
		s.logger.Error("查询上课记录失败", zap.String("class_id", id), zap.Error(err))
		return nil, "", err
	}
	if len(records) == 0 {
		return nil, "", ErrCalendarNoSessions
	}

	name := class.String()
	location := ""
	if class.Branch != nil {
		location = class.Branch.Address
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)
	cal.SetXWRCalName(name)

	stamp := time.Now().UTC()
	for _, r := range records {
		evt := cal.AddEvent(r.RecordID + "@prefect-crm")
		evt.SetDtStampTime(stamp)
		evt.SetAllDayStartAt(r.Date)
		evt.SetAllDayEndAt(r.Date.AddDate(0, 0, 1))
		evt.SetSummary(fmt.Sprintf("%s 第%d天", name, r.DayNum))
		evt.SetDescription(sessionDescription(r.Outline, r.HasHomework, r.HomeworkTitle))
		if location != "" {
			evt.SetLocation(location)
		}
	}

	filename := fmt.Sprintf("%s.ics", strings.ReplaceAll(name, " ", "_"))
	return []byte(cal.Serialize()), filename, nil
}

func sessionDescription(outline string, hasHomework bool, title *string) string {
	if !hasHomework {
		return outline
	}
	hw := "作业"
	if t := strValue(title); t != "" {
		hw = "作业：" + t
	}
	return outline + "\n" + hw
}
