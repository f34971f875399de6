package service

import (
	"time"

	"prefect-crm/internal/dto"
	"prefect-crm/internal/model"
)

const (
	timeLayout = time.RFC3339
	dateLayout = "2006-01-02"
)

func formatTime(t time.Time) string { return t.Format(timeLayout) }

func formatDate(t time.Time) string { return t.Format(dateLayout) }

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.Local)
}

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// optionalString 空串视为未填写
func optionalString(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func toProfileBrief(p *model.UserProfile) *dto.ProfileBrief {
	if p == nil {
		return nil
	}
	return &dto.ProfileBrief{ID: p.ProfileID, Name: p.Name}
}

func toCourseBrief(c *model.Course) dto.CourseBrief {
	if c == nil {
		return dto.CourseBrief{}
	}
	return dto.CourseBrief{ID: c.CourseID, Name: c.Name}
}

func toCustomerBrief(c *model.Customer) dto.CustomerBrief {
	if c == nil {
		return dto.CustomerBrief{}
	}
	return dto.CustomerBrief{ID: c.CustomerID, ContactID: c.ContactID, Name: strValue(c.Name)}
}

func toClassBrief(c *model.ClassList) dto.ClassBrief {
	if c == nil {
		return dto.ClassBrief{}
	}
	return dto.ClassBrief{ID: c.ClassID, Name: c.String()}
}

func toChoiceItems(choices []model.Choice) []dto.ChoiceItem {
	items := make([]dto.ChoiceItem, 0, len(choices))
	for _, c := range choices {
		items = append(items, dto.ChoiceItem{Value: c.Value, Label: c.Label})
	}
	return items
}

// uniqueIDs 去重并保持原有顺序
func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
