package service

import (
	"prefect-crm/internal/dto"
	"prefect-crm/internal/model"
)

// MetaService 前端渲染所需的枚举与实体名称
type MetaService interface {
	Choices() *dto.ChoicesResponse
}

type metaService struct {
	choices *dto.ChoicesResponse
}

// NewMetaService 创建 MetaService 实例，枚举在启动时构建一次
func NewMetaService() MetaService {
	entities := make(map[string]string, len(model.VerboseNames))
	for k, v := range model.VerboseNames {
		entities[k] = v
	}
	return &metaService{choices: &dto.ChoicesResponse{
		Source:     toChoiceItems(model.SourceChoices),
		Intention:  toChoiceItems(model.IntentionChoices),
		ClassType:  toChoiceItems(model.ClassTypeChoices),
		Attendance: toChoiceItems(model.AttendanceChoices),
		Score:      toChoiceItems(model.ScoreChoices),
		Entities:   entities,
	}}
}

func (s *metaService) Choices() *dto.ChoicesResponse {
	return s.choices
}
