package dto

// ── 分页请求 ──

// PaginationRequest 通用分页参数
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage 获取页码（含默认值）
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize 获取每页数量（含默认值）
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}

// GetOffset 计算偏移量
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

// ── 元数据 ──

// ChoiceItem 枚举项
type ChoiceItem struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// ChoicesResponse 全部枚举及实体中文名（GET /meta/choices）
type ChoicesResponse struct {
	Source     []ChoiceItem      `json:"source"`
	Intention  []ChoiceItem      `json:"intention"`
	ClassType  []ChoiceItem      `json:"class_type"`
	Attendance []ChoiceItem      `json:"attendance"`
	Score      []ChoiceItem      `json:"score"`
	Entities   map[string]string `json:"entities"`
}
