package dto

// ── 客户模块 DTO ──

// CreateCustomerRequest 创建客户请求
type CreateCustomerRequest struct {
	Name            *string  `json:"name"              binding:"omitempty,max=32"`
	ContactID       string   `json:"contact_id"        binding:"required,max=64"`
	ContactName     *string  `json:"contact_name"      binding:"omitempty,max=64"`
	Phone           *string  `json:"phone"             binding:"omitempty,max=64"`
	Source          *int     `json:"source"            binding:"required,crm_source"`
	ReferralFrom    string   `json:"referral_from"     binding:"omitempty,max=64"`
	ConsultCourseID *string  `json:"consult_course_id" binding:"omitempty,uuid"`
	Content         string   `json:"content"           binding:"required"`
	ConsultantID    string   `json:"consultant_id"     binding:"omitempty,uuid"` // 缺省为当前登录账号
	Memo            *string  `json:"memo"`
	TagIDs          []string `json:"tag_ids"           binding:"omitempty,dive,uuid"`
}

// UpdateCustomerRequest 更新客户请求（乐观锁：必须携带读取时的 version）
type UpdateCustomerRequest struct {
	Name               *string `json:"name"                 binding:"omitempty,max=32"`
	ContactID          *string `json:"contact_id"           binding:"omitempty,min=1,max=64"`
	ContactName        *string `json:"contact_name"         binding:"omitempty,max=64"`
	Phone              *string `json:"phone"                binding:"omitempty,max=64"`
	Source             *int    `json:"source"               binding:"omitempty,crm_source"`
	ReferralFrom       *string `json:"referral_from"        binding:"omitempty,max=64"`
	ConsultCourseID    *string `json:"consult_course_id"    binding:"omitempty,uuid"`
	ClearConsultCourse bool    `json:"clear_consult_course"`
	Content            *string `json:"content"              binding:"omitempty,min=1"`
	ConsultantID       *string `json:"consultant_id"        binding:"omitempty,uuid"`
	Memo               *string `json:"memo"`
	Version            int     `json:"version"              binding:"required,min=1"`
}

// CustomerListRequest 客户列表查询参数
type CustomerListRequest struct {
	PaginationRequest
	Source       *int   `form:"source"        binding:"omitempty,crm_source"`
	ConsultantID string `form:"consultant_id" binding:"omitempty,uuid"`
	TagID        string `form:"tag_id"        binding:"omitempty,uuid"`
	Keyword      string `form:"keyword"       binding:"omitempty,max=64"`
}

// SetCustomerTagsRequest 设置客户标签（整体替换）
type SetCustomerTagsRequest struct {
	TagIDs []string `json:"tag_ids" binding:"omitempty,dive,uuid"`
}

// CustomerResponse 客户详情
type CustomerResponse struct {
	ID            string        `json:"id"`
	Name          string        `json:"name,omitempty"`
	ContactID     string        `json:"contact_id"`
	ContactName   string        `json:"contact_name,omitempty"`
	Phone         string        `json:"phone,omitempty"`
	Source        int           `json:"source"`
	SourceLabel   string        `json:"source_label"`
	ReferralFrom  string        `json:"referral_from"`
	ConsultCourse *CourseBrief  `json:"consult_course,omitempty"`
	Content       string        `json:"content"`
	Consultant    *ProfileBrief `json:"consultant,omitempty"`
	Memo          string        `json:"memo,omitempty"`
	Tags          []TagResponse `json:"tags"`
	Version       int           `json:"version"`
	CreatedAt     string        `json:"created_at"`
	UpdatedAt     string        `json:"updated_at"`
}

// CustomerBrief 客户简要信息
type CustomerBrief struct {
	ID        string `json:"id"`
	ContactID string `json:"contact_id"`
	Name      string `json:"name,omitempty"`
}

// ── 跟进记录 ──

// CreateFollowUpRequest 新增跟进记录请求
type CreateFollowUpRequest struct {
	Content   string `json:"content"   binding:"required"`
	Intention *int   `json:"intention" binding:"required,crm_intention"`
}

// FollowUpResponse 跟进记录
type FollowUpResponse struct {
	ID             string        `json:"id"`
	CustomerID     string        `json:"customer_id"`
	Content        string        `json:"content"`
	Consultant     *ProfileBrief `json:"consultant,omitempty"`
	Intention      int           `json:"intention"`
	IntentionLabel string        `json:"intention_label"`
	CreatedAt      string        `json:"created_at"`
}

// ── 导入 ──

// ImportCustomerResponse 批量导入客户响应
type ImportCustomerResponse struct {
	Total   int              `json:"total"`
	Success int              `json:"success"`
	Failed  int              `json:"failed"`
	Errors  []ImportRowError `json:"errors,omitempty"`
}

// ImportRowError 导入错误详情
type ImportRowError struct {
	Row       int    `json:"row"`
	ContactID string `json:"contact_id,omitempty"`
	Reason    string `json:"reason"`
}
