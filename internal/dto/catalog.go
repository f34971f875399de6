package dto

// ── 课程 / 校区 DTO ──

// CreateCourseRequest 创建课程请求
type CreateCourseRequest struct {
	Name         string `json:"name"          binding:"required,max=64"`
	Price        int    `json:"price"         binding:"required,gt=0,max=32767"`
	PeriodMonths int    `json:"period_months" binding:"required,gt=0,max=32767"`
	Outline      string `json:"outline"       binding:"required"`
}

// UpdateCourseRequest 更新课程请求
type UpdateCourseRequest struct {
	Name         *string `json:"name"          binding:"omitempty,min=1,max=64"`
	Price        *int    `json:"price"         binding:"omitempty,gt=0,max=32767"`
	PeriodMonths *int    `json:"period_months" binding:"omitempty,gt=0,max=32767"`
	Outline      *string `json:"outline"       binding:"omitempty,min=1"`
}

// CourseResponse 课程详情
type CourseResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Price        int    `json:"price"`
	PeriodMonths int    `json:"period_months"`
	Outline      string `json:"outline"`
	CreatedAt    string `json:"created_at"`
}

// CourseBrief 课程简要信息
type CourseBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateBranchRequest 创建校区请求
type CreateBranchRequest struct {
	Name    string `json:"name"    binding:"required,max=128"`
	Address string `json:"address" binding:"required,max=128"`
}

// UpdateBranchRequest 更新校区请求
type UpdateBranchRequest struct {
	Name    *string `json:"name"    binding:"omitempty,min=1,max=128"`
	Address *string `json:"address" binding:"omitempty,min=1,max=128"`
}

// BranchResponse 校区详情
type BranchResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	CreatedAt string `json:"created_at"`
}

// BranchBrief 校区简要信息
type BranchBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
