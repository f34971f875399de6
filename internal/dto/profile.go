package dto

// ── 账号模块 DTO ──

// CreateProfileRequest 创建账号请求（同时创建登录账户与资料）
type CreateProfileRequest struct {
	Username    string   `json:"username"     binding:"required,min=3,max=150"`
	Password    string   `json:"password"     binding:"required,min=8,max=64"`
	Name        string   `json:"name"         binding:"required,max=32"`
	IsSuperuser bool     `json:"is_superuser"`
	RoleIDs     []string `json:"role_ids"     binding:"omitempty,dive,uuid"`
}

// UpdateProfileRequest 更新账号请求
type UpdateProfileRequest struct {
	Name     *string `json:"name"      binding:"omitempty,min=1,max=32"`
	IsActive *bool   `json:"is_active"`
}

// AssignRolesRequest 分配角色请求（整体替换，空列表表示清空）
type AssignRolesRequest struct {
	RoleIDs []string `json:"role_ids" binding:"omitempty,dive,uuid"`
}

// ProfileListRequest 账号列表查询参数
type ProfileListRequest struct {
	PaginationRequest
	Keyword string `form:"keyword" binding:"omitempty,max=50"`
}

// ProfileResponse 账号信息响应（脱敏）
type ProfileResponse struct {
	ID          string      `json:"id"`
	AccountID   string      `json:"account_id"`
	Username    string      `json:"username"`
	Name        string      `json:"name"`
	IsActive    bool        `json:"is_active"`
	IsSuperuser bool        `json:"is_superuser"`
	Roles       []RoleBrief `json:"roles"`
	LastLoginAt string      `json:"last_login_at,omitempty"`
	CreatedAt   string      `json:"created_at"`
}

// ProfileBrief 账号简要信息（嵌入其他响应）
type ProfileBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
