package dto

// ── 角色 / 菜单模块 DTO ──

// CreateRoleRequest 创建角色请求
type CreateRoleRequest struct {
	Name string `json:"name" binding:"required,max=32"`
}

// UpdateRoleRequest 更新角色请求
type UpdateRoleRequest struct {
	Name string `json:"name" binding:"required,max=32"`
}

// SetMenusRequest 设置角色菜单请求（整体替换）
type SetMenusRequest struct {
	MenuIDs []string `json:"menu_ids" binding:"omitempty,dive,uuid"`
}

// RoleBrief 角色简要信息
type RoleBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RoleResponse 角色详情
type RoleResponse struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Menus []MenuResponse `json:"menus"`
}

// CreateMenuRequest 创建菜单请求
type CreateMenuRequest struct {
	Name    string `json:"name"     binding:"required,max=32"`
	URLName string `json:"url_name" binding:"required,max=64"`
}

// UpdateMenuRequest 更新菜单请求
type UpdateMenuRequest struct {
	Name    *string `json:"name"     binding:"omitempty,min=1,max=32"`
	URLName *string `json:"url_name" binding:"omitempty,min=1,max=64"`
}
