package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"prefect-crm/internal/dto"
	"prefect-crm/internal/service"
	"prefect-crm/pkg/response"
)

// RoleHandler 角色与菜单 HTTP 处理器
type RoleHandler struct {
	roleSvc service.RoleService
	menuSvc service.MenuService
}

// NewRoleHandler 创建 RoleHandler
func NewRoleHandler(roleSvc service.RoleService, menuSvc service.MenuService) *RoleHandler {
	return &RoleHandler{roleSvc: roleSvc, menuSvc: menuSvc}
}

// ────────────────────── 角色 ──────────────────────

// CreateRole 创建角色
// POST /api/v1/roles
func (h *RoleHandler) CreateRole(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.roleSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleRoleError(c, err)
		return
	}

	response.Created(c, result)
}

// GetRole 角色详情（含菜单）
// GET /api/v1/roles/:id
func (h *RoleHandler) GetRole(c *gin.Context) {
	id, ok := pathID(c, "角色")
	if !ok {
		return
	}

	result, err := h.roleSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleRoleError(c, err)
		return
	}

	response.OK(c, result)
}

// ListRoles 角色列表
// GET /api/v1/roles
func (h *RoleHandler) ListRoles(c *gin.Context) {
	result, err := h.roleSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// UpdateRole 重命名角色
// PUT /api/v1/roles/:id
func (h *RoleHandler) UpdateRole(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "角色")
	if !ok {
		return
	}

	var req dto.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.roleSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleRoleError(c, err)
		return
	}

	response.OK(c, result)
}

// SetMenus 整体替换角色菜单
// PUT /api/v1/roles/:id/menus
func (h *RoleHandler) SetMenus(c *gin.Context) {
	id, ok := pathID(c, "角色")
	if !ok {
		return
	}

	var req dto.SetMenusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.roleSvc.SetMenus(c.Request.Context(), id, &req)
	if err != nil {
		h.handleRoleError(c, err)
		return
	}

	response.OK(c, result)
}

// DeleteRole 删除角色
// DELETE /api/v1/roles/:id
func (h *RoleHandler) DeleteRole(c *gin.Context) {
	id, ok := pathID(c, "角色")
	if !ok {
		return
	}

	if err := h.roleSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleRoleError(c, err)
		return
	}

	response.OK(c, nil)
}

// ────────────────────── 菜单 ──────────────────────

// CreateMenu 创建菜单
// POST /api/v1/menus
func (h *RoleHandler) CreateMenu(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.menuSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleRoleError(c, err)
		return
	}

	response.Created(c, result)
}

// ListMenus 菜单列表
// GET /api/v1/menus
func (h *RoleHandler) ListMenus(c *gin.Context) {
	result, err := h.menuSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// UpdateMenu 修改菜单
// PUT /api/v1/menus/:id
func (h *RoleHandler) UpdateMenu(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "菜单")
	if !ok {
		return
	}

	var req dto.UpdateMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.menuSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleRoleError(c, err)
		return
	}

	response.OK(c, result)
}

// DeleteMenu 删除菜单
// DELETE /api/v1/menus/:id
func (h *RoleHandler) DeleteMenu(c *gin.Context) {
	id, ok := pathID(c, "菜单")
	if !ok {
		return
	}

	if err := h.menuSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleRoleError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *RoleHandler) handleRoleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRoleNotFound):
		response.NotFound(c, 13001, "角色不存在")
	case errors.Is(err, service.ErrRoleNameExists):
		response.Conflict(c, 13002, "角色名称已存在")
	case errors.Is(err, service.ErrMenuNotFound):
		response.NotFound(c, 13003, "菜单不存在")
	default:
		response.InternalError(c)
	}
}
