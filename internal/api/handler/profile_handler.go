package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"prefect-crm/internal/dto"
	"prefect-crm/internal/service"
	"prefect-crm/pkg/response"
)

// ProfileHandler 账号（员工档案）模块 HTTP 处理器
type ProfileHandler struct {
	profileSvc service.ProfileService
}

// NewProfileHandler 创建 ProfileHandler
func NewProfileHandler(profileSvc service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileSvc: profileSvc}
}

// CreateProfile 创建账号（同时创建登录账号）
// POST /api/v1/profiles
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.profileSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}

	response.Created(c, result)
}

// GetProfile 账号详情
// GET /api/v1/profiles/:id
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	id, ok := pathID(c, "账号")
	if !ok {
		return
	}

	result, err := h.profileSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}

	response.OK(c, result)
}

// ListProfiles 账号列表
// GET /api/v1/profiles
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	var req dto.ProfileListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.profileSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// UpdateProfile 修改姓名 / 启停账号
// PUT /api/v1/profiles/:id
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "账号")
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.profileSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}

	response.OK(c, result)
}

// AssignRoles 整体替换账号角色
// PUT /api/v1/profiles/:id/roles
func (h *ProfileHandler) AssignRoles(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "账号")
	if !ok {
		return
	}

	var req dto.AssignRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.profileSvc.AssignRoles(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}

	response.OK(c, result)
}

// DeleteProfile 删除账号
// DELETE /api/v1/profiles/:id
func (h *ProfileHandler) DeleteProfile(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "账号")
	if !ok {
		return
	}

	if err := h.profileSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleProfileError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *ProfileHandler) handleProfileError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProfileNotFound):
		response.NotFound(c, 12001, "账号不存在")
	case errors.Is(err, service.ErrAccountUsernameExists):
		response.Conflict(c, 12002, "用户名已存在")
	case errors.Is(err, service.ErrProfileSelfDelete):
		response.BadRequest(c, 12003, "不能删除自己")
	case errors.Is(err, service.ErrRoleNotFound):
		response.NotFound(c, 13001, "角色不存在")
	default:
		response.InternalError(c)
	}
}
