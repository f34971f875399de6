package dto

// CreateTagRequest 创建标签请求
type CreateTagRequest struct {
	Name string `json:"name" binding:"required,max=32"`
}

// TagResponse 标签信息
type TagResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
