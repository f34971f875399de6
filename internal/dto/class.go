package dto

// ── 班级 / 上课记录 DTO ──

// CreateClassRequest 创建班级请求
type CreateClassRequest struct {
	BranchID   string   `json:"branch_id"   binding:"required,uuid"`
	CourseID   string   `json:"course_id"   binding:"required,uuid"`
	ClassType  *int     `json:"class_type"  binding:"required,crm_class_type"`
	Semester   int      `json:"semester"    binding:"required,gt=0,max=32767"`
	StartDate  string   `json:"start_date"  binding:"required,datetime=2006-01-02"`
	EndDate    *string  `json:"end_date"    binding:"omitempty,datetime=2006-01-02"`
	TeacherIDs []string `json:"teacher_ids" binding:"omitempty,dive,uuid"`
}

// UpdateClassRequest 更新班级请求
type UpdateClassRequest struct {
	ClassType    *int    `json:"class_type"     binding:"omitempty,crm_class_type"`
	Semester     *int    `json:"semester"       binding:"omitempty,gt=0,max=32767"`
	StartDate    *string `json:"start_date"     binding:"omitempty,datetime=2006-01-02"`
	EndDate      *string `json:"end_date"       binding:"omitempty,datetime=2006-01-02"`
	ClearEndDate bool    `json:"clear_end_date"`
}

// ClassListRequest 班级列表查询参数
type ClassListRequest struct {
	BranchID string `form:"branch_id" binding:"omitempty,uuid"`
	CourseID string `form:"course_id" binding:"omitempty,uuid"`
}

// SetTeachersRequest 设置班级讲师（整体替换）
type SetTeachersRequest struct {
	TeacherIDs []string `json:"teacher_ids" binding:"omitempty,dive,uuid"`
}

// ClassResponse 班级详情
type ClassResponse struct {
	ID             string         `json:"id"`
	DisplayName    string         `json:"display_name"`
	Branch         BranchBrief    `json:"branch"`
	Course         CourseBrief    `json:"course"`
	ClassType      int            `json:"class_type"`
	ClassTypeLabel string         `json:"class_type_label"`
	Semester       int            `json:"semester"`
	StartDate      string         `json:"start_date"`
	EndDate        string         `json:"end_date,omitempty"`
	Teachers       []ProfileBrief `json:"teachers"`
}

// ClassBrief 班级简要信息
type ClassBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateCourseRecordRequest 创建上课记录请求
type CreateCourseRecordRequest struct {
	ClassID          string  `json:"class_id"           binding:"required,uuid"`
	DayNum           int     `json:"day_num"            binding:"required,gt=0,max=32767"`
	TeacherID        string  `json:"teacher_id"         binding:"omitempty,uuid"` // 缺省为当前登录账号
	HasHomework      *bool   `json:"has_homework"`                                // 缺省为 true
	HomeworkTitle    *string `json:"homework_title"     binding:"omitempty,max=128"`
	HomeworkContent  *string `json:"homework_content"`
	Outline          string  `json:"outline"            binding:"required"`
	Date             *string `json:"date"               binding:"omitempty,datetime=2006-01-02"`
	InitStudyRecords bool    `json:"init_study_records"` // 同时为班级全部学员生成学习记录
}

// UpdateCourseRecordRequest 更新上课记录请求
type UpdateCourseRecordRequest struct {
	TeacherID       *string `json:"teacher_id"       binding:"omitempty,uuid"`
	HasHomework     *bool   `json:"has_homework"`
	HomeworkTitle   *string `json:"homework_title"   binding:"omitempty,max=128"`
	HomeworkContent *string `json:"homework_content"`
	Outline         *string `json:"outline"          binding:"omitempty,min=1"`
	Date            *string `json:"date"             binding:"omitempty,datetime=2006-01-02"`
}

// CourseRecordResponse 上课记录详情
type CourseRecordResponse struct {
	ID                  string        `json:"id"`
	Class               ClassBrief    `json:"class"`
	DayNum              int           `json:"day_num"`
	Teacher             *ProfileBrief `json:"teacher,omitempty"`
	HasHomework         bool          `json:"has_homework"`
	HomeworkTitle       string        `json:"homework_title,omitempty"`
	HomeworkContent     string        `json:"homework_content,omitempty"`
	Outline             string        `json:"outline"`
	Date                string        `json:"date"`
	StudyRecordsCreated int           `json:"study_records_created,omitempty"`
}

// InitStudyRecordsResponse 批量生成学习记录结果
type InitStudyRecordsResponse struct {
	Created int `json:"created"`
}
