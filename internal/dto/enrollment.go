package dto

// ── 报名 / 学习记录 / 缴费 DTO ──

// CreateEnrollmentRequest 创建报名请求
type CreateEnrollmentRequest struct {
	CustomerID   string `json:"customer_id"   binding:"required,uuid"`
	ClassID      string `json:"class_id"      binding:"required,uuid"`
	ConsultantID string `json:"consultant_id" binding:"omitempty,uuid"`
}

// EnrollmentListRequest 报名列表查询参数
type EnrollmentListRequest struct {
	ClassID    string `form:"class_id"    binding:"omitempty,uuid"`
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
}

// EnrollmentResponse 报名详情
type EnrollmentResponse struct {
	ID               string        `json:"id"`
	Customer         CustomerBrief `json:"customer"`
	Class            ClassBrief    `json:"class"`
	Consultant       *ProfileBrief `json:"consultant,omitempty"`
	ContractAgreed   bool          `json:"contract_agreed"`
	ContractApproved bool          `json:"contract_approved"`
	Date             string        `json:"date"`
}

// CreateStudyRecordRequest 创建学习记录请求
type CreateStudyRecordRequest struct {
	EnrollmentID   string  `json:"enrollment_id"    binding:"required,uuid"`
	CourseRecordID string  `json:"course_record_id" binding:"required,uuid"`
	Attendance     *int    `json:"attendance"       binding:"omitempty,crm_attendance"`
	Score          *int    `json:"score"            binding:"required,crm_score"`
	Memo           *string `json:"memo"`
}

// UpdateStudyRecordRequest 更新学习记录请求
type UpdateStudyRecordRequest struct {
	Attendance *int    `json:"attendance" binding:"omitempty,crm_attendance"`
	Score      *int    `json:"score"      binding:"omitempty,crm_score"`
	Memo       *string `json:"memo"`
}

// StudyRecordListRequest 学习记录查询参数（二选一）
type StudyRecordListRequest struct {
	CourseRecordID string `form:"course_record_id" binding:"omitempty,uuid"`
	EnrollmentID   string `form:"enrollment_id"    binding:"omitempty,uuid"`
}

// StudyRecordResponse 学习记录详情
type StudyRecordResponse struct {
	ID              string `json:"id"`
	EnrollmentID    string `json:"enrollment_id"`
	CourseRecordID  string `json:"course_record_id"`
	DayNum          int    `json:"day_num,omitempty"`
	Attendance      int    `json:"attendance"`
	AttendanceLabel string `json:"attendance_label"`
	Score           int    `json:"score"`
	ScoreLabel      string `json:"score_label"`
	Memo            string `json:"memo,omitempty"`
	Date            string `json:"date"`
}

// AttendanceCount 各出勤状态计数
type AttendanceCount struct {
	Value int    `json:"value"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// EnrollmentSummaryResponse 学员学习汇总
type EnrollmentSummaryResponse struct {
	EnrollmentID   string            `json:"enrollment_id"`
	Sessions       int               `json:"sessions"`
	Attendance     []AttendanceCount `json:"attendance"`
	ScoredSessions int               `json:"scored_sessions"` // 不含 N/A
	TotalScore     int               `json:"total_score"`
	AverageScore   float64           `json:"average_score"`
}

// CreatePaymentRequest 创建缴费记录请求
type CreatePaymentRequest struct {
	CustomerID   string `json:"customer_id"   binding:"required,uuid"`
	CourseID     string `json:"course_id"     binding:"required,uuid"`
	Amount       *int   `json:"amount"        binding:"omitempty,gt=0"` // 缺省取配置默认金额
	ConsultantID string `json:"consultant_id" binding:"omitempty,uuid"`
}

// PaymentListRequest 缴费列表查询参数
type PaymentListRequest struct {
	PaginationRequest
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
	CourseID   string `form:"course_id"   binding:"omitempty,uuid"`
}

// PaymentResponse 缴费记录详情
type PaymentResponse struct {
	ID         string        `json:"id"`
	Customer   CustomerBrief `json:"customer"`
	Course     CourseBrief   `json:"course"`
	Amount     int           `json:"amount"`
	Consultant *ProfileBrief `json:"consultant,omitempty"`
	CreatedAt  string        `json:"created_at"`
}
