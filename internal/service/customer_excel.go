package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"prefect-crm/internal/dto"
	"prefect-crm/internal/model"
	"prefect-crm/internal/repository"
	pkgerrors "prefect-crm/pkg/errors"
)

// ImportCustomerRow Excel 导入的一行客户数据
type ImportCustomerRow struct {
	Row          int // Excel 行号（从 2 开始）
	Name         string
	ContactID    string
	ContactName  string
	Phone        string
	Source       string
	ReferralFrom string
	Content      string
	Memo         string
}

func (r ImportCustomerRow) empty() bool {
	return r.Name == "" && r.ContactID == "" && r.ContactName == "" && r.Phone == "" &&
		r.Source == "" && r.ReferralFrom == "" && r.Content == "" && r.Memo == ""
}

var (
	ErrImportNoData      = errors.New("Excel文件无数据行（第一行为表头）")
	ErrImportTooManyRows = errors.New("数据行数超过上限")
	ErrImportBadHeader   = errors.New("Excel表头缺少必要列（QQ/来源/咨询详情）")
	ErrExportGenerate    = errors.New("生成Excel文件失败")
)

// 导入导出共用的列定义，顺序即导出列序
var customerColumns = []struct {
	key     string
	headers []string
	width   float64
}{
	{"name", []string{"姓名", "name"}, 12},
	{"contact_id", []string{"qq", "contact_id"}, 16},
	{"contact_name", []string{"qq昵称", "contact_name"}, 16},
	{"phone", []string{"电话", "手机号", "phone"}, 16},
	{"source", []string{"来源", "客户来源", "source"}, 12},
	{"referral_from", []string{"转介绍人qq", "referral_from"}, 16},
	{"content", []string{"咨询详情", "content"}, 40},
	{"memo", []string{"备注", "memo"}, 24},
}

// ────────────────────── ParseImportFile ──────────────────────

// ParseImportFile 解析导入 Excel，第一行为表头，列顺序不限
func (s *customerService) ParseImportFile(reader io.Reader) ([]ImportCustomerRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("无法解析Excel文件: %w", err)
	}
	defer f.Close()

	excelRows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("读取工作表失败: %w", err)
	}
	if len(excelRows) < 2 {
		return nil, ErrImportNoData
	}

	colIndex := parseCustomerHeader(excelRows[0])
	if colIndex["contact_id"] < 0 || colIndex["source"] < 0 || colIndex["content"] < 0 {
		return nil, ErrImportBadHeader
	}

	value := func(row []string, key string) string {
		idx := colIndex[key]
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var rows []ImportCustomerRow
	for i := 1; i < len(excelRows); i++ {
		r := excelRows[i]
		item := ImportCustomerRow{
			Row:          i + 1,
			Name:         value(r, "name"),
			ContactID:    value(r, "contact_id"),
			ContactName:  value(r, "contact_name"),
			Phone:        value(r, "phone"),
			Source:       value(r, "source"),
			ReferralFrom: value(r, "referral_from"),
			Content:      value(r, "content"),
			Memo:         value(r, "memo"),
		}
		if item.empty() {
			continue
		}
		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if max := s.cfg.ImportMaxRows; max > 0 && len(rows) > max {
		return nil, fmt.Errorf("%w（%d 行）", ErrImportTooManyRows, max)
	}
	return rows, nil
}

// parseCustomerHeader 表头 -> 列索引，未出现的列为 -1
func parseCustomerHeader(header []string) map[string]int {
	idx := make(map[string]int, len(customerColumns))
	for _, col := range customerColumns {
		idx[col.key] = -1
	}
	for i, h := range header {
		lower := strings.ToLower(strings.TrimSpace(h))
		for _, col := range customerColumns {
			for _, name := range col.headers {
				if lower == name && idx[col.key] < 0 {
					idx[col.key] = i
				}
			}
		}
	}
	return idx
}

// ────────────────────── Import ──────────────────────

// Import 两阶段导入：先逐行校验收集错误，再在单个事务中逐行写入合法行
func (s *customerService) Import(ctx context.Context, rows []ImportCustomerRow, callerID string) (*dto.ImportCustomerResponse, error) {
	resp := &dto.ImportCustomerResponse{Total: len(rows)}
	fail := func(row ImportCustomerRow, reason string) {
		resp.Failed++
		resp.Errors = append(resp.Errors, dto.ImportRowError{Row: row.Row, ContactID: row.ContactID, Reason: reason})
	}

	type pending struct {
		row      ImportCustomerRow
		customer *model.Customer
	}
	var valid []pending
	seen := make(map[string]int, len(rows))

	for _, row := range rows {
		if row.ContactID == "" || row.Source == "" || row.Content == "" {
			fail(row, "必填字段为空（QQ/来源/咨询详情）")
			continue
		}
		if reason := checkImportLengths(row); reason != "" {
			fail(row, reason)
			continue
		}

		source, ok := model.ParseChoice(model.SourceChoices, row.Source)
		if !ok {
			fail(row, fmt.Sprintf("无效的客户来源: %s", row.Source))
			continue
		}

		if first, dup := seen[row.ContactID]; dup {
			fail(row, fmt.Sprintf("与第 %d 行QQ号重复", first))
			continue
		}
		exists, err := s.repo.Customer.ExistsByContactID(ctx, row.ContactID, "")
		if err != nil {
			s.logger.Error("检查客户QQ失败", zap.Error(err))
			return nil, err
		}
		if exists {
			fail(row, fmt.Sprintf("QQ号已登记: %s", row.ContactID))
			continue
		}
		seen[row.ContactID] = row.Row

		customer := &model.Customer{
			Name:         nonEmpty(row.Name),
			ContactID:    row.ContactID,
			ContactName:  nonEmpty(row.ContactName),
			Phone:        nonEmpty(row.Phone),
			Source:       model.CustomerSource(source),
			ReferralFrom: row.ReferralFrom,
			Content:      row.Content,
			ConsultantID: callerID,
			Memo:         nonEmpty(row.Memo),
		}
		customer.Stamp(callerID)
		valid = append(valid, pending{row: row, customer: customer})
	}

	if len(valid) == 0 {
		return resp, nil
	}

	// 每行一个保存点：单行写入失败只回滚该行
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		for _, p := range valid {
			rowErr := txRepo.Transaction(ctx, func(rowRepo *repository.Repository) error {
				return rowRepo.Customer.Create(ctx, p.customer)
			})
			switch {
			case rowErr == nil:
				resp.Success++
			case pkgerrors.IsDuplicateKey(rowErr):
				fail(p.row, fmt.Sprintf("QQ号已登记: %s", p.row.ContactID))
			default:
				return fmt.Errorf("QQ %s 写入数据库失败: %w", p.row.ContactID, rowErr)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("导入客户写入失败，事务回滚", zap.Error(err))
		return nil, err
	}

	s.logger.Info("导入客户完成",
		zap.Int("total", resp.Total), zap.Int("success", resp.Success), zap.Int("failed", resp.Failed))
	return resp, nil
}

// 导入列长度上限，与 customers 表字段一致（按字符计）
var importLengthLimits = []struct {
	label string
	max   int
	value func(ImportCustomerRow) string
}{
	{"姓名", 32, func(r ImportCustomerRow) string { return r.Name }},
	{"QQ号", 64, func(r ImportCustomerRow) string { return r.ContactID }},
	{"QQ昵称", 64, func(r ImportCustomerRow) string { return r.ContactName }},
	{"电话", 64, func(r ImportCustomerRow) string { return r.Phone }},
	{"转介绍人QQ", 64, func(r ImportCustomerRow) string { return r.ReferralFrom }},
}

func checkImportLengths(row ImportCustomerRow) string {
	for _, l := range importLengthLimits {
		if utf8.RuneCountInString(l.value(row)) > l.max {
			return fmt.Sprintf("%s过长（最多 %d 个字符）", l.label, l.max)
		}
	}
	return ""
}

// ────────────────────── Export ──────────────────────

// Export 按列表过滤条件导出全部客户，来源列输出中文标签
func (s *customerService) Export(ctx context.Context, req *dto.CustomerListRequest) (*bytes.Buffer, string, error) {
	customers, err := s.repo.Customer.ListAll(ctx, toCustomerFilter(req))
	if err != nil {
		s.logger.Error("查询导出客户失败", zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "客户表"
	idx, _ := f.NewSheet(sheet)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 表头：导入表头 + 课程顾问 / 标签 / 录入时间
	headers := make([]string, 0, len(customerColumns)+3)
	for i, col := range customerColumns {
		headers = append(headers, exportHeader(col.headers[0]))
		f.SetColWidth(sheet, colName(i), colName(i), col.width)
	}
	headers = append(headers, "咨询课程", "课程顾问", "标签", "录入时间")
	for i, h := range headers {
		f.SetCellValue(sheet, cell(colName(i), 1), h)
	}
	last := colName(len(headers) - 1)
	f.SetColWidth(sheet, colName(len(customerColumns)), last, 16)
	f.SetCellStyle(sheet, "A1", cell(last, 1), headerStyle)

	for i := range customers {
		c := &customers[i]
		row := i + 2

		course := ""
		if c.ConsultCourse != nil {
			course = c.ConsultCourse.Name
		}
		consultant := ""
		if c.Consultant != nil {
			consultant = c.Consultant.Name
		}
		tagNames := make([]string, 0, len(c.Tags))
		for _, t := range c.Tags {
			tagNames = append(tagNames, t.Name)
		}

		values := []interface{}{
			strValue(c.Name), c.ContactID, strValue(c.ContactName), strValue(c.Phone),
			c.Source.Label(), c.ReferralFrom, c.Content, strValue(c.Memo),
			course, consultant, strings.Join(tagNames, ","), c.CreatedAt.Format("2006-01-02 15:04"),
		}
		for j, v := range values {
			f.SetCellValue(sheet, cell(colName(j), row), v)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerate
	}

	filename := fmt.Sprintf("客户表_%s.xlsx", time.Now().Format("20060102"))
	return buf, filename, nil
}

// ── 辅助函数 ──

// exportHeader 导出表头使用导入时可识别的写法
func exportHeader(h string) string {
	return strings.ReplaceAll(h, "qq", "QQ")
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
