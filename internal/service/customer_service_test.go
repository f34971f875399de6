package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"prefect-crm/internal/dto"
	"prefect-crm/internal/model"
	"prefect-crm/internal/repository"
	pkgerrors "prefect-crm/pkg/errors"
)

func TestCustomerService_Create(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tag, err := env.svc.Tag.Create(ctx, &dto.CreateTagRequest{Name: "高意向"}, env.admin.ProfileID)
	require.NoError(t, err)

	resp, err := env.svc.Customer.Create(ctx, &dto.CreateCustomerRequest{
		Name:            strPtr("张三"),
		ContactID:       "12345",
		Source:          intPtr(int(model.SourceReferral)),
		ReferralFrom:    "67890",
		ConsultCourseID: &env.course.CourseID,
		Content:         "想了解周末班",
		TagIDs:          []string{tag.ID},
	}, env.admin.ProfileID)
	require.NoError(t, err)

	assert.Equal(t, "转介绍", resp.SourceLabel)
	assert.Equal(t, 1, resp.Version)
	require.NotNil(t, resp.Consultant)
	assert.Equal(t, env.admin.ProfileID, resp.Consultant.ID, "缺省课程顾问为当前登录账号")
	require.NotNil(t, resp.ConsultCourse)
	assert.Equal(t, "Python自动化", resp.ConsultCourse.Name)
	require.Len(t, resp.Tags, 1)

	t.Run("QQ号重复", func(t *testing.T) {
		_, err := env.svc.Customer.Create(ctx, &dto.CreateCustomerRequest{
			ContactID: "12345",
			Source:    intPtr(int(model.SourceWebsite)),
			Content:   "重复",
		}, env.admin.ProfileID)
		assert.ErrorIs(t, err, ErrCustomerContactExists)
	})

	t.Run("咨询课程不存在", func(t *testing.T) {
		_, err := env.svc.Customer.Create(ctx, &dto.CreateCustomerRequest{
			ContactID:       "22222",
			Source:          intPtr(int(model.SourceWebsite)),
			ConsultCourseID: strPtr("00000000-0000-0000-0000-000000000000"),
			Content:         "x",
		}, env.admin.ProfileID)
		assert.ErrorIs(t, err, ErrCourseNotFound)
	})

	t.Run("标签不存在时不落库", func(t *testing.T) {
		_, err := env.svc.Customer.Create(ctx, &dto.CreateCustomerRequest{
			ContactID: "33333",
			Source:    intPtr(int(model.SourceWebsite)),
			Content:   "x",
			TagIDs:    []string{"00000000-0000-0000-0000-000000000000"},
		}, env.admin.ProfileID)
		assert.ErrorIs(t, err, ErrTagNotFound)

		exists, err := env.repo.Customer.ExistsByContactID(ctx, "33333", "")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestCustomerService_UpdateOptimisticLock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	c := env.createCustomer(t, "10001")

	updated, err := env.svc.Customer.Update(ctx, c.ID, &dto.UpdateCustomerRequest{
		Phone:   strPtr("13800000000"),
		Version: c.Version,
	}, env.admin.ProfileID)
	require.NoError(t, err)
	assert.Equal(t, "13800000000", updated.Phone)
	assert.Equal(t, c.Version+1, updated.Version)

	// 使用过期版本号
	_, err = env.svc.Customer.Update(ctx, c.ID, &dto.UpdateCustomerRequest{
		Phone:   strPtr("13900000000"),
		Version: c.Version,
	}, env.admin.ProfileID)
	assert.ErrorIs(t, err, pkgerrors.ErrOptimisticLock)

	other := env.createCustomer(t, "10002")
	_, err = env.svc.Customer.Update(ctx, other.ID, &dto.UpdateCustomerRequest{
		ContactID: strPtr("10001"),
		Version:   other.Version,
	}, env.admin.ProfileID)
	assert.ErrorIs(t, err, ErrCustomerContactExists)
}

func TestCustomerService_ListFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.createCustomer(t, "20001")
	_, err := env.svc.Customer.Create(ctx, &dto.CreateCustomerRequest{
		ContactID: "20002",
		Source:    intPtr(int(model.SourceZhihu)),
		Content:   "知乎来的",
	}, env.admin.ProfileID)
	require.NoError(t, err)

	list, total, err := env.svc.Customer.List(ctx, &dto.CustomerListRequest{Source: intPtr(int(model.SourceZhihu))})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "20002", list[0].ContactID)

	_, total, err = env.svc.Customer.List(ctx, &dto.CustomerListRequest{Keyword: "2000"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

func TestCustomerService_FollowUps(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	c := env.createCustomer(t, "30001")

	f, err := env.svc.Customer.AddFollowUp(ctx, c.ID, &dto.CreateFollowUpRequest{
		Content:   "电话沟通，两周内报名",
		Intention: intPtr(int(model.IntentionTwoWeeks)),
	}, env.admin.ProfileID)
	require.NoError(t, err)
	assert.Equal(t, "2周内报名", f.IntentionLabel)

	_, err = env.svc.Customer.AddFollowUp(ctx, "00000000-0000-0000-0000-000000000000", &dto.CreateFollowUpRequest{
		Content: "x", Intention: intPtr(0),
	}, env.admin.ProfileID)
	assert.ErrorIs(t, err, ErrCustomerNotFound)

	list, err := env.svc.Customer.ListFollowUps(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Consultant)
	assert.Equal(t, env.admin.ProfileID, list[0].Consultant.ID)
}

// buildImportFile 生成导入用 xlsx：第一行表头，其后为数据行
func buildImportFile(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	header := []interface{}{"姓名", "QQ", "QQ昵称", "电话", "来源", "转介绍人QQ", "咨询详情", "备注"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	for i, row := range rows {
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell("A", i+2), &r))
	}

	buf := new(bytes.Buffer)
	require.NoError(t, f.Write(buf))
	return buf
}

func TestCustomerService_Import(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createCustomer(t, "40000")

	file := buildImportFile(t, [][]interface{}{
		{"李四", "40001", "小李", "13700000000", "QQ群", "", "咨询 Python", ""},
		{"王五", "40002", "", "", "2", "", "官网留言", "周末有空"},
		{"", "40003", "", "", "抖音", "", "来源无效", ""},
		{"", "40000", "", "", "知乎", "", "已登记", ""},
		{"", "40001", "", "", "知乎", "", "文件内重复", ""},
		{"", "", "", "", "", "", "", ""},
		{"", "40004", "", "", "知乎", "", "", ""},
	})

	rows, err := env.svc.Customer.ParseImportFile(file)
	require.NoError(t, err)
	assert.Len(t, rows, 6, "全空行应被跳过")

	resp, err := env.svc.Customer.Import(ctx, rows, env.admin.ProfileID)
	require.NoError(t, err)
	assert.Equal(t, 6, resp.Total)
	assert.Equal(t, 2, resp.Success)
	assert.Equal(t, 4, resp.Failed)

	failedRows := make([]int, 0, len(resp.Errors))
	for _, e := range resp.Errors {
		failedRows = append(failedRows, e.Row)
	}
	assert.Equal(t, []int{4, 5, 6, 8}, failedRows)

	list, total, err := env.svc.Customer.List(ctx, &dto.CustomerListRequest{Keyword: "4000"})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	for _, c := range list {
		if c.ContactID == "40002" {
			assert.Equal(t, "官网", c.SourceLabel)
			assert.Equal(t, "周末有空", c.Memo)
		}
	}
}

func TestCustomerService_Import_OverlongColumnsReportedPerRow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	rows := []ImportCustomerRow{
		{Row: 2, Name: "赵六", ContactID: "41001", Source: "QQ群", Content: "咨询 Go"},
		{Row: 3, Name: strings.Repeat("长", 40), ContactID: "41002", Source: "QQ群", Content: "姓名过长"},
		{Row: 4, ContactID: "41003", Phone: strings.Repeat("1", 65), Source: "知乎", Content: "电话过长"},
		{Row: 5, Name: strings.Repeat("名", 32), ContactID: "41004", Source: "知乎", Content: "刚好 32 个字符"},
	}

	resp, err := env.svc.Customer.Import(ctx, rows, env.admin.ProfileID)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Success)
	assert.Equal(t, 2, resp.Failed)
	require.Len(t, resp.Errors, 2)
	assert.Equal(t, 3, resp.Errors[0].Row)
	assert.Contains(t, resp.Errors[0].Reason, "姓名过长")
	assert.Equal(t, 4, resp.Errors[1].Row)
	assert.Contains(t, resp.Errors[1].Reason, "电话过长")

	_, total, err := env.svc.Customer.List(ctx, &dto.CustomerListRequest{Keyword: "4100"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

// staleContactCheck 预检查总是返回未登记，模拟预检查与写入之间被并发请求抢先
type staleContactCheck struct {
	repository.CustomerRepository
}

func (staleContactCheck) ExistsByContactID(context.Context, string, string) (bool, error) {
	return false, nil
}

func TestCustomerService_Import_ConcurrentDuplicateSkipsOnlyThatRow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createCustomer(t, "42000")
	env.repo.Customer = staleContactCheck{env.repo.Customer}

	rows := []ImportCustomerRow{
		{Row: 2, ContactID: "42001", Source: "QQ群", Content: "第一行"},
		{Row: 3, ContactID: "42000", Source: "QQ群", Content: "已被抢先登记"},
		{Row: 4, ContactID: "42002", Source: "知乎", Content: "第三行"},
	}

	resp, err := env.svc.Customer.Import(ctx, rows, env.admin.ProfileID)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Success)
	assert.Equal(t, 1, resp.Failed)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, 3, resp.Errors[0].Row)
	assert.Contains(t, resp.Errors[0].Reason, "已登记")

	_, total, err := env.svc.Customer.List(ctx, &dto.CustomerListRequest{Keyword: "4200"})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
}

func TestCustomerService_ParseImportFile_Errors(t *testing.T) {
	env := newTestEnv(t)

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"姓名", "电话"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"张三", "138"}))
	buf := new(bytes.Buffer)
	require.NoError(t, f.Write(buf))
	f.Close()

	_, err := env.svc.Customer.ParseImportFile(buf)
	assert.ErrorIs(t, err, ErrImportBadHeader)

	_, err = env.svc.Customer.ParseImportFile(buildImportFile(t, nil))
	assert.ErrorIs(t, err, ErrImportNoData)

	_, err = env.svc.Customer.ParseImportFile(bytes.NewBufferString("not an xlsx"))
	assert.Error(t, err)
}

func TestCustomerService_Export(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.createCustomer(t, "50001")

	buf, filename, err := env.svc.Customer.Export(ctx, &dto.CustomerListRequest{})
	require.NoError(t, err)
	assert.Contains(t, filename, "客户表_")

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("客户表")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "QQ", rows[0][1])
	assert.Equal(t, "50001", rows[1][1])
	assert.Equal(t, "QQ群", rows[1][4], "来源导出为中文标签")

	// 导出文件可以原样导入（表头兼容）
	header := parseCustomerHeader(rows[0])
	for _, col := range customerColumns {
		assert.GreaterOrEqual(t, header[col.key], 0, col.key)
	}
}
