package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sgms/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoShifts     = errors.New("该时间范围内无排班数据")
	ErrExportRangeInvalid = errors.New("导出时间范围无效")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// rosterFetchLimit 单次导出最多取的班次数
const rosterFetchLimit = 2000

// ExportService 导出业务接口
//
// 设计说明：
//   - 门店排班表导出为 Excel (.xlsx)，供店长打印张贴
//   - 员工个人班表导出为 iCalendar (.ics)，可导入手机日历
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportRoster 导出门店排班表为 Excel
	ExportRoster(ctx context.Context, branchID string, from, to time.Time) (*bytes.Buffer, string, error)
	// ExportMyCalendar 导出员工个人班表为 ICS
	ExportMyCalendar(ctx context.Context, staffID string, from, to time.Time) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportRoster — 导出门店排班表为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 单 Sheet "排班表"
//   - 表头: | 日期 | 星期 | 员工 | 开始 | 结束 | 状态 | 备注 |
//   - 按 start_time 升序
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportRoster(ctx context.Context, branchID string, from, to time.Time) (*bytes.Buffer, string, error) {
	if !to.After(from) {
		return nil, "", ErrExportRangeInvalid
	}

	branch, err := s.repo.Branch.GetByID(ctx, branchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrBranchNotFound
		}
		s.logger.Error("查询门店失败", zap.Error(err))
		return nil, "", err
	}

	shifts, _, err := s.repo.Shift.ListByBranch(ctx, branchID, from, to, "", 0, rosterFetchLimit)
	if err != nil {
		s.logger.Error("查询排班数据失败", zap.Error(err))
		return nil, "", err
	}
	if len(shifts) == 0 {
		return nil, "", ErrExportNoShifts
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "排班表"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 8)
	f.SetColWidth(sheetName, "C", "C", 16)
	f.SetColWidth(sheetName, "D", "E", 10)
	f.SetColWidth(sheetName, "F", "F", 10)
	f.SetColWidth(sheetName, "G", "G", 30)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s — 排班表 (%s ~ %s)",
		branch.Name, from.Format("2006-01-02"), to.Format("2006-01-02")))
	f.MergeCell(sheetName, "A1", "G1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	headers := []string{"日期", "星期", "员工", "开始", "结束", "状态", "备注"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 2), h)
	}

	dayNames := map[time.Weekday]string{
		time.Monday: "周一", time.Tuesday: "周二", time.Wednesday: "周三",
		time.Thursday: "周四", time.Friday: "周五", time.Saturday: "周六", time.Sunday: "周日",
	}
	statusNames := map[string]string{
		"scheduled": "已排班", "released": "已让出", "completed": "已完成", "cancelled": "已取消",
	}

	row := 3
	for i := range shifts {
		sh := &shifts[i]
		staffName := sh.StaffID
		if sh.Staff != nil {
			staffName = sh.Staff.Name
		}
		status := sh.Status
		if name, ok := statusNames[status]; ok {
			status = name
		}

		f.SetCellValue(sheetName, cell("A", row), sh.StartTime.Format("2006-01-02"))
		f.SetCellValue(sheetName, cell("B", row), dayNames[sh.StartTime.Weekday()])
		f.SetCellValue(sheetName, cell("C", row), staffName)
		f.SetCellValue(sheetName, cell("D", row), sh.StartTime.Format("15:04"))
		f.SetCellValue(sheetName, cell("E", row), sh.EndTime.Format("15:04"))
		f.SetCellValue(sheetName, cell("F", row), status)
		f.SetCellValue(sheetName, cell("G", row), sh.Notes)
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("排班表_%s_%s.xlsx", branch.Name, from.Format("20060102"))
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportMyCalendar — 导出个人班表为 ICS
// ═══════════════════════════════════════════════════════════
//
// 每个班次生成一个 VEVENT，UID 取班次 ID，保证重复导入时
// 日历客户端按 UID 覆盖而不是叠加。已取消班次不导出。

func (s *exportService) ExportMyCalendar(ctx context.Context, staffID string, from, to time.Time) (*bytes.Buffer, string, error) {
	if !to.After(from) {
		return nil, "", ErrExportRangeInvalid
	}

	shifts, err := s.repo.Shift.ListByStaffRange(ctx, staffID, from, to)
	if err != nil {
		s.logger.Error("查询个人班次失败", zap.Error(err))
		return nil, "", err
	}
	if len(shifts) == 0 {
		return nil, "", ErrExportNoShifts
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//sgms//shift-calendar//CN")

	now := time.Now()
	exported := 0
	for i := range shifts {
		sh := &shifts[i]
		if sh.Status == "cancelled" {
			continue
		}

		evt := cal.AddEvent(sh.ShiftID)
		evt.SetCreatedTime(now)
		evt.SetDtStampTime(now)
		evt.SetStartAt(sh.StartTime)
		evt.SetEndAt(sh.EndTime)
		evt.SetSummary("工作班次")
		if sh.Branch != nil {
			evt.SetLocation(sh.Branch.Name)
		}
		if sh.Notes != "" {
			evt.SetDescription(sh.Notes)
		}
		exported++
	}
	if exported == 0 {
		return nil, "", ErrExportNoShifts
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("我的班表_%s.ics", from.Format("20060102"))
	return buf, filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
