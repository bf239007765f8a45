package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"fieldops/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoSubmissions = errors.New("该条件下无提交记录")
	ErrExportGenerateFail  = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 提交记录导出为 Excel (.xlsx)，供管理端对账与归档
//   - 任务日历导出为 iCalendar (RFC 5545)，操作员可订阅到手机日历
//   - 导出以 bytes.Buffer / 字符串返回，由 Handler 层设置响应头后写入 Response
type ExportService interface {
	// ExportSubmissions 按部门和时间范围导出提交记录为 Excel
	ExportSubmissions(ctx context.Context, departmentID string, from, to *time.Time) (*bytes.Buffer, string, error)
	// AssignmentCalendar 导出指定用户未来任务（含截止时间）为 iCalendar
	AssignmentCalendar(ctx context.Context, submitter *SubmitterContext, from, to time.Time) (string, error)
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
// ExportSubmissions — 导出提交记录为 Excel
// ═══════════════════════════════════════════════════════════
//
// 表头: | 提交编号 | 任务编号 | 提交人 | 部门(提交时) | 纬度 | 经度 | 提交时间 | 作答数 |

func (s *exportService) ExportSubmissions(ctx context.Context, departmentID string, from, to *time.Time) (*bytes.Buffer, string, error) {
	// 导出不分页，上限一次取足
	subs, total, err := s.repo.Submission.List(ctx, departmentID, from, to, 0, 10000)
	if err != nil {
		s.logger.Error("查询提交记录失败", zap.Error(err))
		return nil, "", err
	}
	if total == 0 {
		return nil, "", ErrExportNoSubmissions
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "提交记录"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "B", 38)
	f.SetColWidth(sheetName, "C", "D", 16)
	f.SetColWidth(sheetName, "E", "F", 14)
	f.SetColWidth(sheetName, "G", "G", 22)
	f.SetColWidth(sheetName, "H", "H", 10)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	headers := []string{"提交编号", "任务编号", "提交人", "部门(提交时)", "纬度", "经度", "提交时间", "作答数"}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheetName, cell(col, 1), h)
		f.SetCellStyle(sheetName, cell(col, 1), cell(col, 1), headerStyle)
	}

	row := 2
	for i := range subs {
		sub := &subs[i]
		userName := sub.UserID
		if sub.User != nil {
			userName = sub.User.Name
		}
		f.SetCellValue(sheetName, cell("A", row), sub.SubmissionID)
		f.SetCellValue(sheetName, cell("B", row), sub.AssignmentID)
		f.SetCellValue(sheetName, cell("C", row), userName)
		f.SetCellValue(sheetName, cell("D", row), sub.DepartmentIDAtSubmission)
		f.SetCellValue(sheetName, cell("E", row), sub.Latitude)
		f.SetCellValue(sheetName, cell("F", row), sub.Longitude)
		f.SetCellValue(sheetName, cell("G", row), sub.SubmittedAt.Format("2006-01-02 15:04:05"))
		f.SetCellValue(sheetName, cell("H", row), len(sub.Answers))
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("提交记录_%s.xlsx", time.Now().Format("20060102"))
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// AssignmentCalendar — 任务截止日历 (iCalendar)
// ═══════════════════════════════════════════════════════════
//
// 每个带截止时间的任务生成一个 VEVENT，事件时刻为 due_date。
// 无截止时间的任务不出现在日历里。

func (s *exportService) AssignmentCalendar(ctx context.Context, submitter *SubmitterContext, from, to time.Time) (string, error) {
	assignments, err := s.repo.Assignment.ListDueBetween(ctx, submitter.UserID, submitter.TeamID, from, to)
	if err != nil {
		s.logger.Error("查询任务日历失败", zap.Error(err))
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//fieldops//checklist//CN")

	now := time.Now().UTC()
	for i := range assignments {
		a := &assignments[i]
		if a.DueDate == nil {
			continue
		}

		summary := "现场检查任务"
		if a.Template != nil && a.Template.Name != "" {
			summary = a.Template.Name
		}

		evt := cal.AddEvent(fmt.Sprintf("%s@fieldops", a.AssignmentID))
		evt.SetDtStampTime(now)
		evt.SetStartAt(a.DueDate.UTC())
		evt.SetEndAt(a.DueDate.UTC().Add(30 * time.Minute))
		evt.SetSummary(summary)

		var desc []string
		desc = append(desc, fmt.Sprintf("任务状态: %s", a.Status))
		if len(a.Zones) > 0 {
			desc = append(desc, fmt.Sprintf("围栏数量: %d", len(a.Zones)))
		}
		evt.SetDescription(strings.Join(desc, "\n"))
	}

	return cal.Serialize(), nil
}

// ── 辅助函数 ──

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
