package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fieldops/backend/internal/service"
	"fieldops/backend/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportSubmissions 导出提交记录为 Excel
// GET /api/v1/export/submissions?department_id=xxx&from=RFC3339&to=RFC3339
func (h *ExportHandler) ExportSubmissions(c *gin.Context) {
	from, ok := parseTimeQuery(c, "from")
	if !ok {
		return
	}
	to, ok := parseTimeQuery(c, "to")
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportSubmissions(c.Request.Context(), c.Query("department_id"), from, to)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// AssignmentCalendar 任务截止日历（iCalendar 订阅）
// GET /api/v1/export/calendar?days=30
func (h *ExportHandler) AssignmentCalendar(c *gin.Context) {
	submitter, ok := MustGetSubmitter(c)
	if !ok {
		return
	}

	days := 30
	if v := c.Query("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 || parsed > 365 {
			response.BadRequest(c, 10001, "days 参数不合法")
			return
		}
		days = parsed
	}

	now := time.Now().UTC()
	content, err := h.exportSvc.AssignmentCalendar(c.Request.Context(), submitter, now, now.AddDate(0, 0, days))
	if err != nil {
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=assignments.ics")
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(content))
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoSubmissions):
		response.NotFound(c, 18001, "该条件下无提交记录")
	default:
		response.InternalError(c)
	}
}

// parseTimeQuery 解析可选的 RFC3339 时间查询参数
func parseTimeQuery(c *gin.Context, name string) (*time.Time, bool) {
	v := c.Query(name)
	if v == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		response.BadRequest(c, 10001, name+" 格式应为 RFC3339")
		return nil, false
	}
	return &t, true
}
