package handler

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"sgms/backend/internal/service"
	"sgms/backend/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportRoster 导出门店排班表（Excel）
// GET /api/v1/export/roster?branch_id=&from=&to=
func (h *ExportHandler) ExportRoster(c *gin.Context) {
	branchID := c.Query("branch_id")
	if branchID == "" {
		// 缺省导出当前用户所在门店
		var ok bool
		branchID, ok = MustGetBranchID(c)
		if !ok {
			return
		}
	}

	from, to, valid := parseExportRange(c)
	if !valid {
		return
	}

	buf, filename, err := h.exportSvc.ExportRoster(c.Request.Context(), branchID, from, to)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeDownload(c, buf.Bytes(), filename, contentTypeXLSX)
}

// ExportMyCalendar 导出个人班表（ICS 日历）
// GET /api/v1/export/my-calendar?from=&to=
func (h *ExportHandler) ExportMyCalendar(c *gin.Context) {
	staffID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	from, to, valid := parseExportRange(c)
	if !valid {
		return
	}

	buf, filename, err := h.exportSvc.ExportMyCalendar(c.Request.Context(), staffID, from, to)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeDownload(c, buf.Bytes(), filename, contentTypeICS)
}

// parseExportRange 解析 from/to 查询参数，缺省为最近四周
func parseExportRange(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now()
	from := now.AddDate(0, 0, -7)
	to := now.AddDate(0, 0, 21)

	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			response.BadRequest(c, 10001, "from 格式错误，需为 RFC3339")
			return time.Time{}, time.Time{}, false
		}
		from = t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			response.BadRequest(c, 10001, "to 格式错误，需为 RFC3339")
			return time.Time{}, time.Time{}, false
		}
		to = t
	}
	return from, to, true
}

// writeDownload 设置下载响应头并输出文件内容
func writeDownload(c *gin.Context, data []byte, filename, contentType string) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Header("Content-Type", contentType)
	c.Data(http.StatusOK, contentType, data)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportRangeInvalid):
		response.BadRequest(c, 17101, "导出时间范围无效")
	case errors.Is(err, service.ErrExportNoShifts):
		response.NotFound(c, 17102, "该时间范围内无排班数据")
	case errors.Is(err, service.ErrBranchNotFound):
		response.NotFound(c, 13001, "门店不存在")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
