package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/healthmate/healthmate-api/internal/service"
)

// ReportHandler serves aggregate reports. Responses are computed per request.
type ReportHandler struct {
	reports *service.ReportService
	exports *service.ExportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports *service.ReportService, exports *service.ExportService) *ReportHandler {
	return &ReportHandler{reports: reports, exports: exports}
}

// Health handles GET /api/reports/health?startDate&endDate
func (h *ReportHandler) Health(c *fiber.Ctx) error {
	dates, err := parseDateRange(c)
	if err != nil {
		return respondError(c, err)
	}

	report, err := h.reports.HealthReport(c.UserContext(), userID(c), dates.From, dates.To)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Health report", report)
}

// ExportHealth handles GET /api/reports/health/export. The workbook is
// streamed unless object storage returned a URL.
func (h *ReportHandler) ExportHealth(c *fiber.Ctx) error {
	dates, err := parseDateRange(c)
	if err != nil {
		return respondError(c, err)
	}

	res, err := h.exports.ExportHealthReport(c.UserContext(), userID(c), dates.From, dates.To)
	if err != nil {
		return respondError(c, err)
	}

	if res.URL != "" {
		return success(c, fiber.StatusOK, "Health report exported", fiber.Map{
			"url":      res.URL,
			"filename": res.Filename,
		})
	}

	c.Set(fiber.HeaderContentType, service.XLSXContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, res.Filename))
	return c.Send(res.Data)
}

// Chatbot handles GET /api/reports/chatbot?startDate&endDate
func (h *ReportHandler) Chatbot(c *fiber.Ctx) error {
	dates, err := parseDateRange(c)
	if err != nil {
		return respondError(c, err)
	}

	report, err := h.reports.ChatbotReport(c.UserContext(), userID(c), dates.From, dates.To)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Chatbot report", report)
}

// Dashboard handles GET /api/reports/dashboard
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	dashboard, err := h.reports.Dashboard(c.UserContext(), userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Dashboard", dashboard)
}

// AdminStats handles GET /api/reports/admin/stats (admin)
func (h *ReportHandler) AdminStats(c *fiber.Ctx) error {
	stats, err := h.reports.AdminStats(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "System statistics", stats)
}

// SearchHandler handles free-text search
type SearchHandler struct {
	search *service.SearchService
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(search *service.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

// Search handles GET /api/search?q=&type=all|chat|health
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	page := parsePage(c, defaultPageLimit)
	scope := c.Query("type", service.SearchAll)

	results, total, err := h.search.Search(c.UserContext(), userID(c), c.Query("q"), scope, page)
	if err != nil {
		return respondError(c, err)
	}
	return paginated(c, "Search results", results, page, total)
}

// SearchChats handles GET /api/search/chats?q=
func (h *SearchHandler) SearchChats(c *fiber.Ctx) error {
	page := parsePage(c, defaultPageLimit)
	chats, total, err := h.search.SearchChats(c.UserContext(), userID(c), c.Query("q"), page)
	if err != nil {
		return respondError(c, err)
	}
	return paginated(c, "Chat search results", orEmpty(chats), page, total)
}
