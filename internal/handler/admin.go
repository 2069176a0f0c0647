package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/6045054-web/CHENGHUI/internal/model"
	"github.com/6045054-web/CHENGHUI/internal/service"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AdminHandler struct {
	admin *service.AdminService
}

func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

func (h *AdminHandler) Projects(c *gin.Context) {
	c.JSON(http.StatusOK, h.admin.Projects())
}

func (h *AdminHandler) SaveProject(c *gin.Context) {
	var p model.Project
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c)
		return
	}
	if id := c.Param("id"); id != "" {
		p.ID = id
	}
	saved, err := h.admin.SaveProject(c.Request.Context(), p)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (h *AdminHandler) DeleteProject(c *gin.Context) {
	if err := h.admin.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) Users(c *gin.Context) {
	c.JSON(http.StatusOK, h.admin.Users())
}

func (h *AdminHandler) SaveUser(c *gin.Context) {
	var in service.UserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c)
		return
	}
	if id := c.Param("id"); id != "" {
		in.ID = id
	}
	p, err := h.admin.SaveUser(c.Request.Context(), in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.admin.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Announcements is readable by every signed-in user.
func (h *AdminHandler) Announcements(c *gin.Context) {
	c.JSON(http.StatusOK, h.admin.Announcements())
}

func (h *AdminHandler) PublishAnnouncement(c *gin.Context) {
	var a model.Announcement
	if err := c.ShouldBindJSON(&a); err != nil {
		badRequest(c)
		return
	}
	saved, err := h.admin.PublishAnnouncement(c.Request.Context(), a)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *AdminHandler) DeleteAnnouncement(c *gin.Context) {
	if err := h.admin.DeleteAnnouncement(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) Attendance(c *gin.Context) {
	c.JSON(http.StatusOK, h.admin.Attendance())
}

func (h *AdminHandler) AttendanceDetail(c *gin.Context) {
	detail, err := h.admin.AttendanceDetail(c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *AdminHandler) RiskReports(c *gin.Context) {
	c.JSON(http.StatusOK, h.admin.RiskReports())
}

// Briefing regenerates the digest.
func (h *AdminHandler) Briefing(c *gin.Context) {
	b, err := h.admin.Briefing(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *AdminHandler) LastBriefing(c *gin.Context) {
	b, ok := h.admin.LastBriefing()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "暂无研判简报"})
		return
	}
	c.JSON(http.StatusOK, b)
}

// Export streams the report ledger as an xlsx download.
func (h *AdminHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	n, err := h.admin.ExportLedger(&buf, reportFilter(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	name := fmt.Sprintf("文书台账_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(name))
	c.Header("X-Report-Count", fmt.Sprint(n))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *AdminHandler) Refresh(c *gin.Context) {
	snap := h.admin.Refresh(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"reports":       len(snap.Reports),
		"projects":      len(snap.Projects),
		"users":         len(snap.Users),
		"announcements": len(snap.Announcements),
		"attendance":    len(snap.Attendance),
	})
}
