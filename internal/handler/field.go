package handler

import (
	"net/http"

	"github.com/6045054-web/CHENGHUI/internal/model"
	"github.com/6045054-web/CHENGHUI/internal/report"
	"github.com/6045054-web/CHENGHUI/internal/service"

	"github.com/gin-gonic/gin"
)

// maxUploadMemory bounds the multipart form kept in memory; the rest spills to disk.
const maxUploadMemory = 32 << 20

type FieldHandler struct {
	field *service.FieldService
	ws    *service.Workspace
}

func NewFieldHandler(field *service.FieldService, ws *service.Workspace) *FieldHandler {
	return &FieldHandler{field: field, ws: ws}
}

func (h *FieldHandler) Schemas(c *gin.Context) {
	c.JSON(http.StatusOK, h.field.Schemas(currentUser(c, h.ws)))
}

func (h *FieldHandler) Dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.field.Dashboard(currentUser(c, h.ws)))
}

func (h *FieldHandler) Preview(c *gin.Context) {
	var d report.Draft
	if err := c.ShouldBindJSON(&d); err != nil {
		badRequest(c)
		return
	}
	page, err := h.field.Preview(currentUser(c, h.ws), d)
	if err != nil {
		respondErr(c, err)
		return
	}
	writeHTML(c, page)
}

func (h *FieldHandler) Assist(c *gin.Context) {
	var d report.Draft
	if err := c.ShouldBindJSON(&d); err != nil {
		badRequest(c)
		return
	}
	out, err := h.field.Assist(c.Request.Context(), currentUser(c, h.ws), d)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *FieldHandler) Submit(c *gin.Context) {
	var d report.Draft
	if err := c.ShouldBindJSON(&d); err != nil {
		badRequest(c)
		return
	}
	r, err := h.field.Submit(c.Request.Context(), currentUser(c, h.ws), d)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (h *FieldHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.field.Reports(reportFilter(c)))
}

func (h *FieldHandler) Get(c *gin.Context) {
	r, err := h.field.Report(c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *FieldHandler) Print(c *gin.Context) {
	page, err := h.field.Print(c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	writeHTML(c, page)
}

// Upload turns multipart "images" and "files" parts into inline attachments.
func (h *FieldHandler) Upload(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil {
		badRequest(c)
		return
	}
	form := c.Request.MultipartForm
	out, err := h.field.Upload(c.Request.Context(),
		report.FormFiles(form.File["images"]), report.FormFiles(form.File["files"]))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *FieldHandler) ReviewQueue(c *gin.Context) {
	list, err := h.field.ReviewQueue(currentUser(c, h.ws))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *FieldHandler) Approve(c *gin.Context) {
	r, err := h.field.Approve(c.Request.Context(), currentUser(c, h.ws), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *FieldHandler) Reject(c *gin.Context) {
	var req model.ReviewRequest
	// the comment is optional; an empty body falls back to the default
	_ = c.ShouldBindJSON(&req)
	r, err := h.field.Reject(c.Request.Context(), currentUser(c, h.ws), c.Param("id"), req.Comment)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *FieldHandler) Clock(c *gin.Context) {
	var req model.ClockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	rec, err := h.field.Clock(c.Request.Context(), currentUser(c, h.ws), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}
