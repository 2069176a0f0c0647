package handler

import (
	"errors"
	"net/http"

	"github.com/6045054-web/CHENGHUI/internal/gateway"
	"github.com/6045054-web/CHENGHUI/internal/logger"
	"github.com/6045054-web/CHENGHUI/internal/middleware"
	"github.com/6045054-web/CHENGHUI/internal/model"
	"github.com/6045054-web/CHENGHUI/internal/report"
	"github.com/6045054-web/CHENGHUI/internal/service"

	"github.com/gin-gonic/gin"
)

// respondErr maps service errors onto status codes; the body is always {"error": msg}.
func respondErr(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case service.IsValidation(err),
		errors.Is(err, report.ErrUnknownType),
		errors.Is(err, report.ErrBadDraft),
		errors.Is(err, report.ErrNotImage),
		errors.Is(err, report.ErrTooLarge):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrAINotReady):
		status = http.StatusServiceUnavailable
	case gateway.IsRemote(err):
		status = http.StatusBadGateway
	}
	if status >= http.StatusInternalServerError {
		logger.Error("http.error", "path", c.FullPath(), "status", status, "err", err)
	}
	c.JSON(status, gin.H{"error": message(err)})
}

// message prefers the remote status text over the wrapping context.
func message(err error) string {
	var se *gateway.StatusError
	if errors.As(err, &se) {
		return se.Error()
	}
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return ve.Msg
	}
	return err.Error()
}

// currentUser resolves the token holder against the workspace, falling back to the claims
// when the account is not loaded yet.
func currentUser(c *gin.Context, ws *service.Workspace) model.User {
	uid := c.GetString(middleware.KeyUserID)
	if u, ok := ws.User(uid); ok {
		return u
	}
	return model.User{
		ID:   uid,
		Name: c.GetString(middleware.KeyUserName),
		Role: model.Role(c.GetString(middleware.KeyRole)),
	}
}

func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
}

func reportFilter(c *gin.Context) service.ReportFilter {
	return service.ReportFilter{
		Status:    model.ReportStatus(c.Query("status")),
		ProjectID: c.Query("projectId"),
		Type:      model.ReportType(c.Query("type")),
		AuthorID:  c.Query("authorId"),
		Important: c.Query("important") == "true",
	}
}

func writeHTML(c *gin.Context, page []byte) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}
