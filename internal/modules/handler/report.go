package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vesselworks/dashboard/internal/modules/serializer"
	"github.com/vesselworks/dashboard/internal/modules/service"
)

type ReportHandler struct {
	svc service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{svc: s}
}

// GetSummary godoc
//
//	@Summary		Get certificate summary
//	@Description	Completed projects and how many of them have a received recommendation letter
//	@Tags			report
//	@Produce		json
//	@Success		200	{object}	serializer.Response{data=report.Summary}
//	@Router			/report/summary [get]
func (h *ReportHandler) GetSummary(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", errNoSession))
		return
	}

	out, err := h.svc.Summary(c.Request.Context(), sess)
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

type GetCertificatesReq struct {
	Tab string `form:"tab" json:"tab" binding:"omitempty,oneof=all pending received" example:"pending"`
}

// GetCertificates godoc
//
//	@Summary		List certificates
//	@Description	Completed projects, optionally narrowed to pending or received recommendation letters
//	@Tags			report
//	@Produce		json
//	@Param			tab	query	string	false	"all, pending or received (default all)"
//	@Success		200	{object}	serializer.Response{data=[]model.Project}
//	@Router			/report/certificates [get]
func (h *ReportHandler) GetCertificates(c *gin.Context) {
	req := GetCertificatesReq{}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	sess, ok := session(c)
	if !ok {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", errNoSession))
		return
	}

	out, err := h.svc.Certificates(c.Request.Context(), sess, req.Tab)
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: out})
}
