package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vesselworks/dashboard/internal/modules/serializer"
	"github.com/vesselworks/dashboard/internal/modules/service"
)

type LetterHandler struct {
	svc service.LetterService
}

func NewLetterHandler(s service.LetterService) *LetterHandler {
	return &LetterHandler{svc: s}
}

// RequestLetter godoc
//
//	@Summary		Request recommendation letter
//	@Description	Generate a draft letter, store it, record the request and return the pre-filled email
//	@Tags			recommendation_letter
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"
//	@Success		200	{object}	serializer.Response{data=service.TransitionResult}
//	@Router			/project/{project_id}/recommendation_letter/request [post]
func (h *LetterHandler) RequestLetter(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", errNoSession))
		return
	}

	out, err := h.svc.Request(c.Request.Context(), sess, c.Param("project_id"))
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// SendReminder godoc
//
//	@Summary		Send recommendation letter reminder
//	@Description	Generate a fresh draft letter, store it, count the reminder and return the pre-filled email
//	@Tags			recommendation_letter
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"
//	@Success		200	{object}	serializer.Response{data=service.TransitionResult}
//	@Router			/project/{project_id}/recommendation_letter/reminder [post]
func (h *LetterHandler) SendReminder(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", errNoSession))
		return
	}

	out, err := h.svc.SendReminder(c.Request.Context(), sess, c.Param("project_id"))
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// UploadLetter godoc
//
//	@Summary		Upload received recommendation letter
//	@Description	Store the signed letter returned by the client. Only PDF files up to 10 MiB are accepted.
//	@Tags			recommendation_letter
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			project_id	path		string	true	"Project ID"
//	@Param			file		formData	file	true	"Signed letter (PDF)"
//	@Success		200	{object}	serializer.Response{data=service.TransitionResult}
//	@Router			/project/{project_id}/recommendation_letter/upload [post]
func (h *LetterHandler) UploadLetter(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("file is required", err))
		return
	}

	sess, ok := session(c)
	if !ok {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", errNoSession))
		return
	}

	out, err := h.svc.Upload(c.Request.Context(), sess, c.Param("project_id"), fh)
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// ViewLetter godoc
//
//	@Summary		View received recommendation letter
//	@Description	Resolve the received letter to a URL the browser can open
//	@Tags			recommendation_letter
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"
//	@Success		200	{object}	serializer.Response{data=service.ViewResult}
//	@Router			/project/{project_id}/recommendation_letter/view [get]
func (h *LetterHandler) ViewLetter(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", errNoSession))
		return
	}

	out, err := h.svc.View(c.Request.Context(), sess, c.Param("project_id"))
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: out})
}
