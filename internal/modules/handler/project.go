package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vesselworks/dashboard/internal/modules/model"
	"github.com/vesselworks/dashboard/internal/modules/serializer"
	"github.com/vesselworks/dashboard/internal/modules/service"
	"github.com/vesselworks/dashboard/internal/pkg/filter"
	"gorm.io/datatypes"
)

var errNoSession = errors.New("session not found")

// session returns the caller's session set by the session middleware.
func session(c *gin.Context) (model.SessionContext, bool) {
	v, ok := c.Get("session")
	if !ok {
		return model.SessionContext{}, false
	}
	sess, ok := v.(model.SessionContext)
	return sess, ok
}

type ProjectHandler struct {
	svc     service.ProjectService
	reports service.ReportService
}

func NewProjectHandler(s service.ProjectService, reports service.ReportService) *ProjectHandler {
	return &ProjectHandler{
		svc:     s,
		reports: reports,
	}
}

type ListProjectsReq struct {
	Client        string `form:"client" json:"client" example:"Acme Refining"`
	Manager       string `form:"manager" json:"manager" example:"All Managers"`
	EquipmentType string `form:"equipment_type" json:"equipment_type" example:"Heat Exchanger"`
	Query         string `form:"q" json:"q" example:"PO-7781"`
	Tab           string `form:"tab" json:"tab" binding:"omitempty,oneof=all active overdue completed" example:"active"`
}

// ListProjects godoc
//
//	@Summary		List projects
//	@Description	Filter the visible projects and return the selected status tab with the count of every tab
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Param			client			query	string	false	"Client name, or All Clients"
//	@Param			manager			query	string	false	"Manager name, or All Managers"
//	@Param			equipment_type	query	string	false	"Equipment type name, or All Equipment"
//	@Param			q				query	string	false	"Case-insensitive search on name, PO number, client and location"
//	@Param			tab				query	string	false	"all, active, overdue or completed (default all)"
//	@Success		200	{object}	serializer.Response{data=service.DashboardView}
//	@Router			/project [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	req := ListProjectsReq{}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	sess, ok := session(c)
	if !ok {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", errNoSession))
		return
	}

	out, err := h.reports.Dashboard(c.Request.Context(), sess, service.DashboardQuery{
		Criteria: filter.Criteria{
			Client:        req.Client,
			Manager:       req.Manager,
			EquipmentType: req.EquipmentType,
			SearchQuery:   req.Query,
		},
		Tab: req.Tab,
	})
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// GetFilterOptions godoc
//
//	@Summary		Get filter options
//	@Description	Distinct clients, managers and equipment types of the visible projects
//	@Tags			project
//	@Produce		json
//	@Success		200	{object}	serializer.Response{data=filter.Options}
//	@Router			/project/filters [get]
func (h *ProjectHandler) GetFilterOptions(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", errNoSession))
		return
	}

	out, err := h.svc.FilterOptions(c.Request.Context(), sess)
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// RefreshProjects godoc
//
//	@Summary		Refresh projects
//	@Description	Reload the visible projects and their equipment from the database
//	@Tags			project
//	@Produce		json
//	@Success		200	{object}	serializer.Response{data=[]model.Project}
//	@Router			/project/refresh [post]
func (h *ProjectHandler) RefreshProjects(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", errNoSession))
		return
	}

	out, err := h.svc.Load(c.Request.Context(), sess)
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

type CreateProjectReq struct {
	FirmID        string              `form:"firm_id" json:"firm_id"`
	Name          string              `form:"name" json:"name" binding:"required" example:"Tank Farm Expansion"`
	Client        string              `form:"client" json:"client" binding:"required" example:"Nordic Gas"`
	Location      string              `form:"location" json:"location" example:"Porvoo"`
	Manager       string              `form:"manager" json:"manager" example:"Lee"`
	PONumber      string              `form:"po_number" json:"po_number" example:"PO-7781"`
	Deadline      string              `form:"deadline" json:"deadline" binding:"omitempty,datetime=2006-01-02" example:"2026-06-30"`
	Status        model.ProjectStatus `form:"status" json:"status" binding:"omitempty,oneof=active delayed on-track completed"`
	Progress      int                 `form:"progress" json:"progress" binding:"min=0,max=100"`
	ClientEmail   string              `form:"client_email" json:"client_email" binding:"omitempty,email"`
	ClientContact string              `form:"client_contact" json:"client_contact"`
	Documents     *model.Documents    `json:"documents"`
}

// CreateProject godoc
//
//	@Summary		Create project
//	@Description	Create a new project for the caller's firm
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	handler.CreateProjectReq	true	"CreateProject payload"
//	@Success		201	{object}	serializer.Response{data=model.Project}
//	@Router			/project [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	req := CreateProjectReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	sess, ok := session(c)
	if !ok {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", errNoSession))
		return
	}

	project := model.Project{
		FirmID:        req.FirmID,
		Name:          req.Name,
		Client:        req.Client,
		Location:      req.Location,
		Manager:       req.Manager,
		PONumber:      req.PONumber,
		Deadline:      req.Deadline,
		Status:        req.Status,
		Progress:      req.Progress,
		ClientEmail:   req.ClientEmail,
		ClientContact: req.ClientContact,
	}
	if req.Documents != nil {
		project.Documents = datatypes.NewJSONType(*req.Documents)
	}

	out, err := h.svc.Create(c.Request.Context(), sess, project)
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}

	c.JSON(http.StatusCreated, serializer.Response{Data: out})
}

// GetProject godoc
//
//	@Summary		Get project
//	@Tags			project
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"
//	@Success		200	{object}	serializer.Response{data=model.Project}
//	@Router			/project/{project_id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", errNoSession))
		return
	}

	out, err := h.svc.Get(c.Request.Context(), sess, c.Param("project_id"))
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// UpdateProjectReq is a partial update. The recommendation letter is changed only through its own endpoints.
type UpdateProjectReq struct {
	Name          *string              `json:"name"`
	Client        *string              `json:"client"`
	Location      *string              `json:"location"`
	Manager       *string              `json:"manager"`
	PONumber      *string              `json:"po_number"`
	Deadline      *string              `json:"deadline" binding:"omitempty,datetime=2006-01-02"`
	Status        *model.ProjectStatus `json:"status" binding:"omitempty,oneof=active delayed on-track completed"`
	Progress      *int                 `json:"progress" binding:"omitempty,min=0,max=100"`
	ClientEmail   *string              `json:"client_email" binding:"omitempty,email"`
	ClientContact *string              `json:"client_contact"`
	Documents     *model.Documents     `json:"documents"`
}

// UpdateProject godoc
//
//	@Summary		Update project
//	@Description	Apply a partial update. The database is written first; the in-memory list follows on success.
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	string						true	"Project ID"
//	@Param			payload		body	handler.UpdateProjectReq	true	"UpdateProject payload"
//	@Success		200	{object}	serializer.Response{data=model.Project}
//	@Router			/project/{project_id} [patch]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	req := UpdateProjectReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	sess, ok := session(c)
	if !ok {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", errNoSession))
		return
	}

	out, err := h.svc.Upsert(c.Request.Context(), sess, c.Param("project_id"), model.ProjectPatch{
		Name:          req.Name,
		Client:        req.Client,
		Location:      req.Location,
		Manager:       req.Manager,
		PONumber:      req.PONumber,
		Deadline:      req.Deadline,
		Status:        req.Status,
		Progress:      req.Progress,
		ClientEmail:   req.ClientEmail,
		ClientContact: req.ClientContact,
		Documents:     req.Documents,
	})
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// DeleteProject godoc
//
//	@Summary		Delete project
//	@Description	Delete a project and, best-effort, its equipment
//	@Tags			project
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"
//	@Success		200	{object}	serializer.Response{}
//	@Router			/project/{project_id} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", errNoSession))
		return
	}

	if err := h.svc.Remove(c.Request.Context(), sess, c.Param("project_id")); err != nil {
		c.JSON(serializer.FromError(err))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{})
}

// CompleteProject godoc
//
//	@Summary		Complete project
//	@Description	Mark a project completed today with full progress
//	@Tags			project
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"
//	@Success		200	{object}	serializer.Response{data=model.Project}
//	@Router			/project/{project_id}/complete [post]
func (h *ProjectHandler) CompleteProject(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", errNoSession))
		return
	}

	out, err := h.svc.MarkCompleted(c.Request.Context(), sess, c.Param("project_id"))
	if err != nil {
		c.JSON(serializer.FromError(err))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: out})
}
