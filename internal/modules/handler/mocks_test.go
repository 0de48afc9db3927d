package handler

import (
	"context"
	"mime/multipart"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/vesselworks/dashboard/internal/modules/model"
	"github.com/vesselworks/dashboard/internal/modules/service"
	"github.com/vesselworks/dashboard/internal/pkg/filter"
	"github.com/vesselworks/dashboard/internal/pkg/report"
)

var testSess = model.SessionContext{FirmID: "firm-1", UserID: "u-1", Role: "engineer"}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if c.GetHeader("X-No-Session") == "" {
			c.Set("session", testSess)
		}
		c.Next()
	})
	return r
}

// MockProjectService is a mock implementation of ProjectService
type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) Load(ctx context.Context, sess model.SessionContext) ([]model.Project, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *MockProjectService) List(ctx context.Context, sess model.SessionContext) ([]model.Project, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *MockProjectService) Get(ctx context.Context, sess model.SessionContext, id string) (model.Project, error) {
	args := m.Called(ctx, sess, id)
	return args.Get(0).(model.Project), args.Error(1)
}

func (m *MockProjectService) Reload(ctx context.Context, sess model.SessionContext, id string) (model.Project, error) {
	args := m.Called(ctx, sess, id)
	return args.Get(0).(model.Project), args.Error(1)
}

func (m *MockProjectService) Create(ctx context.Context, sess model.SessionContext, p model.Project) (model.Project, error) {
	args := m.Called(ctx, sess, p)
	return args.Get(0).(model.Project), args.Error(1)
}

func (m *MockProjectService) Upsert(ctx context.Context, sess model.SessionContext, id string, patch model.ProjectPatch) (model.Project, error) {
	args := m.Called(ctx, sess, id, patch)
	return args.Get(0).(model.Project), args.Error(1)
}

func (m *MockProjectService) Remove(ctx context.Context, sess model.SessionContext, id string) error {
	args := m.Called(ctx, sess, id)
	return args.Error(0)
}

func (m *MockProjectService) MarkCompleted(ctx context.Context, sess model.SessionContext, id string) (model.Project, error) {
	args := m.Called(ctx, sess, id)
	return args.Get(0).(model.Project), args.Error(1)
}

func (m *MockProjectService) FilterOptions(ctx context.Context, sess model.SessionContext) (filter.Options, error) {
	args := m.Called(ctx, sess)
	return args.Get(0).(filter.Options), args.Error(1)
}

// MockReportService is a mock implementation of ReportService
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Summary(ctx context.Context, sess model.SessionContext) (report.Summary, error) {
	args := m.Called(ctx, sess)
	return args.Get(0).(report.Summary), args.Error(1)
}

func (m *MockReportService) Certificates(ctx context.Context, sess model.SessionContext, tab string) ([]model.Project, error) {
	args := m.Called(ctx, sess, tab)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *MockReportService) Dashboard(ctx context.Context, sess model.SessionContext, in service.DashboardQuery) (*service.DashboardView, error) {
	args := m.Called(ctx, sess, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DashboardView), args.Error(1)
}

// MockLetterService is a mock implementation of LetterService
type MockLetterService struct {
	mock.Mock
}

func (m *MockLetterService) Request(ctx context.Context, sess model.SessionContext, projectID string) (*service.TransitionResult, error) {
	args := m.Called(ctx, sess, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TransitionResult), args.Error(1)
}

func (m *MockLetterService) SendReminder(ctx context.Context, sess model.SessionContext, projectID string) (*service.TransitionResult, error) {
	args := m.Called(ctx, sess, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TransitionResult), args.Error(1)
}

func (m *MockLetterService) Upload(ctx context.Context, sess model.SessionContext, projectID string, fh *multipart.FileHeader) (*service.TransitionResult, error) {
	args := m.Called(ctx, sess, projectID, fh)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TransitionResult), args.Error(1)
}

func (m *MockLetterService) View(ctx context.Context, sess model.SessionContext, projectID string) (*service.ViewResult, error) {
	args := m.Called(ctx, sess, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ViewResult), args.Error(1)
}
