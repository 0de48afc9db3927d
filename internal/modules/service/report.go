package service

import (
	"context"
	"time"

	"github.com/vesselworks/dashboard/internal/modules/model"
	"github.com/vesselworks/dashboard/internal/pkg/errs"
	"github.com/vesselworks/dashboard/internal/pkg/filter"
	"github.com/vesselworks/dashboard/internal/pkg/report"
)

// ReportService derives views from the current project snapshot on every call.
type ReportService interface {
	Summary(ctx context.Context, sess model.SessionContext) (report.Summary, error)
	Certificates(ctx context.Context, sess model.SessionContext, tab string) ([]model.Project, error)
	Dashboard(ctx context.Context, sess model.SessionContext, in DashboardQuery) (*DashboardView, error)
}

type DashboardQuery struct {
	Criteria filter.Criteria
	Tab      string
}

type DashboardView struct {
	Tab      filter.Tab      `json:"tab"`
	Projects []model.Project `json:"projects"`
	Counts   filter.Counts   `json:"counts"`
}

type reportService struct {
	projects ProjectService
	now      func() time.Time
}

func NewReportService(projects ProjectService) ReportService {
	return &reportService{projects: projects, now: time.Now}
}

func (s *reportService) Summary(ctx context.Context, sess model.SessionContext) (report.Summary, error) {
	items, err := s.projects.List(ctx, sess)
	if err != nil {
		return report.Summary{}, err
	}
	return report.Summarize(items), nil
}

func (s *reportService) Certificates(ctx context.Context, sess model.SessionContext, tab string) ([]model.Project, error) {
	t, err := report.ParseCertificateTab(tab)
	if err != nil {
		return nil, errs.Validation("list certificates", err.Error())
	}
	items, err := s.projects.List(ctx, sess)
	if err != nil {
		return nil, err
	}
	return report.Certificates(items, t), nil
}

// Dashboard filters the project list and splits the result into status tabs.
func (s *reportService) Dashboard(ctx context.Context, sess model.SessionContext, in DashboardQuery) (*DashboardView, error) {
	tab, err := filter.ParseTab(in.Tab)
	if err != nil {
		return nil, errs.Validation("list projects", err.Error())
	}
	items, err := s.projects.List(ctx, sess)
	if err != nil {
		return nil, err
	}
	tabs := filter.Split(filter.Apply(items, in.Criteria), s.now())
	return &DashboardView{
		Tab:      tab,
		Projects: tabs.Get(tab),
		Counts:   tabs.Counts(),
	}, nil
}
