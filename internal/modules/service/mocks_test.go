package service

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
	"github.com/vesselworks/dashboard/internal/infra/httpclient"
	"github.com/vesselworks/dashboard/internal/modules/model"
	"github.com/vesselworks/dashboard/internal/pkg/mail"
	"gorm.io/gorm"
)

// MockProjectRepo is a mock implementation of ProjectRepo
type MockProjectRepo struct {
	mock.Mock
}

func (m *MockProjectRepo) ListByFirm(ctx context.Context, firmID string, sess model.SessionContext) ([]model.Project, error) {
	args := m.Called(ctx, firmID, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *MockProjectRepo) GetByID(ctx context.Context, id string) (*model.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectRepo) Create(ctx context.Context, p *model.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProjectRepo) Update(ctx context.Context, id string, patch model.ProjectPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *MockProjectRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockEquipmentRepo is a mock implementation of EquipmentRepo
type MockEquipmentRepo struct {
	mock.Mock
}

func (m *MockEquipmentRepo) ListByProject(ctx context.Context, projectID string) ([]model.Equipment, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Equipment), args.Error(1)
}

func (m *MockEquipmentRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockGenerator is a mock implementation of DocumentGenerator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateLetter(ctx context.Context, fields httpclient.LetterFields) (*httpclient.GeneratedDocument, error) {
	args := m.Called(ctx, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*httpclient.GeneratedDocument), args.Error(1)
}

// MockLauncher is a mock implementation of ComposeLauncher
type MockLauncher struct {
	mock.Mock
}

func (m *MockLauncher) OpenCompose(ctx context.Context, projectID string, kind mail.Kind, c mail.Compose) error {
	args := m.Called(ctx, projectID, kind, c)
	return args.Error(0)
}

// memProjectRepo is a ProjectRepo backed by a map, shared by services that stand in for separate replicas.
type memProjectRepo struct {
	mu        sync.Mutex
	order     []string
	items     map[string]model.Project
	updateErr error
	updates   int
}

func newMemProjectRepo(projects ...model.Project) *memProjectRepo {
	r := &memProjectRepo{items: map[string]model.Project{}}
	for _, p := range projects {
		r.order = append(r.order, p.ID)
		r.items[p.ID] = p.Clone()
	}
	return r
}

func (r *memProjectRepo) ListByFirm(_ context.Context, firmID string, sess model.SessionContext) ([]model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Project{}
	for _, id := range r.order {
		p, ok := r.items[id]
		if ok && (sess.SeesAllFirms() || p.FirmID == firmID) {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

func (r *memProjectRepo) GetByID(_ context.Context, id string) (*model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	p = p.Clone()
	return &p, nil
}

func (r *memProjectRepo) Create(_ context.Context, p *model.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = append(r.order, p.ID)
	r.items[p.ID] = p.Clone()
	return nil
}

func (r *memProjectRepo) Update(_ context.Context, id string, patch model.ProjectPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	p, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.items[id] = patch.Apply(p)
	r.updates++
	return nil
}

func (r *memProjectRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memProjectRepo) Updates() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updates
}

func (r *memProjectRepo) Stored(id string) model.Project {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[id].Clone()
}
