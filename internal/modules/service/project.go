package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/vesselworks/dashboard/internal/modules/model"
	"github.com/vesselworks/dashboard/internal/modules/repo"
	"github.com/vesselworks/dashboard/internal/modules/store"
	"github.com/vesselworks/dashboard/internal/pkg/equipment"
	"github.com/vesselworks/dashboard/internal/pkg/errs"
	"github.com/vesselworks/dashboard/internal/pkg/filter"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProjectService interface {
	// Load refetches the session's projects and their equipment and replaces the in-memory list.
	Load(ctx context.Context, sess model.SessionContext) ([]model.Project, error)
	List(ctx context.Context, sess model.SessionContext) ([]model.Project, error)
	Get(ctx context.Context, sess model.SessionContext, id string) (model.Project, error)
	// Reload rereads one project from the database and refreshes the stores holding it.
	Reload(ctx context.Context, sess model.SessionContext, id string) (model.Project, error)
	Create(ctx context.Context, sess model.SessionContext, p model.Project) (model.Project, error)
	Upsert(ctx context.Context, sess model.SessionContext, id string, patch model.ProjectPatch) (model.Project, error)
	Remove(ctx context.Context, sess model.SessionContext, id string) error
	MarkCompleted(ctx context.Context, sess model.SessionContext, id string) (model.Project, error)
	FilterOptions(ctx context.Context, sess model.SessionContext) (filter.Options, error)
}

type projectService struct {
	projects  repo.ProjectRepo
	equipment repo.EquipmentRepo
	stores    *store.Registry
	log       *zap.Logger
	now       func() time.Time
}

func NewProjectService(projects repo.ProjectRepo, equip repo.EquipmentRepo, stores *store.Registry, log *zap.Logger) ProjectService {
	return &projectService{
		projects:  projects,
		equipment: equip,
		stores:    stores,
		log:       log,
		now:       time.Now,
	}
}

func (s *projectService) Load(ctx context.Context, sess model.SessionContext) ([]model.Project, error) {
	if err := sess.Validate(); err != nil {
		return nil, errs.Validation("load projects", err.Error())
	}

	st := s.stores.For(sess)
	since := st.Version()
	items, err := s.projects.ListByFirm(ctx, sess.FirmID, sess)
	if err != nil {
		return nil, errs.Collaborator("load projects", err)
	}

	for i := range items {
		items[i].EquipmentBreakdown = s.breakdown(ctx, items[i].ID)
	}

	st.ReplaceSince(since, items, s.now())
	s.log.Sugar().Infow("projects loaded", "scope", sess.ScopeKey(), "count", len(items))
	return st.Snapshot(), nil
}

// breakdown counts the equipment of one project. A failed fetch yields an empty breakdown.
func (s *projectService) breakdown(ctx context.Context, projectID string) equipment.Breakdown {
	items, err := s.equipment.ListByProject(ctx, projectID)
	if err != nil {
		s.log.Warn("list equipment failed, using empty breakdown", zap.String("project_id", projectID), zap.Error(err))
		return equipment.Count(nil)
	}
	types := make([]string, 0, len(items))
	for _, e := range items {
		types = append(types, e.Type)
	}
	return equipment.Count(types)
}

// storeFor returns the session's store, loading it on first access.
func (s *projectService) storeFor(ctx context.Context, sess model.SessionContext) (*store.ProjectStore, error) {
	if err := sess.Validate(); err != nil {
		return nil, errs.Validation("project store", err.Error())
	}
	st := s.stores.For(sess)
	if !st.Loaded() {
		if _, err := s.Load(ctx, sess); err != nil {
			return nil, err
		}
	}
	return st, nil
}

func (s *projectService) List(ctx context.Context, sess model.SessionContext) ([]model.Project, error) {
	st, err := s.storeFor(ctx, sess)
	if err != nil {
		return nil, err
	}
	return st.Snapshot(), nil
}

func (s *projectService) Get(ctx context.Context, sess model.SessionContext, id string) (model.Project, error) {
	if id == "" {
		return model.Project{}, errs.Validation("get project", "project id is empty")
	}
	st, err := s.storeFor(ctx, sess)
	if err != nil {
		return model.Project{}, err
	}
	p, ok := st.Get(id)
	if !ok {
		return model.Project{}, errs.NotFound("get project", "project "+id+" not found")
	}
	return p, nil
}

func (s *projectService) Create(ctx context.Context, sess model.SessionContext, p model.Project) (model.Project, error) {
	const op = "create project"
	if err := sess.Validate(); err != nil {
		return model.Project{}, errs.Validation(op, err.Error())
	}
	if p.Name == "" {
		return model.Project{}, errs.Validation(op, "name is required")
	}
	if p.Client == "" {
		return model.Project{}, errs.Validation(op, "client is required")
	}
	if p.Status == "" {
		p.Status = model.StatusActive
	}
	if !p.Status.Valid() {
		return model.Project{}, errs.Validation(op, "invalid status "+string(p.Status))
	}
	if p.Progress < 0 || p.Progress > 100 {
		return model.Project{}, errs.Validation(op, "progress must be between 0 and 100")
	}
	if !sess.SeesAllFirms() || p.FirmID == "" {
		p.FirmID = sess.FirmID
	}
	if p.FirmID == "" {
		return model.Project{}, errs.Validation(op, "firm id is required")
	}

	p.ID = uuid.NewString()
	p.RecommendationLetter = datatypes.NewJSONType(model.RecommendationLetter{Status: model.LetterNotRequested})
	normalizeCompletion(&p.Status, &p.CompletedDate, s.today())

	if err := s.projects.Create(ctx, &p); err != nil {
		return model.Project{}, errs.Collaborator(op, err)
	}

	p.EquipmentBreakdown = equipment.Count(nil)
	s.publish(p)
	s.log.Sugar().Infow("project created", "project_id", p.ID, "firm_id", p.FirmID)
	return p.Clone(), nil
}

func (s *projectService) Reload(ctx context.Context, sess model.SessionContext, id string) (model.Project, error) {
	const op = "reload project"
	if id == "" {
		return model.Project{}, errs.Validation(op, "project id is empty")
	}
	st, err := s.storeFor(ctx, sess)
	if err != nil {
		return model.Project{}, err
	}

	fresh, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.stores.Each(func(st *store.ProjectStore) {
				st.Delete(id)
			})
			return model.Project{}, errs.NotFound(op, "project "+id+" not found")
		}
		return model.Project{}, errs.Collaborator(op, err)
	}
	if !sess.SeesAllFirms() && fresh.FirmID != sess.FirmID {
		return model.Project{}, errs.NotFound(op, "project "+id+" not found")
	}

	p := *fresh
	if cached, ok := st.Get(id); ok {
		p.EquipmentBreakdown = cached.EquipmentBreakdown
	} else {
		p.EquipmentBreakdown = s.breakdown(ctx, id)
	}
	s.publish(p)
	return p.Clone(), nil
}

// publish puts p into every loaded store whose scope covers it.
func (s *projectService) publish(p model.Project) {
	for _, key := range []string{model.FirmScope(p.FirmID), model.AllFirmsScope} {
		if st, ok := s.stores.Lookup(key); ok && st.Loaded() {
			st.Insert(p)
		}
	}
}

// Upsert writes patch to the remote record first and reflects it in memory only on success.
func (s *projectService) Upsert(ctx context.Context, sess model.SessionContext, id string, patch model.ProjectPatch) (model.Project, error) {
	const op = "update project"
	current, err := s.Get(ctx, sess, id)
	if err != nil {
		return model.Project{}, err
	}
	if patch.IsEmpty() {
		return model.Project{}, errs.Validation(op, "nothing to update")
	}
	if err := patch.Validate(); err != nil {
		return model.Project{}, errs.Validation(op, err.Error())
	}

	if patch.Status != nil {
		completed := current.CompletedDate
		if patch.CompletedDate != nil {
			completed = *patch.CompletedDate
		}
		normalizeCompletion(patch.Status, &completed, s.today())
		patch.CompletedDate = &completed
	}

	if err := s.projects.Update(ctx, id, patch); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Project{}, errs.NotFound(op, "project "+id+" not found")
		}
		return model.Project{}, errs.Collaborator(op, err)
	}

	var updated model.Project
	s.stores.Each(func(st *store.ProjectStore) {
		st.Patch(id, patch)
	})
	if p, ok := s.stores.For(sess).Get(id); ok {
		updated = p
	} else {
		updated = patch.Apply(current)
	}
	return updated, nil
}

func (s *projectService) MarkCompleted(ctx context.Context, sess model.SessionContext, id string) (model.Project, error) {
	status := model.StatusCompleted
	today := s.today()
	progress := 100
	return s.Upsert(ctx, sess, id, model.ProjectPatch{
		Status:        &status,
		CompletedDate: &today,
		Progress:      &progress,
	})
}

// Remove deletes the project's equipment best-effort, then the project itself.
func (s *projectService) Remove(ctx context.Context, sess model.SessionContext, id string) error {
	const op = "remove project"
	if _, err := s.Get(ctx, sess, id); err != nil {
		return err
	}

	items, err := s.equipment.ListByProject(ctx, id)
	if err != nil {
		s.log.Warn("list equipment for cascade failed", zap.String("project_id", id), zap.Error(err))
	}
	for _, e := range items {
		if err := s.equipment.Delete(ctx, e.ID); err != nil {
			s.log.Warn("delete equipment failed", zap.String("project_id", id), zap.String("equipment_id", e.ID), zap.Error(err))
		}
	}

	if err := s.projects.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NotFound(op, "project "+id+" not found")
		}
		return errs.Collaborator(op, err)
	}

	s.stores.Each(func(st *store.ProjectStore) {
		st.Delete(id)
	})
	s.log.Sugar().Infow("project removed", "project_id", id, "equipment", len(items))
	return nil
}

func (s *projectService) FilterOptions(ctx context.Context, sess model.SessionContext) (filter.Options, error) {
	items, err := s.List(ctx, sess)
	if err != nil {
		return filter.Options{}, err
	}
	return filter.BuildOptions(items), nil
}

func (s *projectService) today() string {
	return s.now().Format(model.DateLayout)
}

// normalizeCompletion keeps completedDate present exactly when the status is completed.
func normalizeCompletion(status *model.ProjectStatus, completedDate *string, today string) {
	if *status == model.StatusCompleted {
		if *completedDate == "" {
			*completedDate = today
		}
		return
	}
	*completedDate = ""
}
