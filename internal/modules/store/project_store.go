package store

import (
	"sync"
	"time"

	"github.com/vesselworks/dashboard/internal/modules/model"
)

// ProjectStore is the in-memory project list of one visibility scope.
//
// The list is only ever changed by replacing it wholesale or by swapping a single
// record, so a reader always sees a consistent snapshot. Readers get copies.
type ProjectStore struct {
	mu       sync.RWMutex
	projects []model.Project
	loadedAt time.Time

	// version counts writes; touched holds the version of the last write per project id.
	version uint64
	touched map[string]uint64
}

func NewProjectStore() *ProjectStore {
	return &ProjectStore{touched: map[string]uint64{}}
}

func (s *ProjectStore) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.loadedAt.IsZero()
}

func (s *ProjectStore) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Replace swaps in a freshly loaded list.
func (s *ProjectStore) Replace(projects []model.Project, at time.Time) {
	next := cloneAll(projects)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = next
	s.loadedAt = at
	s.version++
}

// Version is the current write count. Take it before reading the database for ReplaceSince.
func (s *ProjectStore) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// ReplaceSince swaps in a list that was read after Version returned since. Records written
// to the store after since keep their in-memory state: patched and inserted records stay,
// deleted records stay deleted.
func (s *ProjectStore) ReplaceSince(since uint64, projects []model.Project, at time.Time) {
	next := cloneAll(projects)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.version != since {
		next = s.mergeNewer(since, next)
	}
	s.projects = next
	s.loadedAt = at
	s.version++
}

// caller holds mu
func (s *ProjectStore) mergeNewer(since uint64, loaded []model.Project) []model.Project {
	out := make([]model.Project, 0, len(loaded))
	seen := make(map[string]struct{}, len(loaded))
	for _, p := range loaded {
		seen[p.ID] = struct{}{}
		if s.touched[p.ID] <= since {
			out = append(out, p)
			continue
		}
		if i := s.indexOf(p.ID); i >= 0 {
			out = append(out, s.projects[i].Clone())
		}
	}
	for _, p := range s.projects {
		if _, ok := seen[p.ID]; !ok && s.touched[p.ID] > since {
			out = append(out, p.Clone())
		}
	}
	return out
}

// caller holds mu
func (s *ProjectStore) touch(id string) {
	s.version++
	s.touched[id] = s.version
}

// Snapshot returns a copy of the current list in store order.
func (s *ProjectStore) Snapshot() []model.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.projects)
}

func (s *ProjectStore) Get(id string) (model.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.projects[i].Clone(), true
	}
	return model.Project{}, false
}

// Insert appends a project, or replaces the record with the same id.
func (s *ProjectStore) Insert(p model.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]model.Project, len(s.projects), len(s.projects)+1)
	copy(next, s.projects)
	if i := s.indexOf(p.ID); i >= 0 {
		next[i] = p.Clone()
	} else {
		next = append(next, p.Clone())
	}
	s.projects = next
	s.touch(p.ID)
}

// Patch applies patch to the project with the given id and returns the new record.
func (s *ProjectStore) Patch(id string, patch model.ProjectPatch) (model.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return model.Project{}, false
	}
	updated := patch.Apply(s.projects[i])

	next := make([]model.Project, len(s.projects))
	copy(next, s.projects)
	next[i] = updated
	s.projects = next
	s.touch(id)
	return updated.Clone(), true
}

func (s *ProjectStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	next := make([]model.Project, 0, len(s.projects)-1)
	next = append(next, s.projects[:i]...)
	next = append(next, s.projects[i+1:]...)
	s.projects = next
	s.touch(id)
	return true
}

func (s *ProjectStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.projects)
}

// caller holds mu
func (s *ProjectStore) indexOf(id string) int {
	for i := range s.projects {
		if s.projects[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneAll(in []model.Project) []model.Project {
	out := make([]model.Project, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}
