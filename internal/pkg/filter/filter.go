package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/vesselworks/dashboard/internal/modules/model"
	"github.com/vesselworks/dashboard/internal/pkg/equipment"
)

// Sentinels that disable the matching criterion. An empty value behaves the same.
const (
	AllClients   = "All Clients"
	AllManagers  = "All Managers"
	AllEquipment = equipment.AllEquipment
)

type Criteria struct {
	Client        string `json:"client"`
	Manager       string `json:"manager"`
	EquipmentType string `json:"equipment_type"`
	SearchQuery   string `json:"search_query"`
}

// Apply keeps the projects matching every criterion, preserving input order.
func Apply(projects []model.Project, c Criteria) []model.Project {
	query := strings.ToLower(strings.TrimSpace(c.SearchQuery))

	out := make([]model.Project, 0, len(projects))
	for _, p := range projects {
		if !isAll(c.Client, AllClients) && p.Client != c.Client {
			continue
		}
		if !isAll(c.Manager, AllManagers) && p.Manager != c.Manager {
			continue
		}
		if !isAll(c.EquipmentType, AllEquipment) && !p.EquipmentBreakdown.Has(c.EquipmentType) {
			continue
		}
		if query != "" && !matchesQuery(p, query) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func isAll(v, sentinel string) bool {
	return v == "" || v == sentinel
}

func matchesQuery(p model.Project, query string) bool {
	for _, field := range []string{p.Name, p.PONumber, p.Client, p.Location} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

type Tab string

const (
	TabAll       Tab = "all"
	TabActive    Tab = "active"
	TabOverdue   Tab = "overdue"
	TabCompleted Tab = "completed"
)

func ParseTab(s string) (Tab, error) {
	switch Tab(s) {
	case "":
		return TabAll, nil
	case TabAll, TabActive, TabOverdue, TabCompleted:
		return Tab(s), nil
	}
	return "", fmt.Errorf("unknown tab %q", s)
}

// Tabs are the status views derived from an already filtered list.
type Tabs struct {
	All       []model.Project `json:"all"`
	Active    []model.Project `json:"active"`
	Overdue   []model.Project `json:"overdue"`
	Completed []model.Project `json:"completed"`
}

type Counts struct {
	All       int `json:"all"`
	Active    int `json:"active"`
	Overdue   int `json:"overdue"`
	Completed int `json:"completed"`
}

// Split derives the status tabs. A project whose deadline is missing or malformed is in
// neither active nor overdue, though it is still listed under all.
func Split(projects []model.Project, today time.Time) Tabs {
	day := startOfDay(today)

	t := Tabs{
		All:       make([]model.Project, 0, len(projects)),
		Active:    make([]model.Project, 0),
		Overdue:   make([]model.Project, 0),
		Completed: make([]model.Project, 0),
	}
	for _, p := range projects {
		if p.IsCompleted() {
			t.Completed = append(t.Completed, p)
			continue
		}
		t.All = append(t.All, p)

		deadline, ok := p.DeadlineDate()
		if !ok {
			continue
		}
		if deadline.Before(day) {
			t.Overdue = append(t.Overdue, p)
		} else {
			t.Active = append(t.Active, p)
		}
	}
	t.All = append(t.All, t.Completed...)
	return t
}

func (t Tabs) Get(tab Tab) []model.Project {
	switch tab {
	case TabActive:
		return t.Active
	case TabOverdue:
		return t.Overdue
	case TabCompleted:
		return t.Completed
	}
	return t.All
}

func (t Tabs) Counts() Counts {
	return Counts{
		All:       len(t.All),
		Active:    len(t.Active),
		Overdue:   len(t.Overdue),
		Completed: len(t.Completed),
	}
}

// startOfDay returns midnight of the same calendar day in the zone deadlines are parsed in.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.In(time.Local).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}
