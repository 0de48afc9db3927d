package filter

import (
	"sort"

	"github.com/vesselworks/dashboard/internal/modules/model"
	"github.com/vesselworks/dashboard/internal/pkg/equipment"
)

// Options are the selectable values of the filter UI, each list headed by its sentinel.
type Options struct {
	Clients        []string `json:"clients"`
	Managers       []string `json:"managers"`
	EquipmentTypes []string `json:"equipment_types"`
}

func BuildOptions(projects []model.Project) Options {
	clients := map[string]struct{}{}
	managers := map[string]struct{}{}
	total := equipment.Breakdown{}

	for _, p := range projects {
		if p.Client != "" {
			clients[p.Client] = struct{}{}
		}
		if p.Manager != "" {
			managers[p.Manager] = struct{}{}
		}
		for k, n := range p.EquipmentBreakdown {
			total[k] += n
		}
	}

	types := []string{AllEquipment}
	for _, b := range total.Ordered() {
		types = append(types, b.Name)
	}

	return Options{
		Clients:        append([]string{AllClients}, sortedKeys(clients)...),
		Managers:       append([]string{AllManagers}, sortedKeys(managers)...),
		EquipmentTypes: types,
	}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
