package equipment

import (
	"sort"
	"strings"
	"unicode"
)

// Canonical bucket keys.
const (
	HeatExchanger  = "heatExchanger"
	PressureVessel = "pressureVessel"
	StorageTank    = "storageTank"
	Reactor        = "reactor"
)

// AllEquipment is the filter sentinel that disables equipment filtering.
const AllEquipment = "All Equipment"

// canonical lists the canonical buckets in display priority order.
var canonical = []struct {
	Key  string
	Name string
}{
	{HeatExchanger, "Heat Exchanger"},
	{PressureVessel, "Pressure Vessel"},
	{StorageTank, "Storage Tank"},
	{Reactor, "Reactor"},
}

var canonicalByNormalized = func() map[string]string {
	m := make(map[string]string, len(canonical))
	for _, c := range canonical {
		m[Normalize(c.Name)] = c.Key
		m[Normalize(c.Key)] = c.Key
	}
	return m
}()

// Breakdown counts equipment units by bucket key.
type Breakdown map[string]int

// Bucket is one display row of a breakdown.
type Bucket struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Normalize strips all whitespace and lower-cases the name.
func Normalize(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))
	for _, r := range name {
		if unicode.IsSpace(r) {
			continue
		}
		sb.WriteRune(unicode.ToLower(r))
	}
	return sb.String()
}

// BucketKey maps an equipment type name (as recorded on equipment or shown in the filter UI)
// to its breakdown key.
func BucketKey(typeName string) string {
	n := Normalize(typeName)
	if k, ok := canonicalByNormalized[n]; ok {
		return k
	}
	return n
}

func IsCanonical(key string) bool {
	for _, c := range canonical {
		if c.Key == key {
			return true
		}
	}
	return false
}

// DisplayName returns the readable name of a bucket key.
func DisplayName(key string) string {
	for _, c := range canonical {
		if c.Key == key {
			return c.Name
		}
	}
	if key == "" {
		return ""
	}
	r := []rune(key)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// Count builds a breakdown from the type names of a project's equipment.
// The four canonical buckets are always present.
func Count(typeNames []string) Breakdown {
	b := Breakdown{}
	for _, c := range canonical {
		b[c.Key] = 0
	}
	for _, t := range typeNames {
		k := BucketKey(t)
		if k == "" {
			continue
		}
		b[k]++
	}
	return b
}

// Has reports whether the breakdown holds at least one unit of the named type.
func (b Breakdown) Has(typeName string) bool {
	return b[BucketKey(typeName)] > 0
}

// Total is the number of units across all buckets.
func (b Breakdown) Total() int {
	n := 0
	for _, v := range b {
		n += v
	}
	return n
}

// Ordered returns the non-empty buckets: canonical ones first in fixed order, then
// the others sorted by key.
func (b Breakdown) Ordered() []Bucket {
	out := make([]Bucket, 0, len(b))
	for _, c := range canonical {
		if n := b[c.Key]; n > 0 {
			out = append(out, Bucket{Key: c.Key, Name: c.Name, Count: n})
		}
	}

	extra := make([]string, 0)
	for k, n := range b {
		if n > 0 && !IsCanonical(k) {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		out = append(out, Bucket{Key: k, Name: DisplayName(k), Count: b[k]})
	}
	return out
}

// Clone returns an independent copy.
func (b Breakdown) Clone() Breakdown {
	if b == nil {
		return nil
	}
	out := make(Breakdown, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}
