package analytics

import (
	"sort"

	"hisdash/internal/models"
)

// orderedMap is a map that remembers first-insertion order of its keys.
type orderedMap[K comparable, V any] struct {
	index map[K]int
	keys  []K
	vals  []*V
}

func newOrderedMap[K comparable, V any]() *orderedMap[K, V] {
	return &orderedMap[K, V]{index: make(map[K]int)}
}

// get returns the value for key, inserting a zero value on first use.
func (m *orderedMap[K, V]) get(key K) *V {
	if i, ok := m.index[key]; ok {
		return m.vals[i]
	}

	v := new(V)
	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.vals = append(m.vals, v)

	return v
}

// lookup returns the value for key without inserting.
func (m *orderedMap[K, V]) lookup(key K) (*V, bool) {
	i, ok := m.index[key]
	if !ok {
		return nil, false
	}

	return m.vals[i], true
}

func (m *orderedMap[K, V]) len() int {
	return len(m.keys)
}

// each visits entries in insertion order.
func (m *orderedMap[K, V]) each(fn func(K, *V)) {
	for i, k := range m.keys {
		fn(k, m.vals[i])
	}
}

// bucket accumulates the rows of one group.
type bucket struct {
	cost     float64
	quantity float64
	rows     int
	visits   map[string]struct{}
}

func (b *bucket) add(r *models.CanonicalRecord) {
	b.cost += r.LineAmount
	b.quantity += r.Quantity
	b.rows++

	if b.visits == nil {
		b.visits = make(map[string]struct{})
	}

	b.visits[r.VisitID] = struct{}{}
}

func (b *bucket) visitCount() int {
	return len(b.visits)
}

type metric func(*bucket) float64

func costMetric(b *bucket) float64 { return b.cost }

func visitMetric(b *bucket) float64 { return float64(b.visitCount()) }

// groupBy buckets records by key in first-seen order.
func groupBy(records []models.CanonicalRecord, key func(*models.CanonicalRecord) string) *orderedMap[string, bucket] {
	groups := newOrderedMap[string, bucket]()

	for i := range records {
		groups.get(key(&records[i])).add(&records[i])
	}

	return groups
}

// items converts groups to rollup items valued by m, sorted by value descending.
// Ties keep first-seen order.
func items(groups *orderedMap[string, bucket], m metric) []models.RollupItem {
	out := make([]models.RollupItem, 0, groups.len())

	groups.each(func(name string, b *bucket) {
		out = append(out, models.RollupItem{
			Name:     name,
			Value:    m(b),
			Visits:   b.visitCount(),
			Cost:     b.cost,
			Quantity: b.quantity,
		})
	})

	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })

	return out
}

func top(list []models.RollupItem, n int) []models.RollupItem {
	if len(list) > n {
		return list[:n]
	}

	return list
}

// pie keeps the n largest slices and folds the rest into an Other slice.
// An existing Other slice among the kept ones absorbs the remainder.
func pie(list []models.RollupItem, n int) []models.RollupItem {
	if len(list) <= n {
		return list
	}

	kept := append([]models.RollupItem(nil), list[:n]...)

	var rest models.RollupItem
	for _, it := range list[n:] {
		rest.Value += it.Value
		rest.Visits += it.Visits
		rest.Cost += it.Cost
		rest.Quantity += it.Quantity
	}

	for i := range kept {
		if kept[i].Name == models.OtherValue {
			kept[i].Value += rest.Value
			kept[i].Visits += rest.Visits
			kept[i].Cost += rest.Cost
			kept[i].Quantity += rest.Quantity

			sort.SliceStable(kept, func(a, b int) bool { return kept[a].Value > kept[b].Value })

			return kept
		}
	}

	rest.Name = models.OtherValue

	return append(kept, rest)
}
