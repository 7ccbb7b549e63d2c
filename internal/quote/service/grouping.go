package service

import (
	"fmt"
	"sort"

	"github.com/JeongJaeHyung/SYNEX-QUOTATION-sub000/internal/quote/entity"
)

// DefaultMajorPriority is the recognized classification order for bucket
// layout. Unrecognized majors are appended after these in first-seen order.
var DefaultMajorPriority = []string{"자재비", "노무비", "출장비", "경비"}

// LineView is one document line with its computed amounts. The uplift
// percentage is carried through verbatim from storage.
type LineView struct {
	Major         string  `json:"major"`
	Minor         string  `json:"minor"`
	Equipment     string  `json:"equipment"`
	Unit          string  `json:"unit"`
	UnitPrice     int64   `json:"unit_price"`
	Quantity      int64   `json:"quantity"`
	Amount        int64   `json:"amount"`
	CostUnit      string  `json:"cost_unit,omitempty"`
	CostUnitPrice int64   `json:"cost_unit_price"`
	CostQuantity  int64   `json:"cost_quantity"`
	CostAmount    int64   `json:"cost_amount"`
	UpliftPercent float64 `json:"uplift_percent"`
	Remark        string  `json:"remark,omitempty"`
}

// EquipmentGroup is a sub-partition of a major bucket by equipment name.
type EquipmentGroup struct {
	Equipment    string     `json:"equipment"`
	Lines        []LineView `json:"lines"`
	Subtotal     int64      `json:"subtotal"`
	CostSubtotal int64      `json:"cost_subtotal"`
}

// MajorBucket is one classification bucket. Delta is quote minus cost and is
// only meaningful for comparison documents.
type MajorBucket struct {
	Major        string           `json:"major"`
	Groups       []EquipmentGroup `json:"equipment_groups"`
	Subtotal     int64            `json:"subtotal"`
	CostSubtotal int64            `json:"cost_subtotal"`
	Delta        int64            `json:"delta"`
}

// GroupedDocument is the deterministic projection consumed by the UI and the
// spreadsheet export.
type GroupedDocument struct {
	DocumentID string        `json:"document_id"`
	Kind       string        `json:"kind"`
	Buckets    []MajorBucket `json:"major_buckets"`
	GrandTotal int64         `json:"grand_total"`
	CostTotal  int64         `json:"cost_total"`
	Delta      int64         `json:"delta"`
}

// Grouper partitions a flat line set into major buckets and equipment groups
// and rolls up subtotals. It is a pure read-time projection: it never mutates
// its input and identical input always produces identical output.
type Grouper struct {
	priority map[string]int
	order    []string
}

// NewGrouper builds a grouper with an explicit classification priority table.
func NewGrouper(priority []string) *Grouper {
	m := make(map[string]int, len(priority))
	for i, p := range priority {
		m[p] = i
	}
	return &Grouper{priority: m, order: priority}
}

// Rank returns the bucket priority of a major classification; unrecognized
// classifications rank after all recognized ones.
func (g *Grouper) Rank(major string) int {
	if r, ok := g.priority[major]; ok {
		return r
	}
	return len(g.order)
}

// ValidateLines rejects lines that must never reach aggregation: negative
// quantities, a missing major classification, or a duplicate composite
// (major, minor, equipment) key within the set.
func (g *Grouper) ValidateLines(lines []entity.DocumentLine) error {
	type key struct{ major, minor, equipment string }
	seen := make(map[key]struct{}, len(lines))
	for _, l := range lines {
		if l.Major == "" {
			return fmt.Errorf("%w: line (%s/%s) has no major classification", ErrInvalidLineData, l.Minor, l.Equipment)
		}
		if l.Quantity < 0 || l.CostQuantity < 0 {
			return fmt.Errorf("%w: line (%s/%s/%s) has negative quantity", ErrInvalidLineData, l.Major, l.Minor, l.Equipment)
		}
		k := key{l.Major, l.Minor, l.Equipment}
		if _, dup := seen[k]; dup {
			return fmt.Errorf("%w: duplicate composite key (%s/%s/%s)", ErrInvalidLineData, l.Major, l.Minor, l.Equipment)
		}
		seen[k] = struct{}{}
	}
	return nil
}

// Group validates and then aggregates. Buckets follow the priority table with
// unknown majors appended in first-seen order; equipment groups preserve
// first-seen order within a bucket. All money is int64 minor units.
func (g *Grouper) Group(doc *entity.Document, lines []entity.DocumentLine) (*GroupedDocument, error) {
	if err := g.ValidateLines(lines); err != nil {
		return nil, err
	}

	bucketIdx := make(map[string]int)
	var buckets []MajorBucket

	for _, l := range lines {
		bi, ok := bucketIdx[l.Major]
		if !ok {
			bi = len(buckets)
			bucketIdx[l.Major] = bi
			buckets = append(buckets, MajorBucket{Major: l.Major})
		}

		b := &buckets[bi]
		gi := -1
		for i := range b.Groups {
			if b.Groups[i].Equipment == l.Equipment {
				gi = i
				break
			}
		}
		if gi < 0 {
			b.Groups = append(b.Groups, EquipmentGroup{Equipment: l.Equipment})
			gi = len(b.Groups) - 1
		}

		amount := l.Quantity * l.UnitPrice
		costAmount := l.CostQuantity * l.CostUnitPrice
		b.Groups[gi].Lines = append(b.Groups[gi].Lines, LineView{
			Major:         l.Major,
			Minor:         l.Minor,
			Equipment:     l.Equipment,
			Unit:          l.Unit,
			UnitPrice:     l.UnitPrice,
			Quantity:      l.Quantity,
			Amount:        amount,
			CostUnit:      l.CostUnit,
			CostUnitPrice: l.CostUnitPrice,
			CostQuantity:  l.CostQuantity,
			CostAmount:    costAmount,
			UpliftPercent: l.UpliftPercent,
			Remark:        l.Remark,
		})
		b.Groups[gi].Subtotal += amount
		b.Groups[gi].CostSubtotal += costAmount
		b.Subtotal += amount
		b.CostSubtotal += costAmount
	}

	// Recognized buckets in priority order, unknown ones after, keeping their
	// first-seen order among themselves.
	sort.SliceStable(buckets, func(i, j int) bool {
		return g.Rank(buckets[i].Major) < g.Rank(buckets[j].Major)
	})

	out := &GroupedDocument{Buckets: buckets}
	if doc != nil {
		out.DocumentID = doc.ID
		out.Kind = doc.Kind
	}
	for i := range out.Buckets {
		out.Buckets[i].Delta = out.Buckets[i].Subtotal - out.Buckets[i].CostSubtotal
		out.GrandTotal += out.Buckets[i].Subtotal
		out.CostTotal += out.Buckets[i].CostSubtotal
	}
	out.Delta = out.GrandTotal - out.CostTotal
	return out, nil
}

// sortLinesCanonical orders a stored (unordered) line set so grouping sees a
// reproducible sequence regardless of how the storage layer returned rows:
// major priority first, then equipment, then minor.
func sortLinesCanonical(g *Grouper, lines []entity.DocumentLine) {
	sort.SliceStable(lines, func(i, j int) bool {
		ri, rj := g.Rank(lines[i].Major), g.Rank(lines[j].Major)
		if ri != rj {
			return ri < rj
		}
		if lines[i].Major != lines[j].Major {
			return lines[i].Major < lines[j].Major
		}
		if lines[i].Equipment != lines[j].Equipment {
			return lines[i].Equipment < lines[j].Equipment
		}
		return lines[i].Minor < lines[j].Minor
	})
}
