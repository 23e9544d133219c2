// Package filter turns optional listing parameters into a storage-agnostic
// predicate over questions. Present parameters are combined with AND. An
// empty predicate matches everything.
package filter

import (
	"sort"
	"strings"

	"github.com/prohmpiriya/interview-qa/internal/domain"
)

// Field is a filterable question attribute
type Field string

const (
	FieldCategory Field = "category"
	FieldTags     Field = "tags"
	FieldQuestion Field = "question"
)

// Op is how a Condition compares its Values with the field
type Op string

const (
	// OpEq: field equals Values[0]
	OpEq Op = "eq"
	// OpOverlaps: the field's set shares at least one element with Values
	OpOverlaps Op = "overlaps"
	// OpContainsFold: field contains Values[0], ignoring case
	OpContainsFold Op = "contains_fold"
)

// Condition is one clause of a Predicate
type Condition struct {
	Field  Field
	Op     Op
	Values []string
}

// Predicate is a conjunction of Conditions
type Predicate struct {
	Conditions []Condition
}

// Params are the raw listing inputs, bound from the query string
type Params struct {
	Category string `form:"category"`
	Tags     string `form:"tags"`
	Question string `form:"question"`
	Order    string `form:"order"`
}

// Build derives the predicate for p. Blank inputs are treated as absent.
func Build(p Params) Predicate {
	var pred Predicate

	if category := strings.TrimSpace(p.Category); category != "" {
		pred.Conditions = append(pred.Conditions, Condition{
			Field:  FieldCategory,
			Op:     OpEq,
			Values: []string{category},
		})
	}

	if tags := ParseTags(p.Tags); len(tags) > 0 {
		pred.Conditions = append(pred.Conditions, Condition{
			Field:  FieldTags,
			Op:     OpOverlaps,
			Values: tags,
		})
	}

	if text := strings.TrimSpace(p.Question); text != "" {
		pred.Conditions = append(pred.Conditions, Condition{
			Field:  FieldQuestion,
			Op:     OpContainsFold,
			Values: []string{text},
		})
	}

	return pred
}

// ParseTags splits a comma separated list, trimming and lowercasing each
// tag. Empty entries are dropped and the first occurrence of a duplicate wins.
func ParseTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var tags []string
	seen := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		tag := strings.ToLower(strings.TrimSpace(part))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

// Empty reports whether the predicate matches every record
func (p Predicate) Empty() bool {
	return len(p.Conditions) == 0
}

// Match evaluates the predicate against q in memory
func (p Predicate) Match(q *domain.Question) bool {
	for _, c := range p.Conditions {
		if !c.Match(q) {
			return false
		}
	}
	return true
}

// Match evaluates a single condition. Unknown fields or ops never match.
func (c Condition) Match(q *domain.Question) bool {
	if len(c.Values) == 0 {
		return false
	}

	switch c.Field {
	case FieldCategory:
		return c.Op == OpEq && q.Category != nil && string(*q.Category) == c.Values[0]
	case FieldTags:
		return c.Op == OpOverlaps && overlaps(q.Tags, c.Values)
	case FieldQuestion:
		return c.Op == OpContainsFold &&
			strings.Contains(strings.ToLower(q.Question), strings.ToLower(c.Values[0]))
	}
	return false
}

func overlaps(have, want []string) bool {
	set := make(map[string]struct{}, len(want))
	for _, w := range want {
		set[w] = struct{}{}
	}
	for _, h := range have {
		if _, ok := set[h]; ok {
			return true
		}
	}
	return false
}

// Order sorts listings by creation time, id breaking ties
type Order struct {
	Desc bool
}

// ParseOrder accepts "desc" (any case). Anything else is oldest first.
func ParseOrder(raw string) Order {
	return Order{Desc: strings.EqualFold(strings.TrimSpace(raw), "desc")}
}

// Less reports whether a sorts before b
func (o Order) Less(a, b *domain.Question) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		if o.Desc {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.CreatedAt.Before(b.CreatedAt)
	}
	if o.Desc {
		return a.ID > b.ID
	}
	return a.ID < b.ID
}

// Sort orders qs in place
func (o Order) Sort(qs []*domain.Question) {
	sort.SliceStable(qs, func(i, j int) bool { return o.Less(qs[i], qs[j]) })
}

// Query is a complete listing request
type Query struct {
	Predicate Predicate
	Order     Order
}

// FromParams builds the predicate and order for p
func FromParams(p Params) Query {
	return Query{
		Predicate: Build(p),
		Order:     ParseOrder(p.Order),
	}
}

// Apply filters and sorts qs, returning a new slice. Never nil.
func (q Query) Apply(qs []*domain.Question) []*domain.Question {
	out := make([]*domain.Question, 0, len(qs))
	for _, rec := range qs {
		if q.Predicate.Match(rec) {
			out = append(out, rec)
		}
	}
	q.Order.Sort(out)
	return out
}
