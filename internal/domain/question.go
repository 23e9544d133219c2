package domain

import (
	"time"
)

// Category classifies a question. A question may have none.
type Category string

const (
	CategoryTechnical   Category = "Technical"
	CategoryBehavioral  Category = "Behavioral"
	CategoryHR          Category = "HR"
	CategorySituational Category = "Situational"
	CategoryGeneral     Category = "General"
	CategoryOther       Category = "Other"
)

// Categories lists every valid category in display order
var Categories = []Category{
	CategoryTechnical,
	CategoryBehavioral,
	CategoryHR,
	CategorySituational,
	CategoryGeneral,
	CategoryOther,
}

// Valid reports whether c is one of Categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Question is an interview question with its answer. Answer holds HTML.
type Question struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Category  *Category `json:"category"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CategoryValue returns the category or "" when unset
func (q *Question) CategoryValue() string {
	if q.Category == nil {
		return ""
	}
	return string(*q.Category)
}

// Clone returns a deep copy, so callers can't mutate stored records
func (q *Question) Clone() *Question {
	out := *q
	if q.Category != nil {
		c := *q.Category
		out.Category = &c
	}
	out.Tags = append([]string{}, q.Tags...)
	return &out
}

// QuestionPatch carries the fields of a partial update. A nil pointer
// leaves the field alone. ClearCategory sets the category to null.
type QuestionPatch struct {
	Question      *string
	Answer        *string
	Category      *Category
	ClearCategory bool
	Tags          *[]string
}

// Empty reports whether the patch changes nothing
func (p *QuestionPatch) Empty() bool {
	return p.Question == nil && p.Answer == nil && p.Category == nil && !p.ClearCategory && p.Tags == nil
}

// Apply writes the patch onto q
func (p *QuestionPatch) Apply(q *Question, now time.Time) {
	if p.Question != nil {
		q.Question = *p.Question
	}
	if p.Answer != nil {
		q.Answer = *p.Answer
	}
	switch {
	case p.ClearCategory:
		q.Category = nil
	case p.Category != nil:
		c := *p.Category
		q.Category = &c
	}
	if p.Tags != nil {
		q.Tags = append([]string{}, (*p.Tags)...)
	}
	q.UpdatedAt = now
}
