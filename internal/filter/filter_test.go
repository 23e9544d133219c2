package filter

import (
	"testing"
	"time"

	"github.com/prohmpiriya/interview-qa/internal/domain"
	"github.com/stretchr/testify/assert"
)

var base = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func cat(c domain.Category) *domain.Category { return &c }

func fixtures() []*domain.Question {
	return []*domain.Question{
		{ID: "c", Question: "Explain REST API design", Category: cat(domain.CategoryTechnical), Tags: []string{"api", "react"}, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "a", Question: "What is a closure?", Category: cat(domain.CategoryTechnical), Tags: []string{"javascript"}, CreatedAt: base},
		{ID: "b", Question: "Tell me about yourself", Category: cat(domain.CategoryHR), Tags: []string{"intro"}, CreatedAt: base.Add(time.Hour)},
		{ID: "d", Question: "Python decorators", Tags: []string{"python"}, CreatedAt: base.Add(3 * time.Hour)},
	}
}

func ids(qs []*domain.Question) []string {
	out := make([]string, 0, len(qs))
	for _, q := range qs {
		out = append(out, q.ID)
	}
	return out
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"whitespace", "   ", nil},
		{"only commas", " , ,, ", nil},
		{"trim and lower", " JavaScript , api ", []string{"javascript", "api"}},
		{"dedupe keeps first", "Go,api,GO, go ", []string{"go", "api"}},
		{"single", "react", []string{"react"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTags(tt.raw))
		})
	}
}

func TestBuild_EmptyInputsAreAbsent(t *testing.T) {
	pred := Build(Params{Category: "  ", Tags: ",,", Question: "\t"})
	assert.True(t, pred.Empty())
}

func TestBuild_Conditions(t *testing.T) {
	pred := Build(Params{Category: "Technical", Tags: "JavaScript, api", Question: " clos "})

	assert.Equal(t, []Condition{
		{Field: FieldCategory, Op: OpEq, Values: []string{"Technical"}},
		{Field: FieldTags, Op: OpOverlaps, Values: []string{"javascript", "api"}},
		{Field: FieldQuestion, Op: OpContainsFold, Values: []string{"clos"}},
	}, pred.Conditions)
}

func TestApply_NoParamsReturnsAllOldestFirst(t *testing.T) {
	got := FromParams(Params{}).Apply(fixtures())
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(got))
}

func TestApply_NoMatchesIsEmptyNotNil(t *testing.T) {
	got := FromParams(Params{Tags: "haskell"}).Apply(fixtures())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMatch_TagsIntersect(t *testing.T) {
	pred := Build(Params{Tags: "JavaScript, api"})

	assert.True(t, pred.Match(&domain.Question{Tags: []string{"api", "react"}}))
	assert.True(t, pred.Match(&domain.Question{Tags: []string{"javascript"}}))
	assert.False(t, pred.Match(&domain.Question{Tags: []string{"python"}}))
	assert.False(t, pred.Match(&domain.Question{}))
}

func TestMatch_CategoryExact(t *testing.T) {
	pred := Build(Params{Category: "Technical"})

	assert.True(t, pred.Match(&domain.Question{Category: cat(domain.CategoryTechnical)}))
	assert.False(t, pred.Match(&domain.Question{Category: cat(domain.CategoryHR)}))
	assert.False(t, pred.Match(&domain.Question{}))
	assert.False(t, Build(Params{Category: "technical"}).Match(&domain.Question{Category: cat(domain.CategoryTechnical)}))
}

func TestMatch_QuestionSubstringIgnoresCase(t *testing.T) {
	q := &domain.Question{Question: "What is a closure?"}

	assert.True(t, Build(Params{Question: "clos"}).Match(q))
	assert.True(t, Build(Params{Question: "CLOSURE"}).Match(q))
	assert.False(t, Build(Params{Question: "hoisting"}).Match(q))
}

func TestApply_ConditionsAreANDed(t *testing.T) {
	got := FromParams(Params{Category: "Technical", Tags: "api,javascript", Question: "closure"}).Apply(fixtures())
	assert.Equal(t, []string{"a"}, ids(got))

	got = FromParams(Params{Category: "HR", Tags: "api"}).Apply(fixtures())
	assert.Empty(t, got)
}

func TestOrder(t *testing.T) {
	assert.False(t, ParseOrder("").Desc)
	assert.False(t, ParseOrder("asc").Desc)
	assert.False(t, ParseOrder("sideways").Desc)
	assert.True(t, ParseOrder(" DESC ").Desc)

	got := FromParams(Params{Order: "desc"}).Apply(fixtures())
	assert.Equal(t, []string{"d", "c", "b", "a"}, ids(got))
}

func TestOrder_TieBreaksOnID(t *testing.T) {
	qs := []*domain.Question{
		{ID: "z", CreatedAt: base},
		{ID: "m", CreatedAt: base},
	}
	Order{}.Sort(qs)
	assert.Equal(t, []string{"m", "z"}, ids(qs))
}

func TestCondition_UnknownNeverMatches(t *testing.T) {
	assert.False(t, Condition{Field: "answer", Op: OpEq, Values: []string{"x"}}.Match(&domain.Question{}))
	assert.False(t, Condition{Field: FieldCategory, Op: OpEq}.Match(&domain.Question{}))
}
