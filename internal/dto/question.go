package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/prohmpiriya/interview-qa/internal/domain"
	"github.com/prohmpiriya/interview-qa/pkg/validation"
)

// CreateQuestionRequest represents a new question
type CreateQuestionRequest struct {
	Question string   `json:"question" validate:"required,min=10,max=1000"`
	Answer   string   `json:"answer" validate:"required,min=10,max=5000"`
	Category *string  `json:"category" validate:"omitnil,oneof=Technical Behavioral HR Situational General Other"`
	Tags     []string `json:"tags" validate:"max=10,dive,min=2,max=30"`
}

// Normalize trims text and canonicalizes tags
func (r *CreateQuestionRequest) Normalize() {
	r.Question = strings.TrimSpace(r.Question)
	r.Answer = strings.TrimSpace(r.Answer)
	if r.Category != nil {
		c := strings.TrimSpace(*r.Category)
		r.Category = &c
	}
	r.Tags = NormalizeTags(r.Tags)
}

func (r *CreateQuestionRequest) Validate() error {
	return validation.Get().Struct(r)
}

// ToQuestion maps the request onto a question without id or timestamps
func (r *CreateQuestionRequest) ToQuestion() *domain.Question {
	q := &domain.Question{
		Question: r.Question,
		Answer:   r.Answer,
		Tags:     append([]string{}, r.Tags...),
	}
	if r.Category != nil {
		c := domain.Category(*r.Category)
		q.Category = &c
	}
	return q
}

// BulkCreateQuestionsRequest creates up to 100 questions at once
type BulkCreateQuestionsRequest struct {
	Questions []CreateQuestionRequest `json:"questions" validate:"required,min=1,max=100,dive"`
}

func (r *BulkCreateQuestionsRequest) Normalize() {
	for i := range r.Questions {
		r.Questions[i].Normalize()
	}
}

func (r *BulkCreateQuestionsRequest) Validate() error {
	return validation.Get().Struct(r)
}

// ToQuestions maps every item, keeping request order
func (r *BulkCreateQuestionsRequest) ToQuestions() []*domain.Question {
	out := make([]*domain.Question, 0, len(r.Questions))
	for i := range r.Questions {
		out = append(out, r.Questions[i].ToQuestion())
	}
	return out
}

// NullableString tells an absent JSON field apart from an explicit null
type NullableString struct {
	Set   bool
	Null  bool
	Value string
}

func (n *NullableString) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.Null = true
		n.Value = ""
		return nil
	}
	n.Null = false
	return json.Unmarshal(b, &n.Value)
}

// UpdateQuestionRequest is a partial update. At least one field is required.
type UpdateQuestionRequest struct {
	Question *string        `json:"question" validate:"omitnil,min=10,max=1000"`
	Answer   *string        `json:"answer" validate:"omitnil,min=10,max=5000"`
	Category NullableString `json:"category"`
	Tags     *[]string      `json:"tags" validate:"omitnil,max=10,dive,min=2,max=30"`
}

func (r *UpdateQuestionRequest) Normalize() {
	if r.Question != nil {
		s := strings.TrimSpace(*r.Question)
		r.Question = &s
	}
	if r.Answer != nil {
		s := strings.TrimSpace(*r.Answer)
		r.Answer = &s
	}
	if r.Category.Set && !r.Category.Null {
		r.Category.Value = strings.TrimSpace(r.Category.Value)
	}
	if r.Tags != nil {
		tags := NormalizeTags(*r.Tags)
		r.Tags = &tags
	}
}

// Validate reports an empty update under "body"
func (r *UpdateQuestionRequest) Validate() error {
	if r.Question == nil && r.Answer == nil && !r.Category.Set && r.Tags == nil {
		return validation.FieldErrors{"body": "at least one field must be provided for update"}
	}

	fields := validation.FieldErrors{}
	if err := validation.Get().Struct(r); err != nil {
		if !errors.As(err, &fields) {
			return err
		}
	}

	if r.Category.Set && !r.Category.Null && !domain.Category(r.Category.Value).Valid() {
		fields["category"] = "must be one of: Technical, Behavioral, HR, Situational, General, Other"
	}

	if len(fields) > 0 {
		return fields
	}
	return nil
}

// ToPatch maps the request onto a domain patch
func (r *UpdateQuestionRequest) ToPatch() *domain.QuestionPatch {
	p := &domain.QuestionPatch{
		Question: r.Question,
		Answer:   r.Answer,
		Tags:     r.Tags,
	}
	if r.Category.Set {
		if r.Category.Null {
			p.ClearCategory = true
		} else {
			c := domain.Category(r.Category.Value)
			p.Category = &c
		}
	}
	return p
}

// NormalizeTags trims and lowercases tags, dropping duplicates. Blank
// tags are kept so that validation can reject them. Never nil.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
		}
		out = append(out, t)
	}
	return out
}
