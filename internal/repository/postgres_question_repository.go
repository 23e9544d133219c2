package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prohmpiriya/interview-qa/internal/domain"
	"github.com/prohmpiriya/interview-qa/internal/filter"
	"github.com/prohmpiriya/interview-qa/pkg/database"
)

const questionColumns = `id::text, question, answer, category, tags, created_at, updated_at`

// ErrUnsupportedCondition is returned for a filter condition with no SQL form
var ErrUnsupportedCondition = errors.New("unsupported filter condition")

// PostgresQuestionRepository implements QuestionRepository using PostgreSQL
type PostgresQuestionRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresQuestionRepository creates a new PostgresQuestionRepository
func NewPostgresQuestionRepository(pool *pgxpool.Pool) *PostgresQuestionRepository {
	return &PostgresQuestionRepository{pool: pool}
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const insertQuestion = `
	INSERT INTO questions (id, question, answer, category, tags, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
`

func insert(ctx context.Context, db execer, q *domain.Question) error {
	_, err := db.Exec(ctx, insertQuestion,
		q.ID,
		q.Question,
		q.Answer,
		categoryArg(q.Category),
		tagsArg(q.Tags),
		q.CreatedAt,
		q.UpdatedAt,
	)
	if err != nil && isUniqueViolation(err) {
		return ErrDuplicateID
	}
	return err
}

// Create inserts one question
func (r *PostgresQuestionRepository) Create(ctx context.Context, q *domain.Question) error {
	if err := insert(ctx, r.pool, q); err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

// CreateMany inserts every question in a single transaction
func (r *PostgresQuestionRepository) CreateMany(ctx context.Context, qs []*domain.Question) error {
	return database.RunInTx(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, q := range qs {
			batch.Queue(insertQuestion,
				q.ID, q.Question, q.Answer, categoryArg(q.Category), tagsArg(q.Tags), q.CreatedAt, q.UpdatedAt)
		}

		results := tx.SendBatch(ctx, batch)
		for i := range qs {
			if _, err := results.Exec(); err != nil {
				results.Close()
				if isUniqueViolation(err) {
					err = ErrDuplicateID
				}
				return fmt.Errorf("failed to insert question %d: %w", i, err)
			}
		}
		return results.Close()
	})
}

// GetByID retrieves a question by ID
func (r *PostgresQuestionRepository) GetByID(ctx context.Context, id string) (*domain.Question, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+questionColumns+` FROM questions WHERE id = $1`, id)
	q, err := scanQuestion(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return q, nil
}

// List returns questions matching query.Predicate, ordered by query.Order
func (r *PostgresQuestionRepository) List(ctx context.Context, query filter.Query) ([]*domain.Question, error) {
	where, args, err := BuildWhere(query.Predicate)
	if err != nil {
		return nil, err
	}

	sql := `SELECT ` + questionColumns + ` FROM questions`
	if where != "" {
		sql += ` WHERE ` + where
	}
	sql += ` ORDER BY ` + orderBy(query.Order)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.Question, 0)
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return out, nil
}

// Update locks the row, applies patch and writes it back
func (r *PostgresQuestionRepository) Update(ctx context.Context, id string, patch *domain.QuestionPatch, now time.Time) (*domain.Question, error) {
	var updated *domain.Question
	err := database.RunInTx(ctx, r.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `SELECT `+questionColumns+` FROM questions WHERE id = $1 FOR UPDATE`, id)
		q, err := scanQuestion(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}

		patch.Apply(q, now)

		_, err = tx.Exec(ctx, `
			UPDATE questions
			SET question = $2, answer = $3, category = $4, tags = $5, updated_at = $6
			WHERE id = $1
		`, q.ID, q.Question, q.Answer, categoryArg(q.Category), tagsArg(q.Tags), q.UpdatedAt)
		if err != nil {
			return err
		}
		updated = q
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update question: %w", err)
	}
	return updated, nil
}

// Delete removes a question
func (r *PostgresQuestionRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// BuildWhere renders a predicate as a SQL boolean expression with $n
// placeholders. An empty predicate renders as "".
func BuildWhere(pred filter.Predicate) (string, []any, error) {
	var conditions []string
	var args []any
	argIndex := 1

	for _, c := range pred.Conditions {
		if len(c.Values) == 0 {
			return "", nil, fmt.Errorf("%w: %s has no values", ErrUnsupportedCondition, c.Field)
		}

		switch {
		case c.Field == filter.FieldCategory && c.Op == filter.OpEq:
			conditions = append(conditions, fmt.Sprintf("category = $%d", argIndex))
			args = append(args, c.Values[0])
		case c.Field == filter.FieldTags && c.Op == filter.OpOverlaps:
			conditions = append(conditions, fmt.Sprintf("tags && $%d::text[]", argIndex))
			args = append(args, c.Values)
		case c.Field == filter.FieldQuestion && c.Op == filter.OpContainsFold:
			conditions = append(conditions, fmt.Sprintf(`question ILIKE $%d ESCAPE '\'`, argIndex))
			args = append(args, "%"+EscapeLike(c.Values[0])+"%")
		default:
			return "", nil, fmt.Errorf("%w: %s %s", ErrUnsupportedCondition, c.Field, c.Op)
		}
		argIndex++
	}

	return strings.Join(conditions, " AND "), args, nil
}

// EscapeLike makes s match literally inside a LIKE pattern
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func orderBy(o filter.Order) string {
	if o.Desc {
		return "created_at DESC, id DESC"
	}
	return "created_at ASC, id ASC"
}

func scanQuestion(row pgx.Row) (*domain.Question, error) {
	q := &domain.Question{}
	var category *string
	err := row.Scan(
		&q.ID,
		&q.Question,
		&q.Answer,
		&category,
		&q.Tags,
		&q.CreatedAt,
		&q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if category != nil {
		c := domain.Category(*category)
		q.Category = &c
	}
	if q.Tags == nil {
		q.Tags = []string{}
	}
	return q, nil
}

func categoryArg(c *domain.Category) *string {
	if c == nil {
		return nil
	}
	s := string(*c)
	return &s
}

func tagsArg(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
