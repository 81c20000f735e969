package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkravets/formflow/internal/forms"
)

// PostgresStore is a PostgreSQL implementation of the Store interface.
// Form fields (with their logic rules) are stored as a JSONB document; the
// engine treats the field list as an opaque snapshot anyway, so there is no
// relational win in exploding rules into their own table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// GetAllForms retrieves all forms for the given environment.
func (p *PostgresStore) GetAllForms(ctx context.Context, env string) ([]forms.Form, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT key, title, description, published, fields, env, updated_at
		 FROM forms WHERE env = $1 ORDER BY key`, env)
	if err != nil {
		return nil, fmt.Errorf("query forms: %w", err)
	}
	defer rows.Close()

	var result []forms.Form
	for rows.Next() {
		f, err := scanForm(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	return result, rows.Err()
}

// GetFormByKey retrieves a single form by key and environment.
func (p *PostgresStore) GetFormByKey(ctx context.Context, key, env string) (*forms.Form, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT key, title, description, published, fields, env, updated_at
		 FROM forms WHERE key = $1 AND env = $2`, key, env)

	f, err := scanForm(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

// UpsertForm creates or updates a form definition.
func (p *PostgresStore) UpsertForm(ctx context.Context, params UpsertParams) error {
	fieldsJSON, err := json.Marshal(params.Fields)
	if err != nil {
		return fmt.Errorf("encode fields: %w", err)
	}

	_, err = p.pool.Exec(ctx,
		`INSERT INTO forms (key, title, description, published, fields, env, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, now())
		 ON CONFLICT (key, env) DO UPDATE SET
		   title = EXCLUDED.title,
		   description = EXCLUDED.description,
		   published = EXCLUDED.published,
		   fields = EXCLUDED.fields,
		   updated_at = now()`,
		params.Key, params.Title, params.Description, params.Published, fieldsJSON, params.Env)
	return err
}

// DeleteForm removes a form.
func (p *PostgresStore) DeleteForm(ctx context.Context, key, env string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM forms WHERE key = $1 AND env = $2`, key, env)
	return err
}

// SaveResponse persists a completed form response.
func (p *PostgresStore) SaveResponse(ctx context.Context, response Response) error {
	answersJSON, err := json.Marshal(response.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}

	_, err = p.pool.Exec(ctx,
		`INSERT INTO responses (id, form_key, env, answers, submitted_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		response.ID, response.FormKey, response.Env, answersJSON, response.SubmittedAt)
	return err
}

// Close closes the database connection pool.
func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}

func scanForm(row pgx.Row) (forms.Form, error) {
	var f forms.Form
	var fieldsJSON []byte
	if err := row.Scan(&f.Key, &f.Title, &f.Description, &f.Published, &fieldsJSON, &f.Env, &f.UpdatedAt); err != nil {
		return forms.Form{}, err
	}
	if len(fieldsJSON) > 0 {
		if err := json.Unmarshal(fieldsJSON, &f.Fields); err != nil {
			return forms.Form{}, fmt.Errorf("decode fields for %q: %w", f.Key, err)
		}
	}
	return f, nil
}
