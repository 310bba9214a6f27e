package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jonathan/jobhunt-tracker/internal/types"
)

// ListCompanies returns the user's companies, most recently updated first.
func (db *DB) ListCompanies(ctx context.Context, userID uuid.UUID) ([]types.Company, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT document FROM companies WHERE user_id = $1 ORDER BY updated_at DESC, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	companies := []types.Company{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		c, err := decodeCompany(raw)
		if err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate companies: %w", err)
	}
	return companies, nil
}

// GetCompany returns one company or ErrNotFound.
func (db *DB) GetCompany(ctx context.Context, userID uuid.UUID, id string) (*types.Company, error) {
	var raw []byte
	err := db.pool.QueryRow(ctx,
		`SELECT document FROM companies WHERE user_id = $1 AND id = $2`,
		userID, id,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	c, err := decodeCompany(raw)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// SaveCompany inserts or fully replaces a company record.
func (db *DB) SaveCompany(ctx context.Context, userID uuid.UUID, c *types.Company) error {
	return saveCompany(ctx, db.pool, userID, c)
}

// UpdateCompany loads a company under a row lock, applies fn and saves the result
// in the same transaction. fn errors abort the update and are returned unchanged.
func (db *DB) UpdateCompany(ctx context.Context, userID uuid.UUID, id string, fn func(*types.Company) error) (*types.Company, error) {
	var updated *types.Company
	err := pgx.BeginFunc(ctx, db.pool, func(tx pgx.Tx) error {
		var raw []byte
		err := tx.QueryRow(ctx,
			`SELECT document FROM companies WHERE user_id = $1 AND id = $2 FOR UPDATE`,
			userID, id,
		).Scan(&raw)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load company: %w", err)
		}

		c, err := decodeCompany(raw)
		if err != nil {
			return err
		}
		if err := fn(&c); err != nil {
			return err
		}
		if err := saveCompany(ctx, tx, userID, &c); err != nil {
			return err
		}
		updated = &c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteCompany removes a company or returns ErrNotFound.
func (db *DB) DeleteCompany(ctx context.Context, userID uuid.UUID, id string) error {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM companies WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func saveCompany(ctx context.Context, ex execer, userID uuid.UUID, c *types.Company) error {
	doc, err := encodeCompany(c)
	if err != nil {
		return err
	}
	_, err = ex.Exec(ctx,
		`INSERT INTO companies (user_id, id, name, status, document, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (user_id, id) DO UPDATE
		 SET name = $3, status = $4, document = $5, updated_at = $7`,
		userID, c.ID, c.Name, string(c.CurrentStatus), doc, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save company %s: %w", c.ID, err)
	}
	return nil
}

func encodeCompany(c *types.Company) ([]byte, error) {
	if c.ID == "" {
		return nil, errors.New("company id is required")
	}
	doc, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal company: %w", err)
	}
	return doc, nil
}

// decodeCompany unmarshals a stored document and replaces null collections with empty ones.
func decodeCompany(raw []byte) (types.Company, error) {
	var c types.Company
	if err := json.Unmarshal(raw, &c); err != nil {
		return types.Company{}, fmt.Errorf("failed to unmarshal company: %w", err)
	}
	if c.SelectionSteps == nil {
		c.SelectionSteps = []types.SelectionStep{}
	}
	if c.ESQuestions == nil {
		c.ESQuestions = []types.ESQuestion{}
	}
	if c.SubmittedDocuments == nil {
		c.SubmittedDocuments = []types.SubmittedDocument{}
	}
	if c.InterviewLogs == nil {
		c.InterviewLogs = []types.InterviewLog{}
	}
	return c, nil
}
