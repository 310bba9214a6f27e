package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/jobhunt-tracker/internal/types"
)

// GetSelfAnalysis returns the user's self-analysis document. A user who has
// never saved one gets an empty document.
func (db *DB) GetSelfAnalysis(ctx context.Context, userID uuid.UUID) (*types.SelfAnalysisData, error) {
	var raw []byte
	err := db.pool.QueryRow(ctx,
		`SELECT document FROM self_analysis WHERE user_id = $1`, userID,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.EmptySelfAnalysis(), nil
		}
		return nil, fmt.Errorf("failed to get self-analysis: %w", err)
	}
	return decodeSelfAnalysis(raw)
}

// SaveSelfAnalysis overwrites the user's self-analysis document.
func (db *DB) SaveSelfAnalysis(ctx context.Context, userID uuid.UUID, data *types.SelfAnalysisData) error {
	if data == nil {
		data = types.EmptySelfAnalysis()
	}
	doc, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal self-analysis: %w", err)
	}
	_, err = db.pool.Exec(ctx,
		`INSERT INTO self_analysis (user_id, document, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (user_id) DO UPDATE SET document = $2, updated_at = NOW()`,
		userID, doc,
	)
	if err != nil {
		return fmt.Errorf("failed to save self-analysis: %w", err)
	}
	return nil
}

func decodeSelfAnalysis(raw []byte) (*types.SelfAnalysisData, error) {
	data := types.EmptySelfAnalysis()
	if err := json.Unmarshal(raw, data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal self-analysis: %w", err)
	}
	if data.Episodes == nil {
		data.Episodes = []types.Episode{}
	}
	if data.Strengths == nil {
		data.Strengths = []types.StrengthAndWeakness{}
	}
	if data.Weaknesses == nil {
		data.Weaknesses = []types.StrengthAndWeakness{}
	}
	if data.FreeNotes == nil {
		data.FreeNotes = []types.FreeNote{}
	}
	return data, nil
}
