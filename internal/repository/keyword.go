package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/docbase-br/docbase/internal/common"
	"github.com/docbase-br/docbase/internal/entity"
)

type KeywordRepository interface {
	Create(ctx context.Context, kw *entity.ExtractionKeyword) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.ExtractionKeyword, error)
	GetByIDs(ctx context.Context, ownerID uuid.UUID, ids []int64) ([]entity.ExtractionKeyword, error)
	Delete(ctx context.Context, ownerID uuid.UUID, id int64) error
}

type keywordRepo struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewKeywordRepository(pool *pgxpool.Pool, logger *slog.Logger) KeywordRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &keywordRepo{pool: pool, log: logger}
}

const keywordColumns = `
	id, owner_id, label, resolved_kind, field_key, inferred_type, value_type,
	strategy, strategy_params, anchors, match_strategy, confidence, created_at`

func (r *keywordRepo) Create(ctx context.Context, kw *entity.ExtractionKeyword) error {
	params, err := json.Marshal(kw.StrategyParams)
	if err != nil {
		return fmt.Errorf("marshal strategy_params: %w", err)
	}
	anchors, err := json.Marshal(kw.Anchors)
	if err != nil {
		return fmt.Errorf("marshal anchors: %w", err)
	}
	err = r.pool.QueryRow(ctx, `
		INSERT INTO extraction_keywords (
			owner_id, label, resolved_kind, field_key, inferred_type, value_type,
			strategy, strategy_params, anchors, match_strategy, confidence, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`,
		kw.OwnerID, kw.Label, kw.ResolvedKind, kw.FieldKey, kw.InferredType, kw.ValueType,
		kw.Strategy, params, anchors, kw.MatchStrategy, kw.Confidence, kw.CreatedAt,
	).Scan(&kw.ID)
	if err != nil {
		r.log.Error("keyword create failed", "owner_id", kw.OwnerID, "label", kw.Label, "error", err)
		return common.WrapError(err, "create keyword")
	}
	return nil
}

func (r *keywordRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.ExtractionKeyword, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+keywordColumns+` FROM extraction_keywords WHERE owner_id = $1 ORDER BY created_at`,
		ownerID,
	)
	if err != nil {
		return nil, common.WrapError(err, "list keywords")
	}
	defer rows.Close()
	return collectKeywords(rows)
}

func (r *keywordRepo) GetByIDs(ctx context.Context, ownerID uuid.UUID, ids []int64) ([]entity.ExtractionKeyword, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+keywordColumns+` FROM extraction_keywords WHERE owner_id = $1 AND id = ANY($2)`,
		ownerID, ids,
	)
	if err != nil {
		return nil, common.WrapError(err, "load keywords")
	}
	defer rows.Close()
	return collectKeywords(rows)
}

func (r *keywordRepo) Delete(ctx context.Context, ownerID uuid.UUID, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM extraction_keywords WHERE owner_id = $1 AND id = $2`,
		ownerID, id,
	)
	if err != nil {
		r.log.Error("keyword delete failed", "keyword_id", id, "error", err)
		return common.WrapError(err, "delete keyword")
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

func collectKeywords(rows pgx.Rows) ([]entity.ExtractionKeyword, error) {
	var keywords []entity.ExtractionKeyword
	for rows.Next() {
		var (
			kw         entity.ExtractionKeyword
			paramsRaw  []byte
			anchorsRaw []byte
		)
		err := rows.Scan(
			&kw.ID, &kw.OwnerID, &kw.Label, &kw.ResolvedKind, &kw.FieldKey,
			&kw.InferredType, &kw.ValueType, &kw.Strategy, &paramsRaw,
			&anchorsRaw, &kw.MatchStrategy, &kw.Confidence, &kw.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if len(paramsRaw) > 0 {
			if err := json.Unmarshal(paramsRaw, &kw.StrategyParams); err != nil {
				return nil, fmt.Errorf("decode strategy_params: %w", err)
			}
		}
		if len(anchorsRaw) > 0 {
			if err := json.Unmarshal(anchorsRaw, &kw.Anchors); err != nil {
				return nil, fmt.Errorf("decode anchors: %w", err)
			}
		}
		keywords = append(keywords, kw)
	}
	return keywords, rows.Err()
}
