package repository

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/docbase-br/docbase/internal/common"
	"github.com/docbase-br/docbase/internal/entity"
)

type PresetRepository interface {
	Save(ctx context.Context, preset *entity.FilterPreset) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.FilterPreset, error)
	Delete(ctx context.Context, ownerID uuid.UUID, id int64) error
}

type presetRepo struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewPresetRepository(pool *pgxpool.Pool, logger *slog.Logger) PresetRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &presetRepo{pool: pool, log: logger}
}

func (r *presetRepo) Save(ctx context.Context, preset *entity.FilterPreset) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO filter_presets (owner_id, name, filters, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (owner_id, name) DO UPDATE SET filters = EXCLUDED.filters
		RETURNING id`,
		preset.OwnerID, preset.Name, preset.Filters, preset.CreatedAt,
	).Scan(&preset.ID)
	if err != nil {
		r.log.Error("preset save failed", "owner_id", preset.OwnerID, "name", preset.Name, "error", err)
		return common.WrapError(err, "save filter preset")
	}
	return nil
}

func (r *presetRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.FilterPreset, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, owner_id, name, filters, created_at
		FROM filter_presets
		WHERE owner_id = $1
		ORDER BY name`,
		ownerID,
	)
	if err != nil {
		return nil, common.WrapError(err, "list filter presets")
	}
	defer rows.Close()

	var presets []entity.FilterPreset
	for rows.Next() {
		var p entity.FilterPreset
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Filters, &p.CreatedAt); err != nil {
			return nil, err
		}
		presets = append(presets, p)
	}
	return presets, rows.Err()
}

func (r *presetRepo) Delete(ctx context.Context, ownerID uuid.UUID, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM filter_presets WHERE owner_id = $1 AND id = $2`,
		ownerID, id,
	)
	if err != nil {
		r.log.Error("preset delete failed", "preset_id", id, "error", err)
		return common.WrapError(err, "delete filter preset")
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}
