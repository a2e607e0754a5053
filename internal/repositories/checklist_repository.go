package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/msv-stihl/limpeza/internal/models"
)

type ChecklistRepository struct {
	db *sql.DB
}

func NewChecklistRepository(db *sql.DB) *ChecklistRepository {
	return &ChecklistRepository{db: db}
}

// UpsertAll stores readings in one transaction, replacing rows that share an
// id_resposta.
func (r *ChecklistRepository) UpsertAll(ctx context.Context, readings []models.ChecklistReading) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO checklists (
			id_resposta, id_empresa, id_checklist, checklist, data_inicio, data_fim,
			id_ativo, ativo, qr_code, usuario, data_registro
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id_resposta) DO UPDATE SET
			id_empresa = EXCLUDED.id_empresa,
			id_checklist = EXCLUDED.id_checklist,
			checklist = EXCLUDED.checklist,
			data_inicio = EXCLUDED.data_inicio,
			data_fim = EXCLUDED.data_fim,
			id_ativo = EXCLUDED.id_ativo,
			ativo = EXCLUDED.ativo,
			qr_code = EXCLUDED.qr_code,
			usuario = EXCLUDED.usuario,
			data_registro = EXCLUDED.data_registro
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	count := 0
	for _, c := range readings {
		if c.ResponseID == "" {
			continue
		}
		_, err := stmt.ExecContext(ctx,
			c.ResponseID, c.CompanyID, c.ChecklistID, c.Checklist,
			nullTime(c.StartedAt), nullTime(c.FinishedAt),
			c.AssetID, c.Asset, c.QRCode, c.User,
			nullTime(c.RegisteredAt),
		)
		if err != nil {
			return 0, fmt.Errorf("upsert %s: %w", c.ResponseID, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return count, nil
}

// ListStartedBetween returns readings started in [from, to), oldest first.
func (r *ChecklistRepository) ListStartedBetween(ctx context.Context, from, to time.Time) ([]models.ChecklistReading, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id_resposta, id_empresa, id_checklist, checklist, data_inicio, data_fim,
		       id_ativo, ativo, qr_code, usuario, data_registro
		FROM checklists
		WHERE data_inicio >= $1 AND data_inicio < $2
		ORDER BY data_inicio ASC
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.ChecklistReading
	for rows.Next() {
		var c models.ChecklistReading
		var started, finished, registered sql.NullTime
		if err := rows.Scan(
			&c.ResponseID, &c.CompanyID, &c.ChecklistID, &c.Checklist, &started, &finished,
			&c.AssetID, &c.Asset, &c.QRCode, &c.User, &registered,
		); err != nil {
			return nil, err
		}
		c.StartedAt = timePtr(started)
		c.FinishedAt = timePtr(finished)
		c.RegisteredAt = timePtr(registered)
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *ChecklistRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM checklists`).Scan(&n)
	return n, err
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
