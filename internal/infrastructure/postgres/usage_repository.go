package postgres

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockit-api/internal/domain"
	"github.com/jhoicas/stockit-api/internal/domain/entity"
	"github.com/jhoicas/stockit-api/internal/domain/repository"
)

var _ repository.UsageRepository = (*UsageRepo)(nil)

const usageColumns = `id, codigo, nombre, maquina, lugar_uso, cliente, cantidad, usuario, fecha,
	tipo_consumo, enviado_manual, fecha_envio_manual, enviado_automatico`

// UsageRepo registro de usos sobre PostgreSQL (usable con pool o tx).
type UsageRepo struct {
	q Querier
}

// NewUsageRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUsageRepository(q Querier) *UsageRepo {
	return &UsageRepo{q: q}
}

func scanUsage(row pgx.Row) (*entity.UsageRecord, error) {
	var u entity.UsageRecord
	err := row.Scan(&u.ID, &u.Code, &u.Name, &u.Machine, &u.Site, &u.Client, &u.Quantity, &u.Owner, &u.Date,
		&u.ConsumptionType, &u.SentManual, &u.SentManualAt, &u.SentAutomatic)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserta el registro de uso.
func (r *UsageRepo) Create(ctx context.Context, rec *entity.UsageRecord) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO usage_records (id, codigo, nombre, maquina, lugar_uso, cliente, cantidad, usuario, fecha, tipo_consumo)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rec.ID, rec.Code, rec.Name, rec.Machine, rec.Site, rec.Client, rec.Quantity, rec.Owner, rec.Date, rec.ConsumptionType)
	if err != nil {
		return fmt.Errorf("insert usage record: %w", err)
	}
	return nil
}

// GetByID obtiene un uso por ID.
func (r *UsageRepo) GetByID(ctx context.Context, id string) (*entity.UsageRecord, error) {
	u, err := scanUsage(r.q.QueryRow(ctx, `SELECT `+usageColumns+` FROM usage_records WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get usage record: %w", err)
	}
	return u, nil
}

// Delete elimina un uso.
func (r *UsageRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM usage_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete usage record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UsageRepo) list(ctx context.Context, what, query string, args ...any) ([]*entity.UsageRecord, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	defer rows.Close()
	out := make([]*entity.UsageRecord, 0)
	for rows.Next() {
		u, err := scanUsage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan usage record: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// ListAll todos los usos, más recientes primero.
func (r *UsageRepo) ListAll(ctx context.Context) ([]*entity.UsageRecord, error) {
	return r.list(ctx, "list usage", `SELECT `+usageColumns+` FROM usage_records ORDER BY fecha DESC`)
}

// ListByOwner usos de un dueño, más recientes primero.
func (r *UsageRepo) ListByOwner(ctx context.Context, owner string) ([]*entity.UsageRecord, error) {
	return r.list(ctx, "list usage by owner",
		`SELECT `+usageColumns+` FROM usage_records WHERE usuario = $1 ORDER BY fecha DESC`, owner)
}

// ListBetween usos con fecha en [from, to], en orden cronológico.
func (r *UsageRepo) ListBetween(ctx context.Context, from, to time.Time) ([]*entity.UsageRecord, error) {
	return r.list(ctx, "list usage between",
		`SELECT `+usageColumns+` FROM usage_records WHERE fecha >= $1 AND fecha <= $2 ORDER BY fecha`, from, to)
}

// StatsByOwner agregados por código ordenados por total usado.
func (r *UsageRepo) StatsByOwner(ctx context.Context, owner string) ([]*entity.UsageStat, error) {
	rows, err := r.q.Query(ctx, `
		SELECT codigo, MAX(nombre), SUM(cantidad), COUNT(*), MAX(fecha), ROUND(AVG(cantidad), 2)
		FROM usage_records
		WHERE usuario = $1
		GROUP BY codigo
		ORDER BY SUM(cantidad) DESC, codigo`, owner)
	if err != nil {
		return nil, fmt.Errorf("usage stats: %w", err)
	}
	defer rows.Close()
	out := make([]*entity.UsageStat, 0)
	for rows.Next() {
		var s entity.UsageStat
		if err := rows.Scan(&s.Code, &s.Name, &s.TotalUsed, &s.Uses, &s.LastUse, &s.AvgPerUse); err != nil {
			return nil, fmt.Errorf("scan usage stat: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// MarkSentAutomatic marca los usos incluidos en el reporte programado.
func (r *UsageRepo) MarkSentAutomatic(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := r.q.Exec(ctx, `UPDATE usage_records SET enviado_automatico = true WHERE id = ANY($1::uuid[])`, ids); err != nil {
		return fmt.Errorf("mark sent automatic: %w", err)
	}
	return nil
}

// ClaimUnsent reserva en una sola sentencia los usos pendientes del dueño.
// Las filas bloqueadas por otra reserva en curso se saltan (SKIP LOCKED).
func (r *UsageRepo) ClaimUnsent(ctx context.Context, owner, consumptionType, batchID string, now, staleBefore time.Time) ([]*entity.UsageRecord, error) {
	recs, err := r.list(ctx, "claim unsent usage", `
		UPDATE usage_records SET lote_envio = $3, lote_envio_at = $4
		WHERE id IN (
			SELECT id FROM usage_records
			WHERE usuario = $1
			  AND enviado_manual = false
			  AND ($2::text = '' OR tipo_consumo = $2::text)
			  AND (lote_envio IS NULL OR lote_envio_at < $5)
			FOR UPDATE SKIP LOCKED
		)
		RETURNING `+usageColumns, owner, consumptionType, batchID, now, staleBefore)
	if err != nil {
		return nil, err
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].Date.After(recs[j].Date) })
	return recs, nil
}

// MarkBatchSent marca como enviados manualmente solo los usos de la reserva.
func (r *UsageRepo) MarkBatchSent(ctx context.Context, batchID string, at time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE usage_records
		SET enviado_manual = true, fecha_envio_manual = $2, lote_envio = NULL, lote_envio_at = NULL
		WHERE lote_envio = $1`, batchID, at)
	if err != nil {
		return 0, fmt.Errorf("mark batch sent: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ReleaseBatch libera la reserva para que los usos vuelvan a estar disponibles.
func (r *UsageRepo) ReleaseBatch(ctx context.Context, batchID string) error {
	_, err := r.q.Exec(ctx, `
		UPDATE usage_records SET lote_envio = NULL, lote_envio_at = NULL
		WHERE lote_envio = $1 AND enviado_manual = false`, batchID)
	if err != nil {
		return fmt.Errorf("release batch: %w", err)
	}
	return nil
}
