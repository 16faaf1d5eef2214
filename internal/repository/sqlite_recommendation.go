package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/db"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/domain"
)

// SQLiteRecommendationRepo implements RecommendationRepo using a SQLite database.
type SQLiteRecommendationRepo struct {
	db db.DBTX
}

// NewSQLiteRecommendationRepo creates a repo over a *sql.DB or a *sql.Tx.
func NewSQLiteRecommendationRepo(conn db.DBTX) *SQLiteRecommendationRepo {
	return &SQLiteRecommendationRepo{db: conn}
}

const recommendationColumns = `id, created_at, schema_version,
	kappa, temperature, ph, inlet_brightness, current_dose, pulp_flow, production_rate, consistency,
	recommended_dose, echoed_dose, delta, k_optimal, k_current,
	estimated_outlet_current, predicted_outlet_optimized,
	control_status, reason, flow_calculated, retention_calculated, shape`

func (r *SQLiteRecommendationRepo) Create(ctx context.Context, rec *domain.RecommendationRecord) error {
	query := `INSERT INTO recommendations (` + recommendationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	in, res := rec.Reading, rec.Result
	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.CreatedAt.UTC().Format(timeLayout),
		string(rec.Schema),
		in.Kappa, in.Temperature, in.PH, in.InletBrightness, in.CurrentDose,
		in.PulpFlow, in.ProductionRate, in.Consistency,
		res.RecommendedDose, res.CurrentDose, res.Delta, res.KOptimal, res.KCurrent,
		res.EstimatedOutletCurrent, nullableFloatToValue(res.PredictedOutletOptimized),
		res.ControlStatus, res.Reason,
		nullableFloatToValue(res.FlowCalculated), nullableFloatToValue(res.RetentionCalculated),
		string(shapeOrSingle(res.Shape)),
	)
	if err != nil {
		return fmt.Errorf("inserting recommendation: %w", err)
	}
	return nil
}

func (r *SQLiteRecommendationRepo) GetByID(ctx context.Context, id string) (*domain.RecommendationRecord, error) {
	query := `SELECT ` + recommendationColumns + ` FROM recommendations WHERE id = ?`
	rec, err := scanRecommendation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("recommendation: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning recommendation: %w", err)
	}
	return rec, nil
}

func (r *SQLiteRecommendationRepo) ListRecent(ctx context.Context, limit int) ([]*domain.RecommendationRecord, error) {
	if limit <= 0 {
		return nil, nil
	}
	query := `SELECT ` + recommendationColumns + ` FROM recommendations
		ORDER BY created_at DESC, rowid DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent recommendations: %w", err)
	}
	defer rows.Close()

	var out []*domain.RecommendationRecord
	for rows.Next() {
		rec, err := scanRecommendation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning recommendation row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating recommendations: %w", err)
	}
	return out, nil
}

func (r *SQLiteRecommendationRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recommendations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting recommendations: %w", err)
	}
	return n, nil
}

func (r *SQLiteRecommendationRepo) PruneKeepLatest(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	query := `DELETE FROM recommendations WHERE id NOT IN (
		SELECT id FROM recommendations ORDER BY created_at DESC, rowid DESC LIMIT ?)`
	n, err := db.ExecAffected(ctx, r.db, query, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning recommendations: %w", err)
	}
	return n, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecommendation(s rowScanner) (*domain.RecommendationRecord, error) {
	var (
		rec                    domain.RecommendationRecord
		createdAt, schema      string
		shape                  string
		predicted, flow, reten sql.NullFloat64
	)
	in := &rec.Reading
	res := &rec.Result

	err := s.Scan(
		&rec.ID, &createdAt, &schema,
		&in.Kappa, &in.Temperature, &in.PH, &in.InletBrightness, &in.CurrentDose,
		&in.PulpFlow, &in.ProductionRate, &in.Consistency,
		&res.RecommendedDose, &res.CurrentDose, &res.Delta, &res.KOptimal, &res.KCurrent,
		&res.EstimatedOutletCurrent, &predicted,
		&res.ControlStatus, &res.Reason, &flow, &reten, &shape,
	)
	if err != nil {
		return nil, err
	}

	rec.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	rec.Schema = domain.SchemaVersion(schema)
	res.PredictedOutletOptimized = floatPtr(predicted)
	res.FlowCalculated = floatPtr(flow)
	res.RetentionCalculated = floatPtr(reten)
	res.Shape = domain.ResultShape(shape)
	return &rec, nil
}

func shapeOrSingle(s domain.ResultShape) domain.ResultShape {
	if s == domain.ShapeDualEstimate {
		return s
	}
	return domain.ShapeSingleEstimate
}
