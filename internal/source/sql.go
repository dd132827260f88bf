package source

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/adviz/internal/contract"
	"github.com/huangsam/adviz/schema"
)

// Table names for replayed detector results.
const (
	detectorsTable      = "detectors"
	anomalyResultsTable = "anomaly_results"
	featureResultsTable = "feature_results"
)

// SQLSource serves results stored in SQL tables created by Migrate.
type SQLSource struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.ResultSource = &SQLSource{} // Compile-time check

// NewSQLSource connects to the SQL backend. Tables are expected to exist;
// run `adviz source migrate` first.
func NewSQLSource(backend schema.DatabaseBackend, connStr string) (*SQLSource, error) {
	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}
	return &SQLSource{db: db, backend: backend}, nil
}

func (s *SQLSource) q(query string) string {
	return rebind(s.backend, query)
}

// GetDetector loads detector metadata by ID.
func (s *SQLSource) GetDetector(ctx context.Context, detectorID string) (schema.Detector, error) {
	query := s.q(`SELECT id, name, interval_minutes, window_delay_interval, window_delay_unit,
		category_fields, features, enabled_time, disabled_time
		FROM detectors WHERE id = ?`)

	var d schema.Detector
	var unit, categories, features string
	err := s.db.QueryRowContext(ctx, query, detectorID).Scan(
		&d.ID, &d.Name, &d.IntervalMinutes, &d.WindowDelay.Interval, &unit,
		&categories, &features, &d.EnabledTime, &d.DisabledTime,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return schema.Detector{}, fmt.Errorf("%w: %s", contract.ErrDetectorNotFound, detectorID)
	}
	if err != nil {
		return schema.Detector{}, fmt.Errorf("failed to query detector %s: %w. Has `adviz source migrate` been run?", detectorID, err)
	}
	d.WindowDelay.Unit = schema.TimeUnit(unit)
	d.CategoryFields = splitList(categories)
	d.Features = splitList(features)
	return d, nil
}

// GetAnomalies returns anomalies in the query range ordered by plot time.
func (s *SQLSource) GetAnomalies(ctx context.Context, q schema.ResultQuery) ([]schema.AnomalyResult, error) {
	query := s.q(`SELECT entity_json, plot_time, start_time, end_time, anomaly_grade, confidence
		FROM anomaly_results
		WHERE detector_id = ? AND plot_time >= ? AND plot_time < ?
		ORDER BY plot_time, entity_key`)

	rows, err := s.db.QueryContext(ctx, query, q.DetectorID, q.Range.StartDate, q.Range.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query anomaly results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []schema.AnomalyResult
	for rows.Next() {
		var r schema.AnomalyResult
		var entityJSON string
		if err := rows.Scan(&entityJSON, &r.PlotTime, &r.StartTime, &r.EndTime, &r.AnomalyGrade, &r.Confidence); err != nil {
			return nil, fmt.Errorf("failed to scan anomaly result: %w", err)
		}
		if r.Entity, err = decodeEntity(entityJSON); err != nil {
			return nil, err
		}
		if r.Entity.Matches(q.Entities) {
			out = append(out, r)
		}
	}
	return out, rows.Err()
}

// GetFeatureData returns values of one feature in the query range ordered by plot time.
func (s *SQLSource) GetFeatureData(ctx context.Context, q schema.ResultQuery, feature string) ([]schema.FeatureResult, error) {
	query := s.q(`SELECT entity_json, plot_time, start_time, end_time, feature_value
		FROM feature_results
		WHERE detector_id = ? AND feature_name = ? AND plot_time >= ? AND plot_time < ?
		ORDER BY plot_time, entity_key`)

	rows, err := s.db.QueryContext(ctx, query, q.DetectorID, feature, q.Range.StartDate, q.Range.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query feature results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []schema.FeatureResult
	for rows.Next() {
		var r schema.FeatureResult
		var entityJSON string
		if err := rows.Scan(&entityJSON, &r.PlotTime, &r.StartTime, &r.EndTime, &r.Value); err != nil {
			return nil, fmt.Errorf("failed to scan feature result: %w", err)
		}
		if r.Entity, err = decodeEntity(entityJSON); err != nil {
			return nil, err
		}
		if r.Entity.Matches(q.Entities) {
			out = append(out, r)
		}
	}
	return out, rows.Err()
}

// GetEntitySummaries lets the database bucket anomalous results per entity.
func (s *SQLSource) GetEntitySummaries(ctx context.Context, q schema.ResultQuery, bucketWidth int64) ([]schema.EntitySummary, error) {
	if bucketWidth <= 0 {
		return nil, fmt.Errorf("bucket width must be positive, got %d", bucketWidth)
	}
	query := s.q(fmt.Sprintf(`SELECT entity_json, bucket, MAX(anomaly_grade), COUNT(*)
		FROM (
			SELECT entity_json, (plot_time - ?) %s ? AS bucket, anomaly_grade
			FROM anomaly_results
			WHERE detector_id = ? AND plot_time >= ? AND plot_time < ? AND anomaly_grade > 0
		) graded
		GROUP BY entity_json, bucket
		ORDER BY entity_json, bucket`, intDivide(s.backend)))

	rows, err := s.db.QueryContext(ctx, query,
		q.Range.StartDate, bucketWidth, q.DetectorID, q.Range.StartDate, q.Range.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate anomaly results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	acc := newSummaryAccumulator(q.Range.StartDate, bucketWidth)
	for rows.Next() {
		var entityJSON string
		var bucket int64
		var grade float64
		var count int
		if err := rows.Scan(&entityJSON, &bucket, &grade, &count); err != nil {
			return nil, fmt.Errorf("failed to scan entity summary: %w", err)
		}
		entities, err := decodeEntity(entityJSON)
		if err != nil {
			return nil, err
		}
		if entities.Matches(q.Entities) {
			acc.add(entities, q.Range.StartDate+bucket*bucketWidth, grade, count)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return acc.result(), nil
}

// GetCategoryValues lists the values of field among the entities seen in range.
func (s *SQLSource) GetCategoryValues(ctx context.Context, q schema.ResultQuery, field string) ([]string, error) {
	query := s.q(`SELECT DISTINCT entity_json FROM anomaly_results
		WHERE detector_id = ? AND plot_time >= ? AND plot_time < ?`)

	rows, err := s.db.QueryContext(ctx, query, q.DetectorID, q.Range.StartDate, q.Range.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query entities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var lists []schema.EntityList
	for rows.Next() {
		var entityJSON string
		if err := rows.Scan(&entityJSON); err != nil {
			return nil, fmt.Errorf("failed to scan entity: %w", err)
		}
		entities, err := decodeEntity(entityJSON)
		if err != nil {
			return nil, err
		}
		lists = append(lists, entities)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return distinctFieldValues(lists, q.Entities, field), nil
}

// GetStatus returns row counts and the plot time span of stored anomalies.
func (s *SQLSource) GetStatus(ctx context.Context) (schema.SourceStatus, error) {
	status := schema.SourceStatus{
		Backend:   string(s.backend),
		Connected: s.db != nil,
		TableRows: make(map[string]int64),
	}
	if s.db == nil {
		return status, nil
	}

	var detectors int64
	for _, table := range []string{detectorsTable, anomalyResultsTable, featureResultsTable} {
		var count int64
		if err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableRows[table] = count
		if table == detectorsTable {
			detectors = count
		}
	}
	status.Detectors = int(detectors)

	var oldest, newest sql.NullInt64
	row := s.db.QueryRowContext(ctx, "SELECT MIN(plot_time), MAX(plot_time) FROM anomaly_results")
	if err := row.Scan(&oldest, &newest); err != nil {
		return status, fmt.Errorf("failed to get plot time span: %w", err)
	}
	if oldest.Valid {
		status.OldestPlotTime = time.UnixMilli(oldest.Int64).UTC()
	}
	if newest.Valid {
		status.NewestPlotTime = time.UnixMilli(newest.Int64).UTC()
	}
	return status, nil
}

// ImportBundle stores a result bundle, replacing any rows already held for
// its detector. It returns the number of result rows written.
func (s *SQLSource) ImportBundle(ctx context.Context, bundle schema.ResultBundle) (int, error) {
	d := bundle.Detector
	if d.ID == "" {
		return 0, fmt.Errorf("bundle has no detector id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{featureResultsTable, anomalyResultsTable} {
		if _, err := tx.ExecContext(ctx, s.q(fmt.Sprintf("DELETE FROM %s WHERE detector_id = ?", table)), d.ID); err != nil {
			return 0, fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	if _, err := tx.ExecContext(ctx, s.q("DELETE FROM detectors WHERE id = ?"), d.ID); err != nil {
		return 0, fmt.Errorf("failed to clear detector: %w", err)
	}

	_, err = tx.ExecContext(ctx, s.q(`INSERT INTO detectors (id, name, interval_minutes, window_delay_interval,
		window_delay_unit, category_fields, features, enabled_time, disabled_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		d.ID, d.Name, d.IntervalMinutes, d.WindowDelay.Interval, string(d.WindowDelay.Unit),
		strings.Join(d.CategoryFields, ","), strings.Join(d.Features, ","), d.EnabledTime, d.DisabledTime)
	if err != nil {
		return 0, fmt.Errorf("failed to insert detector: %w", err)
	}

	written := 0
	anomalyStmt, err := tx.PrepareContext(ctx, s.q(`INSERT INTO anomaly_results
		(detector_id, entity_key, entity_json, plot_time, start_time, end_time, anomaly_grade, confidence)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare anomaly insert: %w", err)
	}
	defer func() { _ = anomalyStmt.Close() }()

	for _, r := range bundle.Anomalies {
		entityJSON, err := encodeEntity(r.Entity)
		if err != nil {
			return 0, err
		}
		if _, err := anomalyStmt.ExecContext(ctx, d.ID, r.Entity.Key(), entityJSON,
			r.PlotTime, r.StartTime, r.EndTime, r.AnomalyGrade, r.Confidence); err != nil {
			return 0, fmt.Errorf("failed to insert anomaly at %d: %w", r.PlotTime, err)
		}
		written++
	}

	featureStmt, err := tx.PrepareContext(ctx, s.q(`INSERT INTO feature_results
		(detector_id, feature_name, entity_key, entity_json, plot_time, start_time, end_time, feature_value)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare feature insert: %w", err)
	}
	defer func() { _ = featureStmt.Close() }()

	for name, values := range bundle.Features {
		for _, r := range values {
			entityJSON, err := encodeEntity(r.Entity)
			if err != nil {
				return 0, err
			}
			if _, err := featureStmt.ExecContext(ctx, d.ID, name, r.Entity.Key(), entityJSON,
				r.PlotTime, r.StartTime, r.EndTime, r.Value); err != nil {
				return 0, fmt.Errorf("failed to insert feature %s at %d: %w", name, r.PlotTime, err)
			}
			written++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}
	return written, nil
}

// Close closes the underlying connection.
func (s *SQLSource) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func encodeEntity(l schema.EntityList) (string, error) {
	if l == nil {
		l = schema.EntityList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return "", fmt.Errorf("failed to encode entity: %w", err)
	}
	return string(data), nil
}

func decodeEntity(s string) (schema.EntityList, error) {
	var l schema.EntityList
	if err := json.Unmarshal([]byte(s), &l); err != nil {
		return nil, fmt.Errorf("failed to decode entity %q: %w", s, err)
	}
	if len(l) == 0 {
		return nil, nil
	}
	return l, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
