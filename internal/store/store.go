// Package store provides the SQLite-backed record store for experiments.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/theirongolddev/outfit/internal/model"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const dateLayout = "2006-01-02"

var (
	// ErrNotFound is returned when a single-row lookup matches nothing.
	ErrNotFound = errors.New("not found")
	// ErrReferentialIntegrity is returned when a child row references an
	// experiment that does not exist.
	ErrReferentialIntegrity = errors.New("referential integrity violation")
)

// Store is the record store holding experiments and their child rows.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at the given path and ensures the
// schema exists.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating database dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// Single writer, and pragmas are per connection.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.CreateSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// CreateSchema ensures the experiment tables and the import file tracker
// exist. It is idempotent.
func (s *Store) CreateSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CommitExperiment writes the experiment row and all of its child rows in a
// single transaction and returns the assigned experiment id. Either every
// row becomes visible or none does.
func (s *Store) CommitExperiment(ctx context.Context, d model.Draft) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var comment, date sql.NullString
	if d.Experiment.Comment != "" {
		comment = sql.NullString{String: d.Experiment.Comment, Valid: true}
	}
	if !d.Experiment.Date.IsZero() {
		date = sql.NullString{String: d.Experiment.Date.Format(dateLayout), Valid: true}
	}

	res, err := tx.ExecContext(ctx, `INSERT INTO experiments (name, comment, date) VALUES (?, ?, ?)`,
		d.Experiment.Name, comment, date)
	if err != nil {
		return 0, fmt.Errorf("inserting experiment: %w", classify(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if err := insertChildren(ctx, tx, id, d); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing experiment: %w", classify(err))
	}
	return id, nil
}

func insertChildren(ctx context.Context, tx *sql.Tx, expID int64, d model.Draft) error {
	for _, p := range d.Parameters {
		if _, err := tx.ExecContext(ctx, `INSERT INTO parameters (experiment_id, name, value) VALUES (?, ?, ?)`,
			expID, p.Name, p.Value); err != nil {
			return fmt.Errorf("inserting parameter %q: %w", p.Name, classify(err))
		}
	}
	for _, o := range d.Outputs {
		if _, err := tx.ExecContext(ctx, `INSERT INTO outputs (experiment_id, type, path) VALUES (?, ?, ?)`,
			expID, o.Type, o.Path); err != nil {
			return fmt.Errorf("inserting output %q: %w", o.Type, classify(err))
		}
	}
	for _, sc := range d.Scores {
		if _, err := tx.ExecContext(ctx, `INSERT INTO scores (experiment_id, type, value) VALUES (?, ?, ?)`,
			expID, sc.Type, sc.Value); err != nil {
			return fmt.Errorf("inserting score %q: %w", sc.Type, classify(err))
		}
	}
	return nil
}

// classify maps SQLite foreign key failures onto ErrReferentialIntegrity.
func classify(err error) error {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return err
	}
	code := se.Code()
	if code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY ||
		(code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(err.Error(), "FOREIGN KEY")) {
		return fmt.Errorf("%w: %v", ErrReferentialIntegrity, err)
	}
	return err
}

// Experiments returns every committed experiment ordered by id.
func (s *Store) Experiments(ctx context.Context) ([]model.Experiment, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, comment, date FROM experiments ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Experiment
	for rows.Next() {
		e, err := scanExperiment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Experiment returns the experiment with the given id.
func (s *Store) Experiment(ctx context.Context, id int64) (model.Experiment, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, comment, date FROM experiments WHERE id = ?`, id)
	e, err := scanExperiment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Experiment{}, fmt.Errorf("experiment %d: %w", id, ErrNotFound)
	}
	return e, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExperiment(sc scanner) (model.Experiment, error) {
	var e model.Experiment
	var comment, date sql.NullString
	if err := sc.Scan(&e.ID, &e.Name, &comment, &date); err != nil {
		return e, err
	}
	if comment.Valid {
		e.Comment = comment.String
	}
	if date.Valid && date.String != "" {
		d, err := time.Parse(dateLayout, date.String)
		if err != nil {
			return e, fmt.Errorf("experiment %d: bad date %q: %w", e.ID, date.String, err)
		}
		e.Date = d
	}
	return e, nil
}

// Parameters returns the parameters of one experiment in insertion order.
func (s *Store) Parameters(ctx context.Context, expID int64) ([]model.Parameter, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, experiment_id, name, value FROM parameters WHERE experiment_id = ? ORDER BY id`, expID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Parameter
	for rows.Next() {
		var p model.Parameter
		if err := rows.Scan(&p.ID, &p.ExperimentID, &p.Name, &p.Value); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Outputs returns the outputs of one experiment in insertion order.
func (s *Store) Outputs(ctx context.Context, expID int64) ([]model.Output, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, experiment_id, type, path FROM outputs WHERE experiment_id = ? ORDER BY id`, expID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Output
	for rows.Next() {
		var o model.Output
		if err := rows.Scan(&o.ID, &o.ExperimentID, &o.Type, &o.Path); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Scores returns the scores of one experiment in insertion order.
func (s *Store) Scores(ctx context.Context, expID int64) ([]model.Score, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, experiment_id, type, value FROM scores WHERE experiment_id = ? ORDER BY id`, expID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Score
	for rows.Next() {
		var sc model.Score
		if err := rows.Scan(&sc.ID, &sc.ExperimentID, &sc.Type, &sc.Value); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// RankedScore is one experiment's best value for a score type.
type RankedScore struct {
	ExperimentID int64
	Value        float64
}

// RankScores returns, per experiment having the score type, its best value
// (smallest when ascending, largest when descending), ordered best first.
// Ties are broken by experiment id. A limit <= 0 returns every experiment.
func (s *Store) RankScores(ctx context.Context, scoreType string, descending bool, limit int) ([]RankedScore, error) {
	agg, dir := "MIN", "ASC"
	if descending {
		agg, dir = "MAX", "DESC"
	}
	if limit <= 0 {
		limit = -1 // no limit in SQLite
	}

	q := fmt.Sprintf(`SELECT experiment_id, %s(value) AS best
		FROM scores WHERE type = ?
		GROUP BY experiment_id
		ORDER BY best %s, experiment_id ASC
		LIMIT ?`, agg, dir)

	rows, err := s.db.QueryContext(ctx, q, scoreType, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []RankedScore
	for rows.Next() {
		var r RankedScore
		if err := rows.Scan(&r.ExperimentID, &r.Value); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ScoreTypes returns the distinct score types ever recorded, sorted.
func (s *Store) ScoreTypes(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, `SELECT DISTINCT type FROM scores ORDER BY type`)
}

// ParameterNames returns the distinct parameter names ever recorded, sorted.
func (s *Store) ParameterNames(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, `SELECT DISTINCT name FROM parameters ORDER BY name`)
}

// ParameterValues returns the distinct values recorded for a parameter
// name, sorted as text.
func (s *Store) ParameterValues(ctx context.Context, name string) ([]string, error) {
	return s.distinct(ctx, `SELECT DISTINCT value FROM parameters WHERE name = ? ORDER BY value`, name)
}

func (s *Store) distinct(ctx context.Context, q string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// ScoredParameter is one row of the experiment x parameter x score join.
type ScoredParameter struct {
	ExperimentID   int64
	ExperimentName string
	ParamName      string
	ParamValue     string
	ScoreID        int64
	ScoreValue     float64
}

// ScoredParameters joins experiments, parameters and scores of the given
// score type.
func (s *Store) ScoredParameters(ctx context.Context, scoreType string) ([]ScoredParameter, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT e.id, e.name, p.name, p.value, sc.id, sc.value
		FROM experiments e
		JOIN parameters p ON p.experiment_id = e.id
		JOIN scores sc ON sc.experiment_id = e.id
		WHERE sc.type = ?
		ORDER BY e.id, p.id, sc.id`, scoreType)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []ScoredParameter
	for rows.Next() {
		var sp ScoredParameter
		if err := rows.Scan(&sp.ExperimentID, &sp.ExperimentName, &sp.ParamName, &sp.ParamValue,
			&sp.ScoreID, &sp.ScoreValue); err != nil {
			return nil, err
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

// ParameterValue returns the value of one parameter of one experiment. When
// the name repeats, the first recorded value wins.
func (s *Store) ParameterValue(ctx context.Context, expID int64, name string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM parameters WHERE experiment_id = ? AND name = ? ORDER BY id LIMIT 1`,
		expID, name).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("parameter %q of experiment %d: %w", name, expID, ErrNotFound)
	}
	return v, err
}
