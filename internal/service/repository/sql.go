package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"eco-service/internal/leaderboard"
	"eco-service/internal/scoring"
	"eco-service/internal/service/models"
)

// SQLRepository stores records in a single table through sqlx. Timestamps are
// unix nanoseconds so postgres and sqlite share the same schema and ordering.
type SQLRepository struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

// OpenSQL connects with driver ("postgres" or "sqlite") and migrates the schema.
func OpenSQL(ctx context.Context, driver, dsn string) (*SQLRepository, error) {
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "could not connect to %s", driver)
	}
	if driver == DriverSQLite {
		// In-memory databases exist per connection.
		db.SetMaxOpenConns(1)
	}
	r := New(db)
	if err = r.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

var schemaSQL = []string{
	`create table if not exists eco_footprints (
		id text primary key,
		user_id text not null,
		total_score integer not null,
		category text not null,
		transportation integer,
		energy integer,
		diet integer,
		waste integer,
		answers text,
		table_version integer not null default 0,
		created_at bigint not null,
		updated_at bigint not null
	)`,
	`create index if not exists idx_eco_footprints_user_created on eco_footprints (user_id, created_at desc)`,
	`create index if not exists idx_eco_footprints_created on eco_footprints (created_at)`,
}

func (r *SQLRepository) Migrate(ctx context.Context) error {
	for _, stmt := range schemaSQL {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return storageError("migrate", err)
		}
	}
	return nil
}

type scoreRow struct {
	ID             string         `db:"id"`
	UserID         string         `db:"user_id"`
	TotalScore     int            `db:"total_score"`
	Category       string         `db:"category"`
	Transportation sql.NullInt64  `db:"transportation"`
	Energy         sql.NullInt64  `db:"energy"`
	Diet           sql.NullInt64  `db:"diet"`
	Waste          sql.NullInt64  `db:"waste"`
	Answers        sql.NullString `db:"answers"`
	TableVersion   int            `db:"table_version"`
	CreatedAt      int64          `db:"created_at"`
	UpdatedAt      int64          `db:"updated_at"`
}

func newScoreRow(record *models.ScoreRecord) (scoreRow, error) {
	row := scoreRow{
		ID:           record.ID,
		UserID:       record.UserID,
		TotalScore:   record.TotalScore,
		Category:     string(record.Category),
		TableVersion: record.TableVersion,
		CreatedAt:    record.CreatedAt.UnixNano(),
		UpdatedAt:    record.UpdatedAt.UnixNano(),
	}
	if s := record.Scores; s != nil {
		row.Transportation = sql.NullInt64{Int64: int64(s.Transportation), Valid: true}
		row.Energy = sql.NullInt64{Int64: int64(s.Energy), Valid: true}
		row.Diet = sql.NullInt64{Int64: int64(s.Diet), Valid: true}
		row.Waste = sql.NullInt64{Int64: int64(s.Waste), Valid: true}
	}
	if record.Answers != nil {
		answers, err := json.Marshal(record.Answers)
		if err != nil {
			return scoreRow{}, fmt.Errorf("could not encode answers: %w", err)
		}
		row.Answers = sql.NullString{String: string(answers), Valid: true}
	}
	return row, nil
}

func (row scoreRow) record() (models.ScoreRecord, error) {
	record := models.ScoreRecord{
		ID:           row.ID,
		UserID:       row.UserID,
		TotalScore:   row.TotalScore,
		Category:     scoring.Category(row.Category),
		TableVersion: row.TableVersion,
		CreatedAt:    time.Unix(0, row.CreatedAt).UTC(),
		UpdatedAt:    time.Unix(0, row.UpdatedAt).UTC(),
	}
	if row.Transportation.Valid {
		record.Scores = &scoring.SubScores{
			Transportation: int(row.Transportation.Int64),
			Energy:         int(row.Energy.Int64),
			Diet:           int(row.Diet.Int64),
			Waste:          int(row.Waste.Int64),
		}
	}
	if row.Answers.Valid {
		if err := json.Unmarshal([]byte(row.Answers.String), &record.Answers); err != nil {
			return models.ScoreRecord{}, fmt.Errorf("could not decode answers of %s: %w", row.ID, err)
		}
	}
	return record, nil
}

const insertScoreSQL = `
insert into eco_footprints (
    id, user_id, total_score, category,
    transportation, energy, diet, waste, answers,
    table_version, created_at, updated_at
) values (
    :id, :user_id, :total_score, :category,
    :transportation, :energy, :diet, :waste, :answers,
    :table_version, :created_at, :updated_at
)
`

func (r *SQLRepository) Insert(ctx context.Context, record *models.ScoreRecord) (string, error) {
	record.ID = uuid.New().String()
	record.Prepare()

	row, err := newScoreRow(record)
	if err != nil {
		return "", err
	}
	if _, err = r.db.NamedExecContext(ctx, insertScoreSQL, row); err != nil {
		return "", storageError("insert", errors.Wrap(err, "could not execute insertScoreSQL"))
	}
	return record.ID, nil
}

const selectHistorySQL = `
select id, user_id, total_score, category, transportation, energy, diet, waste,
       answers, table_version, created_at, updated_at
from eco_footprints
where user_id = ?
order by created_at desc, id desc
limit ?
`

func (r *SQLRepository) Latest(ctx context.Context, userID string) (*models.ScoreRecord, error) {
	records, err := r.History(ctx, userID, 1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return &records[0], nil
}

func (r *SQLRepository) History(ctx context.Context, userID string, limit int) ([]models.ScoreRecord, error) {
	var rows []scoreRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(selectHistorySQL), userID, limit); err != nil {
		return nil, storageError("history", errors.Wrap(err, "could not execute selectHistorySQL"))
	}
	records := make([]models.ScoreRecord, 0, len(rows))
	for _, row := range rows {
		record, err := row.record()
		if err != nil {
			return nil, storageError("history", err)
		}
		records = append(records, record)
	}
	return records, nil
}

const selectSummarySQL = `
select user_id, total_score, category, created_at
from eco_footprints
where created_at >= ?
order by created_at, id
`

// Summaries streams the records once through a leaderboard reducer.
func (r *SQLRepository) Summaries(ctx context.Context, since time.Time) ([]leaderboard.Summary, error) {
	var from int64
	if !since.IsZero() {
		from = since.UnixNano()
	}
	rows, err := r.db.QueryxContext(ctx, r.db.Rebind(selectSummarySQL), from)
	if err != nil {
		return nil, storageError("summaries", errors.Wrap(err, "could not execute selectSummarySQL"))
	}
	defer rows.Close()

	reducer := leaderboard.NewReducer()
	for rows.Next() {
		var row scoreRow
		if err = rows.StructScan(&row); err != nil {
			return nil, storageError("summaries", err)
		}
		record, err := row.record()
		if err != nil {
			return nil, storageError("summaries", err)
		}
		reducer.Add(record)
	}
	if err = rows.Err(); err != nil {
		return nil, storageError("summaries", err)
	}
	return reducer.Summaries(), nil
}

func (r *SQLRepository) Ping(ctx context.Context) error {
	return storageError("ping", r.db.PingContext(ctx))
}

func (r *SQLRepository) Close() error {
	return r.db.Close()
}
