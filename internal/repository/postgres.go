package repository

import (
	"context"
	"fmt"
	"strings"

	"property-resolver/internal/models"
	"property-resolver/internal/normalize"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the assessment roll table loaded by the importer.
const Schema = `
CREATE TABLE IF NOT EXISTS assessment_roll (
	id BIGSERIAL PRIMARY KEY,
	pid VARCHAR(32),
	address VARCHAR(255) NOT NULL,
	city VARCHAR(128) NOT NULL,
	city_key VARCHAR(128) NOT NULL,
	land_value NUMERIC(14, 2),
	improvement_value NUMERIC(14, 2),
	total_value NUMERIC(14, 2),
	lot_size VARCHAR(64),
	zoning VARCHAR(32),
	property_type VARCHAR(64),
	year_built INTEGER,
	floor_area NUMERIC(10, 2),
	legal_description TEXT,
	address_tsvector TSVECTOR GENERATED ALWAYS AS (
		to_tsvector('simple', address)
	) STORED
);
CREATE INDEX IF NOT EXISTS assessment_roll_city_key_idx ON assessment_roll (city_key);
CREATE INDEX IF NOT EXISTS assessment_roll_address_tsvector_idx ON assessment_roll USING GIN (address_tsvector);
`

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// EnsureSchema creates the assessment roll table if it does not exist.
func EnsureSchema(ctx context.Context, db execer) error {
	if _, err := db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("repository: failed to create schema: %w", err)
	}
	return nil
}

// PostgresRoll reads a locally loaded assessment roll from PostgreSQL.
type PostgresRoll struct {
	db *pgxpool.Pool
}

// NewPostgresRoll creates a roll adapter over db
func NewPostgresRoll(db *pgxpool.Pool) *PostgresRoll {
	return &PostgresRoll{db: db}
}

func (r *PostgresRoll) Name() string            { return "postgres-roll" }
func (r *PostgresRoll) Kind() models.SourceKind { return models.KindGovernmentAssessment }

// Lookup runs a full-text search on the roll restricted to city and returns
// the best-ranked row whose address matches.
func (r *PostgresRoll) Lookup(ctx context.Context, address, city string) (*models.RawRecord, error) {
	want := normalize.ParseAddress(address, city)
	if want.HouseNumber == "" || len(want.Street) == 0 {
		return nil, nil
	}
	terms := strings.Join(append([]string{want.HouseNumber}, want.Street...), " ")

	sql := `
		SELECT
			COALESCE(pid, ''),
			address,
			COALESCE(land_value::text, ''),
			COALESCE(improvement_value::text, ''),
			COALESCE(total_value::text, ''),
			COALESCE(lot_size, ''),
			COALESCE(zoning, ''),
			COALESCE(property_type, ''),
			COALESCE(year_built::text, ''),
			COALESCE(floor_area::text, ''),
			COALESCE(legal_description, '')
		FROM assessment_roll
		WHERE city_key = $2
		  AND address_tsvector @@ plainto_tsquery('simple', $1)
		ORDER BY ts_rank(address_tsvector, plainto_tsquery('simple', $1)) DESC, id
		LIMIT 10
	`

	rows, err := r.db.Query(ctx, sql, terms, normalize.CityKey(city))
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute roll query: %w", err)
	}
	defer rows.Close()

	var candidates []models.RawRecord
	for rows.Next() {
		var rec models.RawRecord
		err := rows.Scan(
			&rec.ParcelID,
			&rec.Address,
			&rec.LandValue,
			&rec.ImprovementValue,
			&rec.TotalValue,
			&rec.LotSize,
			&rec.Zoning,
			&rec.PropertyType,
			&rec.YearBuilt,
			&rec.FloorArea,
			&rec.LegalDescription,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan roll row: %w", err)
		}
		candidates = append(candidates, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	for _, rec := range candidates {
		if normalize.MatchAddress(address, city, rec.Address) {
			return &rec, nil
		}
	}
	return nil, nil
}

// Count returns the number of rows in the roll.
func (r *PostgresRoll) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM assessment_roll").Scan(&n); err != nil {
		return 0, fmt.Errorf("repository: failed to count roll: %w", err)
	}
	return n, nil
}
