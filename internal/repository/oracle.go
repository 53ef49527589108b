package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"property-resolver/internal/models"
	"property-resolver/internal/normalize"

	"github.com/jmoiron/sqlx"
	_ "github.com/sijms/go-ora/v2"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_$#.]*$`)

// OracleConfig holds the connection settings of an Oracle-hosted roll.
type OracleConfig struct {
	Host           string
	Port           string
	Service        string
	Username       string
	Password       string
	WalletLocation string
}

// OracleDSN builds the go-ora connection string for cfg. A wallet location
// switches to mTLS.
func OracleDSN(cfg OracleConfig) string {
	if cfg.WalletLocation != "" {
		return fmt.Sprintf(
			"oracle://%s:%s@%s:%s/%s?ssl=true&wallet_location=%s",
			url.PathEscape(cfg.Username), url.PathEscape(cfg.Password), cfg.Host, cfg.Port, cfg.Service,
			url.PathEscape(cfg.WalletLocation))
	}
	return (&url.URL{
		Scheme:   "oracle",
		User:     url.UserPassword(cfg.Username, cfg.Password),
		Host:     cfg.Host + ":" + cfg.Port,
		Path:     "/" + cfg.Service,
		RawQuery: "ssl=true",
	}).String()
}

// OpenOracle connects to the Oracle database at dsn.
func OpenOracle(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "oracle", dsn)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to connect to oracle: %w", err)
	}
	return db, nil
}

type oracleRow struct {
	PID              sql.NullString `db:"pid"`
	Address          sql.NullString `db:"address"`
	LandValue        sql.NullString `db:"land_value"`
	ImprovementValue sql.NullString `db:"improvement_value"`
	TotalValue       sql.NullString `db:"total_value"`
	LandSqFt         sql.NullString `db:"land_sqft"`
	LandAcres        sql.NullString `db:"land_acres"`
	PropertyClass    sql.NullString `db:"property_class"`
	YearBuilt        sql.NullString `db:"year_built"`
	LivingArea       sql.NullString `db:"living_area"`
}

func (r oracleRow) record() models.RawRecord {
	rec := models.RawRecord{
		ParcelID:         r.PID.String,
		Address:          r.Address.String,
		LandValue:        r.LandValue.String,
		ImprovementValue: r.ImprovementValue.String,
		TotalValue:       r.TotalValue.String,
		PropertyType:     r.PropertyClass.String,
		YearBuilt:        r.YearBuilt.String,
		FloorArea:        r.LivingArea.String,
	}
	switch {
	case strings.TrimSpace(r.LandSqFt.String) != "":
		rec.LotSize = r.LandSqFt.String + " sq ft"
	case strings.TrimSpace(r.LandAcres.String) != "":
		rec.LotSize = r.LandAcres.String + " acres"
	}
	return rec
}

// OracleRoll reads an appraisal-district roll hosted in Oracle, keyed by the
// canonical situs address.
type OracleRoll struct {
	db    *sqlx.DB
	table string
}

// NewOracleRoll creates a roll adapter over table.
func NewOracleRoll(db *sqlx.DB, table string) (*OracleRoll, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("repository: invalid oracle table name %q", table)
	}
	return &OracleRoll{db: db, table: table}, nil
}

func (r *OracleRoll) Name() string            { return "oracle-roll" }
func (r *OracleRoll) Kind() models.SourceKind { return models.KindGovernmentAssessment }

// Lookup matches the canonical situs address within city.
func (r *OracleRoll) Lookup(ctx context.Context, address, city string) (*models.RawRecord, error) {
	query := fmt.Sprintf(`
		SELECT
			Account_Num AS "pid",
			Situs_Address AS "address",
			Land_Value AS "land_value",
			Improvement_Value AS "improvement_value",
			Total_Value AS "total_value",
			Land_SqFt AS "land_sqft",
			Land_Acres AS "land_acres",
			Property_Class AS "property_class",
			Year_Built AS "year_built",
			Living_Area AS "living_area"
		FROM %s
		WHERE UPPER(REPLACE(REPLACE(Situs_Address, ',', ''), '  ', ' ')) = :1
		  AND UPPER(City) = :2
		FETCH FIRST 1 ROWS ONLY
	`, r.table)

	var row oracleRow
	err := r.db.GetContext(ctx, &row, query,
		normalize.CanonicalAddress(address), strings.ToUpper(normalize.CityKey(city)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: failed to query oracle roll: %w", err)
	}

	rec := row.record()
	return &rec, nil
}
