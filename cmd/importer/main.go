package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"property-resolver/internal/config"
	"property-resolver/internal/logging"
	"property-resolver/internal/normalize"
	"property-resolver/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// RollRecord is one row of a government assessment-roll export.
type RollRecord struct {
	PID              string
	Address          string
	City             string
	LandValue        *float64
	ImprovementValue *float64
	TotalValue       *float64
	LotSize          string
	Zoning           string
	PropertyType     string
	YearBuilt        *int32
	FloorArea        *float64
	LegalDescription string
}

var requiredColumns = []string{"address", "city"}

var rollColumns = []string{
	"pid", "address", "city", "city_key", "land_value", "improvement_value", "total_value",
	"lot_size", "zoning", "property_type", "year_built", "floor_area", "legal_description",
}

func main() {
	file := flag.String("file", "", "Path to the assessment roll CSV file to import")
	replace := flag.Bool("replace", false, "Delete existing rows for the cities in the file first")
	flag.Parse()

	if *file == "" {
		fmt.Println("Error: --file flag is required")
		os.Exit(1)
	}

	// Load config
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	if err := logging.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatal().Err(err).Msg("cannot set up logging")
	}
	if cfg.DBSource == "" {
		log.Fatal().Msg("DB_SOURCE is not set")
	}

	log.Info().Str("file", *file).Msg("starting import")

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot open file")
	}
	defer f.Close()

	records, err := parseCSV(f)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot parse CSV")
	}
	log.Info().Int("records", len(records)).Msg("parsed")

	ctx := context.Background()

	// Connect to DB
	conn, err := pgx.Connect(ctx, cfg.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to database")
	}
	defer conn.Close(ctx)

	if err := repository.EnsureSchema(ctx, conn); err != nil {
		log.Fatal().Err(err).Msg("cannot create table")
	}

	if *replace {
		deleted, err := deleteCities(ctx, conn, records)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot delete existing rows")
		}
		log.Info().Int64("deleted", deleted).Msg("existing rows removed")
	}

	before, err := countRows(ctx, conn)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot count rows")
	}

	copied, err := insertRecords(ctx, conn, records)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot insert records")
	}

	// Verify data
	after, err := countRows(ctx, conn)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot count rows")
	}
	if after-before != copied {
		log.Fatal().Int64("expected", copied).Int64("got", after-before).Msg("record count mismatch")
	}

	log.Info().Int64("records", copied).Msg("import finished")
}

// parseCSV reads a roll export with a header row. Columns are matched by
// name, case-insensitively; address and city are required.
func parseCSV(r io.Reader) ([]RollRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := index[c]; !ok {
			return nil, fmt.Errorf("missing required column %q", c)
		}
	}

	var records []RollRecord
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read record on line %d: %w", line, err)
		}

		get := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		rec := RollRecord{
			PID:              get("pid"),
			Address:          normalize.CanonicalAddress(get("address")),
			City:             get("city"),
			LandValue:        money(get("land_value")),
			ImprovementValue: money(get("improvement_value")),
			TotalValue:       money(get("total_value")),
			LotSize:          get("lot_size"),
			Zoning:           get("zoning"),
			PropertyType:     get("property_type"),
			FloorArea:        area(get("floor_area")),
			LegalDescription: get("legal_description"),
		}
		if rec.Address == "" || rec.City == "" {
			return nil, fmt.Errorf("line %d: address and city are required", line)
		}
		if y := int32(normalize.ParseNumber(get("year_built"))); y > 0 {
			rec.YearBuilt = &y
		}
		records = append(records, rec)
	}
	return records, nil
}

func money(s string) *float64 {
	if v := normalize.ParseCurrency(s); v > 0 {
		return &v
	}
	return nil
}

func area(s string) *float64 {
	if v := normalize.ParseLotSize(s); v > 0 {
		return &v
	}
	return nil
}

func rowValues(r RollRecord) []any {
	return []any{
		r.PID, r.Address, r.City, normalize.CityKey(r.City),
		r.LandValue, r.ImprovementValue, r.TotalValue,
		r.LotSize, r.Zoning, r.PropertyType, r.YearBuilt, r.FloorArea, r.LegalDescription,
	}
}

func insertRecords(ctx context.Context, conn *pgx.Conn, records []RollRecord) (int64, error) {
	// Use CopyFrom for bulk insert
	return conn.CopyFrom(
		ctx,
		pgx.Identifier{"assessment_roll"},
		rollColumns,
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			return rowValues(records[i]), nil
		}),
	)
}

func deleteCities(ctx context.Context, conn *pgx.Conn, records []RollRecord) (int64, error) {
	seen := make(map[string]bool)
	var keys []string
	for _, r := range records {
		k := normalize.CityKey(r.City)
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	tag, err := conn.Exec(ctx, "DELETE FROM assessment_roll WHERE city_key = ANY($1)", keys)
	if err != nil {
		return 0, fmt.Errorf("failed to delete rows: %w", err)
	}
	return tag.RowsAffected(), nil
}

func countRows(ctx context.Context, conn *pgx.Conn) (int64, error) {
	var count int64
	if err := conn.QueryRow(ctx, "SELECT COUNT(*) FROM assessment_roll").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}
