package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/couchcryptid/methane-leak-etl/internal/domain"
)

// Store is the persistence gateway for the methane leak schema. It owns
// schema creation and enforces the insert-if-absent write discipline: a
// duplicate key is a skip, never an error.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the sqlite database at path, migrates the
// schema, and seeds the reference tables.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	s := &Store{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	if err := s.seed(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	err := s.db.AutoMigrate(
		&UtilityProvider{},
		&City{},
		&Photo{},
		&Measurement{},
		&Volunteer{},
	)
	if err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// LoadBatch inserts transformed observations, skipping rows whose timestamp
// is already present. It implements pipeline.BatchLoader.
func (s *Store) LoadBatch(ctx context.Context, batch []domain.Observation) (inserted, skipped int, err error) {
	for _, obs := range batch {
		m := measurementFromObservation(obs)
		res := s.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "timestamp"}},
				DoNothing: true,
			}).
			Create(&m)
		if res.Error != nil {
			return inserted, skipped, fmt.Errorf("insert measurement: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			s.logger.Info("skipping duplicate measurement", "timestamp", obs.Timestamp)
			skipped++
			continue
		}
		inserted++
	}
	return inserted, skipped, nil
}

// HasPhoto reports whether a photo with the given identifier is already stored.
func (s *Store) HasPhoto(ctx context.Context, photoID string) (bool, error) {
	var p Photo
	err := s.db.WithContext(ctx).
		Select("photo_id").
		Where("photo_id = ?", photoID).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("check photo %s: %w", photoID, err)
	}
	return true, nil
}

// PutPhoto stores photo bytes under the given identifier if absent. Returns
// false when the identifier already existed.
func (s *Store) PutPhoto(ctx context.Context, photoID string, data []byte) (bool, error) {
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&Photo{PhotoID: photoID, Photo: data})
	if res.Error != nil {
		return false, fmt.Errorf("insert photo %s: %w", photoID, res.Error)
	}
	if res.RowsAffected == 0 {
		s.logger.Info("skipping duplicate photo", "photo_id", photoID)
		return false, nil
	}
	return true, nil
}

// ObservationsByCity returns all measurements recorded for a city.
func (s *Store) ObservationsByCity(ctx context.Context, city string) ([]domain.Observation, error) {
	var ms []Measurement
	err := s.db.WithContext(ctx).
		Where("city = ?", city).
		Order("timestamp ASC").
		Find(&ms).Error
	if err != nil {
		return nil, fmt.Errorf("load measurements for %s: %w", city, err)
	}

	obs := make([]domain.Observation, len(ms))
	for i, m := range ms {
		obs[i] = m.toObservation()
	}
	return obs, nil
}

// PhotoBlobs returns all stored photos keyed by identifier.
func (s *Store) PhotoBlobs(ctx context.Context) (map[string][]byte, error) {
	var photos []Photo
	if err := s.db.WithContext(ctx).Find(&photos).Error; err != nil {
		return nil, fmt.Errorf("load photos: %w", err)
	}

	blobs := make(map[string][]byte, len(photos))
	for _, p := range photos {
		blobs[p.PhotoID] = p.Photo
	}
	return blobs, nil
}

// Cities returns the distinct city names present in the measurements table.
func (s *Store) Cities(ctx context.Context) ([]string, error) {
	var cities []string
	err := s.db.WithContext(ctx).
		Model(&Measurement{}).
		Distinct().
		Order("city ASC").
		Pluck("city", &cities).Error
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	return cities, nil
}

// Stats summarizes the ingested data for the HTTP stats endpoint.
func (s *Store) Stats(ctx context.Context) (map[string]any, error) {
	var measurements, leaks, photos int64
	db := s.db.WithContext(ctx)

	if err := db.Model(&Measurement{}).Count(&measurements).Error; err != nil {
		return nil, fmt.Errorf("count measurements: %w", err)
	}
	if err := db.Model(&Measurement{}).Where("leak = ?", true).Count(&leaks).Error; err != nil {
		return nil, fmt.Errorf("count leaks: %w", err)
	}
	if err := db.Model(&Photo{}).Count(&photos).Error; err != nil {
		return nil, fmt.Errorf("count photos: %w", err)
	}
	cities, err := s.Cities(ctx)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"measurements": measurements,
		"leaks":        leaks,
		"photos":       photos,
		"cities":       cities,
	}, nil
}

// Query runs a free-form SQL statement and returns column names plus rows,
// every value rendered as text. Diagnostics only; the pipeline itself never
// uses it.
func (s *Store) Query(ctx context.Context, query string) ([]string, [][]string, error) {
	rows, err := s.db.WithContext(ctx).Raw(query).Rows()
	if err != nil {
		return nil, nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("read columns: %w", err)
	}

	var out [][]string
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("scan row: %w", err)
		}

		rec := make([]string, len(cols))
		for i, v := range raw {
			switch val := v.(type) {
			case nil:
				rec[i] = "NULL"
			case []byte:
				rec[i] = fmt.Sprintf("<%d bytes>", len(val))
			default:
				rec[i] = fmt.Sprintf("%v", val)
			}
		}
		out = append(out, rec)
	}
	return cols, out, rows.Err()
}
