package database

/*
	The audit trail lives in sqlite via gorm, separate from the flat-file
	threat stores. The CSV files stay the system of record for threat data;
	this "data store" only keeps the per-write ingest history.
*/

import (
	"github.com/sweets9/SOC-ThreatViz/internal/database/models"
	"github.com/sweets9/SOC-ThreatViz/internal/util"

	"gorm.io/driver/sqlite" // Sqlite driver based on CGO
	"gorm.io/gorm"
)

// DataStore wraps a gorm table with the handful of operations the rest of the
// system needs. One store per model.
type DataStore[T any] struct {
	db   *gorm.DB
	name string
}

func (s *DataStore[T]) Name() string {
	return s.name
}

// InitAuditDB opens (creating if needed) the audit database at the given path
// and automigrates the audit model.
func InitAuditDB(path string, config ...gorm.Config) (*gorm.DB, error) {
	dbConf := gorm.Config{}
	if c := len(config); c != 0 {
		dbConf = config[0]
	}
	util.PrintInfo("Initializing audit database...")
	return InitDB(path, dbConf, models.GetModels()...)
}

// InitDB opens the database at the given path and automigrates the given tables
func InitDB(path string, conf gorm.Config, tables ...interface{}) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &conf)
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(tables...); err != nil {
		return nil, err
	}

	db = db.Session(&gorm.Session{CreateBatchSize: 100})

	return db, nil
}

// NewDataStore binds a typed store to a table in the given database
func NewDataStore[StoreType any](db *gorm.DB, name string) (*DataStore[StoreType], error) {
	store := &DataStore[StoreType]{db: db, name: name}
	var instance StoreType
	if err := db.AutoMigrate(&instance); err != nil {
		return nil, err
	}
	return store, nil
}

// Insert writes one record
func (s *DataStore[T]) Insert(rec T) error {
	result := s.db.Create(&rec)
	return result.Error
}

// Recent returns the newest records, most recent first
func (s *DataStore[T]) Recent(limit int) ([]T, error) {
	var out []T
	result := s.db.Order("created_at DESC").Limit(limit).Find(&out)
	return out, result.Error
}

// Count returns the number of stored records
func (s *DataStore[T]) Count() (int64, error) {
	var instance T
	var count int64
	result := s.db.Model(&instance).Count(&count)
	return count, result.Error
}
