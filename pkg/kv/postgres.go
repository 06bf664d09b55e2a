package kv

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Snapshot is the single table backing the postgres driver: one row per
// key, the whole JSON document in the doc column.
type Snapshot struct {
	Key       string    `gorm:"primaryKey;column:key"`
	Doc       []byte    `gorm:"column:doc;type:jsonb"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// PostgresStore persists snapshots in a snapshots table via gorm.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore opens a connection with retries and migrates the
// snapshots table.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Error),
	}

	var db *gorm.DB
	var err error
	retries := 5
	delay := 5 * time.Second

	for i := 0; i < retries; i++ {
		db, err = gorm.Open(postgres.Open(dsn), gormConfig)
		if err == nil {
			break
		}
		time.Sleep(delay)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d retries: %w", retries, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&Snapshot{}); err != nil {
		return nil, fmt.Errorf("failed to migrate snapshots table: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Get(key string) ([]byte, error) {
	var snap Snapshot
	result := s.db.First(&snap, "key = ?", key)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return snap.Doc, nil
}

func (s *PostgresStore) Put(key string, doc []byte) error {
	snap := Snapshot{Key: key, Doc: doc, UpdatedAt: time.Now()}
	return s.db.Save(&snap).Error
}

func (s *PostgresStore) Delete(key string) error {
	return s.db.Delete(&Snapshot{}, "key = ?", key).Error
}

func (s *PostgresStore) List(prefix string) ([]string, error) {
	var keys []string
	result := s.db.Model(&Snapshot{}).
		Where("key LIKE ?", prefix+"%").
		Pluck("key", &keys)
	return keys, result.Error
}

func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
