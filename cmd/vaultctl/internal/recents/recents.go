// Package recents implements vaultctl's local "recently opened vaults"
// registry: a single-user, single-machine sqlite table that never leaves
// the local filesystem (SPEC_FULL §4.8). It is CLI-only ambient state, not
// part of the vaultfile data model and never written into a vault file.
package recents

import (
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Entry is one row of the recent-vaults table.
type Entry struct {
	ID          uint   `gorm:"primarykey"`
	Path        string `gorm:"uniqueIndex"`
	DisplayName string
	LastOpened  time.Time
}

// Registry wraps the gorm/sqlite handle backing the recent-vaults table.
type Registry struct {
	db *gorm.DB
}

// Open opens (creating if necessary) the sqlite database at path and
// migrates the Entry table.
func Open(path string) (*Registry, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, err
	}
	return &Registry{db: db}, nil
}

// Touch records vaultPath as just opened, inserting or updating its row
// and refreshing LastOpened to now.
func (r *Registry) Touch(vaultPath string) error {
	entry := Entry{
		Path:        vaultPath,
		DisplayName: filepath.Base(vaultPath),
		LastOpened:  time.Now(),
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "path"}},
		DoUpdates: clause.AssignmentColumns([]string{"display_name", "last_opened"}),
	}).Create(&entry).Error
}

// List returns the n most recently opened vaults, most recent first.
func (r *Registry) List(n int) ([]Entry, error) {
	var entries []Entry
	q := r.db.Order("last_opened DESC")
	if n > 0 {
		q = q.Limit(n)
	}
	if err := q.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Close releases the underlying sqlite connection.
func (r *Registry) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
