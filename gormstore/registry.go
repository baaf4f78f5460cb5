package gormstore

import (
	"fmt"
	"sync"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DialectorOpener returns a gorm.Dialector for a given DSN.
type DialectorOpener = func(string) gorm.Dialector

var (
	registryMu sync.RWMutex
	openers    = make(map[string]DialectorOpener)
)

// Register adds a database dialect to the registry.
func Register(name string, opener DialectorOpener) {
	registryMu.Lock()
	defer registryMu.Unlock()
	openers[name] = opener
}

func init() {
	Register("sqlite", sqlite.Open)
	Register("postgres", postgres.Open)
	Register("mysql", mysql.Open)
}

// Open connects to the named database, migrates the schema, and returns the
// repository. TranslateError is enabled so unique-index violations surface as
// gorm.ErrDuplicatedKey across dialects.
func Open(name, dsn string) (*Repository, error) {
	registryMu.RLock()
	opener, ok := openers[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("gormstore: unknown database type %q", name)
	}

	db, err := gorm.Open(opener(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("gormstore: open %s: %w", name, err)
	}

	repo := NewRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		return nil, fmt.Errorf("gormstore: migrate: %w", err)
	}

	return repo, nil
}
