// Package sqlrepo implements the repository contracts on gorm, over
// PostgreSQL in production and SQLite for local runs and tests.
package sqlrepo

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"storyfusion/internal/model"
	"storyfusion/internal/repository"
)

// Open connects with the named driver ("postgres" or "sqlite")
func Open(driver, dsn string, quiet bool) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	if quiet {
		gormLog = gormLogger.Default.LogMode(gormLogger.Silent)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}
	if driver == "sqlite" {
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
		}
	}
	return db, nil
}

// NewStore wires every gorm repository over db. Close releases the pool.
func NewStore(db *gorm.DB) *repository.Store {
	s := repository.NewStore(func(context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})
	s.Answers = NewAnswerRepo(db)
	s.WorkComments = NewWorkCommentRepo(db)
	s.QuestionComments = NewQuestionCommentRepo(db)
	s.Predictions = NewPredictionRepo(db)
	s.WorkNouns = NewNounRepo(db, model.NounSubjectWork)
	s.FictionNouns = NewNounRepo(db, model.NounSubjectFiction)
	return s
}
