package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pageza/recipe-api/backend/config"
	"github.com/pageza/recipe-api/backend/internal/database"
	"github.com/pageza/recipe-api/backend/internal/logging"
)

// appContext holds what every subcommand needs. It is filled in by the root
// command's PersistentPreRunE.
type appContext struct {
	cfg *config.Config
	log *logrus.Logger
	db  *gorm.DB
}

func (a *appContext) init() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log, err := logging.New(cfg.LogLevel, false)
	if err != nil {
		return err
	}
	db, err := database.New(cfg, log)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = log
	a.db = db
	return nil
}
