package main

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lektor-lms/lektor/config"
	"github.com/lektor-lms/lektor/db"
	"github.com/lektor-lms/lektor/permission"
	"github.com/lektor-lms/lektor/routes"
)

func main() {
	logger := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("config")
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	gdb, err := db.Open(cfg)
	if err != nil {
		logger.WithError(err).Fatal("database")
	}
	defer gdb.Close()

	if err := db.AutoMigrate(gdb); err != nil {
		logger.WithError(err).Fatal("migrate")
	}

	server := &routes.Server{
		DB:       gdb,
		Registry: permission.NewRegistry(),
		Logger:   logger,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	routes.AddRoutes(r, server, []byte(cfg.JWTSecret))

	logger.WithField("addr", cfg.ListenAddr).Info("listening")
	if err := r.Run(cfg.ListenAddr); err != nil {
		logger.WithError(err).Fatal("server")
	}
}
