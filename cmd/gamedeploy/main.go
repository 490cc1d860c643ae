package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/sunr3d/gamedeploy/internal/config"
	"github.com/sunr3d/gamedeploy/internal/entrypoint"
	"github.com/sunr3d/gamedeploy/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "ошибка конфигурации:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := entrypoint.Run(cfg, log, os.Args[1:]); err != nil {
		log.Error("ошибка запуска", zap.Error(err))
		log.Sync()
		os.Exit(2)
	}
}
