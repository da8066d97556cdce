package main

import (
	"stylebook/config"
	"stylebook/di"
	"stylebook/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	http := di.InitializeService()
	http.Serve()
}
