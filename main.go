package main

import (
	"github.com/bootcampcrew/admissions_service/config"
	"github.com/bootcampcrew/admissions_service/internal/api"
)

func main() {
	cfg := config.LoadConfig()
	api.StartServer(cfg)
}
