package main

import (
	"flag"
	"log"
	"net/http"

	"github.com/vividhneo/dailytasksv3/internal/config"
	"github.com/vividhneo/dailytasksv3/internal/serverapp"
)

func main() {
	configPath := flag.String("config", "dailytasks.yml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	config.ApplyEnv(cfg)

	app, err := serverapp.New(serverapp.Options{
		Config: cfg,
		Logger: log.Default(),
	})
	if err != nil {
		log.Fatalf("build server: %v", err)
	}

	if err := app.Start(); err != nil {
		log.Fatalf("start rollover engine: %v", err)
	}
	defer app.Stop()

	log.Printf("dailytasks listening on %s", cfg.Server.Addr)
	log.Fatal(http.ListenAndServe(cfg.Server.Addr, app.Handler))
}
