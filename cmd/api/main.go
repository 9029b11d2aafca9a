package main

import (
	"log"
	"net/http"

	"hrcraft/internal/api"
	"hrcraft/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()
	h := api.NewServer(cfg)
	log.Printf("hrcraft api listening on %s backends=%q environment=%s", cfg.APIAddr, cfg.Backends, cfg.Environment)
	if err := http.ListenAndServe(cfg.APIAddr, h.Routes()); err != nil {
		log.Fatal(err)
	}
}
