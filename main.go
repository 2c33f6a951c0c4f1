package main

import (
	"log"
	"net/http"
	"time"

	"lostark_dps/cache"
	"lostark_dps/config"
	"lostark_dps/frontend"
	_ "lostark_dps/share"
	"lostark_dps/skilldb"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %+v", err)
	}

	http.DefaultClient.Timeout = time.Duration(cfg.ClientTimeoutSec) * time.Second
	cache.SetDir(cfg.CacheDir)

	if cfg.SkillTablePath != "" {
		if err := skilldb.LoadSeedTable(cfg.SkillTablePath); err != nil {
			log.Printf("skill table: %v", err)
		}
	}

	g := gin.New()

	frontend.Route(g, cfg)

	g.Run(cfg.Addr)
}
