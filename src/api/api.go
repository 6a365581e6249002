package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"github.com/campusimpact/govdash/src/api/config"
	"github.com/campusimpact/govdash/src/api/data"
	"github.com/campusimpact/govdash/src/api/discord"
	"github.com/campusimpact/govdash/src/api/gateway"
	"github.com/campusimpact/govdash/src/api/reconciler"
	"github.com/campusimpact/govdash/src/api/types"
	"github.com/campusimpact/govdash/src/api/webserver"
)

var allModels = []interface{}{
	&types.Proposal{}, &types.Milestone{},
	&types.Vote{}, &types.Transaction{}, &types.Setting{},
}

func migrate(db *gorm.DB) {
	if err := db.AutoMigrate(allModels...); err != nil {
		log.Fatalf("migrate: %v", err)
	}
}

func seedSettings(db *gorm.DB, cfg config.Config) {
	settings := data.NewSettings(db)
	if _, err := settings.Get(data.SettingTreasuryBalance); err != nil {
		if err := settings.Seed(data.SettingTreasuryBalance, cfg.TreasuryBalance); err != nil {
			log.Fatalf("seed treasury balance: %v", err)
		}
	}
	if _, err := settings.Get(data.SettingCurrencyPrefix); err != nil {
		if err := settings.Seed(data.SettingCurrencyPrefix, cfg.CurrencyPrefix); err != nil {
			log.Fatalf("seed currency prefix: %v", err)
		}
	}
}

func main() {
	cfg := config.Load()

	db := data.MustMySQL(cfg.MySQLDSN)
	migrate(db)
	seedSettings(db, cfg)

	rdb := data.MustRedis(cfg.RedisURL)

	announcer, err := discord.NewAnnouncer(cfg.DiscordToken, cfg.DiscordChannelID)
	if err != nil {
		log.Printf("discord disabled: %v", err)
	}
	defer announcer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gw := gateway.New(db)
	go reconciler.New(db, gw, rdb, announcer).Start(ctx, cfg.ReconcileInterval)

	router := webserver.New(cfg, db, rdb, announcer)
	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()
	log.Printf("GovDash API listening on %s", cfg.Port)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	cancel()

	shutCtx, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()
	_ = httpSrv.Shutdown(shutCtx)
}
