package webserver

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/campusimpact/govdash/src/api/config"
	"github.com/campusimpact/govdash/src/api/data"
	"github.com/campusimpact/govdash/src/api/discord"
	"github.com/campusimpact/govdash/src/api/gateway"
)

func New(cfg config.Config, db *gorm.DB, rdb *redis.Client, announcer *discord.Announcer) *gin.Engine {
	g := gin.New()
	g.Use(gin.Logger(), gin.Recovery())
	attachRoutes(g, cfg, db, rdb, announcer)
	return g
}

func attachRoutes(r *gin.Engine, cfg config.Config, db *gorm.DB, rdb *redis.Client, announcer *discord.Announcer) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	gw := gateway.New(db)
	settings := data.NewSettings(db)

	authH := NewAuth(rdb, []byte(cfg.JWTSecret), []byte(cfg.WalletCallbackSecret))
	propH := NewProposals(gw, rdb, announcer)
	voteH := NewVotes(gw, rdb)
	treasuryH := NewTreasury(gw, settings)

	voteLimiter := NewRateLimiter(10, time.Minute)

	v1 := r.Group("/v1")
	{
		v1.POST("/auth/challenge", authH.Challenge)
		v1.POST("/auth/confirm", authH.Confirm)
		v1.POST("/auth/verify", authH.Verify)

		v1.GET("/proposals", propH.List)
		v1.GET("/proposals/:id", propH.Get)
		v1.GET("/votes/:id", voteH.Summary)
		v1.GET("/treasury", treasuryH.Summary)

		secured := v1.Use(JWTMiddleware([]byte(cfg.JWTSecret)))
		secured.POST("/proposals", propH.Submit)
		secured.POST("/votes", RateLimitMiddleware(voteLimiter), voteH.Cast)
	}
}
