package router

import (
	"github.com/blues/fgs/internal/config"
	"github.com/blues/fgs/internal/handler"
	"github.com/blues/fgs/internal/ledger"
	"github.com/blues/fgs/internal/service"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Setup 组装路由。client 在 local 模式下为 nil。
func Setup(svc service.Settlement, db *gorm.DB, client *ledger.Client, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		resp := gin.H{
			"status":  "ok",
			"service": "funding-governance-settlement",
			"mode":    cfg.Engine.Mode,
		}
		if client != nil {
			if height, err := client.BlockHeight(c.Request.Context()); err != nil {
				resp["chain"] = "unreachable"
			} else {
				resp["chain"] = "ok"
				resp["block_height"] = height
			}
		}
		c.JSON(200, resp)
	})

	// API版本组
	v1 := r.Group("/api/v1")
	{
		// 项目相关路由
		projectHandler := handler.NewProjectHandler(svc, db)
		projects := v1.Group("/projects")
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("/:id", projectHandler.GetProject)
			projects.POST("/:id/fund", projectHandler.FundProject)
			projects.POST("/:id/release", projectHandler.ReleaseFunds)
			projects.GET("/:id/contributions", projectHandler.GetProjectContributions)
			projects.GET("/:id/stats", projectHandler.GetProjectStats)
		}

		// 投票相关路由
		votingHandler := handler.NewVotingHandler(svc, db)
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", votingHandler.CreateSession)
			sessions.GET("/:id", votingHandler.GetSession)
			sessions.POST("/:id/vote", votingHandler.Vote)
			sessions.POST("/:id/finalize", votingHandler.FinalizeSession)
			sessions.GET("/:id/votes", votingHandler.GetSessionVotes)
		}

		// 交易相关路由
		txHandler := handler.NewTransactionHandler(db)
		v1.GET("/transactions/pending", txHandler.GetPendingTransactions)

		// local模式专有：余额由铸币进入账本
		if local, ok := svc.(*service.LocalSettlement); ok {
			tokenHandler := handler.NewTokenHandler(local)
			v1.POST("/admin/mint", tokenHandler.Mint)
			v1.GET("/accounts/:address/balance", tokenHandler.GetBalance)
		}
	}

	return r
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
