package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blues/fgs/internal/config"
	"github.com/blues/fgs/internal/database"
	"github.com/blues/fgs/internal/engine"
	"github.com/blues/fgs/internal/ledger"
	"github.com/blues/fgs/internal/logger"
	"github.com/blues/fgs/internal/monitor"
	"github.com/blues/fgs/internal/router"
	"github.com/blues/fgs/internal/scheduler"
	"github.com/blues/fgs/internal/service"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化日志
	if err := logger.Init(cfg.Log); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// 初始化数据库
	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	// 按运行模式组装结算服务
	var (
		svc    service.Settlement
		client *ledger.Client
		mon    *monitor.EventMonitor
	)

	switch cfg.Engine.Mode {
	case "chain":
		client, err = ledger.Dial(cfg.Chain)
		if err != nil {
			logger.Fatal("Failed to connect to chain: %v", err)
		}
		defer client.Close()

		contract, err := ledger.NewContract(client, cfg.Chain.Contract)
		if err != nil {
			logger.Fatal("Failed to load contract: %v", err)
		}

		svc = service.NewChainSettlement(contract, db)

		mon, err = monitor.NewEventMonitor(client, contract, db, cfg.Monitor)
		if err != nil {
			logger.Fatal("Failed to create event monitor: %v", err)
		}
		if err := mon.Start(); err != nil {
			logger.Fatal("Failed to start event monitor: %v", err)
		}
		defer mon.Stop()

	case "local":
		eng, cap := engine.New(engine.NewMemoryStore(), engine.NewTokenBook(), engine.SystemClock(), engine.SinkFunc(func(ev engine.Event) {
			logger.Info("Engine event: %s", ev.EventName())
		}))
		if err := service.ApplyGenesis(eng, cap, cfg.Engine.Genesis); err != nil {
			logger.Fatal("Failed to apply genesis balances: %v", err)
		}
		svc = service.NewLocalSettlement(eng, cap, cfg.Engine.Admin, db)

	default:
		logger.Fatal("Unknown engine mode: %s", cfg.Engine.Mode)
	}

	// 启动定时任务
	mgr, err := scheduler.NewManager(db, client, svc, cfg)
	if err != nil {
		logger.Fatal("Failed to create task manager: %v", err)
	}
	mgr.Start()
	defer mgr.Stop()

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router.Setup(svc, db, client, cfg),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server starting on port %s (mode=%s)", cfg.Server.Port, cfg.Engine.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server exited with error: %v", err)
		os.Exit(1)
	}
	logger.Info("Server stopped")
}
