package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"FixtureSync/internal/adapter/gemini"
	"FixtureSync/internal/api"
	"FixtureSync/internal/config"
	"FixtureSync/internal/logo"
	"FixtureSync/internal/naming"
	"FixtureSync/internal/repository"
	"FixtureSync/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	// 1. 加载配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("加载配置文件失败: %v", err)
	}

	// 2. 初始化日志
	logrusLogger := logrus.New()
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrusLogger.SetLevel(level)
	logrusLogger.Info("配置文件加载成功")

	ctx := context.Background()

	// 3. 存储：文档库（可选）+ 本地 matches.json 镜像
	document, err := repository.OpenDocumentBackend(ctx, cfg, logrusLogger)
	if err != nil {
		logrusLogger.Fatalf("初始化文档存储失败: %v", err)
	}
	fileStore := repository.NewFileStore(cfg.Storage.MatchesFile, cfg.Storage.ReadOnly, logrusLogger)
	store := repository.NewMirrorStore(document, fileStore, logrusLogger)
	logrusLogger.Infof("比赛数据存储: %s", cfg.Storage.Backend)

	// 4. 队徽查找
	var catalog logo.Catalog = logo.NewDirCatalog(cfg.Logo.Root)
	if cfg.Logo.Watch {
		watched, err := logo.NewWatchedCatalog(cfg.Logo.Root, logrusLogger)
		if err != nil {
			logrusLogger.WithError(err).Warn("监听队徽目录失败，改为每次扫描")
		} else {
			defer watched.Close()
			catalog = watched
		}
	}
	aliases := naming.DefaultTeamAliases
	resolver := logo.NewResolver(catalog, aliases, &cfg.Logo, logrusLogger)

	// 5. 业务服务：加载并规范化后写回一次，确保文档 / 备份存在
	matchService := service.NewMatchService(store, service.NewNormalizer(aliases, resolver), &cfg.Board, logrusLogger)
	if err := matchService.Load(ctx); err != nil {
		logrusLogger.Fatalf("加载比赛数据失败: %v", err)
	}
	if err := matchService.Save(ctx); err != nil {
		logrusLogger.WithError(err).Error("启动同步保存失败")
	} else {
		logrusLogger.Info("启动同步已保存")
	}

	generator := gemini.NewClient(&cfg.Agent, logrusLogger)
	if generator == nil {
		logrusLogger.Warn("GOOGLE_API_KEY 未设置，/agent 不可用")
	}
	agentService := service.NewAgentService(generator, matchService, logrusLogger)

	// 6. 定时规范化
	if cfg.Sync.Cron != "" {
		scheduler, err := service.NewScheduler(cfg.Sync.Cron, matchService, logrusLogger)
		if err != nil {
			logrusLogger.Fatalf("创建定时任务失败: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
		logrusLogger.Infof("定时规范化已启动: %s", cfg.Sync.Cron)
	}

	// 7. 配置Gin运行模式（从配置读取：debug/release）
	gin.SetMode(cfg.Server.Mode)
	r := gin.Default()

	// 注册ppof 方便调试和监测性能问题
	pprof.Register(r)
	if len(cfg.Server.CORSOrigins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = cfg.Server.CORSOrigins
		corsCfg.AddAllowHeaders("x-secret", "x-api-secret")
		r.Use(cors.New(corsCfg))
	}
	logrusLogger.Infof("Gin运行模式: %s", cfg.Server.Mode)

	// 8. 注册路由
	api.RegisterRoutes(r, cfg,
		api.NewMatchHandler(matchService, logrusLogger),
		api.NewAgentHandler(agentService, logrusLogger),
		logrusLogger,
	)

	// 9. 启动服务（从配置读取端口），收到退出信号后优雅关闭
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r,
	}
	go func() {
		logrusLogger.Infof("服务启动成功，端口：%d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrusLogger.Fatalf("启动服务失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrusLogger.Info("正在关闭服务…")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrusLogger.WithError(err).Error("关闭服务失败")
	}
}
