// seed 用本地 matches.json 覆盖文档库中的比赛数据
package main

import (
	"context"
	"log"
	"time"

	"FixtureSync/internal/config"
	"FixtureSync/internal/repository"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("加载配置文件失败: %v", err)
	}
	logger := logrus.New()
	ctx := context.Background()

	store, err := repository.OpenDocumentBackend(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("初始化文档存储失败: %v", err)
	}
	if store == nil {
		logger.Fatal("文档存储未配置，请把 storage.backend 设为 postgres 或 dynamodb")
	}

	data, err := repository.ReadSeedFile(cfg.Storage.MatchesFile, time.Now())
	if err != nil {
		logger.Fatalf("读取种子数据失败: %v", err)
	}
	if err := store.Save(ctx, data); err != nil {
		logger.Fatalf("写入文档存储失败: %v", err)
	}
	logger.Infof("文档存储已用 %d 场比赛覆盖", len(data.Matches))
}
