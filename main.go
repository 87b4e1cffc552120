// @title Murder Mystery 章节闯关 API
// @version 1.0
// @description 章节解锁、限时挑战、计分与排行榜。

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"flag"
	"log"

	"github.com/Navaneeth433/Murdermystery/internal/app"
	"github.com/Navaneeth433/Murdermystery/internal/config"
	"github.com/Navaneeth433/Murdermystery/pkg/logger"

	"github.com/joho/godotenv"
)

const configDir = "configs"

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	watch := flag.Bool("watch-config", true, "配置文件变化时热更新计分策略")
	flag.Parse()

	// .env 可选
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if *migrateOnly {
		logger.Log.Info("数据库迁移完成，退出程序")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if *watch {
		application.WatchConfig(ctx, configDir)
	}

	application.Run()
}
