package main

import (
	"os"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/events"
	"app/internal/handler"
	"app/internal/infra/db"
	"app/internal/infra/media"
	"app/internal/infra/redisx"
	infraRepo "app/internal/infra/repository"
	"app/internal/logger"
	"app/internal/server"
	"app/internal/usecase"

	"github.com/joho/godotenv"
)

func main() {
	//.envは無くてもよい（コンテナでは環境変数を直接渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.GoEnv)

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		panic(err)
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Order{},
		&model.Tag{},
	); err != nil {
		panic(err)
	}

	//採番用Redis
	rdb, err := redisx.New(cfg.RedisAddr)
	if err != nil {
		panic(err)
	}

	//Repository（GORM実装）生成
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	tagRepo := infraRepo.NewTagGormRepository(gormDB)
	seq := infraRepo.NewSequenceRedis(rdb)

	uploader := media.NewStaticUploader(getenv("MEDIA_BASE_URL", "http://localhost:"+cfg.Port))

	//注文イベント（ブローカー未設定なら発行なし）
	var publisher usecase.OrderEventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		p := events.NewPublisher(cfg.KafkaBrokers, log)
		defer p.Close()
		publisher = p
	} else {
		log.Warn("KAFKA_BROKERS not set, order events disabled")
	}

	//Usecase生成
	tagUC := usecase.NewTagUsecase(tagRepo)
	productUC := usecase.NewProductUsecase(productRepo, tagUC, uploader)
	orderUC := usecase.NewOrderUsecase(orderRepo, productRepo, userRepo, seq, tagUC, uploader, publisher, log)
	authUC := usecase.NewAuthUsecase(cfg, userRepo)
	userUC := usecase.NewUserUsecase(userRepo)

	//Handler生成
	authH := handler.NewAuthHandler(authUC)
	productH := handler.NewProductHandler(productUC)
	orderH := handler.NewOrderHandler(orderUC)
	userH := handler.NewUserHandler(userUC)
	tagH := handler.NewTagHandler(tagUC)

	//Server起動
	e := server.New(cfg, log, authH, productH, orderH, userH, tagH)

	addr := ":" + cfg.Port
	if cfg.Port[0] == ':' {
		addr = cfg.Port
	}

	log.Info("starting server", "addr", addr)
	if err := e.Start(addr); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
