package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/qrtable/restaurant-pos/internal/audit"
	"github.com/qrtable/restaurant-pos/internal/config"
	"github.com/qrtable/restaurant-pos/internal/database"
	"github.com/qrtable/restaurant-pos/internal/handler"
	"github.com/qrtable/restaurant-pos/internal/repository"
	"github.com/qrtable/restaurant-pos/internal/router"
	"github.com/qrtable/restaurant-pos/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set env directly
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	tableRepo := repository.NewTableRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	itemRepo := repository.NewOrderItemRepo(db)
	menuRepo := repository.NewMenuItemRepo(db)
	assignmentRepo := repository.NewAssignmentRepo(db)
	staffRepo := repository.NewStaffRepo(db)
	auditRepo := repository.NewAuditRepo(db)

	// The audit channel is best-effort: without a broker the recorder is
	// a no-op and every primary operation still works.
	var recorder audit.Recorder = audit.Noop{}
	if cfg.AMQPURL != "" {
		recorder = audit.NewPublisher(cfg.AMQPURL)
		go audit.StartConsumer(cfg.AMQPURL, auditRepo)
	} else {
		log.Printf("RABBITMQ_URL not set; audit trail disabled")
	}

	orders := service.NewOrderService(db, tableRepo, orderRepo, itemRepo, assignmentRepo, recorder)

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unreachable; rate limiting and menu cache disabled")
	}

	e := echo.New()
	router.Register(e, router.Deps{
		Auth:      handler.NewAuthHandler(staffRepo, cfg.JWTSecret, cfg.AccessTTLMin),
		Customer:  handler.NewCustomerHandler(orders, menuRepo),
		Staff:     handler.NewStaffHandler(orders, auditRepo),
		JWTSecret: cfg.JWTSecret,
		Redis:     rdb,
		RateLimit: config.LoadRateLimitConfig(),
		Cache:     config.LoadCacheConfig(),
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
