package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"barberremind/config"
	"barberremind/cron"
	"barberremind/database"
	appointmentRepo "barberremind/database/repository/appointment"
	shopRepo "barberremind/database/repository/shop"
	"barberremind/handlers"
	"barberremind/routes"
	"barberremind/services/dispatch"
	"barberremind/services/gateway"
	"barberremind/services/usage"
	"barberremind/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.StartHealthMonitor(utils.GetCacheClient())

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	apptRepo := appointmentRepo.NewFirebaseAppointmentRepo(database.DBClient)
	shopsRepo := shopRepo.NewFirebaseShopRepo(database.DBClient)

	// external gateway.
	waGateway := gateway.NewTwilioWhatsAppGateway(gateway.TwilioConfig{
		AccountSid: config.AppConfig.TwilioAccountSid,
		AuthToken:  config.AppConfig.TwilioAuthToken,
		From:       config.AppConfig.TwilioWhatsAppFrom,
	})

	// services.
	dispatchService := &dispatch.DefaultDispatchService{
		Appointments:    apptRepo,
		Shops:           shopsRepo,
		Gateway:         waGateway,
		Lock:            utils.NewBatchLock(utils.GetCacheClient(), 5*time.Minute),
		DefaultTemplate: config.AppConfig.DefaultTemplate,
		CountryPrefix:   config.AppConfig.DefaultCountryPrefix,
		PhoneFormat:     dispatch.PhoneFormat(config.AppConfig.PhoneFormat),
	}
	usageService := &usage.DefaultUsageService{
		Shops:       shopsRepo,
		AdminSecret: config.AppConfig.AdminSecret,
	}

	// scheduled dispatch queue + worker.
	queue := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer queue.Close()
	cron.InitDispatchWorker(dispatchService)

	dispatchHandler := handlers.NewDispatchHandler(dispatchService, queue)
	usageHandler := handlers.NewUsageHandler(usageService)

	// Register routes.
	routes.RegisterRoutes(router, dispatchHandler, usageHandler)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
