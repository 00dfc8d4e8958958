// launching the server, result cache, kafka
package appServer

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ahmedsomaa/picloom/config"
	"github.com/ahmedsomaa/picloom/internal/database"
	"github.com/ahmedsomaa/picloom/internal/database/redis"
	"github.com/ahmedsomaa/picloom/internal/pkg/kafka"
	"github.com/ahmedsomaa/picloom/internal/pkg/processor"
	"github.com/ahmedsomaa/picloom/internal/service"
	"github.com/ahmedsomaa/picloom/internal/transport"
	"github.com/gin-gonic/gin"

	"github.com/sirupsen/logrus"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.Idle_timeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(logrus.StandardLogger().WriterLevel(logrus.ErrorLevel), "", 0),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// NewHandler wires the resize stack and returns the HTTP handler together
// with a cleanup func for the external connections.
func NewHandler(cfg *config.Config) (http.Handler, func(), error) {
	imgProcessor, err := processor.NewImageProcessor(cfg.Resize.Engine, cfg.Resize.JPEGQuality)
	if err != nil {
		return nil, nil, err
	}

	var cache database.ResultCache = database.NewNoopCache()
	var cacheRepo *redis.CacheRepository
	if cfg.Redis.Addr != "" {
		cacheRepo = redis.NewCacheRepository(redis.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB), cfg.Redis.TTL)

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := cacheRepo.Ping(ctx); err != nil {
			logrus.Warnf("Redis is not reachable yet: %v", err)
		}
		cache = cacheRepo
		logrus.Infof("Result cache enabled at %s", cfg.Redis.Addr)
	}

	producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)

	resizeService := service.NewResizeService(imgProcessor, cache, producer, cfg.Resize.MaxDimension, cfg.Resize.MaxSourcePixels)
	resizeHandler := transport.NewResizeHandler(resizeService)

	cleanup := func() {
		if err := producer.Close(); err != nil {
			logrus.Errorf("error occured on kafka producer close: %s", err.Error())
		}
		if cacheRepo != nil {
			if err := cacheRepo.Close(); err != nil {
				logrus.Errorf("error occured on redis close: %s", err.Error())
			}
		}
	}

	router := transport.InitRoutes(resizeHandler, transport.RouterConfig{
		MaxBodyBytes: cfg.Resize.MaxBodyBytes,
		Timeout:      cfg.Server.Timeout,
	})
	return router, cleanup, nil
}

func NewServer(cfg *config.Config) {

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	handler, cleanup, err := NewHandler(cfg)
	if err != nil {
		logrus.Fatalf("error occured while wiring the app: %s", err.Error())
	}
	defer cleanup()

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, handler); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.Printf("App Started on port %s", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
}
