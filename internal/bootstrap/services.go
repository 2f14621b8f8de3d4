package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/teemtee/tmt-web/config"
	"github.com/teemtee/tmt-web/internal/core"
	"github.com/teemtee/tmt-web/internal/data"
	"github.com/teemtee/tmt-web/internal/gitrepo"
	"github.com/teemtee/tmt-web/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Tasks    *service.TaskService
	Metadata *service.MetadataService
	Resolver core.Resolver
	Git      *gitrepo.Client
	TaskRepo *data.RedisTaskRepo
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices wires the task store, resolver, and business services.
func NewServices(deps *ServiceDeps) ServiceContainer {
	if deps == nil {
		return ServiceContainer{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := deps.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
		appCfg.Sanitize()
	}

	taskRepo := data.NewRedisTaskRepo(data.RedisTaskRepoOptions{
		Client:    deps.RedisClient,
		Retention: appCfg.Tasks.Retention,
		Logger:    logger,
	})

	git := gitrepo.New(gitrepo.Options{
		BaseDir: appCfg.Git.CloneDir,
		Timeout: appCfg.Git.CloneTimeout,
		Logger:  logger,
	})

	resolver := service.NewTreeResolver(service.TreeResolverOptions{
		Git:    git,
		Logger: logger,
	})

	tasks := service.NewTaskService(service.TaskServiceOptions{
		Repo:        taskRepo,
		Concurrency: appCfg.Tasks.Concurrency,
		Logger:      logger,
	})

	metadata := service.NewMetadataService(service.MetadataServiceOptions{
		Resolver: resolver,
		Logger:   logger,
	})

	return ServiceContainer{
		Tasks:    tasks,
		Metadata: metadata,
		Resolver: resolver,
		Git:      git,
		TaskRepo: taskRepo,
	}
}

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// RunServicesWithShutdown starts the HTTP server and manages its lifecycle.
// This function blocks until a shutdown signal is received.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	server := StartHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Logger:   logger,
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	<-quit
	logger.Info("shutting down services...")

	if err := ShutdownHTTPServer(ShutdownConfig{
		Context: context.Background(),
		Server:  server,
		Timeout: cfg.Config.HTTP.ShutdownTimeout,
		Logger:  logger,
	}); err != nil {
		return err
	}

	// Let in-flight tasks reach a terminal state before exiting so their
	// results land in the store.
	if cfg.Services.Tasks != nil {
		logger.Info("draining in-flight tasks")
		waitForDrain(cfg.Services.Tasks, cfg.Config.HTTP.ShutdownTimeout, logger)
	}

	return nil
}

// waitForDrain waits for in-flight tasks to finish with a timeout.
func waitForDrain(tasks *service.TaskService, timeout time.Duration, logger *slog.Logger) {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		tasks.Drain()
	}()

	select {
	case <-done:
		logger.Info("tasks drained")
	case <-time.After(timeout):
		logger.Warn("timeout waiting for tasks to drain")
	}
}
