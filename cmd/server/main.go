// Command server runs the FlexAI marketing site: the static pages, the staff
// inquiry list and the inquiry API.
//
//	@title			FlexAI Site API
//	@version		1.0
//	@description	Inquiry intake for the FlexAI marketing site: list, submit and delete visitor inquiries.
//	@BasePath		/api
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/tbourn/flexai-site/internal/bootstrap"
	"github.com/tbourn/flexai-site/internal/config"
	httpapi "github.com/tbourn/flexai-site/internal/http"
	"github.com/tbourn/flexai-site/internal/integrations/paramstore"
	"github.com/tbourn/flexai-site/internal/observability"
	"github.com/tbourn/flexai-site/internal/services"
	"github.com/tbourn/flexai-site/internal/sysutil"
	"github.com/tbourn/flexai-site/internal/web"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		// The logger is not configured yet; fall back to JSON on stderr.
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("invalid configuration")
	}

	logger := sysutil.SetupLogger(sysutil.LoggerOptions{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: cfg.OTEL.ServiceName,
		Version: version,
	})

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}

func run(cfg config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.Setup(ctx, cfg.OTEL, version)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn().Err(err).Msg("tracing shutdown")
		}
	}()

	if cfg.Database.PasswordParam != "" && cfg.Database.Password == "" {
		getter, err := newParamStore(ctx)
		if err != nil {
			return err
		}
		if err := bootstrap.ResolveSecrets(ctx, &cfg.Database, getter); err != nil {
			return err
		}
	}

	storage, err := bootstrap.Select(ctx, cfg.Database, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err := storage.Close(); err != nil {
			logger.Warn().Err(err).Msg("closing database")
		}
	}()

	go storage.PurgeExpired(ctx, time.Hour)

	assets, err := web.Assets(cfg.StaticDir)
	if err != nil {
		return err
	}

	svc := services.NewInquiryService(storage.Inquiries, storage.Idempotency, cfg.IdempotencyTTL)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, svc, assets, cfg)

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", srv.Addr).
			Str("backend", storage.Backend()).
			Bool("degraded", storage.Degraded).
			Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
		logger.Info().Msg("shutting down")
	}

	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		_ = srv.Close()
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

// newParamStore builds a Parameter Store client from the default AWS
// credential chain.
func newParamStore(ctx context.Context) (paramstore.Getter, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return paramstore.New(awsssm.NewFromConfig(awsCfg))
}
