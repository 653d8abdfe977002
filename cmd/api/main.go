package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	cloudstorage "cloud.google.com/go/storage"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/siraq-studio/api/internal/di"
	"github.com/siraq-studio/api/internal/handlers"
	"github.com/siraq-studio/api/internal/platform/auth"
	"github.com/siraq-studio/api/internal/platform/config"
	pfirestore "github.com/siraq-studio/api/internal/platform/firestore"
	"github.com/siraq-studio/api/internal/platform/mail"
	"github.com/siraq-studio/api/internal/platform/observability"
	"github.com/siraq-studio/api/internal/platform/secrets"
	platformstorage "github.com/siraq-studio/api/internal/platform/storage"
	"github.com/siraq-studio/api/internal/repositories"
	firestoreRepo "github.com/siraq-studio/api/internal/repositories/firestore"
	"github.com/siraq-studio/api/internal/services"
)

func main() {
	ctx := context.Background()
	startedAt := time.Now().UTC()

	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("api")
	ctx = observability.WithLogger(ctx, logger)

	envValues, err := config.EnvironmentValues()
	if err != nil {
		logger.Fatal("failed to read environment values", zap.Error(err))
	}

	fetcher, err := newSecretFetcher(ctx, logger, envValues)
	if err != nil {
		logger.Fatal("failed to initialise secret fetcher", zap.Error(err))
	}
	defer func() {
		if err := fetcher.Close(); err != nil {
			logger.Warn("secret fetcher close error", zap.Error(err))
		}
	}()

	cfg, err := config.Load(ctx,
		config.WithSecretResolver(config.SecretResolverFunc(fetcher.Resolve)),
		config.WithRequiredSecrets(requiredSecretNames(envValues)...),
	)
	if err != nil {
		var missing *config.MissingSecretsError
		if errors.As(err, &missing) {
			logger.Fatal("missing required secrets", zap.Strings("secrets", missing.RedactedNames()))
		}
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	buildInfo := buildInfoFromEnv(envValues, startedAt)

	firestoreProvider := pfirestore.NewProvider(cfg.Firestore)
	firestoreClient, err := firestoreProvider.Client(ctx)
	if err != nil {
		logger.Fatal("failed to initialise firestore client", zap.Error(err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := firestoreProvider.Close(closeCtx); err != nil {
			logger.Warn("firestore close error", zap.Error(err))
		}
	}()

	storageClient, err := cloudstorage.NewClient(ctx)
	if err != nil {
		logger.Fatal("failed to initialise storage client", zap.Error(err))
	}
	defer func() {
		if err := storageClient.Close(); err != nil {
			logger.Warn("storage close error", zap.Error(err))
		}
	}()

	uploader, err := platformstorage.NewUploader(storageClient, cfg.Storage.AssetsBucket)
	if err != nil {
		logger.Fatal("failed to initialise asset uploader", zap.Error(err))
	}

	var mailer services.Mailer
	if cfg.Features.EnableEmailNotifications {
		sender, err := mail.NewSender(cfg.Mail)
		if err != nil {
			logger.Fatal("failed to initialise mail sender", zap.Error(err))
		}
		mailer = sender
	} else {
		logger.Info("email notifications disabled by feature flag")
	}

	firebaseVerifier, err := auth.NewFirebaseVerifier(ctx, cfg.Firebase)
	if err != nil {
		logger.Fatal("failed to initialise firebase verifier", zap.Error(err))
	}
	authenticator := auth.NewAuthenticator(firebaseVerifier)

	brandingRepo, err := firestoreRepo.NewBrandingRepository(firestoreProvider)
	if err != nil {
		logger.Fatal("failed to initialise branding repository", zap.Error(err))
	}
	productRepo, err := firestoreRepo.NewProductRepository(firestoreProvider)
	if err != nil {
		logger.Fatal("failed to initialise product repository", zap.Error(err))
	}

	healthRepo, err := newHealthRepository(firestoreClient, fetcher, cfg)
	if err != nil {
		logger.Warn("health: dependency checks unavailable", zap.Error(err))
	}

	container, err := di.NewContainer(ctx, cfg, di.Repositories{
		Branding: brandingRepo,
		Products: productRepo,
		Health:   healthRepo,
	}, di.Infrastructure{
		Uploader: uploader,
		Mailer:   mailer,
		Build:    buildInfo,
		Clock:    time.Now,
	})
	if err != nil {
		logger.Fatal("failed to assemble services", zap.Error(err))
	}
	svc := container.Services

	publicHandlers := handlers.NewPublicHandlers(
		handlers.WithPublicCatalogService(svc.Catalog),
		handlers.WithPublicBrandingService(svc.Branding),
		handlers.WithPublicProductService(svc.Products),
		handlers.WithPublicOrderService(svc.Orders),
	)
	orderHandlers := handlers.NewOrderIntakeHandlers(
		handlers.WithOrderIntakeService(svc.Orders),
		handlers.WithOrderIntakeRateLimit(cfg.RateLimits.OrdersPerMinute),
	)
	brandingAdmin := handlers.NewBrandingAdminHandlers(svc.Branding)
	catalogAdmin := handlers.NewCatalogAdminHandlers(svc.Products)

	healthHandlers := handlers.NewHealthHandlers(
		handlers.WithHealthBuildInfo(buildInfo),
		handlers.WithHealthSystemService(svc.System),
	)

	projectID := traceProjectID(cfg)
	middlewares := []func(http.Handler) http.Handler{
		observability.InjectLoggerMiddleware(logger.Named("http")),
		observability.TraceMiddleware(projectID),
		observability.RecoveryMiddleware(logger.Named("http")),
		observability.RequestLoggerMiddleware(projectID),
	}

	router := handlers.NewRouter(
		handlers.WithMiddlewares(middlewares...),
		handlers.WithHealthHandlers(healthHandlers),
		handlers.WithPublicRoutes(publicHandlers.Routes),
		handlers.WithOrderRoutes(orderHandlers.Routes),
		handlers.WithAdminMiddlewares(authenticator.RequireFirebaseAuth(auth.RoleAdmin)),
		handlers.WithAdminRoutes(func(r chi.Router) {
			brandingAdmin.Routes(r)
			catalogAdmin.Routes(r)
		}),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	// SIGHUP drops the cached SMTP credential so the next resolution of the
	// reference reads the rotated secret instead of the process-lifetime cache.
	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)
	go func() {
		for range reload {
			ref := mailPasswordSecretRef(envValues)
			if ref == "" {
				logger.Info("reload signal received; no secret-backed smtp credential to refresh")
				continue
			}
			fetcher.Invalidate(ref)
			logger.Info("reload signal received; smtp credential cache invalidated")
		}
	}()

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("siraq-studio api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func buildInfoFromEnv(env map[string]string, started time.Time) services.BuildInfo {
	lookup := func(key string) string {
		if env == nil {
			return ""
		}
		return strings.TrimSpace(env[key])
	}
	version := lookup("API_BUILD_VERSION")
	if version == "" {
		version = "dev"
	}
	environment := strings.ToLower(lookup("API_ENVIRONMENT"))
	if environment == "" {
		environment = "local"
	}
	return services.BuildInfo{
		Version:     version,
		Environment: environment,
		StartedAt:   started,
	}
}

// newHealthRepository assembles the dependency probes behind /readyz:
// Firestore, Secret Manager, and the SMTP host when notifications are on.
func newHealthRepository(client *firestore.Client, fetcher *secrets.Fetcher, cfg config.Config) (repositories.HealthRepository, error) {
	checks := make([]repositories.DependencyCheck, 0, 3)
	if client != nil {
		c := client
		checks = append(checks, repositories.DependencyCheck{
			Name:    "firestore",
			Timeout: 1500 * time.Millisecond,
			Check: func(ctx context.Context) error {
				iter := c.Collections(ctx)
				_, err := iter.Next()
				if errors.Is(err, iterator.Done) {
					return nil
				}
				return err
			},
		})
	}
	if fetcher != nil {
		const secretHealthReference = "secret://system/healthz?version=latest"
		checks = append(checks, repositories.DependencyCheck{
			Name:    "secretManager",
			Timeout: time.Second,
			Check: func(ctx context.Context) error {
				_, err := fetcher.Resolve(ctx, secretHealthReference)
				if err == nil {
					return nil
				}
				if st, ok := status.FromError(err); ok && st.Code() == codes.NotFound {
					return nil
				}
				return err
			},
		})
	}
	if cfg.Features.EnableEmailNotifications && strings.TrimSpace(cfg.Mail.Host) != "" {
		addr := net.JoinHostPort(cfg.Mail.Host, fmt.Sprintf("%d", cfg.Mail.Port))
		checks = append(checks, repositories.DependencyCheck{
			Name:    "smtp",
			Timeout: 2 * time.Second,
			Check: func(ctx context.Context) error {
				dialer := net.Dialer{}
				conn, err := dialer.DialContext(ctx, "tcp", addr)
				if err != nil {
					return err
				}
				return conn.Close()
			},
		})
	}
	if len(checks) == 0 {
		return nil, errors.New("health: no dependency checks configured")
	}
	return repositories.NewDependencyHealthRepository(checks)
}

func requiredSecretNames(env map[string]string) []string {
	if env == nil {
		return nil
	}
	var required []string
	if isSecretRef(env["API_MAIL_SMTP_PASSWORD"]) {
		required = append(required, "Mail.Password")
	}
	return required
}

// mailPasswordSecretRef returns the canonical secret reference behind the
// SMTP password, or "" when the credential is supplied inline.
func mailPasswordSecretRef(env map[string]string) string {
	if env == nil {
		return ""
	}
	ref := strings.TrimSpace(env["API_MAIL_SMTP_PASSWORD"])
	if !isSecretRef(ref) {
		return ""
	}
	if strings.HasPrefix(ref, "sm://") {
		ref = "secret://" + strings.TrimPrefix(ref, "sm://")
	}
	return ref
}

func isSecretRef(value string) bool {
	trimmed := strings.TrimSpace(value)
	return strings.HasPrefix(trimmed, "secret://") || strings.HasPrefix(trimmed, "sm://")
}

func traceProjectID(cfg config.Config) string {
	if id := strings.TrimSpace(cfg.Firebase.ProjectID); id != "" {
		return id
	}
	return strings.TrimSpace(cfg.Firestore.ProjectID)
}

func newSecretFetcher(ctx context.Context, logger *zap.Logger, env map[string]string) (*secrets.Fetcher, error) {
	lookup := func(key string) string {
		if env == nil {
			return ""
		}
		return strings.TrimSpace(env[key])
	}

	defaultProject := lookup("API_SECRET_DEFAULT_PROJECT_ID")
	if defaultProject == "" {
		defaultProject = lookup("API_FIREBASE_PROJECT_ID")
	}
	fallbackPath := lookup("API_SECRET_FALLBACK_FILE")
	if fallbackPath == "" {
		fallbackPath = ".secrets.local"
	}

	opts := []secrets.Option{
		secrets.WithLogger(logger.Named("secrets")),
		secrets.WithFallbackFile(fallbackPath),
	}
	if defaultProject != "" {
		opts = append(opts, secrets.WithDefaultProject(defaultProject))
	}
	if credentialsFile := lookup("API_FIREBASE_CREDENTIALS_FILE"); credentialsFile != "" {
		opts = append(opts, secrets.WithClientOptions(option.WithCredentialsFile(credentialsFile)))
	}

	return secrets.NewFetcher(ctx, opts...)
}
