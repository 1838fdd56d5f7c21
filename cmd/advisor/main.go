// cmd/advisor/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"card-advisor/internal/catalog"
	"card-advisor/internal/common/config"
	"card-advisor/internal/common/database"
	"card-advisor/internal/common/logger"
	"card-advisor/internal/common/metrics"
	"card-advisor/internal/common/notify"
	"card-advisor/internal/common/observability"
	"card-advisor/internal/models"
	"card-advisor/internal/orchestrator"
	"card-advisor/internal/services/llm"
	"card-advisor/internal/services/policy"
	"card-advisor/internal/services/search"
	extractrequest "card-advisor/internal/stages/extract-request"
	filtercompliance "card-advisor/internal/stages/filter-compliance"
	handleerror "card-advisor/internal/stages/handle-error"
	planfanout "card-advisor/internal/stages/plan-fanout"
	scorecards "card-advisor/internal/stages/score-cards"
	searchonline "card-advisor/internal/stages/search-online"
	summarizeresults "card-advisor/internal/stages/summarize-results"
	validatepolicy "card-advisor/internal/stages/validate-policy"
	"card-advisor/pkg/registry"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	var (
		query           = flag.String("query", "", "free-text card request, e.g. \"I want airline miles\"")
		locale          = flag.String("locale", "en-SG", "locale tag, used to derive the jurisdiction")
		personalization = flag.Bool("personalization", true, "consent to personalized scoring")
		dataSharing     = flag.Bool("data-sharing", false, "consent to sharing the summary externally")
		serveMetrics    = flag.Bool("metrics", false, "keep serving /metrics after the session finishes")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting card advisor",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Catalog: Postgres behind a Redis cache when configured, the
	// built-in seed catalog otherwise. ---
	cardCatalog := buildCatalog(ctx, cfg, log, zapLog)

	// --- Text understanding: extraction API with keyword fallback, or
	// keyword only. ---
	var primary llm.TextUnderstanding
	if cfg.Services.LLM.Mode == "http" {
		primary = llm.NewHTTPClient(cfg.Services.LLM, log)
	}
	keyword := llm.NewKeywordClient(log)

	// --- Online search fallback, only when Elasticsearch is configured. ---
	var fallback *searchonline.Handler
	if len(cfg.Database.Elasticsearch.Addresses) > 0 {
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping(ctx)
		}, 5, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Warn("elasticsearch unavailable, online fallback disabled", zap.Error(err))
		} else {
			onlineSearch := search.NewElastic(esClient.Client, cfg.Database.Elasticsearch.Index, cfg.Services.Search, log)
			fallback = searchonline.NewHandler(searchonline.DefaultConfig(), onlineSearch, log)
			zapLog.Info("Elasticsearch connected successfully")
		}
	}

	rules := policy.NewRules(cfg.Services.Policy, log)

	managers := make(map[string]*scorecards.Handler)
	managerCfg := scorecards.DefaultConfig()
	managerCfg.Timeout = stageTimeout(cfg, "score-cards", managerCfg.Timeout)
	for _, profile := range registry.Profiles() {
		managers[profile.Category] = scorecards.NewHandler(managerCfg, profile, cardCatalog, log)
	}

	extractCfg := extractrequest.DefaultConfig()
	extractCfg.Timeout = stageTimeout(cfg, "extract-request", extractCfg.Timeout)

	pipeline := orchestrator.New(orchestrator.Deps{
		Extract:        extractrequest.NewHandler(extractCfg, primary, keyword, log),
		Compliance:     filtercompliance.NewHandler(rules, log),
		Router:         planfanout.NewHandler(planfanout.DefaultConfig(), log),
		Managers:       managers,
		Fallback:       fallback,
		Validator:      validatepolicy.NewHandler(rules, log),
		Summarizer:     summarizeresults.NewHandler(summarizeresults.DefaultConfig(), log),
		ErrorHandler:   handleerror.NewHandler(handleerror.DefaultConfig(), cardCatalog, log),
		Sink:           metrics.NewPrometheusSink(),
		Observability:  obs,
		Logger:         log,
		ManagerTimeout: managerCfg.Timeout,
	})

	// /metrics is always registered; with -metrics the process stays up
	// to be scraped.
	http.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{Addr: cfg.App.MetricsAddr}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Warn("metrics server stopped", zap.Error(err))
		}
	}()

	result := pipeline.Run(ctx, &orchestrator.Input{
		Query:  *query,
		Locale: *locale,
		Consent: models.Consent{
			Personalization: *personalization,
			DataSharing:     *dataSharing,
		},
	})

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		zapLog.Fatal("result marshal failed", zap.Error(err))
	}
	fmt.Println(string(out))

	// Summary delivery honors the data-sharing consent.
	if cfg.Notifications.Enabled && *dataSharing && result.Recommendations != nil && !result.Recommendations.Empty() {
		notifier := buildNotifier(ctx, cfg.Notifications, log, zapLog)
		subject := fmt.Sprintf("Card recommendations for session %s", result.SessionID)
		_ = notifier.Notify(ctx, subject, result.Recommendations.Summary)
	}

	if *serveMetrics {
		zapLog.Info("serving metrics until interrupted", zap.String("addr", cfg.App.MetricsAddr))
		<-ctx.Done()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsServer.Shutdown(shutdownCtx)

	if result.Error != nil {
		os.Exit(1)
	}
}

// buildCatalog picks the richest catalog the configuration allows. Every
// path degrades toward the seed catalog rather than failing startup.
func buildCatalog(ctx context.Context, cfg *config.Config, log logger.Logger, zapLog *zap.Logger) catalog.Service {
	var base catalog.Service = catalog.NewSeeded()

	if cfg.Database.Postgres.Enabled {
		var pg *database.PostgresClient
		err := retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 5, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Warn("postgres unavailable, using seed catalog", zap.Error(err))
		} else {
			zapLog.Info("PostgreSQL connected successfully")
			base = catalog.NewStore(pg.DB, log)
		}
	}

	if cfg.Database.Redis.Enabled {
		var rdb *database.RedisClient
		err := retryWithBackoff(func() error {
			var err error
			rdb, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return rdb.Ping(ctx)
		}, 5, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Warn("redis unavailable, catalog cache disabled", zap.Error(err))
		} else {
			zapLog.Info("Redis connected successfully")
			base = catalog.NewCached(base, rdb.Client, log)
		}
	}

	return base
}

func buildNotifier(ctx context.Context, cfg config.NotificationConfig, log logger.Logger, zapLog *zap.Logger) notify.Notifier {
	switch cfg.Channel {
	case "email":
		n, err := notify.NewEmailNotifier(ctx, cfg, log)
		if err != nil {
			zapLog.Warn("email notifier unavailable", zap.Error(err))
			return notify.Nop{}
		}
		return n
	case "sms":
		n, err := notify.NewTopicNotifier(ctx, cfg, log)
		if err != nil {
			zapLog.Warn("sns notifier unavailable", zap.Error(err))
			return notify.Nop{}
		}
		return n
	default:
		return notify.Nop{}
	}
}

func stageTimeout(cfg *config.Config, stage string, fallback time.Duration) time.Duration {
	if sc, ok := cfg.Stages[stage]; ok && sc.TimeoutMs > 0 {
		return time.Duration(sc.TimeoutMs) * time.Millisecond
	}
	return fallback
}
