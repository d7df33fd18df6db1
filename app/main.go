package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/plkim/newsdeck/app/api"
	"github.com/plkim/newsdeck/app/cache"
	"github.com/plkim/newsdeck/app/cfg"
	"github.com/plkim/newsdeck/app/config"
	"github.com/plkim/newsdeck/app/database"
	"github.com/plkim/newsdeck/app/extract"
	"github.com/plkim/newsdeck/app/gemini"
	"github.com/plkim/newsdeck/app/naver"
	"github.com/plkim/newsdeck/app/news"
	"github.com/plkim/newsdeck/app/rss"
	"github.com/plkim/newsdeck/app/slack"
	"github.com/plkim/newsdeck/app/store"
	"github.com/plkim/newsdeck/app/tasks"
)

func main() {
	godotenv.Load()

	appCfg, err := cfg.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Newsdeck server", "version", appCfg.Version)

	keywords, err := config.NewLoader(appCfg.KeywordsFile).Load()
	if err != nil {
		log.Fatal("Failed to load keyword configuration:", err)
	}

	db, err := database.NewDB(appCfg.DBPath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "migration_version", version, "dirty", dirty)

	cacheStore, err := cache.NewStore(appCfg.CacheDir)
	if err != nil {
		log.Fatal("Failed to create cache:", err)
	}

	snapshots, err := store.NewRecommendationStore(filepath.Join(appCfg.DataDir, "daily_recommendations.json"))
	if err != nil {
		log.Fatal("Failed to create recommendation store:", err)
	}

	historyRepo := database.NewHistoryRepository(db)

	// Crawl pipeline components
	searcher := naver.NewClient(appCfg.NaverClientID, appCfg.NaverClientSecret)
	titleExtractor := extract.NewTitleExtractor(appCfg.UserAgent)
	normalizer := news.NewNormalizer(keywords.Normalizer.StripChars, replaceRules(keywords))
	collapser := news.NewCollapser(normalizer, keywords.SimilarityThreshold)
	scorer := news.NewScorer(keywords.Search, keywords.Main)

	var watchers []news.WatchSource
	if len(keywords.WatchFeeds) > 0 {
		watchers = append(watchers, rss.NewWatcher(keywords.WatchFeeds, appCfg.UserAgent))
	}

	pipeline := news.NewPipeline(searcher, titleExtractor, watchers, collapser, scorer, keywords.Search)

	// Generation and notification components
	generator := gemini.NewClient(appCfg.GeminiAPIKey)
	contentExtractor := extract.NewContentExtractor(appCfg.UserAgent)
	notifier := slack.NewNotifier(appCfg.SlackWebhookURL, appCfg.SlackAppURL, cacheStore)

	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount, "crawl_at", appCfg.CrawlAt, "notify_at", appCfg.NotifyAt)
	scheduler := tasks.NewScheduler(pipeline, snapshots, historyRepo, notifier)
	scheduler.Start()
	defer scheduler.Stop()

	apiHandler := api.NewHandler(appCfg, snapshots, historyRepo, cacheStore, generator, contentExtractor,
		scheduler, func() tasks.TaskInterface {
			return tasks.NewCrawlTask(pipeline, snapshots, historyRepo)
		})
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}

func replaceRules(keywords *config.Keywords) []news.ReplaceRule {
	rules := make([]news.ReplaceRule, 0, len(keywords.Normalizer.Replacements))
	for _, r := range keywords.Normalizer.Replacements {
		rules = append(rules, news.ReplaceRule{From: r.From, To: r.To})
	}
	return rules
}
