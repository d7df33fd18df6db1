package api

import (
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/plkim/newsdeck/app/cache"
	"github.com/plkim/newsdeck/app/cards"
	"github.com/plkim/newsdeck/app/cfg"
	"github.com/plkim/newsdeck/app/database"
	"github.com/plkim/newsdeck/app/imageprep"
	"github.com/plkim/newsdeck/app/store"
	"github.com/plkim/newsdeck/app/tasks"
)

func NewHandler(c *cfg.Cfg, snapshots *store.RecommendationStore, historyRepo database.CrawlHistory,
	cacheStore *cache.Store, generator Generator, content ContentSource,
	scheduler tasks.TaskSchedulerInterface, crawlTask func() tasks.TaskInterface) *Handler {
	return &Handler{
		snapshots:   snapshots,
		historyRepo: historyRepo,
		cache:       cacheStore,
		generator:   generator,
		content:     content,
		parser:      cards.NewParser(),
		preparer:    imageprep.NewPreparer(),
		scheduler:   scheduler,
		crawlTask:   crawlTask,
		dataDir:     c.DataDir,
		cacheDir:    c.CacheDir,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if date := h.snapshots.Date(); date != "" {
		health["snapshot_date"] = date
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetRecommendations(c *gin.Context) {
	snapshot, err := h.snapshots.Load()
	if err != nil {
		slog.Error("Failed to load recommendations", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	if snapshot == nil {
		c.JSON(http.StatusOK, store.Snapshot{Articles: nil})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

func (h *Handler) GetHistory(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	records, err := h.historyRepo.Crawls(limit)
	if err != nil {
		slog.Error("Failed to load crawl history", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{"crawls": records})
}

// GetSetup reports missing credentials and directories so a fresh
// deployment can be diagnosed from the dashboard.
func (h *Handler) GetSetup(c *gin.Context) {
	requiredEnv := []string{"NAVER_CLIENT_ID", "NAVER_CLIENT_SECRET", "GEMINI_API_KEY"}

	missingEnv := []string{}
	for _, key := range requiredEnv {
		if os.Getenv(key) == "" {
			missingEnv = append(missingEnv, key)
		}
	}

	missingDirs := []string{}
	for _, dir := range []string{h.dataDir, h.cacheDir} {
		if _, err := os.Stat(dir); err != nil {
			missingDirs = append(missingDirs, dir)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"missing_env":  missingEnv,
		"missing_dirs": missingDirs,
		"ready":        len(missingEnv) == 0 && len(missingDirs) == 0,
	})
}

func (h *Handler) TriggerCrawl(c *gin.Context) {
	if err := h.scheduler.EnqueueTask(h.crawlTask()); err != nil {
		slog.Error("Failed to enqueue crawl", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "crawl could not be queued"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

func (h *Handler) SummarizeArticle(c *gin.Context) {
	var req SummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	articleID := articleIdentity(req.Link, req.Title)
	if articleID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "link or title is required"})
		return
	}

	if !req.Refresh {
		if summary, ok := h.cache.Summary(articleID); ok {
			c.JSON(http.StatusOK, gin.H{"summary": summary, "cached": true})
			return
		}
	}

	body := h.articleBody(c, req.Link, req.Description)

	summary, err := h.generator.Summarize(c.Request.Context(), req.Title, body)
	if err != nil {
		slog.Error("Summary generation failed", "link", req.Link, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "summary generation failed"})
		return
	}

	if err := h.cache.PutSummary(articleID, summary); err != nil {
		slog.Warn("Failed to cache summary", "error", err)
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary, "cached": false})
}

func (h *Handler) GenerateCardnews(c *gin.Context) {
	var req CardnewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	articleID := articleIdentity(req.Link, req.Title)
	if articleID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "link or title is required"})
		return
	}

	var script string
	cached := false
	if !req.Refresh {
		script, cached = h.cache.Script(articleID)
	}

	if !cached {
		body := h.articleBody(c, req.Link, req.Description)

		generated, err := h.generator.GenerateCardScript(c.Request.Context(), req.Title, body)
		if err != nil {
			slog.Error("Card script generation failed", "link", req.Link, "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "card script generation failed"})
			return
		}
		script = generated

		if err := h.cache.PutScript(articleID, script); err != nil {
			slog.Warn("Failed to cache card script", "error", err)
		}
	}

	result := h.parser.Run(script)
	c.JSON(http.StatusOK, gin.H{
		"script":  script,
		"cards":   result.Cards,
		"grammar": result.Grammar,
		"cached":  cached,
	})
}

func (h *Handler) ParseCards(c *gin.Context) {
	var req ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result := h.parser.Run(req.Script)
	c.JSON(http.StatusOK, gin.H{
		"cards":   result.Cards,
		"grammar": result.Grammar,
	})
}

func (h *Handler) PrepareImages(c *gin.Context) {
	var req ImagePrepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result := h.parser.Run(req.Script)
	if len(result.Cards) == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "script could not be parsed into cards"})
		return
	}

	bundle, err := h.preparer.Bundle(c.Request.Context(), result.Cards)
	if err != nil {
		slog.Error("Image bundle build failed", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="cardnews_images.zip"`)
	c.Data(http.StatusOK, "application/zip", bundle)
}

// articleBody resolves the generation input: the readable page text
// when extraction succeeds, the search snippet otherwise.
func (h *Handler) articleBody(c *gin.Context, link, description string) string {
	if link != "" {
		if text, err := h.content.ArticleText(c.Request.Context(), link); err == nil {
			return text
		} else {
			slog.Debug("Content extraction failed, falling back to description", "link", link, "error", err)
		}
	}
	return description
}

func articleIdentity(link, title string) string {
	if link != "" {
		return link
	}
	return title
}
