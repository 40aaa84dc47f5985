package app

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"PaperRAG/internal/config"
	"PaperRAG/internal/infrastructure/arxiv"
	"PaperRAG/internal/infrastructure/fetch"
	"PaperRAG/internal/infrastructure/ledger"
	"PaperRAG/internal/infrastructure/llm"
	"PaperRAG/internal/infrastructure/pdfext"
	"PaperRAG/internal/infrastructure/storage"
	"PaperRAG/internal/logging"
	"PaperRAG/internal/rag"
	"PaperRAG/internal/session"
	"PaperRAG/internal/transport/httpapi"
	"PaperRAG/internal/usecase"
)

// janitorInterval is how often expired sessions are swept.
const janitorInterval = time.Minute

// Application wires configuration to adapters, the pipeline and the HTTP
// server, and owns their lifecycle.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	server   *httpapi.Server
	sessions *session.Store
	mirror   *storage.PostgresMirror
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	fetcher := fetch.NewClient(fetch.Options{
		Timeout:    cfg.Fetch.Timeout(),
		Retries:    cfg.Fetch.Retries,
		RetryDelay: cfg.Fetch.RetryDelay(),
		UserAgent:  cfg.Fetch.UserAgent,
	}, baseLogger.With("component", "fetch"))

	feed := arxiv.NewClient(cfg.Arxiv.APIURL, fetcher, baseLogger.With("component", "arxiv"))
	scraper := arxiv.NewAbsPageScraper(cfg.Arxiv.BaseURL,
		&http.Client{Timeout: cfg.Fetch.Timeout()}, cfg.Fetch.UserAgent)

	extractor := pdfext.NewExtractor(baseLogger.With("component", "pdfext"))
	summarizer := llm.NewOpenAIClient(cfg.OpenAI)
	usedPapers := ledger.NewFileLedger(cfg.Ledger.Path)
	sessions := session.NewStore(cfg.Sessions.TTL(), cfg.Sessions.MaxSessions,
		baseLogger.With("component", "sessions"))

	var mirror *storage.PostgresMirror
	if cfg.Mirror.DSN != "" {
		m, err := storage.Open(cfg.Mirror.DSN)
		if err != nil {
			baseLogger.Warn("document mirror disabled", "error", err)
		} else {
			mirror = m
		}
	}

	deps := usecase.PipelineDeps{
		Feed:         feed,
		Fetcher:      fetcher,
		Extractor:    extractor,
		Summarizer:   summarizer,
		Ledger:       usedPapers,
		Sessions:     sessions,
		Retriever:    rag.NewSubstringRetriever(),
		Scraper:      scraper,
		Logger:       baseLogger.With("component", "pipeline"),
		ArxivBaseURL: cfg.Arxiv.BaseURL,
		MaxResults:   cfg.Arxiv.MaxResults,
		MaxChunkLen:  cfg.RAG.MaxChunkLen,
	}
	if mirror != nil {
		deps.Mirror = mirror
	}
	pipeline := usecase.NewPipeline(deps)

	handler := httpapi.NewHandler(pipeline, baseLogger.With("component", "http"))
	server := httpapi.NewServer(cfg.Server.Addr, handler, baseLogger.With("component", "http"))

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		server:   server,
		sessions: sessions,
		mirror:   mirror,
	}
}

// Run serves HTTP until ctx is canceled or SIGINT/SIGTERM arrives, then
// shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.sessions.StartJanitor(ctx, janitorInterval)

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout())
	defer cancel()

	err := a.server.Shutdown(shutdownCtx)
	if a.mirror != nil {
		if closeErr := a.mirror.Close(); closeErr != nil {
			a.logger.Warn("closing document mirror", "error", closeErr)
		}
	}
	return err
}
