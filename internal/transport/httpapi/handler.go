package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"PaperRAG/internal/domain"
	"PaperRAG/internal/infrastructure/arxiv"
)

// maxUploadBytes bounds multipart PDF uploads.
const maxUploadBytes = 64 << 20

// Service is the application surface the HTTP layer exposes.
type Service interface {
	SearchAndSummarize(ctx context.Context, query, category string) (domain.SummaryResult, error)
	IngestUpload(ctx context.Context, data []byte) (domain.IngestResult, error)
	IngestURL(ctx context.Context, pdfURL string) (domain.IngestResult, string, error)
	Chat(ctx context.Context, sessionID, message string) (domain.ChatReply, error)
	Progress(sessionID string) string
}

// Handler adapts the pipeline to the REST routes.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// NewHandler builds the route handler set.
func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register attaches all routes to the echo instance.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/summarize", h.Summarize)
	e.POST("/create_rag_session", h.CreateRAGSession)
	e.POST("/create_rag_session_from_url", h.CreateRAGSessionFromURL)
	e.POST("/chat_with_rag", h.ChatWithRAG)
	e.GET("/rag_progress/:session_id", h.RAGProgress)
	e.GET("/categories", h.Categories)
	e.GET("/healthz", h.Healthz)
}

// Summarize handles GET /summarize?query=...&category=...
func (h *Handler) Summarize(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("query"))
	category := strings.TrimSpace(c.QueryParam("category"))
	if query == "" && category == "" {
		return errorJSON(c, http.StatusBadRequest, "query or category parameter is required")
	}

	result, err := h.service.SearchAndSummarize(c.Request().Context(), query, category)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoUsablePapers):
			return errorJSON(c, http.StatusNotFound, "no unused papers matched the query")
		case errors.Is(err, domain.ErrFeedUnavailable):
			return errorJSON(c, http.StatusBadGateway, "paper feed unavailable")
		default:
			h.logger.Error("summarize failed", "query", query, "error", err)
			return errorJSON(c, http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, result)
}

// CreateRAGSession handles POST /create_rag_session with a multipart
// "file" part carrying the PDF.
func (h *Handler) CreateRAGSession(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "multipart file field is required")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "cannot open uploaded file")
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxUploadBytes))
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "cannot read uploaded file")
	}

	result, err := h.service.IngestUpload(c.Request().Context(), data)
	if err != nil {
		return h.ingestError(c, result.SessionID, err)
	}
	return c.JSON(http.StatusOK, result)
}

// CreateRAGSessionFromURL handles POST /create_rag_session_from_url.
// The body is either {"pdf_url": "..."} or the raw URL itself.
func (h *Handler) CreateRAGSessionFromURL(c echo.Context) error {
	pdfURL, err := readPDFURL(c)
	if err != nil || pdfURL == "" {
		return errorJSON(c, http.StatusBadRequest, "pdf_url is required")
	}

	result, title, err := h.service.IngestURL(c.Request().Context(), pdfURL)
	if err != nil {
		return h.ingestError(c, result.SessionID, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"session_id": result.SessionID,
		"rag_chunks": result.Chunks,
		"title":      title,
	})
}

// ChatWithRAG handles POST /chat_with_rag form fields session_id and
// message.
func (h *Handler) ChatWithRAG(c echo.Context) error {
	sessionID := strings.TrimSpace(c.FormValue("session_id"))
	message := strings.TrimSpace(c.FormValue("message"))
	if sessionID == "" || message == "" {
		return errorJSON(c, http.StatusBadRequest, "session_id and message are required")
	}

	reply, err := h.service.Chat(c.Request().Context(), sessionID, message)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return errorJSON(c, http.StatusNotFound, "session not found")
		}
		h.logger.Error("chat failed", "session_id", sessionID, "error", err)
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, reply)
}

// RAGProgress handles GET /rag_progress/:session_id. Unknown sessions
// still answer 200 with the "Not found" narrative so clients can poll
// unconditionally.
func (h *Handler) RAGProgress(c echo.Context) error {
	sessionID := c.Param("session_id")
	return c.JSON(http.StatusOK, map[string]string{
		"session_id": sessionID,
		"progress":   h.service.Progress(sessionID),
	})
}

// Categories handles GET /categories.
func (h *Handler) Categories(c echo.Context) error {
	return c.JSON(http.StatusOK, arxiv.Categories())
}

// Healthz handles GET /healthz.
func (h *Handler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// ingestError maps ingestion failures; the session identifier is always
// included so the client can read the failure narrative via progress.
func (h *Handler) ingestError(c echo.Context, sessionID string, err error) error {
	status := http.StatusInternalServerError
	switch {
	case domain.IsInvalidPDF(err):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrFetchFailed):
		status = http.StatusBadGateway
	default:
		h.logger.Error("ingestion failed", "session_id", sessionID, "error", err)
	}
	return c.JSON(status, map[string]string{
		"error":      err.Error(),
		"session_id": sessionID,
	})
}

func errorJSON(c echo.Context, status int, reason string) error {
	return c.JSON(status, map[string]string{"error": reason})
}

func readPDFURL(c echo.Context) (string, error) {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, 1<<20))
	if err != nil {
		return "", err
	}

	var req struct {
		PDFURL string `json:"pdf_url"`
	}
	if err := json.Unmarshal(body, &req); err == nil && req.PDFURL != "" {
		return strings.TrimSpace(req.PDFURL), nil
	}

	// Raw-body fallback: treat the body as the URL itself.
	raw := strings.Trim(strings.TrimSpace(string(body)), `"`)
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw, nil
	}
	return "", nil
}
