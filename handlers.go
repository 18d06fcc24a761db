package chatbot

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
)

// HTTPChatRequest is the request body for POST /api/chat. Exactly one of
// UserID and SessionToken may be set; with neither, a session token is
// minted and returned.
type HTTPChatRequest struct {
	Message      string `json:"message"`
	UserID       string `json:"userId,omitempty"`
	SessionToken string `json:"sessionToken,omitempty"`
}

// HTTPChatResponse is the response body for POST /api/chat.
type HTTPChatResponse struct {
	UserMessage  string    `json:"userMessage"`
	BotResponse  string    `json:"botResponse"`
	Timestamp    time.Time `json:"timestamp"`
	SessionToken string    `json:"sessionToken,omitempty"`
}

// CategoryProductsRequest is the request body for POST /api/products/by-category.
type CategoryProductsRequest struct {
	CategoryID   int64  `json:"categoryId,omitempty"`
	CategoryName string `json:"categoryName,omitempty"`
}

// CategoryProductsResponse is the response body for POST /api/products/by-category.
type CategoryProductsResponse struct {
	Products []Product `json:"products"`
	Count    int       `json:"count"`
}

// CompareRequest is the request body for POST /api/compare.
type CompareRequest struct {
	ProductIDs []int64 `json:"productIds"`
}

// CompareResponse is the response body for POST /api/compare.
type CompareResponse struct {
	Comparison string `json:"comparison"`
}

// StockListResponse is the response body for GET /api/stock.
type StockListResponse struct {
	Products []StockItem `json:"products"`
}

// ErrorResponse is the HTTP error response body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// newHealthHandler returns a handler for health check requests.
func newHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// newChatHandler returns a handler for POST /api/chat requests.
func newChatHandler(processChat ProcessChatFn, maxMessageLength int, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req HTTPChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.Message == "" {
			respondError(w, http.StatusBadRequest, "Message cannot be empty")
			return
		}
		if len(req.Message) > maxMessageLength {
			respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("Message exceeds maximum length of %d characters", maxMessageLength))
			return
		}
		if req.UserID != "" && req.SessionToken != "" {
			handleError(w, logger, NewValidationError("Provide either userId or sessionToken, not both", ErrAmbiguousSpeaker))
			return
		}

		// Anonymous callers without a session get one minted for them.
		mintedToken := ""
		speaker := UserSpeaker(req.UserID)
		if req.UserID == "" {
			token := req.SessionToken
			if token == "" {
				token = uuid.New().String()
				mintedToken = token
			}
			speaker = SessionSpeaker(token)
		}

		result, err := processChat(r.Context(), ChatRequest{
			Message: req.Message,
			Speaker: speaker,
		})
		if err != nil {
			handleError(w, logger, err)
			return
		}

		respondJSON(w, http.StatusOK, HTTPChatResponse{
			UserMessage:  result.UserMessage,
			BotResponse:  result.BotResponse,
			Timestamp:    result.Timestamp,
			SessionToken: mintedToken,
		})
	}
}

// newCategoryProductsHandler returns a handler for POST /api/products/by-category.
func newCategoryProductsHandler(catalog Catalog, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CategoryProductsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		var (
			products []Product
			err      error
		)
		switch {
		case req.CategoryID != 0:
			products, err = catalog.ProductsByCategory(r.Context(), req.CategoryID)
		case req.CategoryName != "":
			products, err = catalog.ProductsByCategoryName(r.Context(), req.CategoryName)
		default:
			handleError(w, logger, NewValidationError("Se requiere category_id o category_name", ErrMissingCategory))
			return
		}
		if err != nil {
			handleError(w, logger, NewInternalError("failed to load products", err))
			return
		}

		if products == nil {
			products = []Product{}
		}
		respondJSON(w, http.StatusOK, CategoryProductsResponse{
			Products: products,
			Count:    len(products),
		})
	}
}

// newCompareHandler returns a handler for POST /api/compare.
func newCompareHandler(compare CompareFn, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CompareRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if len(req.ProductIDs) < 2 {
			respondError(w, http.StatusBadRequest, "Se necesitan al menos 2 productos para comparar")
			return
		}

		comparison, err := compare(r.Context(), req.ProductIDs)
		if err != nil {
			if errors.Is(err, ErrInsufficientProducts) {
				respondError(w, http.StatusBadRequest, "Se necesitan al menos 2 productos para comparar")
				return
			}
			handleError(w, logger, err)
			return
		}

		respondJSON(w, http.StatusOK, CompareResponse{Comparison: comparison})
	}
}

// newStockListHandler returns a handler for GET /api/stock.
func newStockListHandler(catalog Catalog, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := StockList(r.Context(), catalog)
		if err != nil {
			handleError(w, logger, NewInternalError("failed to load stock list", err))
			return
		}
		if items == nil {
			items = []StockItem{}
		}
		respondJSON(w, http.StatusOK, StockListResponse{Products: items})
	}
}

// newStockPDFHandler returns a handler for GET /stock/pdf.
func newStockPDFHandler(catalog Catalog, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pdf, err := StockReportPDF(r.Context(), catalog, time.Now())
		if err != nil {
			handleError(w, logger, NewInternalError("Error al generar PDF", err))
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="stock_report.pdf"`)
		w.WriteHeader(http.StatusOK)
		w.Write(pdf)
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		status := http.StatusInternalServerError
		switch reqErr.Code {
		case ErrCodeValidation:
			status = http.StatusBadRequest
		case ErrCodeNotFound:
			status = http.StatusNotFound
		}
		if status == http.StatusInternalServerError {
			logger.Error("request failed", slog.String("error", err.Error()))
		}
		respondJSON(w, status, ErrorResponse{Error: reqErr.Message, Code: reqErr.Code})
		return
	}

	logger.Error("request failed", slog.String("error", err.Error()))
	respondError(w, http.StatusInternalServerError, "An error occurred while processing your request")
}

// newHTTPRouter creates the chi router with the full middleware stack and
// all routes.
func newHTTPRouter(cfg *Config, handlers routeHandlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(requestIDMiddleware)
	r.Use(recoveryMiddleware(cfg.Logger))
	r.Use(loggingMiddleware(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(timeoutMiddleware(cfg.RequestTimeout))
	r.Use(bodySizeLimitMiddleware(cfg.MaxRequestBodySize))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", handlers.health)
	r.Post("/api/chat", handlers.chat)
	r.Post("/api/products/by-category", handlers.categoryProducts)
	r.Post("/api/compare", handlers.compare)
	r.Get("/api/stock", handlers.stockList)
	r.Get("/stock/pdf", handlers.stockPDF)

	return r
}

type routeHandlers struct {
	health           http.HandlerFunc
	chat             http.HandlerFunc
	categoryProducts http.HandlerFunc
	compare          http.HandlerFunc
	stockList        http.HandlerFunc
	stockPDF         http.HandlerFunc
}
