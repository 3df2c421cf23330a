// handler.go — основной обработчик API, реализующий routes.ServerInterface.
// Объединяет health-обработчик и обработчики /submitData.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/fstr/pereval-api/internal/domain/model"
)

// PerevalService — операции сервисного слоя, используемые обработчиками.
// Реализуется service.PerevalService.
type PerevalService interface {
	Submit(ctx context.Context, sub *model.Submission) (int64, error)
	Get(ctx context.Context, id int64) (*model.PerevalRecord, error)
	ListByEmail(ctx context.Context, email string) ([]*model.PerevalRecord, error)
	Update(ctx context.Context, id int64, sub *model.Submission) error
}

// APIHandler — основной обработчик Pereval API.
type APIHandler struct {
	health      *HealthHandler
	perevals    PerevalService
	openapiJSON []byte
	logger      *slog.Logger
}

// NewAPIHandler создаёт основной обработчик API.
// openapiJSON — сериализованный OpenAPI-документ для /openapi.json.
func NewAPIHandler(
	health *HealthHandler,
	perevals PerevalService,
	openapiJSON []byte,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		health:      health,
		perevals:    perevals,
		openapiJSON: openapiJSON,
		logger:      logger.With(slog.String("component", "api_handler")),
	}
}

// rootResponse — ответ GET /.
type rootResponse struct {
	Message string `json:"message"`
}

// Root — проверка доступности API.
func (h *APIHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rootResponse{Message: "Pereval API is running"})
}

// HealthLive — liveness probe (делегируется в HealthHandler).
func (h *APIHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.health.HealthLive(w, r)
}

// HealthReady — readiness probe (делегируется в HealthHandler).
func (h *APIHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	h.health.HealthReady(w, r)
}

// GetMetrics — Prometheus метрики (делегируется в HealthHandler).
func (h *APIHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.health.GetMetrics(w, r)
}

// GetOpenAPI — OpenAPI-документ в формате JSON.
func (h *APIHandler) GetOpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.openapiJSON)
}

// --- Вспомогательные функции ---

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
