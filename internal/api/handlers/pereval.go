// pereval.go — обработчики /submitData.
// Создание отвечает конвертом {status, message, id}, изменение — {state, message},
// поиск по email — {count, results}.
package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	apierrors "github.com/fstr/pereval-api/internal/api/errors"
	"github.com/fstr/pereval-api/internal/api/middleware"
	"github.com/fstr/pereval-api/internal/api/routes"
	"github.com/fstr/pereval-api/internal/domain/model"
	"github.com/fstr/pereval-api/internal/service"
	"github.com/fstr/pereval-api/internal/validation"
)

// maxBodyBytes — предельный размер тела заявки (изображения передаются в base64).
const maxBodyBytes = 32 << 20

// Сообщения клиенту при внутренних ошибках; подробности только в логах.
const (
	msgSaveFailed    = "failed to save data to the database"
	msgInternalError = "internal server error"
	msgBodyTooLarge  = "request body is too large"
)

// submitResponse — ответ POST /submitData.
type submitResponse struct {
	Status  int     `json:"status"`
	Message *string `json:"message"`
	ID      *int64  `json:"id"`
}

// updateResponse — ответ PATCH /submitData/{id}.
type updateResponse struct {
	State   int     `json:"state"`
	Message *string `json:"message"`
}

// listResponse — ответ GET /submitData/?user__email=.
type listResponse struct {
	Count   int                    `json:"count"`
	Results []*model.PerevalRecord `json:"results"`
}

// SubmitData — POST /submitData: создание записи.
func (h *APIHandler) SubmitData(w http.ResponseWriter, r *http.Request) {
	sub, err := h.parseSubmission(w, r)
	if err != nil {
		writeSubmit(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	id, err := h.perevals.Submit(r.Context(), sub)
	if err != nil {
		h.requestLogger(r).Error("Ошибка создания записи", slog.String("error", err.Error()))
		writeSubmit(w, http.StatusInternalServerError, msgSaveFailed, nil)
		return
	}

	writeSubmit(w, http.StatusOK, "", &id)
}

// GetSubmitData — GET /submitData/{id}: запись целиком.
func (h *APIHandler) GetSubmitData(w http.ResponseWriter, r *http.Request, id int64) {
	rec, err := h.perevals.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, service.ErrNotFound.Error())
			return
		}
		h.requestLogger(r).Error("Ошибка получения записи",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(w, msgInternalError)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// PatchSubmitData — PATCH /submitData/{id}: изменение записи в статусе new.
func (h *APIHandler) PatchSubmitData(w http.ResponseWriter, r *http.Request, id int64) {
	sub, err := h.parseSubmission(w, r)
	if err != nil {
		writeUpdate(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.perevals.Update(r.Context(), id, sub)
	switch {
	case err == nil:
		writeUpdate(w, http.StatusOK, "")
	case errors.Is(err, service.ErrNotFound):
		writeUpdate(w, http.StatusNotFound, service.ErrNotFound.Error())
	case errors.Is(err, service.ErrInvalidState):
		writeUpdate(w, http.StatusConflict, service.ErrInvalidState.Error())
	case errors.Is(err, service.ErrConflict):
		writeUpdate(w, http.StatusConflict, service.ErrConflict.Error())
	default:
		h.requestLogger(r).Error("Ошибка изменения записи",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		writeUpdate(w, http.StatusInternalServerError, msgInternalError)
	}
}

// ListSubmitData — GET /submitData/?user__email=: записи пользователя.
func (h *APIHandler) ListSubmitData(w http.ResponseWriter, r *http.Request, params routes.ListSubmitDataParams) {
	records, err := h.perevals.ListByEmail(r.Context(), params.UserEmail)
	if err != nil {
		h.requestLogger(r).Error("Ошибка поиска записей по email", slog.String("error", err.Error()))
		apierrors.InternalError(w, msgInternalError)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{Count: len(records), Results: records})
}

// ParamErrorHandler отдаёт ошибки разбора path/query параметров как 400.
func ParamErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	apierrors.ValidationError(w, err.Error())
}

// parseSubmission читает тело запроса и валидирует заявку.
// Возвращаемая ошибка пригодна для показа клиенту.
func (h *APIHandler) parseSubmission(w http.ResponseWriter, r *http.Request) (*model.Submission, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, errors.New(msgBodyTooLarge)
		}
		return nil, errors.New("failed to read request body")
	}

	sub, err := validation.Parse(body)
	if err != nil {
		h.requestLogger(r).Debug("Заявка не прошла валидацию", slog.String("error", err.Error()))
		return nil, err
	}
	return sub, nil
}

// requestLogger — логгер обработчика с идентификатором текущего запроса.
func (h *APIHandler) requestLogger(r *http.Request) *slog.Logger {
	return h.logger.With(slog.String("request_id", middleware.RequestIDFromContext(r.Context())))
}

// writeSubmit записывает конверт ответа создания. Пустое message — null.
func writeSubmit(w http.ResponseWriter, status int, message string, id *int64) {
	writeJSON(w, status, submitResponse{Status: status, Message: optional(message), ID: id})
}

// writeUpdate записывает конверт ответа изменения: state 1 при 200, иначе 0.
func writeUpdate(w http.ResponseWriter, status int, message string) {
	state := 0
	if status == http.StatusOK {
		state = 1
	}
	writeJSON(w, status, updateResponse{State: state, Message: optional(message)})
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
