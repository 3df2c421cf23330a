// pereval.go — сервис заявок о перевалах.
// Создание, чтение и условное изменение записей поверх PerevalRepository.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/fstr/pereval-api/internal/domain/model"
	"github.com/fstr/pereval-api/internal/repository"
)

// Результаты операций для лейбла result.
const (
	resultOK          = "ok"
	resultNotFound    = "not_found"
	resultNotEditable = "not_editable"
	resultConflict    = "conflict"
	resultError       = "error"
)

// Prometheus-метрики заявок.
var (
	submissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pereval_submissions_total",
		Help: "Количество созданных заявок по результату.",
	}, []string{"result"})
	updatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pereval_updates_total",
		Help: "Количество попыток изменения заявок по результату.",
	}, []string{"result"})
)

// PerevalService — сервис заявок о перевалах.
type PerevalService struct {
	repo   repository.PerevalRepository
	logger *slog.Logger
}

// NewPerevalService создаёт сервис заявок.
func NewPerevalService(repo repository.PerevalRepository, logger *slog.Logger) *PerevalService {
	return &PerevalService{
		repo:   repo,
		logger: logger.With(slog.String("component", "pereval_service")),
	}
}

// Submit сохраняет провалидированную заявку со статусом new.
// Возвращает идентификатор новой записи.
func (s *PerevalService) Submit(ctx context.Context, sub *model.Submission) (int64, error) {
	raw := NewRawData(sub)
	images := NewImageList(sub.Images)

	var id int64
	err := s.repo.InTx(ctx, func(tx repository.PerevalRepository) error {
		var err error
		id, err = tx.Insert(ctx, raw, images)
		return err
	})
	if err != nil {
		submissionsTotal.WithLabelValues(resultError).Inc()
		s.logger.Error("Ошибка сохранения заявки",
			slog.String("email", sub.User.Email),
			slog.String("error", err.Error()),
		)
		return 0, fmt.Errorf("%w: %w", ErrStorage, err) //nolint:errorlint // намеренный двойной wrap
	}

	submissionsTotal.WithLabelValues(resultOK).Inc()
	s.logger.Info("Заявка сохранена",
		slog.Int64("id", id),
		slog.Int("images", len(images.Images)),
	)
	return id, nil
}

// Get возвращает запись по идентификатору.
func (s *PerevalService) Get(ctx context.Context, id int64) (*model.PerevalRecord, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrStorage, err) //nolint:errorlint // намеренный двойной wrap
	}
	return rec, nil
}

// ListByEmail возвращает записи пользователя в порядке возрастания id.
// Если совпадений нет — пустой (не nil) список.
func (s *PerevalService) ListByEmail(ctx context.Context, email string) ([]*model.PerevalRecord, error) {
	records, err := s.repo.ListByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err) //nolint:errorlint // намеренный двойной wrap
	}
	if records == nil {
		records = []*model.PerevalRecord{}
	}
	return records, nil
}

// Update заменяет редактируемые поля записи в одной транзакции.
// Запись должна существовать и находиться в статусе new; блок user
// сохраняется прежним. Ошибки: ErrNotFound, ErrInvalidState, ErrConflict, ErrStorage.
func (s *PerevalService) Update(ctx context.Context, id int64, sub *model.Submission) error {
	images := NewImageList(sub.Images)

	err := s.repo.InTx(ctx, func(tx repository.PerevalRepository) error {
		st, err := tx.GetEditState(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if st.Status != model.StatusNew {
			return ErrInvalidState
		}

		raw := ReplacementRawData(sub, st.User)
		if err := tx.ReplaceIfNew(ctx, id, raw, images); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrConflict
			}
			return err
		}
		return nil
	})

	switch {
	case err == nil:
		updatesTotal.WithLabelValues(resultOK).Inc()
		s.logger.Info("Заявка изменена", slog.Int64("id", id))
		return nil
	case errors.Is(err, ErrNotFound):
		updatesTotal.WithLabelValues(resultNotFound).Inc()
		return err
	case errors.Is(err, ErrInvalidState):
		updatesTotal.WithLabelValues(resultNotEditable).Inc()
		s.logger.Debug("Изменение отклонено: запись не в статусе new", slog.Int64("id", id))
		return err
	case errors.Is(err, ErrConflict):
		updatesTotal.WithLabelValues(resultConflict).Inc()
		s.logger.Warn("Изменение отклонено: статус записи изменился параллельно", slog.Int64("id", id))
		return err
	default:
		updatesTotal.WithLabelValues(resultError).Inc()
		s.logger.Error("Ошибка изменения заявки",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: %w", ErrStorage, err) //nolint:errorlint // намеренный двойной wrap
	}
}
