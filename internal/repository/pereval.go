package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fstr/pereval-api/internal/domain/model"
)

// PerevalRepository — интерфейс доступа к таблице pereval_added.
type PerevalRepository interface {
	// Insert сохраняет новую запись и возвращает её идентификатор.
	Insert(ctx context.Context, raw *model.RawData, images *model.ImageList) (int64, error)
	// GetByID возвращает запись по идентификатору.
	GetByID(ctx context.Context, id int64) (*model.PerevalRecord, error)
	// ListByEmail возвращает записи пользователя в порядке возрастания id.
	ListByEmail(ctx context.Context, email string) ([]*model.PerevalRecord, error)
	// GetEditState возвращает статус и блок пользователя записи.
	GetEditState(ctx context.Context, id int64) (*model.EditState, error)
	// ReplaceIfNew заменяет документы записи, только если её статус всё ещё new.
	// Если условие не выполнено — ErrConflict.
	ReplaceIfNew(ctx context.Context, id int64, raw *model.RawData, images *model.ImageList) error
	// InTx выполняет fn с репозиторием, привязанным к транзакции.
	InTx(ctx context.Context, fn func(repo PerevalRepository) error) error
}

// perevalRepo — реализация PerevalRepository.
type perevalRepo struct {
	db TxBeginner
}

// NewPerevalRepository создаёт репозиторий перевалов.
func NewPerevalRepository(db TxBeginner) PerevalRepository {
	return &perevalRepo{db: db}
}

func (r *perevalRepo) Insert(ctx context.Context, raw *model.RawData, images *model.ImageList) (int64, error) {
	query := `
		INSERT INTO pereval_added (raw_data, images)
		VALUES ($1, $2)
		RETURNING id`

	var id int64
	if err := r.db.QueryRow(ctx, query, raw, images).Scan(&id); err != nil {
		return 0, fmt.Errorf("ошибка создания записи: %w", err)
	}
	return id, nil
}

func (r *perevalRepo) GetByID(ctx context.Context, id int64) (*model.PerevalRecord, error) {
	query := `
		SELECT id, raw_data, images, date_added
		FROM pereval_added
		WHERE id = $1`

	rec := &model.PerevalRecord{}
	err := r.db.QueryRow(ctx, query, id).Scan(&rec.ID, &rec.RawData, &rec.Images, &rec.DateAdded)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения записи: %w", err)
	}
	return rec, nil
}

func (r *perevalRepo) ListByEmail(ctx context.Context, email string) ([]*model.PerevalRecord, error) {
	query := `
		SELECT id, raw_data, images, date_added
		FROM pereval_added
		WHERE raw_data -> 'user' ->> 'email' = $1
		ORDER BY id`

	rows, err := r.db.Query(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка записей: %w", err)
	}
	defer rows.Close()

	result := make([]*model.PerevalRecord, 0)
	for rows.Next() {
		rec := &model.PerevalRecord{}
		if err := rows.Scan(&rec.ID, &rec.RawData, &rec.Images, &rec.DateAdded); err != nil {
			return nil, fmt.Errorf("ошибка сканирования записи: %w", err)
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

func (r *perevalRepo) GetEditState(ctx context.Context, id int64) (*model.EditState, error) {
	// FOR UPDATE блокирует строку до конца транзакции обновления
	query := `
		SELECT COALESCE(raw_data ->> 'status', ''),
			COALESCE(raw_data -> 'user', '{}'::jsonb)
		FROM pereval_added
		WHERE id = $1
		FOR UPDATE`

	st := &model.EditState{}
	err := r.db.QueryRow(ctx, query, id).Scan(&st.Status, &st.User)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения статуса записи: %w", err)
	}
	return st, nil
}

func (r *perevalRepo) ReplaceIfNew(ctx context.Context, id int64, raw *model.RawData, images *model.ImageList) error {
	query := `
		UPDATE pereval_added
		SET raw_data = $2, images = $3
		WHERE id = $1 AND raw_data ->> 'status' = $4`

	tag, err := r.db.Exec(ctx, query, id, raw, images, model.StatusNew)
	if err != nil {
		return fmt.Errorf("ошибка обновления записи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

func (r *perevalRepo) InTx(ctx context.Context, fn func(repo PerevalRepository) error) error {
	return runInTx(ctx, r.db, func(tx pgx.Tx) error {
		return fn(&perevalRepo{db: tx})
	})
}
