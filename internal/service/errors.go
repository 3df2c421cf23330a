// errors.go — ошибки бизнес-логики сервисного слоя.
// Тексты ошибок NotFound, InvalidState и Conflict уходят клиенту в поле message.
package service

import "errors"

var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState — запись вышла из статуса new и больше не редактируется.
	ErrInvalidState = errors.New("record not editable")
	// ErrConflict — статус записи изменился между чтением и условной записью.
	ErrConflict = errors.New("update failed")
	// ErrStorage — ошибка подключения или выполнения запроса к БД.
	ErrStorage = errors.New("storage error")
)
