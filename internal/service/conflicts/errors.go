package conflicts

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
)

var (
	// ErrMalformedSession возвращается, когда время сессии не разбирается
	// или конец не позже начала
	ErrMalformedSession = errors.New("conflicts: malformed session")

	// ErrStorage возвращается, когда зафиксированные записи не удалось прочитать.
	// Ошибка чтения никогда не считается отсутствием конфликта.
	ErrStorage = errors.New("conflicts: failed to read committed records")
)

// ErrConflict совпадает с любым ConflictError через errors.Is
var ErrConflict = errors.New("conflicts: venue slot already taken")

// ConflictError содержит пересечения, из-за которых запись отклонена.
// Conflicts пуст, если конфликт поймало ограничение хранилища или блокировка
// площадки, а не проверка.
type ConflictError struct {
	Conflicts []domain.ConflictDetail
}

// NewConflictError создает ошибку из результата проверки
func NewConflictError(result *domain.ConflictResult) *ConflictError {
	if result == nil {
		return &ConflictError{Conflicts: []domain.ConflictDetail{}}
	}
	return &ConflictError{Conflicts: result.Conflicts}
}

func (e *ConflictError) Error() string {
	if len(e.Conflicts) == 0 {
		return ErrConflict.Error()
	}
	return fmt.Sprintf("%s: %d conflicting sessions", ErrConflict.Error(), len(e.Conflicts))
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}
