package lock

import "errors"

var (
	// ErrLocked возвращается, когда дата площадки заблокирована другим запросом
	ErrLocked = errors.New("lock: venue date is locked by another writer")

	// ErrBackend возвращается, когда хранилище блокировок недоступно
	ErrBackend = errors.New("lock: backend error")
)
