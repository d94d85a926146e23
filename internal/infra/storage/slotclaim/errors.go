package slotclaim

import "errors"

var (
	// ErrSlotTaken возвращается, когда слот пересекается со слотом другой записи
	ErrSlotTaken = errors.New("slotclaim.repository: venue slot already claimed")

	// ErrInvalidSession возвращается, когда из сессии нельзя получить слот
	ErrInvalidSession = errors.New("slotclaim.repository: session is not schedulable")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("slotclaim.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("slotclaim.repository: failed to execute query")
)
