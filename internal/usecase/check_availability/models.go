package check_availability

import "github.com/m04kA/SMC-BanquetService/internal/domain"

// Request модель запроса на проверку доступности.
// ExcludeRecordID и ExcludeRecordKind задаются вместе и исключают одну запись
// из проверки, например при редактировании этой же записи.
type Request struct {
	Sessions          []domain.Session
	ExcludeRecordID   *int64
	ExcludeRecordKind domain.RecordKind
}
