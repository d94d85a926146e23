package update_enquiry

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
)

// Request модель запроса на изменение заявки.
// Sessions заменяют сохраненный список целиком.
type Request struct {
	ID           int64
	ActorID      int64
	ClientName   string
	ClientPhone  string
	ClientEmail  string
	EventType    string
	QuotedAmount decimal.Decimal
	Notes        *string
	Sessions     []domain.Session
}
