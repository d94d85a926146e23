package create_enquiry

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
)

// Request модель запроса на создание заявки, даты сессий уже приведены к локальному часовому поясу
type Request struct {
	CreatedBy    int64
	ClientName   string
	ClientPhone  string
	ClientEmail  string
	EventType    string
	QuotedAmount decimal.Decimal
	Notes        *string
	Sessions     []domain.Session
}
