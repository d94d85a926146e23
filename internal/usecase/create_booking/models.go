package create_booking

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
)

// Request модель запроса на создание бронирования.
// При заданном EnquiryID пустые данные клиента и пустой список сессий
// берутся из заявки.
type Request struct {
	CreatedBy     int64
	EnquiryID     *int64
	ClientName    string
	ClientPhone   string
	TotalAmount   decimal.Decimal
	AdvanceAmount decimal.Decimal
	Notes         *string
	Sessions      []domain.Session
}
