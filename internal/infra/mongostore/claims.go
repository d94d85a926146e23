package mongostore

import (
	"context"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
)

// NoClaims заменяет SQL таблицу занятых слотов. В документном хранилище нет
// EXCLUDE ограничения, параллельные записи разводит блокировка в Redis.
type NoClaims struct{}

func (NoClaims) Claim(context.Context, domain.RecordKind, int64, []domain.Session) error { return nil }

func (NoClaims) Release(context.Context, domain.RecordKind, int64) error { return nil }

func (NoClaims) Replace(context.Context, domain.RecordKind, int64, []domain.Session) error {
	return nil
}
