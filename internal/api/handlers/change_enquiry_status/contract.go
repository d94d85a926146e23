package change_enquiry_status

import (
	"context"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
	changeStatus "github.com/m04kA/SMC-BanquetService/internal/usecase/change_enquiry_status"
)

type ChangeStatusUseCase interface {
	Execute(ctx context.Context, req *changeStatus.Request) (*domain.Enquiry, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
