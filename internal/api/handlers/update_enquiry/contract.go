package update_enquiry

import (
	"context"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
	updateEnquiry "github.com/m04kA/SMC-BanquetService/internal/usecase/update_enquiry"
)

type UpdateEnquiryUseCase interface {
	Execute(ctx context.Context, req *updateEnquiry.Request) (*domain.Enquiry, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
