package create_enquiry

import (
	"context"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
	createEnquiry "github.com/m04kA/SMC-BanquetService/internal/usecase/create_enquiry"
)

type CreateEnquiryUseCase interface {
	Execute(ctx context.Context, req *createEnquiry.Request) (*domain.Enquiry, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
