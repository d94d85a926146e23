package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m04kA/SMC-BanquetService/internal/api/handlers"
	cancelBookingHandler "github.com/m04kA/SMC-BanquetService/internal/api/handlers/cancel_booking"
	changeStatusHandler "github.com/m04kA/SMC-BanquetService/internal/api/handlers/change_enquiry_status"
	checkAvailabilityHandler "github.com/m04kA/SMC-BanquetService/internal/api/handlers/check_availability"
	createBookingHandler "github.com/m04kA/SMC-BanquetService/internal/api/handlers/create_booking"
	createEnquiryHandler "github.com/m04kA/SMC-BanquetService/internal/api/handlers/create_enquiry"
	getBookingHandler "github.com/m04kA/SMC-BanquetService/internal/api/handlers/get_booking"
	getEnquiryHandler "github.com/m04kA/SMC-BanquetService/internal/api/handlers/get_enquiry"
	getHistoryHandler "github.com/m04kA/SMC-BanquetService/internal/api/handlers/get_history"
	listBookingsHandler "github.com/m04kA/SMC-BanquetService/internal/api/handlers/list_bookings"
	listEnquiriesHandler "github.com/m04kA/SMC-BanquetService/internal/api/handlers/list_enquiries"
	updateEnquiryHandler "github.com/m04kA/SMC-BanquetService/internal/api/handlers/update_enquiry"
	"github.com/m04kA/SMC-BanquetService/internal/api/middleware"
	"github.com/m04kA/SMC-BanquetService/internal/domain"
	bookingsService "github.com/m04kA/SMC-BanquetService/internal/service/bookings"
	enquiriesService "github.com/m04kA/SMC-BanquetService/internal/service/enquiries"
	changeStatusUC "github.com/m04kA/SMC-BanquetService/internal/usecase/change_enquiry_status"
	checkAvailabilityUC "github.com/m04kA/SMC-BanquetService/internal/usecase/check_availability"
	createBookingUC "github.com/m04kA/SMC-BanquetService/internal/usecase/create_booking"
	createEnquiryUC "github.com/m04kA/SMC-BanquetService/internal/usecase/create_enquiry"
	updateEnquiryUC "github.com/m04kA/SMC-BanquetService/internal/usecase/update_enquiry"
	"github.com/m04kA/SMC-BanquetService/pkg/metrics"
)

// Logger интерфейс для логирования, общий для всех handlers
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// HealthFunc проверяет доступность хранилища
type HealthFunc func(ctx context.Context) error

// Dependencies зависимости, из которых собираются handlers
type Dependencies struct {
	CreateEnquiry     *createEnquiryUC.UseCase
	UpdateEnquiry     *updateEnquiryUC.UseCase
	ChangeStatus      *changeStatusUC.UseCase
	CreateBooking     *createBookingUC.UseCase
	CheckAvailability *checkAvailabilityUC.UseCase
	Enquiries         *enquiriesService.Service
	Bookings          *bookingsService.Service

	Auth     *middleware.Authenticator
	Location *time.Location
	Logger   Logger

	// Metrics равен nil, если метрики выключены
	Metrics     *metrics.Metrics
	MetricsPath string

	Health HealthFunc
}

// NewRouter настраивает HTTP маршруты сервиса
func NewRouter(deps Dependencies) *mux.Router {
	log := deps.Logger
	loc := deps.Location

	createEnquiry := createEnquiryHandler.NewHandler(deps.CreateEnquiry, loc, log)
	updateEnquiry := updateEnquiryHandler.NewHandler(deps.UpdateEnquiry, loc, log)
	changeStatus := changeStatusHandler.NewHandler(deps.ChangeStatus, log)
	getEnquiry := getEnquiryHandler.NewHandler(deps.Enquiries, log)
	listEnquiries := listEnquiriesHandler.NewHandler(deps.Enquiries, log)
	enquiryHistory := getHistoryHandler.NewHandler(func(ctx context.Context, id int64) (interface{}, error) {
		return deps.Enquiries.History(ctx, id)
	}, "enquiryId", enquiriesService.ErrEnquiryNotFound, log)

	createBooking := createBookingHandler.NewHandler(deps.CreateBooking, loc, log)
	getBooking := getBookingHandler.NewHandler(deps.Bookings, log)
	listBookings := listBookingsHandler.NewHandler(deps.Bookings, loc, log)
	cancelBooking := cancelBookingHandler.NewHandler(deps.Bookings, log)
	bookingHistory := getHistoryHandler.NewHandler(func(ctx context.Context, id int64) (interface{}, error) {
		return deps.Bookings.History(ctx, id)
	}, "bookingId", bookingsService.ErrBookingNotFound, log)

	checkAvailability := checkAvailabilityHandler.NewHandler(deps.CheckAvailability, loc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID(log))

	// Добавляем metrics middleware (если метрики включены)
	if deps.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(deps.Metrics))
		r.Handle(deps.MetricsPath, promhttp.Handler()).Methods(http.MethodGet)
	}

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if deps.Health != nil {
			if err := deps.Health(r.Context()); err != nil {
				log.Error("GET /healthz - storage unreachable: %v", err)
				handlers.RespondError(w, http.StatusServiceUnavailable, "хранилище недоступно")
				return
			}
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// API prefix, все маршруты требуют bearer токен
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(deps.Auth.Middleware)

	// чтение: любая аутентифицированная роль
	api.HandleFunc("/enquiries", listEnquiries.Handle).Methods(http.MethodGet)
	api.HandleFunc("/enquiries/{enquiryId}", getEnquiry.Handle).Methods(http.MethodGet)
	api.HandleFunc("/enquiries/{enquiryId}/history", enquiryHistory.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}/history", bookingHistory.Handle).Methods(http.MethodGet)
	api.HandleFunc("/availability/check", checkAvailability.Handle).Methods(http.MethodPost)

	// запись: admin, manager и sales
	writers := api.NewRoute().Subrouter()
	writers.Use(middleware.RequireRoles(domain.WriterRoles...))
	writers.HandleFunc("/enquiries", createEnquiry.Handle).Methods(http.MethodPost)
	writers.HandleFunc("/enquiries/{enquiryId}", updateEnquiry.Handle).Methods(http.MethodPut)
	writers.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// смена статуса и отмена: admin и manager
	supervisors := api.NewRoute().Subrouter()
	supervisors.Use(middleware.RequireRoles(domain.SupervisorRoles...))
	supervisors.HandleFunc("/enquiries/{enquiryId}/status", changeStatus.Handle).Methods(http.MethodPatch)
	supervisors.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	return r
}
