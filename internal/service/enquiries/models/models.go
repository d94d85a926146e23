package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BanquetService/internal/domain"
	conflictModels "github.com/m04kA/SMC-BanquetService/internal/service/conflicts/models"
)

// ErrInvalidStatus возвращается для неизвестного статуса заявки
var ErrInvalidStatus = errors.New("invalid enquiry status")

// ListEnquiriesRequest модель запроса списка заявок
type ListEnquiriesRequest struct {
	Status *string
	Limit  uint64
	Offset uint64
}

// ToDomainFilter конвертирует запрос в фильтр хранилища без пагинации
func (r *ListEnquiriesRequest) ToDomainFilter() (domain.EnquiryFilter, error) {
	var filter domain.EnquiryFilter
	if r.Status != nil {
		status, ok := domain.ParseEnquiryStatus(*r.Status)
		if !ok {
			return filter, fmt.Errorf("%w: %q", ErrInvalidStatus, *r.Status)
		}
		filter.Status = &status
	}
	return filter, nil
}

// EnquiryResponse модель ответа с заявкой
type EnquiryResponse struct {
	ID            int64                            `json:"id"`
	EnquiryNumber string                           `json:"enquiryNumber"`
	ClientName    string                           `json:"clientName"`
	ClientPhone   string                           `json:"clientPhone"`
	ClientEmail   string                           `json:"clientEmail"`
	EventType     string                           `json:"eventType"`
	Status        string                           `json:"status"`
	QuotedAmount  string                           `json:"quotedAmount"`
	Notes         *string                          `json:"notes,omitempty"`
	CreatedBy     int64                            `json:"createdBy"`
	Sessions      []conflictModels.SessionResponse `json:"sessions"`
	CreatedAt     time.Time                        `json:"createdAt"`
	UpdatedAt     time.Time                        `json:"updatedAt"`
}

// EnquiryListResponse модель ответа со списком заявок
type EnquiryListResponse struct {
	Enquiries []EnquiryResponse `json:"enquiries"`
}

// AuditEntryResponse одна строка журнала изменений
type AuditEntryResponse struct {
	Action    string                 `json:"action"`
	ActorID   int64                  `json:"actorId"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}

// HistoryResponse журнал изменений записи
type HistoryResponse struct {
	Entries []AuditEntryResponse `json:"entries"`
}

// FromDomainEnquiry конвертирует domain.Enquiry в DTO
func FromDomainEnquiry(e *domain.Enquiry) *EnquiryResponse {
	if e == nil {
		return nil
	}
	return &EnquiryResponse{
		ID:            e.ID,
		EnquiryNumber: e.EnquiryNumber,
		ClientName:    e.ClientName,
		ClientPhone:   e.ClientPhone,
		ClientEmail:   e.ClientEmail,
		EventType:     e.EventType,
		Status:        string(e.Status),
		QuotedAmount:  e.QuotedAmount.StringFixed(2),
		Notes:         e.Notes,
		CreatedBy:     e.CreatedBy,
		Sessions:      conflictModels.FromDomainSessions(e.Sessions),
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

// FromDomainEnquiryList конвертирует список, никогда не возвращает nil
func FromDomainEnquiryList(enquiries []*domain.Enquiry) *EnquiryListResponse {
	resp := &EnquiryListResponse{Enquiries: make([]EnquiryResponse, 0, len(enquiries))}
	for _, e := range enquiries {
		resp.Enquiries = append(resp.Enquiries, *FromDomainEnquiry(e))
	}
	return resp
}

// FromDomainAudit конвертирует журнал изменений
func FromDomainAudit(entries []*domain.AuditEntry) *HistoryResponse {
	resp := &HistoryResponse{Entries: make([]AuditEntryResponse, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, AuditEntryResponse{
			Action:    e.Action,
			ActorID:   e.ActorID,
			Metadata:  e.Metadata,
			CreatedAt: e.CreatedAt,
		})
	}
	return resp
}
