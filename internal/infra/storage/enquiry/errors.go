package enquiry

import "errors"

var (
	// ErrEnquiryNotFound возвращается, когда заявка не найдена
	ErrEnquiryNotFound = errors.New("enquiry.repository: enquiry not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("enquiry.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("enquiry.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("enquiry.repository: failed to scan row")

	// ErrStatusChanged возвращается, когда сохраненный статус уже не совпадает с ожидаемым
	ErrStatusChanged = errors.New("enquiry.repository: status changed concurrently")

	// ErrDuplicateNumber возвращается, когда номер заявки уже занят
	ErrDuplicateNumber = errors.New("enquiry.repository: enquiry number already exists")
)
