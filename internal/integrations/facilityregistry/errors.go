package facilityregistry

import "errors"

var (
	// ErrFacilityNotFound возвращается, когда объект не найден в реестре
	ErrFacilityNotFound = errors.New("facility not found in registry")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("facilityregistry client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от реестра
	ErrInvalidResponse = errors.New("facilityregistry client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Указывает, что реестр недоступен и следует использовать нулевые наценки
	ErrServiceDegraded = errors.New("facilityregistry unavailable: graceful degradation applied")
)
