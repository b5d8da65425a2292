package zones

import "errors"

var (
	// ErrZoneNotFound возвращается, когда зона не найдена
	ErrZoneNotFound = errors.New("zones.service: zone not found")

	// ErrFacilityHasNoZones возвращается, когда у объекта нет настроенных зон
	ErrFacilityHasNoZones = errors.New("zones.service: facility has no zones")

	// ErrInvalidRules возвращается при некорректных правилах бронирования
	ErrInvalidRules = errors.New("zones.service: invalid booking rules")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("zones.service: internal error")
)
