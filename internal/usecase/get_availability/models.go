package get_availability

import "time"

// Request модель запроса на получение доступности зоны на дату
type Request struct {
	FacilityID int64     // ID объекта
	ZoneID     int64     // ID зоны
	Date       time.Time // Дата (без времени)
}

// Response модель ответа со списком слотов и их доступностью
type Response struct {
	Date       time.Time // Дата, на которую запрашивалась доступность
	FacilityID int64     // ID объекта
	ZoneID     int64     // ID зоны
	Slots      []Slot    // Слоты дня в порядке возрастания времени начала
}

// Slot один кандидатный слот дня.
// Занятый слот несёт тип конфликта: слот может быть занят бронированием
// самой зоны, родительской зоны или любой из подзон
type Slot struct {
	Label     string    // Метка слота "HH:MM-HH:MM"
	StartTime time.Time // Начало слота
	EndTime   time.Time // Конец слота
	Available bool      // Свободен ли слот

	ConflictType string // same-zone | ancestor | descendant, пусто для свободных
}
