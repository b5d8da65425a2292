package facilityregistry

// Facility модель объекта из реестра муниципальных объектов
type Facility struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Active   bool    `json:"active"`
	Managers []int64 `json:"managers"` // пользователи с правами администратора объекта

	// Тарифная политика объекта. Наценки по умолчанию нулевые,
	// объект включает их явно
	WeekendSurchargePct float64 `json:"weekend_surcharge_pct"`
	EveningSurchargePct float64 `json:"evening_surcharge_pct"`
	EveningStartHour    int     `json:"evening_start_hour"`
}

// DegradedFacility возвращает заглушку объекта для graceful degradation:
// нулевые наценки, пустой список администраторов
func DegradedFacility(facilityID int64) *Facility {
	return &Facility{ID: facilityID, Active: true}
}

// IsManager проверяет, является ли пользователь администратором объекта
func (f *Facility) IsManager(userID int64) bool {
	for _, id := range f.Managers {
		if id == userID {
			return true
		}
	}
	return false
}

// ErrorResponse модель ошибки от реестра объектов
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
