package conflict

import (
	"time"

	"github.com/m04kA/MFB-BookingService/internal/domain"
	"github.com/m04kA/MFB-BookingService/internal/zones"
)

// Type тип конфликта для пользовательских сообщений
type Type string

const (
	// TypeSameZone существующее бронирование занимает ту же зону
	TypeSameZone Type = "same-zone"
	// TypeAncestor существующее бронирование занимает родительскую зону
	// (бронь всего объекта блокирует подзоны)
	TypeAncestor Type = "ancestor"
	// TypeDescendant существующее бронирование занимает подзону
	// (бронь подзоны блокирует зону всего объекта)
	TypeDescendant Type = "descendant"
)

// Conflict описывает найденное пересечение с существующим бронированием
type Conflict struct {
	BookingID int64
	Type      Type
}

// Result результат проверки одного вхождения.
// Conflict == nil означает, что вхождение свободно
type Result struct {
	Occurrence domain.BookingOccurrence
	Conflict   *Conflict
}

// CheckConflict проверяет одно вхождение против снимка существующих бронирований.
// Два интервала конфликтуют только при настоящем пересечении полуоткрытых
// интервалов: касание границ (одно заканчивается ровно там, где начинается
// другое) конфликтом не считается.
//
// Межзонное правило: кандидат на зону Z конфликтует с бронированиями самой Z,
// любого предка Z и любого потомка Z. Соседние подзоны не конфликтуют
func CheckConflict(containment zones.Containment, start, end time.Time, existing []*domain.Booking) *Conflict {
	ancestors := make(map[int64]bool, len(containment.Ancestors))
	for _, id := range containment.Ancestors {
		ancestors[id] = true
	}
	descendants := make(map[int64]bool, len(containment.Descendants))
	for _, id := range containment.Descendants {
		descendants[id] = true
	}

	for _, booking := range existing {
		// Отменённые и отклонённые бронирования не блокируют слоты
		if !booking.BlocksSlot() {
			continue
		}

		var conflictType Type
		switch {
		case booking.ZoneID == containment.Self:
			conflictType = TypeSameZone
		case ancestors[booking.ZoneID]:
			conflictType = TypeAncestor
		case descendants[booking.ZoneID]:
			conflictType = TypeDescendant
		default:
			continue
		}

		if domain.Overlaps(start, end, booking.StartTime, booking.EndTime) {
			return &Conflict{BookingID: booking.ID, Type: conflictType}
		}
	}

	return nil
}

// CheckConflicts проверяет пакет вхождений против одного снимка бронирований.
// Каждое вхождение оценивается независимо: результат не зависит от соседних
// вхождений того же запроса. Возвращается ровно один результат на вход,
// порядок сохраняется - вызывающий код может сообщить "3 из 10 слотов заняты"
func CheckConflicts(hierarchy *zones.Hierarchy, occurrences []domain.BookingOccurrence, existing []*domain.Booking) ([]Result, error) {
	results := make([]Result, 0, len(occurrences))

	for _, occ := range occurrences {
		containment, err := hierarchy.ResolveContainment(occ.ZoneID)
		if err != nil {
			return nil, err
		}

		results = append(results, Result{
			Occurrence: occ,
			Conflict:   CheckConflict(containment, occ.Start, occ.End, existing),
		})
	}

	return results, nil
}

// Partition разбивает результаты пакетной проверки на свободные и конфликтные
func Partition(results []Result) (clean []domain.BookingOccurrence, conflicted []Result) {
	clean = make([]domain.BookingOccurrence, 0, len(results))
	conflicted = make([]Result, 0)

	for _, res := range results {
		if res.Conflict == nil {
			clean = append(clean, res.Occurrence)
		} else {
			conflicted = append(conflicted, res)
		}
	}

	return clean, conflicted
}
