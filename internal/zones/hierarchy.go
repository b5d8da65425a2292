package zones

import (
	"errors"
	"fmt"
	"sort"

	"github.com/m04kA/MFB-BookingService/internal/domain"
)

var (
	// ErrUnknownZone возвращается, когда зона не входит в набор зон объекта
	ErrUnknownZone = errors.New("zones: unknown zone")

	// ErrInvalidHierarchy возвращается при некорректной структуре зон
	// (битая ссылка на родителя, вложенность глубже одного уровня)
	ErrInvalidHierarchy = errors.New("zones: invalid zone hierarchy")
)

// Containment полная цепочка вложенности зоны, нужная детектору конфликтов
type Containment struct {
	Self        int64
	Ancestors   []int64 // для подзоны - [id главной зоны]
	Descendants []int64 // для главной зоны - все подзоны
}

// Related возвращает все зоны, бронирования которых могут конфликтовать
// с бронированием данной зоны (сама зона, предки, потомки)
func (c Containment) Related() []int64 {
	related := make([]int64, 0, 1+len(c.Ancestors)+len(c.Descendants))
	related = append(related, c.Self)
	related = append(related, c.Ancestors...)
	related = append(related, c.Descendants...)
	return related
}

// Hierarchy структурная модель зон одного объекта
// Строится один раз из снимка зон и далее только читается
type Hierarchy struct {
	byID     map[int64]domain.Zone
	children map[int64][]int64
}

// NewHierarchy строит иерархию из набора зон объекта
// Проверяет инварианты: родитель подзоны существует, является главной зоной
// и вложенность не глубже одного уровня
func NewHierarchy(zoneList []domain.Zone) (*Hierarchy, error) {
	h := &Hierarchy{
		byID:     make(map[int64]domain.Zone, len(zoneList)),
		children: make(map[int64][]int64),
	}

	for _, z := range zoneList {
		h.byID[z.ID] = z
	}

	for _, z := range zoneList {
		if z.ParentZoneID == nil {
			continue
		}

		parent, ok := h.byID[*z.ParentZoneID]
		if !ok {
			return nil, fmt.Errorf("%w: zone %d references missing parent %d", ErrInvalidHierarchy, z.ID, *z.ParentZoneID)
		}
		if parent.ParentZoneID != nil {
			return nil, fmt.Errorf("%w: zone %d is nested deeper than one level", ErrInvalidHierarchy, z.ID)
		}
		if !parent.IsMainZone {
			return nil, fmt.Errorf("%w: zone %d references non-main parent %d", ErrInvalidHierarchy, z.ID, parent.ID)
		}

		h.children[parent.ID] = append(h.children[parent.ID], z.ID)
	}

	// Детерминированный порядок потомков
	for _, ids := range h.children {
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	}

	return h, nil
}

// Zone возвращает зону по ID
func (h *Hierarchy) Zone(zoneID int64) (domain.Zone, error) {
	z, ok := h.byID[zoneID]
	if !ok {
		return domain.Zone{}, fmt.Errorf("%w: id=%d", ErrUnknownZone, zoneID)
	}
	return z, nil
}

// ResolveContainment возвращает цепочку вложенности для зоны
func (h *Hierarchy) ResolveContainment(zoneID int64) (Containment, error) {
	z, ok := h.byID[zoneID]
	if !ok {
		return Containment{}, fmt.Errorf("%w: id=%d", ErrUnknownZone, zoneID)
	}

	c := Containment{Self: zoneID}

	if z.ParentZoneID != nil {
		c.Ancestors = []int64{*z.ParentZoneID}
	}

	if descendants, ok := h.children[zoneID]; ok {
		c.Descendants = append(c.Descendants, descendants...)
	}

	return c, nil
}
