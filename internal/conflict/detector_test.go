package conflict

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/MFB-BookingService/internal/domain"
	"github.com/m04kA/MFB-BookingService/internal/zones"
)

func int64Ptr(v int64) *int64 { return &v }

// Иерархия: зона 1 - главная, зоны 2 и 3 - подзоны
func testHierarchy(t *testing.T) *zones.Hierarchy {
	t.Helper()

	h, err := zones.NewHierarchy([]domain.Zone{
		{ID: 1, IsMainZone: true},
		{ID: 2, ParentZoneID: int64Ptr(1)},
		{ID: 3, ParentZoneID: int64Ptr(1)},
	})
	require.NoError(t, err)
	return h
}

func at(hour int) time.Time {
	return time.Date(2026, 9, 14, hour, 0, 0, 0, time.UTC)
}

func booking(id, zoneID int64, startHour, endHour int, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:        id,
		ZoneID:    zoneID,
		StartTime: at(startHour),
		EndTime:   at(endHour),
		Status:    status,
	}
}

func containment(t *testing.T, h *zones.Hierarchy, zoneID int64) zones.Containment {
	t.Helper()

	c, err := h.ResolveContainment(zoneID)
	require.NoError(t, err)
	return c
}

func TestCheckConflict_SameZone(t *testing.T) {
	h := testHierarchy(t)
	existing := []*domain.Booking{booking(100, 2, 10, 12, domain.StatusConfirmed)}

	t.Run("overlapping interval conflicts", func(t *testing.T) {
		c := CheckConflict(containment(t, h, 2), at(11), at(13), existing)

		require.NotNil(t, c)
		assert.Equal(t, int64(100), c.BookingID)
		assert.Equal(t, TypeSameZone, c.Type)
	})

	t.Run("overlap is symmetric", func(t *testing.T) {
		c := CheckConflict(containment(t, h, 2), at(9), at(11), existing)

		require.NotNil(t, c)
		assert.Equal(t, TypeSameZone, c.Type)
	})

	t.Run("touching endpoints do not conflict", func(t *testing.T) {
		assert.Nil(t, CheckConflict(containment(t, h, 2), at(12), at(14), existing))
		assert.Nil(t, CheckConflict(containment(t, h, 2), at(8), at(10), existing))
	})
}

func TestCheckConflict_Hierarchy(t *testing.T) {
	h := testHierarchy(t)

	t.Run("main zone booking blocks sub-zone", func(t *testing.T) {
		existing := []*domain.Booking{booking(100, 1, 10, 12, domain.StatusConfirmed)}

		c := CheckConflict(containment(t, h, 2), at(10), at(12), existing)

		require.NotNil(t, c)
		assert.Equal(t, TypeAncestor, c.Type)
	})

	t.Run("sub-zone booking blocks main zone", func(t *testing.T) {
		existing := []*domain.Booking{booking(100, 2, 10, 12, domain.StatusPending)}

		c := CheckConflict(containment(t, h, 1), at(10), at(12), existing)

		require.NotNil(t, c)
		assert.Equal(t, TypeDescendant, c.Type)
	})

	t.Run("sibling sub-zones do not conflict", func(t *testing.T) {
		existing := []*domain.Booking{booking(100, 3, 10, 12, domain.StatusConfirmed)}

		assert.Nil(t, CheckConflict(containment(t, h, 2), at(10), at(12), existing))
	})
}

func TestCheckConflict_InactiveBookingsIgnored(t *testing.T) {
	h := testHierarchy(t)
	existing := []*domain.Booking{
		booking(100, 2, 10, 12, domain.StatusCancelled),
		booking(101, 2, 10, 12, domain.StatusRejected),
	}

	assert.Nil(t, CheckConflict(containment(t, h, 2), at(10), at(12), existing))
}

func TestCheckConflicts_IndependentPerOccurrence(t *testing.T) {
	h := testHierarchy(t)
	existing := []*domain.Booking{booking(100, 2, 10, 12, domain.StatusConfirmed)}

	occurrences := []domain.BookingOccurrence{
		{ZoneID: 2, Start: at(8), End: at(10)},
		{ZoneID: 2, Start: at(11), End: at(13)},
		{ZoneID: 3, Start: at(10), End: at(12)},
	}

	results, err := CheckConflicts(h, occurrences, existing)

	require.NoError(t, err)
	require.Len(t, results, 3)

	// Порядок результатов совпадает с порядком входа
	assert.Equal(t, occurrences[0], results[0].Occurrence)
	assert.Nil(t, results[0].Conflict)
	require.NotNil(t, results[1].Conflict)
	assert.Equal(t, TypeSameZone, results[1].Conflict.Type)
	assert.Nil(t, results[2].Conflict)
}

func TestCheckConflicts_UnknownZone(t *testing.T) {
	h := testHierarchy(t)

	_, err := CheckConflicts(h, []domain.BookingOccurrence{{ZoneID: 99, Start: at(10), End: at(12)}}, nil)

	assert.ErrorIs(t, err, zones.ErrUnknownZone)
}

func TestPartition(t *testing.T) {
	free := domain.BookingOccurrence{ZoneID: 2, Start: at(8), End: at(10)}
	busy := domain.BookingOccurrence{ZoneID: 2, Start: at(11), End: at(13)}

	results := []Result{
		{Occurrence: free},
		{Occurrence: busy, Conflict: &Conflict{BookingID: 100, Type: TypeSameZone}},
	}

	clean, conflicted := Partition(results)

	require.Len(t, clean, 1)
	assert.Equal(t, free, clean[0])
	require.Len(t, conflicted, 1)
	assert.Equal(t, busy, conflicted[0].Occurrence)
}
