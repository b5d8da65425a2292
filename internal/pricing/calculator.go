package pricing

import (
	"fmt"
	"math"
	"time"

	"github.com/m04kA/MFB-BookingService/internal/domain"
)

// Options параметры расчёта, действующие для всего запроса.
// Наценки по умолчанию нулевые - объект должен явно включить их в реестре
type Options struct {
	WeekendSurchargePct float64
	EveningSurchargePct float64
	EveningStartHour    int // 0 = domain.DefaultEveningStartHour
	AttendeeCount       int
}

// Calculate вычисляет детерминированный breakdown цены для набора вхождений.
// Каждое вхождение считается независимо, после чего суммируется в агрегатный
// breakdown; повхожденческие breakdown-ы остаются доступными без потерь.
//
// Порядок строк фиксированный: base, скидка по типу заявителя, наценка
// выходного/вечера, НДС. НДС идёт отдельной строкой от промежуточной суммы
// и никогда не прячется в base.
//
// evaluationTime зарезервировано под промо-окна и на расчёт сейчас не влияет:
// одинаковые входы всегда дают байт-в-байт одинаковый breakdown
func Calculate(zone domain.Zone, occurrences []domain.BookingOccurrence, actor domain.ActorType, opts Options, evaluationTime time.Time) (domain.PriceBreakdown, error) {
	discountPct, ok := domain.DiscountTable[actor]
	if !ok {
		return domain.PriceBreakdown{}, fmt.Errorf("%w: %q", domain.ErrUnknownActorType, actor)
	}

	eveningStart := opts.EveningStartHour
	if eveningStart == 0 {
		eveningStart = domain.DefaultEveningStartHour
	}

	breakdown := domain.PriceBreakdown{
		PerOccurrence: make([]domain.OccurrencePrice, 0, len(occurrences)),
	}

	var totalBase, totalDiscount, totalSurcharge, totalVAT float64
	longestHours := 0.0

	for _, occ := range occurrences {
		occPrice := calculateOccurrence(zone, occ, actor, discountPct, opts, eveningStart)
		breakdown.PerOccurrence = append(breakdown.PerOccurrence, occPrice)

		for _, line := range occPrice.Lines {
			switch line.Kind {
			case domain.LineKindBase:
				totalBase += line.Amount
			case domain.LineKindDiscount:
				totalDiscount += line.Amount
			case domain.LineKindSurcharge:
				totalSurcharge += line.Amount
			case domain.LineKindTax:
				totalVAT += line.Amount
			}
		}

		if hours := occ.DurationHours(); hours > longestHours {
			longestHours = hours
		}
	}

	breakdown.Lines = append(breakdown.Lines, domain.PriceLine{
		Label:  "base",
		Amount: round2(totalBase),
		Kind:   domain.LineKindBase,
	})
	if discountPct > 0 {
		breakdown.Lines = append(breakdown.Lines, domain.PriceLine{
			Label:  discountLabel(actor, discountPct),
			Amount: round2(totalDiscount),
			Kind:   domain.LineKindDiscount,
		})
	}
	if totalSurcharge != 0 {
		breakdown.Lines = append(breakdown.Lines, domain.PriceLine{
			Label:  "weekend/evening surcharge",
			Amount: round2(totalSurcharge),
			Kind:   domain.LineKindSurcharge,
		})
	}
	breakdown.Lines = append(breakdown.Lines, domain.PriceLine{
		Label:  vatLabel(),
		Amount: round2(totalVAT),
		Kind:   domain.LineKindTax,
	})

	breakdown.FinalPrice = round2(totalBase + totalDiscount + totalSurcharge + totalVAT)
	breakdown.RequiresApproval = requiresApproval(actor, longestHours, opts.AttendeeCount)

	return breakdown, nil
}

// calculateOccurrence считает независимый breakdown одного вхождения
func calculateOccurrence(zone domain.Zone, occ domain.BookingOccurrence, actor domain.ActorType, discountPct float64, opts Options, eveningStart int) domain.OccurrencePrice {
	base := round2(zone.PricePerHour * occ.DurationHours())

	lines := []domain.PriceLine{{
		Label:  "base",
		Amount: base,
		Kind:   domain.LineKindBase,
	}}

	discount := 0.0
	if discountPct > 0 {
		discount = -round2(base * discountPct / 100)
		lines = append(lines, domain.PriceLine{
			Label:  discountLabel(actor, discountPct),
			Amount: discount,
			Kind:   domain.LineKindDiscount,
		})
	}

	surcharge := 0.0
	if pct := surchargePct(occ, opts, eveningStart); pct > 0 {
		surcharge = round2(base * pct / 100)
		lines = append(lines, domain.PriceLine{
			Label:  "weekend/evening surcharge",
			Amount: surcharge,
			Kind:   domain.LineKindSurcharge,
		})
	}

	subtotal := base + discount + surcharge
	vat := round2(subtotal * domain.VATRatePct / 100)
	lines = append(lines, domain.PriceLine{
		Label:  vatLabel(),
		Amount: vat,
		Kind:   domain.LineKindTax,
	})

	return domain.OccurrencePrice{
		Occurrence: occ,
		Lines:      lines,
		Total:      round2(subtotal + vat),
	}
}

// surchargePct возвращает процент наценки для вхождения.
// Выходной и вечер не складываются - берётся больший из применимых процентов
func surchargePct(occ domain.BookingOccurrence, opts Options, eveningStart int) float64 {
	pct := 0.0
	if domain.TimeIsWeekend(occ.Start) && opts.WeekendSurchargePct > pct {
		pct = opts.WeekendSurchargePct
	}
	if domain.TimeIsEvening(occ.Start, eveningStart) && opts.EveningSurchargePct > pct {
		pct = opts.EveningSurchargePct
	}
	return pct
}

// requiresApproval вычисляет флаг согласования: отдельные типы заявителей
// всегда проходят workflow согласования, как и крупные бронирования
func requiresApproval(actor domain.ActorType, longestHours float64, attendees int) bool {
	if domain.ApprovalRequiredActors[actor] {
		return true
	}
	if longestHours > domain.ApprovalDurationThresholdHours {
		return true
	}
	if attendees > domain.ApprovalAttendeeThreshold {
		return true
	}
	return false
}

func discountLabel(actor domain.ActorType, pct float64) string {
	return fmt.Sprintf("%s discount %g%%", actor, pct)
}

func vatLabel() string {
	return fmt.Sprintf("vat %g%%", domain.VATRatePct)
}

// round2 округляет до 2 знаков (кроны и эре)
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
