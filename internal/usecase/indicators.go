package usecase

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"RetailPulse/internal/domain/models"
)

// Marker glyphs shown on the POS display.
const (
	markerNegative = "\U0001F922" // 🤢
	markerOnTarget = "\U0001F3AF" // 🎯
	markerUnit     = "\U0001F352" // 🍒
	markerAhead    = "\U0001F603" // 😃
)

// revenueBands maps the revenue percentage deviation to a display glyph,
// ordered from far above baseline to far below.
var revenueBands = []struct {
	above  int
	marker string
}{
	{20, "\U0001F911"},          // 🤑
	{10, "\U0001F603"},          // 😃
	{0, "\U0001F604"},           // 😄
	{-5, "\U0001F612"},          // 😒
	{-10, "\U0001F625"},         // 😥
	{-15, "\U0001F633"},         // 😳
	{-18, "\U0001F61F"},         // 😟
	{-20, "\U0001F4A9"},         // 💩
	{-22, "\U0001F620"},         // 😠
	{-24, "\U0001F621"},         // 😡
	{-25, "\U0001F92C"},         // 🤬
	{-30, markerNegative},       // 🤢
	{math.MinInt32, markerNegative}, // 🤢
}

// ComputeBackOrderSignal derives the back-order balance signal. The text
// carries the full arithmetic so the balance can be audited on the display.
func ComputeBackOrderSignal(outletID int64, item *models.TrackedItem) models.Signal {
	b := item.BackOrder
	balance := b.Balance()

	var marker string
	severity := models.SeverityNeutral
	size := 12
	switch {
	case balance < 0:
		marker = markerNegative
		severity = models.SeverityNegative
		size = 17
	case balance == 0:
		marker = markerOnTarget
		severity = models.SeverityPositive
	default:
		marker = strings.Repeat(markerUnit, int(math.Min(5, math.Floor(balance))))
	}

	text := fmt.Sprintf("%s%s = %s - %s - %s",
		marker,
		formatUnits(balance),
		formatUnits(b.UnitsServed),
		formatUnits(b.UnitsSold),
		formatUnits(b.UnitsOnOrder),
	)

	return models.Signal{
		OutletID: outletID,
		ItemKey:  item.Key,
		Text:     text,
		FontSize: size,
		Severity: severity,
	}
}

// ComputeSalesTargetSignal advances the item's history cursor up to nowMinute
// and derives the sold-vs-target signal.
func ComputeSalesTargetSignal(outletID int64, item *models.TrackedItem, nowMinute int) models.Signal {
	st := item.SalesTarget
	st.CursorMinute, st.PriorWeekCarried, _ = advanceCursor(
		st.History, st.CursorMinute, nowMinute, st.PriorWeekCarried, 0)

	diff := int(math.Floor(st.SoldToday - st.Target))

	var marker string
	severity := models.SeverityNeutral
	switch {
	case diff >= 0:
		marker = markerAhead
		severity = models.SeverityPositive
	case diff >= -5:
		marker = strings.Repeat(markerUnit, -diff)
	default:
		marker = markerNegative
		severity = models.SeverityNegative
	}

	return models.Signal{
		OutletID: outletID,
		ItemKey:  item.Key,
		Text:     marker,
		FontSize: 20,
		Severity: severity,
	}
}

// ComputeRevenueSignal advances the revenue history cursor up to nowMinute,
// folding both today's and prior-week bucket amounts into the accumulators,
// then bands the percentage deviation from the prior-week baseline.
func ComputeRevenueSignal(outletID int64, item *models.TrackedItem, nowMinute int) models.Signal {
	rv := item.Revenue
	rv.CursorMinute, rv.PriorWeekCarried, rv.RevenueToday = advanceCursor(
		rv.History, rv.CursorMinute, nowMinute, rv.PriorWeekCarried, rv.RevenueToday)

	baseline := rv.PriorWeekCarried
	if baseline == 0 {
		baseline = 1
	}
	pctDiff := int(math.Floor(rv.RevenueToday/baseline*100)) - 100
	absoluteDiff := math.Round(rv.RevenueToday - rv.PriorWeekCarried)

	marker := revenueBands[len(revenueBands)-1].marker
	for _, band := range revenueBands {
		if pctDiff > band.above {
			marker = band.marker
			break
		}
	}

	severity := models.SeverityNeutral
	size := 17
	if pctDiff < 0 {
		severity = models.SeverityNegative
		size = 20
	}

	return models.Signal{
		OutletID: outletID,
		ItemKey:  item.Key,
		Text:     fmt.Sprintf("%s %d", marker, int(absoluteDiff)),
		FontSize: size,
		Severity: severity,
	}
}

// advanceCursor folds history buckets that opened after the cursor and have
// already closed (bucket minute strictly before nowMinute) into the carried
// prior-week baseline and, when todayAcc is tracked, today's accumulator.
// Each bucket contributes at most once: the cursor is monotone and a bucket
// at or before it is never re-added.
func advanceCursor(history []models.HistoryBucket, cursor, nowMinute int, priorAcc, todayAcc float64) (int, float64, float64) {
	for _, h := range history {
		if h.Minute > cursor && h.Minute < nowMinute {
			priorAcc += h.AmountPriorWeek
			todayAcc += h.AmountToday
			cursor = h.Minute
		}
	}
	return cursor, priorAcc, todayAcc
}

func formatUnits(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
