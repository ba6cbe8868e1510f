package history

import (
	"fmt"
	"time"
)

// deliveryOffset is the promised shipping window.
const deliveryOffset = 7 // days

// orderDateLayouts are tried in order when parsing the backend's
// recorded order date.
var orderDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// DeliveryDate derives the display date for an order: the recorded
// order date (now when absent or unparseable) plus seven days,
// rendered like "23rd March 2021".
func DeliveryDate(orderDate string, now time.Time) string {
	d := now
	for _, layout := range orderDateLayouts {
		if orderDate == "" {
			break
		}
		if parsed, err := time.Parse(layout, orderDate); err == nil {
			d = parsed
			break
		}
	}

	d = d.AddDate(0, 0, deliveryOffset)
	day := d.Day()
	return fmt.Sprintf("%d%s %s %d", day, ordinalSuffix(day), d.Month().String(), d.Year())
}

// ordinalSuffix follows English ordinals: st/nd/rd on last digit
// 1/2/3, except 11-13 which always take th.
func ordinalSuffix(day int) string {
	if v := day % 100; v >= 11 && v <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}
