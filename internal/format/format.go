// Package format turns raw API values into the strings shown on rider screens.
// All functions are pure and safe for concurrent use.
package format

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"service-rider-web/internal/domain"
)

const (
	dateLayout     = "Jan 2, 2006"
	timeLayout     = "3:04 PM"
	dateTimeLayout = "Jan 2, 2006, 3:04 PM"
)

// Currency renders a USD amount with two decimals and digit grouping, e.g. "$1,234.50".
func Currency(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return sign + "$" + humanize.FormatFloat("#,###.##", amount)
}

// Date renders "Jan 2, 2006"; the zero time renders as "".
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// Time renders "3:04 PM"; the zero time renders as "".
func Time(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}

// DateTime renders "Jan 2, 2006, 3:04 PM"; the zero time renders as "".
func DateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateTimeLayout)
}

// Address joins street, city and "state zip", skipping empty parts.
func Address(a domain.Address) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{
		a.Street,
		a.City,
		strings.TrimSpace(a.State + " " + a.ZipCode),
	} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

var nonDigits = regexp.MustCompile(`\D`)

// Phone renders 10-digit numbers as "(123) 456-7890" and 11-digit numbers as
// "+1 234 567 8901". Anything else is returned unchanged.
func Phone(phone string) string {
	if phone == "" {
		return ""
	}
	d := nonDigits.ReplaceAllString(phone, "")
	switch len(d) {
	case 10:
		return fmt.Sprintf("(%s) %s-%s", d[:3], d[3:6], d[6:])
	case 11:
		return fmt.Sprintf("+%s %s %s %s", d[:1], d[1:4], d[4:7], d[7:])
	default:
		return phone
	}
}

// RelativeTime renders t relative to now ("just now", "5 minutes ago", "1 day ago").
// Anything a week or older falls back to Date.
func RelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	secs := int64(math.Floor(now.Sub(t).Seconds()))
	if secs < 60 {
		return "just now"
	}
	mins := secs / 60
	if mins < 60 {
		return plural(mins, "minute") + " ago"
	}
	hours := mins / 60
	if hours < 24 {
		return plural(hours, "hour") + " ago"
	}
	days := hours / 24
	if days < 7 {
		return plural(days, "day") + " ago"
	}
	return Date(t)
}

func plural(n int64, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.FormatInt(n, 10) + " " + unit + "s"
}

var statusLabels = map[domain.OrderStatus]string{
	domain.OrderPending:     "Pending",
	domain.OrderPaid:        "Paid",
	domain.OrderProcessing:  "Processing",
	domain.OrderShipped:     "In Transit",
	domain.OrderDelivered:   "Delivered",
	domain.OrderUndelivered: "Undelivered",
	domain.OrderCancelled:   "Cancelled",
	domain.OrderRefunded:    "Refunded",
}

// OrderStatus returns the display label; unknown statuses are returned verbatim.
func OrderStatus(status domain.OrderStatus) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return string(status)
}

// Distance renders meters as "500 m" below one kilometre and "1.5 km" above.
func Distance(meters float64) string {
	if meters == 0 || math.IsNaN(meters) {
		return "0 km"
	}
	km := meters / 1000
	if km < 1 {
		return fmt.Sprintf("%d m", int64(jsRound(meters)))
	}
	return fmt.Sprintf("%.1f km", km)
}

// Duration renders seconds as "1h 5m" or "12 min".
func Duration(seconds int) string {
	if seconds == 0 {
		return "0 min"
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%d min", minutes)
}

// Percentage renders value/total as a whole percentage; a zero total renders "0%".
func Percentage(value, total float64) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%d%%", int64(jsRound(value/total*100)))
}

// jsRound rounds half up, matching the browser's Math.round.
func jsRound(x float64) float64 {
	return math.Floor(x + 0.5)
}
