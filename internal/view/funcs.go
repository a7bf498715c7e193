package view

import (
	"html/template"
	"net/url"
	"regexp"
	"strings"
	"time"

	"service-rider-web/internal/domain"
	"service-rider-web/internal/format"
)

var badgeClasses = map[domain.OrderStatus]string{
	domain.OrderPending:     "badge-yellow",
	domain.OrderPaid:        "badge-blue",
	domain.OrderProcessing:  "badge-purple",
	domain.OrderShipped:     "badge-indigo",
	domain.OrderDelivered:   "badge-green",
	domain.OrderUndelivered: "badge-red",
	domain.OrderCancelled:   "badge-gray",
	domain.OrderRefunded:    "badge-orange",
}

// BadgeClass returns the css class of the status badge.
func BadgeClass(s domain.OrderStatus) string {
	if c, ok := badgeClasses[s]; ok {
		return c
	}
	return "badge-gray"
}

var telStrip = regexp.MustCompile(`[^\d+]`)

// TelURL builds a tel: link, or "" when the number has no digits.
func TelURL(phone string) template.URL {
	p := telStrip.ReplaceAllString(phone, "")
	if strings.Trim(p, "+") == "" {
		return ""
	}
	return template.URL("tel:" + p)
}

// MapsURL points an external maps app at the shipping address.
func MapsURL(a domain.Address) string {
	q := format.Address(a)
	if q == "" {
		return ""
	}
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(q)
}

func timeOf(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"currency":    format.Currency,
		"date":        format.Date,
		"time":        format.Time,
		"datetime":    format.DateTime,
		"address":     format.Address,
		"phone":       format.Phone,
		"relative":    format.RelativeTime,
		"statusLabel": format.OrderStatus,
		"distance":    format.Distance,
		"duration":    format.Duration,
		"percentage":  format.Percentage,
		"badge":       BadgeClass,
		"tel":         TelURL,
		"maps":        MapsURL,
		"deref":       timeOf,
		"add":         func(a, b int) int { return a + b },
	}
}
