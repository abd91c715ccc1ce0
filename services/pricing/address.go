package pricing

import (
	"strings"
	"unicode"

	"receptionist/models"

	"github.com/google/uuid"
)

// BuildAddresses lays out the route for a quote: the business base at sequence 0,
// then pickups, service and customer addresses, then dropoffs.
func BuildAddresses(baseAddress string, req models.NormalizedQuoteRequest, serviceID string) []models.BookingAddress {
	var out []models.BookingAddress
	add := func(addr string, role models.AddressRole) {
		a := models.BookingAddress{
			ID:            uuid.New().String(),
			Address:       addr,
			Role:          role,
			SequenceOrder: len(out),
		}
		if role != models.RoleBusinessBase {
			a.ServiceID = serviceID
		}
		out = append(out, a)
	}

	if base := strings.TrimSpace(baseAddress); base != "" {
		add(base, models.RoleBusinessBase)
	}
	for _, a := range req.Pickups {
		add(a, models.RolePickup)
	}
	for _, a := range req.ServiceAddresses {
		add(a, models.RoleService)
	}
	for _, a := range req.CustomerAddresses {
		add(a, models.RoleService)
	}
	for _, a := range req.Dropoffs {
		add(a, models.RoleDropoff)
	}
	return out
}

// AddressesFromSegments rebuilds a booking's address list from a quoted route.
func AddressesFromSegments(segments []models.RouteSegment, serviceID string) []models.BookingAddress {
	var out []models.BookingAddress
	add := func(addr string, role models.AddressRole) {
		out = append(out, models.BookingAddress{
			ID:            uuid.New().String(),
			Address:       addr,
			Role:          role,
			SequenceOrder: len(out),
			ServiceID:     serviceID,
		})
	}
	for i, seg := range segments {
		if i == 0 {
			add(seg.From, seg.FromRole)
		}
		if i == len(segments)-1 && seg.ToRole == models.RoleBusinessBase {
			break
		}
		add(seg.To, seg.ToRole)
	}
	for i := range out {
		if out[i].Role == models.RoleBusinessBase {
			out[i].ServiceID = ""
		}
	}
	return out
}

// ParseAddress splits "line1, city, state, postcode[, country]" and fills gaps from locale.
// "VIC 3000" in the state position is split into state and postcode.
func ParseAddress(raw string, locale models.Locale) models.ParsedAddress {
	var parts []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 3 || len(parts) == 4 {
		if fields := strings.Fields(parts[2]); len(fields) == 2 && isDigits(fields[1]) {
			parts = append([]string{parts[0], parts[1], fields[0], fields[1]}, parts[3:]...)
		}
	}

	at := func(i int, fallback string) string {
		if i < len(parts) {
			return parts[i]
		}
		return fallback
	}
	return models.ParsedAddress{
		Line1:    at(0, ""),
		City:     at(1, locale.City),
		State:    at(2, locale.State),
		Postcode: at(3, locale.Postcode),
		Country:  at(4, locale.Country),
	}
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
