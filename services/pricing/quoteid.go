package pricing

import (
	"fmt"
	"strings"

	"receptionist/models"
)

// QuoteID builds a readable id such as "Q12-house-move-3person".
func QuoteID(counter int64, service models.Service, breakdown models.ServiceBreakdown) string {
	return fmt.Sprintf("Q%d-%s-%s", counter, slugify(service.Name), tierDescriptor(service, breakdown))
}

func tierDescriptor(service models.Service, breakdown models.ServiceBreakdown) string {
	n := breakdown.Quantity
	if len(breakdown.Components) == 0 {
		return fallbackDescriptor(n)
	}
	line := breakdown.Components[0]
	tag := string(line.PricingCombination)

	switch {
	case strings.HasSuffix(tag, "_PER_PERSON"):
		return fmt.Sprintf("%dperson", n)
	case strings.HasSuffix(tag, "_PER_VEHICLE"):
		return fmt.Sprintf("%dvehicle", n)
	case strings.HasSuffix(tag, "_PER_TEAM"):
		return fmt.Sprintf("team%d", n)
	case strings.HasPrefix(tag, "SERVICE_"):
		for _, c := range service.PricingConfig.Components {
			if c.Name == line.Name && len(c.Tiers) > 1 {
				return fmt.Sprintf("tier%d", line.TierIndex+1)
			}
		}
	}
	return fallbackDescriptor(n)
}

func fallbackDescriptor(n int) string {
	if n <= 1 {
		return "single"
	}
	return fmt.Sprintf("%dx", n)
}

func slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if len(slug) > 24 {
		slug = strings.TrimSuffix(slug[:24], "-")
	}
	if slug == "" {
		return "service"
	}
	return slug
}
