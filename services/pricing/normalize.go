package pricing

import (
	"strings"

	"receptionist/models"
)

// Normalize collapses the overlapping request fields into one request shape.
// Quantity takes the first present of quantity, number_of_people, number_of_rooms,
// number_of_vehicles; absent or non-positive values default to 1.
func Normalize(args models.QuoteRequestArgs) models.NormalizedQuoteRequest {
	req := models.NormalizedQuoteRequest{
		Quantity: 1,
		JobScope: strings.TrimSpace(args.JobScope),
	}
	for _, q := range []*int{args.Quantity, args.NumberOfPeople, args.NumberOfRooms, args.NumberOfVehicles} {
		if q != nil {
			if *q > 0 {
				req.Quantity = *q
			}
			break
		}
	}

	req.Pickups = mergeAddresses(args.PickupAddress, args.PickupAddresses)
	req.Dropoffs = mergeAddresses(args.DropoffAddress, args.DropoffAddresses)
	req.ServiceAddresses = mergeAddresses(args.ServiceAddress, nil)
	req.CustomerAddresses = mergeAddresses(args.CustomerAddress, args.CustomerAddresses)
	return req
}

// mergeAddresses puts the singular field first, then the list, dropping blanks and repeats.
func mergeAddresses(single string, many []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, a := range append([]string{single}, many...) {
		a = strings.TrimSpace(a)
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}
