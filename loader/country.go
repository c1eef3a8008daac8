package loader

import (
	"fmt"
	"strings"

	"github.com/biter777/countries"
)

// userAssigned holds codes the countries table carries that ISO 3166-1 has
// not assigned.
var userAssigned = map[string]struct{}{
	"XK": {},
}

var countryNames = func() map[string]string {
	names := make(map[string]string)
	for _, code := range countries.All() {
		if !code.IsValid() {
			continue
		}
		if _, ok := userAssigned[code.Alpha2()]; ok {
			continue
		}
		names[code.Alpha2()] = code.String()
	}
	return names
}()

// CountryName returns the English short name for an ISO 3166-1 alpha-2
// code. The lookup is case-insensitive.
func CountryName(code string) (string, error) {
	name, ok := countryNames[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return "", fmt.Errorf("%w: '%s'", ErrUnknownCountry, code)
	}
	return name, nil
}
