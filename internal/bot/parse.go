package bot

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

const maxCityLen = 80

var errBadCity = errors.New("unusable city input")

// NormalizeCityInput trims free-form text down to something safe to pass
// to the geocoder. It rejects empty input, overlong input and input with
// no letters in it at all.
func NormalizeCityInput(text string) (string, error) {
	city := strings.Join(strings.Fields(text), " ")
	if city == "" || utf8.RuneCountInString(city) > maxCityLen {
		return "", errBadCity
	}

	hasLetter := false
	for _, r := range city {
		if unicode.IsLetter(r) {
			hasLetter = true
			break
		}
	}
	if !hasLetter {
		return "", errBadCity
	}
	return city, nil
}
