package league

import (
	"strings"
	"time"
	"unicode"

	"league-registry/internal/model"
)

// validEmail accepts addresses with exactly one '@', no whitespace, a
// non-empty local part and a '.' inside the domain.
func validEmail(email string) bool {
	if strings.IndexFunc(email, unicode.IsSpace) >= 0 {
		return false
	}
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || strings.Contains(domain, "@") {
		return false
	}
	return len(domain) >= 3 && strings.Contains(domain[1:len(domain)-1], ".")
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func validDate(date string) bool {
	_, err := time.Parse(model.DateLayout, date)
	return err == nil
}
