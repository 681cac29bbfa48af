package checkout

import (
	"fmt"
	"strings"

	"github.com/FagneAlmeida/e-turboost.site/internal/domain"
)

// Format checks only; the server revalidates everything on submission.

func validateCustomer(c domain.Customer) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("customer name is required")
	}
	email := strings.TrimSpace(c.Email)
	at := strings.Index(email, "@")
	if at < 1 || !strings.Contains(email[at:], ".") {
		return fmt.Errorf("customer email %q is not valid", c.Email)
	}
	return nil
}

func validateAddress(a domain.Address) error {
	if !isDigits(a.PostalCode) || len(a.PostalCode) != 8 {
		return fmt.Errorf("postal code must have exactly 8 digits")
	}
	if strings.TrimSpace(a.Street) == "" {
		return fmt.Errorf("street is required")
	}
	if strings.TrimSpace(a.Number) == "" {
		return fmt.Errorf("street number is required")
	}
	if strings.TrimSpace(a.City) == "" {
		return fmt.Errorf("city is required")
	}
	if strings.TrimSpace(a.State) == "" {
		return fmt.Errorf("state is required")
	}
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
