package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

func parseDate(flag, value string) (time.Time, error) {
	d, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s date %q (use YYYY-MM-DD)", flag, value)
	}
	return d, nil
}

func parseOptionalDate(flag, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	d, err := parseDate(flag, value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// dateOrToday parses value, defaulting to today's UTC date when empty.
func dateOrToday(flag, value string) (time.Time, error) {
	if value == "" {
		y, m, d := time.Now().UTC().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return parseDate(flag, value)
}

func validateOptionalDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}

func validateRequiredDate(s string) error {
	if s == "" {
		return fmt.Errorf("required")
	}
	return validateOptionalDate(s)
}

func validateNonNegativeFloat(s string) error {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return fmt.Errorf("enter a non-negative amount")
	}
	return nil
}

func errUsage(cmd *cobra.Command, msg string) error {
	return fmt.Errorf("%s (see %s --help)", msg, cmd.CommandPath())
}
