package validators

import (
	"strconv"
	"time"

	pkgerrors "github.com/kantinapp/kantin-gateway/pkg/errors"
)

// MonthStart validates a YYYY-MM-01 month selector; an empty value defaults
// to the first day of the current month.
func MonthStart(value string) (string, error) {
	if value == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02"), nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "month must be a YYYY-MM-DD date")
	}
	return parsed.Format("2006-01-02"), nil
}

// IntParam parses a positive integer path parameter.
func IntParam(name, value string) (int, error) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, name+" must be a positive integer")
	}
	return parsed, nil
}
