package services

import (
	"time"

	apperrors "gearguard/pkg/errors"
)

const dateLayout = "2006-01-02"

// parseDate converts an optional yyyy-mm-dd form value. Validation tags
// already enforce the layout; this guards the direct-call path too.
func parseDate(field string, value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *value)
	if err != nil {
		return nil, apperrors.NewValidationError(field, "invalid date %q, expected yyyy-mm-dd", *value)
	}
	return &t, nil
}
