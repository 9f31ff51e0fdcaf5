package reconciliation

import (
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/validator"
)

// RunRequest targets one calendar date; an empty date means yesterday.
type RunRequest struct {
	Date string `json:"date"`
}

func (r *RunRequest) Validate() error {
	if r.Date == "" {
		return nil
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		return validator.ValidationErrors{{Field: "date", Message: "date must be in YYYY-MM-DD format"}}
	}
	return nil
}
