package hourbank

import (
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type BalanceRequest struct {
	EmployeeID string
	From       string
	To         string
}

func (r *BalanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	from, fromOK := validator.IsValidDate(r.From)
	if !fromOK {
		errs = append(errs, validator.ValidationError{Field: "from", Message: "from must be in YYYY-MM-DD format"})
	}
	to, toOK := validator.IsValidDate(r.To)
	if !toOK {
		errs = append(errs, validator.ValidationError{Field: "to", Message: "to must be in YYYY-MM-DD format"})
	}
	if fromOK && toOK && to.Before(from) {
		errs = append(errs, validator.ValidationError{Field: "to", Message: "to must not be before from"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EntryResponse struct {
	Date        string    `json:"date"`
	Minutes     int       `json:"minutes"`
	Description string    `json:"description"`
	ProcessedAt time.Time `json:"processed_at"`
}

// BalanceResponse reports hours as decimals rounded to two places, e.g.
// -90 minutes is "-1.5".
type BalanceResponse struct {
	EmployeeID    string          `json:"employee_id"`
	From          string          `json:"from"`
	To            string          `json:"to"`
	TotalMinutes  int             `json:"total_minutes"`
	TotalHours    decimal.Decimal `json:"total_hours"`
	CreditMinutes int             `json:"credit_minutes"`
	DebitMinutes  int             `json:"debit_minutes"`
	Entries       []EntryResponse `json:"entries"`
}
