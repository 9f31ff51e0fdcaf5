package hourbank

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/hourbank"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/utils"
	"github.com/shopspring/decimal"
)

const maxRangeDays = 366

var minutesPerHour = decimal.NewFromInt(60)

type HourBankService struct {
	hourBankRepo hourbank.HourBankRepository
}

func NewHourBankService(hourBankRepo hourbank.HourBankRepository) hourbank.Service {
	return &HourBankService{hourBankRepo: hourBankRepo}
}

// Balance implements hourbank.Service.
func (s *HourBankService) Balance(ctx context.Context, req hourbank.BalanceRequest) (hourbank.BalanceResponse, error) {
	if err := req.Validate(); err != nil {
		return hourbank.BalanceResponse{}, err
	}

	from, _ := utils.ParseDate(req.From)
	to, _ := utils.ParseDate(req.To)
	if to.Sub(from).Hours()/24 >= maxRangeDays {
		return hourbank.BalanceResponse{}, hourbank.ErrRangeTooLarge
	}

	total, err := s.hourBankRepo.Sum(ctx, req.EmployeeID, from, to)
	if err != nil {
		return hourbank.BalanceResponse{}, fmt.Errorf("failed to sum hour bank: %w", err)
	}

	entries, err := s.hourBankRepo.List(ctx, req.EmployeeID, from, to)
	if err != nil {
		return hourbank.BalanceResponse{}, fmt.Errorf("failed to list hour bank entries: %w", err)
	}

	resp := hourbank.BalanceResponse{
		EmployeeID:   req.EmployeeID,
		From:         utils.FormatDate(from),
		To:           utils.FormatDate(to),
		TotalMinutes: total,
		TotalHours:   MinutesToHours(total),
		Entries:      make([]hourbank.EntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		if e.Minutes > 0 {
			resp.CreditMinutes += e.Minutes
		} else {
			resp.DebitMinutes += e.Minutes
		}
		resp.Entries = append(resp.Entries, hourbank.EntryResponse{
			Date:        utils.FormatDate(e.Date),
			Minutes:     e.Minutes,
			Description: e.Description,
			ProcessedAt: e.ProcessedAt,
		})
	}

	return resp, nil
}

// MinutesToHours converts a signed minute balance to hours, rounded to two
// decimal places.
func MinutesToHours(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(minutesPerHour).Round(2)
}
