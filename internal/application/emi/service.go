package emi

import (
	"fmt"
	"math"

	"github.com/carmarket-api/internal/domain"
)

// Calculator input caps. Figures are rupees and months.
const (
	MaxPrincipal    = 10000000
	MaxTenureMonths = 360
	MaxBreakdownLen = 12
)

type Request struct {
	Principal    float64 `json:"principal" validate:"required,gt=0"`
	AnnualRate   float64 `json:"annual_rate" validate:"gte=0,lte=100"`
	TenureMonths int     `json:"tenure_months" validate:"required,gt=0"`
}

type BreakdownRow struct {
	Month     int     `json:"month"`
	Principal float64 `json:"principal"`
	Interest  float64 `json:"interest"`
	Balance   float64 `json:"balance"`
}

type Result struct {
	MonthlyEMI    float64        `json:"monthly_emi"`
	TotalPayment  float64        `json:"total_payment"`
	TotalInterest float64        `json:"total_interest"`
	Breakdown     []BreakdownRow `json:"breakdown"`
}

type Service interface {
	Calculate(req Request) (*Result, error)
}

type service struct{}

func NewService() Service {
	return &service{}
}

// Calculate runs the standard amortization formula
// E = P*r*(1+r)^n / ((1+r)^n - 1) with a monthly rate r. A zero rate divides
// the principal evenly. The schedule covers at most the first year.
func (s *service) Calculate(req Request) (*Result, error) {
	if req.Principal <= 0 || req.Principal > MaxPrincipal {
		return nil, fmt.Errorf("principal must be between 1 and %d: %w", MaxPrincipal, domain.ErrBadRequest)
	}
	if req.TenureMonths <= 0 || req.TenureMonths > MaxTenureMonths {
		return nil, fmt.Errorf("tenure must be between 1 and %d months: %w", MaxTenureMonths, domain.ErrBadRequest)
	}
	if req.AnnualRate < 0 || req.AnnualRate > 100 {
		return nil, fmt.Errorf("rate must be between 0 and 100: %w", domain.ErrBadRequest)
	}

	n := float64(req.TenureMonths)
	var emi float64
	r := req.AnnualRate / 12 / 100
	if r == 0 {
		emi = req.Principal / n
	} else {
		pow := math.Pow(1+r, n)
		emi = req.Principal * r * pow / (pow - 1)
	}

	result := &Result{
		MonthlyEMI:    round2(emi),
		TotalPayment:  round2(emi * n),
		TotalInterest: round2(emi*n - req.Principal),
	}

	balance := req.Principal
	months := req.TenureMonths
	if months > MaxBreakdownLen {
		months = MaxBreakdownLen
	}
	for m := 1; m <= months; m++ {
		interest := balance * r
		principal := emi - interest
		balance -= principal
		if balance < 0 {
			balance = 0
		}
		result.Breakdown = append(result.Breakdown, BreakdownRow{
			Month:     m,
			Principal: round2(principal),
			Interest:  round2(interest),
			Balance:   round2(balance),
		})
		if balance == 0 {
			break
		}
	}
	return result, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
