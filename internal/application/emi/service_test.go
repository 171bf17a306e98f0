package emi

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carmarket-api/internal/domain"
)

func TestCalculate_StandardLoan(t *testing.T) {
	svc := NewService()
	result, err := svc.Calculate(Request{Principal: 500000, AnnualRate: 10, TenureMonths: 60})

	require.NoError(t, err)
	assert.InDelta(t, 10623.52, result.MonthlyEMI, 0.01)
	assert.InDelta(t, result.MonthlyEMI*60, result.TotalPayment, 1)
	assert.InDelta(t, result.TotalPayment-500000, result.TotalInterest, 1)
}

func TestCalculate_ZeroRateSplitsEvenly(t *testing.T) {
	svc := NewService()
	result, err := svc.Calculate(Request{Principal: 120000, AnnualRate: 0, TenureMonths: 12})

	require.NoError(t, err)
	assert.Equal(t, 10000.0, result.MonthlyEMI)
	assert.Equal(t, 120000.0, result.TotalPayment)
	assert.Equal(t, 0.0, result.TotalInterest)
}

func TestCalculate_BreakdownCappedAtOneYear(t *testing.T) {
	svc := NewService()
	result, err := svc.Calculate(Request{Principal: 500000, AnnualRate: 9.5, TenureMonths: 84})

	require.NoError(t, err)
	require.Len(t, result.Breakdown, MaxBreakdownLen)
	assert.Equal(t, 1, result.Breakdown[0].Month)
	assert.Equal(t, MaxBreakdownLen, result.Breakdown[11].Month)
	assert.Less(t, result.Breakdown[11].Balance, result.Breakdown[0].Balance)
}

func TestCalculate_ShortTenureBreakdownMatchesTenure(t *testing.T) {
	svc := NewService()
	result, err := svc.Calculate(Request{Principal: 60000, AnnualRate: 12, TenureMonths: 6})

	require.NoError(t, err)
	require.Len(t, result.Breakdown, 6)
	assert.Equal(t, 0.0, result.Breakdown[5].Balance)
}

func TestCalculate_RejectsOutOfRangeInputs(t *testing.T) {
	svc := NewService()
	cases := []Request{
		{Principal: 0, AnnualRate: 10, TenureMonths: 12},
		{Principal: MaxPrincipal + 1, AnnualRate: 10, TenureMonths: 12},
		{Principal: 100000, AnnualRate: 10, TenureMonths: 0},
		{Principal: 100000, AnnualRate: 10, TenureMonths: MaxTenureMonths + 1},
		{Principal: 100000, AnnualRate: -1, TenureMonths: 12},
		{Principal: 100000, AnnualRate: 101, TenureMonths: 12},
	}
	for _, req := range cases {
		_, err := svc.Calculate(req)
		assert.True(t, errors.Is(err, domain.ErrBadRequest), "request %+v", req)
	}
}
