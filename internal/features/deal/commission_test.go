package deal

import (
	"encoding/json"
	"testing"

	"estate-crm/internal/common/errs"
	"estate-crm/internal/common/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitCommission(t *testing.T) {
	cases := []struct {
		name    string
		price   string
		pct     string
		share   string
		agent   string
		company string
	}{
		{"reference deal", "285000", "3", "0.4", "8550.00", "3420.00"},
		{"fractional percentage", "199999.99", "2.5", "0.4", "5000.00", "2000.00"},
		{"tenant keeps a third", "100000", "3", "0.3333", "3000.00", "999.90"},
		{"no company share", "50000", "4", "0", "2000.00", "0.00"},
		{"three-place percentage", "100000", "2.875", "0.4", "2875.00", "1150.00"},
		{"sub-cent percentage", "1000000", "0.005", "0", "50.00", "0.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			split, err := SplitCommission(models.MustMoney(tc.price), models.MustRatio(tc.pct), decimal.RequireFromString(tc.share))
			require.NoError(t, err)
			assert.Equal(t, tc.agent, split.AgentCommission.String())
			assert.Equal(t, tc.company, split.CompanyCommission.String())
		})
	}
}

func TestSplitCommissionRejectsOutOfRange(t *testing.T) {
	_, err := SplitCommission(models.MustMoney("-1"), models.MustRatio("3"), decimal.RequireFromString("0.4"))
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	_, err = SplitCommission(models.MustMoney("1000"), models.MustRatio("101"), decimal.RequireFromString("0.4"))
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	_, err = SplitCommission(models.MustMoney("1000"), models.MustRatio("3"), decimal.RequireFromString("1.2"))
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestCommissionPercentageKeepsPrecision(t *testing.T) {
	var req CreateDealRequest
	require.NoError(t, json.Unmarshal([]byte(`{"salePrice":"100000","commissionPercentage":2.875}`), &req))
	assert.Equal(t, "2.875", req.CommissionPercentage.String())

	split, err := SplitCommission(req.SalePrice, req.CommissionPercentage, decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, "2875.00", split.AgentCommission.String())
}
