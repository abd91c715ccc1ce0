package pricing

import (
	"math"

	"receptionist/models"
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// gstComponent returns the GST portion for amount under the policy.
func gstComponent(amount float64, policy models.FeePolicy) float64 {
	if policy.GSTRate <= 0 {
		return 0
	}
	if policy.PricesIncludeGST {
		return round2(amount - amount/(1+policy.GSTRate/100))
	}
	return round2(amount * policy.GSTRate / 100)
}

// CalculateFees computes the fee line items on a pre-fee subtotal.
// TotalFees only counts what is added on top: inclusive GST is already in the amount.
func CalculateFees(amount float64, policy models.FeePolicy) models.BusinessFeeBreakdown {
	fees := models.BusinessFeeBreakdown{
		GSTRate:     policy.GSTRate,
		GSTIncluded: policy.PricesIncludeGST,
		GSTAmount:   gstComponent(amount, policy),
	}
	if policy.PlatformFeePercentage > 0 {
		fees.PlatformFee = math.Ceil(amount * policy.PlatformFeePercentage / 100)
	}
	if policy.ChargesDeposit && policy.PaymentProcessingFeePercentage > 0 {
		fees.PaymentProcessingFee = math.Ceil(amount * policy.PaymentProcessingFeePercentage / 100)
	}
	fees.TotalFees = fees.PlatformFee + fees.PaymentProcessingFee
	if !policy.PricesIncludeGST {
		fees.TotalFees += fees.GSTAmount
	}
	return fees
}

// AddGSTIfRequired adds GST to amount when prices are quoted exclusive of it.
func AddGSTIfRequired(amount float64, policy models.FeePolicy) float64 {
	if policy.PricesIncludeGST {
		return amount
	}
	return amount + gstComponent(amount, policy)
}

// ApplyMinimumCharge clamps amount up to the business minimum.
func ApplyMinimumCharge(amount float64, policy models.FeePolicy) (float64, bool) {
	if policy.MinimumCharge > 0 && amount < policy.MinimumCharge {
		return policy.MinimumCharge, true
	}
	return amount, false
}

// CalculateDeposit computes the deposit owed on the final total.
func CalculateDeposit(total float64, policy models.FeePolicy) float64 {
	if !policy.ChargesDeposit {
		return 0
	}
	switch policy.DepositType {
	case models.DepositFixed:
		return policy.DepositFixedAmount
	case models.DepositPercentage:
		return round2(total * policy.DepositPercentage / 100)
	default:
		return 0
	}
}
