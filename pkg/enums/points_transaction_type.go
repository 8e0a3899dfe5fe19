package enums

import "fmt"

// PointsTransactionType classifies every row in the points ledger.
type PointsTransactionType string

const (
	PointsTxPurchase            PointsTransactionType = "purchase"
	PointsTxOrderPayment        PointsTransactionType = "order_payment"
	PointsTxMixSaleCommission   PointsTransactionType = "mix_sale_commission"
	PointsTxManual              PointsTransactionType = "manual"
	PointsTxAdminAdjustment     PointsTransactionType = "admin_adjustment"
	PointsTxBonus               PointsTransactionType = "bonus"
	PointsTxRefund              PointsTransactionType = "refund"
	PointsTxRegistrationBonus   PointsTransactionType = "registration_bonus"
	PointsTxReviewBonus         PointsTransactionType = "review_bonus"
	PointsTxBulkAdminAdjustment PointsTransactionType = "bulk_admin_adjustment"
)

var validPointsTransactionTypes = []PointsTransactionType{
	PointsTxPurchase,
	PointsTxOrderPayment,
	PointsTxMixSaleCommission,
	PointsTxManual,
	PointsTxAdminAdjustment,
	PointsTxBonus,
	PointsTxRefund,
	PointsTxRegistrationBonus,
	PointsTxReviewBonus,
	PointsTxBulkAdminAdjustment,
}

// IsValid reports whether the value matches the canonical transaction type enum.
func (t PointsTransactionType) IsValid() bool {
	for _, candidate := range validPointsTransactionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParsePointsTransactionType converts raw input into PointsTransactionType.
func ParsePointsTransactionType(value string) (PointsTransactionType, error) {
	for _, candidate := range validPointsTransactionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid points transaction type %q", value)
}
