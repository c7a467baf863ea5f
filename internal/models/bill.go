package models

// BillKind identifies a category of miscellaneous bill.
type BillKind string

// Predefined bill kinds plus BillCustom for user-defined bills.
const (
	BillRent        BillKind = "rent"
	BillGas         BillKind = "gas"
	BillElectricity BillKind = "electricity"
	BillWifi        BillKind = "wifi"
	BillHousemaid   BillKind = "housemaid"
	BillCustom      BillKind = "custom"
)

// ValidBillKind reports whether k is a recognized bill kind.
func ValidBillKind(k BillKind) bool {
	switch k {
	case BillRent, BillGas, BillElectricity, BillWifi, BillHousemaid, BillCustom:
		return true
	}
	return false
}

// Bill is a single miscellaneous bill attached to a final settlement.
// It is a tagged variant: predefined kinds carry no CustomName, custom
// bills require one.
type Bill struct {
	// Kind is the bill category.
	Kind BillKind `json:"kind"`

	// CustomName labels a custom bill (e.g. "Water"). Required when Kind
	// is BillCustom, empty otherwise.
	CustomName string `json:"customName,omitempty"`

	// Amount is the bill amount. Bills with Amount <= 0 are kept but
	// marked Ignored and excluded from the total.
	Amount float64 `json:"amount"`

	// Description is optional free text.
	Description string `json:"description,omitempty"`

	// Ignored is set by the composer for bills without a positive amount.
	Ignored bool `json:"ignored,omitempty"`
}

// Label returns the display label for the bill.
func (b Bill) Label() string {
	if b.Kind == BillCustom && b.CustomName != "" {
		return b.CustomName
	}
	return string(b.Kind)
}

// Final settlement classification values.
const (
	FinalNeedsToPay = "Needs to Pay"
	FinalToReceive  = "To Receive"
)

// FinalSettlement folds a participant's meal settlement balance with their
// personal bills into one net payable/receivable figure.
//
// PreviousAmountPaid, PersonalShare and the meal balance fields are a
// frozen snapshot taken when the entry is created; editing bills only
// replaces Bills and recomputes TotalBills/FinalBalance/FinalType.
type FinalSettlement struct {
	// ID is the unique identifier for the entry (UUID format).
	ID string `json:"id"`

	// SystemID is the owning meal system.
	SystemID string `json:"systemId"`

	// Person is the participant this entry belongs to.
	Person Participant `json:"person"`

	// PreviousAmountPaid is the AmountPaid of the snapshotted meal
	// settlement (zero when the participant had no settlement row).
	PreviousAmountPaid float64 `json:"previousAmountPaid"`

	// PersonalShare is the snapshotted personal share.
	PersonalShare float64 `json:"personalShare"`

	// MealBalance is the snapshotted signed meal settlement balance.
	MealBalance float64 `json:"mealSettlementBalance"`

	// MealBalanceType is the snapshotted balance classification.
	MealBalanceType string `json:"mealSettlementBalanceType"`

	// Bills are the participant's personal bills.
	Bills []Bill `json:"bills"`

	// TotalBills is the sum of the non-ignored bill amounts.
	TotalBills float64 `json:"totalBills"`

	// FinalBalance is the absolute net amount to settle.
	FinalBalance float64 `json:"finalBalance"`

	// FinalType is FinalToReceive when the signed net position
	// (meal balance minus bills) is >= 0, else FinalNeedsToPay.
	FinalType string `json:"finalType"`
}
