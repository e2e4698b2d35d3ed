package enum

// PaymentType records how a supplier delivery was paid for
type PaymentType string

const (
	PaymentTypeCash    PaymentType = "cash"
	PaymentTypeCredit  PaymentType = "credit"
	PaymentTypeMobile  PaymentType = "mobile"
	PaymentTypeCheque  PaymentType = "cheque"
	PaymentTypeAccount PaymentType = "account"
)

// IsValid reports whether p is a known payment type
func (p PaymentType) IsValid() bool {
	switch p {
	case PaymentTypeCash, PaymentTypeCredit, PaymentTypeMobile, PaymentTypeCheque, PaymentTypeAccount:
		return true
	}
	return false
}
