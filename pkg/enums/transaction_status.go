package enums

// TransactionStatus records the outcome of a payment event.
type TransactionStatus string

const (
	TransactionStatusSuccess TransactionStatus = "success"
	TransactionStatusFailed  TransactionStatus = "failed"
)

// String implements fmt.Stringer.
func (s TransactionStatus) String() string {
	return string(s)
}
