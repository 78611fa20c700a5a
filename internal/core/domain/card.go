package domain

// PaymentCard is a stored payment method. Only the processor token and
// display metadata are persisted, never the PAN.
type PaymentCard struct {
	CardID         string
	UserID         string
	Brand          string
	Last4          string
	ExpMonth       int
	ExpYear        int
	CardholderName string
	IsDefault      bool
	ProcessorToken string
	AuditFields
}
