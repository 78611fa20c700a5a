package models

// PaymentCard is the database representation of a stored payment method.
type PaymentCard struct {
	CardID         string `db:"card_id"`
	UserID         string `db:"user_id"`
	Brand          string `db:"brand"`
	Last4          string `db:"last4"`
	ExpMonth       int    `db:"exp_month"`
	ExpYear        int    `db:"exp_year"`
	CardholderName string `db:"cardholder_name"`
	IsDefault      bool   `db:"is_default"`
	ProcessorToken string `db:"processor_token"`
	AuditFields
}
