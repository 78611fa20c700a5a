package services

// ServiceContainer holds the service facades the handlers depend on.
type ServiceContainer struct {
	User    UserSvcFacade
	Token   TokenSvcFacade
	Ledger  LedgerSvcFacade
	Meter   MeterSvcFacade
	Card    CardSvcFacade
	Chatbot ChatbotSvcFacade
}
