package domain

// Operation kinds stamped onto audit records. Each entity declares its own
// closed set so the audited repository stays polymorphic over caller-chosen
// kinds.

// Entity kind names used for identity allocation, audit queries and the
// durable store.
const (
	KindClient      = "client"
	KindAccount     = "account"
	KindCard        = "card"
	KindTransaction = "transaction"
)

type ClientOperation string

const (
	ClientCreate  ClientOperation = "CREATE"
	ClientUpdate  ClientOperation = "UPDATE"
	ClientDelete  ClientOperation = "DELETE"
	ClientRestore ClientOperation = "RESTORE"
)

type AccountOperation string

const (
	AccountCreate     AccountOperation = "CREATE"
	AccountUpdate     AccountOperation = "UPDATE"
	AccountDelete     AccountOperation = "DELETE"
	AccountRestore    AccountOperation = "RESTORE"
	AccountSuspend    AccountOperation = "SUSPEND"
	AccountReactivate AccountOperation = "REACTIVATE"
)

type CardOperation string

const (
	CardCreate   CardOperation = "CREATE"
	CardUpdate   CardOperation = "UPDATE"
	CardDelete   CardOperation = "DELETE"
	CardRestore  CardOperation = "RESTORE"
	CardBlock    CardOperation = "BLOCK"
	CardActivate CardOperation = "ACTIVATE"
)

type TransactionOperation string

const (
	TransactionCreate TransactionOperation = "CREATE"
)
