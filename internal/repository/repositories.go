package repository

// Repositories is a container for all repository instances.
//
// The ledger has a single table today; new tables get a field here
// so the service layer keeps receiving one value.
type Repositories struct {
	Transactions *TransactionRepository
}

// NewRepositories constructs the repository container.
func NewRepositories() *Repositories {
	return &Repositories{
		Transactions: NewTransactionRepository(),
	}
}
