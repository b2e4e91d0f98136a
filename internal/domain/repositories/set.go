package repositories

// Set bundles one backend's repositories so callers can swap Postgres for memory
type Set struct {
	Categories  CategoryRepository
	Instruments InstrumentRepository
	Users       UserRepository
	Maintenance MaintenanceRepository
	TxManager   TransactionManager
}
