package logging

// Standard field names so store and ledger logs can be filtered uniformly.
const (
	FieldTable     = "table"
	FieldBackend   = "backend"
	FieldOperation = "operation"
	FieldAttempt   = "attempt"
	FieldDelay     = "delay_ms"
	FieldCount     = "count"
	FieldUser      = "user"
	FieldField     = "field"
	FieldError     = "error"
	FieldDuration  = "duration_ms"
	FieldFile      = "file_path"
)
