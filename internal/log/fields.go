package log

// Common field names for structured logging.
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
	FieldYear        = "year"
	FieldMonth       = "month"
	FieldMemberID    = "member_id"
	FieldMemberName  = "member_name"
	FieldDueID       = "due_id"
	FieldTxID        = "transaction_id"
	FieldTxKind      = "kind"
	FieldTxCategory  = "category"
	FieldAmountCents = "amount_cents"
)

// Standard component names.
const (
	ComponentApp  = "app"
	ComponentHTTP = "http"
)
