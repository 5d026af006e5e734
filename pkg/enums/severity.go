package enums

// Severity grades user-facing notifications.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// String implements fmt.Stringer.
func (s Severity) String() string {
	return string(s)
}
