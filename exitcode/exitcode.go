package exitcode

const (
	Success        = 0
	UsageError     = 1
	EnumerateError = 2
	RenameError    = 3
	ReportError    = 4
	PartialSuccess = 5
)
