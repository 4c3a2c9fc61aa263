package exc

const (
	CodeUnknown              = "R0000"
	CodeNotFound             = "R0001"
	CodePermissionDenied     = "R0002"
	CodeCanceled             = "R0003"
	CodeTimeout              = "R0004"
	CodeUnsupportedOperation = "R0005"
)

var (
	defaultNonFatal = map[string]bool{
		CodeCanceled: true,
	}
)
