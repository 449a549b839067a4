package http

var (
	PanicRecoveryMiddleware = panicRecoveryMiddleware
	LoggingMiddleware       = loggingMiddleware
	CORSMiddleware          = corsMiddleware
	QueryList               = queryList
	QueryInt                = queryInt
	ReportDays              = reportDays
	ClientMetadata          = clientMetadata
)
