package apperrors

// Error is a layered application error. Sentinels are built with New and
// refined with the derivation methods; every derivation keeps an Is()
// relationship with the errors it came from, so callers can match on the
// sentinel while logs carry the specific message.
type Error interface {
	Error() string
	ErrorAll() string
	New(msg string) Error
	Msg(msg string) Error
	MsgErr(msg string, err ...error) Error
	Err(err ...error) Error
	Unwrap() []error
	Is(target error) bool
	SetExpandError(expand bool) Error
	SetStatusCode(code int) Error
	StatusCode() int
}
