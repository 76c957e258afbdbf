// Package apperrors provides the application error type used across the
// almanac services. It extends the standard error interface with error
// chaining, HTTP status codes, and message customization, while remaining
// compatible with errors.Is and errors.As.
package apperrors

// Error is the interface implemented by all application errors. Methods
// return Error so calls can be chained when deriving errors from a base.
type Error interface {
	error
	Unwrap() error // support for errors.Is / errors.As

	New(msg string) Error                  // derives a fresh error using current as template
	Msg(msg string) Error                  // new error with message, wraps original
	MsgErr(msg string, err ...error) Error // new error with message, wraps extra errors
	Err(err ...error) Error                // attaches additional errors to current error
	SetExpandError(bool) Error             // controls whether ErrorAll expands wrapped errors
	SetStatusCode(int) Error               // sets HTTP status code for the error
	StatusCode() int                       // returns the current status code
	ErrorAll() string                      // full message including wrapped errors
	UnwrapAll() []error                    // all wrapped errors
}
