// Package errs defines the error shapes returned to clients.
//
// Every failure that reaches the HTTP boundary is turned into an HTTPError,
// so clients always see the same status/code/message structure.
package errs
