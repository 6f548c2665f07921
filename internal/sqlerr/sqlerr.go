// Package sqlerr classifies database failures and converts them into
// client-facing errs.HTTPError values.
//
// Not found is an expected outcome and becomes a 404. Everything else the
// database layer reports (pool exhaustion, broken connections, failing
// statements) becomes a generic 500 whose message carries no detail.
package sqlerr
