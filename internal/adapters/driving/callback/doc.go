// Package callback adapts the async storage API to continuation passing.
//
// Each method issues its operation immediately, so calls made in sequence
// keep their order within a table, and later invokes the continuation with
// the result. Failures are logged and the success continuation is skipped.
package callback
