// Package retry implements the retry loop used when a serial bus reports
// transient contention.
//
// The zero Policy retries forever without waiting, which is the behaviour the
// storage layer has always had: a device that stays busy stalls the caller.
// Deployments that prefer to fail instead set MaxAttempts, add a Backoff, or
// cancel the context passed to Do.
package retry
