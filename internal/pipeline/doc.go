// Package pipeline orchestrates a multi-location search run.
//
// The pipeline iterates the configured places in order, composes one query
// per place, hands each to the finder, and accumulates the results into a
// single ResultSet. One location failing never aborts the run; the failure
// is logged and the next location proceeds after the configured delay.
//
// Design decision: Locations are processed sequentially, not concurrently.
// The remote API meters continuation tokens and quota per key, so parallel
// location runs would race the same budget and trip OVER_QUERY_LIMIT under
// exactly the workloads where throughput matters most.
package pipeline
