// Package finder drives pagination for a single search query.
//
// The finder walks text-search pages through their continuation tokens,
// expands each stub with a details lookup, validates and normalizes the
// result, and enforces the mandated inter-page delay. It stops on page
// exhaustion, on an optional result cap, or on cancellation; partial results
// survive mid-run failures once anything has been collected.
package finder
