// Package main provides the entry point for the placescout CLI.
//
// Placescout collects business listings from the Google Places text-search
// API across one or more locations and writes them to CSV.
//
// Usage:
//
//	placescout search --specialty dentists --places "Mumbai,Delhi"
//	placescout search --query "pediatricians in Pune"
//
// See --help for all available options.
package main

// main is the entry point for placescout.
func main() {
	Execute()
}
