// Package conformance checks a running short-URL service against the
// /api/urls contract.
//
// A run is a fixed, ordered list of scenarios sharing one Session. Later
// scenarios rely on what earlier ones did to the service (the code created in
// scenario 3 is rejected as a duplicate in 4 and deleted in 7), so scenarios
// never run in parallel and never run out of order. A failing scenario does not
// stop the run.
//
// The service is expected to be seeded before the run: Seed names an entry that
// must already exist and the minimum number of entries the list must return.
// The harness never seeds the service. A service that wrongly accepts the
// seed code in scenario 6 ends up holding it; the code is then reported among
// the run's leftovers.
//
// Scenarios assert with testify against a TB. Under `go test` that is the
// *testing.T of a subtest (see RunT); under the Runner it is a recorder that
// collects failures into a Report.
package conformance
