// Package bridge runs data requests off the event loop and hands their
// results back through a bounded inbox.
//
// A request is submitted for a view id and runs on its own goroutine. The
// event loop calls Drain once per tick to collect finished requests. At most
// one request is outstanding per view id: submitting again cancels the
// previous handle before the new one starts, so a stale result for a view is
// never delivered after a newer one.
//
// Cancellation is advisory for the network (the HTTP call may still finish)
// but final for delivery: once a handle is cancelled its completion is
// dropped, even if it already sits in the inbox.
package bridge
