// Package storefront provides the client-core primitives for a
// creator-storefront product: session lifecycle management, role-based route
// authorization, and the persistent shopping cart that feeds checkout.
//
// Session lifecycle:
//   - SessionManager owns the (session, user, isCreator) tuple and moves it
//     through unauthenticated, authenticating, authenticated, and refreshing
//     states. Bootstrap runs exactly once; identity events from the provider
//     and the periodic refresh loop funnel through the same transition paths.
//   - Sign-out always wins. Every clear bumps a monotonic generation counter
//     so an in-flight role resolution or refresh that lands late cannot
//     resurrect identity state.
//
// Route authorization:
//   - Decide is a pure, total function over (session, isCreator, path). It
//     never errors; unknown paths fall through to the root of the active
//     route set. RouteGate adapts it as go-router middleware and re-reads the
//     latest identity snapshot on every request.
//
// Cart:
//   - CartStore keeps ordered line items with product snapshots captured at
//     add time. Every mutation persists synchronously through a
//     CartRepository; a failed write is logged and never rolls back the
//     in-memory change. The cart is deliberately independent of the session
//     so guest carts survive sign-in and sign-out.
//
// Activity sinks:
//   - ActivitySink is a best-effort audit emitter used by the session manager
//     and checkout to describe bootstrap, sign-in/out, refresh failure, role
//     resolution, and checkout completion events. Sink errors are logged and
//     never block the calling flow.
package storefront
