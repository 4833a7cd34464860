// Package routing holds the gateway's route whitelist and answers two
// questions about every inbound request: may it pass, and where does it go.
//
// # Overview
//
// The package is built from three layers:
//
//   - PatternCompiler turns Ant-style endpoint patterns into CompiledPattern
//     matchers and caches them by source text.
//   - Table is an immutable generation of RouteEntry values, one per
//     service. Store publishes generations through an atomic pointer swap.
//   - Resolver combines the current Table with the compiled patterns to
//     implement Authorize and Locate.
//
// # Pattern syntax
//
// Patterns are split on '/' and matched segment by segment, anchored at both
// ends and case-sensitive:
//
//	/users/**           /users, /users/1, /users/1/orders
//	/users/*            /users/1 but not /users/1/orders
//	/users/{id}/orders  /users/42/orders but not /users//orders
//	/files/*.json       /files/a.json
//
// "**" spans segments only when it is the whole segment; inside a segment
// such as "a**b" it behaves like "*".
//
// # Reloads
//
// A reload calls Store.Replace with a new Document. Readers that already hold
// the previous *Table keep using it; new calls see the new generation in
// full. Swap listeners run after publication; the Resolver uses one to flush
// its decision cache and the circuit breaker registry uses one to prune
// breakers of removed services.
//
// # Usage
//
//	store := routing.NewStore(routing.NewPatternCompiler())
//	resolver := routing.NewResolver(store, routing.DefaultResolverOptions())
//
//	if _, err := store.Replace(doc); err != nil {
//	    return err
//	}
//
//	if !resolver.Authorize("user-service", "/users/1") {
//	    // 403
//	}
//	target, ok := resolver.Locate("user-service", "/users/1")
//	if !ok {
//	    // 400
//	}
package routing
