// Package checks implements the bundle health checks and assembles them into
// the default registry.
//
// Each check scans one kind of artifact on the nodes it cares about and
// returns alert tables only when something is wrong. Missing or ambiguous
// artifacts are logged and the node is skipped; they never fail the check.
//
//	reg := checks.DefaultRegistry()
//	eng := &check.Engine{Registry: reg}
//	res, err := eng.Run(ctx, in)
//
// Checks that record node facts (software versions, OS ID, event counters)
// are the only writers of those fields, so checks can run in parallel
// without locking.
package checks
