package classify

// Status is one entry of the closed reachability-status vocabulary (spec
// §3 Profile / §4.7, §GLOSSARY STATUS_ORDER).
type Status string

const (
	StatusReachableCurrent       Status = "reachable_current"
	StatusDeferredOnly           Status = "deferred_only"
	StatusDynamicOnly            Status = "dynamic_only"
	StatusTestOnly               Status = "test_only"
	StatusBuildTimeOnly          Status = "build_time_only"
	StatusReachableOtherProfile  Status = "reachable_other_profile"
	StatusDisconnectedAllProfile Status = "disconnected_all_profiles"
)

// priorityOrder is the order in which a node's true status predicates are
// scanned to pick the single "primary" status (spec §4.7 invariant 9: the
// primary is "the highest-priority entry in the node's status set").
//
// §4.7's own numbered list (disconnected, reachable_current, deferred_only,
// dynamic_only, ...) cannot be the literal scan order: per scenario S6, a
// node reached only through a dynamic edge must report dynamic_only even
// though it is also, literally, "present in reachableAll" (the stated
// reachable_current test). The specific-beats-generic reading below is the
// one that satisfies S6 and is recorded as the Open Question decision in
// DESIGN.md: reachable_current is the residual "nothing more specific
// applied" case, not a first-checked default.
var priorityOrder = []Status{
	StatusDisconnectedAllProfile,
	StatusDeferredOnly,
	StatusDynamicOnly,
	StatusTestOnly,
	StatusBuildTimeOnly,
	StatusReachableOtherProfile,
	StatusReachableCurrent,
}

func primaryOf(set map[Status]bool) Status {
	for _, s := range priorityOrder {
		if set[s] {
			return s
		}
	}
	return ""
}
