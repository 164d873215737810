package promo

// Priority is the arbitration class of a promo. Preemption only ever flows
// high over normal.
type Priority int

const (
	PriorityNormal Priority = iota
	PriorityHigh
)

func (p Priority) String() string {
	if p == PriorityHigh {
		return "high"
	}
	return "normal"
}

// PromoInfo is a small non-owning snapshot of a promo for arbitration: what
// the policy needs to know about "what is currently showing" without walking
// the lifecycle (critical promos have no lifecycle at all). The zero value
// stands in for an anonymous foreign bubble.
type PromoInfo struct {
	Priority Priority
	Subtype  Subtype
}

// SessionPolicy is the pure priority/eligibility arbiter. It has no side
// effects and no state of its own, so it is safe to call speculatively.
type SessionPolicy struct{}

// PromoInfoFor classifies a specification. Legal notices run in the normal
// queue but at high priority.
func (SessionPolicy) PromoInfoFor(spec *Specification) PromoInfo {
	info := PromoInfo{Priority: PriorityNormal, Subtype: spec.Subtype}
	if spec.Subtype == SubtypeLegalNotice {
		info.Priority = PriorityHigh
	}
	return info
}

// CanShow decides whether candidate may show given what currently occupies
// the slot (nil means nothing at all is showing).
//
// Rules, in order:
//  1. a high-priority promo currently showing blocks everything;
//  2. a normal-priority candidate is blocked by any current promo or bubble;
//  3. otherwise allow (which for a high-priority candidate over a normal
//     current promo means the caller preempts).
func (SessionPolicy) CanShow(candidate PromoInfo, current *PromoInfo) Result {
	if current == nil {
		return Success
	}
	if current.Priority == PriorityHigh {
		return BlockedByPromo
	}
	if candidate.Priority == PriorityNormal {
		return BlockedByPromo
	}
	return Success
}
