package roles

// The policy functions are pure: they compare ranks and return nil on allow
// or a wrapped forbidden error on deny. Callers resolve the role records
// before asking for a decision.

// CanCreate decides whether acting may create target for some identity. An
// actor may only create roles strictly below their own rank.
func CanCreate(acting, target RoleName) error {
	actingRank, err := acting.Rank()
	if err != nil {
		return err
	}
	targetRank, err := target.Rank()
	if err != nil {
		return err
	}
	if targetRank >= actingRank {
		return ErrCreateForbidden
	}
	return nil
}

// CanUpdate decides whether acting may change a target holding current to
// next. Both the target's existing role and the requested role must be
// strictly below the actor's rank; each is an escalation vector on its own.
func CanUpdate(acting, current, next RoleName) error {
	actingRank, err := acting.Rank()
	if err != nil {
		return err
	}
	currentRank, err := current.Rank()
	if err != nil {
		return err
	}
	nextRank, err := next.Rank()
	if err != nil {
		return err
	}
	if currentRank >= actingRank || nextRank >= actingRank {
		return ErrUpdateForbidden
	}
	return nil
}
