package diffeq

// AliasSpecifier records which problem containers a consumer may reuse
// in place. Each flag is tri-state: nil means unset, deferring the
// decision to the consumer. The flags are an ownership contract, not a
// lock: a consumer observing U0 == false (or unset, depending on its
// default) must copy the initial state before mutating it; true grants
// in-place reuse.
type AliasSpecifier struct {
	P      *bool // parameter container
	F      *bool // function workspace
	U0     *bool // initial state container
	TStops *bool // stop-time list
	Jumps  *bool // jump-time list
}

// AliasAll forces all five flags to v, the "alias" shorthand.
func AliasAll(v bool) AliasSpecifier {
	return AliasSpecifier{
		P:      Bool(v),
		F:      Bool(v),
		U0:     Bool(v),
		TStops: Bool(v),
		Jumps:  Bool(v),
	}
}

// Bool returns a pointer to v, for setting individual flags.
func Bool(v bool) *bool { return &v }

// U0OrDefault resolves the initial-state flag against a consumer
// default when unset.
func (a AliasSpecifier) U0OrDefault(def bool) bool {
	if a.U0 == nil {
		return def
	}
	return *a.U0
}

// POrDefault resolves the parameter flag against a consumer default.
func (a AliasSpecifier) POrDefault(def bool) bool {
	if a.P == nil {
		return def
	}
	return *a.P
}
