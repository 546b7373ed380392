package typesystem

// BindOutcome is the result kind of finishing a value.
type BindOutcome int

const (
	// Unchanged: the value stays bound as it is.
	Unchanged BindOutcome = iota
	// Replaced: the name is rebound to BindResult.Value.
	Replaced
	// Removed: the name is deleted from the table.
	Removed
)

func (o BindOutcome) String() string {
	switch o {
	case Replaced:
		return "replaced"
	case Removed:
		return "removed"
	}
	return "unchanged"
}

// BindResult is what FinishBind returns for a declaration.
type BindResult struct {
	Outcome BindOutcome
	Value   Value // set only for Replaced
}

var (
	unchanged = BindResult{Outcome: Unchanged}
	removed   = BindResult{Outcome: Removed}
)

func replacedBy(v Value) BindResult {
	return BindResult{Outcome: Replaced, Value: v}
}

// FinishBind completes a declared value once all names in its scope are
// known: bases and class bodies, parameter and return annotations,
// decorator chains and overload groups. Values that need no finishing are
// left unchanged.
func FinishBind(v Value, scope Scope) (BindResult, error) {
	switch v := v.(type) {
	case *Class:
		return v.finishBind(scope)
	case *Function:
		return v.finishBind(scope)
	case *FunctionGroup:
		return v.finishBind(scope)
	}
	return unchanged, nil
}
