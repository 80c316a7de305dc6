package sanitizer

// Passthrough copies structural documents (record definitions, badge
// structures) without rewriting anything.
type Passthrough struct{}

func (Passthrough) Strategy() Strategy { return StrategyPassthrough }

func (Passthrough) Sanitize(node any) Result {
	return Result{Strategy: StrategyPassthrough, Content: walk(node, "", nil)}
}

// Ignored discards documents whose content must never be materialised, such
// as image references.
type Ignored struct{}

func (Ignored) Strategy() Strategy { return StrategyIgnored }

func (Ignored) Sanitize(any) Result {
	return Result{Strategy: StrategyIgnored, Content: []any{}}
}
