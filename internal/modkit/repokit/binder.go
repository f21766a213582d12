package repokit

// Binder turns a Queryer into a bound domain repo. Snapshot repos are
// stateless values, so binding is how each transaction callback gets a
// repo that speaks through that transaction's connection.
type Binder[T any] interface {
	Bind(Queryer) T
}

// BindFunc adapts a plain function into a Binder, which is usually all a
// test double needs
type BindFunc[T any] func(Queryer) T

// Bind calls fn
func (f BindFunc[T]) Bind(q Queryer) T { return f(q) }

// RequireQueryer panics on a nil Queryer. A nil here means a TxRunner
// handed its callback nothing, a wiring bug rather than a condition to
// return upward
func RequireQueryer(q Queryer) Queryer {
	if q == nil {
		panic("repokit: nil Queryer")
	}
	return q
}

// MustBind validates the Queryer then binds the repo to it
func MustBind[T any](b Binder[T], q Queryer) T {
	return b.Bind(RequireQueryer(q))
}
