package puzzle

// Opt is a write-once optional value. The zero Opt is absent.
type Opt[T any] struct {
	v  T
	ok bool
}

// Some returns a present Opt holding v.
func Some[T any](v T) Opt[T] { return Opt[T]{v: v, ok: true} }

// Get returns the value and whether it is present.
func (o Opt[T]) Get() (T, bool) { return o.v, o.ok }

// Value returns the value, or the zero T when absent.
func (o Opt[T]) Value() T { return o.v }

// IsSet reports whether a value is present.
func (o Opt[T]) IsSet() bool { return o.ok }

// Set stores v only if no value is present yet and reports whether it did.
func (o *Opt[T]) Set(v T) bool {
	if o.ok {
		return false
	}
	o.v = v
	o.ok = true
	return true
}

// Ptr returns a pointer to a copy of the value, or nil when absent.
func (o Opt[T]) Ptr() *T {
	if !o.ok {
		return nil
	}
	v := o.v
	return &v
}

// FromPtr builds an Opt from a nullable pointer.
func FromPtr[T any](p *T) Opt[T] {
	if p == nil {
		return Opt[T]{}
	}
	return Some(*p)
}
