package cache

// ScopedKeyer wraps a Keyer with a prefix so several model libraries or
// tenants can share one cache without colliding.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "plant-a:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ArrangeKey generates a prefixed arrangement key.
func (k *ScopedKeyer) ArrangeKey(modelHash string, opts ArrangeKeyOpts) string {
	return k.prefix + k.inner.ArrangeKey(modelHash, opts)
}

// PlanKey generates a prefixed plan key.
func (k *ScopedKeyer) PlanKey(modelHash string) string {
	return k.prefix + k.inner.PlanKey(modelHash)
}
