package cache

// ScopedKeyer prefixes every key of an inner Keyer, giving tenants or
// deployments separate namespaces in a shared backend:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "cellbars:prod:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, which defaults to [DefaultKeyer] when nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ArtifactKey returns the prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(inputHash, opts)
}

// StoredKey returns the prefixed stored-artifact key.
func (k *ScopedKeyer) StoredKey(id string) string {
	return k.prefix + k.inner.StoredKey(id)
}
