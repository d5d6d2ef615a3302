package credential

// Hasher is the one-way hashing primitive provided by infrastructure.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// Matches reports whether plain corresponds to the stored hash.
// An empty hash never matches.
func Matches(h Hasher, plain, hash string) bool {
	if hash == "" || plain == "" {
		return false
	}
	return h.Verify(plain, hash)
}
