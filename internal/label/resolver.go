package label

// Resolver turns a short rule name into a canonical label in the context of
// a package. Implementations must be pure: the same inputs always produce the
// same result.
type Resolver interface {
	Resolve(pkg PackageID, name string) (Label, error)
}

// DefaultResolver applies the standard package and target naming rules.
type DefaultResolver struct{}

// Resolve implements Resolver.
func (DefaultResolver) Resolve(pkg PackageID, name string) (Label, error) {
	return New(pkg, name)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(pkg PackageID, name string) (Label, error)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(pkg PackageID, name string) (Label, error) {
	return f(pkg, name)
}
