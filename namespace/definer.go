package namespace

// Definer decides, for a dotted-path prefix, whether namespace metadata must
// be established and supplies that metadata. Define receives the prefix and
// the artifact name whose activation triggered the query; a loader invokes it
// at most once per distinct prefix and memoizes the result.
type Definer interface {
	Define(prefix, triggeringName string) (Definition, error)
}

// Trivial establishes every namespace with empty metadata and no sealing.
// It is the default strategy.
type Trivial struct{}

// Define implements Definer.
func (Trivial) Define(prefix, triggeringName string) (Definition, error) {
	return Definition{Defined: true}, nil
}

// Disabled never establishes namespace metadata.
type Disabled struct{}

// Define implements Definer.
func (Disabled) Define(prefix, triggeringName string) (Definition, error) {
	return Definition{}, nil
}

// Static establishes every namespace with a fixed set of metadata, typically
// read once from a manifest of the artifact generator.
type Static struct {
	// Metadata is proposed for every prefix. The Defined flag is forced on.
	Metadata Definition
}

// Define implements Definer.
func (s Static) Define(prefix, triggeringName string) (Definition, error) {
	d := s.Metadata
	d.Defined = true
	return d, nil
}

// DefinerFunc adapts a plain function to the Definer interface.
type DefinerFunc func(prefix, triggeringName string) (Definition, error)

// Define calls the wrapped function.
func (f DefinerFunc) Define(prefix, triggeringName string) (Definition, error) {
	return f(prefix, triggeringName)
}
