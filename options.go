package vtree

// Options configures a Tree.
type Options struct {
	// Policy is the duplicate-name policy Create applies when inserting
	// into the target folder.
	Policy Policy
}

// Option is a functional option for configuring New.
type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		Policy: PolicyReject,
	}
}

// WithPolicy sets the duplicate-name policy used by Create.
func WithPolicy(p Policy) Option {
	return func(o *Options) { o.Policy = p }
}
