package llm

// DefaultTemperature is used when a call does not set one.
const DefaultTemperature float32 = 0.1

// Option adjusts a single generation call.
type Option func(*callOptions)

type callOptions struct {
	temperature float32
	system      string
	json        bool
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float32) Option {
	return func(o *callOptions) { o.temperature = t }
}

// WithSystemInstruction sets the system prompt for the call.
func WithSystemInstruction(s string) Option {
	return func(o *callOptions) { o.system = s }
}

func resolveOptions(opts []Option) callOptions {
	o := callOptions{temperature: DefaultTemperature}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// Settings is the resolved view of a call's options.
type Settings struct {
	Temperature       float32
	SystemInstruction string
}

// Resolve applies opts over the defaults. Client implementations outside this
// package use it to honor the same options.
func Resolve(opts ...Option) Settings {
	o := resolveOptions(opts)
	return Settings{Temperature: o.temperature, SystemInstruction: o.system}
}
