package bootstrap

import "context"

// Step is one named initialization stage of a bot.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// StepFunc adapts a bare function to a named step.
func StepFunc(name string, fn func() error) Step {
	return Step{Name: name, Run: func(context.Context) error { return fn() }}
}
