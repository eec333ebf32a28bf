package pipeline

import "context"

// Selector supplies the file to transform. An empty path means the user cancelled.
type Selector interface {
	Select(ctx context.Context) (string, error)
}

// SelectorFunc adapts a function to Selector.
type SelectorFunc func(ctx context.Context) (string, error)

func (f SelectorFunc) Select(ctx context.Context) (string, error) {
	return f(ctx)
}

// StaticSelector always selects the same path.
type StaticSelector string

func (s StaticSelector) Select(context.Context) (string, error) {
	return string(s), nil
}
