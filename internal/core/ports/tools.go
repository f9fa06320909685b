package ports

import "context"

// ToolInvoker runs an external helper executable and returns its combined output.
//
//go:generate mockgen -source=tools.go -destination=mocks/mock_tools.go -package=mocks
type ToolInvoker interface {
	Invoke(ctx context.Context, tool string, args []string) (string, error)
}
