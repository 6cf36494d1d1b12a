package ports

import "context"

// CommandRunner runs external programs and captures their standard output.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// LockbDecoder converts a bun.lockb binary into yarn-equivalent text.
type LockbDecoder interface {
	Decode(ctx context.Context, data []byte) (string, error)
}
