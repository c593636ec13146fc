package ai

import "context"

// Generator is the external natural-language generation collaborator: text in,
// text out. Implementations may be a hosted model, a local process or a test
// stub; the orchestrator never knows which.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}
