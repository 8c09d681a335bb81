package jobs

import (
	"context"

	"github.com/DhanaAnjana/DocuMind/internal/service"
)

// ConsistencyChecker reports drift between the relational store and the vector index.
type ConsistencyChecker interface {
	Check(ctx context.Context) (*service.ConsistencyReport, error)
}

// ConsistencyJob runs the consistency check on every worker tick.
// The checker logs and publishes its own findings; nothing is repaired.
type ConsistencyJob struct {
	checker ConsistencyChecker
}

func NewConsistencyJob(checker ConsistencyChecker) *ConsistencyJob {
	return &ConsistencyJob{checker: checker}
}

func (j *ConsistencyJob) ProcessJobs(ctx context.Context) error {
	_, err := j.checker.Check(ctx)
	return err
}
