package domain

// PipelineGoals maps a pipeline id to the stage that means "fully paid" in
// that pipeline. In launch mode reaching this stage is the sale.
type PipelineGoals map[int64]int64

// Goal returns the goal stage of the pipeline
func (g PipelineGoals) Goal(pipelineID int64) (int64, bool) {
	stage, ok := g[pipelineID]
	return stage, ok && stage != 0
}

// IsGoal reports whether statusID is the goal stage of pipelineID
func (g PipelineGoals) IsGoal(pipelineID, statusID int64) bool {
	stage, ok := g.Goal(pipelineID)
	return ok && stage == statusID
}
