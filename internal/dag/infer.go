package dag

import "github.com/vk/runbookgo/internal/model"

// InferEdges connects every task of each stage to every task of the stage
// that follows it. Stages further apart are never connected directly, and
// tasks within one stage are never connected. Empty stages are skipped.
func InferEdges(stages []model.Stage) []model.Edge {
	var edges []model.Edge
	var prev []*model.Task
	for _, stage := range stages {
		if len(stage.Tasks) == 0 {
			continue
		}
		for _, from := range prev {
			for _, to := range stage.Tasks {
				edges = append(edges, model.Edge{From: from.Ref, To: to.Ref})
			}
		}
		prev = stage.Tasks
	}
	return edges
}
