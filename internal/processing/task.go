// Package processing models the wire contract of the remote processing
// service: the task selector sent with an upload and the two response shapes
// it can come back with.
package processing

import "fmt"

// TaskKind selects the analysis mode for an upload. Its string value is the
// exact form-field value the processing service expects.
type TaskKind string

const (
	TaskSegmentation   TaskKind = "segmentation"
	TaskClassification TaskKind = "classification"
)

func ParseTaskKind(s string) (TaskKind, error) {
	switch TaskKind(s) {
	case TaskSegmentation, TaskClassification:
		return TaskKind(s), nil
	default:
		return "", fmt.Errorf("unknown task kind: %q", s)
	}
}
