package pipeline

import "github.com/On-Jun9/MetaSpy/pkg/types"

type ProgressCallback func(update ProgressUpdate)

// ProgressUpdate is one event of a run: "status", "progress" or "complete".
type ProgressUpdate struct {
	Type     string            `json:"type"`
	Message  string            `json:"message,omitempty"`
	Current  int               `json:"current,omitempty"`
	Total    int               `json:"total,omitempty"`
	Filename string            `json:"filename,omitempty"`
	Summary  *types.RunSummary `json:"summary,omitempty"`
	Error    string            `json:"error,omitempty"`
}
