package api

import (
	"strconv"

	"k8s.io/apimachinery/pkg/types"
)

// ModuleState values reported by the applier in the rendered module pages.
const (
	StateRunning = "Running"
	StateReady   = "Ready"
	StateErrored = "Errored"
)

// RunRequest describes a force run submitted to /api/v1/forceRun.
type RunRequest struct {
	Namespace string
	Module    string
	PlanOnly  bool
	// LockID bypasses a held lock when set. It is omitted from the payload when empty.
	LockID string
}

// NamespacedName returns the module's identity in its Kubernetes form.
func (r RunRequest) NamespacedName() types.NamespacedName {
	return types.NamespacedName{Namespace: r.Namespace, Name: r.Module}
}

// payload renders the request as the flat string map the server decodes.
func (r RunRequest) payload() map[string]string {
	p := map[string]string{
		"namespace": r.Namespace,
		"module":    r.Module,
		"planOnly":  strconv.FormatBool(r.PlanOnly),
	}
	if r.LockID != "" {
		p["lockID"] = r.LockID
	}
	return p
}

// runResponse is the structured body some applier versions answer force runs with.
type runResponse struct {
	Result  string `json:"result,omitempty"`
	Message string `json:"message"`
}
