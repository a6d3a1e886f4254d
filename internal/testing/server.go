package testing

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"

	"github.com/gorilla/mux"
	"k8s.io/apimachinery/pkg/types"

	"applierctl/internal/api"
	"applierctl/pkg/logging"
)

const fakeSubsystem = "FakeApplier"

// Applier is an in-memory terraform-applier web server.
type Applier struct {
	mu       sync.Mutex
	modules  map[types.NamespacedName]*ModuleConfig
	jsonResp bool
	pickup   int
	// reads counts detail reads of modules with a queued run.
	reads    map[types.NamespacedName]int
	failures map[string][]failure
	requests []Request

	router *mux.Router
}

// NewApplier creates a fake applier serving the modules of scenario.
func NewApplier(scenario Scenario) *Applier {
	a := &Applier{
		modules:  make(map[types.NamespacedName]*ModuleConfig),
		jsonResp: scenario.JSONResponses,
		pickup:   scenario.PickupAfter,
		reads:    make(map[types.NamespacedName]int),
		failures: make(map[string][]failure),
	}
	for _, m := range scenario.Modules {
		if m.State == "" {
			m.State = api.StateReady
		}
		a.modules[types.NamespacedName{Namespace: m.Namespace, Name: m.Name}] = &m
	}

	r := mux.NewRouter()
	r.HandleFunc("/api/v1/forceRun", a.handleForceRun).Methods(http.MethodPost)
	r.HandleFunc("/module", a.handleModule).Methods(http.MethodPost)
	r.HandleFunc("/", a.handleStatus).Methods(http.MethodGet)
	r.Use(a.record)
	a.router = r
	return a
}

// ServeHTTP makes the fake usable as a plain http.Handler.
func (a *Applier) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Start serves the fake on a local httptest server. The caller closes it.
func (a *Applier) Start() *httptest.Server {
	return httptest.NewServer(a)
}

// SetState changes the state of a module, e.g. to finish a run.
func (a *Applier) SetState(namespace, name, state string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if m, ok := a.modules[types.NamespacedName{Namespace: namespace, Name: name}]; ok {
		m.State = state
	}
}

// State returns the current state of a module.
func (a *Applier) State(namespace, name string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if m, ok := a.modules[types.NamespacedName{Namespace: namespace, Name: name}]; ok {
		return m.State
	}
	return ""
}

// Queued reports whether a module has a run request that no runner has
// picked up yet.
func (a *Applier) Queued(namespace, name string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if m, ok := a.modules[types.NamespacedName{Namespace: namespace, Name: name}]; ok {
		return m.Pending
	}
	return false
}

// FailNext makes the next request to path answer with code and body.
// Calls queue up, one failure per request.
func (a *Applier) FailNext(path string, code int, body string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failures[path] = append(a.failures[path], failure{code: code, body: body})
}

// Requests returns every request received so far, oldest first.
func (a *Applier) Requests() []Request {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Request(nil), a.requests...)
}

// RequestsTo returns the requests received for path.
func (a *Applier) RequestsTo(path string) []Request {
	var out []Request
	for _, r := range a.Requests() {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// record stores the request and its decoded payload, then answers queued
// failures before the route handler sees the request.
func (a *Applier) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := Request{Method: r.Method, Path: r.URL.Path}
		if r.Body != nil && r.Method == http.MethodPost {
			body, err := io.ReadAll(r.Body)
			if err != nil {
				http.Error(w, "error reading request", http.StatusBadRequest)
				return
			}
			payload := map[string]string{}
			if err := json.Unmarshal(body, &payload); err == nil {
				req.Payload = payload
			}
			r.Body = io.NopCloser(strings.NewReader(string(body)))
		}

		a.mu.Lock()
		a.requests = append(a.requests, req)
		var fail *failure
		if queued := a.failures[req.Path]; len(queued) > 0 {
			fail = &queued[0]
			a.failures[req.Path] = queued[1:]
		}
		a.mu.Unlock()

		if fail != nil {
			logging.Debug(fakeSubsystem, "Failing %s %s with %d", r.Method, req.Path, fail.code)
			http.Error(w, fail.body, fail.code)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *Applier) handleStatus(w http.ResponseWriter, r *http.Request) {
	page := statusPage{}
	byNamespace := map[string]*namespaceView{}

	a.mu.Lock()
	for _, m := range a.sortedModules() {
		ns, ok := byNamespace[m.Namespace]
		if !ok {
			ns = &namespaceView{Name: m.Namespace}
			byNamespace[m.Namespace] = ns
			page.Namespaces = append(page.Namespaces, ns)
		}
		ns.Modules = append(ns.Modules, *m)
	}
	a.mu.Unlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := statusTemplate.Execute(w, page); err != nil {
		logging.Error(fakeSubsystem, err, "Unable to render status page")
	}
}

func (a *Applier) handleModule(w http.ResponseWriter, r *http.Request) {
	payload, err := parsePayload(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	a.mu.Lock()
	m, ok := a.modules[payload.name()]
	var snapshot ModuleConfig
	if ok {
		a.pickUp(payload.name(), m)
		snapshot = *m
	}
	a.mu.Unlock()

	if !ok {
		http.Error(w, "unable to get modules", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := moduleTemplate.Execute(w, snapshot); err != nil {
		logging.Error(fakeSubsystem, err, "Unable to render module %s", payload.name())
	}
}

// handleForceRun mirrors the applier's checks: the module must exist, must
// not be running, must not have a pending request and, when locked, the
// request must carry the lock id. An accepted run is only queued.
func (a *Applier) handleForceRun(w http.ResponseWriter, r *http.Request) {
	payload, err := parsePayload(r.Body)
	if err != nil {
		http.Error(w, "error parsing request", http.StatusBadRequest)
		return
	}
	name := payload.name()

	a.mu.Lock()
	defer a.mu.Unlock()

	m, ok := a.modules[name]
	switch {
	case !ok:
		http.Error(w, fmt.Sprintf("cannot find module '%s'", name), http.StatusBadRequest)
		return
	case m.State == api.StateRunning:
		http.Error(w, "module is currently running", http.StatusBadRequest)
		return
	case m.Pending:
		http.Error(w, "Unable to request run as another request is pending", http.StatusConflict)
		return
	case m.LockedBy != "" && payload["lockID"] != m.LockedBy:
		http.Error(w, fmt.Sprintf("module is locked by %s", m.LockedBy), http.StatusConflict)
		return
	}

	m.Pending = true
	a.reads[name] = 0
	kind := "apply"
	if payload["planOnly"] != "false" {
		kind = "plan"
	}
	logging.Info(fakeSubsystem, "Queued %s run of %s", kind, name)

	if a.jsonResp {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]string{"result": "success", "message": "Run queued"}); err != nil {
			logging.Error(fakeSubsystem, err, "Unable to write force run response for %s", name)
		}
		return
	}
	fmt.Fprint(w, "Run queued")
}

// pickUp starts the queued run of m once it has been read pickup times.
// The caller holds a.mu.
func (a *Applier) pickUp(name types.NamespacedName, m *ModuleConfig) {
	if !m.Pending {
		return
	}
	if a.reads[name] < a.pickup {
		a.reads[name]++
		return
	}
	delete(a.reads, name)
	m.Pending = false
	m.State = api.StateRunning
	logging.Debug(fakeSubsystem, "Started queued run of %s", name)
}

func (a *Applier) sortedModules() []*ModuleConfig {
	out := make([]*ModuleConfig, 0, len(a.modules))
	for _, m := range a.modules {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Namespace+out[i].Name < out[j].Namespace+out[j].Name
	})
	return out
}

type payload map[string]string

func (p payload) name() types.NamespacedName {
	return types.NamespacedName{Namespace: p["namespace"], Name: p["module"]}
}

func parsePayload(body io.Reader) (payload, error) {
	p := payload{}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	if p["namespace"] == "" || p["module"] == "" {
		return nil, api.ErrModuleRequired
	}
	return p, nil
}

type namespaceView struct {
	Name    string
	Modules []ModuleConfig
}

type statusPage struct {
	Namespaces []*namespaceView
}

var statusTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><title>terraform-applier</title></head>
<body>
<div class="container">
  <div class="input-group"><input type="text" id="lock-id" value="" placeholder="lock id"></div>
  <div id="force-alert-container"></div>
  <div class="row">
    <ul class="namespace-list">
{{- range .Namespaces}}
      <li class="namespace-item" data-filter="{{.Name}}"><a href="#{{.Name}}">{{.Name}}</a></li>
{{- end}}
    </ul>
    <div class="module-list">
{{- range .Namespaces}}{{range .Modules}}
      <div class="module-item" data-filter="{{.Namespace}}_{{.Name}}" id="{{.Namespace}}_{{.Name}}-list">
        <a href="#{{.Namespace}}_{{.Name}}">{{.Name}}</a>
        <span class="moduleState" module-state="{{.State}}">{{.State}}</span>
        <button class="force-button" data-namespace="{{.Namespace}}" data-name="{{.Name}}" data-plan-only="true">Plan</button>
        <button class="force-button" data-namespace="{{.Namespace}}" data-name="{{.Name}}" data-plan-only="false">Apply</button>
      </div>
{{- end}}{{end}}
    </div>
    <div id="module-detail"></div>
  </div>
</div>
</body>
</html>
`))

var moduleTemplate = template.Must(template.New("module").Parse(`<div class="module-detail">
  <h5>{{.Namespace}}/{{.Name}}</h5>
  <table class="table">
    <tr><th>State</th><td><span class="moduleState" module-state="{{.State}}">{{.State}}</span></td></tr>
{{- if .LockedBy}}
    <tr><th>Locked by</th><td>{{.LockedBy}}</td></tr>
{{- end}}
  </table>
{{- if .Output}}
  <pre class="run-output">{{.Output}}</pre>
{{- end}}
</div>
`))
