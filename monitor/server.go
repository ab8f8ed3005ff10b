package monitor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"runtime/pprof"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/syifan/goseth"

	"github.com/gridsim/kernel/protection"
	"github.com/gridsim/kernel/sim"
	"github.com/gridsim/kernel/vpp"
)

// pausable is the narrow slice of *sim.Scheduler the server actually
// needs, so it can be exercised in tests with a fake.
type pausable interface {
	Now() sim.VTimeInMillis
	Pause()
	Continue()
}

// Server is an HTTP control surface over a running simulation, grounded
// on the reference engine's monitoring server: pause/continue/now, a
// list of recent protection faults, and a snapshot of every managed VPP
// device. It never touches the scheduler's internal state directly and
// has no effect on determinism — it only ever reads snapshots or calls
// the same Pause/Continue affordances a task inside the simulation
// could call.
type Server struct {
	sched      pausable
	engine     *protection.Engine
	vppByName  map[string]*vpp.Controller
	reporter   ResourceReporter
	portNumber int
}

// NewServer constructs a Server. vppByName lets the /api/vpp/{name}
// endpoint address a specific managed population.
func NewServer(sched pausable, engine *protection.Engine, vppByName map[string]*vpp.Controller, reporter ResourceReporter) *Server {
	return &Server{sched: sched, engine: engine, vppByName: vppByName, reporter: reporter}
}

// WithPortNumber sets the port the server listens on; 0 (the default)
// picks a random free port.
func (s *Server) WithPortNumber(port int) *Server {
	s.portNumber = port
	return s
}

// ListenAndServe starts the HTTP server on a background goroutine and
// returns the address it bound to.
func (s *Server) ListenAndServe() (string, error) {
	r := mux.NewRouter()
	r.HandleFunc("/api/pause", s.handlePause)
	r.HandleFunc("/api/continue", s.handleContinue)
	r.HandleFunc("/api/now", s.handleNow)
	r.HandleFunc("/api/resource", s.handleResource)
	r.HandleFunc("/api/faults", s.handleFaults)
	r.HandleFunc("/api/vpp/{name}", s.handleVPPSnapshot)
	r.HandleFunc("/api/profile", s.handleProfile)

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", s.portNumber))
	if err != nil {
		return "", err
	}

	go func() {
		if err := http.Serve(listener, r); err != nil {
			log.Printf("monitor: server stopped: %v", err)
		}
	}()

	return listener.Addr().String(), nil
}

func (s *Server) handlePause(w http.ResponseWriter, _ *http.Request) {
	s.sched.Pause()
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleContinue(w http.ResponseWriter, _ *http.Request) {
	s.sched.Continue()
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleNow(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, `{"now_ms":%d}`, s.sched.Now())
}

func (s *Server) handleResource(w http.ResponseWriter, _ *http.Request) {
	if s.reporter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	res, err := s.reporter.Report()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, "resource report failed: %v", err)
		return
	}

	body, _ := json.Marshal(res)
	_, _ = w.Write(body)
}

func (s *Server) handleFaults(w http.ResponseWriter, _ *http.Request) {
	if s.engine == nil {
		_, _ = w.Write([]byte("[]"))
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(s.engine.RecentFaults())
	serializer.SetMaxDepth(2)

	if err := serializer.Serialize(w); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// handleProfile captures one second of CPU profile from the running
// process and returns it as parsed pprof data, grounded on the
// reference engine's monitoring server's own profile endpoint.
func (s *Server) handleProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	if err := pprof.StartCPUProfile(buf); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, "could not start CPU profile: %v", err)
		return
	}

	time.Sleep(time.Second)
	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, "could not parse CPU profile: %v", err)
		return
	}

	body, err := json.Marshal(prof)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	_, _ = w.Write(body)
}

func (s *Server) handleVPPSnapshot(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	ctrl, ok := s.vppByName[name]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(ctrl.Snapshot())
	serializer.SetMaxDepth(2)

	if err := serializer.Serialize(w); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}
