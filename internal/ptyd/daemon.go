package ptyd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// Daemon owns every PTY session created on this node and serves them over
// a single Unix socket: an instance map plus an Accept loop dispatching
// newline-framed requests. A gofrs/flock guards against a second instance
// binding the same socket.
type Daemon struct {
	socketPath string
	lockPath   string
	logger     *log.Logger

	mu       sync.Mutex
	sessions map[string]*instance
}

// New constructs a Daemon that will listen on socketPath and guard against
// concurrent instances via a lock file at lockPath.
func New(socketPath, lockPath string, logger *log.Logger) *Daemon {
	if logger == nil {
		logger = log.New(os.Stderr, "ptyd: ", log.LstdFlags)
	}
	return &Daemon{
		socketPath: socketPath,
		lockPath:   lockPath,
		logger:     logger,
		sessions:   make(map[string]*instance),
	}
}

// Run acquires the single-instance lock, binds the socket, and serves
// connections until the listener is closed. Returns an error immediately
// if another daemon already holds the lock (non-blocking TryLock).
func (d *Daemon) Run() error {
	if err := os.MkdirAll(filepath.Dir(d.lockPath), 0o755); err != nil {
		return fmt.Errorf("creating daemon directory: %w", err)
	}

	fileLock := flock.New(d.lockPath)
	locked, err := fileLock.TryLock()
	if err != nil {
		return fmt.Errorf("acquiring daemon lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("ptyd already running (lock held by another process)")
	}
	defer func() { _ = fileLock.Unlock() }()

	os.Remove(d.socketPath)
	if err := os.MkdirAll(filepath.Dir(d.socketPath), 0o755); err != nil {
		return fmt.Errorf("creating socket directory: %w", err)
	}

	l, err := net.Listen("unix", d.socketPath)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", d.socketPath, err)
	}
	defer l.Close()
	defer os.Remove(d.socketPath)

	d.logger.Printf("ptyd listening on %s (pid %d)", d.socketPath, os.Getpid())

	for {
		conn, err := l.Accept()
		if err != nil {
			return nil
		}
		go d.handleConn(conn)
	}
}

func (d *Daemon) handleConn(conn net.Conn) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	if !scanner.Scan() {
		return
	}

	var req Request
	if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
		respond(conn, Response{Version: ProtocolVersion, OK: false, Error: "bad request: " + err.Error()})
		return
	}

	switch req.Type {
	case ReqPing:
		respond(conn, Response{Version: ProtocolVersion, RequestID: req.RequestID, OK: true})
	case ReqCreate:
		d.handleCreate(conn, req)
	case ReqDestroy:
		d.handleDestroy(conn, req)
	case ReqInfo:
		d.handleInfo(conn, req)
	case ReqScrollback:
		d.handleScrollback(conn, req)
	case ReqList:
		d.handleList(conn, req)
	default:
		respond(conn, Response{Version: ProtocolVersion, RequestID: req.RequestID, OK: false, Error: "unknown request type: " + string(req.Type)})
	}
}

func respond(conn net.Conn, r Response) {
	r.Version = ProtocolVersion
	data, err := json.Marshal(r)
	if err != nil {
		return
	}
	data = append(data, '\n')
	conn.Write(data)
}

func (d *Daemon) handleCreate(conn net.Conn, req Request) {
	if req.Command == "" {
		respond(conn, Response{RequestID: req.RequestID, OK: false, Error: "command is required"})
		return
	}

	id := req.SessionID
	if id == "" {
		id = uuid.NewString()
	}

	inst := newInstance(id, req.WorkingDirectory, req.Command, req.Args, req.Rows, req.Cols)
	if err := inst.start(req.EnvVars, req.Rows, req.Cols); err != nil {
		respond(conn, Response{RequestID: req.RequestID, OK: false, Error: err.Error()})
		return
	}

	d.mu.Lock()
	d.sessions[id] = inst
	d.mu.Unlock()

	respond(conn, Response{RequestID: req.RequestID, OK: true, DaemonSessionID: id, Status: StatusRunning})
}

func (d *Daemon) handleDestroy(conn net.Conn, req Request) {
	inst := d.get(req.DaemonSessionID)
	if inst == nil {
		respond(conn, Response{RequestID: req.RequestID, OK: false, Error: "session not found: " + req.DaemonSessionID})
		return
	}
	inst.destroy()

	d.mu.Lock()
	delete(d.sessions, req.DaemonSessionID)
	d.mu.Unlock()

	respond(conn, Response{RequestID: req.RequestID, OK: true})
}

func (d *Daemon) handleInfo(conn net.Conn, req Request) {
	inst := d.get(req.DaemonSessionID)
	if inst == nil {
		respond(conn, Response{RequestID: req.RequestID, OK: false, Error: "session not found: " + req.DaemonSessionID})
		return
	}
	info := inst.info()
	respond(conn, Response{RequestID: req.RequestID, OK: true, DaemonSessionID: info.DaemonSessionID, Status: info.Status, ExitCode: inst.snapshotExitCode()})
}

func (d *Daemon) handleScrollback(conn net.Conn, req Request) {
	inst := d.get(req.DaemonSessionID)
	if inst == nil {
		respond(conn, Response{RequestID: req.RequestID, OK: false, Error: "session not found: " + req.DaemonSessionID})
		return
	}
	respond(conn, Response{RequestID: req.RequestID, OK: true, Scrollback: inst.scrollback()})
}

func (d *Daemon) handleList(conn net.Conn, req Request) {
	d.mu.Lock()
	infos := make([]SessionInfo, 0, len(d.sessions))
	for _, inst := range d.sessions {
		infos = append(infos, inst.info())
	}
	d.mu.Unlock()

	respond(conn, Response{RequestID: req.RequestID, OK: true, Sessions: infos})
}

func (d *Daemon) get(id string) *instance {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sessions[id]
}
