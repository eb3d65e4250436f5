// Package kildlife implements the lifecycle engine: the single Dispatch
// entry point that turns a Command into filesystem, git, daemon, and
// terminal-backend effects and returns the Event that resulted.
//
// Every dependency Store touches is injected as a plain value or interface
// at construction — no package-level state, the same discipline
// kildpaths.Paths already follows.
package kildlife

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/kildhq/kild/internal/config"
	"github.com/kildhq/kild/internal/editorbackend"
	"github.com/kildhq/kild/internal/forgebackend"
	"github.com/kildhq/kild/internal/kildpaths"
	"github.com/kildhq/kild/internal/kildstore"
	"github.com/kildhq/kild/internal/pathid"
	"github.com/kildhq/kild/internal/ptyd"
	"github.com/kildhq/kild/internal/terminalbackend"
)

// Store wires every capability Dispatch needs. Construct once per CLI
// invocation.
type Store struct {
	Paths   kildpaths.Paths
	Config  *config.Config
	Daemon  *ptyd.Client
	Term    terminalbackend.Backend
	Forge   forgebackend.Backend
	Editor  editorbackend.Backend

	// RepoRoot is the main repository root; ProjectName the short name
	// derived from its remote, used to namespace worktrees and sessions.
	RepoRoot    string
	ProjectName string
	ProjectID   string
}

// New constructs a Store, resolving the terminal backend named by cfg; the
// forge backend is always the gh CLI one. projectName is the short human
// name (derived from the repository's remote, per
// pathid.DeriveProjectNameFromRemote); ProjectID is derived
// here from repoRoot itself, per pathid.GenerateProjectID.
func New(paths kildpaths.Paths, cfg *config.Config, repoRoot, projectName string) (*Store, error) {
	termKind := terminalbackend.KindGeneric
	switch cfg.TerminalBackend {
	case "tmux":
		termKind = terminalbackend.KindTmux
	case "iterm":
		termKind = terminalbackend.KindITerm
	case "ghostty":
		termKind = terminalbackend.KindGhostty
	case "alacritty":
		termKind = terminalbackend.KindAlacritty
	case "auto":
		termKind = terminalbackend.Detect()
	}
	term, err := terminalbackend.New(termKind)
	if err != nil {
		return nil, wrapErr(ErrInvalidInput, err)
	}

	forge, err := forgebackend.New(forgebackend.KindGitHubCLI)
	if err != nil {
		return nil, wrapErr(ErrInvalidInput, err)
	}

	return &Store{
		Paths:       paths,
		Config:      cfg,
		Daemon:      ptyd.NewClient(paths.DaemonSocket()),
		Term:        term,
		Forge:       forge,
		Editor:      editorbackend.FromEnv(),
		RepoRoot:    repoRoot,
		ProjectName: projectName,
		ProjectID:   pathid.GenerateProjectID(repoRoot),
	}, nil
}

// Dispatch routes cmd to its flow implementation and audits the resulting
// event on success.
func (s *Store) Dispatch(cmd Command) (Event, error) {
	var (
		ev  Event
		err error
	)
	switch cmd.Kind {
	case CmdCreateKild:
		ev, err = s.create(cmd)
	case CmdOpenKild:
		ev, err = s.open(cmd)
	case CmdStopKild:
		ev, err = s.stop(cmd)
	case CmdDestroyKild:
		ev, err = s.destroy(cmd)
	case CmdCompleteKild:
		ev, err = s.complete(cmd)
	case CmdRefreshSessions:
		ev, err = s.refreshSessions(cmd)
	default:
		return Event{}, newErr(ErrInvalidInput, fmt.Sprintf("unknown command kind %d", cmd.Kind))
	}
	if err != nil {
		return Event{}, err
	}
	logAudit(s.Paths.EventsFile(), ev)
	return ev, nil
}

// findSession loads the persisted session for the user-supplied (unprefixed)
// branch name, or ErrNotFound. Sessions are indexed by the kild/-prefixed
// git branch name (kildstore.Session.Branch), since that is the name
// git/forge operations actually need; this is the one place that bridges
// the user-facing name back to it.
func (s *Store) findSession(branch string) (*kildstore.Session, error) {
	sess, err := kildstore.FindSessionByBranch(s.Paths.SessionsDir(), pathid.KildBranchName(branch))
	if err != nil {
		if err == kildstore.ErrSessionNotFound {
			return nil, &Error{Kind: ErrNotFound, Branch: branch}
		}
		return nil, wrapErr(ErrIO, err)
	}
	return sess, nil
}

// Session returns the persisted session for branch, for read-only callers
// (such as attach) that need to inspect its agents without dispatching a
// lifecycle command.
func (s *Store) Session(branch string) (*kildstore.Session, error) {
	return s.findSession(branch)
}

func newSpawnID() string { return uuid.NewString() }

func newSessionID(projectID, branch string) string {
	return projectID + "/" + branch
}
