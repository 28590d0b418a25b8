package duckcli

import (
	"context"
	"sync"
)

// fakeRunner scripts subprocess behavior for tests. Version queries
// succeed by default; statement handling is delegated to respond.
type fakeRunner struct {
	mu    sync.Mutex
	calls []fakeCall

	// respond handles -c invocations, keyed by the inline statement.
	// A nil respond means every statement returns no output.
	respond func(stmt string) (stdout, stderr []byte, err error)

	// versionErr makes --version checks fail, for resolver tests.
	versionErr error
}

type fakeCall struct {
	name string
	args []string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fakeCall{name: name, args: args})
	f.mu.Unlock()

	if len(args) == 1 && args[0] == "--version" {
		if f.versionErr != nil {
			return nil, []byte("not a duckdb binary"), f.versionErr
		}
		return []byte("v1.2.0 abcdef1234\n"), nil, nil
	}

	stmt := ""
	for i, a := range args {
		if a == "-c" && i+1 < len(args) {
			stmt = args[i+1]
		}
	}
	if f.respond == nil {
		return nil, nil, nil
	}
	return f.respond(stmt)
}

func (f *fakeRunner) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeRunner) versionCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if len(c.args) == 1 && c.args[0] == "--version" {
			n++
		}
	}
	return n
}

func (f *fakeRunner) statements() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var stmts []string
	for _, c := range f.calls {
		for i, a := range c.args {
			if a == "-c" && i+1 < len(c.args) {
				stmts = append(stmts, c.args[i+1])
			}
		}
	}
	return stmts
}
