package system

import (
	"context"
	"strings"
)

// fakeRunner records invocations and serves scripted results.
type fakeRunner struct {
	calls   []string
	fail    map[string]error
	outputs map[string]string
	checks  map[string]bool
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		fail:    make(map[string]error),
		outputs: make(map[string]string),
		checks:  make(map[string]bool),
	}
}

func joinCmd(name string, args ...string) string {
	return strings.Join(append([]string{name}, args...), " ")
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) error {
	cmd := joinCmd(name, args...)
	f.calls = append(f.calls, cmd)
	if err, ok := f.fail[cmd]; ok {
		return err
	}
	return nil
}

func (f *fakeRunner) Output(_ context.Context, name string, args ...string) (string, error) {
	cmd := joinCmd(name, args...)
	f.calls = append(f.calls, cmd)
	if err, ok := f.fail[cmd]; ok {
		return "", err
	}
	return f.outputs[cmd], nil
}

func (f *fakeRunner) Check(_ context.Context, name string, args ...string) bool {
	cmd := joinCmd(name, args...)
	f.calls = append(f.calls, cmd)
	return f.checks[cmd]
}
