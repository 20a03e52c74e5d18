package provision

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tomcatup/tomcatup/internal/driver"
	"github.com/tomcatup/tomcatup/internal/download"
	"github.com/tomcatup/tomcatup/internal/system"
)

// callLog records calls across all fakes so cross-adapter ordering can be
// asserted.
type callLog struct {
	calls []string
}

func (l *callLog) add(format string, args ...any) {
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

func (l *callLog) index(call string) int {
	for i, c := range l.calls {
		if c == call {
			return i
		}
	}
	return -1
}

type fakePackages struct{ log *callLog }

func (f *fakePackages) Install(_ context.Context, names ...string) error {
	f.log.add("packages install %d", len(names))
	return nil
}

type fakeAccounts struct {
	log  *callLog
	fail map[string]error
}

func (f *fakeAccounts) call(name string) error {
	f.log.add("%s", name)
	return f.fail[name]
}

func (f *fakeAccounts) EnsureGroup(_ context.Context, name string) error {
	return f.call("ensure group " + name)
}

func (f *fakeAccounts) EnsureUser(_ context.Context, name, group, _ string) error {
	return f.call(fmt.Sprintf("ensure user %s:%s", name, group))
}

func (f *fakeAccounts) AddToGroup(_ context.Context, user, group string) error {
	return f.call(fmt.Sprintf("add %s to %s", user, group))
}

func (f *fakeAccounts) RemoveFromGroup(_ context.Context, user, group string) error {
	return f.call(fmt.Sprintf("remove %s from %s", user, group))
}

func (f *fakeAccounts) DeleteUser(_ context.Context, name string) error {
	return f.call("delete user " + name)
}

func (f *fakeAccounts) DeleteGroup(_ context.Context, name string) error {
	return f.call("delete group " + name)
}

type fakePerms struct{ log *callLog }

func (f *fakePerms) Chown(_ context.Context, path, owner, group string) error {
	f.log.add("chown %s:%s %s", owner, group, path)
	return nil
}

func (f *fakePerms) ChownRecursive(_ context.Context, path, owner, group string) error {
	f.log.add("chown -R %s:%s %s", owner, group, path)
	return nil
}

func (f *fakePerms) Chmod(_ context.Context, path, mode string) error {
	f.log.add("chmod %s %s", mode, path)
	return nil
}

func (f *fakePerms) GroupWritableRecursive(_ context.Context, path string) error {
	f.log.add("g+w %s", path)
	return nil
}

func (f *fakePerms) ApplyDefaultACL(_ context.Context, path, group string) error {
	f.log.add("acl %s %s", group, path)
	return nil
}

type fakeSystemd struct {
	log     *callLog
	units   map[string]bool
	active  map[string]bool
	enabled map[string]bool
}

func newFakeSystemd(log *callLog) *fakeSystemd {
	return &fakeSystemd{
		log:     log,
		units:   map[string]bool{},
		active:  map[string]bool{},
		enabled: map[string]bool{},
	}
}

func (f *fakeSystemd) UnitExists(name string) bool { return f.units[name] }

func (f *fakeSystemd) WriteUnit(_ context.Context, name string, _ system.UnitParams) error {
	f.log.add("write unit %s", name)
	f.units[name] = true
	return nil
}

func (f *fakeSystemd) RemoveUnit(_ context.Context, name string) error {
	f.log.add("remove unit %s", name)
	delete(f.units, name)
	return nil
}

func (f *fakeSystemd) DaemonReload(context.Context) error {
	f.log.add("daemon-reload")
	return nil
}

func (f *fakeSystemd) Enable(_ context.Context, name string) error {
	f.log.add("enable %s", name)
	f.enabled[name] = true
	return nil
}

func (f *fakeSystemd) Disable(_ context.Context, name string) error {
	f.log.add("disable %s", name)
	delete(f.enabled, name)
	return nil
}

func (f *fakeSystemd) Start(_ context.Context, name string) error {
	f.log.add("start %s", name)
	f.active[name] = true
	return nil
}

func (f *fakeSystemd) Stop(_ context.Context, name string) error {
	f.log.add("stop %s", name)
	delete(f.active, name)
	return nil
}

func (f *fakeSystemd) IsActive(_ context.Context, name string) bool  { return f.active[name] }
func (f *fakeSystemd) IsEnabled(_ context.Context, name string) bool { return f.enabled[name] }

func (f *fakeSystemd) Status(_ context.Context, name string) (string, error) {
	return "active (running)", nil
}

// fakeFiles logs privileged file mutations and performs them directly so
// pipeline tests can assert real filesystem outcomes.
type fakeFiles struct {
	log  *callLog
	fail map[string]error
}

func (f *fakeFiles) MkdirAll(_ context.Context, path string) error {
	f.log.add("mkdir -p %s", path)
	if err := f.fail["mkdir "+path]; err != nil {
		return err
	}
	return os.MkdirAll(path, 0o755)
}

func (f *fakeFiles) WriteFile(_ context.Context, path, content, mode string) error {
	f.log.add("write %s", path)
	if err := f.fail["write "+path]; err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

func (f *fakeFiles) CopyTree(_ context.Context, srcDir, destDir string) error {
	f.log.add("copy tree %s", destDir)
	if err := f.fail["copy "+destDir]; err != nil {
		return err
	}
	return os.CopyFS(destDir, os.DirFS(srcDir))
}

func (f *fakeFiles) RemoveAll(_ context.Context, path string) error {
	f.log.add("rm -rf %s", path)
	if err := f.fail["rm "+path]; err != nil {
		return err
	}
	return os.RemoveAll(path)
}

type fakeResolver struct {
	version string
	err     error
}

func (f *fakeResolver) LatestVersion(context.Context, int) (string, error) {
	return f.version, f.err
}

func (f *fakeResolver) ArchiveURL(version string) (string, error) {
	return "https://mirror.test/apache-tomcat-" + version + ".tar.gz", nil
}

func (f *fakeResolver) ChecksumURL(version string) (string, error) {
	url, _ := f.ArchiveURL(version)
	return url + ".sha512", nil
}

// fakeDownloader writes a placeholder archive and treats verification as
// passing.
type fakeDownloader struct {
	log *callLog
	err error
}

func (f *fakeDownloader) Download(ctx context.Context, url, destPath string) (string, error) {
	return f.DownloadWithProgress(ctx, url, destPath, nil)
}

func (f *fakeDownloader) DownloadWithProgress(_ context.Context, url, destPath string, _ download.ProgressCallback) (string, error) {
	f.log.add("download %s", filepath.Base(url))
	if f.err != nil {
		return "", f.err
	}
	if err := os.WriteFile(destPath, []byte("archive"), 0o644); err != nil {
		return "", err
	}
	return destPath, nil
}

func (f *fakeDownloader) VerifyFromURL(_ context.Context, filePath, _ string) error {
	f.log.add("verify %s", filepath.Base(filePath))
	return nil
}

type fakeDrivers struct {
	log *callLog
	err error
}

func (f *fakeDrivers) Install(_ context.Context, spec driver.Spec, _, _, _ string) error {
	f.log.add("driver %s", spec.Repo)
	return f.err
}
