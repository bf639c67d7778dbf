package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/adrg/xdg"
	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/wordgames/internal/config"
	"git.home.luguber.info/inful/wordgames/internal/content"
	derrors "git.home.luguber.info/inful/wordgames/internal/foundation/errors"
)

// run parses args like main does and executes the selected command.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var cli CLI
	var out bytes.Buffer
	g := NewGlobal(&out)
	g.Context = context.Background()

	parser, err := kong.New(&cli,
		kong.Name("learnwordgames"),
		kong.Vars{"version": "test"},
		kong.Bind(g),
		kong.Exit(func(int) { t.Fatalf("unexpected exit for %v", args) }),
	)
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	require.NoError(t, err)
	err = kctx.Run(&cli)
	return out.String(), err
}

func isolated(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	xdg.Reload()
	return dir
}

func writeManifest(t *testing.T, dir string, replace ...string) string {
	t.Helper()
	data := string(content.DefaultYAML())
	for i := 0; i+1 < len(replace); i += 2 {
		require.Contains(t, data, replace[i])
		data = strings.Replace(data, replace[i], replace[i+1], 1)
	}
	path := filepath.Join(dir, "manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func TestRenderToStdout(t *testing.T) {
	dir := isolated(t)
	cfg := filepath.Join(dir, "config.yaml")

	args := []string{"-c", cfg, "render", "--at", "2031-05-06T07:08:09Z", "--message", "Hi <there>"}
	first, err := run(t, args...)
	require.NoError(t, err)
	second, err := run(t, args...)
	require.NoError(t, err)

	assert.Equal(t, first, second, "render must be deterministic for a fixed time")
	assert.True(t, strings.HasPrefix(first, "<!DOCTYPE html>"))
	assert.Contains(t, first, `datetime="2031-05-06T07:08:09.000Z"`)
	assert.Contains(t, first, "© 2031")
	assert.Contains(t, first, "Hi &lt;there&gt;")
}

func TestRenderToFileWithVerify(t *testing.T) {
	dir := isolated(t)
	out := filepath.Join(dir, "site", "index.html")

	stdout, err := run(t, "-c", filepath.Join(dir, "config.yaml"), "render", "--verify", "-o", out)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<script type="application/ld+json">`)
}

func TestRenderRejectsBadTimestamp(t *testing.T) {
	dir := isolated(t)
	_, err := run(t, "-c", filepath.Join(dir, "config.yaml"), "render", "--at", "yesterday")
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryValidation))
}

func TestValidateDefaultManifest(t *testing.T) {
	dir := isolated(t)
	out, err := run(t, "-c", filepath.Join(dir, "config.yaml"), "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "manifest: "+content.EmbeddedSource+" (launched)")
	assert.Contains(t, out, "OK ")
}

func TestValidateReportsDanglingTarget(t *testing.T) {
	dir := isolated(t)
	manifest := writeManifest(t, dir, "target: esl-phonics", "target: esl-phonix")

	out, err := run(t, "-c", filepath.Join(dir, "config.yaml"), "validate", manifest)
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryContent))
	assert.Equal(t, 2, derrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
	assert.Contains(t, out, `error    nav_groups[browse-by-topic]`)
	assert.Contains(t, out, `target "esl-phonix" does not match any section id`)
	assert.Contains(t, out, "FAILED")
}

func TestValidateJSON(t *testing.T) {
	dir := isolated(t)
	out, err := run(t, "-c", filepath.Join(dir, "config.yaml"), "validate", "--json")
	require.NoError(t, err)

	var report ValidationOutput
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, content.StatusLaunched, report.Status)
	assert.Empty(t, report.Errors)
	assert.NotEmpty(t, report.Fingerprint)
	require.NotNil(t, report.Audit)
	assert.True(t, report.Audit.OK())
	assert.Equal(t, report.Audit.FAQItems, report.Audit.FAQEntities)
}

func TestValidateStrictFailsOnWarnings(t *testing.T) {
	dir := isolated(t)
	long := strings.Repeat("x", 80)
	manifest := writeManifest(t, dir,
		`title: "Learn Word Games | Guides, Tips, Puzzles, and Daily Practice"`,
		`title: "`+long+`"`)

	out, err := run(t, "-c", filepath.Join(dir, "config.yaml"), "validate", manifest)
	require.NoError(t, err)
	assert.Contains(t, out, "warning  meta.title")

	_, err = run(t, "-c", filepath.Join(dir, "config.yaml"), "validate", "--strict", manifest)
	require.Error(t, err)
	ce, ok := derrors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, derrors.CategoryContent, ce.Category())
	assert.False(t, ce.IsFatal())
	assert.Equal(t, 2, derrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestInitWritesConfigAndManifest(t *testing.T) {
	dir := isolated(t)
	cfg := filepath.Join(dir, "conf", "config.yaml")
	manifest := filepath.Join(dir, "content", "page.yaml")

	out, err := run(t, "-c", cfg, "init", "-m", manifest)
	require.NoError(t, err)
	assert.Contains(t, out, "initialized successfully")
	assert.FileExists(t, cfg)

	written, err := os.ReadFile(manifest)
	require.NoError(t, err)
	assert.Equal(t, content.DefaultYAML(), written)

	_, err = run(t, "-c", cfg, "init")
	require.Error(t, err, "existing config must not be overwritten")

	_, err = run(t, "-c", cfg, "init", "--force", "-m", manifest)
	require.NoError(t, err)

	// The written files are usable as-is.
	_, err = run(t, "-c", cfg, "validate", manifest)
	require.NoError(t, err)
}

func TestBrokenConfigOnlyBlocksCommandsThatNeedIt(t *testing.T) {
	dir := isolated(t)
	cfg := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("site:\n  unknown_key: 1\n"), 0o600))

	_, err := run(t, "-c", cfg, "render")
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryConfig))

	_, err = run(t, "-c", cfg, "init", "--force")
	require.NoError(t, err)
	_, err = run(t, "-c", cfg, "render")
	require.NoError(t, err)
}

func TestServeRejectsInvalidManifestBeforeBinding(t *testing.T) {
	dir := isolated(t)
	manifest := writeManifest(t, dir, "target: esl-phonics", "target: nowhere")

	_, err := run(t, "-c", filepath.Join(dir, "config.yaml"), "serve", "-m", manifest)
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryContent))
}

func TestServeWatchRequiresManifest(t *testing.T) {
	dir := isolated(t)
	_, err := run(t, "-c", filepath.Join(dir, "config.yaml"), "serve", "--watch")
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryConfig))
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func TestServeReleasesPortsWhenStartupFails(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.SitePort = freePort(t)
	cfg.Server.AdminPort = freePort(t)
	cfg.Export.Enabled = true
	cfg.Export.Schedule = "not a cron"
	cfg.Export.Directory = t.TempDir()

	err := RunServe(context.Background(), cfg, NewGlobal(&bytes.Buffer{}))
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryConfig))

	for _, port := range []int{cfg.Server.SitePort, cfg.Server.AdminPort} {
		ln, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
		require.NoError(t, err, "port %d still bound", port)
		require.NoError(t, ln.Close())
	}
}
