package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/nerrad567/gridstore-core/internal/auth"
	"github.com/nerrad567/gridstore-core/internal/infrastructure/config"
	"github.com/nerrad567/gridstore-core/internal/registry"
	"github.com/nerrad567/gridstore-core/internal/schema"
)

const testNetwork = `{
	"version": "1.12",
	"id": "net1",
	"caseDate": "2026-10-01T12:00:00+02:00",
	"substations": [{
		"id": "S1",
		"country": "FR",
		"voltageLevels": [{
			"id": "VL1",
			"nominalV": 400,
			"topologyKind": "BUS_BREAKER",
			"busBreakerTopology": {"buses": [{"id": "B1"}]},
			"loads": [{"id": "LOAD1", "loadType": "UNDEFINED", "p0": 600, "q0": 200, "bus": "B1", "connectableBus": "B1"}]
		}]
	}],
	"lines": [{
		"id": "L1", "r": 3, "x": 33,
		"voltageLevelId1": "VL1", "bus1": "B1", "connectableBus1": "B1",
		"voltageLevelId2": "VL1", "bus2": "B1", "connectableBus2": "B1"
	}]
}`

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// execute runs the command tree with args and returns its standard output.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(out, "gridstore dev") {
		t.Errorf("version output = %q, want prefix \"gridstore dev\"", out)
	}
}

func TestKindsCommand(t *testing.T) {
	out, err := execute(t, "", "kinds", "--verbose")
	if err != nil {
		t.Fatalf("kinds error = %v", err)
	}
	kinds := 0
	for _, line := range strings.Split(out, "\n") {
		if line != "" && !strings.HasPrefix(line, " ") {
			kinds++
		}
	}
	if kinds != 33 {
		t.Errorf("kinds printed %d kinds, want 33", kinds)
	}
	if !strings.Contains(out, "Line") || !strings.Contains(out, "permanentLimit") {
		t.Errorf("kinds output missing Line or CurrentLimits fields:\n%s", out)
	}
}

func TestSchemaCommand(t *testing.T) {
	out, err := execute(t, "", "schema", "Line")
	if err != nil {
		t.Fatalf("schema error = %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("schema output is not JSON: %v", err)
	}
	if doc["title"] != "LinePatch" {
		t.Errorf("title = %v, want LinePatch", doc["title"])
	}

	if _, err := execute(t, "", "schema", "Transformer"); !errors.Is(err, registry.ErrDispatchNotFound) {
		t.Errorf("schema Transformer error = %v, want ErrDispatchNotFound", err)
	}
	if _, err := execute(t, "", "schema"); err == nil {
		t.Error("schema without a kind succeeded")
	}
}

func TestValidateCommand_Network(t *testing.T) {
	path := writeFile(t, "network.json", testNetwork)

	out, err := execute(t, "", "validate", path)
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}
	if !strings.Contains(out, "network net1: 6 records") {
		t.Errorf("validate output = %q, want record summary", out)
	}
	if !strings.Contains(out, "Line") || !strings.Contains(out, "Load") {
		t.Errorf("validate output missing per-kind counts:\n%s", out)
	}

	if _, err := execute(t, `{"id":`, "validate", "-"); err == nil {
		t.Error("validate of a truncated document succeeded")
	}
	if _, err := execute(t, "", "validate", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("validate of a missing file succeeded")
	}
}

func TestValidateCommand_Patch(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		patch   string
		wantErr error
	}{
		{"valid", "Line", `{"r":10}`, nil},
		{"clear optional", "Line", `{"currentLimits1":null}`, nil},
		{"unknown field", "Line", `{"resistance":10}`, schema.ErrUnexpectedField},
		{"wrong type", "Line", `{"r":"high"}`, schema.ErrSchemaViolation},
		{"unknown kind", "Transformer", `{}`, registry.ErrDispatchNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.patch, "validate", "--kind", tt.kind, "-")
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("validate error = %v", err)
				}
				if !strings.Contains(out, "valid "+tt.kind+" patch") {
					t.Errorf("output = %q, want confirmation", out)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validate error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("GRIDSTORE_JWT_SECRET", "")
	const secret = "0123456789abcdef0123456789abcdef"
	cfgPath := writeFile(t, "config.yaml", fmt.Sprintf("security:\n  jwt:\n    secret: %q\n", secret))

	out, err := execute(t, "", "--config", cfgPath, "token", "--subject", "ops-1", "--role", "admin")
	if err != nil {
		t.Fatalf("token error = %v", err)
	}

	claims, err := auth.NewVerifier(secret, "gridstore", "").Parse(strings.TrimSpace(out))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if claims.Subject != "ops-1" || claims.Role != auth.RoleAdmin {
		t.Errorf("claims = %s/%s, want ops-1/admin", claims.Subject, claims.Role)
	}

	if _, err := execute(t, "", "--config", cfgPath, "token", "--subject", "x", "--role", "root"); !errors.Is(err, auth.ErrInvalidRole) {
		t.Errorf("token --role root error = %v, want ErrInvalidRole", err)
	}
	if _, err := execute(t, "", "--config", "", "token", "--subject", "x"); !errors.Is(err, auth.ErrEmptySecret) {
		t.Errorf("token without a secret error = %v, want ErrEmptySecret", err)
	}
	if _, err := execute(t, "", "--config", cfgPath, "token"); err == nil {
		t.Error("token without --subject succeeded")
	}
}

func TestMigrateCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "journal.db")
	t.Setenv("GRIDSTORE_DATABASE_PATH", dbPath)

	steps := []struct {
		args []string
		want string
	}{
		{[]string{"migrate", "status"}, "update_journal  pending"},
		{[]string{"migrate", "up"}, "update_journal  applied"},
		{[]string{"migrate", "status"}, "update_journal  applied"},
		{[]string{"migrate", "down"}, "rolled back 20261001_120000 update_journal"},
		{[]string{"migrate", "status"}, "update_journal  pending"},
		{[]string{"migrate", "down"}, "nothing to roll back"},
	}

	for _, step := range steps {
		out, err := execute(t, "", append([]string{"--config", ""}, step.args...)...)
		if err != nil {
			t.Fatalf("%v error = %v", step.args, err)
		}
		if !strings.Contains(out, step.want) {
			t.Errorf("%v output = %q, want it to contain %q", step.args, out, step.want)
		}
	}
}

func TestConfigPathFromEnv(t *testing.T) {
	t.Setenv("GRIDSTORE_CONFIG", "")
	if got := configPathFromEnv(); got != defaultConfigPath {
		t.Errorf("configPathFromEnv() = %q, want %q", got, defaultConfigPath)
	}
	t.Setenv("GRIDSTORE_CONFIG", "/etc/gridstore.yaml")
	if got := configPathFromEnv(); got != "/etc/gridstore.yaml" {
		t.Errorf("configPathFromEnv() = %q, want /etc/gridstore.yaml", got)
	}
}

func TestBuildEngine(t *testing.T) {
	e, err := buildEngine(config.Default(), nil, nil)
	if err != nil {
		t.Fatalf("buildEngine() error = %v", err)
	}
	if got := len(e.Kinds()); got != 33 {
		t.Errorf("len(Kinds()) = %d, want 33", got)
	}
	if got := e.Hub().Config().Capacity; got != 100 {
		t.Errorf("hub capacity = %d, want 100", got)
	}
}

func TestPreload(t *testing.T) {
	e, err := buildEngine(config.Default(), nil, nil)
	if err != nil {
		t.Fatalf("buildEngine() error = %v", err)
	}

	n, err := preload(context.Background(), e, writeFile(t, "network.json", testNetwork))
	if err != nil {
		t.Fatalf("preload() error = %v", err)
	}
	if n != 6 || e.Len() != 6 {
		t.Errorf("preload() = %d, Len() = %d, want 6/6", n, e.Len())
	}

	if _, err := preload(context.Background(), e, filepath.Join(t.TempDir(), "none.json")); err == nil {
		t.Error("preload() of a missing file succeeded")
	}
}

// freePort asks the kernel for an unused TCP port.
func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestRun_ServesUntilCancelled(t *testing.T) {
	cfg := config.Default()
	cfg.API.Host = "127.0.0.1"
	cfg.API.Port = freePort(t)
	cfg.Database.Path = filepath.Join(t.TempDir(), "gridstore.db")
	cfg.Logging.Output = "stderr"
	networkPath := writeFile(t, "network.json", testNetwork)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- run(ctx, cfg, networkPath) }()

	url := fmt.Sprintf("http://127.0.0.1:%d/api/iidm/components/L1", cfg.API.Port)
	var resp *http.Response
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		r, err := http.Get(url) //nolint:noctx // Test polling
		if err == nil {
			resp = r
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if resp == nil {
		cancel()
		t.Fatal("server never became reachable")
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET component status = %d, want 200", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("run() error = %v", err)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("run() did not return after cancel")
	}
}

func TestRun_BadNetwork(t *testing.T) {
	cfg := config.Default()
	cfg.Journal.Enabled = false
	cfg.Logging.Output = "stderr"

	err := run(context.Background(), cfg, writeFile(t, "network.json", `[]`))
	if err == nil {
		t.Error("run() with an invalid network succeeded")
	}
}
