package main

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"takeoffadmin/internal/api/apitest"
	"takeoffadmin/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// setupCLI points the package config at a fresh data dir and fake API.
func setupCLI(t *testing.T) *apitest.Server {
	t.Helper()
	logger = zap.NewNop()
	t.Setenv("TAKEOFF_PASSWORD", "")
	t.Setenv("TAKEOFF_API_URL", "")
	t.Setenv("TAKEOFF_STORAGE_DRIVER", "")
	t.Setenv("TAKEOFF_STORAGE_PATH", "")

	srv := apitest.New(t, apitest.WithAuth())
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.API.BaseURL = srv.URL
	cfg.API.Timeout = "5s"
	cfg.Storage.Driver = "file"
	cfg.Storage.Path = filepath.Join(dir, "session.json")
	path := filepath.Join(dir, "config.yaml")
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save config: %v", err)
	}

	configPath = path
	timeout = 0
	t.Cleanup(func() { configPath = "" })
	return srv
}

// resetFlags restores every flag to its default; cobra keeps parsed values
// between Execute calls.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	// --config is bound to configPath, so resetFlags would clear it.
	path := configPath
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append(args, "--config", path))
	err := rootCmd.Execute()
	configPath = path
	logger = zap.NewNop()
	return out.String(), errOut.String(), err
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, errOut, err := execute(t, "", args...)
	if err != nil {
		t.Fatalf("takeoff %s failed: %v\nstderr: %s", strings.Join(args, " "), err, errOut)
	}
	return out
}

var ansiSeq = regexp.MustCompile("\x1b\\[[0-9;]*[a-zA-Z]")

func login(t *testing.T) {
	t.Helper()
	out := mustExecute(t, "login", "--email", apitest.AdminEmail, "--password", apitest.AdminPassword)
	if !strings.Contains(out, "Signed in as "+apitest.AdminEmail+" (admin)") {
		t.Fatalf("unexpected login output: %q", out)
	}
}

func TestFlagName(t *testing.T) {
	cases := map[string]string{
		"heading":   "heading",
		"fullName":  "full-name",
		"isRegular": "is-regular",
		"linkedIn":  "linked-in",
	}
	for in, want := range cases {
		if got := flagName(in); got != want {
			t.Errorf("flagName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCommandsRequireSession(t *testing.T) {
	srv := setupCLI(t)

	for _, args := range [][]string{
		{"dashboard"},
		{"banners", "list"},
		{"members", "add", "--name", "Ali"},
		{"memberships"},
	} {
		_, _, err := execute(t, "", args...)
		if err == nil || !strings.Contains(err.Error(), "not signed in") {
			t.Errorf("takeoff %v: expected not signed in, got %v", args, err)
		}
	}
	if n := len(srv.Calls()); n != 0 {
		t.Fatalf("expected no requests without a session, got %d", n)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	setupCLI(t)

	_, _, err := execute(t, "", "login", "--email", apitest.AdminEmail, "--password", "nope")
	if err == nil || !strings.Contains(err.Error(), "Invalid email or password") {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	out := mustExecute(t, "whoami")
	if !strings.Contains(out, "Not signed in.") {
		t.Fatalf("failed login must not store a session: %q", out)
	}
}

func TestLoginPromptsForPassword(t *testing.T) {
	setupCLI(t)

	out, _, err := execute(t, apitest.AdminPassword+"\n", "login", "--email", apitest.AdminEmail)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out, "Signed in") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestSessionSurvivesAcrossRuns(t *testing.T) {
	srv := setupCLI(t)
	srv.Seed("banner", map[string]interface{}{"heading": "Spring launch", "description": "New season"})
	login(t)

	out := mustExecute(t, "whoami")
	if !strings.Contains(out, "Role:     admin") || !strings.Contains(out, "Status:   succeeded") {
		t.Fatalf("unexpected whoami output:\n%s", out)
	}
	if !strings.Contains(out, "Expires:") {
		t.Fatalf("whoami should show token expiry:\n%s", out)
	}

	out = mustExecute(t, "dashboard")
	if !strings.Contains(out, "Total records: 1") {
		t.Fatalf("unexpected dashboard output:\n%s", out)
	}

	out = mustExecute(t, "banners", "list")
	if !strings.Contains(out, "Spring launch") {
		t.Fatalf("banner missing from list:\n%s", out)
	}

	mustExecute(t, "logout")
	_, _, err := execute(t, "", "banners", "list")
	if err == nil || !strings.Contains(err.Error(), "not signed in") {
		t.Fatalf("expected not signed in after logout, got %v", err)
	}
	if srv.CallCount("DELETE", "/admin/logout") != 1 {
		t.Fatalf("expected one logout call")
	}
}

func TestBannerAddAndDelete(t *testing.T) {
	srv := setupCLI(t)
	login(t)

	img := filepath.Join(t.TempDir(), "hero.png")
	if err := os.WriteFile(img, []byte("\x89PNG\r\n\x1a\nfake"), 0644); err != nil {
		t.Fatal(err)
	}

	out := mustExecute(t, "banners", "add", "--heading", "Summer", "--description", "Hot deals", "--image", img)
	if !strings.Contains(out, "Banner added successfully!") {
		t.Fatalf("unexpected add output: %q", out)
	}
	records := srv.Records("banner")
	if len(records) != 1 || records[0]["heading"] != "Summer" {
		t.Fatalf("unexpected records: %v", records)
	}
	id := records[0]["_id"].(string)

	// declined prompt sends nothing
	srv.ResetCalls()
	out, _, err := execute(t, "n\n", "banners", "delete", id)
	if err != nil {
		t.Fatalf("declined delete: %v", err)
	}
	if !strings.Contains(out, "Cancelled.") || srv.CallCount("DELETE", "/admin/delete-banner/"+id) != 0 {
		t.Fatalf("declined delete must not call the API: %q", out)
	}

	out = mustExecute(t, "banners", "delete", id, "--yes")
	if !strings.Contains(out, "Banner deleted successfully!") {
		t.Fatalf("unexpected delete output: %q", out)
	}
	if len(srv.Records("banner")) != 0 {
		t.Fatalf("banner not deleted")
	}
}

func TestAddValidationNeverReachesServer(t *testing.T) {
	srv := setupCLI(t)
	login(t)
	srv.ResetCalls()

	_, errOut, err := execute(t, "", "members", "add", "--name", "Ali")
	if err == nil || err.Error() != "Please fill in all required fields" {
		t.Fatalf("expected validation failure, got %v", err)
	}
	if !strings.Contains(errOut, "--company: Company is required") {
		t.Fatalf("field errors missing from stderr: %q", errOut)
	}
	if srv.CallCount("POST", "/admin/add-member") != 0 {
		t.Fatalf("validation failure must not send a request")
	}
}

func TestMemberUpdateChangesOnlyGivenFields(t *testing.T) {
	srv := setupCLI(t)
	id := srv.Seed("member", map[string]interface{}{
		"name": "Ali", "title": "CTO", "company": "Acme", "industry": "Tech", "location": "Riyadh",
		"email": "ali@acme.sa", "phone": "+966 55 123", "discount": "10%",
	})
	login(t)

	out := mustExecute(t, "members", "update", id, "--discount", "15%")
	if !strings.Contains(out, "Member updated successfully!") {
		t.Fatalf("unexpected update output: %q", out)
	}
	rec := srv.Records("member")[0]
	if rec["discount"] != "15%" || rec["company"] != "Acme" {
		t.Fatalf("unexpected record after update: %v", rec)
	}

	_, _, err := execute(t, "", "members", "update", id)
	if err == nil || !strings.Contains(err.Error(), "nothing to update") {
		t.Fatalf("expected nothing to update, got %v", err)
	}
}

func TestMembersPaging(t *testing.T) {
	srv := setupCLI(t)
	for i := 0; i < 12; i++ {
		srv.Seed("member", map[string]interface{}{"name": "Member " + string(rune('A'+i))})
	}
	login(t)

	out := mustExecute(t, "members", "list", "--page", "2")
	if !strings.Contains(out, "11 - 12 of 12 (page 2)") {
		t.Fatalf("unexpected page output:\n%s", out)
	}
	if !strings.Contains(out, "Member L") || strings.Contains(out, "Member A ") {
		t.Fatalf("wrong page contents:\n%s", out)
	}
}

func TestMembershipsAreReadOnly(t *testing.T) {
	srv := setupCLI(t)
	id := srv.Seed("membership", map[string]interface{}{
		"personalInfo": map[string]interface{}{"firstName": "Omar", "lastName": "Ali"},
	})
	login(t)

	out := mustExecute(t, "memberships")
	if !strings.Contains(out, "Omar Ali") {
		t.Fatalf("enquiry missing:\n%s", out)
	}
	out = ansiSeq.ReplaceAllString(mustExecute(t, "memberships", "get", id), "")
	if !strings.Contains(out, "Omar") {
		t.Fatalf("detail missing name:\n%s", out)
	}
	if _, _, err := execute(t, "", "memberships", "delete", id); err == nil {
		t.Fatalf("memberships must not expose delete")
	}
}

func TestSyncReportsEveryCollection(t *testing.T) {
	srv := setupCLI(t)
	srv.Seed("event", map[string]interface{}{"title": "Summit", "eventDate": "2026-03-03", "location": "Doha"})
	login(t)

	out := mustExecute(t, "sync")
	for _, name := range []string{"Banners", "Events", "Founder Profiles", "Verified Members", "Membership Enquiries"} {
		if !strings.Contains(out, name) {
			t.Errorf("sync output missing %s:\n%s", name, out)
		}
	}
}

func TestConfigPathSurvivesFlagReset(t *testing.T) {
	setupCLI(t)
	want := configPath

	mustExecute(t, "language", "Arabic")
	if configPath != want {
		t.Fatalf("configPath = %q, want %q", configPath, want)
	}
	cfg, err := config.Load(want)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if _, err := os.Stat(cfg.Storage.Path); err != nil {
		t.Fatalf("preference not written to the test data dir: %v", err)
	}
}

func TestConfiguredDefaultLanguage(t *testing.T) {
	setupCLI(t)
	cfg, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.UI.Language = "Arabic"
	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("save config: %v", err)
	}

	if out := mustExecute(t, "language"); strings.TrimSpace(out) != "Arabic" {
		t.Fatalf("configured default ignored: %q", out)
	}
	mustExecute(t, "language", "English")
	if out := mustExecute(t, "language"); strings.TrimSpace(out) != "English" {
		t.Fatalf("stored preference should win: %q", out)
	}
}

func TestLanguage(t *testing.T) {
	setupCLI(t)

	if out := mustExecute(t, "language"); strings.TrimSpace(out) != "English" {
		t.Fatalf("default language = %q", out)
	}
	mustExecute(t, "language", "Arabic")
	if out := mustExecute(t, "language"); strings.TrimSpace(out) != "Arabic" {
		t.Fatalf("language not persisted: %q", out)
	}
}
