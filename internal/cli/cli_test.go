package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aalvaropc/railbook/internal/domain"
	"github.com/aalvaropc/railbook/internal/infra/datadir"
)

// --- output ---

func TestCheckFormat(t *testing.T) {
	cases := []struct {
		input   string
		wantErr bool
	}{
		{"pretty", false},
		{"json", false},
		{"", false},
		{"yaml", true},
		{"JSON", true},
	}
	for _, c := range cases {
		if err := checkFormat(c.input); (err != nil) != c.wantErr {
			t.Errorf("checkFormat(%q) err = %v, wantErr %v", c.input, err, c.wantErr)
		}
	}
}

func TestPrintTrains_JSON(t *testing.T) {
	var buf bytes.Buffer
	trains := []domain.Train{{ID: "T1", Name: "Coastal", Source: "Goa", Destination: "Mumbai", AvailableSeats: 2, Capacity: 5}}
	if err := printTrains(&buf, trains, "json"); err != nil {
		t.Fatalf("printTrains: %v", err)
	}

	var body struct {
		Trains []map[string]any `json:"trains"`
	}
	if err := json.Unmarshal(buf.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if len(body.Trains) != 1 {
		t.Fatalf("expected 1 train, got %d", len(body.Trains))
	}
	got := body.Trains[0]
	if got["trainId"] != "T1" || got["trainName"] != "Coastal" || got["availableSeats"] != float64(2) || got["capacity"] != float64(5) {
		t.Errorf("unexpected train JSON: %v", got)
	}
}

func TestPrintTrains_PrettyEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := printTrains(&buf, nil, "pretty"); err != nil {
		t.Fatalf("printTrains: %v", err)
	}
	if !strings.Contains(buf.String(), "No trains.") {
		t.Errorf("expected empty message, got %q", buf.String())
	}
}

func TestPrintTicket_Pretty(t *testing.T) {
	var buf bytes.Buffer
	tk := domain.Ticket{ID: "tk-1", TrainID: "T1", TrainName: "Coastal", Source: "Goa", Destination: "Mumbai", BookingDate: "2026-01-02"}
	if err := printTicket(&buf, tk, ""); err != nil {
		t.Fatalf("printTicket: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"tk-1", "Coastal (T1)", "Goa -> Mumbai", "2026-01-02"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestPrintTickets_JSONUsesJourneyDate(t *testing.T) {
	var buf bytes.Buffer
	tickets := []domain.Ticket{{ID: "tk-1", UserID: "u1", TrainID: "T1", BookingDate: "2026-01-02"}}
	if err := printTickets(&buf, tickets, "json"); err != nil {
		t.Fatalf("printTickets: %v", err)
	}
	if !strings.Contains(buf.String(), `"journeyDate": "2026-01-02"`) {
		t.Errorf("expected journeyDate key, got:\n%s", buf.String())
	}
}

func TestPrintStatus_UnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	err := printStatus(&buf, "xml", "cancelled", "")
	if err == nil || !strings.Contains(err.Error(), "unsupported format") {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

func TestPrintStatus_JSONOmitsEmptyUser(t *testing.T) {
	var buf bytes.Buffer
	if err := printStatus(&buf, "json", "cancelled", ""); err != nil {
		t.Fatalf("printStatus: %v", err)
	}
	if strings.Contains(buf.String(), "userId") {
		t.Errorf("expected no userId, got %s", buf.String())
	}
}

// --- readPassword ---

func TestReadPassword(t *testing.T) {
	cases := []struct {
		name  string
		stdin string
		flag  string
		want  string
	}{
		{"flag wins", "ignored\n", "pw", "pw"},
		{"first line", "secret\nmore\n", "", "secret"},
		{"crlf", "secret\r\n", "", "secret"},
		{"no newline", "secret", "", "secret"},
		{"empty", "", "", ""},
	}
	for _, c := range cases {
		got, err := readPassword(strings.NewReader(c.stdin), c.flag)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", c.name, err)
		}
		if got != c.want {
			t.Errorf("%s: got %q, want %q", c.name, got, c.want)
		}
	}
}

// --- resolveRoot ---

func TestResolveRoot_ExplicitIsAbsolute(t *testing.T) {
	tmp := t.TempDir()
	got, err := resolveRoot(tmp)
	if err != nil {
		t.Fatalf("resolveRoot: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("expected absolute path, got %q", got)
	}
}

func TestOpenSystem_UninitializedRootLoadsEmpty(t *testing.T) {
	tmp := t.TempDir()
	sys, err := openSystem(tmp)
	if err != nil {
		t.Fatalf("openSystem: %v", err)
	}
	defer func() { _ = sys.Close() }()
	if n := len(sys.trains.List()); n != 0 {
		t.Errorf("expected no trains, got %d", n)
	}
	if _, err := os.Stat(filepath.Join(tmp, "data", "users.json")); err != nil {
		t.Errorf("expected users.json to be created: %v", err)
	}
}

func TestOpenSystem_SecondOpenOfSameRootRefused(t *testing.T) {
	root := t.TempDir()

	first, err := openSystem(root)
	if err != nil {
		t.Fatalf("first openSystem: %v", err)
	}

	_, err = openSystem(root)
	if !errors.Is(err, datadir.ErrInUse) {
		t.Fatalf("expected ErrInUse, got %v", err)
	}
	if domain.CodeOf(err) != domain.CodeStorageUnavailable {
		t.Fatalf("expected storage_unavailable, got %s", domain.CodeOf(err))
	}

	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	again, err := openSystem(root)
	if err != nil {
		t.Fatalf("expected open after Close, got %v", err)
	}
	_ = again.Close()
}

func TestOpenSystem_ReadOnlyIgnoresHeldLock(t *testing.T) {
	root := t.TempDir()

	holder, err := openSystem(root)
	if err != nil {
		t.Fatalf("openSystem: %v", err)
	}
	defer func() { _ = holder.Close() }()

	ro, err := openSystem(root, withReadOnly())
	if err != nil {
		t.Fatalf("read-only openSystem: %v", err)
	}
	if err := ro.Close(); err != nil {
		t.Fatalf("read-only Close: %v", err)
	}
}

// --- commands ---

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func initRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	out, err := run(t, "", "-r", root, "init")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(out, "Initialized railbook root") {
		t.Fatalf("unexpected init output: %q", out)
	}
	return root
}

func signUp(t *testing.T, root, name string) string {
	t.Helper()
	out, err := run(t, "", "-r", root, "--format", "json", "signup", name, "-p", "pw")
	if err != nil {
		t.Fatalf("signup %s: %v", name, err)
	}
	var st statusJSON
	if err := json.Unmarshal([]byte(out), &st); err != nil {
		t.Fatalf("signup output: %v\n%s", err, out)
	}
	if st.Status != "signup_success" || st.UserID == "" {
		t.Fatalf("unexpected signup status: %+v", st)
	}
	return st.UserID
}

func TestCommands_BookingFlow(t *testing.T) {
	root := initRoot(t)
	alice := signUp(t, root, "alice")
	bob := signUp(t, root, "bob")

	out, err := run(t, "pw\n", "-r", root, "--format", "json", "login", "alice")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out, alice) {
		t.Errorf("expected login to print alice's id, got %s", out)
	}

	out, err = run(t, "", "-r", root, "--format", "json", "book", "12123", "-u", alice)
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	var tk ticketJSON
	if err := json.Unmarshal([]byte(out), &tk); err != nil {
		t.Fatalf("book output: %v\n%s", err, out)
	}
	if tk.TrainID != "12123" || tk.UserID != alice || tk.TrainName != "Deccan Queen" {
		t.Errorf("unexpected ticket: %+v", tk)
	}

	out, err = run(t, "", "-r", root, "--format", "json", "trains", "show", "12123")
	if err != nil {
		t.Fatalf("trains show: %v", err)
	}
	if !strings.Contains(out, `"availableSeats": 39`) {
		t.Errorf("expected one seat taken, got %s", out)
	}

	out, err = run(t, "", "-r", root, "--format", "json", "bookings", "-u", alice)
	if err != nil {
		t.Fatalf("bookings: %v", err)
	}
	if !strings.Contains(out, tk.ID) {
		t.Errorf("expected ticket %s in bookings, got %s", tk.ID, out)
	}

	_, err = run(t, "", "-r", root, "cancel", tk.ID, "-u", bob)
	if domain.CodeOf(err) != domain.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}

	out, err = run(t, "", "-r", root, "cancel", tk.ID, "-u", alice)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if strings.TrimSpace(out) != "cancelled" {
		t.Errorf("unexpected cancel output: %q", out)
	}

	out, err = run(t, "", "-r", root, "--format", "json", "trains", "show", "12123")
	if err != nil {
		t.Fatalf("trains show: %v", err)
	}
	if !strings.Contains(out, `"availableSeats": 40`) {
		t.Errorf("expected seat returned, got %s", out)
	}
}

func TestCommands_LoginWrongPassword(t *testing.T) {
	root := initRoot(t)
	signUp(t, root, "alice")

	_, err := run(t, "", "-r", root, "login", "alice", "-p", "nope")
	if domain.CodeOf(err) != domain.CodeInvalidCredentials {
		t.Fatalf("expected invalid_credentials, got %v", err)
	}
}

func TestCommands_TrainsListAndSearch(t *testing.T) {
	root := initRoot(t)

	out, err := run(t, "", "-r", root, "--format", "json", "trains", "list")
	if err != nil {
		t.Fatalf("trains list: %v", err)
	}
	var body struct {
		Trains []trainJSON `json:"trains"`
	}
	if err := json.Unmarshal([]byte(out), &body); err != nil {
		t.Fatalf("list output: %v\n%s", err, out)
	}
	if len(body.Trains) != 4 {
		t.Fatalf("expected 4 seeded trains, got %d", len(body.Trains))
	}

	out, err = run(t, "", "-r", root, "trains", "search", "pune", "MUMBAI")
	if err != nil {
		t.Fatalf("trains search: %v", err)
	}
	if !strings.Contains(out, "12123") || strings.Contains(out, "10103") {
		t.Errorf("unexpected search output:\n%s", out)
	}
}

func TestCommands_TrainsImportSkipsExisting(t *testing.T) {
	root := initRoot(t)

	file := filepath.Join(t.TempDir(), "more.yaml")
	seed := `trains:
  - id: "12123"
    name: Deccan Queen
    source: Pune
    destination: Mumbai
    seats: 40
  - id: "99999"
    name: Night Mail
    source: Delhi
    destination: Agra
    seats: 2
`
	if err := os.WriteFile(file, []byte(seed), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "", "-r", root, "trains", "import", file)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, "Imported 1 train(s), skipped 1 existing") {
		t.Errorf("unexpected import output: %q", out)
	}

	out, err = run(t, "", "-r", root, "trains", "show", "99999")
	if err != nil {
		t.Fatalf("trains show: %v", err)
	}
	if !strings.Contains(out, "Night Mail") {
		t.Errorf("expected imported train, got %q", out)
	}
}

func TestCommands_BookRequiresUser(t *testing.T) {
	root := initRoot(t)
	if _, err := run(t, "", "-r", root, "book", "12123"); err == nil {
		t.Fatal("expected error when --user is missing")
	}
}

func TestCommands_UnsupportedFormat(t *testing.T) {
	root := initRoot(t)
	_, err := run(t, "", "-r", root, "--format", "xml", "trains", "list")
	if err == nil || !strings.Contains(err.Error(), "unsupported format") {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

func TestCommands_Version(t *testing.T) {
	out, err := run(t, "", "-r", t.TempDir(), "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "railbook ") {
		t.Errorf("unexpected version output: %q", out)
	}
}

func TestCommands_MutationsRefusedWhileRootHeld(t *testing.T) {
	root := initRoot(t)
	alice := signUp(t, root, "alice")

	// A second system stands in for another process holding the data files.
	holder, err := openSystem(root)
	if err != nil {
		t.Fatalf("openSystem: %v", err)
	}

	_, err = run(t, "", "-r", root, "book", "12123", "-u", alice)
	if domain.CodeOf(err) != domain.CodeStorageUnavailable || !errors.Is(err, datadir.ErrInUse) {
		t.Fatalf("expected book to be refused, got %v", err)
	}
	if _, err := run(t, "", "-r", root, "signup", "bob", "-p", "pw"); !errors.Is(err, datadir.ErrInUse) {
		t.Fatalf("expected signup to be refused, got %v", err)
	}

	out, err := run(t, "", "-r", root, "trains", "list")
	if err != nil {
		t.Fatalf("expected read-only list to work, got %v", err)
	}
	if !strings.Contains(out, "seats 40/40") {
		t.Fatalf("expected untouched seat count, got:\n%s", out)
	}

	if _, err := holder.bookings.Book(alice, "12123"); err != nil {
		t.Fatalf("holder Book: %v", err)
	}
	if err := holder.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	out, err = run(t, "", "-r", root, "--format", "json", "bookings", "-u", alice)
	if err != nil {
		t.Fatalf("bookings: %v", err)
	}
	var body struct {
		Tickets []ticketJSON `json:"tickets"`
	}
	if err := json.Unmarshal([]byte(out), &body); err != nil {
		t.Fatalf("bookings output: %v\n%s", err, out)
	}
	if len(body.Tickets) != 1 {
		t.Fatalf("expected exactly the holder's ticket, got %d", len(body.Tickets))
	}
}

func TestCommands_InfoShowsPaths(t *testing.T) {
	root := initRoot(t)

	out, err := run(t, "", "-r", root, "--format", "json", "info")
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	var in infoJSON
	if err := json.Unmarshal([]byte(out), &in); err != nil {
		t.Fatalf("info output: %v\n%s", err, out)
	}

	abs, _ := filepath.Abs(root)
	if in.TrainsFile != filepath.Join(abs, "data", "trains.json") || in.UsersFile != filepath.Join(abs, "data", "users.json") {
		t.Errorf("unexpected data files: %+v", in)
	}
	if in.LockFile != filepath.Join(abs, "data", datadir.LockFileName) {
		t.Errorf("unexpected lock file %s", in.LockFile)
	}
	if in.LogFile != filepath.Join(abs, ".railbook", "logs", "railbook.log") || in.LogStarted == "" {
		t.Errorf("unexpected log info: %+v", in)
	}
}

func TestPrintInfo_PrettyWithoutLogger(t *testing.T) {
	var buf bytes.Buffer
	if err := printInfo(&buf, infoJSON{Root: "/r", TrainsFile: "/r/data/trains.json"}, "pretty"); err != nil {
		t.Fatalf("printInfo: %v", err)
	}
	if !strings.Contains(buf.String(), "Log file:    (not initialized)") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}
