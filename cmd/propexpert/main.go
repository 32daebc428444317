// Command propexpert evaluates queries against a propositional-logic
// knowledge base: `rule`, `=facts`, `?queries` sections parsed from a
// file, solved by backward chaining, with an optional interactive loop
// for mutating facts and re-querying. Its flag surface and interactive
// command loop follow the teacher's chat-cli shape, adapted from a
// search REPL to a fact/query REPL.
package main

import (
	"bufio"
	"context"
	"crypto/rand"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/oklog/ulid/v2"

	"github.com/cognicore/propexpert/pkg/propexpert/audit"
	"github.com/cognicore/propexpert/pkg/propexpert/audit/memstore"
	auditsqlite "github.com/cognicore/propexpert/pkg/propexpert/audit/sqlite"
	"github.com/cognicore/propexpert/pkg/propexpert/config"
	"github.com/cognicore/propexpert/pkg/propexpert/graph"
	"github.com/cognicore/propexpert/pkg/propexpert/kb"
	"github.com/cognicore/propexpert/pkg/propexpert/solver"
	"github.com/cognicore/propexpert/pkg/propexpert/truth"
)

func main() {
	var (
		configPath  = flag.String("config", "", "CLI config file (YAML, optional)")
		auditDBPath = flag.String("audit-db", "", "SQLite audit database path (optional; in-memory if unset)")
		interactive = flag.Bool("i", false, "enter interactive mode after the initial solve")
		dumpGraph   = flag.Bool("dump-graph", false, "print the fact/rule dependency graph and exit")
		dumpRules   = flag.Bool("dump-rules", false, "print the knowledge base re-exported as => rules and exit")
		colorFlag   = flag.String("color", "", "override color mode: auto, always, never")
	)
	flag.BoolVar(interactive, "interactive", false, "alias for -i")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatal("usage: propexpert [flags] <rules-file>")
	}
	kbPath := flag.Arg(0)

	ctx := context.Background()

	cachedLoader, err := config.NewCachedLoader(8)
	if err != nil {
		log.Fatal(err)
	}
	loader := &config.Loader{KBPath: kbPath, ConfigPath: *configPath}
	comp, err := cachedLoader.Load(loader)
	if err != nil {
		log.Fatal(err)
	}
	if *auditDBPath != "" {
		comp.Config.AuditDBPath = *auditDBPath
	}
	if *colorFlag != "" {
		comp.Config.Color = *colorFlag
	}

	if *dumpGraph {
		fmt.Print(graph.Build(comp.KB).Dump())
		return
	}
	if *dumpRules {
		exporter := kb.Exporter{Writer: stdoutWriter{}}
		if err := exporter.Export(ctx, comp.KB); err != nil {
			log.Fatal(err)
		}
		return
	}

	store, closeStore, err := openAuditStore(ctx, comp.Config.AuditDBPath)
	if err != nil {
		log.Fatal(err)
	}
	defer closeStore()

	color := resolveColor(comp.Config.Color)
	runner := &runner{
		kbPath:       kbPath,
		configPath:   *configPath,
		kbase:        comp.KB,
		store:        store,
		color:        color,
		cachedLoader: cachedLoader,
	}

	runner.solveAndReport(ctx)

	if *interactive {
		runner.interactiveLoop(ctx)
	}
}

func openAuditStore(ctx context.Context, path string) (audit.Store, func(), error) {
	if path == "" {
		s := memstore.New()
		return s, func() { s.Close() }, nil
	}
	s, err := auditsqlite.Open(ctx, path)
	if err != nil {
		return nil, nil, fmt.Errorf("open audit db: %w", err)
	}
	return s, func() { s.Close() }, nil
}

func resolveColor(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}
}

type runner struct {
	kbPath       string
	configPath   string
	kbase        *kb.KnowledgeBase
	store        audit.Store
	color        bool
	cachedLoader *config.CachedLoader

	entropy *ulid.MonotonicEntropy
}

func (r *runner) nextULID() string {
	if r.entropy == nil {
		r.entropy = ulid.Monotonic(rand.Reader, 0)
	}
	return ulid.MustNew(ulid.Now(), r.entropy).String()
}

// solveAndReport solves every queried variable in the source order the
// `?` line declared them, prints a report, and records a session in the
// audit store.
func (r *runner) solveAndReport(ctx context.Context) {
	s := solver.New(r.kbase)

	sess := audit.Session{
		ID:           r.nextULID(),
		StartedAt:    time.Now(),
		InputFile:    r.kbPath,
		InitialFacts: string(r.kbase.SortedInitialTrue()),
	}

	for _, v := range r.kbase.Queries {
		res := s.Solve(v)
		sess.Verdicts = append(sess.Verdicts, audit.Verdict{Variable: string(v), Value: res.Value.String()})
		for _, c := range res.Contradictions {
			sess.Diagnostics = append(sess.Diagnostics, fmt.Sprintf(
				"contradiction on %c: rules %v set it True, rules %v set it False",
				c.Variable, c.TrueRules, c.FalseRules))
		}
		for _, cyc := range res.Cycles {
			sess.Diagnostics = append(sess.Diagnostics, fmt.Sprintf("cycle detected while evaluating %c", cyc))
		}
		fmt.Println(r.formatVerdict(v, res.Value))
	}

	fmt.Printf("solved %s in a session started %s\n",
		humanize.Comma(int64(len(r.kbase.Queries))), humanize.Time(sess.StartedAt))

	if err := r.store.RecordSession(ctx, sess); err != nil {
		fmt.Fprintln(os.Stderr, "warning: failed to record audit session:", err)
	}
}

func (r *runner) formatVerdict(v byte, val truth.Value) string {
	if !r.color {
		return fmt.Sprintf("%c = %s", v, val.String())
	}
	code := "33" // yellow: Unknown
	switch val {
	case truth.True:
		code = "32" // green
	case truth.False:
		code = "31" // red
	}
	return fmt.Sprintf("\x1b[%sm%c = %s\x1b[0m", code, v, val.String())
}

// interactiveLoop implements the +X / -X / ?X... / /q REPL of spec.md §9:
// +X sets X as an additional initial fact, -X removes it, ?X... re-solves
// one or more variables against the current fact set in the order typed,
// and /q exits.
func (r *runner) interactiveLoop(ctx context.Context) {
	fmt.Println("interactive mode: +X sets a fact, -X clears it, ?X... queries, /reload re-reads the file, /q quits")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		correlationID := uuid.NewString()

		switch {
		case line == "/q":
			fmt.Println("goodbye")
			return
		case line == "/reload":
			r.reload(correlationID)
		case strings.HasPrefix(line, "+"):
			r.setFact(line[1:], true, correlationID)
		case strings.HasPrefix(line, "-"):
			r.setFact(line[1:], false, correlationID)
		case strings.HasPrefix(line, "?"):
			r.query(ctx, line[1:], correlationID)
		default:
			fmt.Println("unrecognized command:", line)
		}
	}
}

// reload re-reads the knowledge base and config from disk, discarding any
// facts set interactively. If the knowledge-base file's modification time
// hasn't changed since the last load, cachedLoader serves the cached
// Components (parse and config alike) instead of reading either file again.
func (r *runner) reload(correlationID string) {
	if r.cachedLoader == nil {
		fmt.Printf("[%s] reload unavailable\n", correlationID)
		return
	}
	comp, err := r.cachedLoader.Load(&config.Loader{KBPath: r.kbPath, ConfigPath: r.configPath})
	if err != nil {
		fmt.Printf("[%s] reload failed: %v\n", correlationID, err)
		return
	}
	r.kbase = comp.KB
	r.color = resolveColor(comp.Config.Color)
	fmt.Printf("[%s] reloaded %s (%d rules, initial facts %s)\n",
		correlationID, r.kbPath, len(r.kbase.Rules), string(r.kbase.SortedInitialTrue()))
}

func (r *runner) setFact(body string, value bool, correlationID string) {
	body = strings.TrimSpace(body)
	if len(body) != 1 || body[0] < 'A' || body[0] > 'Z' {
		fmt.Printf("[%s] invalid fact name %q (want a single A-Z letter)\n", correlationID, body)
		return
	}
	v := body[0]
	next := make(map[byte]bool, len(r.kbase.InitialTrue))
	for k := range r.kbase.InitialTrue {
		next[k] = true
	}
	if value {
		next[v] = true
	} else {
		delete(next, v)
	}
	r.kbase = r.kbase.WithInitialTrue(next)
	fmt.Printf("[%s] %c is now %s\n", correlationID, v, map[bool]string{true: "true", false: "unknown/false"}[value])
}

// query re-solves one or more variables named in body (spec.md §6's
// `?X...` notation — the same "one or more uppercase letters" shape as
// the file's own `?` line), in the order they were typed, and records
// one audit session covering all of them.
func (r *runner) query(ctx context.Context, body string, correlationID string) {
	body = strings.TrimSpace(body)
	if body == "" {
		fmt.Printf("[%s] invalid query %q (want one or more A-Z letters)\n", correlationID, body)
		return
	}
	queried := make([]byte, 0, len(body))
	for _, ch := range body {
		if ch < 'A' || ch > 'Z' {
			fmt.Printf("[%s] invalid query %q: %q is not A-Z\n", correlationID, body, ch)
			return
		}
		queried = append(queried, byte(ch))
	}

	s := solver.New(r.kbase)
	sess := audit.Session{
		ID:           r.nextULID(),
		StartedAt:    time.Now(),
		InputFile:    r.kbPath,
		InitialFacts: string(r.kbase.SortedInitialTrue()),
	}
	for _, v := range queried {
		res := s.Solve(v)
		fmt.Printf("[%s] %s\n", correlationID, r.formatVerdict(v, res.Value))
		sess.Verdicts = append(sess.Verdicts, audit.Verdict{Variable: string(v), Value: res.Value.String()})
	}
	if err := r.store.RecordSession(ctx, sess); err != nil {
		fmt.Fprintln(os.Stderr, "warning: failed to record audit session:", err)
	}
}

type stdoutWriter struct{}

func (stdoutWriter) WriteRules(ctx context.Context, content string) error {
	_, err := fmt.Print(content)
	return err
}
