package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/splitfair/splitfair/internal/api"
	"github.com/splitfair/splitfair/internal/calculator"
	"github.com/splitfair/splitfair/internal/config"
	"github.com/splitfair/splitfair/internal/models"
	"github.com/splitfair/splitfair/internal/service"
	"github.com/splitfair/splitfair/internal/storage"
	"github.com/splitfair/splitfair/internal/storage/sqlite"
	"github.com/splitfair/splitfair/pkg/logging"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage: splitfair <command> [flags]

commands:
  view   <group-id>   show a group's expenses and balance summary
  add    <group-id>   add an expense to a group
  settle <group-id>   settle the group (zero all balances)
  watch  <group-id>   keep refreshing the group view; optionally serve metrics

configuration comes from the environment (or a .env file):
  SERVER_ENDPOINT, SESSION_TOKEN or SESSION_COOKIE, CACHE_DB_PATH, ...`)
}

func main() {
	logging.Setup()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "view":
		err = runView(cfg, os.Args[2:])
	case "add":
		err = runAdd(cfg, os.Args[2:])
	case "settle":
		err = runSettle(cfg, os.Args[2:])
	case "watch":
		err = runWatch(cfg, os.Args[2:])
	case "help", "-h", "--help":
		usage()
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		if msg := service.UserMessage(err); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// newService wires config into the store client, snapshot cache and
// group service. The returned cleanup closes the cache.
func newService(cfg *config.Config) (*service.GroupService, func(), error) {
	creds, err := cfg.Credentials()
	if err != nil {
		return nil, nil, err
	}

	opts := []api.Option{
		api.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
	}
	if cfg.UseH2C {
		opts = append(opts, api.WithH2C())
	}
	client, err := api.New(cfg.ServerEndpoint, creds, opts...)
	if err != nil {
		return nil, nil, err
	}

	var cache storage.Store
	if cfg.CacheDBPath != "" {
		c, err := sqlite.New(cfg.CacheDBPath)
		if err != nil {
			slog.Warn("Snapshot cache unavailable", "path", cfg.CacheDBPath, "error", err)
		} else {
			cache = c
		}
	}

	cleanup := func() {
		if cache != nil {
			cache.Close()
		}
	}
	return service.NewGroupService(client, cache), cleanup, nil
}

func runView(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("view: expected exactly one group id")
	}
	groupID := fs.Arg(0)

	svc, cleanup, err := newService(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := context.Background()
	view, err := svc.Load(ctx, groupID)
	if err != nil {
		cached, cacheErr := svc.LoadCached(ctx, groupID)
		if cacheErr != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, service.UserMessage(err))
		fmt.Fprintf(os.Stderr, "Showing cached data from %s.\n", cached.FetchedAt.Format(time.RFC822))
		view = cached
	}
	printView(os.Stdout, view)
	return nil
}

// shareFlags collects repeated -share email=amount flags.
type shareFlags map[string]string

func (s shareFlags) Set(value string) error {
	email, amount, ok := strings.Cut(value, "=")
	if !ok || email == "" {
		return fmt.Errorf("expected email=amount, got %q", value)
	}
	s[email] = amount
	return nil
}

func (s shareFlags) String() string { return "" }

func runAdd(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	title := fs.String("title", "", "expense title")
	amount := fs.String("amount", "", "expense amount")
	paidBy := fs.String("paid-by", "", "email of the member who paid")
	participants := fs.String("participants", "", "comma-separated participant emails (default: all group members)")
	split := fs.String("split", "equal", "split type: equal or unequal")
	shares := shareFlags{}
	fs.Var(shares, "share", "explicit share as email=amount (repeatable, unequal split only)")
	dryRun := fs.Bool("dry-run", false, "validate and preview shares without submitting")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("add: expected exactly one group id")
	}
	groupID := fs.Arg(0)

	svc, cleanup, err := newService(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := context.Background()
	view, err := svc.Load(ctx, groupID)
	if err != nil {
		return err
	}
	if view.Group == nil {
		return fmt.Errorf("group %s not found among your groups", groupID)
	}

	members := view.Group.MembersEmail
	if *participants != "" {
		members = splitList(*participants)
	}

	draft := calculator.NewDraft(groupID, members).
		WithTitle(*title).
		WithAmount(*amount).
		WithSplitType(models.SplitType(*split))
	for email, share := range shares {
		draft = draft.WithShare(email, share)
	}
	// Payer last: restores the payer-in-participants invariant whatever
	// the participant flags said.
	draft = draft.WithPayer(*paidBy)

	if *dryRun {
		return previewDraft(os.Stdout, view, draft)
	}

	updated, err := svc.AddExpense(ctx, draft)
	if err != nil {
		return err
	}
	fmt.Println("Expense added.")
	printView(os.Stdout, updated)
	return nil
}

func runSettle(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("settle", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("settle: expected exactly one group id")
	}
	groupID := fs.Arg(0)

	svc, cleanup, err := newService(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	view, err := svc.Settle(context.Background(), groupID)
	if err != nil {
		return err
	}
	fmt.Println("Group settled.")
	printView(os.Stdout, view)
	return nil
}

func runWatch(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	interval := fs.Duration("interval", cfg.WatchInterval, "refresh interval")
	metricsAddr := fs.String("metrics-addr", cfg.MetricsAddr, "address to serve /metrics on (empty disables)")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("watch: expected exactly one group id")
	}
	groupID := fs.Arg(0)

	svc, cleanup, err := newService(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			slog.Info("Metrics server starting", "address", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				slog.Error("Metrics server failed", "error", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	refresh := func() {
		view, err := svc.Load(ctx, groupID)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				fmt.Fprintln(os.Stderr, service.UserMessage(err))
			}
			return
		}
		fmt.Printf("--- %s ---\n", time.Now().Format(time.Kitchen))
		printView(os.Stdout, view)
	}

	refresh()
	for {
		select {
		case <-ctx.Done():
			slog.Info("Watch stopped")
			return nil
		case <-ticker.C:
			refresh()
		}
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func printView(w *os.File, view *service.GroupView) {
	name := "Group"
	if view.Group != nil {
		name = view.Group.Name
	}
	fmt.Fprintf(w, "%s expenses", name)
	if view.Stale {
		fmt.Fprint(w, " (cached)")
	}
	fmt.Fprintln(w)

	if len(view.Expenses) == 0 {
		fmt.Fprintln(w, "No expenses recorded yet.")
	} else {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, e := range view.Expenses {
			fmt.Fprintf(tw, "  %s\tpaid by %s\tRs %.2f\t%s split\t%d participants\n",
				e.Title,
				view.Names.Resolve(e.PaidBy.Email),
				e.Amount,
				e.SplitType,
				len(e.Participants),
			)
		}
		tw.Flush()
	}

	fmt.Fprintln(w, "Summary")
	if len(view.Summary) == 0 {
		fmt.Fprintln(w, "No summary available yet.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, pos := range calculator.Classify(view.Summary) {
		fmt.Fprintf(tw, "  %s\t%s\tRs %.2f\n", pos.Name, pos.Label, pos.Amount)
	}
	tw.Flush()
}

// previewDraft validates the draft and prints the shares the store would
// record, without submitting anything.
func previewDraft(w *os.File, view *service.GroupView, draft calculator.Draft) error {
	if err := calculator.ValidateDraft(draft); err != nil {
		return err
	}
	amount, err := calculator.ParseAmount(draft.Amount)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s: Rs %.2f paid by %s, %s split\n",
		strings.TrimSpace(draft.Title), amount, view.Names.Resolve(draft.PaidBy), draft.SplitType)

	if draft.SplitType == models.SplitUnequal {
		built, err := calculator.BuildShares(draft)
		if err != nil {
			return err
		}
		for _, s := range built {
			fmt.Fprintf(w, "  %s\tRs %.2f\n", view.Names.Resolve(s.UserID), s.Share)
		}
		return nil
	}

	preview := calculator.EqualShares(amount, draft.Participants, draft.PaidBy)
	for _, p := range draft.Participants {
		fmt.Fprintf(w, "  %s\tRs %.2f\n", view.Names.Resolve(p), preview[p])
	}
	return nil
}
