package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/elio-longevai/medicapital-lead-generator-sub000/internal/api"
	"github.com/elio-longevai/medicapital-lead-generator-sub000/internal/cache"
	"github.com/elio-longevai/medicapital-lead-generator-sub000/internal/config"
	"github.com/elio-longevai/medicapital-lead-generator-sub000/internal/dto"
	"github.com/elio-longevai/medicapital-lead-generator-sub000/internal/entity"
	"github.com/elio-longevai/medicapital-lead-generator-sub000/internal/service"
	"github.com/elio-longevai/medicapital-lead-generator-sub000/internal/watch"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	log := newLogger(cfg)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	client := api.NewClient(nil, cfg, logrus.NewEntry(log))
	store := cache.New(cache.Options{ListTTL: cfg.ListCacheTTL})
	svc := service.NewLeadsService(client, store, service.NewContactNormalizer(cfg.PhoneRegion), logrus.NewEntry(log))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var runErr error
	switch os.Args[1] {
	case "list":
		runErr = runList(ctx, svc, os.Args[2:])
	case "show":
		runErr = runShow(ctx, svc, os.Args[2:])
	case "set-status":
		runErr = runSetStatus(ctx, svc, os.Args[2:])
	case "enrich":
		runErr = runEnrich(ctx, cfg, svc, log, os.Args[2:])
	case "watch":
		runErr = runWatch(ctx, cfg, svc, log, os.Args[2:])
	case "stats":
		runErr = runStats(ctx, svc)
	default:
		usage()
		os.Exit(2)
	}

	if runErr != nil {
		log.WithError(runErr).Fatal("command failed")
	}
}

func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}
	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: leadctl <command> [flags]

commands:
  list        list companies (flags: -search -status -icp -entity-type -sub-industry -sort -skip)
  show        show one company profile: show <id>
  set-status  transition a lead: set-status <id> <status>
  enrich      start contact enrichment: enrich [-watch] <id>
  watch       follow a running enrichment job: watch <id>
  stats       show dashboard counts`)
}

func runList(ctx context.Context, svc *service.LeadsService, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	search := fs.String("search", "", "free text search")
	status := fs.String("status", "", "filter by lifecycle status")
	icp := fs.String("icp", "", "filter by ICP name")
	entityType := fs.String("entity-type", "", "filter by entity type")
	subIndustry := fs.String("sub-industry", "", "filter by sub-industry")
	sortBy := fs.String("sort", "", "sort order")
	skip := fs.Int("skip", 0, "pagination offset")
	if err := fs.Parse(args); err != nil {
		return err
	}

	list, err := svc.ListCompanies(ctx, dto.ListFilter{
		Skip:        *skip,
		Search:      *search,
		Status:      *status,
		ICPName:     *icp,
		EntityType:  *entityType,
		SubIndustry: *subIndustry,
		SortBy:      *sortBy,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCITY\tSTATUS\tENRICHMENT")
	for _, c := range list.Companies {
		city := ""
		if c.City != nil {
			city = *c.City
		}
		enrichment := string(c.ContactEnrichmentStatus)
		if enrichment == "" {
			enrichment = string(entity.EnrichmentNotStarted)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", c.ID, c.Name, city, c.Status, enrichment)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("%d of %d companies\n", len(list.Companies), list.Total)
	return nil
}

func runShow(ctx context.Context, svc *service.LeadsService, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}

	company, err := svc.GetCompany(ctx, id)
	if err != nil {
		return err
	}
	// Detail views always take a live read of the job state.
	snap, snapErr := svc.EnrichmentStatus(ctx, id)

	printCompany(svc, company, snap)
	if snapErr != nil {
		fmt.Printf("enrichment status unavailable: %v\n", snapErr)
	}
	return nil
}

func runSetStatus(ctx context.Context, svc *service.LeadsService, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: set-status <id> <status>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid company id %q", args[0])
	}
	status := entity.CompanyStatus(args[1])
	if !status.Valid() {
		return fmt.Errorf("unknown status %q (want discovered, in_review, qualified, contacted or rejected)", args[1])
	}

	updated, err := svc.UpdateStatus(ctx, id, status)
	if err != nil {
		return err
	}
	fmt.Printf("%s is now %s\n", updated.Name, updated.Status)
	return nil
}

func runEnrich(ctx context.Context, cfg *config.Config, svc *service.LeadsService, log *logrus.Logger, args []string) error {
	fs := flag.NewFlagSet("enrich", flag.ExitOnError)
	follow := fs.Bool("watch", false, "follow the job until it finishes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := parseID(fs.Args())
	if err != nil {
		return err
	}

	session := watch.NewSession(svc, id, watch.Options{
		PollInterval:   cfg.PollInterval,
		StopOnTerminal: true,
		Logger:         logrus.NewEntry(log),
	})
	if err := session.StartEnrichment(ctx); err != nil {
		return err
	}
	if !*follow {
		return nil
	}
	return followSession(ctx, svc, session, id)
}

func runWatch(ctx context.Context, cfg *config.Config, svc *service.LeadsService, log *logrus.Logger, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	session := watch.NewSession(svc, id, watch.Options{
		PollInterval:   cfg.PollInterval,
		StopOnTerminal: true,
		Logger:         logrus.NewEntry(log),
	})
	return followSession(ctx, svc, session, id)
}

func followSession(ctx context.Context, svc *service.LeadsService, session *watch.Session, id int) error {
	if err := session.Run(ctx); err != nil {
		return err
	}
	if ctx.Err() != nil {
		return nil
	}

	// The terminal poll invalidated the company entry, so this is a fresh read.
	company, err := svc.GetCompany(ctx, id)
	if err != nil {
		return err
	}
	snap, _ := session.Snapshot()
	printCompany(svc, company, snap)
	return nil
}

func runStats(ctx context.Context, svc *service.LeadsService) error {
	stats, err := svc.DashboardStats(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "total\t%d\n", stats.Total)
	fmt.Fprintf(w, "discovered\t%d\n", stats.Discovered)
	fmt.Fprintf(w, "in review\t%d\n", stats.InReview)
	fmt.Fprintf(w, "qualified\t%d\n", stats.Qualified)
	fmt.Fprintf(w, "contacted\t%d\n", stats.Contacted)
	fmt.Fprintf(w, "rejected\t%d\n", stats.Rejected)
	fmt.Fprintf(w, "enriched\t%d\n", stats.Enriched)
	return w.Flush()
}

func printCompany(svc *service.LeadsService, c *entity.Company, snap *entity.EnrichmentStatusSnapshot) {
	fmt.Printf("#%d %s [%s]\n", c.ID, c.Name, c.Status)
	if c.Website != nil {
		fmt.Printf("  website: %s\n", *c.Website)
	}
	if c.City != nil {
		fmt.Printf("  city: %s\n", *c.City)
	}
	if c.SubIndustry != nil {
		fmt.Printf("  sub-industry: %s\n", *c.SubIndustry)
	}
	if c.ICPName != nil {
		fmt.Printf("  icp: %s\n", *c.ICPName)
	}

	// The live snapshot wins over the flag cached on the entity.
	status := c.ContactEnrichmentStatus
	if snap != nil {
		status = snap.Status
	}
	if status.Defined() {
		fmt.Printf("  enrichment: %s", status)
		if snap != nil && status == entity.EnrichmentPending {
			fmt.Printf(" (%d%%)", snap.Progress)
		}
		fmt.Println()
	}
	if snap != nil && snap.ErrorDetails != nil {
		fmt.Printf("  enrichment error: %s\n", snap.ErrorDetails.Error)
	}

	for _, p := range svc.NormalizeContacts(c.ContactPersons) {
		line := "  contact: " + p.Name
		if p.Role != nil {
			line += " (" + *p.Role + ")"
		}
		if p.Email != nil {
			line += " " + *p.Email
		}
		if p.Phone != nil {
			line += " " + *p.Phone
		}
		fmt.Println(line)
	}
	if c.ContactEnrichedAt != nil {
		fmt.Printf("  enriched at: %s\n", c.ContactEnrichedAt.Format("02-01-2006 15:04"))
	}
}

func parseID(args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected exactly one company id argument")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid company id %q", args[0])
	}
	return id, nil
}
