package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"receipt-dashboard/internal/backend"
	"receipt-dashboard/internal/config"
	"receipt-dashboard/internal/database"
	"receipt-dashboard/internal/logging"
	"receipt-dashboard/internal/models"
	"receipt-dashboard/internal/offline"
	"receipt-dashboard/internal/render"
	"receipt-dashboard/internal/repositories"
	"receipt-dashboard/internal/services"
)

// app holds everything a subcommand may need
type app struct {
	cfg          *config.Config
	logger       *slog.Logger
	db           *database.DB
	client       *backend.Client
	registration *offline.Registration
	metrics      services.MetricsRecorderInterface
	table        *render.Table
	notifier     *render.Notifier
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	if command == "help" || command == "-h" || command == "--help" {
		printUsage()
		return
	}

	cfg := config.Load()
	logger := logging.Setup(cfg.Logger.Level, cfg.IsProduction())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to start dashboard", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer a.db.Close()

	args := os.Args[2:]
	switch command {
	case "list":
		err = a.runList(ctx, args)
	case "watch":
		err = a.runWatch(ctx, args)
	case "stats":
		err = a.runStats(ctx)
	case "status":
		err = a.runStatus(ctx)
	case "upload":
		err = a.runUpload(ctx, args)
	case "sync":
		err = a.runSync(ctx, args)
	case "prefs":
		err = a.runPrefs(ctx, args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Receipt Dashboard")
	fmt.Println("\nUsage:")
	fmt.Println("  dashboard <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  list      Show one page of transactions with filters and sorting")
	fmt.Println("  watch     Live list: type a search term per line, refreshes periodically")
	fmt.Println("  stats     Show the summary cards")
	fmt.Println("  status    Show integration health")
	fmt.Println("  upload    Upload a receipt for a transaction (queued while offline)")
	fmt.Println("  sync      Replay queued uploads now")
	fmt.Println("  prefs     Show or set theme and view preferences")
	fmt.Println("  help      Show this help message")
}

// newApp wires the backend client through an in-process offline worker. If
// the worker cannot install (backend unreachable on first run) requests go
// straight to the network and nothing is queued.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	db, err := database.Initialize(cfg)
	if err != nil {
		return nil, err
	}

	metrics := services.NewPrometheusMetrics()
	a := &app{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		metrics:  metrics,
		table:    render.NewTable(os.Stdout),
		notifier: render.NewNotifier(os.Stderr),
	}

	var transport http.RoundTripper = http.DefaultTransport
	worker, err := offline.NewWorker(
		offline.OptionsFromConfig(cfg),
		http.DefaultTransport,
		offline.NewMemoryStorage(),
		repositories.NewPendingMutationRepository(db.DB),
		services.NewCircuitBreaker(services.CircuitBreakerConfig{
			MaxFailures:     cfg.Sync.MaxFailuresOffline,
			ResetTimeout:    cfg.Sync.OfflineResetAfter,
			HalfOpenMaxSucc: 1,
		}),
		metrics,
	)
	if err != nil {
		db.Close()
		return nil, err
	}

	registration := offline.NewRegistration()
	if err := registration.Register(ctx, worker); err != nil {
		logger.Warn("offline worker not installed, continuing without offline support",
			slog.String("error", err.Error()),
		)
	} else {
		go func() {
			_ = worker.Run(ctx)
		}()
		a.registration = registration
		transport = registration
	}

	a.client = backend.NewClient(cfg.Backend.BaseURL, transport, cfg.Backend.RequestTimeout)
	return a, nil
}

func (a *app) newController(renderer services.Renderer) *services.TransactionListController {
	return services.NewTransactionListController(a.client, renderer, a.notifier, services.ControllerOptions{
		PageSize:   a.cfg.Controller.PageSize,
		DateWindow: a.cfg.Controller.DateWindow,
		Metrics:    a.metrics,
		Logger:     a.logger,
	})
}

type listFlags struct {
	filter    models.FilterState
	sort      models.SortState
	page      int
	dateFrom  string
	dateTo    string
	column    string
	direction string
}

func parseListFlags(name string, args []string) (*listFlags, error) {
	lf := &listFlags{}
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.StringVar(&lf.filter.SearchTerm, "search", "", "Case-insensitive search over merchant, description, category and business")
	fs.StringVar(&lf.filter.Category, "category", "", "Only this category")
	fs.StringVar(&lf.filter.BusinessType, "business", "", "Only this business type")
	fs.StringVar(&lf.filter.ReceiptStatus, "receipt", "", "matched or missing")
	fs.StringVar(&lf.dateFrom, "from", "", "Earliest date (YYYY-MM-DD)")
	fs.StringVar(&lf.dateTo, "to", "", "Latest date (YYYY-MM-DD)")
	fs.StringVar(&lf.column, "sort", "", "date, amount, merchant, business_type, category or receipt_status")
	fs.StringVar(&lf.direction, "dir", string(models.SortAscending), "asc or desc")
	fs.IntVar(&lf.page, "page", 1, "Page to load")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	var err error
	if lf.filter.DateFrom, err = parseDate(lf.dateFrom); err != nil {
		return nil, err
	}
	if lf.filter.DateTo, err = parseDate(lf.dateTo); err != nil {
		return nil, err
	}
	if lf.filter.ReceiptStatus != "" && !models.IsValidReceiptStatus(lf.filter.ReceiptStatus) {
		return nil, fmt.Errorf("invalid receipt status %q", lf.filter.ReceiptStatus)
	}
	lf.sort = models.SortState{Column: models.SortColumn(lf.column), Direction: models.SortDirection(lf.direction)}
	return lf, nil
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(models.DateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
	}
	return &t, nil
}

// apply sets filter and sort, then loads the requested page. The filter goes
// first since a filter change resets to page 1.
func (a *app) apply(ctx context.Context, controller *services.TransactionListController, lf *listFlags) error {
	if err := controller.SetSort(lf.sort.Column, lf.sort.Direction); err != nil {
		a.notifier.Notify(services.NotificationError, err.Error())
		return err
	}
	if err := controller.SetFilter(ctx, lf.filter); err != nil {
		return err
	}
	return controller.Load(ctx, lf.page)
}

func (a *app) runList(ctx context.Context, args []string) error {
	lf, err := parseListFlags("list", args)
	if err != nil {
		a.notifier.Notify(services.NotificationError, err.Error())
		return err
	}

	// render once, after the view is complete
	controller := a.newController(nil)
	if err := a.apply(ctx, controller, lf); err != nil {
		return err
	}
	a.table.Render(controller.Snapshot())
	return nil
}

// runWatch re-filters as search terms arrive on stdin (debounced) and
// reloads the current page on the refresh interval
func (a *app) runWatch(ctx context.Context, args []string) error {
	lf, err := parseListFlags("watch", args)
	if err != nil {
		a.notifier.Notify(services.NotificationError, err.Error())
		return err
	}

	controller := a.newController(a.table)
	if err := a.apply(ctx, controller, lf); err != nil && !backend.IsOffline(err) {
		return err
	}

	go services.NewAutoRefresher(controller, a.cfg.Controller.RefreshInterval).Start(ctx)

	debouncer := services.NewDebouncer(a.cfg.Controller.SearchDebounce)
	defer debouncer.Cancel()

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			term := strings.TrimSpace(line)
			debouncer.Trigger(func() {
				f := controller.Filter()
				f.SearchTerm = term
				_ = controller.SetFilter(ctx, f)
			})
		}
	}
}

func (a *app) runStats(ctx context.Context) error {
	stats, err := a.client.DashboardStats(ctx)
	if err != nil {
		a.notifier.Notify(services.NotificationError, err.Error())
		return err
	}
	a.table.RenderStats(stats)
	return nil
}

func (a *app) runStatus(ctx context.Context) error {
	monitor := services.NewStatusMonitor(a.client, services.DefaultIntegrations(), a.metrics, 5*time.Second)
	a.table.RenderStatuses(monitor.CheckAll(ctx))
	return nil
}

func (a *app) runUpload(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	transactionID := fs.String("transaction", "", "Transaction ID")
	path := fs.String("file", "", "Receipt image or PDF")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *transactionID == "" || *path == "" {
		err := errors.New("--transaction and --file are required")
		a.notifier.Notify(services.NotificationError, err.Error())
		return err
	}

	content, err := os.ReadFile(*path)
	if err != nil {
		a.notifier.Notify(services.NotificationError, err.Error())
		return err
	}

	var queuer services.MutationQueuer
	if a.registration != nil {
		queuer = a.registration
	}
	editor := services.NewTransactionEditor(a.client, queuer, a.notifier, a.metrics, a.cfg.Sync.Tag)
	_, err = editor.UploadReceipt(ctx, *transactionID, filepath.Base(*path), content)
	return err
}

func (a *app) runSync(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	tag := fs.String("tag", a.cfg.Sync.Tag, "Sync tag to drain")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if a.registration == nil {
		err := errors.New("offline worker is not installed")
		a.notifier.Notify(services.NotificationError, err.Error())
		return err
	}

	reply, err := a.registration.PostMessage(ctx, offline.Message{Type: offline.MessageSync, Tag: *tag})
	if err != nil {
		return err
	}
	if !reply.OK {
		a.notifier.Notify(services.NotificationError, reply.Error)
		return errors.New(reply.Error)
	}
	a.notifier.Notify(services.NotificationSuccess, fmt.Sprintf("Sync finished: %+v", reply.Payload))
	return nil
}

func (a *app) runPrefs(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("prefs", flag.ExitOnError)
	theme := fs.String("theme", "", "light or dark")
	view := fs.String("view", "", "table or cards")
	if err := fs.Parse(args); err != nil {
		return err
	}

	prefs := services.NewPreferenceService(repositories.NewPreferenceRepository(a.db.DB))
	for key, value := range map[string]string{models.PreferenceKeyTheme: *theme, models.PreferenceKeyView: *view} {
		if value == "" {
			continue
		}
		if err := prefs.Set(ctx, key, value); err != nil {
			a.notifier.Notify(services.NotificationError, err.Error())
			return err
		}
	}

	all, err := prefs.All(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("theme: %s\nview:  %s\n", all[models.PreferenceKeyTheme], all[models.PreferenceKeyView])
	return nil
}
