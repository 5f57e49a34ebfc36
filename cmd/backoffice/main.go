// Command backoffice is the terminal front-end for the retail POS back
// office. It wires the session store, the authorized HTTP transport, the API
// client and the page controllers, then drives them from a small command
// loop on stdin.
package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/retailpos/backoffice/internal/api"
	"github.com/retailpos/backoffice/internal/config"
	"github.com/retailpos/backoffice/internal/download"
	"github.com/retailpos/backoffice/internal/editor"
	"github.com/retailpos/backoffice/internal/nav"
	"github.com/retailpos/backoffice/internal/pages"
	"github.com/retailpos/backoffice/internal/session"
	"github.com/retailpos/backoffice/internal/store"
	"github.com/retailpos/backoffice/internal/toast"
	"github.com/retailpos/backoffice/internal/transport"
	"github.com/retailpos/backoffice/pkg/logger"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	app, err := newApp(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}

	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				log.Error().Err(err).Msg("metrics server stopped")
			}
		}()
	}

	app.run(ctx)
}

// app holds every wired controller for the command loop.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	sessions *session.Manager
	toasts   *toast.Queue
	router   *nav.Router

	auth     *pages.Auth
	home     *pages.Home
	clients  *pages.Clients
	products *pages.Products
	orders   *pages.Orders
	reports  *pages.Reports
	editor   *editor.Controller
}

func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	var slotStore store.Store
	switch cfg.Session.Backend {
	case "redis":
		client, err := store.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		hostname, _ := os.Hostname()
		slotStore = store.NewRedisStore(client, hostname)
	default:
		slotStore = store.NewFileStore(cfg.Session.Dir)
	}

	sessions := session.NewManager(slotStore, log)
	httpClient := transport.NewClient(cfg.HTTPTimeout, sessions, func() {
		// A 401 from any endpoint revokes the session.
		sessions.Logout(context.Background())
	}, log)
	posAPI := api.New(cfg.APIBaseURL, httpClient, log)

	toasts := toast.NewQueue()
	router := nav.NewRouter(sessions, toasts, log)
	sessions.SetLogoutHandler(func() {
		router.Navigate(context.Background(), nav.RouteLogin)
	})

	saver := download.NewSaver(cfg.DownloadDir)

	a := &app{
		cfg:      cfg,
		log:      log,
		sessions: sessions,
		toasts:   toasts,
		router:   router,
		auth:     pages.NewAuth(posAPI, sessions, toasts, router, log),
		home:     pages.NewHome(posAPI, toasts, log),
		clients:  pages.NewClients(posAPI, cfg.PageSize, toasts, log),
		products: pages.NewProducts(posAPI, sessions, saver, cfg.PageSize, toasts, log),
		orders:   pages.NewOrders(posAPI, saver, cfg.PageSize, toasts, log),
		reports:  pages.NewReports(posAPI, saver, toasts, log),
		editor:   editor.New(posAPI, toasts, router, log),
	}

	// Pick up a surviving session from a previous run.
	sessions.Restore(ctx)
	if sessions.Current() != nil {
		router.Navigate(ctx, nav.RouteHome)
	} else {
		router.Navigate(ctx, nav.RouteLogin)
	}

	return a, nil
}

func (a *app) run(ctx context.Context) {
	// Newest entry is first; print it as it appears.
	lastShown := -1
	releaseToasts := a.toasts.Subscribe(func(entries []toast.Entry) {
		if len(entries) == 0 || entries[0].Closing || entries[0].ID == lastShown {
			return
		}
		lastShown = entries[0].ID
		fmt.Printf("[%s] %s\n", entries[0].Kind, entries[0].Message)
	})
	defer releaseToasts()
	defer a.toasts.Close()
	defer a.clients.List.Close()
	defer a.products.List.Close()
	defer a.orders.List.Close()

	fmt.Println("retail back office — type 'help' for commands")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("%s> ", a.router.Current())
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		args := strings.Fields(line)
		if args[0] == "quit" || args[0] == "exit" {
			return
		}
		a.dispatch(ctx, args)
	}
}

func (a *app) dispatch(ctx context.Context, args []string) {
	switch args[0] {
	case "help":
		printHelp()
	case "login":
		if len(args) == 3 {
			_ = a.auth.Login(ctx, args[1], args[2])
		} else {
			fmt.Println("usage: login <email> <password>")
		}
	case "signup":
		if len(args) == 4 {
			_ = a.auth.Signup(ctx, args[1], args[2], args[3])
		} else {
			fmt.Println("usage: signup <email> <password> <confirm>")
		}
	case "logout":
		a.sessions.Logout(ctx)
	case "go":
		if len(args) == 2 {
			fmt.Println("now at:", a.router.Navigate(ctx, args[1]))
		} else {
			fmt.Println("usage: go <route>")
		}
	case "home":
		if a.router.Navigate(ctx, nav.RouteHome) == nav.RouteHome {
			_ = a.home.Load(ctx)
			a.printSummary()
		}
	case "clients":
		a.clientsCommand(ctx, args[1:])
	case "products":
		a.productsCommand(ctx, args[1:])
	case "orders":
		a.ordersCommand(ctx, args[1:])
	case "reports":
		a.reportsCommand(ctx, args[1:])
	case "order":
		a.orderCommand(ctx, args[1:])
	default:
		fmt.Println("unknown command; type 'help'")
	}
}

func (a *app) clientsCommand(ctx context.Context, args []string) {
	if a.router.Navigate(ctx, nav.RouteClients) != nav.RouteClients {
		return
	}
	switch {
	case len(args) == 0:
		a.clients.ApplyFilter(ctx)
	case args[0] == "search" && len(args) > 1:
		a.clients.SetSearch(strings.Join(args[1:], " "))
		a.clients.ApplyFilter(ctx)
	case args[0] == "add" && len(args) > 1:
		_ = a.clients.Add(ctx, strings.Join(args[1:], " "))
	case args[0] == "page" && len(args) == 2:
		if n, err := strconv.Atoi(args[1]); err == nil {
			a.clients.GoToPage(ctx, n)
		}
	default:
		fmt.Println("usage: clients [search <term> | add <name> | page <n>]")
	}
}

func (a *app) productsCommand(ctx context.Context, args []string) {
	if a.router.Navigate(ctx, nav.RouteProducts) != nav.RouteProducts {
		return
	}
	switch {
	case len(args) == 0:
		a.products.ApplyFilters(ctx)
	case args[0] == "qty" && len(args) == 3:
		id, err1 := strconv.ParseInt(args[1], 10, 64)
		qty, err2 := strconv.Atoi(args[2])
		if err1 == nil && err2 == nil {
			_ = a.products.UpdateQuantity(ctx, id, qty)
		}
	case args[0] == "upload" && len(args) == 2:
		a.uploadProducts(ctx, args[1])
	default:
		fmt.Println("usage: products [qty <id> <n> | upload <file.tsv>]")
	}
}

func (a *app) uploadProducts(ctx context.Context, path string) {
	f, err := os.Open(path)
	if err != nil {
		fmt.Println("cannot open", path)
		return
	}
	defer f.Close()
	_ = a.products.UploadProducts(ctx, f.Name(), f)
}

func (a *app) ordersCommand(ctx context.Context, args []string) {
	if a.router.Navigate(ctx, nav.RouteOrders) != nav.RouteOrders {
		return
	}
	switch {
	case len(args) == 0:
		_ = a.orders.ApplyFilters(ctx)
	case args[0] == "invoice" && len(args) == 2:
		if id, err := strconv.ParseInt(args[1], 10, 64); err == nil {
			a.invoiceOrCancel(ctx, id, true)
		}
	case args[0] == "cancel" && len(args) == 2:
		if id, err := strconv.ParseInt(args[1], 10, 64); err == nil {
			a.invoiceOrCancel(ctx, id, false)
		}
	case args[0] == "download" && len(args) == 2:
		if id, err := strconv.ParseInt(args[1], 10, 64); err == nil {
			_ = a.orders.DownloadInvoice(ctx, id)
		}
	default:
		fmt.Println("usage: orders [invoice <id> | cancel <id> | download <id>]")
	}
}

// invoiceOrCancel acts on the row currently shown for the given order id.
func (a *app) invoiceOrCancel(ctx context.Context, id int64, invoice bool) {
	for _, order := range a.orders.List.Snapshot().Rows {
		if order.ID == id {
			if invoice {
				_ = a.orders.Invoice(ctx, order)
			} else {
				_ = a.orders.Cancel(ctx, order)
			}
			return
		}
	}
	fmt.Println("order not on the current page; fetch first")
}

func (a *app) orderCommand(ctx context.Context, args []string) {
	switch {
	case len(args) == 1 && args[0] == "new":
		if a.router.Navigate(ctx, nav.RouteOrderNew) == nav.RouteOrderNew {
			a.editor.NewOrder()
		}
	case len(args) == 2 && args[0] == "edit":
		if id, err := strconv.ParseInt(args[1], 10, 64); err == nil {
			if a.router.Navigate(ctx, nav.RouteOrderEdit) == nav.RouteOrderEdit {
				_ = a.editor.Load(ctx, id)
			}
		}
	case len(args) >= 3 && args[0] == "add":
		price := ""
		if len(args) == 4 {
			price = args[3]
		}
		_ = a.editor.AddItem(ctx, args[1], args[2], price)
	case len(args) == 1 && args[0] == "submit":
		a.editor.Submit(ctx)
	default:
		fmt.Println("usage: order [new | edit <id> | add <barcode> <qty> [price] | submit]")
	}
}

func (a *app) reportsCommand(ctx context.Context, args []string) {
	if a.router.Navigate(ctx, nav.RouteReports) != nav.RouteReports {
		return
	}
	switch {
	case len(args) == 3 && args[0] == "sales":
		_ = a.reports.DownloadSales(ctx, args[1], args[2])
	case len(args) == 1 && args[0] == "inventory":
		_ = a.reports.DownloadInventory(ctx)
	default:
		fmt.Println("usage: reports [sales <start> <end> | inventory]")
	}
}

func (a *app) printSummary() {
	summary := a.home.Summary()
	if summary == nil {
		return
	}
	fmt.Printf("today's sales: %.2f (%+.1f%%)  orders: %.0f  avg order: %.2f\n",
		summary.TodaySales.Current, summary.TodaySales.ChangePercent,
		summary.TodayOrders.Current, summary.AverageOrderValue.Current)
	for _, alert := range summary.LowStockAlerts {
		fmt.Printf("low stock: %s (%d left)\n", alert.ProductName, alert.CurrentStock)
	}
}

func printHelp() {
	fmt.Println(`commands:
  login <email> <password>      signup <email> <password> <confirm>
  logout                        go <route>
  home                          clients [search|add|page ...]
  products [qty|upload ...]     orders [invoice|cancel|download <id>]
  order [new|edit|add|submit]   reports [sales <start> <end>|inventory]
  quit`)
}
