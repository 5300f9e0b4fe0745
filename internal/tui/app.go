// ABOUTME: Root bubbletea model for the admin TUI
// ABOUTME: Manages screen state, backend loads and routes keyboard input to child components

package tui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/sultankost/kost/internal/auth"
	"github.com/sultankost/kost/internal/client"
	"github.com/sultankost/kost/internal/kost"
	"github.com/sultankost/kost/internal/tui/dashboard"
	"github.com/sultankost/kost/internal/tui/forms"
	"github.com/sultankost/kost/internal/tui/listview"
	"github.com/sultankost/kost/internal/tui/login"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenDashboard
	ScreenRooms
	ScreenTenants
	ScreenPayments
	ScreenForm
)

// Layout constants
const (
	minTerminalWidth = 80 // Minimum frame width
	panelChrome      = 6  // Panel border plus horizontal padding
)

const sessionExpiredMessage = "Sesi berakhir, silakan login kembali"

// dataLoadedMsg is sent when a full refresh completes
type dataLoadedMsg struct {
	data *dashboard.Snapshot
	err  error
}

// loginDoneMsg carries the outcome of a password or social login
type loginDoneMsg struct {
	result auth.Result
}

// loggedOutMsg is sent once the session has been cleared
type loggedOutMsg struct{}

// sessionExpiredMsg is sent when a token refresh failed
type sessionExpiredMsg struct{}

// actionDoneMsg is sent when a check-in or payment request returns
type actionDoneMsg struct {
	status string
	err    error
}

// Options wires the app to the session and API client
type Options struct {
	Store    *auth.Store
	Client   *client.Client
	OAuthURL string
	// Expired receives a value whenever the client gives up on a refresh
	Expired <-chan struct{}
}

// App is the root model for the TUI
type App struct {
	ctx      context.Context
	store    *auth.Store
	api      *client.Client
	oauthURL string
	expired  <-chan struct{}
	now      func() time.Time

	screen     Screen
	prevScreen Screen
	width      int
	height     int
	err        error
	status     string
	loading    bool
	data       *dashboard.Snapshot
	lastUpdate time.Time

	// Child models
	login     *login.Login
	dashboard *dashboard.Dashboard
	rooms     *listview.List[client.Room]
	tenants   *listview.List[client.Tenant]
	payments  *listview.List[client.Payment]
	form      tea.Model
}

// New creates a new TUI application. It opens on the login screen unless
// the store already holds a session.
func New(opts Options) *App {
	a := &App{
		ctx:      context.Background(),
		store:    opts.Store,
		api:      opts.Client,
		oauthURL: opts.OAuthURL,
		expired:  opts.Expired,
		now:      time.Now,
	}
	a.dashboard = dashboard.New(nil, 0, 0)
	a.rooms = listview.New("Kamar", roomColumns(), filterRooms)
	a.tenants = listview.New("Penyewa", a.tenantColumns(), kost.FilterTenants)
	a.payments = listview.New("Riwayat Bayar", paymentColumns(), kost.FilterPayments)

	if a.store != nil && a.store.IsAuthenticated() {
		a.screen = ScreenDashboard
		a.loading = true
	} else {
		a.screen = ScreenLogin
		a.login = login.New(a.oauthURL, "")
	}
	return a
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	if a.screen == ScreenLogin {
		return tea.Batch(a.login.Init(), a.waitForExpiry())
	}
	return tea.Batch(a.loadData(), a.waitForExpiry())
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		// Forward to child models
		if a.login != nil {
			a.login.Update(msg)
		}
		if a.form != nil {
			return a.updateForm(msg)
		}
		return a, nil

	case tea.KeyMsg:
		// Handle global quit
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		// Route to current screen
		switch a.screen {
		case ScreenLogin:
			return a.updateLogin(msg)
		case ScreenForm:
			return a.updateForm(msg)
		default:
			return a.updateMain(msg)
		}

	case login.SubmitMsg:
		creds := msg.Credentials
		return a, func() tea.Msg {
			return loginDoneMsg{result: a.store.Login(a.ctx, creds)}
		}

	case login.SocialMsg:
		access, refresh := msg.Access, msg.Refresh
		return a, func() tea.Msg {
			return loginDoneMsg{result: a.store.CaptureSocialCallback(a.ctx, access, refresh)}
		}

	case loginDoneMsg:
		return a.handleLoginDone(msg)

	case loggedOutMsg:
		a.api.PurgeCache()
		return a, a.toLogin("")

	case sessionExpiredMsg:
		slog.Info("session expired, returning to login")
		if a.screen == ScreenLogin {
			return a, a.waitForExpiry()
		}
		return a, tea.Batch(a.toLogin(sessionExpiredMessage), a.waitForExpiry())

	case dataLoadedMsg:
		return a.handleDataLoaded(msg)

	case forms.CheckInMsg:
		a.closeForm()
		in := msg.CheckIn
		return a, func() tea.Msg {
			t, err := a.api.CheckIn(a.ctx, in)
			if err != nil {
				return actionDoneMsg{err: err}
			}
			return actionDoneMsg{status: t.FullName + " check-in berhasil"}
		}

	case forms.PaymentMsg:
		a.closeForm()
		p := msg
		return a, func() tea.Msg {
			_, err := a.api.CreatePayment(a.ctx, p.TenantID, p.Amount, p.Note)
			if err != nil {
				return actionDoneMsg{err: err}
			}
			return actionDoneMsg{status: "Pembayaran " + kost.Rupiah(p.Amount) + " tercatat"}
		}

	case forms.CancelledMsg:
		a.closeForm()
		return a, nil

	case actionDoneMsg:
		if msg.err != nil {
			if errors.Is(msg.err, client.ErrSessionExpired) {
				return a, a.toLogin(sessionExpiredMessage)
			}
			a.status = "Gagal: " + errorMessage(msg.err)
			return a, nil
		}
		a.status = msg.status
		a.loading = true
		return a, a.loadData()

	default:
		// Forward unknown messages to huh forms (needed for their internals)
		switch {
		case a.screen == ScreenLogin && a.login != nil:
			return a.updateLogin(msg)
		case a.screen == ScreenForm && a.form != nil:
			return a.updateForm(msg)
		}
	}

	return a, nil
}

func (a *App) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.login == nil {
		return a, nil
	}
	model, cmd := a.login.Update(msg)
	a.login = model.(*login.Login)
	return a, cmd
}

func (a *App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.form == nil {
		return a, nil
	}
	model, cmd := a.form.Update(msg)
	a.form = model
	return a, cmd
}

// updateMain handles keys on the dashboard and list screens
func (a *App) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// A focused filter swallows every key
	if a.filtering() {
		return a, a.updateList(msg)
	}

	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "1":
		a.screen = ScreenDashboard
	case "2":
		a.screen = ScreenRooms
	case "3":
		a.screen = ScreenTenants
	case "4":
		a.screen = ScreenPayments
	case "r":
		a.loading = true
		a.status = ""
		return a, a.loadData()
	case "c":
		return a, a.openCheckIn()
	case "p":
		return a, a.openPayment()
	case "x":
		a.status = ""
		store := a.store
		return a, func() tea.Msg {
			store.Logout(a.ctx)
			return loggedOutMsg{}
		}
	default:
		return a, a.updateList(msg)
	}
	return a, nil
}

func (a *App) filtering() bool {
	switch a.screen {
	case ScreenRooms:
		return a.rooms.Filtering()
	case ScreenTenants:
		return a.tenants.Filtering()
	case ScreenPayments:
		return a.payments.Filtering()
	}
	return false
}

func (a *App) updateList(msg tea.Msg) tea.Cmd {
	switch a.screen {
	case ScreenRooms:
		return a.rooms.Update(msg)
	case ScreenTenants:
		return a.tenants.Update(msg)
	case ScreenPayments:
		return a.payments.Update(msg)
	}
	return nil
}

// openCheckIn shows the check-in form, preselecting the highlighted room
func (a *App) openCheckIn() tea.Cmd {
	if a.data == nil {
		return nil
	}
	vacant := kost.VacantRooms(a.data.Rooms)
	if len(vacant) == 0 {
		a.status = "Tidak ada kamar kosong"
		return nil
	}

	preselect := 0
	if a.screen == ScreenRooms {
		if r, ok := a.rooms.Selected(); ok {
			preselect = r.ID
		}
	}
	return a.openForm(forms.NewCheckIn(vacant, preselect, a.now()))
}

// openPayment shows the payment form, preselecting the highlighted tenant
func (a *App) openPayment() tea.Cmd {
	if a.data == nil {
		return nil
	}
	if len(a.data.Tenants) == 0 {
		a.status = "Belum ada penyewa"
		return nil
	}

	preselect := 0
	switch a.screen {
	case ScreenTenants:
		if t, ok := a.tenants.Selected(); ok {
			preselect = t.ID
		}
	case ScreenPayments:
		if p, ok := a.payments.Selected(); ok {
			preselect = p.TenantID
		}
	}
	return a.openForm(forms.NewPayment(a.data.Tenants, preselect, a.now()))
}

func (a *App) openForm(form tea.Model) tea.Cmd {
	a.status = ""
	a.prevScreen = a.screen
	a.screen = ScreenForm
	a.form = form
	if a.width > 0 {
		a.form, _ = form.Update(tea.WindowSizeMsg{Width: a.contentWidth(), Height: a.contentHeight()})
	}
	return a.form.Init()
}

func (a *App) closeForm() {
	a.form = nil
	a.screen = a.prevScreen
}

func (a *App) handleLoginDone(msg loginDoneMsg) (tea.Model, tea.Cmd) {
	if !msg.result.OK {
		if a.login == nil {
			return a, nil
		}
		return a, a.login.Failed(msg.result.Message)
	}

	// Cached responses may belong to the previous user
	a.api.PurgeCache()
	a.login = nil
	a.err = nil
	a.status = ""
	a.screen = ScreenDashboard
	a.loading = true
	return a, a.loadData()
}

func (a *App) handleDataLoaded(msg dataLoadedMsg) (tea.Model, tea.Cmd) {
	// A load that raced a logout or expiry is stale
	if a.screen == ScreenLogin {
		return a, nil
	}
	a.loading = false

	if msg.err != nil {
		if errors.Is(msg.err, client.ErrSessionExpired) {
			return a, a.toLogin(sessionExpiredMessage)
		}
		a.err = msg.err
		return a, nil
	}

	a.err = nil
	a.data = msg.data
	a.lastUpdate = msg.data.LoadedAt
	a.dashboard.Update(a.data)
	a.rooms.SetItems(a.data.Rooms)
	a.tenants.SetItems(a.data.Tenants)
	a.payments.SetItems(a.data.Payments)
	return a, nil
}

// toLogin drops all loaded data and shows the login screen with message
func (a *App) toLogin(message string) tea.Cmd {
	a.screen = ScreenLogin
	a.form = nil
	a.data = nil
	a.err = nil
	a.status = ""
	a.loading = false
	a.lastUpdate = time.Time{}
	a.dashboard.Update(nil)
	a.rooms.SetItems(nil)
	a.tenants.SetItems(nil)
	a.payments.SetItems(nil)

	a.login = login.New(a.oauthURL, message)
	if a.width > 0 {
		a.login.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
	}
	return a.login.Init()
}

// waitForExpiry blocks until the client reports a failed refresh
func (a *App) waitForExpiry() tea.Cmd {
	if a.expired == nil {
		return nil
	}
	ch, ctx := a.expired, a.ctx
	return func() tea.Msg {
		select {
		case <-ch:
			return sessionExpiredMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

// loadData fetches everything the screens show in parallel
func (a *App) loadData() tea.Cmd {
	api, ctx, now := a.api, a.ctx, a.now
	return func() tea.Msg {
		snap := &dashboard.Snapshot{}
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			s, err := api.FinancialSummary(gctx)
			snap.Summary = s
			return err
		})
		g.Go(func() error {
			rooms, err := api.ListRooms(gctx, client.RoomFilter{})
			snap.Rooms = rooms
			return err
		})
		g.Go(func() error {
			tenants, err := api.ListTenants(gctx, client.TenantFilter{})
			snap.Tenants = tenants
			return err
		})
		g.Go(func() error {
			payments, err := api.AllPayments(gctx, 0)
			snap.Payments = payments
			return err
		})
		if err := g.Wait(); err != nil {
			slog.Warn("data load failed", "error", err)
			return dataLoadedMsg{err: err}
		}
		snap.LoadedAt = now()
		return dataLoadedMsg{data: snap}
	}
}

func (a *App) resize() {
	a.dashboard.SetSize(a.contentWidth(), a.contentHeight())
	a.rooms.SetSize(a.contentWidth(), a.contentHeight())
	a.tenants.SetSize(a.contentWidth(), a.contentHeight())
	a.payments.SetSize(a.contentWidth(), a.contentHeight())
}

// errorMessage prefers the backend's own message for API errors
func errorMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message()
	}
	return err.Error()
}

// Run starts the TUI and blocks until the user quits or ctx is done
func Run(ctx context.Context, opts Options) error {
	app := New(opts)
	app.ctx = ctx

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
