// ABOUTME: Login screen as a bubbletea model
// ABOUTME: Chooses password or social sign-in, then collects credentials with huh forms

package login

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/sultankost/kost/internal/auth"
	"github.com/sultankost/kost/internal/tui/forms"
	"github.com/sultankost/kost/internal/tui/styles"
)

// Method is a way of signing in
type Method string

const (
	MethodPassword Method = "password"
	MethodGoogle   Method = "google"
	MethodFacebook Method = "facebook"
)

// SubmitMsg asks the app to log in with a username or email and password
type SubmitMsg struct {
	Credentials auth.Credentials
}

// SocialMsg carries the tokens read from a social login callback URL
type SocialMsg struct {
	Access  string
	Refresh string
}

// Login collects credentials
type Login struct {
	oauthURL string
	form     *huh.Form
	step     int
	width    int
	err      string
	busy     bool

	method      Method
	identity    string
	password    string
	callbackURL string
}

// New creates a login screen. message, if set, is shown above the form (for
// example after the session expired).
func New(oauthURL, message string) *Login {
	l := &Login{
		oauthURL: oauthURL,
		method:   MethodPassword,
		err:      message,
		step:     1,
	}
	l.form = l.methodForm()
	return l
}

func (l *Login) methodForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[Method]().
				Title("Masuk dengan").
				Options(
					huh.NewOption("Username / email dan password", MethodPassword),
					huh.NewOption("Google", MethodGoogle),
					huh.NewOption("Facebook", MethodFacebook),
				).
				Value(&l.method),
		),
	).WithTheme(forms.Theme())
}

func (l *Login) passwordForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username atau email").
				Value(&l.identity).
				Validate(required("username atau email")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&l.password).
				Validate(required("password")),
		),
	).WithTheme(forms.Theme())
}

func (l *Login) socialForm() *huh.Form {
	url, err := auth.SocialLoginURL(l.oauthURL, string(l.method))
	if err != nil {
		url = err.Error()
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Callback URL").
				Description(fmt.Sprintf("Buka %s di browser, lalu tempel URL tujuan setelah login.", url)).
				Value(&l.callbackURL).
				Validate(func(s string) error {
					_, _, err := auth.ParseSocialCallback(strings.TrimSpace(s))
					return err
				}),
		),
	).WithTheme(forms.Theme())
}

// Init implements tea.Model
func (l *Login) Init() tea.Cmd {
	return l.form.Init()
}

// Update implements tea.Model
func (l *Login) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if l.busy {
		return l, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		l.width = msg.Width
	case tea.KeyMsg:
		if msg.String() == "esc" && l.step == 2 {
			l.step = 1
			l.form = l.methodForm()
			return l, l.form.Init()
		}
	}

	form, cmd := l.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		l.form = f
	}

	if l.form.State == huh.StateCompleted {
		return l.advance()
	}
	return l, cmd
}

// advance moves from the method choice to the credential step, or submits
func (l *Login) advance() (tea.Model, tea.Cmd) {
	if l.step == 1 {
		l.step = 2
		if l.method == MethodPassword {
			l.form = l.passwordForm()
		} else {
			l.form = l.socialForm()
		}
		return l, l.form.Init()
	}

	l.busy = true
	l.err = ""
	if l.method == MethodPassword {
		creds := Credentials(l.identity, l.password)
		return l, func() tea.Msg { return SubmitMsg{Credentials: creds} }
	}

	access, refresh, _ := auth.ParseSocialCallback(strings.TrimSpace(l.callbackURL))
	return l, func() tea.Msg { return SocialMsg{Access: access, Refresh: refresh} }
}

// Failed shows message and restarts the credential step
func (l *Login) Failed(message string) tea.Cmd {
	l.busy = false
	l.err = message
	l.password = ""
	l.callbackURL = ""
	if l.method == MethodPassword {
		l.form = l.passwordForm()
	} else {
		l.form = l.socialForm()
	}
	return l.form.Init()
}

// Busy reports whether a login request is in flight
func (l *Login) Busy() bool {
	return l.busy
}

// View implements tea.Model
func (l *Login) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Masuk ke Admin Kost"))
	sb.WriteString("\n")
	if l.err != "" {
		sb.WriteString(styles.StatusCritical.Render(l.err))
		sb.WriteString("\n\n")
	}
	if l.busy {
		sb.WriteString(styles.Subtitle.Render("Memproses..."))
		return sb.String()
	}
	sb.WriteString(l.form.View())
	return sb.String()
}

// Credentials builds login credentials, sending identity as the email when
// it looks like one
func Credentials(identity, password string) auth.Credentials {
	identity = strings.TrimSpace(identity)
	if strings.Contains(identity, "@") {
		return auth.Credentials{Email: identity, Password: password}
	}
	return auth.Credentials{Username: identity, Password: password}
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s wajib diisi", field)
		}
		return nil
	}
}
