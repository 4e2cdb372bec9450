package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/backlog/internal/domain"
	"github.com/mmcdole/backlog/internal/tui/styles"
)

// AuthForm collects credentials for login or registration
type AuthForm struct {
	mode     domain.AuthMode
	username textinput.Model
	password textinput.Model
	focus    int // 0 username, 1 password
	err      string
	busy     bool
}

// NewAuthForm creates a login form
func NewAuthForm() AuthForm {
	newInput := func(placeholder string) textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = 64
		ti.Width = 30
		ti.Prompt = ""
		ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
		ti.PlaceholderStyle = styles.DimStyle
		return ti
	}

	f := AuthForm{
		username: newInput("Username"),
		password: newInput("Password"),
	}
	f.password.EchoMode = textinput.EchoPassword
	f.password.EchoCharacter = '•'
	f.username.Focus()
	return f
}

// Mode returns whether the form logs in or registers
func (f AuthForm) Mode() domain.AuthMode { return f.mode }

// Credentials returns the entered fields
func (f AuthForm) Credentials() domain.Credentials {
	return domain.Credentials{Username: f.username.Value(), Password: f.password.Value()}
}

// SetError shows text below the fields and ends the busy state
func (f *AuthForm) SetError(text string) {
	f.err = text
	f.busy = false
}

// SetBusy marks a submission in flight
func (f *AuthForm) SetBusy(busy bool) {
	f.busy = busy
	if busy {
		f.err = ""
	}
}

// Busy reports whether a submission is in flight
func (f AuthForm) Busy() bool { return f.busy }

// Reset clears every field and returns to login mode
func (f *AuthForm) Reset() {
	*f = NewAuthForm()
}

// ToggleMode switches between login and register
func (f *AuthForm) ToggleMode() {
	if f.mode == domain.AuthLogin {
		f.mode = domain.AuthRegister
	} else {
		f.mode = domain.AuthLogin
	}
	f.err = ""
}

// Update handles input events, returns (form, cmd, submitted)
func (f AuthForm) Update(msg tea.Msg) (AuthForm, tea.Cmd, bool) {
	if f.busy {
		return f, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			if f.focus == 0 {
				return f, f.setFocus(1), false
			}
			return f, nil, true
		case "tab", "down":
			return f, f.setFocus((f.focus + 1) % 2), false
		case "shift+tab", "up":
			return f, f.setFocus((f.focus + 1) % 2), false
		case "ctrl+t":
			f.ToggleMode()
			return f, nil, false
		}
	}

	var cmd tea.Cmd
	if f.focus == 0 {
		f.username, cmd = f.username.Update(msg)
	} else {
		f.password, cmd = f.password.Update(msg)
	}
	return f, cmd, false
}

func (f *AuthForm) setFocus(i int) tea.Cmd {
	f.focus = i
	if i == 0 {
		f.password.Blur()
		return f.username.Focus()
	}
	f.username.Blur()
	return f.password.Focus()
}

// View renders the form
func (f AuthForm) View() string {
	const formWidth = 36

	title := "Log in to your backlog"
	toggle := "No account? ctrl+t to register"
	if f.mode == domain.AuthRegister {
		title = "Create an account"
		toggle = "Have an account? ctrl+t to log in"
	}

	label := func(s string, focused bool) string {
		if focused {
			return styles.AccentStyle.Render(s)
		}
		return styles.DimStyle.Render(s)
	}

	status := ""
	switch {
	case f.busy:
		status = styles.DimStyle.Render("Please wait...")
	case f.err != "":
		status = styles.ErrorStyle.Render(f.err)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render(title),
		label("Username", f.focus == 0),
		f.username.View(),
		"",
		label("Password", f.focus == 1),
		f.password.View(),
		"",
		lipgloss.NewStyle().Width(formWidth).Render(status),
		styles.DimStyle.Render(toggle),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Accent).
		Padding(1, 2).
		Render(content)
}
