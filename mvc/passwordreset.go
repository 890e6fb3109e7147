package mvc

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Qoldo3/Django/api"
	"github.com/Qoldo3/Django/message"
	"github.com/Qoldo3/Django/session"
)

type ResetRequestedMsg struct {
	info string
	err  string
}

// ResetRequestPage asks the server to send a reset email. Whatever
// address is entered, the reply reads the same; the server never reveals
// whether an account exists.
type ResetRequestPage struct {
	email textinput.Model
	msg   string
	busy  bool

	sess   *session.Session
	client *api.Client
}

func InitialResetRequestModel(sess *session.Session, client *api.Client) ResetRequestPage {
	m := ResetRequestPage{}
	m.sess = sess
	m.client = client

	m.email = textinput.New()
	m.email.Placeholder = "Email"
	m.email.Focus()

	return m
}

func (m ResetRequestPage) Init() tea.Cmd {
	return textinput.Blink
}

func requestResetCmd(client *api.Client, email string) tea.Cmd {
	return func() tea.Msg {
		info, err := client.RequestPasswordReset(context.Background(), email)
		if err != nil {
			return ResetRequestedMsg{err: err.Error()}
		}
		return ResetRequestedMsg{info: info}
	}
}

func (m ResetRequestPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var emailCmd tea.Cmd
	m.email, emailCmd = m.email.Update(msg)

	switch msg := msg.(type) {
	case message.SessionExpired:
		return InitialHomeModel(m.sess, m.client), nil
	case ResetRequestedMsg:
		m.busy = false
		if msg.err != "" {
			m.msg = msg.err
		} else {
			m.msg = msg.info
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			return InitialHomeModel(m.sess, m.client), nil
		case "ctrl+n":
			return InitialResetConfirmModel(m.sess, m.client), nil
		case "enter":
			if m.busy {
				break
			}
			if m.email.Value() == "" {
				m.msg = "Enter your email address"
				break
			}
			m.busy = true
			m.msg = ""
			return m, requestResetCmd(m.client, m.email.Value())
		}
	}
	return m, emailCmd
}

func (m ResetRequestPage) View() string {
	s := "Reset password\n\n"

	s += m.email.View() + "\n\n"

	lines := 6

	if m.busy {
		lines += 2
		s += "Requesting...\n\n"
	}
	if m.msg != "" {
		lines += 2
		s += "Info: " + m.msg + "\n\n"
	}

	s += "'enter' to request a reset email, 'ctrl+n' if you already have a code, 'esc' to go back\n\n"

	return padToBottom(s, lines)
}

type ResetConfirmedMsg struct {
	err string
}

// ResetConfirmPage redeems the emailed reset token for a new password.
type ResetConfirmPage struct {
	token    textinput.Model
	password textinput.Model
	confirm  textinput.Model
	focus    int
	msg      string
	done     bool
	busy     bool

	sess   *session.Session
	client *api.Client
}

func InitialResetConfirmModel(sess *session.Session, client *api.Client) ResetConfirmPage {
	m := ResetConfirmPage{}
	m.sess = sess
	m.client = client

	m.token = textinput.New()
	m.token.Placeholder = "Reset code from the email"
	m.token.Focus()

	m.password = textinput.New()
	m.password.Placeholder = "New password"
	m.password.EchoMode = textinput.EchoPassword

	m.confirm = textinput.New()
	m.confirm.Placeholder = "Confirm new password"
	m.confirm.EchoMode = textinput.EchoPassword

	return m
}

func (m ResetConfirmPage) Init() tea.Cmd {
	return textinput.Blink
}

func confirmResetCmd(client *api.Client, token, password, confirm string) tea.Cmd {
	return func() tea.Msg {
		if err := client.ConfirmPasswordReset(context.Background(), token, password, confirm); err != nil {
			return ResetConfirmedMsg{err: err.Error()}
		}
		return ResetConfirmedMsg{}
	}
}

func (m *ResetConfirmPage) setFocus(i int) {
	inputs := []*textinput.Model{&m.token, &m.password, &m.confirm}
	m.focus = (i + len(inputs)) % len(inputs)
	for j, input := range inputs {
		if j == m.focus {
			input.Focus()
		} else {
			input.Blur()
		}
	}
}

func (m ResetConfirmPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds [3]tea.Cmd
	m.token, cmds[0] = m.token.Update(msg)
	m.password, cmds[1] = m.password.Update(msg)
	m.confirm, cmds[2] = m.confirm.Update(msg)

	switch msg := msg.(type) {
	case message.SessionExpired:
		return InitialHomeModel(m.sess, m.client), nil
	case ResetConfirmedMsg:
		m.busy = false
		if msg.err != "" {
			m.msg = msg.err
		} else {
			m.done = true
			m.msg = "Password reset. You can now log in."
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			return InitialHomeModel(m.sess, m.client), nil
		case "down", "tab":
			m.setFocus(m.focus + 1)
		case "up", "shift+tab":
			m.setFocus(m.focus - 1)
		case "enter":
			if m.busy || m.done {
				break
			}
			if m.token.Value() == "" || m.password.Value() == "" {
				m.msg = "Code and new password must not be empty"
				break
			}
			if m.password.Value() != m.confirm.Value() {
				m.msg = "Passwords do not match"
				break
			}
			m.busy = true
			m.msg = ""
			return m, confirmResetCmd(m.client, m.token.Value(), m.password.Value(), m.confirm.Value())
		}
	}
	return m, tea.Batch(cmds[0], cmds[1], cmds[2])
}

func (m ResetConfirmPage) View() string {
	s := "Set a new password\n\n"

	s += m.token.View() + "\n"
	s += m.password.View() + "\n"
	s += m.confirm.View() + "\n\n"

	lines := 8

	if m.busy {
		lines += 2
		s += "Submitting...\n\n"
	}
	if m.msg != "" {
		lines += 2
		s += "Info: " + m.msg + "\n\n"
	}

	s += "'enter' to submit, 'esc' to go back\n\n"

	return padToBottom(s, lines)
}
