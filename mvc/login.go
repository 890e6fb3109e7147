package mvc

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Qoldo3/Django/api"
	"github.com/Qoldo3/Django/message"
	"github.com/Qoldo3/Django/session"
)

type LoginResultMsg session.Result

type LoginPage struct {
	email    textinput.Model
	password textinput.Model
	msg      string
	busy     bool

	sess   *session.Session
	client *api.Client
}

func InitialLoginModel(sess *session.Session, client *api.Client) LoginPage {
	m := LoginPage{}
	m.sess = sess
	m.client = client

	m.email = textinput.New()
	m.email.Placeholder = "Email"
	m.email.Focus()

	m.password = textinput.New()
	m.password.Placeholder = "Password"
	m.password.EchoMode = textinput.EchoPassword

	return m
}

func (m LoginPage) Init() tea.Cmd {
	return textinput.Blink
}

func loginCmd(sess *session.Session, email, password string) tea.Cmd {
	return func() tea.Msg {
		return LoginResultMsg(sess.Login(context.Background(), email, password))
	}
}

func (m LoginPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		emailCmd tea.Cmd
		passCmd  tea.Cmd
	)
	m.email, emailCmd = m.email.Update(msg)
	m.password, passCmd = m.password.Update(msg)

	switch msg := msg.(type) {
	case message.SessionExpired:
		return InitialHomeModel(m.sess, m.client), nil
	case LoginResultMsg:
		m.busy = false
		if msg.OK {
			return InitialHomeModel(m.sess, m.client), nil
		}
		m.msg = msg.Err
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "down", "tab":
			m.password.Focus()
			m.email.Blur()
		case "up", "shift+tab":
			m.email.Focus()
			m.password.Blur()
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			return InitialHomeModel(m.sess, m.client), nil
		case "enter":
			if m.busy {
				break
			}
			if m.email.Value() == "" || m.password.Value() == "" {
				m.msg = "Email and password must not be empty"
				break
			}
			m.busy = true
			m.msg = ""
			return m, loginCmd(m.sess, m.email.Value(), m.password.Value())
		}
	}
	return m, tea.Batch(emailCmd, passCmd)
}

func (m LoginPage) View() string {
	s := "Login\n\n"

	s += m.email.View() + "\n"
	s += m.password.View() + "\n\n"

	lines := 7

	if m.busy {
		lines += 2
		s += "Logging in...\n\n"
	}
	if m.msg != "" {
		lines += 2
		s += "Info: " + m.msg + "\n\n"
	}

	s += "'enter' to log in, 'esc' to go back\n\n"

	return padToBottom(s, lines)
}
