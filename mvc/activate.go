package mvc

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Qoldo3/Django/api"
	"github.com/Qoldo3/Django/message"
	"github.com/Qoldo3/Django/session"
)

type ActivatedMsg struct {
	err string
}

// ActivatePage redeems the activation token from the signup email.
type ActivatePage struct {
	token textinput.Model
	msg   string
	done  bool
	busy  bool

	sess   *session.Session
	client *api.Client
}

func InitialActivateModel(sess *session.Session, client *api.Client) ActivatePage {
	m := ActivatePage{}
	m.sess = sess
	m.client = client

	m.token = textinput.New()
	m.token.Placeholder = "Activation code from the email"
	m.token.Focus()

	return m
}

func (m ActivatePage) Init() tea.Cmd {
	return textinput.Blink
}

func activateCmd(client *api.Client, token string) tea.Cmd {
	return func() tea.Msg {
		if err := client.Activate(context.Background(), token); err != nil {
			return ActivatedMsg{err: err.Error()}
		}
		return ActivatedMsg{}
	}
}

func (m ActivatePage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var tokenCmd tea.Cmd
	m.token, tokenCmd = m.token.Update(msg)

	switch msg := msg.(type) {
	case message.SessionExpired:
		return InitialHomeModel(m.sess, m.client), nil
	case ActivatedMsg:
		m.busy = false
		if msg.err != "" {
			m.msg = msg.err
		} else {
			m.done = true
			m.msg = "Account activated. You can now log in."
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			return InitialHomeModel(m.sess, m.client), nil
		case "enter":
			if m.busy || m.done {
				break
			}
			if m.token.Value() == "" {
				m.msg = "Enter the activation code"
				break
			}
			m.busy = true
			m.msg = ""
			return m, activateCmd(m.client, m.token.Value())
		}
	}
	return m, tokenCmd
}

func (m ActivatePage) View() string {
	s := "Activate account\n\n"

	s += m.token.View() + "\n\n"

	lines := 6

	if m.busy {
		lines += 2
		s += "Activating...\n\n"
	}
	if m.msg != "" {
		lines += 2
		s += "Info: " + m.msg + "\n\n"
	}

	s += "'enter' to activate, 'esc' to go back\n\n"

	return padToBottom(s, lines)
}
