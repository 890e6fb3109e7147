package mvc

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Qoldo3/Django/api"
	"github.com/Qoldo3/Django/message"
	"github.com/Qoldo3/Django/session"
)

type HomePage struct {
	options []string
	cursor  int

	sess   *session.Session
	client *api.Client
}

func InitialHomeModel(sess *session.Session, client *api.Client) HomePage {
	m := HomePage{}
	m.sess = sess
	m.client = client

	if sess.Authenticated() {
		m.options = []string{
			"Posts",
			"My posts",
			"New post",
			"Profile",
			"Logout",
		}
	} else {
		m.options = []string{
			"Posts",
			"Login",
			"Register",
			"Reset password",
			"Activate account",
		}
	}

	return m
}

// startupCmd runs the once-per-process stored-token check. Session makes
// repeat calls no-ops, so re-entering the home page is safe.
func startupCmd(sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		sess.Startup(context.Background())
		return message.StartupDone{}
	}
}

func (m HomePage) Init() tea.Cmd {
	if m.sess.State() == session.StateLoading {
		return startupCmd(m.sess)
	}
	return nil
}

func (m HomePage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case message.StartupDone:
		return InitialHomeModel(m.sess, m.client), nil
	case message.SessionExpired:
		return InitialHomeModel(m.sess, m.client), nil
	case tea.KeyMsg:
		switch msg.String() {
		case "down":
			m.cursor++
			if m.cursor >= len(m.options) {
				m.cursor = 0
			}
		case "up":
			m.cursor--
			if m.cursor < 0 {
				m.cursor = len(m.options) - 1
			}
		case "q", "ctrl+c":
			return m, tea.Quit
		case "enter", "right":
			if m.sess.State() == session.StateLoading {
				break
			}
			return m.open()
		}
	}
	return m, nil
}

func (m HomePage) open() (tea.Model, tea.Cmd) {
	if m.sess.Authenticated() {
		switch m.cursor {
		case 0:
			page := InitialPostsPageModel(m.sess, m.client)
			return page, page.reload()
		case 1:
			return InitialMyPostsModel(m.sess, m.client), fetchMyPostsCmd(m.sess, m.client)
		case 2:
			page := InitialComposeModel(m.sess, m.client)
			return page, fetchCategoriesCmd(m.client)
		case 3:
			return InitialProfileModel(m.sess, m.client), nil
		case 4:
			m.sess.Logout()
			return InitialHomeModel(m.sess, m.client), nil
		}
	} else {
		switch m.cursor {
		case 0:
			page := InitialPostsPageModel(m.sess, m.client)
			return page, page.reload()
		case 1:
			return InitialLoginModel(m.sess, m.client), nil
		case 2:
			return InitialRegisterModel(m.sess, m.client), nil
		case 3:
			return InitialResetRequestModel(m.sess, m.client), nil
		case 4:
			return InitialActivateModel(m.sess, m.client), nil
		}
	}
	return m, nil
}

func (m HomePage) View() string {
	var s string

	if m.sess.State() == session.StateLoading {
		return "Checking session...\n\nPress 'q' or 'ctrl-c' to quit\n"
	}

	if user := m.sess.User(); user != nil {
		s = fmt.Sprintf("Hello, %s\n\n", user.DisplayName())
	}
	s += "Available options:\n"

	for i, option := range m.options {
		if i == m.cursor {
			s += "\t" + cursorStyle.Render(option) + "\n"
		} else {
			s += "\t" + option + "\n"
		}
	}

	s += "\nPress 'q' or 'ctrl-c' to quit\n\n"

	return s
}
