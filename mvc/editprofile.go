package mvc

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Qoldo3/Django/api"
	"github.com/Qoldo3/Django/message"
	"github.com/Qoldo3/Django/model"
	"github.com/Qoldo3/Django/session"
)

type ProfileSavedMsg struct {
	user model.User
	err  string
}

type EditProfilePage struct {
	first       textinput.Model
	last        textinput.Model
	description textinput.Model
	imagePath   textinput.Model
	focus       int
	msg         string
	busy        bool

	sess   *session.Session
	client *api.Client
}

func InitialEditProfileModel(sess *session.Session, client *api.Client) EditProfilePage {
	m := EditProfilePage{}
	m.sess = sess
	m.client = client

	m.first = textinput.New()
	m.first.Placeholder = "First name"
	m.first.Focus()

	m.last = textinput.New()
	m.last.Placeholder = "Last name"

	m.description = textinput.New()
	m.description.Placeholder = "About you"

	m.imagePath = textinput.New()
	m.imagePath.Placeholder = "Avatar image file (optional)"

	if user := sess.User(); user != nil {
		m.first.SetValue(user.FirstName)
		m.last.SetValue(user.LastName)
		m.description.SetValue(user.Description)
	}

	return m
}

func (m EditProfilePage) Init() tea.Cmd {
	return textinput.Blink
}

// saveProfileCmd PATCHes the profile; on success the session swaps in
// the server's replacement snapshot before the page hears about it.
func saveProfileCmd(sess *session.Session, client *api.Client, in api.ProfileInput) tea.Cmd {
	return func() tea.Msg {
		user, err := client.UpdateProfile(context.Background(), in)
		if err != nil {
			if api.IsUnauthorized(err) {
				return nil
			}
			return ProfileSavedMsg{err: err.Error()}
		}
		sess.SetUser(&user)
		return ProfileSavedMsg{user: user}
	}
}

func (m *EditProfilePage) setFocus(i int) {
	inputs := []*textinput.Model{&m.first, &m.last, &m.description, &m.imagePath}
	m.focus = (i + len(inputs)) % len(inputs)
	for j, input := range inputs {
		if j == m.focus {
			input.Focus()
		} else {
			input.Blur()
		}
	}
}

func (m EditProfilePage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds [4]tea.Cmd
	m.first, cmds[0] = m.first.Update(msg)
	m.last, cmds[1] = m.last.Update(msg)
	m.description, cmds[2] = m.description.Update(msg)
	m.imagePath, cmds[3] = m.imagePath.Update(msg)

	switch msg := msg.(type) {
	case message.SessionExpired:
		return InitialHomeModel(m.sess, m.client), nil
	case message.ResetMsg:
		m.msg = ""
	case ProfileSavedMsg:
		m.busy = false
		if msg.err != "" {
			m.msg = msg.err
			return m, message.SendTimedMessage(message.ResetMsg{}, 5*time.Second)
		}
		return InitialProfileModel(m.sess, m.client), nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			return InitialProfileModel(m.sess, m.client), nil
		case "down", "tab":
			m.setFocus(m.focus + 1)
		case "up", "shift+tab":
			m.setFocus(m.focus - 1)
		case "ctrl+s":
			if m.busy {
				break
			}
			m.busy = true
			m.msg = ""
			in := api.ProfileInput{
				FirstName:   m.first.Value(),
				LastName:    m.last.Value(),
				Description: m.description.Value(),
				ImagePath:   m.imagePath.Value(),
			}
			return m, saveProfileCmd(m.sess, m.client, in)
		}
	}

	return m, tea.Batch(cmds[0], cmds[1], cmds[2], cmds[3])
}

func (m EditProfilePage) View() string {
	s := "Edit profile\n\n"

	s += m.first.View() + "\n"
	s += m.last.View() + "\n"
	s += m.description.View() + "\n"
	s += m.imagePath.View() + "\n\n"

	lines := 9

	if m.busy {
		lines += 2
		s += "Saving...\n\n"
	}
	if m.msg != "" {
		lines += 2
		s += "Info: " + m.msg + "\n\n"
	}

	s += "'ctrl+s' to save, 'esc' to cancel\n\n"

	return padToBottom(s, lines)
}
