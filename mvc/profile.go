package mvc

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Qoldo3/Django/api"
	"github.com/Qoldo3/Django/message"
	"github.com/Qoldo3/Django/session"
)

type ProfilePage struct {
	sess   *session.Session
	client *api.Client
}

func InitialProfileModel(sess *session.Session, client *api.Client) ProfilePage {
	return ProfilePage{sess: sess, client: client}
}

func (m ProfilePage) Init() tea.Cmd {
	return nil
}

func (m ProfilePage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case message.SessionExpired:
		return InitialHomeModel(m.sess, m.client), nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc", "left":
			return InitialHomeModel(m.sess, m.client), nil
		case "e":
			return InitialEditProfileModel(m.sess, m.client), nil
		}
	}
	return m, nil
}

func (m ProfilePage) View() string {
	user := m.sess.User()
	if user == nil {
		return "Not logged in\n\n'esc' to go back\n\n"
	}

	s := "Profile\n\n"
	s += fmt.Sprintf("Name:        %s\n", user.DisplayName())
	s += fmt.Sprintf("Email:       %s\n", user.Email)
	if user.Description != "" {
		s += fmt.Sprintf("About:       %s\n", user.Description)
	}
	if user.Image != "" {
		s += fmt.Sprintf("Avatar:      %s\n", user.Image)
	}
	if user.CreatedDate != "" {
		s += fmt.Sprintf("Joined:      %s\n", user.CreatedDate)
	}
	s += fmt.Sprintf("Posts:       %d\n", user.PostsCount)

	if exp, ok := m.sess.TokenExpiry(); ok {
		s += fmt.Sprintf("\nSession expires %s\n", exp.Format("2006-01-02 15:04"))
	}

	s += "\n'e' to edit, 'esc' to go back\n\n"

	return s
}
