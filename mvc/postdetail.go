package mvc

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Qoldo3/Django/api"
	"github.com/Qoldo3/Django/message"
	"github.com/Qoldo3/Django/model"
	"github.com/Qoldo3/Django/session"
)

type PostLoadedMsg struct {
	post model.Post
	err  string
}

type PostDeletedMsg struct {
	id  int
	err string
}

type PostDetailPage struct {
	id       int
	post     model.Post
	loaded   bool
	viewport viewport.Model
	confirm  bool
	msg      string

	sess   *session.Session
	client *api.Client
}

func InitialPostDetailModel(sess *session.Session, client *api.Client, id int) PostDetailPage {
	m := PostDetailPage{}
	m.sess = sess
	m.client = client
	m.id = id

	m.viewport = viewport.New(80, 12)

	return m
}

func (m PostDetailPage) Init() tea.Cmd {
	return nil
}

func fetchPostCmd(client *api.Client, id int) tea.Cmd {
	return func() tea.Msg {
		post, err := client.GetPost(context.Background(), id)
		if err != nil {
			if api.IsUnauthorized(err) {
				return nil
			}
			return PostLoadedMsg{err: err.Error()}
		}
		return PostLoadedMsg{post: post}
	}
}

func deletePostCmd(client *api.Client, id int) tea.Cmd {
	return func() tea.Msg {
		if err := client.DeletePost(context.Background(), id); err != nil {
			if api.IsUnauthorized(err) {
				return nil
			}
			return PostDeletedMsg{id: id, err: err.Error()}
		}
		return PostDeletedMsg{id: id}
	}
}

// mine reports whether the current user wrote this post. The server
// enforces ownership anyway; this only decides what actions the page
// offers.
func (m PostDetailPage) mine() bool {
	user := m.sess.User()
	return user != nil && m.loaded && m.post.Author.ID == user.ID
}

func (m PostDetailPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var viewportCmd tea.Cmd
	m.viewport, viewportCmd = m.viewport.Update(msg)

	switch msg := msg.(type) {
	case message.SessionExpired:
		return InitialHomeModel(m.sess, m.client), nil
	case message.ResetMsg:
		m.msg = ""
	case PostLoadedMsg:
		if msg.err != "" {
			m.msg = msg.err
			return m, message.SendTimedMessage(message.ResetMsg{}, 5*time.Second)
		}
		m.post = msg.post
		m.loaded = true
		m.viewport.SetContent(wrapWords(plainText(m.post.Content), 76))
		m.viewport.GotoTop()
	case PostDeletedMsg:
		if msg.err != "" {
			m.msg = msg.err
			return m, message.SendTimedMessage(message.ResetMsg{}, 5*time.Second)
		}
		page := InitialPostsPageModel(m.sess, m.client)
		return page, page.reload()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc", "left":
			page := InitialPostsPageModel(m.sess, m.client)
			return page, page.reload()
		case "e":
			if m.mine() {
				page := InitialEditPostModel(m.sess, m.client, m.id)
				return page, page.load()
			}
		case "d":
			if m.mine() {
				m.confirm = true
			}
		case "y":
			if m.confirm {
				m.confirm = false
				return m, deletePostCmd(m.client, m.id)
			}
		case "n":
			m.confirm = false
		}
	}

	return m, viewportCmd
}

func (m PostDetailPage) View() string {
	if !m.loaded {
		s := "Loading post...\n\n"
		if m.msg != "" {
			s += fmt.Sprintf("Info: %s\n\n", m.msg)
		}
		s += "'esc' to go back\n\n"
		return s
	}

	s := m.post.Title + "\n"
	s += postLine(m.post) + "\n"

	s += "_________________________\n"
	s += m.viewport.View() + "\n"
	s += "‾‾‾‾‾‾‾‾‾‾‾‾‾‾‾‾‾‾‾‾‾‾‾‾‾\n\n"

	if m.confirm {
		s += "Delete this post? 'y' to confirm, 'n' to keep it\n\n"
	} else if m.mine() {
		s += "'e' to edit, 'd' to delete, 'esc' to go back\n\n"
	} else {
		s += "'esc' to go back\n\n"
	}

	if m.msg != "" {
		s += fmt.Sprintf("Info: %s\n\n", m.msg)
	}

	return s
}
