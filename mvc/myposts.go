package mvc

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Qoldo3/Django/api"
	"github.com/Qoldo3/Django/message"
	"github.com/Qoldo3/Django/model"
	"github.com/Qoldo3/Django/session"
)

type MyPostsMsg struct {
	posts []model.Post
	err   string
}

type MyPostsPage struct {
	posts   []model.Post
	cursor  int
	confirm bool
	loading bool
	msg     string

	sess   *session.Session
	client *api.Client
}

func InitialMyPostsModel(sess *session.Session, client *api.Client) MyPostsPage {
	m := MyPostsPage{}
	m.sess = sess
	m.client = client
	m.loading = true
	return m
}

// fetchMyPostsCmd lists posts and keeps only the caller's. The server has
// no author filter, so the narrowing happens client-side.
func fetchMyPostsCmd(sess *session.Session, client *api.Client) tea.Cmd {
	return func() tea.Msg {
		user := sess.User()
		if user == nil {
			return MyPostsMsg{}
		}

		page, err := client.ListPosts(context.Background(), 1, "", "")
		if err != nil {
			if api.IsUnauthorized(err) {
				return nil
			}
			return MyPostsMsg{err: err.Error()}
		}

		mine := make([]model.Post, 0, len(page.Items))
		for _, p := range page.Items {
			if p.Author.ID == user.ID {
				mine = append(mine, p)
			}
		}
		return MyPostsMsg{posts: mine}
	}
}

func (m MyPostsPage) Init() tea.Cmd {
	return nil
}

func (m MyPostsPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case message.SessionExpired:
		return InitialHomeModel(m.sess, m.client), nil
	case message.ResetMsg:
		m.msg = ""
	case MyPostsMsg:
		m.loading = false
		if msg.err != "" {
			m.msg = msg.err
			return m, message.SendTimedMessage(message.ResetMsg{}, 5*time.Second)
		}
		m.posts = msg.posts
		if m.cursor >= len(m.posts) {
			m.cursor = len(m.posts) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
	case PostDeletedMsg:
		if msg.err != "" {
			m.msg = msg.err
			return m, message.SendTimedMessage(message.ResetMsg{}, 5*time.Second)
		}
		kept := make([]model.Post, 0, len(m.posts))
		for _, p := range m.posts {
			if p.ID != msg.id {
				kept = append(kept, p)
			}
		}
		m.posts = kept
		if m.cursor >= len(m.posts) && m.cursor > 0 {
			m.cursor--
		}
		m.msg = "Post deleted"
		return m, message.SendTimedMessage(message.ResetMsg{}, 5*time.Second)
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc", "left":
			return InitialHomeModel(m.sess, m.client), nil
		case "down":
			if m.cursor < len(m.posts)-1 {
				m.cursor++
			}
		case "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "enter", "right":
			if len(m.posts) > 0 {
				id := m.posts[m.cursor].ID
				page := InitialPostDetailModel(m.sess, m.client, id)
				return page, fetchPostCmd(m.client, id)
			}
		case "e":
			if len(m.posts) > 0 {
				page := InitialEditPostModel(m.sess, m.client, m.posts[m.cursor].ID)
				return page, page.load()
			}
		case "d":
			if len(m.posts) > 0 {
				m.confirm = true
			}
		case "y":
			if m.confirm {
				m.confirm = false
				return m, deletePostCmd(m.client, m.posts[m.cursor].ID)
			}
		case "n":
			m.confirm = false
		}
	}
	return m, nil
}

func (m MyPostsPage) View() string {
	s := "My posts\n\n"

	s += "_________________________\n"
	if m.loading {
		s += "Loading posts...\n"
	} else if len(m.posts) == 0 {
		s += "You have no posts yet\n"
	}
	for i, p := range m.posts {
		title := p.Title
		if i == m.cursor {
			title = cursorStyle.Render(title)
		}
		s += title + "\n"
		s += "  " + postLine(p) + "\n"
	}
	s += "‾‾‾‾‾‾‾‾‾‾‾‾‾‾‾‾‾‾‾‾‾‾‾‾‾\n\n"

	if m.confirm {
		s += "Delete this post? 'y' to confirm, 'n' to keep it\n\n"
	} else {
		s += "'enter' to open, 'e' to edit, 'd' to delete, 'esc' to go back\n\n"
	}

	if m.msg != "" {
		s += fmt.Sprintf("Info: %s\n\n", m.msg)
	}

	return s
}
