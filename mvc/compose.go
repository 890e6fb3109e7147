package mvc

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Qoldo3/Django/api"
	"github.com/Qoldo3/Django/message"
	"github.com/Qoldo3/Django/model"
	"github.com/Qoldo3/Django/session"
)

type EditPostLoadedMsg struct {
	post model.Post
	err  string
}

type PostSavedMsg struct {
	post model.Post
	err  string
}

// ComposePage writes a post, either from scratch or editing an existing
// one. In edit mode the post and the category list are fetched by two
// independent commands with no ordering guarantee between them, so both
// arrival orders are handled.
type ComposePage struct {
	editing bool
	postID  int
	waiting bool // edit mode, post not loaded yet

	title      textinput.Model
	content    textarea.Model
	categories []model.Category
	catIndex   int // -1 means no category
	pendingCat int // category id to select once the list arrives
	focus      int // 0 title, 1 content
	msg        string
	busy       bool

	sess   *session.Session
	client *api.Client
}

func newComposePage(sess *session.Session, client *api.Client) ComposePage {
	m := ComposePage{}
	m.sess = sess
	m.client = client

	m.title = textinput.New()
	m.title.Placeholder = "Title"
	m.title.Focus()

	m.content = textarea.New()
	m.content.Placeholder = "Write your post..."
	m.content.Prompt = "┃ "
	m.content.ShowLineNumbers = false
	m.content.SetHeight(10)
	m.content.SetWidth(80)
	m.content.FocusedStyle.CursorLine = lipgloss.NewStyle()

	m.catIndex = -1

	return m
}

func InitialComposeModel(sess *session.Session, client *api.Client) ComposePage {
	return newComposePage(sess, client)
}

func InitialEditPostModel(sess *session.Session, client *api.Client, id int) ComposePage {
	m := newComposePage(sess, client)
	m.editing = true
	m.postID = id
	m.waiting = true
	return m
}

// load kicks off the edit-mode fetches: the post and the categories, in
// parallel.
func (m ComposePage) load() tea.Cmd {
	return tea.Batch(loadEditPostCmd(m.client, m.postID), fetchCategoriesCmd(m.client))
}

func (m ComposePage) Init() tea.Cmd {
	return textinput.Blink
}

func loadEditPostCmd(client *api.Client, id int) tea.Cmd {
	return func() tea.Msg {
		post, err := client.GetPost(context.Background(), id)
		if err != nil {
			if api.IsUnauthorized(err) {
				return nil
			}
			return EditPostLoadedMsg{err: err.Error()}
		}
		return EditPostLoadedMsg{post: post}
	}
}

func savePostCmd(client *api.Client, editing bool, id int, in api.PostInput) tea.Cmd {
	return func() tea.Msg {
		var (
			post model.Post
			err  error
		)
		if editing {
			post, err = client.UpdatePost(context.Background(), id, in)
		} else {
			post, err = client.CreatePost(context.Background(), in)
		}
		if err != nil {
			if api.IsUnauthorized(err) {
				return nil
			}
			return PostSavedMsg{err: err.Error()}
		}
		return PostSavedMsg{post: post}
	}
}

func (m *ComposePage) selectCategoryByID(id int) {
	m.catIndex = -1
	for i, c := range m.categories {
		if c.ID == id {
			m.catIndex = i
			return
		}
	}
	// List not here yet; resolve when it arrives.
	m.pendingCat = id
}

func (m ComposePage) categoryID() int {
	if m.catIndex < 0 || m.catIndex >= len(m.categories) {
		return 0
	}
	return m.categories[m.catIndex].ID
}

func (m ComposePage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The inputs bind ctrl+k to delete-to-end-of-line, so the category
	// cycle key must never reach them.
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "ctrl+k" {
		m.catIndex++
		if m.catIndex >= len(m.categories) {
			m.catIndex = -1
		}
		return m, nil
	}

	var (
		titleCmd   tea.Cmd
		contentCmd tea.Cmd
	)
	m.title, titleCmd = m.title.Update(msg)
	m.content, contentCmd = m.content.Update(msg)

	switch msg := msg.(type) {
	case message.SessionExpired:
		return InitialHomeModel(m.sess, m.client), nil
	case message.ResetMsg:
		m.msg = ""
	case EditPostLoadedMsg:
		if msg.err != "" {
			m.msg = msg.err
			m.waiting = false
			return m, message.SendTimedMessage(message.ResetMsg{}, 5*time.Second)
		}
		// Not our post: redirect away instead of rendering the editor.
		user := m.sess.User()
		if user == nil || msg.post.Author.ID != user.ID {
			return InitialHomeModel(m.sess, m.client), nil
		}
		m.waiting = false
		m.title.SetValue(msg.post.Title)
		m.content.SetValue(msg.post.Content)
		if msg.post.Category != nil {
			m.selectCategoryByID(msg.post.Category.ID)
		}
	case CategoriesMsg:
		m.categories = msg
		if m.pendingCat != 0 {
			id := m.pendingCat
			m.pendingCat = 0
			m.selectCategoryByID(id)
		}
	case PostSavedMsg:
		m.busy = false
		if msg.err != "" {
			m.msg = msg.err
			return m, message.SendTimedMessage(message.ResetMsg{}, 5*time.Second)
		}
		return InitialMyPostsModel(m.sess, m.client), fetchMyPostsCmd(m.sess, m.client)
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			return InitialHomeModel(m.sess, m.client), nil
		case "tab", "shift+tab":
			if m.focus == 0 {
				m.focus = 1
				m.title.Blur()
				m.content.Focus()
			} else {
				m.focus = 0
				m.content.Blur()
				m.title.Focus()
			}
		case "ctrl+s":
			if m.busy || m.waiting {
				break
			}
			if strings.TrimSpace(m.title.Value()) == "" || strings.TrimSpace(m.content.Value()) == "" {
				m.msg = "Title and content must not be empty"
				break
			}
			m.busy = true
			m.msg = ""
			in := api.PostInput{
				Title:      m.title.Value(),
				Content:    m.content.Value(),
				CategoryID: m.categoryID(),
			}
			return m, savePostCmd(m.client, m.editing, m.postID, in)
		}
	}

	return m, tea.Batch(titleCmd, contentCmd)
}

func (m ComposePage) View() string {
	var s string
	if m.editing {
		s = "Edit post\n\n"
	} else {
		s = "New post\n\n"
	}

	if m.waiting {
		s += "Loading post...\n\n"
		if m.msg != "" {
			s += fmt.Sprintf("Info: %s\n\n", m.msg)
		}
		s += "'esc' to go back\n\n"
		return s
	}

	s += m.title.View() + "\n"

	catLine := "Category: "
	if m.catIndex == -1 {
		catLine += "none"
	} else {
		catLine += categoryStyle.Render(m.categories[m.catIndex].Name)
	}
	s += catLine + "\n\n"

	s += m.content.View() + "\n\n"

	if m.busy {
		s += "Saving...\n\n"
	}
	if m.msg != "" {
		s += fmt.Sprintf("Info: %s\n\n", m.msg)
	}

	s += "'ctrl+s' to save, 'tab' to switch field, 'ctrl+k' to change category, 'esc' to cancel\n\n"

	return s
}
