package mvc

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Qoldo3/Django/api"
	"github.com/Qoldo3/Django/message"
	"github.com/Qoldo3/Django/model"
	"github.com/Qoldo3/Django/session"
)

// searchDebounce is how long the search box must stay quiet before a
// request goes out.
const searchDebounce = 300 * time.Millisecond

type PostsMsg struct {
	page model.PostPage
	err  string
}

type CategoriesMsg []model.Category

// searchDebounceMsg carries the sequence number of the timer that
// scheduled it. A newer keystroke bumps the sequence, so stale timers
// arrive, compare and die without issuing a request. In-flight requests
// are never aborted, only superseded timers are.
type searchDebounceMsg struct{ seq int }

type PostsPage struct {
	searchBar  textinput.Model
	page       model.PostPage
	categories []model.Category
	catIndex   int // -1 means every category
	curPage    int
	cursor     int // -1 means the search bar has focus
	msg        string
	loading    bool
	searchSeq  int

	sess   *session.Session
	client *api.Client
}

func InitialPostsPageModel(sess *session.Session, client *api.Client) PostsPage {
	m := PostsPage{}
	m.sess = sess
	m.client = client

	m.searchBar = textinput.New()
	m.searchBar.Placeholder = "Search posts..."
	m.searchBar.Focus()

	m.catIndex = -1
	m.curPage = 1
	m.cursor = -1
	m.loading = true
	m.page.TotalPages = 1

	return m
}

func (m PostsPage) Init() tea.Cmd {
	return textinput.Blink
}

// reload fetches the current page plus the category list; used when the
// page is first opened.
func (m PostsPage) reload() tea.Cmd {
	return tea.Batch(
		fetchPostsCmd(m.client, m.curPage, m.searchBar.Value(), m.categoryName()),
		fetchCategoriesCmd(m.client),
	)
}

func (m PostsPage) categoryName() string {
	if m.catIndex < 0 || m.catIndex >= len(m.categories) {
		return ""
	}
	return m.categories[m.catIndex].Name
}

func fetchPostsCmd(client *api.Client, page int, search, category string) tea.Cmd {
	return func() tea.Msg {
		result, err := client.ListPosts(context.Background(), page, search, category)
		if err != nil {
			if api.IsUnauthorized(err) {
				// The transport layer already reset the session.
				return nil
			}
			return PostsMsg{err: err.Error()}
		}
		return PostsMsg{page: result}
	}
}

func fetchCategoriesCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		return CategoriesMsg(client.FetchCategories(context.Background()))
	}
}

func (m PostsPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 3)

	before := m.searchBar.Value()
	var searchCmd tea.Cmd
	m.searchBar, searchCmd = m.searchBar.Update(msg)
	cmds = append(cmds, searchCmd)

	if m.searchBar.Value() != before {
		// Replace whatever timer is pending; filters also reset paging.
		m.searchSeq++
		m.curPage = 1
		cmds = append(cmds, message.SendTimedMessage(searchDebounceMsg{m.searchSeq}, searchDebounce))
	}

	switch msg := msg.(type) {
	case message.SessionExpired:
		return InitialHomeModel(m.sess, m.client), nil
	case message.ResetMsg:
		m.msg = ""
	case searchDebounceMsg:
		if msg.seq != m.searchSeq {
			break
		}
		m.loading = true
		cmds = append(cmds, fetchPostsCmd(m.client, m.curPage, m.searchBar.Value(), m.categoryName()))
	case PostsMsg:
		m.loading = false
		if msg.err != "" {
			m.msg = msg.err
			cmds = append(cmds, message.SendTimedMessage(message.ResetMsg{}, 5*time.Second))
			break
		}
		m.page = msg.page
		if m.cursor >= len(m.page.Items) {
			m.cursor = len(m.page.Items) - 1
		}
	case CategoriesMsg:
		m.categories = msg
		if m.catIndex >= len(m.categories) {
			m.catIndex = -1
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			return InitialHomeModel(m.sess, m.client), nil
		case "down":
			if m.cursor < len(m.page.Items)-1 {
				m.cursor++
			}
			if m.cursor != -1 {
				m.searchBar.Blur()
			}
		case "up":
			if m.cursor >= 0 {
				m.cursor--
			}
			if m.cursor == -1 {
				m.searchBar.Focus()
			}
		case "tab":
			m.catIndex++
			if m.catIndex >= len(m.categories) {
				m.catIndex = -1
			}
			m.curPage = 1
			m.searchSeq++ // cancel any pending search timer, this fetch wins
			m.loading = true
			cmds = append(cmds, fetchPostsCmd(m.client, m.curPage, m.searchBar.Value(), m.categoryName()))
		case "pgdown":
			if m.curPage < m.page.TotalPages {
				m.curPage++
				m.loading = true
				cmds = append(cmds, fetchPostsCmd(m.client, m.curPage, m.searchBar.Value(), m.categoryName()))
			}
		case "pgup":
			if m.curPage > 1 {
				m.curPage--
				m.loading = true
				cmds = append(cmds, fetchPostsCmd(m.client, m.curPage, m.searchBar.Value(), m.categoryName()))
			}
		case "enter":
			if m.cursor == -1 {
				m.searchSeq++
				m.curPage = 1
				m.loading = true
				cmds = append(cmds, fetchPostsCmd(m.client, m.curPage, m.searchBar.Value(), m.categoryName()))
				break
			}
			if m.cursor < len(m.page.Items) {
				id := m.page.Items[m.cursor].ID
				page := InitialPostDetailModel(m.sess, m.client, id)
				return page, fetchPostCmd(m.client, id)
			}
		}
	}

	return m, tea.Batch(cmds...)
}

func postLine(p model.Post) string {
	line := "@" + authorStyle.Render(model.User{
		Email:     p.Author.Email,
		FirstName: p.Author.FirstName,
		LastName:  p.Author.LastName,
	}.DisplayName())
	if p.Category != nil {
		line += fmt.Sprintf(" [%s]", categoryStyle.Render(p.Category.Name))
	}
	if len(p.PublishedDate) >= 10 {
		line += faintStyle.Render("  " + p.PublishedDate[:10])
	}
	return line
}

func snippet(p model.Post) string {
	text := p.Snippet
	if text == "" {
		text = p.Content
	}
	text = plainText(text)
	if runes := []rune(text); len(runes) > 80 {
		text = string(runes[:80]) + "..."
	}
	return text
}

func (m PostsPage) View() string {
	s := "Posts\n\n"

	s += m.searchBar.View() + "\n"

	catLine := "Category: "
	if m.catIndex == -1 {
		catLine += cursorStyle.Render("all")
	} else {
		catLine += "all"
	}
	for i, c := range m.categories {
		if i == m.catIndex {
			catLine += " | " + cursorStyle.Render(c.Name)
		} else {
			catLine += " | " + c.Name
		}
	}
	s += catLine + "\n"

	s += "_________________________\n"
	if m.loading {
		s += "Loading posts...\n"
	} else if len(m.page.Items) == 0 {
		s += "No posts found\n"
	}
	for i, p := range m.page.Items {
		title := p.Title
		if i == m.cursor {
			title = cursorStyle.Render(title)
		}
		s += title + "\n"
		s += "  " + postLine(p) + "\n"
		s += "  " + faintStyle.Render(snippet(p)) + "\n"
	}
	s += "‾‾‾‾‾‾‾‾‾‾‾‾‾‾‾‾‾‾‾‾‾‾‾‾‾\n"

	if m.page.TotalCount > 0 {
		s += fmt.Sprintf("Page %d of %d (%d posts)\n\n", m.curPage, m.page.TotalPages, m.page.TotalCount)
	} else {
		s += fmt.Sprintf("Page %d of %d\n\n", m.curPage, m.page.TotalPages)
	}

	s += "'enter' to open, 'tab' to change category, 'pgup/pgdn' to change page, 'esc' to go back\n\n"

	if m.msg != "" {
		s += fmt.Sprintf("Info: %s\n\n", m.msg)
	}

	return s
}
