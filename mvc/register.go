package mvc

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-playground/validator/v10"

	"github.com/Qoldo3/Django/api"
	"github.com/Qoldo3/Django/message"
	"github.com/Qoldo3/Django/session"
)

var validate = validator.New()

// registerForm is checked locally before any request goes out, so the
// obvious mistakes never reach the server.
type registerForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
	Confirm  string `validate:"required,eqfield=Password"`
}

func (f registerForm) check() string {
	err := validate.Struct(f)
	if err == nil {
		return ""
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return "Invalid input"
	}

	lines := make([]string, 0, len(errs))
	for _, fe := range errs {
		switch {
		case fe.Field() == "Email":
			lines = append(lines, "email: enter a valid email address")
		case fe.Field() == "Password" && fe.Tag() == "min":
			lines = append(lines, "password: must be at least 8 characters")
		case fe.Field() == "Confirm" && fe.Tag() == "eqfield":
			lines = append(lines, "password: passwords do not match")
		default:
			lines = append(lines, strings.ToLower(fe.Field())+": required")
		}
	}
	return strings.Join(lines, "\n")
}

type RegisterResultMsg session.Result

type RegisterPage struct {
	email    textinput.Model
	password textinput.Model
	confirm  textinput.Model
	focus    int
	msg      string
	busy     bool

	sess   *session.Session
	client *api.Client
}

func InitialRegisterModel(sess *session.Session, client *api.Client) RegisterPage {
	m := RegisterPage{}
	m.sess = sess
	m.client = client

	m.email = textinput.New()
	m.email.Placeholder = "Email"
	m.email.Focus()

	m.password = textinput.New()
	m.password.Placeholder = "Password"
	m.password.EchoMode = textinput.EchoPassword

	m.confirm = textinput.New()
	m.confirm.Placeholder = "Confirm password"
	m.confirm.EchoMode = textinput.EchoPassword

	return m
}

func (m RegisterPage) Init() tea.Cmd {
	return textinput.Blink
}

// registerCmd chains straight into login on success, so the outcome
// message is the login outcome when registration went through.
func registerCmd(sess *session.Session, email, password, confirm string) tea.Cmd {
	return func() tea.Msg {
		return RegisterResultMsg(sess.Register(context.Background(), email, password, confirm))
	}
}

func (m *RegisterPage) setFocus(i int) {
	inputs := []*textinput.Model{&m.email, &m.password, &m.confirm}
	m.focus = (i + len(inputs)) % len(inputs)
	for j, input := range inputs {
		if j == m.focus {
			input.Focus()
		} else {
			input.Blur()
		}
	}
}

func (m RegisterPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		emailCmd   tea.Cmd
		passCmd    tea.Cmd
		confirmCmd tea.Cmd
	)
	m.email, emailCmd = m.email.Update(msg)
	m.password, passCmd = m.password.Update(msg)
	m.confirm, confirmCmd = m.confirm.Update(msg)

	switch msg := msg.(type) {
	case message.SessionExpired:
		return InitialHomeModel(m.sess, m.client), nil
	case RegisterResultMsg:
		m.busy = false
		if msg.OK {
			return InitialHomeModel(m.sess, m.client), nil
		}
		m.msg = msg.Err
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "down", "tab":
			m.setFocus(m.focus + 1)
		case "up", "shift+tab":
			m.setFocus(m.focus - 1)
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			return InitialHomeModel(m.sess, m.client), nil
		case "enter":
			if m.busy {
				break
			}
			form := registerForm{
				Email:    m.email.Value(),
				Password: m.password.Value(),
				Confirm:  m.confirm.Value(),
			}
			if problems := form.check(); problems != "" {
				m.msg = problems
				break
			}
			m.busy = true
			m.msg = ""
			return m, registerCmd(m.sess, form.Email, form.Password, form.Confirm)
		}
	}
	return m, tea.Batch(emailCmd, passCmd, confirmCmd)
}

func (m RegisterPage) View() string {
	s := "Register\n\n"

	s += m.email.View() + "\n"
	s += m.password.View() + "\n"
	s += m.confirm.View() + "\n\n"

	lines := 8

	if m.busy {
		lines += 2
		s += "Registering...\n\n"
	}
	if m.msg != "" {
		extra := strings.Count(m.msg, "\n") + 1
		lines += extra + 1
		s += "Info: " + m.msg + "\n\n"
	}

	s += "'enter' to register, 'esc' to go back\n\n"

	return padToBottom(s, lines)
}
