package feed

import (
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/drobledo/pulso-cli/internal/application"
	"github.com/drobledo/pulso-cli/internal/domain"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

type model struct {
	render func(styles) string
	styles styles
	output string
}

func newModel(render func(styles) string) model {
	return model{render: render, styles: newStyles()}
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		m.output = m.render(m.styles)
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	return m.output
}

func runRender(render func(styles) string) (string, error) {
	p := tea.NewProgram(
		newModel(render),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}

// Render produces the styled feed view, including the stale-snapshot
// warning when the page was served from the local cache.
func Render(page application.FeedPage, opts RenderOptions) (string, error) {
	return runRender(func(s styles) string {
		return renderFeed(page, opts, s)
	})
}

// RenderComments produces the styled comment thread for one tweet.
func RenderComments(tweet *domain.Tweet, comments []domain.Comment, opts RenderOptions) (string, error) {
	return runRender(func(s styles) string {
		return renderComments(tweet, comments, opts, s)
	})
}

// RenderProfile produces the styled profile card.
func RenderProfile(user domain.User, tweets []domain.Tweet, opts RenderOptions) (string, error) {
	return runRender(func(s styles) string {
		return renderProfile(user, tweets, opts, s)
	})
}
