package terminal

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"

	"github.com/Jelmerro/nus/internal/core"
	"github.com/Jelmerro/nus/internal/ports"
	"github.com/Jelmerro/nus/internal/types"
)

// Prompter runs one bubbletea program per selection. When In is a
// terminal bubbletea puts it in raw mode for the session and restores it
// afterwards.
type Prompter struct {
	In    io.Reader
	Out   io.Writer
	style lipgloss.Style
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		In:    in,
		Out:   out,
		style: lipgloss.NewRenderer(out).NewStyle().Bold(true),
	}
}

// NewTTYPrompter prompts on the given terminal, reading keys from in and
// drawing to out.
func NewTTYPrompter(in *os.File, out io.Writer) *Prompter {
	return NewPrompter(in, out)
}

// IsInteractive reports whether f is attached to a terminal.
func IsInteractive(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *Prompter) Select(ctx context.Context, request types.SelectRequest) (string, error) {
	if len(request.Versions) == 0 {
		return request.Wanted, nil
	}
	selector := core.NewSelector(request.Versions, request.Wanted)
	program := tea.NewProgram(
		newSelectorModel(request.Name, selector, p.style),
		tea.WithContext(ctx),
		tea.WithInput(p.In),
		tea.WithOutput(p.Out),
		tea.WithoutSignalHandler(),
	)
	// Run flushes the final empty view, clearing the prompt line, and then
	// restores the terminal. Nothing is printed between the two.
	final, err := program.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) || ctx.Err() != nil {
			return "", interrupted(err)
		}
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("selector failed").
			WithCause(err)
	}
	model, ok := final.(selectorModel)
	if !ok || model.outcome != core.OutcomeCommit {
		return "", interrupted(nil)
	}
	log.Ctx(ctx).Debug().
		Str("package", request.Name).
		Str("version", selector.Selected()).
		Msg("version selected")
	return selector.Selected(), nil
}

func interrupted(cause error) error {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeCanceled).
		WithMsg("selection interrupted")
	if cause != nil {
		builder = builder.WithCause(cause)
	}
	return builder
}

var _ ports.PrompterPort = (*Prompter)(nil)
