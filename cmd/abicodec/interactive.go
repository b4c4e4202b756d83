package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wippyai/vm-abi/abijson"
	"github.com/wippyai/vm-abi/transcoder"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

var errNotTerminal = errors.New("interactive mode requires a terminal")

func (a *app) interactiveCmd() *cobra.Command {
	var abiPath string

	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Browse functions and build call data in a terminal UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return errNotTerminal
			}
			p := tea.NewProgram(newInteractiveModel(abiPath, a.offset(cmd, "offset")), tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&abiPath, "abi", "", "Path to the JSON program interface")
	cmd.Flags().Uint64("offset", 0, "Address the arguments are resolved at")
	_ = cmd.MarkFlagRequired("abi")
	return cmd
}

type interactiveModel struct {
	err      error
	filename string
	result   string
	funcs    []funcInfo
	inputs   []textinput.Model
	offset   uint64
	selected int
	focusIdx int
	state    modelState
}

type funcInfo struct {
	fn         *abijson.Function
	resultType string
	params     []paramInfo
}

type paramInfo struct {
	name    string
	typeStr string
}

type modelState int

const (
	stateSelectFunc modelState = iota
	stateInputArgs
	stateShowResult
)

func newInteractiveModel(filename string, offset uint64) *interactiveModel {
	return &interactiveModel{
		filename: filename,
		offset:   offset,
		state:    stateSelectFunc,
	}
}

type loadedMsg struct {
	err   error
	funcs []funcInfo
}

type callResultMsg struct {
	err    error
	result string
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadProgram
}

func (m *interactiveModel) loadProgram() tea.Msg {
	prog, err := abijson.Load(m.filename)
	if err != nil {
		return loadedMsg{err: err}
	}

	var funcs []funcInfo
	for _, fn := range prog.Functions() {
		inputs, err := fn.Inputs()
		if err != nil {
			return loadedMsg{err: err}
		}
		fi := funcInfo{fn: fn}
		names := fn.InputNames()
		for i, in := range inputs {
			pname := fmt.Sprintf("arg%d", i)
			if names[i] != "" {
				pname = names[i]
			}
			fi.params = append(fi.params, paramInfo{name: pname, typeStr: in.String()})
		}
		if out, err := fn.Output(); err == nil && out.Kind != transcoder.KindUnit {
			fi.resultType = out.String()
		}
		funcs = append(funcs, fi)
	}
	if len(funcs) == 0 {
		return loadedMsg{err: fmt.Errorf("%s declares no functions", m.filename)}
	}
	return loadedMsg{funcs: funcs}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateInputArgs {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectFunc && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectFunc && m.selected < len(m.funcs)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectFunc:
				if len(m.funcs) == 0 {
					return m, nil
				}
				m.prepareInputs()
				if len(m.inputs) == 0 {
					return m, m.buildCall
				}
				m.state = stateInputArgs
				return m, nil

			case stateInputArgs:
				return m, m.buildCall

			case stateShowResult:
				m.state = stateSelectFunc
				m.result = ""
				m.err = nil
			}

		case "tab":
			if m.state == stateInputArgs && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateInputArgs:
				m.state = stateSelectFunc
				m.inputs = nil
			case stateShowResult:
				m.state = stateSelectFunc
				m.result = ""
				m.err = nil
			}
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.funcs = msg.funcs

	case callResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputArgs {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *interactiveModel) prepareInputs() {
	f := m.funcs[m.selected]
	m.inputs = make([]textinput.Model, len(f.params))
	for i, p := range f.params {
		ti := textinput.New()
		ti.Placeholder = p.typeStr
		ti.Prompt = p.name + ": "
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

func (m *interactiveModel) buildCall() tea.Msg {
	f := m.funcs[m.selected]
	argv := make([]string, len(m.inputs))
	for i, input := range m.inputs {
		argv[i] = input.Value()
	}

	c, err := buildCall(f.fn, argv, m.offset)
	if err != nil {
		return callResultMsg{err: err}
	}
	return callResultMsg{result: fmt.Sprintf("signature %s\nselector  0x%x\ncall data %s", c.Signature, c.Selector, c.Hex())}
}

func (m *interactiveModel) View() string {
	if m.err != nil && m.state != stateShowResult {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if len(m.funcs) == 0 {
		return "Loading program interface..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("ABI Codec"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectFunc:
		b.WriteString("Select a function:\n\n")
		for i, f := range m.funcs {
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + m.formatFunc(f)))
			} else {
				b.WriteString("  " + m.formatFunc(f))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter encode • q quit"))

	case stateInputArgs:
		f := m.funcs[m.selected]
		b.WriteString(fmt.Sprintf("Encoding %s\n\n", funcStyle.Render(f.fn.Name)))
		for i, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString(" ")
			b.WriteString(typeStyle.Render(f.params[i].typeStr))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter encode • esc back"))

	case stateShowResult:
		f := m.funcs[m.selected]
		b.WriteString(fmt.Sprintf("Call to %s:\n\n", funcStyle.Render(f.fn.Name)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) formatFunc(f funcInfo) string {
	var params []string
	for _, p := range f.params {
		params = append(params, p.name+": "+typeStyle.Render(p.typeStr))
	}
	result := ""
	if f.resultType != "" {
		result = " -> " + typeStyle.Render(f.resultType)
	}
	return funcStyle.Render(f.fn.Name) + "(" + strings.Join(params, ", ") + ")" + result
}
