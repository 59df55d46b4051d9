// Package debugger implements an interactive bubbletea TUI for stepping a
// CPU one instruction at a time, inspecting registers, flags, and a page of
// memory around the program counter.
package debugger

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"lr35902/internal/cpu"
	"lr35902/internal/opcode"
)

type model struct {
	cpu    *cpu.CPU
	offset uint16 // base address the page table renders around

	prevPC uint16
	err    error
}

// Init loads nothing by itself: the caller is expected to have already
// written a program onto the CPU's bus and positioned PC before calling Run.
func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "j":
			m.prevPC = m.cpu.PC
			if err := m.cpu.Step(); err != nil {
				m.err = err
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m model) renderPage(start uint16) string {
	s := fmt.Sprintf("%04x | ", start)
	for i := 0; i < 16; i++ {
		addr := start + uint16(i)
		b := m.cpu.Bus.ReadByte(addr)
		if addr == m.cpu.PC {
			s += fmt.Sprintf("[%02x] ", b)
		} else {
			s += fmt.Sprintf(" %02x  ", b)
		}
	}
	return s
}

func (m model) status() string {
	var flags string
	for _, flag := range []bool{m.cpu.F.Z, m.cpu.F.N, m.cpu.F.H, m.cpu.F.C} {
		if flag {
			flags += "/ "
		} else {
			flags += "  "
		}
	}
	return fmt.Sprintf(`
PC: %04x (%04x)
SP: %04x
 A: %02x   F: %02x
 B: %02x   C: %02x
 D: %02x   E: %02x
 H: %02x   L: %02x
IME: %v  HALT: %v
Z N H C
`,
		m.cpu.PC, m.prevPC,
		m.cpu.SP,
		m.cpu.A, m.cpu.F.Pack(),
		m.cpu.B, m.cpu.C,
		m.cpu.D, m.cpu.E,
		m.cpu.H, m.cpu.L,
		m.cpu.IME, m.cpu.Halted,
	) + flags
}

func (m model) pageTable() string {
	header := "page | "
	for b := 0; b < 16; b++ {
		header += fmt.Sprintf("  %01x  ", b)
	}
	pages := []string{header}

	base := (m.cpu.PC / 16) * 16
	for i := -2; i <= 2; i++ {
		pages = append(pages, m.renderPage(uint16(int32(base)+int32(i)*16)))
	}
	return strings.Join(pages, "\n")
}

func (m model) View() string {
	instr, _ := opcode.Decode(m.cpu.Bus.ReadByte(m.cpu.PC), false)
	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.pageTable(),
			m.status(),
		),
		"",
		spew.Sdump(instr),
	)
}

// Run starts the interactive TUI against c, which must already have its bus
// loaded and PC positioned. It blocks until the user quits or Step returns an
// error, at which point it reports the error to stdout.
func Run(c *cpu.CPU) error {
	m, err := tea.NewProgram(model{cpu: c}).Run()
	if err != nil {
		return err
	}
	if x, ok := m.(model); ok && x.err != nil {
		fmt.Println("stopped:", x.err)
	}
	return nil
}
