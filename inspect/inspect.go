// Package inspect is a post-assembly symbol and memory browser: a
// three-pane TUI built the same way the source debugger laid out its
// source/register/memory panels, but over a finished firstpass.Result
// instead of a running CPU.
package inspect

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/mtassembler/imac/firstpass"
	"github.com/mtassembler/imac/symtab"
	"github.com/mtassembler/imac/word"
)

// TUI is the inspector's application state.
type TUI struct {
	Result *firstpass.Result
	Base   string

	App  *tview.Application
	Root *tview.Flex

	SymbolView *tview.TextView
	CodeView   *tview.TextView
	DataView   *tview.TextView
}

// New builds an inspector over a completed assembly result.
func New(base string, result *firstpass.Result) *TUI {
	t := &TUI{
		Result: result,
		Base:   base,
		App:    tview.NewApplication(),
	}
	t.initializeViews()
	t.buildLayout()
	t.populate()
	return t
}

func (t *TUI) initializeViews() {
	t.SymbolView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.SymbolView.SetBorder(true).SetTitle(" Symbols ")

	t.CodeView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.CodeView.SetBorder(true).SetTitle(" Code ")

	t.DataView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.DataView.SetBorder(true).SetTitle(" Data ")
}

func (t *TUI) buildLayout() {
	right := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.CodeView, 0, 2, false).
		AddItem(t.DataView, 0, 1, false)

	t.Root = tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.SymbolView, 0, 1, false).
		AddItem(right, 0, 2, false)

	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlC || event.Rune() == 'q' {
			t.App.Stop()
			return nil
		}
		return event
	})
}

func (t *TUI) populate() {
	var symLines []string
	for _, sym := range t.Result.Symbols.All() {
		color := "white"
		switch sym.Kind {
		case symtab.Entry:
			color = "green"
		case symtab.External:
			color = "yellow"
		}
		symLines = append(symLines, fmt.Sprintf("[%s]%-20s %-10s %07d[white]", color, sym.Name, sym.Kind, sym.Address))
	}
	t.SymbolView.SetText(strings.Join(symLines, "\n"))

	var codeLines []string
	for i, cell := range t.Result.Code {
		addr := t.Result.ICStart + i
		line := fmt.Sprintf("%07d  %06x", addr, cell.Value&word.WordMask)
		if cell.Kind == word.InstructionHead {
			fields := word.DecodeInstruction(cell.Value)
			line += fmt.Sprintf("  op=%-2d src=%s(%d) dst=%s(%d) func=%d are=%s len=%d",
				fields.Opcode, fields.SrcMode, fields.SrcReg, fields.DstMode, fields.DstReg, fields.Func, fields.ARE, cell.Length)
		}
		codeLines = append(codeLines, line)
	}
	t.CodeView.SetText(strings.Join(codeLines, "\n"))

	var dataLines []string
	dataStart := t.Result.ICStart + len(t.Result.Code)
	for i, cell := range t.Result.Data {
		addr := dataStart + i
		dataLines = append(dataLines, fmt.Sprintf("%07d  %06x  (%d)", addr, cell.Value&word.WordMask, word.DecodeDataValue(cell.Value)))
	}
	t.DataView.SetText(strings.Join(dataLines, "\n"))
}

// Run starts the TUI event loop.
func (t *TUI) Run() error {
	return t.App.SetRoot(t.Root, true).SetFocus(t.SymbolView).Run()
}
