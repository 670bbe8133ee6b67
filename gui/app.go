package main

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/mtassembler/imac/asm"
)

// App is the minimal desktop front end: type a source base path (without
// .as), assemble it, and read the resolved symbol table or the diagnostic
// back.
type App struct {
	FyneApp fyne.App
	Window  fyne.Window

	PathEntry   *widget.Entry
	SymbolsView *widget.TextGrid
	DiagView    *widget.TextGrid
	StatusLabel *widget.Label
	Toolbar     *widget.Toolbar

	lastSymbolsText string
	lastDiagText    string
}

// NewApp builds the GUI and wires its toolbar actions.
func NewApp() *App {
	a := &App{
		FyneApp: app.New(),
	}
	a.Window = a.FyneApp.NewWindow("imac")

	a.initializeViews()
	a.setupToolbar()
	a.buildLayout()

	a.Window.Resize(fyne.NewSize(900, 600))
	return a
}

func (a *App) initializeViews() {
	a.PathEntry = widget.NewEntry()
	a.PathEntry.SetPlaceHolder("path/to/program (without .as)")

	a.SymbolsView = widget.NewTextGrid()
	a.lastSymbolsText = "no symbols yet"
	a.SymbolsView.SetText(a.lastSymbolsText)

	a.DiagView = widget.NewTextGrid()
	a.lastDiagText = ""
	a.DiagView.SetText(a.lastDiagText)

	a.StatusLabel = widget.NewLabel("Ready")
}

func (a *App) buildLayout() {
	symbolsPanel := container.NewBorder(
		widget.NewLabel("Symbols"),
		nil, nil, nil,
		container.NewScroll(a.SymbolsView),
	)

	diagPanel := container.NewBorder(
		widget.NewLabel("Diagnostics"),
		nil, nil, nil,
		container.NewScroll(a.DiagView),
	)

	split := container.NewHSplit(symbolsPanel, diagPanel)
	split.SetOffset(0.5)

	top := container.NewBorder(nil, nil, widget.NewLabel("Source base:"), nil, a.PathEntry)

	content := container.NewBorder(
		container.NewVBox(a.Toolbar, top),
		a.StatusLabel,
		nil, nil,
		split,
	)

	a.Window.SetContent(content)
}

func (a *App) setupToolbar() {
	a.Toolbar = widget.NewToolbar(
		widget.NewToolbarAction(theme.ConfirmIcon(), func() {
			a.assemble()
		}),
		widget.NewToolbarAction(theme.ViewRefreshIcon(), func() {
			a.lastSymbolsText = "no symbols yet"
			a.lastDiagText = ""
			a.SymbolsView.SetText(a.lastSymbolsText)
			a.DiagView.SetText(a.lastDiagText)
			a.StatusLabel.SetText("Ready")
		}),
	)
}

// assemble runs the pipeline against the path typed into PathEntry and
// renders the outcome into the two panes.
func (a *App) assemble() {
	base := strings.TrimSpace(a.PathEntry.Text)
	if base == "" {
		dialog.ShowError(fmt.Errorf("enter a source base path first"), a.Window)
		return
	}

	result, err := asm.AssembleFile(base, asm.DefaultOptions())
	if err != nil {
		a.lastDiagText = err.Error()
		a.lastSymbolsText = "no symbols yet"
		a.DiagView.SetText(a.lastDiagText)
		a.SymbolsView.SetText(a.lastSymbolsText)
		a.StatusLabel.SetText("Assembly failed")
		return
	}

	var sb strings.Builder
	for _, sym := range result.Symbols.All() {
		fmt.Fprintf(&sb, "%-20s %-10s %07d\n", sym.Name, sym.Kind, sym.Address)
	}
	if sb.Len() == 0 {
		sb.WriteString("(no symbols)")
	}
	a.lastSymbolsText = sb.String()
	a.lastDiagText = ""
	a.SymbolsView.SetText(a.lastSymbolsText)
	a.DiagView.SetText(a.lastDiagText)
	a.StatusLabel.SetText(fmt.Sprintf("Assembled: %d code word(s), %d data word(s)", len(result.Code), len(result.Data)))
}
