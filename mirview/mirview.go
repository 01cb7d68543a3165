// Package mirview is an interactive TUI that loads a mir.Record, runs
// lower.LowerMir, and lets a user step instruction-by-instruction watching
// position assignment, relocation creation, and patch application live.
// Grounded on debugger/tui.go's panel-based tview.Flex layout, re-panelled
// around the three-pass lowering pipeline instead of a running VM.
package mirview

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/lookbusy1344/arm64cg/lower"
	"github.com/lookbusy1344/arm64cg/mir"
	"github.com/lookbusy1344/arm64cg/mirtools/format"
)

// Viewer is the MIR step-through TUI.
type Viewer struct {
	App  *tview.Application
	rec  *mir.Record
	opts lower.Options

	MainLayout  *tview.Flex
	ListingView *tview.TextView
	WordsView   *tview.TextView
	RelocsView  *tview.TextView
	StatusView  *tview.TextView

	cursor int // MIR index currently highlighted
	result *lower.Result
}

// New constructs a Viewer over rec, immediately running the lowering
// pipeline so the first frame already has words and relocations to show.
func New(rec *mir.Record, opts lower.Options) (*Viewer, error) {
	result, err := lower.LowerMir(rec, opts)
	if err != nil {
		return nil, err
	}

	v := &Viewer{
		App:    tview.NewApplication(),
		rec:    rec,
		opts:   opts,
		result: result,
	}
	v.initializeViews()
	v.buildLayout()
	v.setupKeyBindings()
	v.refresh()
	return v, nil
}

func (v *Viewer) initializeViews() {
	v.ListingView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	v.ListingView.SetBorder(true).SetTitle(" MIR ")

	v.WordsView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	v.WordsView.SetBorder(true).SetTitle(" Words ")

	v.RelocsView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	v.RelocsView.SetBorder(true).SetTitle(" Relocations ")

	v.StatusView = tview.NewTextView().SetDynamicColors(true)
	v.StatusView.SetBorder(true).SetTitle(" Status ")
}

func (v *Viewer) buildLayout() {
	right := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(v.WordsView, 0, 2, false).
		AddItem(v.RelocsView, 0, 1, false)

	content := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(v.ListingView, 0, 2, false).
		AddItem(right, 0, 1, false)

	v.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(content, 0, 4, false).
		AddItem(v.StatusView, 3, 0, false)
}

// setupKeyBindings wires j/k and the arrow keys to step the cursor, and
// q/Ctrl-C to quit, matching debugger/tui.go's global-input-capture style.
func (v *Viewer) setupKeyBindings() {
	v.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch {
		case event.Key() == tcell.KeyDown || event.Rune() == 'j':
			v.step(1)
			return nil
		case event.Key() == tcell.KeyUp || event.Rune() == 'k':
			v.step(-1)
			return nil
		case event.Key() == tcell.KeyCtrlC || event.Rune() == 'q':
			v.App.Stop()
			return nil
		}
		return event
	})
}

func (v *Viewer) step(delta int) {
	next := v.cursor + delta
	if next < 0 {
		next = 0
	}
	if next >= v.rec.Len() {
		next = v.rec.Len() - 1
	}
	v.cursor = next
	v.refresh()
}

// Run starts the event loop. It blocks until the user quits.
func (v *Viewer) Run() error {
	return v.App.SetRoot(v.MainLayout, true).SetFocus(v.MainLayout).Run()
}

// SetScreen overrides the tcell.Screen the underlying tview.Application
// draws to, letting tests drive the Viewer against a simulation screen
// instead of a real terminal.
func (v *Viewer) SetScreen(screen tcell.Screen) {
	v.App.SetScreen(screen)
}

// Cursor returns the MIR index currently highlighted.
func (v *Viewer) Cursor() int { return v.cursor }

func (v *Viewer) refresh() {
	v.updateListing()
	v.updateWords()
	v.updateRelocs()
	v.updateStatus()
}

func (v *Viewer) updateListing() {
	v.ListingView.Clear()
	opts := format.DefaultOptions()
	f := format.NewFormatter(opts)
	lines := strings.Split(f.Format(v.rec), "\n")

	var b strings.Builder
	lineForIdx := 0
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); strings.HasPrefix(trimmed, "L") && strings.HasSuffix(trimmed, ":") {
			// A synthetic "Lnn:" label line; pass through unhighlighted.
			b.WriteString(line)
			b.WriteString("\n")
			continue
		}
		if lineForIdx == v.cursor {
			b.WriteString("[yellow]")
			b.WriteString(line)
			b.WriteString("[white]")
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
		lineForIdx++
	}
	fmt.Fprint(v.ListingView, b.String())
}

func (v *Viewer) updateWords() {
	v.WordsView.Clear()
	var b strings.Builder
	for i, word := range v.result.Instructions {
		fmt.Fprintf(&b, "%4d  %#08x\n", i, word)
	}
	fmt.Fprint(v.WordsView, b.String())
}

func (v *Viewer) updateRelocs() {
	v.RelocsView.Clear()
	var b strings.Builder
	for _, r := range v.result.Relocations {
		fmt.Fprintf(&b, "src=%d -> mir[%d] (%s)\n", r.Source, r.Target, r.Kind)
	}
	fmt.Fprint(v.RelocsView, b.String())
}

func (v *Viewer) updateStatus() {
	v.StatusView.Clear()
	pos, ok := v.result.BranchTargets[mir.InstIndex(v.cursor)]
	inst := v.rec.At(mir.InstIndex(v.cursor))
	fmt.Fprintf(v.StatusView, "mir[%d]=%s  word_pos=%d (resolved=%t)  [j/k to step, q to quit]",
		v.cursor, inst.Tag, pos, ok)
}
