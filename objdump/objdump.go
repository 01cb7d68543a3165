//go:build objdump

// Package objdump is a minimal desktop window rendering an emitted byte
// stream as a hex/disasm dual pane for one function. Build-tagged because
// it pulls in fyne's heavy transitive dependency tree, which the
// CLI/TUI/lint/format/xref paths do not need. Grounded on
// debugger/gui.go's fyne.App/fyne.Window/widget.TextGrid shape.
package objdump

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/lookbusy1344/arm64cg/lower"
	"github.com/lookbusy1344/arm64cg/mir"
	"github.com/lookbusy1344/arm64cg/mirtools/format"
)

// Viewer is the desktop hex/disasm dump window.
type Viewer struct {
	App    fyne.App
	Window fyne.Window

	HexView     *widget.TextGrid
	DisasmView  *widget.TextGrid
	BytesPerRow int
}

// New builds a Viewer for rec's lowered word stream, labeled funcName in
// the window title.
func New(funcName string, rec *mir.Record, opts lower.Options, bytesPerRow int) (*Viewer, error) {
	result, err := lower.LowerMir(rec, opts)
	if err != nil {
		return nil, err
	}
	if bytesPerRow <= 0 {
		bytesPerRow = 16
	}

	myApp := app.New()
	myWindow := myApp.NewWindow(fmt.Sprintf("arm64cg objdump: %s", funcName))

	v := &Viewer{
		App:         myApp,
		Window:      myWindow,
		HexView:     widget.NewTextGrid(),
		DisasmView:  widget.NewTextGrid(),
		BytesPerRow: bytesPerRow,
	}

	v.HexView.SetText(hexDump(result.Instructions, bytesPerRow))
	v.DisasmView.SetText(format.NewFormatter(format.CompactOptions()).Format(rec))

	split := container.NewHSplit(
		container.NewVScroll(v.HexView),
		container.NewVScroll(v.DisasmView),
	)
	myWindow.SetContent(split)
	myWindow.Resize(fyne.NewSize(900, 600))

	return v, nil
}

// Run shows the window and blocks until it's closed.
func (v *Viewer) Run() {
	v.Window.ShowAndRun()
}

// hexDump renders words as little-endian bytes, bytesPerRow bytes to a
// line, matching a conventional objdump -d byte layout.
func hexDump(words []uint32, bytesPerRow int) string {
	var b strings.Builder
	col := 0
	offset := 0
	for _, word := range words {
		for shift := 0; shift < 32; shift += 8 {
			if col == 0 {
				fmt.Fprintf(&b, "%08x  ", offset)
			}
			fmt.Fprintf(&b, "%02x ", byte(word>>uint(shift)))
			col++
			offset++
			if col == bytesPerRow {
				b.WriteString("\n")
				col = 0
			}
		}
	}
	if col != 0 {
		b.WriteString("\n")
	}
	return b.String()
}
