package dbginfo

import (
	"testing"

	"github.com/lookbusy1344/arm64cg/mir"
)

func TestMemSinkRecordsFunctionBodyAndMarkers(t *testing.T) {
	sink := NewMemSink(0)
	rec := mir.NewRecord()

	sink.FunctionBody("main", 0, 16, rec)
	sink.Marker(4, mir.NewPseudo(mir.TagDbgPrologueEnd))

	functions := sink.Functions()
	if len(functions) != 1 || functions[0].Name != "main" || functions[0].EndOffset != 16 {
		t.Fatalf("unexpected functions: %+v", functions)
	}

	markers := sink.Markers()
	if len(markers) != 1 || markers[0].ByteOffset != 4 {
		t.Fatalf("unexpected markers: %+v", markers)
	}
}

func TestMemSinkTrimsToMaxSize(t *testing.T) {
	sink := NewMemSink(2)
	for i := 0; i < 5; i++ {
		sink.Marker(uint64(i), mir.NewDbgLine(i, 1))
	}
	markers := sink.Markers()
	if len(markers) != 2 {
		t.Fatalf("expected trimming to 2 entries, got %d", len(markers))
	}
	if markers[0].ByteOffset != 3 || markers[1].ByteOffset != 4 {
		t.Fatalf("expected the last 2 entries to survive, got %+v", markers)
	}
}
