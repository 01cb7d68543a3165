package emit

import (
	"bytes"
	"testing"

	"github.com/lookbusy1344/arm64cg/bits"
	"github.com/lookbusy1344/arm64cg/dbginfo"
	"github.com/lookbusy1344/arm64cg/mir"
)

func TestFunctionWritesLittleEndianWords(t *testing.T) {
	rec := mir.NewRecord()
	rec.Append(mir.NewR(mir.TagRet, bits.RegNone))

	var out bytes.Buffer
	n, err := Function(&out, rec, Options{Name: "f"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 4 {
		t.Fatalf("expected 4 bytes written, got %d", n)
	}
	want := []byte{0xC0, 0x03, 0x5F, 0xD6}
	if !bytes.Equal(out.Bytes(), want) {
		t.Fatalf("ret: got % X, want % X", out.Bytes(), want)
	}
}

func TestFunctionForwardsDebugMarkersAndBody(t *testing.T) {
	rec := mir.NewRecord()
	rec.Append(mir.NewPseudo(mir.TagDbgPrologueEnd))
	rec.Append(mir.NewR(mir.TagNop, bits.RegNone))
	rec.Append(mir.NewR(mir.TagRet, bits.RegNone))

	sink := dbginfo.NewMemSink(0)
	var out bytes.Buffer
	n, err := Function(&out, rec, Options{Name: "f", DebugSink: sink})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 8 {
		t.Fatalf("expected 8 bytes (2 real instructions), got %d", n)
	}

	markers := sink.Markers()
	if len(markers) != 1 {
		t.Fatalf("expected 1 marker, got %d", len(markers))
	}
	// The pseudo at index 0 inherits the position of the next real
	// instruction (word 0, byte offset 0).
	if markers[0].ByteOffset != 0 {
		t.Fatalf("expected marker at byte offset 0, got %d", markers[0].ByteOffset)
	}

	functions := sink.Functions()
	if len(functions) != 1 || functions[0].Name != "f" || functions[0].EndOffset != 8 {
		t.Fatalf("unexpected function body record: %+v", functions)
	}
}

func TestFunctionPropagatesLowerError(t *testing.T) {
	rec := mir.NewRecord()
	rec.Append(mir.NewRel(mir.TagB, 50)) // unresolved target

	var out bytes.Buffer
	_, err := Function(&out, rec, Options{})
	if err == nil || err.Kind != LowerFailed {
		t.Fatalf("expected LowerFailed, got %v", err)
	}
}
