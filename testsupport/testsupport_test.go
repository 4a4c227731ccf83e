package testsupport

import (
	"fmt"
	"strings"
	"testing"

	"github.com/tarungka/streamcore/processors"
	"github.com/tarungka/streamcore/stream"
)

func TestScenarioUppercaseMap(t *testing.T) {
	p := processors.Map(func(i stream.Item) stream.Item {
		return strings.ToUpper(i.(string))
	})
	TestProcessor(t, p,
		[]stream.Item{"a", "b", "c"},
		[]stream.Item{"A", "B", "C"})
}

func TestScenarioDuplicateFlatMap(t *testing.T) {
	p := processors.FlatMap(func(i stream.Item) []stream.Item {
		return []stream.Item{i, i}
	})
	TestProcessor(t, p,
		[]stream.Item{1, 2},
		[]stream.Item{1, 1, 2, 2})
}

func TestScenarioCounter(t *testing.T) {
	p := processors.Counter()
	TestProcessor(t, p,
		[]stream.Item{"x", "y", "z", "w"},
		[]stream.Item{int64(4)})
}

func TestScenarioFullOutboxCooperativeMap(t *testing.T) {
	stats := TestProcessorOpts(t, func() stream.Processor { return processors.MapCooperative(2) },
		[]stream.Item{1, 2, 3, 4},
		[]stream.Item{2, 4, 6, 8},
		DefaultOptions())

	if stats.FullOutboxReentries == 0 {
		t.Fatal("expected the harness to re-enter Process at least once with a full outbox")
	}
}

func TestScenarioCounterSnapshotRoundTrip(t *testing.T) {
	TestProcessorOpts(t, func() stream.Processor { return processors.Counter() },
		[]stream.Item{"a", "b", "c"},
		[]stream.Item{int64(3)},
		Options{AssertProgress: true, DoSnapshots: true})
}

type fakeT struct {
	failed   bool
	messages []string
}

func (f *fakeT) Errorf(format string, args ...interface{}) {
	f.failed = true
	f.messages = append(f.messages, fmt.Sprintf(format, args...))
}

func (f *fakeT) FailNow() {}

func TestHarnessFailsOnOutputMismatch(t *testing.T) {
	ft := &fakeT{}
	p := processors.Map(func(i stream.Item) stream.Item { return i })
	TestProcessor(ft, p, []stream.Item{1, 2}, []stream.Item{1, 99})

	if !ft.failed {
		t.Fatal("expected the harness to report a failure on output mismatch")
	}
	if len(ft.messages) == 0 || !strings.Contains(ft.messages[0], "processor output") {
		t.Fatalf("expected a processor output assertion failure, got: %v", ft.messages)
	}
}

func TestHarnessAssertionFailureFormatsExpectedAndActual(t *testing.T) {
	err := &HarnessAssertionFailure{
		Assertion: "processor output",
		Expected:  "[1 2]",
		Actual:    "[1 99]",
	}
	msg := err.Error()
	if !strings.Contains(msg, "processor output") || !strings.Contains(msg, "[1 2]") || !strings.Contains(msg, "[1 99]") {
		t.Fatalf("unexpected error message: %q", msg)
	}
}

func TestHarnessPassesOnMatchingOutput(t *testing.T) {
	ft := &fakeT{}
	p := processors.Map(func(i stream.Item) stream.Item { return i })
	TestProcessor(ft, p, []stream.Item{1, 2}, []stream.Item{1, 2})

	if ft.failed {
		t.Fatalf("expected the harness to pass, got failures: %v", ft.messages)
	}
}
