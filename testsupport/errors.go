package testsupport

import "fmt"

// HarnessAssertionFailure is raised by the harness when a processor's
// observed behavior disagrees with the expectation it was asked to
// verify. It is never returned from Process, SaveSnapshot, or any
// other processor method; it exists purely so a harness assertion
// carries structured expected/actual text instead of a bare string,
// the way a test failure ought to be inspectable by whatever reports
// it.
type HarnessAssertionFailure struct {
	Assertion string
	Expected  string
	Actual    string
}

func (e *HarnessAssertionFailure) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Assertion, e.Expected, e.Actual)
}
