package events

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSubjectFor(t *testing.T) {
	require.Equal(t, "transclude.document_rendered", subjectFor("", TypeRendered))
	require.Equal(t, "notes.document_changed", subjectFor("notes", TypeChanged))
	require.Equal(t, "notes.cycle_detected", subjectFor("notes", TypeCycle))
}

func TestNilPublisherIsNoop(t *testing.T) {
	var p *Publisher
	require.NotPanics(t, func() {
		p.DocumentRendered("a.md", "pass")
		p.DocumentChanged("a.md")
		p.CycleDetected("a.md", "pass")
		p.Close()
	})
}
