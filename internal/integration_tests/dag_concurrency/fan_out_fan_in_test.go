package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/runbookgo/internal/testutil"
	"github.com/vk/runbookgo/modules/variables"
)

func TestDAG_SequentialChain(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	script := `
@action
def chain():
    Task.NoOp(name="a")
    Task.NoOp(name="b")
    Task.NoOp(name="c")
`

	// --- Act ---
	result := testutil.RunActionTest(t, script, &testutil.NoOpModule{})

	// --- Assert ---
	require.NoError(t, result.Err)
	action := result.Doc.Action(t, "chain")
	require.Len(t, action.Runbook.Tasks, 4, "DAG entry plus three children")
	require.ElementsMatch(t, []string{"a->b", "b->c"}, action.Edges(t))
}

func TestDAG_FanOutFanIn(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// One task fans out to a parallel block of three, which fans back in.
	script := `
@action
def fan():
    Task.NoOp(name="start")
    with parallel():
        Task.NoOp(name="p1")
        Task.NoOp(name="p2")
        Task.NoOp(name="p3")
    Task.NoOp(name="finish")
`

	// --- Act ---
	result := testutil.RunActionTest(t, script, &testutil.NoOpModule{})

	// --- Assert ---
	require.NoError(t, result.Err)
	require.ElementsMatch(t, []string{
		"start->p1", "start->p2", "start->p3",
		"p1->finish", "p2->finish", "p3->finish",
	}, result.Doc.Action(t, "fan").Edges(t))
}

func TestDAG_AdjacentParallelBlocksJoinAllPairs(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	script := `
@action
def mesh():
    with parallel():
        Task.NoOp(name="a1")
        Task.NoOp(name="a2")
    with parallel():
        Task.NoOp(name="b1")
        Task.NoOp(name="b2")
        Task.NoOp(name="b3")
`

	// --- Act ---
	result := testutil.RunActionTest(t, script, &testutil.NoOpModule{})

	// --- Assert ---
	require.NoError(t, result.Err)
	require.ElementsMatch(t, []string{
		"a1->b1", "a1->b2", "a1->b3",
		"a2->b1", "a2->b2", "a2->b3",
	}, result.Doc.Action(t, "mesh").Edges(t))
}

func TestDAG_EmptyStagesAreSkipped(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Neither `pass`, an all-pass parallel block nor a variable assignment
	// produces a stage, so "a" links straight to "b".
	script := `
@action
def gaps():
    Task.NoOp(name="a")
    pass
    with parallel():
        pass
    port = Variable.Simple.int(80)
    Task.NoOp(name="b")
`

	// --- Act ---
	result := testutil.RunActionTest(t, script, &testutil.NoOpModule{}, &variables.Module{})

	// --- Assert ---
	require.NoError(t, result.Err)
	action := result.Doc.Action(t, "gaps")
	require.Equal(t, []string{"a->b"}, action.Edges(t))
	require.Equal(t, "80", action.Variable(t, "port").Value)
}

func TestDAG_NoTasks(t *testing.T) {
	t.Parallel()

	// --- Act ---
	result := testutil.RunActionTest(t, "@action\ndef empty():\n    pass\n")

	// --- Assert ---
	require.NoError(t, result.Err)
	action := result.Doc.Action(t, "empty")
	require.Len(t, action.Runbook.Tasks, 1, "only the DAG entry")
	require.Empty(t, action.Edges(t))
}
