package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sclp/internal/tac"
)

const sampleSource = `int counter;
void main() {
	counter = 3;
	print counter;
}
`

func TestRunStagesASMProducesAssembly(t *testing.T) {
	p := New()
	res, err := p.Run(sampleSource, "t.sc", Options{Limit: StageASM})
	require.NoError(t, err)
	require.Contains(t, res.ASM, ".globl main")
	require.Contains(t, res.ASM, "counter:")
}

func TestRunRespectsStageLimit(t *testing.T) {
	p := New()
	res, err := p.Run(sampleSource, "t.sc", Options{Limit: StageTAC})
	require.NoError(t, err)
	require.NotNil(t, res.TAC)
	require.Nil(t, res.RTL)
	require.Empty(t, res.ASM)
}

func TestRunSurfacesSemanticErrorAsDiagError(t *testing.T) {
	p := New()
	_, err := p.Run(`void x;`, "t.sc", Options{Limit: StageASM})
	require.Error(t, err)
	require.Contains(t, err.Error(), "sclp error:")
}

func TestRunSharesStringPoolAcrossStages(t *testing.T) {
	p := New()
	src := `void main() { print "hi"; print "hi"; }`
	res, err := p.Run(src, "t.sc", Options{Limit: StageASM})
	require.NoError(t, err)
	require.Len(t, p.Strings.Entries(), 1, "a repeated literal must dedupe through the shared pool")
	require.Contains(t, res.ASM, `_str_0: .asciiz "hi"`)
}

// TestRunCompilesForLoopOverArray is a variant of end-to-end scenario S3
// with the array local to main: a for loop storing its own index into each
// array element, carried all the way through to assembly.
func TestRunCompilesForLoopOverArray(t *testing.T) {
	src := `
void main() {
	int a[10];
	int i;
	for (i = 0; i < 10; i = i + 1) a[i] = i;
}
`
	p := New()
	res, err := p.Run(src, "t.sc", Options{Limit: StageASM})
	require.NoError(t, err)
	require.Contains(t, res.ASM, ".globl main")
	require.Contains(t, res.ASM, "slt")
	require.Contains(t, res.ASM, "sw")
}

func TestRunForLoopWithoutBreakOrContinueOmitsUnusedLabels(t *testing.T) {
	src := `
void main() {
	int i;
	for (i = 0; i < 10; i = i + 1) print i;
}
`
	p := New()
	res, err := p.Run(src, "t.sc", Options{Limit: StageTAC})
	require.NoError(t, err)

	fn := res.TAC.Functions[0]
	labels := 0
	for _, s := range fn.Body {
		if _, ok := s.(*tac.Label); ok {
			labels++
		}
	}
	// The loop's own loopback label plus the cond's exit label, and
	// nothing for the never-taken continue/break targets.
	require.Equal(t, 2, labels)
}

func TestRunDoWhileWithBreakCarriesExitLabelThroughToRTL(t *testing.T) {
	src := `
void main() {
	int i;
	i = 0;
	do {
		if (i == 5) break;
		i = i + 1;
	} while (i < 10);
}
`
	p := New()
	res, err := p.Run(src, "t.sc", Options{Limit: StageRTL})
	require.NoError(t, err)
	require.NotNil(t, res.RTL)
	require.NotEmpty(t, res.RTL.Functions[0].Body)
}
