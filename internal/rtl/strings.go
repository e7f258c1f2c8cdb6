package rtl

import "fmt"

// StringPool deduplicates string literals into data-segment labels. It is
// shared process-wide across an entire compilation — unlike RegisterPool,
// it is never reset per function, mirroring the reference compiler's
// single process-wide string table. The lexer registers each literal as it
// scans (see lexer.StringPool); the RTL generator calls GetStringID again
// for the same text when lowering a tac.StrLit, which — being idempotent —
// returns the same label without growing the table.
type StringPool struct {
	values []string
}

func NewStringPool() *StringPool { return &StringPool{} }

// GetStringID returns the pooled label for s, registering it on first use.
func (p *StringPool) GetStringID(s string) string {
	for i, v := range p.values {
		if v == s {
			return fmt.Sprintf("_str_%d", i)
		}
	}
	p.values = append(p.values, s)
	return fmt.Sprintf("_str_%d", len(p.values)-1)
}

// Entries returns the pooled strings in label order (_str_0, _str_1, ...),
// for the assembly emitter's data segment.
func (p *StringPool) Entries() []string {
	return p.values
}
