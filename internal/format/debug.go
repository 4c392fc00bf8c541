package format

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/kr/pretty"

	"github.com/printfn/fend/internal/value"
)

// debugSummary renders a one-line structural header ahead of the full
// kr/pretty dump: the dynamic Value kind plus, for Number, the working
// precision in bits, so @debug output stays legible for huge magnitudes
// where the full struct dump buries the number that matters.
func debugSummary(v value.Value) string {
	n, ok := v.(value.Number)
	if !ok {
		return fmt.Sprintf("kind=%T", v)
	}
	bits := n.Quantity.Magnitude.Re.Precision
	return fmt.Sprintf("kind=number precision_bits=%s", humanize.Comma(int64(bits)))
}

func debugDumpFull(v value.Value) string {
	var sb strings.Builder
	sb.WriteString(debugSummary(v))
	sb.WriteByte('\n')
	sb.WriteString(pretty.Sprint(v))
	return sb.String()
}
