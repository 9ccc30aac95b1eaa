//go:build !rp2040

package fmtx

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultOutput is used by Print/Printf. Host builds default to stdout.
var DefaultOutput io.Writer = os.Stdout

func Sprintf(format string, a ...any) string { return fmt.Sprintf(format, a...) }

func Printf(format string, a ...any) (int, error) {
	return fmt.Fprintf(DefaultOutput, format, a...)
}

func Fprintf(w io.Writer, format string, a ...any) (int, error) {
	return fmt.Fprintf(w, format, a...)
}

func Errorf(format string, a ...any) error { return fmt.Errorf(format, a...) }

// Sprint joins all operands with single spaces (the MCU build does the same;
// fmt.Sprint only spaces non-string neighbours).
func Sprint(a ...any) string {
	var b strings.Builder
	for i, v := range a {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%v", v)
	}
	return b.String()
}

func Fprint(w io.Writer, a ...any) (int, error) { return io.WriteString(w, Sprint(a...)) }

func Print(a ...any) (int, error) { return Fprint(DefaultOutput, a...) }
