// Package render provides output formatting for CLI commands.
package render

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Writer wraps an io.Writer with status-line helpers.
type Writer struct {
	out io.Writer
}

// NewWriter creates a Writer that writes to the given io.Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{out: w}
}

// Stdout returns a Writer that writes to os.Stdout.
func Stdout() *Writer {
	return NewWriter(os.Stdout)
}

// Stderr returns a Writer that writes to os.Stderr.
func Stderr() *Writer {
	return NewWriter(os.Stderr)
}

// Println writes formatted text with newline.
func (w *Writer) Println(format string, args ...any) {
	fmt.Fprintf(w.out, format+"\n", args...)
}

// Line writes a blank line.
func (w *Writer) Line() {
	fmt.Fprintln(w.out)
}

// Info writes a cyan progress line.
func (w *Writer) Info(format string, args ...any) {
	fmt.Fprintln(w.out, color.CyanString(format, args...))
}

// Success writes a green check line.
func (w *Writer) Success(format string, args ...any) {
	fmt.Fprintln(w.out, color.GreenString("✓ "+format, args...))
}

// Warn writes a yellow warning line.
func (w *Writer) Warn(format string, args ...any) {
	fmt.Fprintln(w.out, color.YellowString(format, args...))
}

// Error writes "Error: <msg>" in red.
func (w *Writer) Error(format string, args ...any) {
	fmt.Fprintln(w.out, color.RedString("Error: "+format, args...))
}

// Hint writes a yellow hint line.
func (w *Writer) Hint(format string, args ...any) {
	fmt.Fprintln(w.out, color.YellowString(format, args...))
}

// Dim writes a grey secondary line.
func (w *Writer) Dim(format string, args ...any) {
	fmt.Fprintln(w.out, color.HiBlackString(format, args...))
}

// Labeled writes "<label> value" with a coloured label.
func (w *Writer) Labeled(label, format string, args ...any) {
	fmt.Fprintf(w.out, "%s %s\n", color.CyanString(label), fmt.Sprintf(format, args...))
}

// Table writes a two column table.
func (w *Writer) Table(title string, headers []string, rows [][]string) {
	fmt.Fprintln(w.out, Table(title, headers, rows))
}
