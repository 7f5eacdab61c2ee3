package database

import (
	"fmt"
	"io"
)

type Logger interface {
	Print(v ...any)
	Printf(format string, v ...any)
	Println(v ...any)
}

type StdoutLogger struct{}

func (s StdoutLogger) Print(v ...any) {
	fmt.Print(v...)
}

func (s StdoutLogger) Printf(format string, v ...any) {
	fmt.Printf(format, v...)
}

func (s StdoutLogger) Println(v ...any) {
	fmt.Println(v...)
}

// WriterLogger prints to an arbitrary writer, e.g. a buffer in tests.
type WriterLogger struct {
	W io.Writer
}

func (w WriterLogger) Print(v ...any) {
	fmt.Fprint(w.W, v...)
}

func (w WriterLogger) Printf(format string, v ...any) {
	fmt.Fprintf(w.W, format, v...)
}

func (w WriterLogger) Println(v ...any) {
	fmt.Fprintln(w.W, v...)
}

type NullLogger struct{}

func (n NullLogger) Print(v ...any)                 {}
func (n NullLogger) Printf(format string, v ...any) {}
func (n NullLogger) Println(v ...any)               {}
