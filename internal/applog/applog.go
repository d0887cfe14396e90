// Package applog provides the engine's default structured logger: a
// github.com/go-logr/logr.Logger backed by stdr, writing to the standard
// "log" package. UCI requires engine stdout to carry only protocol
// traffic, so every sink here must write to stderr.
package applog

import (
	"log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

// New returns a logr.Logger named name, writing to stderr so it never
// collides with UCI responses on stdout.
func New(name string) logr.Logger {
	std := log.New(os.Stderr, "", log.LstdFlags)
	return stdr.New(std).WithName(name)
}

// Discard returns a logger that drops everything, used where a caller
// hasn't configured logging and wants call sites to stay unconditional.
func Discard() logr.Logger {
	return logr.Discard()
}
