// Package core contains the plumbing the worker runtime is built on: an
// unbounded FIFO pipe, options carried through a context, and the locomotive
// that drives inputs through an engine one at a time. It does not define
// business logic.
package core
