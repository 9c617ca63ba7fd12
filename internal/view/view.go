// Package view defines the contracts the core hands its UI collaborators.
// The visual loader itself is out of scope; the core only drives it through
// the WorkIndicator capability, one explicit bracket per call site.
package view

import "sync/atomic"

// WorkToken identifies one begun unit of work so it can be ended exactly once.
type WorkToken uint64

// WorkOptions describes a unit of work about to start. Blocking work may
// visually block interaction; background work must not.
type WorkOptions struct {
	Label    string
	Blocking bool
}

// ErrorOptions describes an error surfaced through the loader collaborator.
type ErrorOptions struct {
	Message   string
	Retryable bool
}

// WorkIndicator is the loader collaborator contract.
type WorkIndicator interface {
	BeginWork(opts WorkOptions) WorkToken
	EndWork(token WorkToken)
	ReportError(opts ErrorOptions)
}

// NopIndicator satisfies WorkIndicator without any visual effect.
type NopIndicator struct {
	counter atomic.Uint64
}

// BeginWork returns a fresh token and does nothing else.
func (n *NopIndicator) BeginWork(WorkOptions) WorkToken {
	return WorkToken(n.counter.Add(1))
}

// EndWork does nothing.
func (n *NopIndicator) EndWork(WorkToken) {}

// ReportError does nothing.
func (n *NopIndicator) ReportError(ErrorOptions) {}
