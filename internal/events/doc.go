// Package events provides types and interfaces for task lifecycle events.
//
// The task runner publishes an event for every task status transition.
// Handlers subscribe without the runner knowing about them, which keeps the
// metrics recorder (and any future consumers) decoupled from task
// execution.
package events
