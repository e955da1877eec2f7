// Package task implements the asynchronous analysis task lifecycle: the
// in-memory task store polled by clients, the worker pool that executes
// submitted tasks off the request path, and the analysis task itself.
package task
