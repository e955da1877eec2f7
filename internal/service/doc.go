// Package service implements the application's business operations: the
// analysis fan-out that the background task executes, the submission path
// that feeds the task runner, and the knowledge refinement and evaluation
// pipelines.
package service
