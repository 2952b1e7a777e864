// Package batch runs a transform across every stack of a project.
//
// A run moves through four steps:
//
//  1. Discover: find source files (or take the named stacks)
//  2. Filter: skip stacks whose destination is already up to date, unless forced
//  3. Process: transform and write the destination atomically
//  4. Summarize: count processed, skipped and failed stacks
//
// Stacks are independent. A failure is recorded in its Outcome and the run
// carries on; Summary.Err reports whether anything failed. Processing may use
// a bounded worker pool, and the context is checked before each stack.
package batch
