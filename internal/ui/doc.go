// Package ui provides semantic text formatting for envcrypt output.
//
// Formatters colourise when the terminal supports it and fall back to plain
// decorations when NO_COLOR is set or colour is unavailable:
//
//	ui.Code.Sprint("envcrypt stacks encrypt")  // `envcrypt stacks encrypt`
//	ui.Stack.Sprint("web")                      // 'web'
//	ui.Muted.Sprint("up to date")               // (up to date)
//
// Cause maps envcrypt errors to the one-line explanations printed next to a
// failed stack, so operators never see raw error chains.
package ui
