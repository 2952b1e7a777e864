// Package utils provides small filesystem and terminal helpers.
//
//   - WriteFileAtomic: temp file, fsync, rename
//   - ReadPassphrase: hidden terminal input via golang.org/x/term
//   - ReadStdin: piped key input
//   - FormatPaths and StackName: display helpers
package utils
