// Package logger provides levelled logging for envcrypt commands.
//
// # Verbosity Levels
//
//   - --verbose: info and warning messages
//   - --debug: everything, including per-line tracing of a batch run
//
// Without flags only WarnfAlways output is shown. Messages carry coloured
// prefixes ([info], [debug], [warn], [error]) from fatih/color.
//
// # Usage
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Processing %d stacks", count)
//
// Commands build a logger in PersistentPreRun and hand it to workflows.
package logger
