// Package logger provides a small wrapper around zap to offer:
//   - a global sugared logger with a console encoder split between stdout and stderr,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level configuration and parsing utilities,
//   - convenience functions (Infof, ErrorKV, etc.).
//
// Services accept a context and extract the logger from it, so every
// bootstrap step logs under its own name.
package logger
