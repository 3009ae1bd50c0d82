// Package logging builds the application's slog loggers.
//
// Two handler formats are supported: a human-oriented console format that
// flattens attribute groups into key=value pairs and promotes the component
// attribute into the message prefix, and a JSON format with stable ts/level/msg
// keys for machine consumption.
package logging
