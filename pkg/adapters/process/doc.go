// Package process serves allow-listed local commands as function modules.
//
// A reference "exec:<name>" resolves to a registered command. Invoking it
// runs the command with the module options on stdin as JSON, and the
// command's stdout becomes the resolved value.
package process
