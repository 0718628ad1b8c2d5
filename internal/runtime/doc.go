// Package runtime launches synthesized rez invocations, either attached to
// the terminal or detached from this process.
package runtime
