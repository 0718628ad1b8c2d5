// Package platform hides the operating system differences of launching
// processes: argument quoting and splitting, detached process attributes,
// interrupt handling and exit status decoding. Unix uses POSIX shell quoting
// and a new session for detached children. Windows uses the CommandLineToArgvW
// conventions and DETACHED_PROCESS.
package platform
