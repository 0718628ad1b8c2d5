// Package rez knows how to reach the rez environment manager: where its
// executable lives, which version it is, and how a plugin descriptor turns
// into a "rez env" invocation.
package rez
