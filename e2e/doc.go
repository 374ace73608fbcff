// Package e2e holds end-to-end tests that run a real echo server on a
// loopback listener. Run them with -tags integration.
package e2e
