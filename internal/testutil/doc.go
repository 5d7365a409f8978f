// Package testutil holds helpers shared by the package tests: a thread-safe
// log buffer, log assertions and ad-hoc registry modules.
package testutil
