// Package testutil holds schema fixtures and file helpers shared by tests.
package testutil
