// Package types defines the Archive and Table interfaces, the Run and
// Champion entities, and the standard errors of the lander run archive.
package types
