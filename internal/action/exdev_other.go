//go:build !unix

package action

func isEXDEV(error) bool { return false }
