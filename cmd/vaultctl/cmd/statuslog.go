package cmd

import (
	"log/slog"

	"github.com/vaultfile/vaultfile"
)

// slogStatusCallback adapts the key-strengthening StatusCallback to a
// slog.Debug call per report, so progress is visible with --debug without
// the core library ever importing a logging package itself (SPEC_FULL §2,
// "the core itself never logs directly").
func slogStatusCallback() vaultfile.StatusCallback {
	return func(progress int, text string) vaultfile.Signal {
		slog.Debug("key derivation progress", "percent", progress, "status", text)
		return vaultfile.Continue
	}
}
