//go:build !linux

package logging

import (
	"log/slog"
	"os"
)

func hostAttrs() []any {
	name, err := os.Hostname()
	if err != nil {
		return nil
	}
	return []any{slog.String("nodename", name)}
}
