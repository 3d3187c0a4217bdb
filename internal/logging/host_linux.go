//go:build linux

package logging

import (
	"log/slog"

	"golang.org/x/sys/unix"
)

func hostAttrs() []any {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return []any{slog.String("uname_error", err.Error())}
	}
	return []any{
		slog.String("sysname", unix.ByteSliceToString(u.Sysname[:])),
		slog.String("release", unix.ByteSliceToString(u.Release[:])),
		slog.String("machine", unix.ByteSliceToString(u.Machine[:])),
		slog.String("nodename", unix.ByteSliceToString(u.Nodename[:])),
	}
}
