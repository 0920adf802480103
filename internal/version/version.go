// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Do not import any other gluectl packages to avoid import cycles.

package version

import "runtime/debug"

// Version is the module version stamped by `go install`, or "dev" for local
// builds.
var Version = func() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}()

// UserAgent identifies gluectl to the AWS and Terraform Cloud APIs.
func UserAgent() string {
	return "gluectl/" + Version
}
