// SPDX-License-Identifier: GPL-3.0-or-later

//go:build linux

package logger

import (
	"os"

	"github.com/coreos/go-systemd/v22/journal"
)

func isStderrConnectedToJournal() bool {
	if os.Getenv("JOURNAL_STREAM") == "" {
		return false
	}
	ok, _ := journal.StderrIsJournalStream()
	return ok
}
