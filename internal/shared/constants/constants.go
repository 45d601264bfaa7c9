package constants

import (
	"io/fs"
	"time"
)

const (
	// DefaultDirPerm is the default permission used when creating directories.
	DefaultDirPerm fs.FileMode = 0o755
	// DefaultFilePerm is the default permission used when creating files.
	DefaultFilePerm fs.FileMode = 0o644
)

const (
	// NotesLimitBytes caps how many bytes of collaborator output we store
	// in a single audit entry.
	NotesLimitBytes = 2048
	// NotifyRatePerMinute paces regulator notifications so a burst of
	// incidents cannot flood the reporting endpoint.
	NotifyRatePerMinute = 6
	// NotifyBurst is the bucket size for the notification limiter.
	NotifyBurst = 2
	// DefaultStageTimeout bounds a single collaborator call.
	DefaultStageTimeout = 30 * time.Second
)
