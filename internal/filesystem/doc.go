/*
Package filesystem provides filesystem operations with automatic retry logic
for NFS stale file handle errors.

Media libraries frequently live on network mounts. Directory discovery and
metadata extraction go through StatWithRetry, ReadDirWithRetry and
OpenWithRetry so that a transient ESTALE does not drop a file from the
catalog. Only ESTALE triggers a retry; every other error is returned
immediately.

	entries, err := filesystem.ReadDirWithRetry(dir, filesystem.DefaultRetryConfig())

The defaults retry 3 times with exponential backoff from 50ms capped at 500ms.
*/
package filesystem
