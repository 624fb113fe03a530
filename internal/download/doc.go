// Package download fetches every file referenced by a batch of records with
// bounded concurrency and partial-failure tolerance.
//
// Workers are assigned disjoint interleaved slices of the record list
// (worker k processes indices k, k+N, k+2N, ...) so no two workers ever
// touch the same record, and each worker owns its own HTTP client. A remote
// resource that answers 404 or 403 is treated as gone: the reference is
// cleared so downstream stages see "no file" instead of a broken link. Any
// other failure is counted and the batch continues; a batch is never aborted
// because one file failed.
package download
