// Package filestore provides pluggable file storage with backend-controlled
// naming.
//
// Backends split into two disciplines. Path-based backends (local disk)
// treat names as filesystem paths: unsafe characters are rewritten, paths
// are normalized, and naming conflicts get a random suffix. Key-based
// backends (S3, Redis, Postgres, memory) treat names as opaque keys: a
// requested name is stored byte-for-byte, backslashes and spaces included,
// and existing keys are overwritten.
//
// # Quick Start
//
// Open a backend from a profile file and store a file:
//
//	store, cleanup, err := filestore.OpenNamed(ctx, "profiles.yaml", "uploads")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cleanup(ctx)
//
//	name, err := store.Save(ctx, "reports/q3.pdf", reader, size)
//
// # Upload Fields
//
// The upload package binds a destination target to a backend and delegates
// naming decisions to it:
//
//	field := upload.New(store, upload.To("documents/%Y/%m/"))
//	name, err := field.Save(ctx, nil, header.Filename, file, header.Size)
//
// # Serving Files
//
// The fileserver package exposes any backend over HTTP, and the janitor
// package sweeps expired files on a cron schedule.
package filestore
