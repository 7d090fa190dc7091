// Package storage provides pluggable file storage backends with a shared
// naming contract.
//
// Backends fall into two naming disciplines:
//
//   - Path-based (DiskStorage): names are hierarchical filesystem paths.
//     ValidName sanitizes filenames (spaces become underscores, unsafe
//     characters are dropped) and AvailableName resolves conflicts with a
//     random suffix.
//   - Key-based (S3Storage, MemoryStorage, RedisStorage, PostgresStorage):
//     names are opaque identifiers. ValidName and AvailableName are identity
//     functions and Save returns the name byte-for-byte, even when it
//     contains backslashes or spaces. These backends also implement
//     FilenameGenerator so destination keys are built by plain string
//     concatenation instead of path joining.
//
// # Basic Usage
//
// Create a storage client and upload files:
//
//	cfg := storage.Config{
//		Bucket:    "my-bucket",
//		Region:    "us-east-1",
//		AccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
//		SecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
//	}
//
//	store, err := storage.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Upload from form
//	fh, _ := c.FormFile("avatar")
//	info, err := storage.PutFile(ctx, store, fh,
//		storage.WithPrefix("avatars"),
//		storage.WithACL(storage.ACLPublicRead),
//	)
//
// # Named Saves
//
// Put generates a key; Save persists under a caller-chosen name with the
// backend's naming semantics:
//
//	name, err := store.Save(ctx, "reports/2024/summary.pdf", r, size)
//
// On disk storage an existing name gets a random suffix; on key-based
// backends the key is overwritten and returned unchanged.
//
// # Validation
//
// Use WithValidation for validated uploads:
//
//	info, err := storage.PutFile(ctx, store, fh,
//		storage.WithValidation(
//			storage.MaxSize(5 << 20),  // 5MB
//			storage.ImageOnly(),
//		),
//		storage.WithTenant(tenantID),
//		storage.WithPrefix("avatars"),
//	)
//	if err != nil {
//		var verr *storage.FileValidationError
//		if errors.As(err, &verr) {
//			// Handle validation error
//		}
//	}
//
// # URL Generation
//
// Generate URLs for stored files:
//
//	// Auto-detect based on ACL (public vs signed)
//	url, err := store.URL(ctx, info.Key)
//
//	// Force signed URL with custom expiry
//	url, err := store.URL(ctx, info.Key,
//		storage.WithSigned(time.Hour),
//	)
//
//	// Signed URL with download disposition
//	url, err := store.URL(ctx, info.Key,
//		storage.WithDownload("document.pdf"),
//	)
//
// Disk, memory, Redis and Postgres backends serve plain BaseURL-prefixed
// URLs; only S3 supports signing.
package storage
