// Package fileserver exposes a storage backend over HTTP.
//
// The server provides multipart uploads (auto-keyed and field-named),
// downloads, deletes, URL resolution, listing, and Kubernetes-style health
// probes, with request-ID tracing wired into structured logs.
//
// # Quick Start
//
//	store := storage.NewMemory()
//	srv, err := fileserver.New(fileserver.Config{Addr: ":8080"}, store,
//	    fileserver.WithLogger(logger.New(fileserver.RequestIDExtractor())),
//	    fileserver.WithUploadRules(storage.MaxSize(10<<20)),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Routes
//
//	POST   /files          multipart upload under an auto-generated key
//	POST   /uploads        multipart upload named through the upload field
//	GET    /files          list keys (requires a Lister backend)
//	GET    /files/{key}    stream file content
//	DELETE /files/{key}    delete a file
//	GET    /urls/{key}     resolve the public or signed URL
//	GET    /health/live    liveness probe
//	GET    /health/ready   readiness probe running configured checks
package fileserver
