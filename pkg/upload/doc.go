// Package upload generates destination names for uploaded files by
// delegating naming decisions to a storage backend.
//
// A Field combines a backend with an upload target: either a literal path
// template (strftime directives expanded at upload time) or a function
// computing the destination from the owning record and the raw filename.
//
//	store, _ := storage.NewDisk(storage.DiskConfig{Root: "/var/uploads"})
//
//	avatars := upload.New(store, upload.To("avatars/%Y/%m/"))
//	name := avatars.GenerateFilename(nil, "me and my dog.png")
//	// avatars/2025/01/me_and_my_dog.png
//
//	docs := upload.New(store, upload.ToFunc(func(owner any, filename string) string {
//		return "users/" + owner.(User).ID + "/" + filename
//	}))
//
// On a key-based backend (S3, Redis, Postgres, memory) the backend builds
// the key itself by plain concatenation, so keys with spaces, backslashes or
// other odd characters survive byte-for-byte:
//
//	s3store, _ := storage.New(storage.Config{KeyPrefix: "mybucket-files/", ...})
//	f := upload.New(s3store, upload.To("not/a/folder/"))
//	key := f.GenerateFilename(nil, `my-file-key\with odd characters`)
//	// mybucket-files/not/a/folder/my-file-key\with odd characters
package upload
